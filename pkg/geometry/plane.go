package geometry

import (
	"math"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// Plane is an infinite plane defined by a point, a unit normal, and a unit
// tangent orthogonal to the normal.
type Plane struct {
	Point   core.Vec3
	Normal  core.Vec3
	Tangent core.Vec3
}

// NewPlane creates a plane. tangent is re-orthogonalized against normal and
// normalized so callers don't need to hand-derive an exact basis.
func NewPlane(point, normal, tangent core.Vec3) *Plane {
	n := normal.Normalize()
	t := tangent.Subtract(n.Multiply(tangent.Dot(n))).Normalize()
	return &Plane{Point: point, Normal: n, Tangent: t}
}

// Intersect solves n.(p - x0) = 0 along the ray.
func (p *Plane) Intersect(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	denom := ray.Direction.Dot(p.Normal)
	if math.Abs(denom) < 1e-8 {
		return Intersection{}, false
	}
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denom
	if t < tMin || t > tMax {
		return Intersection{}, false
	}
	return Intersection{
		Point:   ray.At(t),
		Normal:  p.Normal,
		Tangent: p.Tangent,
		T:       t,
	}, true
}

// BoundingBox returns an unbounded-but-representable box; an infinite plane
// has no finite extent, so this returns a box large enough to always be
// conservative for BVH purposes without actually carrying +-Inf through
// arithmetic.
func (p *Plane) BoundingBox() core.AABB {
	const big = 1e6
	return core.NewAABB(core.NewVec3(-big, -big, -big), core.NewVec3(big, big, big))
}
