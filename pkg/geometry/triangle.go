package geometry

import (
	"github.com/wizgrao/pathtrace/pkg/core"
)

// Triangle is a single triangle intersector. Its normal and tangent are
// computed once at construction from the winding of V0,V1,V2 and cached.
type Triangle struct {
	V0, V1, V2 core.Vec3
	normal     core.Vec3
	tangent    core.Vec3
	bbox       core.AABB
}

// NewTriangle creates a triangle from three vertices.
func NewTriangle(v0, v1, v2 core.Vec3) *Triangle {
	e1 := v1.Subtract(v0)
	e2 := v2.Subtract(v0)
	return &Triangle{
		V0: v0, V1: v1, V2: v2,
		normal:  e1.Cross(e2).Normalize(),
		tangent: e1.Normalize(),
		bbox:    core.NewAABBFromPoints(v0, v1, v2),
	}
}

// Intersect implements the Möller-Trumbore ray/triangle test. No back-face
// culling: a is allowed to be either sign.
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	const epsilon = 1e-8

	e1 := t.V1.Subtract(t.V0)
	e2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(e2)
	a := e1.Dot(h)
	if a > -epsilon && a < epsilon {
		return Intersection{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	b1 := f * s.Dot(h)
	if b1 < 0 || b1 > 1 {
		return Intersection{}, false
	}

	q := s.Cross(e1)
	b2 := f * ray.Direction.Dot(q)
	if b2 < 0 || b1+b2 > 1 {
		return Intersection{}, false
	}

	hitT := f * e2.Dot(q)
	if hitT < tMin || hitT > tMax {
		return Intersection{}, false
	}

	return Intersection{
		Point:   ray.At(hitT),
		Normal:  t.normal,
		Tangent: t.tangent,
		T:       hitT,
	}, true
}

// BoundingBox returns the cached AABB of this triangle.
func (t *Triangle) BoundingBox() core.AABB {
	return t.bbox
}

// Normal returns the triangle's (precomputed) face normal.
func (t *Triangle) Normal() core.Vec3 {
	return t.normal
}
