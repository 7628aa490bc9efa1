package geometry

import (
	"math"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// Sphere is an analytic sphere intersector.
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a sphere.
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: radius}
}

// Intersect solves the ray/sphere quadratic and returns the nearest root in
// [tMin, tMax]. The tangent is chosen to avoid degeneracy when the normal
// lies close to the z axis.
func (s *Sphere) Intersect(ray core.Ray, tMin, tMax float64) (Intersection, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return Intersection{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return Intersection{}, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	return Intersection{
		Point:   point,
		Normal:  normal,
		Tangent: sphereTangent(normal),
		T:       root,
	}, true
}

// sphereTangent picks a unit vector orthogonal to normal. Using (ny,-nx,0)
// degenerates as normal approaches +-Z, so that branch switches to
// (0,nz,-ny) instead.
func sphereTangent(normal core.Vec3) core.Vec3 {
	if normal.Z*normal.Z < 0.95 {
		return core.NewVec3(normal.Y, -normal.X, 0).Normalize()
	}
	return core.NewVec3(0, normal.Z, -normal.Y).Normalize()
}

// BoundingBox returns the axis-aligned bounding box of the sphere.
func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}
