// Package geometry implements the ray/primitive intersectors: the sphere,
// plane and triangle analytic tests that every higher-level scene object is
// ultimately built from.
package geometry

import "github.com/wizgrao/pathtrace/pkg/core"

// Intersection describes where a ray met a primitive's surface. Normal and
// Tangent are unit length and mutually orthogonal; Bitangent (normal x
// tangent) completes a right-handed local frame.
type Intersection struct {
	Point   core.Vec3
	Normal  core.Vec3
	Tangent core.Vec3
	T       float64
}

// Frame returns the orthonormal object-space frame at this intersection.
func (i Intersection) Frame() core.Frame {
	return core.NewFrame(i.Normal, i.Tangent)
}

// Intersectable is a raw, material-free ray intersector: a sphere, a plane
// or a triangle.
type Intersectable interface {
	Intersect(ray core.Ray, tMin, tMax float64) (Intersection, bool)
	BoundingBox() core.AABB
}

// Midpoint returns the center of a's bounding box.
func Midpoint(a Intersectable) core.Vec3 {
	box := a.BoundingBox()
	return box.Center()
}
