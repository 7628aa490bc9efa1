// Package scene assembles the intersectors of pkg/geometry and the BSDFs of
// pkg/material into the renderable scene graph: Solid (shape + material),
// Group (ordered children), TransformedObject (affine transform node), and
// the BVH that accelerates traversal of large groups.
package scene

import (
	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/geometry"
	"github.com/wizgrao/pathtrace/pkg/material"
)

// Object is anything the scene graph can intersect: a single shape, a group
// of objects, a transformed subtree, or a BVH node.
type Object interface {
	Intersect(ray core.Ray, tMin, tMax float64) (geometry.Intersection, material.BSDF, bool)
	BoundingBox() core.AABB
}

// Solid pairs a raw intersectable shape with the BSDF it shares with every
// other solid built from the same mesh or material definition.
type Solid struct {
	Shape geometry.Intersectable
	BSDF  material.BSDF
}

// NewSolid creates a Solid.
func NewSolid(shape geometry.Intersectable, bsdf material.BSDF) *Solid {
	return &Solid{Shape: shape, BSDF: bsdf}
}

func (s *Solid) Intersect(ray core.Ray, tMin, tMax float64) (geometry.Intersection, material.BSDF, bool) {
	hit, ok := s.Shape.Intersect(ray, tMin, tMax)
	if !ok {
		return geometry.Intersection{}, nil, false
	}
	return hit, s.BSDF, true
}

func (s *Solid) BoundingBox() core.AABB {
	return s.Shape.BoundingBox()
}

// Group is an ordered, unaccelerated collection of children; Intersect
// returns whichever child hit has the smallest T. Small scenes and BVH
// leaves' siblings use this directly; large meshes should go through a BVH
// instead.
type Group struct {
	Children []Object
}

// NewGroup creates a Group.
func NewGroup(children ...Object) *Group {
	return &Group{Children: children}
}

// Add appends a child object.
func (g *Group) Add(o Object) {
	g.Children = append(g.Children, o)
}

func (g *Group) Intersect(ray core.Ray, tMin, tMax float64) (geometry.Intersection, material.BSDF, bool) {
	var (
		closest    geometry.Intersection
		closestMat material.BSDF
		hitAny     bool
		nearest    = tMax
	)
	for _, child := range g.Children {
		hit, bsdf, ok := child.Intersect(ray, tMin, nearest)
		if !ok {
			continue
		}
		closest, closestMat, hitAny = hit, bsdf, true
		nearest = hit.T
	}
	return closest, closestMat, hitAny
}

func (g *Group) BoundingBox() core.AABB {
	if len(g.Children) == 0 {
		return core.AABB{}
	}
	box := g.Children[0].BoundingBox()
	for _, child := range g.Children[1:] {
		box = box.Union(child.BoundingBox())
	}
	return box
}

// TransformedObject applies an affine transform (Linear, Translation) to a
// child object: world = Linear*local + Translation. Rays are mapped into
// local space before intersecting the child, and the resulting intersection
// geometry is mapped back into world space afterward, using Linear's
// inverse-transpose for the normal so non-uniform scales stay correct.
type TransformedObject struct {
	Child       Object
	Linear      core.Matrix3
	Translation core.Vec3

	inverse         core.Matrix3
	normalTransform core.Matrix3
}

// NewTransformedObject creates a TransformedObject, precomputing the
// matrices Intersect needs on every call.
func NewTransformedObject(child Object, linear core.Matrix3, translation core.Vec3) *TransformedObject {
	inv := linear.Inverse()
	return &TransformedObject{
		Child:           child,
		Linear:          linear,
		Translation:     translation,
		inverse:         inv,
		normalTransform: inv.Transpose(),
	}
}

func (t *TransformedObject) toLocal(ray core.Ray) core.Ray {
	origin := t.inverse.MulVec(ray.Origin.Subtract(t.Translation))
	dir := t.inverse.MulVec(ray.Direction)
	return core.Ray{Origin: origin, Direction: dir}
}

func (t *TransformedObject) Intersect(ray core.Ray, tMin, tMax float64) (geometry.Intersection, material.BSDF, bool) {
	localRay := t.toLocal(ray)
	// localRay.Direction is not renormalized, so a local parameter t names
	// the same point as the world parameter t and tMin/tMax pass through
	// unchanged; the hit T is still re-derived from the world-space point.
	localDirLen := localRay.Direction.Length()
	if localDirLen == 0 {
		return geometry.Intersection{}, nil, false
	}
	localHit, bsdf, ok := t.Child.Intersect(localRay, tMin, tMax)
	if !ok {
		return geometry.Intersection{}, nil, false
	}

	worldPoint := t.Linear.MulVec(localHit.Point).Add(t.Translation)
	worldNormal := t.normalTransform.MulVec(localHit.Normal).Normalize()
	worldTangent := t.Linear.MulVec(localHit.Tangent)
	worldTangent = worldTangent.Subtract(worldNormal.Multiply(worldTangent.Dot(worldNormal))).Normalize()
	worldT := worldPoint.Subtract(ray.Origin).Dot(ray.Direction)

	return geometry.Intersection{
		Point:   worldPoint,
		Normal:  worldNormal,
		Tangent: worldTangent,
		T:       worldT,
	}, bsdf, true
}

func (t *TransformedObject) BoundingBox() core.AABB {
	local := t.Child.BoundingBox()
	corners := [8]core.Vec3{
		{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Max.Z},
	}
	world := make([]core.Vec3, len(corners))
	for i, c := range corners {
		world[i] = t.Linear.MulVec(c).Add(t.Translation)
	}
	return core.NewAABBFromPoints(world...)
}
