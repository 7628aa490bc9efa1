package scene

import (
	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/geometry"
	"github.com/wizgrao/pathtrace/pkg/material"
)

// BVH is a static bounding-volume hierarchy over a list of Objects, built
// top-down with a spatial-median split on the longest axis (no SAH). Branch
// nodes store their bounding box. Splitting stops once a node's item count
// drops to or below minLeafSize: a single item becomes a leaf, and two or
// more become a Group scanned linearly.
type BVH struct {
	root Object
	box  core.AABB
}

type bvhLeaf struct {
	item Object
}

func (l *bvhLeaf) Intersect(ray core.Ray, tMin, tMax float64) (geometry.Intersection, material.BSDF, bool) {
	return l.item.Intersect(ray, tMin, tMax)
}

func (l *bvhLeaf) BoundingBox() core.AABB {
	return l.item.BoundingBox()
}

type bvhBranch struct {
	box         core.AABB
	left, right Object
}

func (b *bvhBranch) BoundingBox() core.AABB {
	return b.box
}

func (b *bvhBranch) Intersect(ray core.Ray, tMin, tMax float64) (geometry.Intersection, material.BSDF, bool) {
	if !b.box.Hit(ray, tMin, tMax) {
		return geometry.Intersection{}, nil, false
	}
	hit, bsdf, ok := b.left.Intersect(ray, tMin, tMax)
	if ok {
		tMax = hit.T
	}
	rHit, rBsdf, rOk := b.right.Intersect(ray, tMin, tMax)
	if rOk {
		return rHit, rBsdf, true
	}
	return hit, bsdf, ok
}

// NewBVH builds a BVH over items. minLeafSize is the item count at or below
// which construction stops and emits a leaf directly; the conventional
// single-item-per-leaf behavior is minLeafSize == 1.
func NewBVH(items []Object, minLeafSize int) *BVH {
	if minLeafSize < 1 {
		minLeafSize = 1
	}
	if len(items) == 0 {
		return &BVH{root: &Group{}, box: core.AABB{}}
	}
	root := buildBVH(items, minLeafSize)
	return &BVH{root: root, box: root.BoundingBox()}
}

func buildBVH(items []Object, minLeafSize int) Object {
	if len(items) == 1 {
		return &bvhLeaf{item: items[0]}
	}
	if len(items) <= minLeafSize {
		group := &Group{Children: items}
		return group
	}

	box := items[0].BoundingBox()
	for _, it := range items[1:] {
		box = box.Union(it.BoundingBox())
	}
	axis := box.LongestAxis()
	mid := axisComponent(box.Center(), axis)

	var left, right []Object
	for _, it := range items {
		center := axisComponent(it.BoundingBox().Center(), axis)
		if center < mid {
			left = append(left, it)
		} else {
			right = append(right, it)
		}
	}

	// Guarantee progress: a degenerate split (everything landed on one
	// side) would recurse forever on the same item set.
	if len(left) == 0 {
		left = append(left, right[0])
		right = right[1:]
	} else if len(right) == 0 {
		right = append(right, left[0])
		left = left[1:]
	}

	return &bvhBranch{
		box:   box,
		left:  buildBVH(left, minLeafSize),
		right: buildBVH(right, minLeafSize),
	}
}

func axisComponent(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (b *BVH) Intersect(ray core.Ray, tMin, tMax float64) (geometry.Intersection, material.BSDF, bool) {
	if !b.box.Hit(ray, tMin, tMax) {
		return geometry.Intersection{}, nil, false
	}
	return b.root.Intersect(ray, tMin, tMax)
}

func (b *BVH) BoundingBox() core.AABB {
	return b.box
}
