package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/geometry"
	"github.com/wizgrao/pathtrace/pkg/material"
)

func sphereAt(x float64) *Solid {
	return NewSolid(geometry.NewSphere(core.NewVec3(x, 0, 0), 0.1), material.NewLambertian(core.NewVec3(1, 1, 1)))
}

func TestBVH_FindsNearestHitAmongManySpheres(t *testing.T) {
	var items []Object
	for i := 0; i < 200; i++ {
		items = append(items, sphereAt(float64(i)))
	}
	bvh := NewBVH(items, 1)

	ray := core.Ray{Origin: core.NewVec3(0, 0, -5), Direction: core.NewVec3(0, 0, 1)}
	hit, _, ok := bvh.Intersect(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Point.X) > 1e-6 {
		t.Errorf("expected nearest hit at x=0, got %v", hit.Point)
	}
}

func TestBVH_MatchesGroupIntersection(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	var items []Object
	for i := 0; i < 50; i++ {
		x := rnd.Float64()*20 - 10
		items = append(items, sphereAt(x))
	}
	bvh := NewBVH(items, 1)
	group := NewGroup(items...)

	for i := 0; i < 100; i++ {
		origin := core.NewVec3(rnd.Float64()*30-15, rnd.Float64()*4-2, -10)
		ray := core.Ray{Origin: origin, Direction: core.NewVec3(0, 0, 1)}

		bvhHit, _, bvhOk := bvh.Intersect(ray, 0.001, math.Inf(1))
		groupHit, _, groupOk := group.Intersect(ray, 0.001, math.Inf(1))

		if bvhOk != groupOk {
			t.Fatalf("case %d: bvh hit=%v, group hit=%v", i, bvhOk, groupOk)
		}
		if bvhOk && math.Abs(bvhHit.T-groupHit.T) > 1e-9 {
			t.Errorf("case %d: bvh T=%v, group T=%v", i, bvhHit.T, groupHit.T)
		}
	}
}

func TestBVH_RespectsMinLeafSize(t *testing.T) {
	var items []Object
	for i := 0; i < 10; i++ {
		items = append(items, sphereAt(float64(i)))
	}
	bvh := NewBVH(items, 4)
	if _, ok := bvh.root.(*Group); len(items) <= 4 && !ok {
		t.Skip("not applicable")
	}

	var countLeaves func(o Object) int
	countLeaves = func(o Object) int {
		switch n := o.(type) {
		case *bvhBranch:
			return countLeaves(n.left) + countLeaves(n.right)
		case *Group:
			if len(n.Children) > 4 {
				t.Errorf("leaf group holds %d items, want at most minLeafSize 4", len(n.Children))
			}
			return 1
		case *bvhLeaf:
			return 1
		default:
			return 1
		}
	}
	if n := countLeaves(bvh.root); n == 0 {
		t.Fatal("expected at least one leaf")
	}
}

func TestBVH_EmptyScene(t *testing.T) {
	bvh := NewBVH(nil, 1)
	ray := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: core.NewVec3(0, 0, 1)}
	if _, _, ok := bvh.Intersect(ray, 0.001, math.Inf(1)); ok {
		t.Fatal("empty BVH should never report a hit")
	}
}

func TestBVH_SingleItem(t *testing.T) {
	bvh := NewBVH([]Object{sphereAt(0)}, 1)
	ray := core.Ray{Origin: core.NewVec3(0, 0, -5), Direction: core.NewVec3(0, 0, 1)}
	if _, _, ok := bvh.Intersect(ray, 0.001, math.Inf(1)); !ok {
		t.Fatal("expected a hit against the single sphere")
	}
}
