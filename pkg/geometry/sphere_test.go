package geometry

import (
	"math"
	"testing"

	"github.com/wizgrao/pathtrace/pkg/core"
)

func TestSphere_Intersect_Hit(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 5), 1)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	hit, ok := s.Intersect(ray, 0.001, math.Inf(1))
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.T-4) > 1e-9 {
		t.Errorf("T = %v, want 4", hit.T)
	}
	if !hit.Normal.Equals(core.NewVec3(0, 0, -1)) {
		t.Errorf("Normal = %v, want (0,0,-1)", hit.Normal)
	}
}

func TestSphere_Intersect_Miss(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, 5), 1)
	ray := core.NewRay(core.NewVec3(0, 10, 0), core.NewVec3(0, 0, 1))
	if _, ok := s.Intersect(ray, 0.001, math.Inf(1)); ok {
		t.Fatal("expected a miss")
	}
}

func TestSphere_Intersect_NormalAndTangentOrthonormal(t *testing.T) {
	s := NewSphere(core.NewVec3(1, 2, 3), 2.5)
	dirs := []core.Vec3{
		core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0.3, 0.3, 0.9).Normalize(),
	}
	for _, d := range dirs {
		ray := core.NewRay(s.Center.Subtract(d.Multiply(10)), d)
		hit, ok := s.Intersect(ray, 0.001, math.Inf(1))
		if !ok {
			t.Fatalf("expected hit along %v", d)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Errorf("|normal| = %v, want 1", hit.Normal.Length())
		}
		if math.Abs(hit.Tangent.Length()-1) > 1e-9 {
			t.Errorf("|tangent| = %v, want 1", hit.Tangent.Length())
		}
		if math.Abs(hit.Normal.Dot(hit.Tangent)) > 1e-9 {
			t.Errorf("normal.tangent = %v, want 0", hit.Normal.Dot(hit.Tangent))
		}
	}
}

func TestSphere_BoundingBox(t *testing.T) {
	s := NewSphere(core.NewVec3(1, 2, 3), 2)
	box := s.BoundingBox()
	if !box.Min.Equals(core.NewVec3(-1, 0, 1)) || !box.Max.Equals(core.NewVec3(3, 4, 5)) {
		t.Errorf("BoundingBox = %v, want min(-1,0,1) max(3,4,5)", box)
	}
}
