package material

import (
	"testing"

	"github.com/wizgrao/pathtrace/pkg/core"
)

func TestEmissive_Le_ReturnsEmissionRegardlessOfDirection(t *testing.T) {
	e := NewEmissive(core.NewVec3(2, 1, 0.5))
	for _, wo := range []core.Vec3{core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, -1, 0)} {
		if got := e.Le(wo); !got.Equals(e.Emission) {
			t.Errorf("Le(%v) = %v, want %v", wo, got, e.Emission)
		}
	}
}

func TestEmissive_Fr_IsZero(t *testing.T) {
	e := NewEmissive(core.NewVec3(1, 1, 1))
	if !e.Fr(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1)).IsZero() {
		t.Error("Emissive.Fr should be zero")
	}
}
