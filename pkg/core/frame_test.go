package core

import (
	"math"
	"testing"
)

func TestFrame_ToWorldAndBackIsIdentity(t *testing.T) {
	normal := NewVec3(0, 0, 1)
	tangent := NewVec3(1, 0, 0)
	frame := NewFrame(normal, tangent)

	local := NewVec3(0.3, -0.5, 0.8).Normalize()
	world := frame.ToWorld(local)
	back := frame.ToLocal(world)

	if !back.Equals(local) {
		t.Errorf("ToLocal(ToWorld(v)) = %v, want %v", back, local)
	}
}

func TestFrame_NormalMapsToLocalZ(t *testing.T) {
	normal := NewVec3(0, 1, 0).Normalize()
	tangent := NewVec3(1, 0, 0)
	frame := NewFrame(normal, tangent)

	local := frame.ToLocal(normal)
	if math.Abs(local.Z-1) > 1e-9 || math.Abs(local.X) > 1e-9 || math.Abs(local.Y) > 1e-9 {
		t.Errorf("ToLocal(normal) = %v, want (0,0,1)", local)
	}
}

func TestMatrix3_InverseUndoesScale(t *testing.T) {
	m := Scale3(2, 3, 4)
	inv := m.Inverse()
	v := NewVec3(1, 1, 1)
	roundTrip := inv.MulVec(m.MulVec(v))
	if !roundTrip.Equals(v) {
		t.Errorf("Inverse(Scale3)*Scale3*v = %v, want %v", roundTrip, v)
	}
}

func TestMatrix3_TransposeIsInverseForOrthonormalBasis(t *testing.T) {
	normal := NewVec3(0, 0, 1)
	tangent := NewVec3(1, 0, 0)
	frame := NewFrame(normal, tangent)
	m := Matrix3{Col0: frame.S, Col1: frame.B, Col2: frame.N}

	identity := m.Mul(m.Transpose())
	id := Identity3()
	if !identity.Col0.Equals(id.Col0) || !identity.Col1.Equals(id.Col1) || !identity.Col2.Equals(id.Col2) {
		t.Errorf("M*M^T = %+v, want identity", identity)
	}
}
