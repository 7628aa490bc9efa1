package material

import (
	"math/rand"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// Emissive is a light-emitting, non-reflective BSDF.
type Emissive struct {
	Emission core.Vec3
}

// NewEmissive creates an emissive BSDF with the given radiance.
func NewEmissive(emission core.Vec3) *Emissive {
	return &Emissive{Emission: emission}
}

// SampleWi returns a hemisphere sample for interface uniformity; emissive
// surfaces terminate a path so the result is never used to continue it.
func (e *Emissive) SampleWi(wo core.Vec3, rnd *rand.Rand) (float64, core.Vec3) {
	return core.HemispherePDF, core.RandomOnUnitHemisphere(rnd)
}

// Fr is zero; emissive surfaces don't reflect.
func (e *Emissive) Fr(wo, wi core.Vec3) core.Vec3 {
	return core.Vec3{}
}

// Le returns the emitted radiance regardless of outgoing direction.
func (e *Emissive) Le(wo core.Vec3) core.Vec3 {
	return e.Emission
}
