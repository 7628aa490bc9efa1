package material

import (
	"math"
	"math/rand"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// Lambertian is a perfectly diffuse BSDF: fr = albedo/pi, uniform over the
// hemisphere. Incident directions are drawn uniformly (not cosine-weighted);
// the integrator applies the cosine term itself.
type Lambertian struct {
	Albedo core.Vec3
}

// NewLambertian creates a Lambertian BSDF with the given albedo in [0,1]^3.
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// SampleWi draws a uniformly distributed direction over the upper
// hemisphere (+Z) with density 1/(2*pi).
func (l *Lambertian) SampleWi(wo core.Vec3, rnd *rand.Rand) (float64, core.Vec3) {
	return core.HemispherePDF, core.RandomOnUnitHemisphere(rnd)
}

// Fr returns the constant reflectance albedo/pi.
func (l *Lambertian) Fr(wo, wi core.Vec3) core.Vec3 {
	return l.Albedo.Multiply(1.0 / math.Pi)
}

// Le is zero; Lambertian surfaces don't emit.
func (l *Lambertian) Le(wo core.Vec3) core.Vec3 {
	return core.Vec3{}
}
