// Package material implements the BSDFs: Lambertian diffuse reflectance and
// Emissive surface light. Both operate entirely in the local shading frame,
// where +Z is the surface normal.
package material

import (
	"math/rand"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// BSDF is a bidirectional scattering distribution function evaluated in the
// local shading frame (wo, wi point away from the surface, +Z = normal).
type BSDF interface {
	// SampleWi draws an incident direction and returns its density.
	SampleWi(wo core.Vec3, rnd *rand.Rand) (pdf float64, wi core.Vec3)

	// Fr evaluates the reflectance for a given incoming/outgoing pair.
	Fr(wo, wi core.Vec3) core.Vec3

	// Le evaluates the radiance emitted toward wo. Zero for non-emissive
	// materials.
	Le(wo core.Vec3) core.Vec3
}
