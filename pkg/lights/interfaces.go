// Package lights implements next-event-estimation light sampling: sampling a
// point on a light's surface as seen from a shading point and reporting the
// photon (ray + radiance) that arrives there along with its sampling density.
package lights

import (
	"math/rand"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// Photon is a sampled contribution from a light: a ray running from the
// sampled light-surface point toward the shading point, carrying radiance.
type Photon struct {
	Ray      core.Ray
	Radiance core.Vec3
}

// Light samples a Photon visible from point, along with the density of that
// sample under the light's sampling strategy.
type Light interface {
	Sample(point core.Vec3, rnd *rand.Rand) (Photon, float64)
}
