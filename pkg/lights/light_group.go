package lights

import (
	"math/rand"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// LightGroup selects uniformly among its children and samples the chosen
// one, dividing its density by the child count so the group as a whole
// remains a properly normalized sampling strategy.
type LightGroup struct {
	Lights []Light
}

// NewLightGroup creates a LightGroup over the given lights.
func NewLightGroup(lights ...Light) *LightGroup {
	return &LightGroup{Lights: lights}
}

// Sample picks a child uniformly at random and samples it.
func (g *LightGroup) Sample(point core.Vec3, rnd *rand.Rand) (Photon, float64) {
	if len(g.Lights) == 0 {
		return Photon{}, 0
	}
	idx := rnd.Intn(len(g.Lights))
	photon, density := g.Lights[idx].Sample(point, rnd)
	return photon, density / float64(len(g.Lights))
}
