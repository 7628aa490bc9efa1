package lights

import (
	"math"
	"math/rand"

	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/geometry"
)

// SphereLight is an area light shaped like a sphere, sampled uniformly over
// its full surface (not restricted to the hemisphere facing the shading
// point, unlike a cosine- or cone-weighted sampler would be).
type SphereLight struct {
	Sphere   *geometry.Sphere
	Emission core.Vec3
}

// NewSphereLight creates a spherical light of the given emitted radiance.
func NewSphereLight(sphere *geometry.Sphere, emission core.Vec3) *SphereLight {
	return &SphereLight{Sphere: sphere, Emission: emission}
}

// Sample draws a point uniformly over the full sphere surface and returns the
// photon arriving at point from it. Samples landing on the far side of the
// sphere (cos theta <= 0) legitimately contribute zero radiance rather than
// being rejected or resampled.
func (s *SphereLight) Sample(point core.Vec3, rnd *rand.Rand) (Photon, float64) {
	v := core.RandomOnUnitSphere(rnd)
	q := s.Sphere.Center.Add(v.Multiply(s.Sphere.Radius))

	d := point.Subtract(q).Normalize()
	cosTheta := math.Max(0, d.Dot(v))

	density := core.SphereUniformPDF(s.Sphere.Radius)
	radiance := s.Emission.Multiply(cosTheta)

	photon := Photon{
		Ray:      core.Ray{Origin: q, Direction: d},
		Radiance: radiance,
	}
	return photon, density
}
