package renderer

import (
	"math"
	"math/rand"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// Camera is a thin-lens camera: rays originate on a sampled lens disk and
// converge through a virtual sensor plane toward a focal plane, producing
// defocus blur proportional to LensRadius.
type Camera struct {
	LensOrigin    core.Vec3
	LensDirection core.Vec3 // unit, points into the scene
	LensRadius    float64
	FocalLength   float64
	FocusDistance float64

	SensorOrigin core.Vec3
	SensorX      core.Vec3 // sensor half-extent along camera-right
	SensorY      core.Vec3 // sensor half-extent along camera-up

	lensE1, lensE2 core.Vec3
}

// NewCamera builds a thin-lens camera. up need not be orthogonal to
// direction; it is only used to derive a right vector.
func NewCamera(lensOrigin, direction, up core.Vec3, lensRadius, focalLength, focusDistance, fov, aspect float64) *Camera {
	dir := direction.Normalize()

	right := dir.Cross(up).Normalize()
	camUp := right.Cross(dir).Normalize()

	halfHeight := focusDistance * math.Tan(fov/2)
	halfWidth := halfHeight * aspect

	sensorDistance := 1.0 / (1.0/focalLength - 1.0/focusDistance)
	sensorOrigin := lensOrigin.Subtract(dir.Multiply(sensorDistance))

	e1, e2 := lensBasis(dir)

	return &Camera{
		LensOrigin:    lensOrigin,
		LensDirection: dir,
		LensRadius:    lensRadius,
		FocalLength:   focalLength,
		FocusDistance: focusDistance,
		SensorOrigin:  sensorOrigin,
		SensorX:       right.Multiply(halfWidth),
		SensorY:       camUp.Multiply(halfHeight),
		lensE1:        e1,
		lensE2:        e2,
	}
}

// lensBasis derives two vectors orthogonal to dir (and each other) from any
// world axis not nearly parallel to it.
func lensBasis(dir core.Vec3) (core.Vec3, core.Vec3) {
	helper := core.NewVec3(0, 1, 0)
	if math.Abs(dir.Dot(helper)) > 0.95 {
		helper = core.NewVec3(1, 0, 0)
	}
	e1 := dir.Cross(helper).Normalize()
	e2 := dir.Cross(e1).Normalize()
	return e1, e2
}

// GetRay samples a ray for sensor coordinates (u,v) in [-1,1]^2, jittering
// the lens point over a disk of radius LensRadius for depth-of-field blur.
func (c *Camera) GetRay(u, v float64, rnd *rand.Rand) core.Ray {
	sensorPoint := c.SensorOrigin.Add(c.SensorX.Multiply(u)).Add(c.SensorY.Multiply(v))

	lensPoint := c.LensOrigin
	if c.LensRadius > 0 {
		dx, dy := core.RandomInUnitDisk(rnd)
		lensPoint = lensPoint.Add(c.lensE1.Multiply(dx * c.LensRadius)).Add(c.lensE2.Multiply(dy * c.LensRadius))
	}

	delta := lensPoint.Subtract(sensorPoint)
	deltaZ := delta.Dot(c.LensDirection)
	if deltaZ == 0 {
		deltaZ = 1e-9
	}
	scaled := delta.Multiply(c.FocalLength / deltaZ)
	focalPoint := sensorPoint.Subtract(scaled)

	// -normalize(p_focal) is defined relative to the lens origin, not the
	// world origin: subtract LensOrigin before negating or an
	// off-origin camera produces skewed rays.
	direction := c.LensOrigin.Subtract(focalPoint).Normalize()
	return core.Ray{Origin: lensPoint, Direction: direction}
}
