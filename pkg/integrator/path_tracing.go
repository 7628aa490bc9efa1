package integrator

import (
	"math"
	"math/rand"

	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/geometry"
	"github.com/wizgrao/pathtrace/pkg/lights"
	"github.com/wizgrao/pathtrace/pkg/material"
	"github.com/wizgrao/pathtrace/pkg/scene"
)

// PathTracingIntegrator estimates outgoing radiance along camera rays by
// unidirectional Monte Carlo path tracing: zero-bounce emission, fixed-
// probability Russian roulette termination, and either BSDF sampling alone or
// BSDF sampling combined with next-event estimation against Light.
type PathTracingIntegrator struct {
	Scene scene.Object
	Light lights.Light
}

// NewPathTracingIntegrator creates an integrator over the given scene and
// light sampler. Light may be nil, in which case next-event estimation
// contributes nothing: with Imp set, oneBounceImp returns zero and no
// BSDF-sampled direct lighting is gathered in its place.
func NewPathTracingIntegrator(sc scene.Object, light lights.Light) *PathTracingIntegrator {
	return &PathTracingIntegrator{Scene: sc, Light: light}
}

// EstimatedTotalRadiance estimates the radiance arriving along ray.
func (p *PathTracingIntegrator) EstimatedTotalRadiance(ctx RenderContext, ray core.Ray, rnd *rand.Rand) core.Vec3 {
	hit, bsdf, ok := p.Scene.Intersect(ray, shadowEpsilon, math.Inf(1))
	if !ok {
		return core.Vec3{}
	}
	if ctx.Preview {
		return core.NewVec3(math.Abs(hit.Normal.X), math.Abs(hit.Normal.Y), math.Abs(hit.Normal.Z))
	}
	return p.zeroBounce(ray, hit, bsdf).Add(p.atLeastOneBounce(ctx, ray, hit, bsdf, 0, rnd))
}

// zeroBounce returns the radiance emitted by the hit surface directly toward
// the incoming ray's origin.
func (p *PathTracingIntegrator) zeroBounce(ray core.Ray, hit geometry.Intersection, bsdf material.BSDF) core.Vec3 {
	frame := hit.Frame()
	wo := frame.ToLocal(ray.Direction.Negate())
	return bsdf.Le(wo)
}

func (p *PathTracingIntegrator) atLeastOneBounce(ctx RenderContext, ray core.Ray, hit geometry.Intersection, bsdf material.BSDF, depth int, rnd *rand.Rand) core.Vec3 {
	if depth >= ctx.MaxBounces {
		return core.Vec3{}
	}

	var one core.Vec3
	if ctx.Imp {
		one = p.oneBounceImp(ctx, ray, hit, bsdf, rnd)
	} else {
		one = p.oneBounce(ctx, ray, hit, bsdf, depth, rnd)
	}

	if rnd.Float64() < ctx.TerminationP {
		return one
	}

	frame := hit.Frame()
	wo := frame.ToLocal(ray.Direction.Negate())
	pdf, wiLocal := bsdf.SampleWi(wo, rnd)
	if pdf <= 0 {
		return one
	}
	wiWorld := frame.ToWorld(wiLocal)
	nextRay := core.Ray{Origin: hit.Point.Add(wiWorld.Multiply(shadowEpsilon)), Direction: wiWorld}

	nextHit, nextBSDF, ok := p.Scene.Intersect(nextRay, shadowEpsilon, math.Inf(1))
	if !ok {
		return one
	}

	lNext := p.atLeastOneBounce(ctx, nextRay, nextHit, nextBSDF, depth+1, rnd)
	fr := bsdf.Fr(wo, wiLocal)
	weight := wiLocal.Z / (pdf * (1 - ctx.TerminationP))
	return one.Add(fr.MultiplyVec(lNext).Multiply(weight))
}

// oneBounce samples a single BSDF direction and reports radiance only if
// that ray happens to strike an emissive surface; it performs no light
// sampling.
func (p *PathTracingIntegrator) oneBounce(ctx RenderContext, ray core.Ray, hit geometry.Intersection, bsdf material.BSDF, depth int, rnd *rand.Rand) core.Vec3 {
	frame := hit.Frame()
	wo := frame.ToLocal(ray.Direction.Negate())
	pdf, wi := bsdf.SampleWi(wo, rnd)
	if pdf <= 0 {
		return core.Vec3{}
	}
	wiWorld := frame.ToWorld(wi)
	nextRay := core.Ray{Origin: hit.Point.Add(wiWorld.Multiply(shadowEpsilon)), Direction: wiWorld}

	nextHit, nextBSDF, ok := p.Scene.Intersect(nextRay, shadowEpsilon, math.Inf(1))
	if !ok {
		return core.Vec3{}
	}
	fr := bsdf.Fr(wo, wi)
	le := p.zeroBounce(nextRay, nextHit, nextBSDF)
	return fr.MultiplyVec(le).Multiply(wi.Z / pdf)
}

// oneBounceImp estimates direct lighting via next-event estimation: it
// samples the scene's light directly instead of relying on a BSDF sample
// happening to strike an emitter.
func (p *PathTracingIntegrator) oneBounceImp(ctx RenderContext, ray core.Ray, hit geometry.Intersection, bsdf material.BSDF, rnd *rand.Rand) core.Vec3 {
	if p.Light == nil || ctx.LightSamples <= 0 {
		return core.Vec3{}
	}

	frame := hit.Frame()
	wo := frame.ToLocal(ray.Direction.Negate())

	sum := core.Vec3{}
	for i := 0; i < ctx.LightSamples; i++ {
		photon, lightPdf := p.Light.Sample(hit.Point, rnd)
		if lightPdf <= 0 {
			continue
		}

		shadowRay := jitterRay(photon.Ray)
		shadowHit, _, ok := p.Scene.Intersect(shadowRay, 0, math.Inf(1))
		if !ok || shadowHit.Point.Subtract(hit.Point).Length() > shadowEpsilon {
			continue
		}

		cosSurf := hit.Normal.AbsDot(photon.Ray.Direction.Negate())
		d2 := hit.Point.Subtract(photon.Ray.Origin).LengthSquared()
		wiLocal := frame.ToLocal(photon.Ray.Direction.Negate())
		fr := bsdf.Fr(wo, wiLocal)

		contribution := fr.MultiplyVec(photon.Radiance).Multiply(cosSurf / (lightPdf * d2))
		sum = sum.Add(contribution)
	}
	return sum.Multiply(1.0 / float64(ctx.LightSamples))
}

// jitterRay offsets a ray's origin along its own direction by shadowEpsilon,
// avoiding immediate self-intersection with the surface it was cast from.
func jitterRay(r core.Ray) core.Ray {
	return core.Ray{Origin: r.Origin.Add(r.Direction.Multiply(shadowEpsilon)), Direction: r.Direction}
}
