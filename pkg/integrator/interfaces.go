// Package integrator implements the Monte Carlo path tracing estimator: zero-
// bounce emission plus at-least-one-bounce indirect radiance with fixed-
// probability Russian-roulette termination, and an optional next-event
// estimation strategy that samples the scene's lights directly.
package integrator

// shadowEpsilon is the self-intersection offset used both to jitter rays off
// their originating surface and to decide whether a shadow ray's hit landed
// back on the shading point it was aimed at.
const shadowEpsilon = 1e-4

// RenderContext is the immutable per-frame configuration shared by every
// worker goroutine during a render.
type RenderContext struct {
	Imp          bool
	MaxBounces   int
	TerminationP float64
	LightSamples int
	Preview      bool
}
