package renderer

import (
	"image"
	"image/color"
	"math/rand"

	"golang.org/x/image/draw"

	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/integrator"
)

// Radiance is anything that can estimate outgoing radiance along a camera
// ray; satisfied by *integrator.PathTracingIntegrator.
type Radiance interface {
	EstimatedTotalRadiance(ctx integrator.RenderContext, ray core.Ray, rnd *rand.Rand) core.Vec3
}

// RenderOptions configures a single driver pass.
type RenderOptions struct {
	Width, Height int
	Antialias     int // AxA jittered sub-sample grid per pixel
	Workers       int
	Seed          int64
}

// Render runs the per-pixel antialiasing loop against integ using cam for
// ray generation, returning a tone-mapped 8-bit RGBA image.
func Render(cam *Camera, integ Radiance, ctx integrator.RenderContext, opts RenderOptions) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	aa := opts.Antialias
	if aa < 1 {
		aa = 1
	}
	pool := NewWorkerPool(opts.Workers, opts.Seed)

	pool.RenderRows(opts.Height, func(y int, rnd *rand.Rand) {
		for x := 0; x < opts.Width; x++ {
			img.Set(x, y, renderPixel(cam, integ, ctx, x, y, opts.Width, opts.Height, aa, rnd))
		}
	})
	return img
}

func renderPixel(cam *Camera, integ Radiance, ctx integrator.RenderContext, px, py, width, height, aa int, rnd *rand.Rand) color.RGBA {
	sum := core.Vec3{}
	for sy := 0; sy < aa; sy++ {
		for sx := 0; sx < aa; sx++ {
			jitterX := (float64(sx) + rnd.Float64()) / float64(aa)
			jitterY := (float64(sy) + rnd.Float64()) / float64(aa)

			u := 2*((float64(px)+jitterX)/float64(width)) - 1
			v := 1 - 2*((float64(py)+jitterY)/float64(height))

			ray := cam.GetRay(u, v, rnd)
			sum = sum.Add(integ.EstimatedTotalRadiance(ctx, ray, rnd))
		}
	}
	radiance := sum.Multiply(1.0 / float64(aa*aa))
	return toneMap(radiance)
}

// toneMap applies the x/(1+x) operator componentwise and clamps to [0,1]
// before quantizing to 8-bit sRGB channels.
func toneMap(c core.Vec3) color.RGBA {
	mapped := core.NewVec3(c.X/(1+c.X), c.Y/(1+c.Y), c.Z/(1+c.Z)).Clamp(0, 1)
	return color.RGBA{
		R: uint8(mapped.X*255 + 0.5),
		G: uint8(mapped.Y*255 + 0.5),
		B: uint8(mapped.Z*255 + 0.5),
		A: 255,
	}
}

// RenderSupersampled renders at factor times the target linear resolution
// and downsamples with a Catmull-Rom filter, providing a coarser, image-
// space antialiasing knob independent of the per-pixel jitter grid used by
// Render's Antialias option.
func RenderSupersampled(cam *Camera, integ Radiance, ctx integrator.RenderContext, opts RenderOptions, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	// A thin-lens camera's ray generation is independent of output
	// resolution (the sensor rectangle is fixed in world space, not
	// pixels), so supersampling only changes how many (u,v) samples the
	// driver asks for; the camera itself needs no rescaling.
	hi := opts
	hi.Width *= factor
	hi.Height *= factor
	hiImg := Render(cam, integ, ctx, hi)

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), hiImg, hiImg.Bounds(), draw.Over, nil)
	return out
}
