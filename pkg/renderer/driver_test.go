package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/integrator"
)

type constantRadiance struct {
	value core.Vec3
}

func (c constantRadiance) EstimatedTotalRadiance(ctx integrator.RenderContext, ray core.Ray, rnd *rand.Rand) core.Vec3 {
	return c.value
}

func TestToneMap_ZeroIsBlack(t *testing.T) {
	got := toneMap(core.Vec3{})
	if got.R != 0 || got.G != 0 || got.B != 0 || got.A != 255 {
		t.Errorf("toneMap(0) = %+v, want black opaque", got)
	}
}

func TestToneMap_LargeValuesClampTowardWhite(t *testing.T) {
	got := toneMap(core.NewVec3(1e6, 1e6, 1e6))
	if got.R < 250 || got.G < 250 || got.B < 250 {
		t.Errorf("toneMap(huge) = %+v, want near-white", got)
	}
}

func TestRender_ProducesCorrectDimensions(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 0, 1, 10, math.Pi/4, 1)
	integ := constantRadiance{value: core.NewVec3(1, 1, 1)}
	img := Render(cam, integ, integrator.RenderContext{}, RenderOptions{Width: 8, Height: 6, Antialias: 1, Workers: 2})

	bounds := img.Bounds()
	if bounds.Dx() != 8 || bounds.Dy() != 6 {
		t.Errorf("image dims = %dx%d, want 8x6", bounds.Dx(), bounds.Dy())
	}
}

func TestRender_ConstantRadianceProducesUniformImage(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 0, 1, 10, math.Pi/4, 1)
	integ := constantRadiance{value: core.NewVec3(1, 1, 1)}
	img := Render(cam, integ, integrator.RenderContext{}, RenderOptions{Width: 4, Height: 4, Antialias: 2, Workers: 1})

	want := img.RGBAAt(0, 0)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestRenderSupersampled_ProducesTargetDimensions(t *testing.T) {
	cam := NewCamera(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), 0, 1, 10, math.Pi/4, 1)
	integ := constantRadiance{value: core.NewVec3(0.5, 0.5, 0.5)}
	img := RenderSupersampled(cam, integ, integrator.RenderContext{}, RenderOptions{Width: 6, Height: 4, Antialias: 1, Workers: 2}, 3)

	bounds := img.Bounds()
	if bounds.Dx() != 6 || bounds.Dy() != 4 {
		t.Errorf("supersampled image dims = %dx%d, want 6x4", bounds.Dx(), bounds.Dy())
	}
}
