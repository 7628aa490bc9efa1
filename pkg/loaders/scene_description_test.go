package loaders

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/integrator"
)

func writeTestSceneFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test scene file: %v", err)
	}
	return path
}

func TestLoadSceneDescription_CompilesCameraMaterialsAndObjects(t *testing.T) {
	path := writeTestSceneFile(t, `
camera:
  origin: [0, 0, 0]
  direction: [0, 0, 1]
  up: [0, 1, 0]
  lens_radius: 0
  focal_length: 1
  focus_distance: 10
  fov: 0.7853981633974483
  aspect: 1

materials:
  - name: wall
    albedo: [0.8, 0.8, 0.8]

lights:
  - type: sphere
    center: [0, 5, 0]
    radius: 1
    emission: [10, 10, 10]

objects:
  - type: sphere
    material: wall
    center: [0, 0, 5]
    radius: 1
`)
	desc, err := LoadSceneDescription(path)
	if err != nil {
		t.Fatalf("LoadSceneDescription: %v", err)
	}
	if desc.Camera == nil {
		t.Fatal("expected a compiled camera")
	}
	if desc.Light == nil {
		t.Fatal("expected a compiled light")
	}

	ray := core.Ray{Origin: core.NewVec3(0, 0, 0), Direction: core.NewVec3(0, 0, 1)}
	if _, _, ok := desc.Scene.Intersect(ray, 0.001, math.Inf(1)); !ok {
		t.Error("expected the compiled scene to contain the configured sphere")
	}
}

func TestLoadSceneDescription_UnknownMaterialReferenceErrors(t *testing.T) {
	path := writeTestSceneFile(t, `
camera:
  origin: [0, 0, 0]
  direction: [0, 0, 1]
  up: [0, 1, 0]
objects:
  - type: sphere
    material: missing
    center: [0, 0, 5]
    radius: 1
`)
	if _, err := LoadSceneDescription(path); err == nil {
		t.Fatal("expected an error for a reference to an undefined material")
	}
}

func TestLoadSceneDescription_RenderOverrideAppliesOnlyUnsetFields(t *testing.T) {
	bounces := 7
	size := 200
	ov := RenderOverride{Bounces: &bounces, Size: &size}

	ctx, gotSize, gotAA := ov.Apply(integrator.RenderContext{}, 0, 4)
	if ctx.MaxBounces != 7 {
		t.Errorf("MaxBounces = %d, want 7 from override", ctx.MaxBounces)
	}
	if gotSize != 200 {
		t.Errorf("size = %d, want 200 from override", gotSize)
	}
	if gotAA != 4 {
		t.Errorf("antialias = %d, want the already-set 4 to win over the override", gotAA)
	}
}
