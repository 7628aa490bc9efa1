// Command pathtrace renders a scene with the Monte Carlo path tracer in
// pkg/integrator and writes the result as a PNG.
package main

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"image/png"
	"math"
	"os"
	"runtime/pprof"
	"time"

	"github.com/spf13/cobra"

	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/geometry"
	"github.com/wizgrao/pathtrace/pkg/integrator"
	"github.com/wizgrao/pathtrace/pkg/lights"
	"github.com/wizgrao/pathtrace/pkg/loaders"
	"github.com/wizgrao/pathtrace/pkg/material"
	"github.com/wizgrao/pathtrace/pkg/renderer"
	"github.com/wizgrao/pathtrace/pkg/scene"
)

// flags mirrors §6 of the spec (size, antialias, imp, preview, out, bounces,
// light_samples, min_leaf_size, termination_p, replicas, file, lens_radius)
// plus the ambient-stack additions: ply/scene-file input, supersample,
// workers, cpuprofile/memprofile, seed.
type flags struct {
	size         int
	antialias    int
	imp          bool
	preview      bool
	out          string
	bounces      int
	lightSamples int
	minLeafSize  int
	terminationP float64
	replicas     int
	file         string
	ply          string
	lensRadius   float64
	sceneFile    string
	supersample  int
	workers      int
	cpuProfile   string
	memProfile   string
	seed         int64
}

func main() {
	f := &flags{}
	root := &cobra.Command{
		Use:   "pathtrace",
		Short: "A Monte Carlo path tracer for implicit and triangulated scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(f)
		},
	}

	pf := root.Flags()
	pf.IntVar(&f.size, "size", 512, "output width in pixels; height is 2*size/3")
	pf.IntVar(&f.antialias, "antialias", 1, "antialiasing sub-sample grid edge (AxA per pixel)")
	pf.BoolVar(&f.imp, "imp", false, "enable next-event estimation (importance-sample lights)")
	pf.BoolVar(&f.preview, "preview", false, "render surface normals instead of lit radiance")
	pf.StringVar(&f.out, "out", "out.png", "output PNG path")
	pf.IntVar(&f.bounces, "bounces", 8, "maximum path depth")
	pf.IntVar(&f.lightSamples, "light_samples", 1, "light samples per next-event-estimation bounce")
	pf.IntVar(&f.minLeafSize, "min_leaf_size", 1, "BVH nodes with at most this many items are not split further")
	pf.Float64Var(&f.terminationP, "termination_p", 0.1, "Russian-roulette termination probability")
	pf.IntVar(&f.replicas, "replicas", 1, "tile the input mesh this many times across a grid")
	pf.StringVar(&f.file, "file", "", "input OBJ mesh path")
	pf.StringVar(&f.ply, "ply", "", "input PLY mesh path (alternative to --file)")
	pf.Float64Var(&f.lensRadius, "lens_radius", 0, "camera lens radius (0 = pinhole)")
	pf.StringVar(&f.sceneFile, "scene_file", "", "declarative YAML scene file; overrides --file/--ply and camera flags")
	pf.IntVar(&f.supersample, "supersample", 1, "render at this many times linear resolution and filter down")
	pf.IntVar(&f.workers, "workers", 0, "worker pool size (0 = runtime.NumCPU())")
	pf.StringVar(&f.cpuProfile, "cpuprofile", "", "write a CPU profile to this path")
	pf.StringVar(&f.memProfile, "memprofile", "", "write a heap profile to this path")
	pf.Int64Var(&f.seed, "seed", 0, "master RNG seed (0 = seed from crypto/rand)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(f *flags) error {
	logger := core.DefaultLogger{}

	if f.cpuProfile != "" {
		cpuFile, err := os.Create(f.cpuProfile)
		if err != nil {
			return fmt.Errorf("creating cpu profile: %w", err)
		}
		defer cpuFile.Close()
		if err := pprof.StartCPUProfile(cpuFile); err != nil {
			return fmt.Errorf("starting cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	sceneObj, cam, light, ctx, size, antialias, err := buildScene(f)
	if err != nil {
		return err
	}

	logger.Printf("rendering %dx%d (aa=%d, bounces=%d, imp=%v)", size, 2*size/3, antialias, ctx.MaxBounces, ctx.Imp)
	start := time.Now()

	integ := integrator.NewPathTracingIntegrator(sceneObj, light)
	opts := renderer.RenderOptions{
		Width:     size,
		Height:    2 * size / 3,
		Antialias: antialias,
		Workers:   f.workers,
		Seed:      seedFor(f.seed),
	}

	img := renderer.RenderSupersampled(cam, integ, ctx, opts, max(1, f.supersample))

	logger.Printf("render took %s", time.Since(start))

	if f.memProfile != "" {
		memFile, err := os.Create(f.memProfile)
		if err != nil {
			return fmt.Errorf("creating heap profile: %w", err)
		}
		defer memFile.Close()
		if err := pprof.WriteHeapProfile(memFile); err != nil {
			return fmt.Errorf("writing heap profile: %w", err)
		}
	}

	outFile, err := os.Create(f.out)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()
	if err := png.Encode(outFile, img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	logger.Printf("wrote %s", f.out)
	return nil
}

// seedFor derives a worker-pool master seed: the user's explicit --seed if
// nonzero, otherwise 8 bytes of crypto/rand entropy so repeated runs without
// --seed don't share a PRNG stream.
func seedFor(explicit int64) int64 {
	if explicit != 0 {
		return explicit
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}

// buildScene compiles either a declarative scene file or a default scene
// around a directly-loaded OBJ/PLY mesh, and returns the render context and
// resolved size/antialias (scene-file render: overrides applied where the
// corresponding flag was left at its zero value).
func buildScene(f *flags) (scene.Object, *renderer.Camera, lights.Light, integrator.RenderContext, int, int, error) {
	if f.sceneFile != "" {
		desc, err := loaders.LoadSceneDescription(f.sceneFile)
		if err != nil {
			return nil, nil, nil, integrator.RenderContext{}, 0, 0, err
		}
		ctx := integrator.RenderContext{
			Imp:          f.imp,
			MaxBounces:   f.bounces,
			TerminationP: f.terminationP,
			LightSamples: f.lightSamples,
			Preview:      f.preview,
		}
		ctx, size, aa := desc.RenderOverride.Apply(ctx, f.size, f.antialias)
		return desc.Scene, desc.Camera, desc.Light, ctx, size, aa, nil
	}

	if f.file == "" && f.ply == "" {
		return nil, nil, nil, integrator.RenderContext{}, 0, 0, fmt.Errorf("one of --file, --ply, or --scene_file is required")
	}

	mesh, err := loadMesh(f)
	if err != nil {
		return nil, nil, nil, integrator.RenderContext{}, 0, 0, err
	}

	group, light, cam := buildDefaultScene(mesh, f)

	ctx := integrator.RenderContext{
		Imp:          f.imp,
		MaxBounces:   f.bounces,
		TerminationP: f.terminationP,
		LightSamples: f.lightSamples,
		Preview:      f.preview,
	}
	return group, cam, light, ctx, f.size, f.antialias, nil
}

func loadMesh(f *flags) (*loaders.Mesh, error) {
	if f.ply != "" {
		return loaders.LoadPLY(f.ply)
	}
	return loaders.LoadOBJ(f.file)
}

// buildDefaultScene assembles a minimal renderable scene around a bare mesh:
// a shared Lambertian material, optional grid tiling (--replicas), a single
// key sphere light positioned above the mesh's bounding box, and a camera
// auto-framed to see the whole tiled result.
func buildDefaultScene(mesh *loaders.Mesh, f *flags) (*scene.Group, lights.Light, *renderer.Camera) {
	bsdf := material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))
	base := meshToBVH(mesh, bsdf, f.minLeafSize)

	group := scene.NewGroup()
	bbox := addReplicas(group, base, f.replicas)

	center := bbox.Center()
	extent := bbox.Size()
	sceneRadius := math.Max(extent.Length()/2, 1e-3)

	lightCenter := center.Add(core.NewVec3(0, extent.Y/2+sceneRadius*1.5, -extent.Z/2-sceneRadius*0.5))
	lightRadius := sceneRadius * 0.25
	lightSphere := geometry.NewSphere(lightCenter, lightRadius)
	lightEmission := core.NewVec3(1, 1, 1).Multiply(20 * sceneRadius * sceneRadius)
	group.Add(scene.NewSolid(lightSphere, material.NewEmissive(lightEmission)))
	light := lights.NewSphereLight(lightSphere, lightEmission)

	fov := math.Pi / 4
	aspect := 1.5 // width/height == size/(2*size/3)
	focusDistance := sceneRadius/math.Sin(fov/2) + sceneRadius
	focalLength := focusDistance * 0.5
	lensOrigin := center.Add(core.NewVec3(0, 0, -focusDistance))
	cam := renderer.NewCamera(lensOrigin, core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0), f.lensRadius, focalLength, focusDistance, fov, aspect)

	return group, light, cam
}

// meshToBVH builds a bounding-volume hierarchy over a mesh's triangles,
// sharing a single BSDF across every face.
func meshToBVH(mesh *loaders.Mesh, bsdf material.BSDF, minLeafSize int) scene.Object {
	items := make([]scene.Object, 0, len(mesh.Faces))
	for _, face := range mesh.Faces {
		tri := geometry.NewTriangle(mesh.Vertices[face[0]], mesh.Vertices[face[1]], mesh.Vertices[face[2]])
		items = append(items, scene.NewSolid(tri, bsdf))
	}
	return scene.NewBVH(items, minLeafSize)
}

// addReplicas tiles base across a roughly square grid of n instances spaced
// by 1.5x its bounding box so copies don't overlap, adds every instance to
// group, and returns the AABB of the tiled result.
func addReplicas(group *scene.Group, base scene.Object, n int) core.AABB {
	if n < 1 {
		n = 1
	}
	box := base.BoundingBox()
	if n == 1 {
		group.Add(base)
		return box
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	spacingX := box.Size().X * 1.5
	spacingZ := box.Size().Z * 1.5
	if spacingX == 0 {
		spacingX = 1
	}
	if spacingZ == 0 {
		spacingZ = 1
	}

	var total core.AABB
	first := true
	placed := 0
	for row := 0; placed < n; row++ {
		for col := 0; col < cols && placed < n; col++ {
			translation := core.NewVec3(float64(col)*spacingX, 0, float64(row)*spacingZ)
			instance := scene.NewTransformedObject(base, core.Identity3(), translation)
			group.Add(instance)
			instanceBox := instance.BoundingBox()
			if first {
				total = instanceBox
				first = false
			} else {
				total = total.Union(instanceBox)
			}
			placed++
		}
	}
	return total
}
