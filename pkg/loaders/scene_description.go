package loaders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wizgrao/pathtrace/pkg/core"
	"github.com/wizgrao/pathtrace/pkg/geometry"
	"github.com/wizgrao/pathtrace/pkg/integrator"
	"github.com/wizgrao/pathtrace/pkg/lights"
	"github.com/wizgrao/pathtrace/pkg/material"
	"github.com/wizgrao/pathtrace/pkg/renderer"
	"github.com/wizgrao/pathtrace/pkg/scene"
)

// vec3Config is a YAML-friendly [x,y,z] triple.
type vec3Config [3]float64

func (v vec3Config) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

// renderOverrides is the optional render: block of a scene file. CLI flags
// always take precedence over these when both are present; see the driver
// command for how the two are merged.
type renderOverrides struct {
	Size         *int     `yaml:"size"`
	Antialias    *int     `yaml:"antialias"`
	Bounces      *int     `yaml:"bounces"`
	LightSamples *int     `yaml:"light_samples"`
	TerminationP *float64 `yaml:"termination_p"`
	Imp          *bool    `yaml:"imp"`
}

type cameraConfig struct {
	Origin        vec3Config `yaml:"origin"`
	Direction     vec3Config `yaml:"direction"`
	Up            vec3Config `yaml:"up"`
	LensRadius    float64    `yaml:"lens_radius"`
	FocalLength   float64    `yaml:"focal_length"`
	FocusDistance float64    `yaml:"focus_distance"`
	Fov           float64    `yaml:"fov"`
	Aspect        float64    `yaml:"aspect"`
}

type materialConfig struct {
	Name     string     `yaml:"name"`
	Albedo   vec3Config `yaml:"albedo"`
	Emission vec3Config `yaml:"emission"`
}

type lightConfig struct {
	Type     string     `yaml:"type"`
	Center   vec3Config `yaml:"center"`
	Radius   float64    `yaml:"radius"`
	Emission vec3Config `yaml:"emission"`
}

type replicaConfig struct {
	Translation vec3Config `yaml:"translation"`
	Scale       vec3Config `yaml:"scale"`
}

type objectConfig struct {
	Type     string          `yaml:"type"`
	Material string          `yaml:"material"`
	Center   vec3Config      `yaml:"center"`
	Radius   float64         `yaml:"radius"`
	Point    vec3Config      `yaml:"point"`
	Normal   vec3Config      `yaml:"normal"`
	Tangent  vec3Config      `yaml:"tangent"`
	File     string          `yaml:"file"`
	Format   string          `yaml:"format"` // "obj" or "ply"; defaults to extension
	Replicas []replicaConfig `yaml:"replicas"`
}

// sceneConfig is the raw YAML shape of a declarative scene file.
type sceneConfig struct {
	Render    renderOverrides  `yaml:"render"`
	Camera    cameraConfig     `yaml:"camera"`
	Materials []materialConfig `yaml:"materials"`
	Lights    []lightConfig    `yaml:"lights"`
	Objects   []objectConfig   `yaml:"objects"`
}

// SceneDescription is a compiled declarative scene: a renderable scene graph
// plus the camera and light sampler to drive it, and whichever render
// settings the file specified (CLI flags should overlay these, not the
// reverse).
type SceneDescription struct {
	Scene          scene.Object
	Camera         *renderer.Camera
	Light          lights.Light
	RenderOverride RenderOverride
}

// RenderOverride carries the scene file's optional render: block. Nil
// pointers mean "not specified in the file".
type RenderOverride struct {
	Size         *int
	Antialias    *int
	Bounces      *int
	LightSamples *int
	TerminationP *float64
	Imp          *bool
}

// Apply merges the scene file's render overrides underneath ctx and
// antialias/size settings already set by CLI flags: any field the caller has
// already set (non-zero) wins, and only zero-valued fields are filled in
// from the scene file.
func (r RenderOverride) Apply(ctx integrator.RenderContext, size, antialias int) (integrator.RenderContext, int, int) {
	if ctx.MaxBounces == 0 && r.Bounces != nil {
		ctx.MaxBounces = *r.Bounces
	}
	if ctx.LightSamples == 0 && r.LightSamples != nil {
		ctx.LightSamples = *r.LightSamples
	}
	if ctx.TerminationP == 0 && r.TerminationP != nil {
		ctx.TerminationP = *r.TerminationP
	}
	if !ctx.Imp && r.Imp != nil {
		ctx.Imp = *r.Imp
	}
	if size == 0 && r.Size != nil {
		size = *r.Size
	}
	if antialias == 0 && r.Antialias != nil {
		antialias = *r.Antialias
	}
	return ctx, size, antialias
}

// LoadSceneDescription reads and compiles a declarative YAML scene file.
func LoadSceneDescription(filename string) (*SceneDescription, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	var cfg sceneConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scene file: %w", err)
	}
	return compileSceneDescription(cfg)
}

func compileSceneDescription(cfg sceneConfig) (*SceneDescription, error) {
	materials := map[string]material.BSDF{}
	for _, m := range cfg.Materials {
		if m.Name == "" {
			return nil, fmt.Errorf("material entry missing name")
		}
		if m.Emission != (vec3Config{}) {
			materials[m.Name] = material.NewEmissive(m.Emission.toVec3())
		} else {
			materials[m.Name] = material.NewLambertian(m.Albedo.toVec3())
		}
	}

	group := scene.NewGroup()
	var lightList []lights.Light

	for _, obj := range cfg.Objects {
		bsdf, ok := materials[obj.Material]
		if !ok {
			return nil, fmt.Errorf("object references unknown material %q", obj.Material)
		}
		if err := addObject(group, obj, bsdf); err != nil {
			return nil, err
		}
	}

	for _, l := range cfg.Lights {
		switch l.Type {
		case "sphere":
			sl := lights.NewSphereLight(geometry.NewSphere(l.Center.toVec3(), l.Radius), l.Emission.toVec3())
			lightList = append(lightList, sl)
			group.Add(scene.NewSolid(geometry.NewSphere(l.Center.toVec3(), l.Radius), material.NewEmissive(l.Emission.toVec3())))
		default:
			return nil, fmt.Errorf("unsupported light type %q", l.Type)
		}
	}

	cam := renderer.NewCamera(
		cfg.Camera.Origin.toVec3(),
		cfg.Camera.Direction.toVec3(),
		cfg.Camera.Up.toVec3(),
		cfg.Camera.LensRadius,
		cfg.Camera.FocalLength,
		cfg.Camera.FocusDistance,
		cfg.Camera.Fov,
		cfg.Camera.Aspect,
	)

	var light lights.Light
	if len(lightList) == 1 {
		light = lightList[0]
	} else if len(lightList) > 1 {
		light = lights.NewLightGroup(lightList...)
	}

	return &SceneDescription{
		Scene:  group,
		Camera: cam,
		Light:  light,
		RenderOverride: RenderOverride{
			Size:         cfg.Render.Size,
			Antialias:    cfg.Render.Antialias,
			Bounces:      cfg.Render.Bounces,
			LightSamples: cfg.Render.LightSamples,
			TerminationP: cfg.Render.TerminationP,
			Imp:          cfg.Render.Imp,
		},
	}, nil
}

func addObject(group *scene.Group, obj objectConfig, bsdf material.BSDF) error {
	switch obj.Type {
	case "sphere":
		group.Add(scene.NewSolid(geometry.NewSphere(obj.Center.toVec3(), obj.Radius), bsdf))
	case "plane":
		group.Add(scene.NewSolid(geometry.NewPlane(obj.Point.toVec3(), obj.Normal.toVec3(), obj.Tangent.toVec3()), bsdf))
	case "mesh":
		mesh, err := loadMeshFile(obj.File, obj.Format)
		if err != nil {
			return fmt.Errorf("loading mesh object: %w", err)
		}
		return addMeshReplicas(group, mesh, obj.Replicas, bsdf)
	default:
		return fmt.Errorf("unsupported object type %q", obj.Type)
	}
	return nil
}

func loadMeshFile(path, format string) (*Mesh, error) {
	if format == "ply" {
		return LoadPLY(path)
	}
	if format == "obj" {
		return LoadOBJ(path)
	}
	if len(path) > 4 && path[len(path)-4:] == ".ply" {
		return LoadPLY(path)
	}
	return LoadOBJ(path)
}

// addMeshReplicas builds one triangle BVH for the mesh and adds it to group
// once per requested tiling replica, each wrapped in its own transform (or
// once untransformed if none were requested); all replicas share that BVH.
func addMeshReplicas(group *scene.Group, mesh *Mesh, replicas []replicaConfig, bsdf material.BSDF) error {
	base := meshToBVH(mesh, bsdf)
	if len(replicas) == 0 {
		group.Add(base)
		return nil
	}
	for _, r := range replicas {
		scaleX, scaleY, scaleZ := r.Scale[0], r.Scale[1], r.Scale[2]
		if scaleX == 0 && scaleY == 0 && scaleZ == 0 {
			scaleX, scaleY, scaleZ = 1, 1, 1
		}
		linear := core.Scale3(scaleX, scaleY, scaleZ)
		group.Add(scene.NewTransformedObject(base, linear, r.Translation.toVec3()))
	}
	return nil
}

// meshToBVH builds a bounding-volume hierarchy over a mesh's triangles, each
// sharing the same BSDF.
func meshToBVH(mesh *Mesh, bsdf material.BSDF) scene.Object {
	items := make([]scene.Object, 0, len(mesh.Faces))
	for _, face := range mesh.Faces {
		tri := geometry.NewTriangle(mesh.Vertices[face[0]], mesh.Vertices[face[1]], mesh.Vertices[face[2]])
		items = append(items, scene.NewSolid(tri, bsdf))
	}
	return scene.NewBVH(items, 1)
}
