package gscene

import (
	"fmt"
	"slices"
)

// Sampler ids shared by the built-in variants.
const (
	RedSamplerID        = "red"
	BackgroundSamplerID = "background"
	// BackgroundFile is the environment map the renderer ships with.
	BackgroundFile = "res/textures/bg0.hdr"
)

// Variant describes a square grid scene: a ramp of Side samplers and a
// Side x Side grid of shapes whose materials follow Template.
type Variant struct {
	Name string
	// SceneName is the scene's display name.
	SceneName string
	Side      int
	Ramp      Ramp
	Shape     string
	Template  MaterialTemplate
	Grid      GridOptions
	Camera    *Camera
	// Output is the default destination of the document. Empty means standard output.
	Output string
}

// Build composes the scene: the red and background samplers, then the
// ramp, then the grid. The ramp length equals Side so every ByX and ByY
// rule with the ramp prefix resolves.
func (v Variant) Build() (*Scene, error) {
	bld := Builder{NoDimensionPanic: true}
	scene := v.build(&bld)
	if err := bld.Err(); err != nil {
		return nil, fmt.Errorf("building %s: %w", v.Name, err)
	}
	return scene, nil
}

func (v Variant) build(bld *Builder) *Scene {
	shape := v.Shape
	if shape == "" {
		shape = ShapeSphere
	}
	name := v.SceneName
	if name == "" {
		name = v.Name
	}
	scene := NewScene(name, BackgroundSamplerID, v.Camera)
	scene.AppendSampler(
		NewColorSampler(RedSamplerID, 0.9, 0.1, 0.1),
		NewEquirectangularSampler(BackgroundSamplerID, BackgroundFile),
	)
	scene.AppendSampler(bld.GenerateSamplers(v.Side, v.Ramp)...)
	scene.AppendNode(bld.GenerateGrid(v.Side, v.Side, shape, v.Template, v.Grid)...)
	Logger().Debug("built variant", "variant", v.Name, "samplers", len(scene.Samplers), "nodes", len(scene.Nodes))
	return scene
}

// Variants returns the built-in scene variants:
//
//   - test2: 10x10 spheres, roughness by column and metallic by row.
//   - sandbox: 10x10 spheres, specular by column, written to standard output.
//   - materials: 5x5 spheres, roughness by column and metallic by row.
func Variants() []Variant {
	roughMetal := MaterialTemplate{
		{Channel: ChannelAlbedo, Rule: Fixed(RedSamplerID)},
		{Channel: ChannelRoughness, Rule: ByX("")},
		{Channel: ChannelMetallic, Rule: ByY("")},
	}
	return []Variant{
		{
			Name:      "test2",
			SceneName: "TestScene 2",
			Side:      10,
			Template:  roughMetal,
			Output:    "test2.json",
		},
		{
			Name:      "sandbox",
			SceneName: "TestScene 2",
			Side:      10,
			Template: MaterialTemplate{
				{Channel: ChannelAlbedo, Rule: Fixed(RedSamplerID)},
				{Channel: ChannelSpecular, Rule: ByX("")},
			},
		},
		{
			Name:      "materials",
			SceneName: "Materials",
			Side:      5,
			Template:  slices.Clone(roughMetal),
			Output:    "materials.json",
		},
	}
}

// LookupVariant returns the built-in variant with the given name.
func LookupVariant(name string) (Variant, bool) {
	for _, v := range Variants() {
		if v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}
