package gscene_test

import (
	"bytes"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/soypat/gscene"
)

func TestGenerateSamplers(t *testing.T) {
	for _, count := range []int{0, 1, 5, 10, 33} {
		samplers, err := gscene.GenerateSamplers(count, gscene.Ramp{})
		if err != nil {
			t.Fatal(err)
		}
		if len(samplers) != count {
			t.Fatalf("count %d: got %d samplers", count, len(samplers))
		}
		seen := make(map[string]bool)
		for i, s := range samplers {
			want := "s" + strconv.Itoa(i)
			if s.ID != want {
				t.Errorf("sampler %d: want id %q, got %q", i, want, s.ID)
			}
			if seen[s.ID] {
				t.Errorf("duplicate id %q", s.ID)
			}
			seen[s.ID] = true
			if !s.IsConstant() {
				t.Fatalf("sampler %s not constant", s.ID)
			}
			c := *s.Color
			if c[0] != float32(i)/float32(count) || c[1] != 0 || c[2] != 0 {
				t.Errorf("sampler %s: unexpected color %v", s.ID, c)
			}
		}
	}
}

func TestGenerateSamplersRamp(t *testing.T) {
	samplers, err := gscene.GenerateSamplers(4, gscene.Ramp{Prefix: "g", Channel: 1})
	if err != nil {
		t.Fatal(err)
	}
	if samplers[3].ID != "g3" {
		t.Error("unexpected id", samplers[3].ID)
	}
	if c := *samplers[2].Color; c != (gscene.Vec3{0, 0.5, 0}) {
		t.Error("unexpected green ramp color", c)
	}
}

func TestGenerateSamplersInvalid(t *testing.T) {
	_, err := gscene.GenerateSamplers(-1, gscene.Ramp{})
	if err == nil {
		t.Error("expected error for negative count")
	}
	_, err = gscene.GenerateSamplers(3, gscene.Ramp{Channel: 3})
	if err == nil {
		t.Error("expected error for channel out of range")
	}
}

func TestGenerateGrid(t *testing.T) {
	tmpl := gscene.MaterialTemplate{
		{Channel: gscene.ChannelAlbedo, Rule: gscene.Fixed("red")},
		{Channel: gscene.ChannelRoughness, Rule: gscene.ByX("")},
		{Channel: gscene.ChannelMetallic, Rule: gscene.ByY("m")},
	}
	dims := [][2]int{{0, 0}, {0, 4}, {1, 1}, {3, 7}, {5, 5}, {10, 10}}
	for _, d := range dims {
		w, h := d[0], d[1]
		nodes, err := gscene.GenerateGrid(w, h, gscene.ShapeSphere, tmpl, gscene.GridOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if len(nodes) != w*h {
			t.Fatalf("%dx%d: got %d nodes", w, h, len(nodes))
		}
		positions := make(map[gscene.Vec3]bool)
		for i, n := range nodes {
			x, y := i/h, i%h
			positions[n.Translate] = true
			want := gscene.Vec3{float32((x - w/2) * 3), float32((y - h/2) * 3), 0}
			if n.Translate != want {
				t.Errorf("%dx%d node (%d,%d): want translate %v, got %v", w, h, x, y, want, n.Translate)
			}
			if n.Shape != gscene.ShapeSphere {
				t.Errorf("unexpected shape %q", n.Shape)
			}
			wantMat := gscene.Material{
				{Name: "albedo", Sampler: "red"},
				{Name: "roughness", Sampler: "s" + strconv.Itoa(x)},
				{Name: "metallic", Sampler: "m" + strconv.Itoa(y)},
			}
			if !reflect.DeepEqual(n.Material, wantMat) {
				t.Errorf("node (%d,%d): want material %v, got %v", x, y, wantMat, n.Material)
			}
		}
		if len(positions) != w*h {
			t.Errorf("%dx%d: %d distinct positions", w, h, len(positions))
		}
	}
}

func TestGenerateGridOptions(t *testing.T) {
	nodes, err := gscene.GenerateGrid(2, 1, "box", nil, gscene.GridOptions{Spacing: 0.5, Z: -2})
	if err != nil {
		t.Fatal(err)
	}
	if nodes[0].Translate != (gscene.Vec3{-0.5, 0, -2}) || nodes[1].Translate != (gscene.Vec3{0, 0, -2}) {
		t.Error("unexpected translations", nodes[0].Translate, nodes[1].Translate)
	}
	if nodes[0].Material != nil {
		t.Error("expected nil material for empty template")
	}
}

func TestGenerateGridInvalid(t *testing.T) {
	_, err := gscene.GenerateGrid(-1, 2, gscene.ShapeSphere, nil, gscene.GridOptions{})
	if err == nil {
		t.Error("expected error for negative width")
	}
	tmpl := gscene.MaterialTemplate{{Channel: "albedo"}}
	_, err = gscene.GenerateGrid(2, 2, gscene.ShapeSphere, tmpl, gscene.GridOptions{})
	if err == nil {
		t.Error("expected error for zero rule")
	}
}

func TestBuilderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic with NoDimensionPanic unset")
		}
	}()
	var bld gscene.Builder
	bld.GenerateGrid(2, -2, gscene.ShapeSphere, nil, gscene.GridOptions{})
}

func TestBuilderAccumulates(t *testing.T) {
	bld := gscene.Builder{NoDimensionPanic: true}
	bld.GenerateSamplers(-1, gscene.Ramp{})
	bld.GenerateGrid(-1, 1, gscene.ShapeSphere, nil, gscene.GridOptions{})
	err := bld.Err()
	if err == nil {
		t.Fatal("expected accumulated error")
	}
	if n := strings.Count(err.Error(), "\n") + 1; n != 2 {
		t.Errorf("expected 2 joined errors, got %d: %v", n, err)
	}
}

func TestScenarioSandbox(t *testing.T) {
	v, ok := gscene.LookupVariant("sandbox")
	if !ok {
		t.Fatal("sandbox variant missing")
	}
	scene, err := v.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(scene.Samplers) != 12 {
		t.Errorf("want 12 samplers, got %d", len(scene.Samplers))
	}
	if scene.Samplers[0].ID != "red" || scene.Samplers[1].ID != "background" {
		t.Error("unexpected leading samplers", scene.Samplers[0].ID, scene.Samplers[1].ID)
	}
	if len(scene.Nodes) != 100 {
		t.Fatalf("want 100 nodes, got %d", len(scene.Nodes))
	}
	for i, n := range scene.Nodes {
		x := i / 10
		specular, _ := n.Material.Get("specular")
		if specular != "s"+strconv.Itoa(x) {
			t.Errorf("node %d: want specular s%d, got %s", i, x, specular)
		}
		if albedo, _ := n.Material.Get("albedo"); albedo != "red" {
			t.Errorf("node %d: albedo %q", i, albedo)
		}
	}
	if err := scene.Check(); err != nil {
		t.Error(err)
	}
}

func TestScenarioMaterials(t *testing.T) {
	v, ok := gscene.LookupVariant("materials")
	if !ok {
		t.Fatal("materials variant missing")
	}
	scene, err := v.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(scene.Samplers) != 7 || len(scene.Nodes) != 25 {
		t.Fatalf("want 7 samplers and 25 nodes, got %d and %d", len(scene.Samplers), len(scene.Nodes))
	}
	center := scene.Nodes[2*5+2]
	if center.Translate != (gscene.Vec3{}) {
		t.Error("center node not at origin", center.Translate)
	}
	rough, _ := center.Material.Get("roughness")
	metal, _ := center.Material.Get("metallic")
	if rough != "s2" || metal != "s2" {
		t.Error("unexpected center material", center.Material)
	}
	if err := scene.Check(); err != nil {
		t.Error(err)
	}
}

func TestVariantsReferentialClosure(t *testing.T) {
	for _, v := range gscene.Variants() {
		scene, err := v.Build()
		if err != nil {
			t.Fatal(err)
		}
		ids := make(map[string]bool)
		for _, s := range scene.Samplers {
			ids[s.ID] = true
		}
		if !ids[scene.Background.Color] {
			t.Errorf("%s: background %q undeclared", v.Name, scene.Background.Color)
		}
		for _, n := range scene.Nodes {
			for _, c := range n.Material {
				if !ids[c.Sampler] {
					t.Errorf("%s: %s references undeclared %q", v.Name, c.Name, c.Sampler)
				}
			}
		}
		// Every ramp sampler is used by at least one node.
		used := make(map[string]bool)
		for _, n := range scene.Nodes {
			for _, c := range n.Material {
				used[c.Sampler] = true
			}
		}
		for _, s := range scene.Samplers[2:] {
			if !used[s.ID] {
				t.Errorf("%s: ramp sampler %s unused", v.Name, s.ID)
			}
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	scenes := make([]*gscene.Scene, 0, 4)
	for _, v := range gscene.Variants() {
		scene, err := v.Build()
		if err != nil {
			t.Fatal(err)
		}
		scenes = append(scenes, scene)
	}
	extra := gscene.NewScene("extras", "env", &gscene.Camera{Position: gscene.Vec3{0, 1, -10}, Direction: gscene.Vec3{0, 0, 1}})
	extra.AddMeshSource(gscene.MeshSource{File: "res/meshes/teapot.obj", IDs: []string{"teapot"}})
	env := gscene.NewEquirectangularSampler("env", "res/textures/bg0.hdr")
	env.LDR = true
	env.Mode = gscene.SampleNearest
	extra.AppendSampler(env, gscene.NewImageSampler("wood", "res/textures/wood.png"))
	extra.AppendNode(gscene.Node{
		Translate: gscene.Vec3{1, 2, 3},
		Rotate:    &gscene.Vec3{0, 90, 0},
		Scale:     &gscene.Vec3{2, 2, 2},
		Mesh:      "teapot",
		Material:  gscene.Material{{Name: "emission", Sampler: "wood"}, {Name: "albedo", Sampler: "wood"}},
	})
	scenes = append(scenes, extra)

	for _, scene := range scenes {
		var buf bytes.Buffer
		err := gscene.Encode(&buf, scene)
		if err != nil {
			t.Fatal(err)
		}
		got, err := gscene.Decode(&buf)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, scene) {
			t.Errorf("%s: decoded scene differs from original", scene.Name)
		}
		if err := got.Check(); err != nil {
			t.Errorf("%s: %v", scene.Name, err)
		}
	}
}

func TestMarshalLayout(t *testing.T) {
	scene := gscene.NewScene("tiny", "bg", nil)
	scene.AppendSampler(gscene.NewColorSampler("bg", 0.5, 0.25, 1))
	scene.AppendNode(gscene.Node{
		Shape: gscene.ShapeSphere,
		Material: gscene.Material{
			{Name: "metallic", Sampler: "bg"},
			{Name: "albedo", Sampler: "bg"},
		},
	})
	b, err := gscene.Marshal(scene)
	if err != nil {
		t.Fatal(err)
	}
	const want = `{"name":"tiny","background":{"color":"bg"},"samplers":[{"id":"bg","color":[0.5,0.25,1]}],"nodes":[{"translate":[0,0,0],"shape":"sphere","material":{"metallic":"bg","albedo":"bg"}}]}`
	if string(b) != want {
		t.Errorf("unexpected encoding:\nwant %s\ngot  %s", want, b)
	}
	empty, err := gscene.Marshal(gscene.NewScene("empty", "bg", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(empty, []byte(`"samplers":[],"nodes":[]`)) {
		t.Errorf("empty sequences should encode as arrays: %s", empty)
	}
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	scene := gscene.NewScene("a<b>", "s&t", nil)
	scene.AppendSampler(gscene.NewColorSampler("s&t", 1, 1, 1))
	scene.AppendNode(gscene.Node{Material: gscene.Material{{Name: "<albedo>", Sampler: "s&t"}}})
	b, err := gscene.Marshal(scene)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(b, []byte(`\u00`)) {
		t.Errorf("unexpected escaping: %s", b)
	}
	if !bytes.Contains(b, []byte(`"material":{"<albedo>":"s&t"}`)) {
		t.Errorf("material ids escaped: %s", b)
	}
	got, err := gscene.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, scene) {
		t.Error("decoded scene differs from original")
	}
}

func TestMaterialUnmarshalOrder(t *testing.T) {
	var m gscene.Material
	err := m.UnmarshalJSON([]byte(`{"z":"a","b":"c","z":"d"}`))
	if err != nil {
		t.Fatal(err)
	}
	want := gscene.Material{{Name: "z", Sampler: "d"}, {Name: "b", Sampler: "c"}}
	if !reflect.DeepEqual(m, want) {
		t.Errorf("want %v, got %v", want, m)
	}
	if err := m.UnmarshalJSON([]byte(`["a"]`)); err == nil {
		t.Error("expected error decoding array as material")
	}
	if err := m.UnmarshalJSON([]byte(`{"a":1}`)); err == nil {
		t.Error("expected error decoding non-string channel")
	}
}

func TestCheck(t *testing.T) {
	scene := gscene.NewScene("broken", "missing", nil)
	scene.AppendSampler(
		gscene.NewColorSampler("a", 1, 0, 0),
		gscene.NewColorSampler("a", 0, 1, 0),
		gscene.Sampler{ID: "nothing"},
		gscene.Sampler{ID: "weird", File: "x.png", Type: "cubemap"},
	)
	scene.AppendNode(gscene.Node{
		Shape:    gscene.ShapeSphere,
		Mesh:     "ghost",
		Material: gscene.Material{{Name: "albedo", Sampler: "b"}},
	})
	err := scene.Check()
	if err == nil {
		t.Fatal("expected check to fail")
	}
	msg := err.Error()
	for _, want := range []string{"duplicate sampler id a", "neither color nor file", "unknown type cubemap", "background references undeclared sampler missing", "undeclared mesh ghost", "undeclared sampler b"} {
		if !strings.Contains(msg, want) {
			t.Errorf("check error missing %q:\n%s", want, msg)
		}
	}

	// The renderer resolves backgrounds among equirectangular samplers and
	// material channels among image samplers.
	kinds := gscene.NewScene("kinds", "wood", nil)
	kinds.AppendSampler(
		gscene.NewImageSampler("wood", "res/textures/wood.png"),
		gscene.NewEquirectangularSampler("env", "res/textures/bg0.hdr"),
	)
	kinds.AppendNode(gscene.Node{
		Shape:    gscene.ShapeSphere,
		Material: gscene.Material{{Name: "albedo", Sampler: "env"}, {Name: "roughness", Sampler: "wood"}},
	})
	err = kinds.Check()
	if err == nil {
		t.Fatal("expected check to fail on sampler kinds")
	}
	msg = err.Error()
	for _, want := range []string{"background sampler wood is not equirectangular", "albedo references equirectangular sampler env"} {
		if !strings.Contains(msg, want) {
			t.Errorf("check error missing %q:\n%s", want, msg)
		}
	}
	if strings.Contains(msg, "roughness") {
		t.Errorf("image sampler rejected for material channel:\n%s", msg)
	}
	kinds.Background.Color = "env"
	kinds.Nodes[0].Material = kinds.Nodes[0].Material.Set(gscene.ChannelAlbedo, "wood")
	if err := kinds.Check(); err != nil {
		t.Error(err)
	}
}

func TestVariantBuildError(t *testing.T) {
	v := gscene.Variant{Name: "bad", Side: -3}
	_, err := v.Build()
	if err == nil {
		t.Fatal("expected error for negative side")
	}
	if !strings.Contains(err.Error(), "building bad") {
		t.Error("error lacks variant context:", err)
	}
	var target interface{ Unwrap() []error }
	if !errors.As(err, &target) {
		t.Error("expected joined configuration errors")
	}
}

func TestBoundsFrameCamera(t *testing.T) {
	v, _ := gscene.LookupVariant("materials")
	scene, err := v.Build()
	if err != nil {
		t.Fatal(err)
	}
	bb := scene.Bounds(1)
	if bb.Min.X != -7 || bb.Max.X != 7 || bb.Min.Z != -1 || bb.Max.Z != 1 {
		t.Errorf("unexpected bounds %+v", bb)
	}
	cam := gscene.FrameCamera(bb)
	if cam.Position[2] >= bb.Min.Z || cam.Position[0] != 0 || cam.Position[1] != 0 {
		t.Errorf("camera not centered in front of grid: %v", cam.Position)
	}
	if cam.Direction != (gscene.Vec3{0, 0, 1}) {
		t.Error("unexpected direction", cam.Direction)
	}
}
