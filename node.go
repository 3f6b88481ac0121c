package gscene

import (
	"github.com/soypat/geometry/ms3"
)

// Node is a positioned shape instance. Exactly one of Shape or Mesh is
// expected to be set; Shape is an open tag such as [ShapeSphere].
type Node struct {
	Translate Vec3 `json:"translate"`
	// Rotate holds Euler angles in degrees applied in X, Y, Z order.
	Rotate   *Vec3    `json:"rotate,omitempty"`
	Scale    *Vec3    `json:"scale,omitempty"`
	Shape    string   `json:"shape,omitempty"`
	Mesh     string   `json:"mesh,omitempty"`
	Material Material `json:"material,omitempty"`
}

// RuleKind enumerates the ways a [Rule] picks a sampler id.
type RuleKind uint8

const (
	RuleNone RuleKind = iota
	RuleFixed
	RuleByX
	RuleByY
)

// Rule decides the sampler id of a material channel for a grid cell.
// The zero Rule is invalid.
type Rule struct {
	kind RuleKind
	// id is the fixed sampler id or the prefix of indexed rules.
	id string
}

// Fixed returns a rule that always references samplerID.
func Fixed(samplerID string) Rule { return Rule{kind: RuleFixed, id: samplerID} }

// ByX returns a rule referencing prefix followed by the cell's column index.
// An empty prefix means [DefaultRampPrefix].
func ByX(prefix string) Rule { return Rule{kind: RuleByX, id: prefixOrDefault(prefix)} }

// ByY returns a rule referencing prefix followed by the cell's row index.
// An empty prefix means [DefaultRampPrefix].
func ByY(prefix string) Rule { return Rule{kind: RuleByY, id: prefixOrDefault(prefix)} }

func prefixOrDefault(prefix string) string {
	if prefix == "" {
		return DefaultRampPrefix
	}
	return prefix
}

// IsZero reports whether r is the invalid zero Rule.
func (r Rule) IsZero() bool { return r.kind == RuleNone }

// Kind returns how r picks sampler ids.
func (r Rule) Kind() RuleKind { return r.kind }

// Source returns the sampler id of a fixed rule or the id prefix of an indexed rule.
func (r Rule) Source() string { return r.id }

// Eval returns the sampler id referenced by the cell at column x, row y.
func (r Rule) Eval(x, y int) string {
	switch r.kind {
	case RuleFixed:
		return r.id
	case RuleByX:
		return indexedID(r.id, x)
	case RuleByY:
		return indexedID(r.id, y)
	}
	return ""
}

func (r Rule) String() string {
	switch r.kind {
	case RuleFixed:
		return "Fixed(" + r.id + ")"
	case RuleByX:
		return "ByX(" + r.id + ")"
	case RuleByY:
		return "ByY(" + r.id + ")"
	}
	return "Rule(invalid)"
}

// ChannelRule binds a material channel to the rule that fills it.
type ChannelRule struct {
	Channel string
	Rule    Rule
}

// MaterialTemplate lists channel rules in the order channels are written to
// each node's material.
type MaterialTemplate []ChannelRule

// Eval builds the material for the cell at column x, row y.
func (t MaterialTemplate) Eval(x, y int) Material {
	if len(t) == 0 {
		return nil
	}
	mat := make(Material, 0, len(t))
	for _, cr := range t {
		mat = mat.Set(cr.Channel, cr.Rule.Eval(x, y))
	}
	return mat
}

// GridOptions configures node placement. The zero value uses [DefaultSpacing].
type GridOptions struct {
	// Spacing is the distance between neighbouring nodes. Zero means DefaultSpacing.
	Spacing float32
	// Z is the depth shared by every node of the grid.
	Z float32
}

// GenerateGrid returns width*height nodes of the given shape laid out on the
// XY plane. Column x is the outer loop and row y the inner loop. A node is
// placed at ((x-width/2)*spacing, (y-height/2)*spacing, Z) using integer
// halves, so a 5 wide grid spans columns -2..2 and a 10 wide grid -5..4.
// Each node's material is tmpl evaluated at (x, y).
func GenerateGrid(width, height int, shape string, tmpl MaterialTemplate, opts GridOptions) ([]Node, error) {
	bld := Builder{NoDimensionPanic: true}
	nodes := bld.GenerateGrid(width, height, shape, tmpl, opts)
	return nodes, bld.Err()
}

// GenerateGrid returns a grid of nodes. See [GenerateGrid].
func (bld *Builder) GenerateGrid(width, height int, shape string, tmpl MaterialTemplate, opts GridOptions) []Node {
	if width < 0 || height < 0 {
		bld.configErrorf("negative grid dimensions %dx%d", width, height)
		return nil
	}
	valid := true
	for _, cr := range tmpl {
		if cr.Rule.IsZero() {
			bld.configErrorf("material channel %q has no rule", cr.Channel)
			valid = false
		}
		if cr.Channel == "" {
			bld.configErrorf("empty material channel name")
			valid = false
		}
	}
	if !valid {
		return nil
	}
	spacing := opts.Spacing
	if spacing == 0 {
		spacing = DefaultSpacing
	}
	center := ms3.Vec{X: float32(width / 2), Y: float32(height / 2), Z: 0}
	nodes := make([]Node, 0, width*height)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			idx := ms3.Vec{X: float32(x), Y: float32(y)}
			pos := ms3.Scale(spacing, ms3.Sub(idx, center))
			pos.Z = opts.Z
			nodes = append(nodes, Node{
				Translate: V3(pos),
				Shape:     shape,
				Material:  tmpl.Eval(x, y),
			})
		}
	}
	Logger().Debug("generated grid", "width", width, "height", height, "nodes", len(nodes), "spacing", spacing)
	return nodes
}
