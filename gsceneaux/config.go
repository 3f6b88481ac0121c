package gsceneaux

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/soypat/gscene"
	"gopkg.in/yaml.v3"
)

// GridConfig is the YAML description of a square grid scene, e.g.:
//
//	name: materials
//	scene: Materials
//	side: 5
//	spacing: 3
//	shape: sphere
//	output: materials.json
//	ramp:
//	  prefix: s
//	  channel: 0
//	channels:
//	  albedo: red
//	  roughness: x
//	  metallic: y
//
// A channel value of x or y indexes the ramp by column or row; any other
// value is a fixed sampler id.
type GridConfig struct {
	Name    string        `yaml:"name"`
	Scene   string        `yaml:"scene,omitempty"`
	Side    int           `yaml:"side"`
	Spacing float32       `yaml:"spacing,omitempty"`
	Z       float32       `yaml:"z,omitempty"`
	Shape   string        `yaml:"shape,omitempty"`
	Output  string        `yaml:"output,omitempty"`
	Ramp    RampConfig    `yaml:"ramp,omitempty"`
	Camera  *CameraConfig `yaml:"camera,omitempty"`
	// FrameCamera places the camera automatically when Camera is not set.
	FrameCamera bool           `yaml:"frame_camera,omitempty"`
	Channels    ChannelsConfig `yaml:"channels"`
}

// RampConfig is the YAML form of [gscene.Ramp].
type RampConfig struct {
	Prefix  string `yaml:"prefix,omitempty"`
	Channel int    `yaml:"channel,omitempty"`
}

// CameraConfig is the YAML form of [gscene.Camera].
type CameraConfig struct {
	Position  [3]float32 `yaml:"position"`
	Direction [3]float32 `yaml:"direction"`
}

// ChannelsConfig is a material template read from a YAML mapping. Channels
// keep the order in which they appear in the file.
type ChannelsConfig []ChannelConfig

// ChannelConfig binds a material channel to its rule source: x, y or a sampler id.
type ChannelConfig struct {
	Channel string
	Rule    string
}

// UnmarshalYAML decodes a mapping of channel names to rules in document order.
func (cc *ChannelsConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: channels must be a mapping", value.Line)
	}
	out := make(ChannelsConfig, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: channel %q rule must be a scalar", val.Line, key.Value)
		}
		out = append(out, ChannelConfig{Channel: key.Value, Rule: val.Value})
	}
	*cc = out
	return nil
}

// MarshalYAML encodes channels as a mapping in declaration order.
func (cc ChannelsConfig) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range cc {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Channel},
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Rule},
		)
	}
	return node, nil
}

// Template converts the channels to a material template using prefix for indexed rules.
func (cc ChannelsConfig) Template(prefix string) gscene.MaterialTemplate {
	tmpl := make(gscene.MaterialTemplate, 0, len(cc))
	for _, c := range cc {
		var rule gscene.Rule
		switch c.Rule {
		case "x":
			rule = gscene.ByX(prefix)
		case "y":
			rule = gscene.ByY(prefix)
		default:
			rule = gscene.Fixed(c.Rule)
		}
		tmpl = append(tmpl, gscene.ChannelRule{Channel: c.Channel, Rule: rule})
	}
	return tmpl
}

// Variant converts the configuration to a [gscene.Variant].
func (cfg *GridConfig) Variant() (gscene.Variant, error) {
	if cfg.Name == "" {
		return gscene.Variant{}, errors.New("grid config missing name")
	}
	if cfg.Side < 0 {
		return gscene.Variant{}, fmt.Errorf("grid config %s: negative side %d", cfg.Name, cfg.Side)
	}
	for _, c := range cfg.Channels {
		if c.Rule == "" {
			return gscene.Variant{}, fmt.Errorf("grid config %s: channel %q has empty rule", cfg.Name, c.Channel)
		}
	}
	v := gscene.Variant{
		Name:      cfg.Name,
		SceneName: cfg.Scene,
		Side:      cfg.Side,
		Ramp:      gscene.Ramp{Prefix: cfg.Ramp.Prefix, Channel: cfg.Ramp.Channel},
		Shape:     cfg.Shape,
		Template:  cfg.Channels.Template(cfg.Ramp.Prefix),
		Grid:      gscene.GridOptions{Spacing: cfg.Spacing, Z: cfg.Z},
		Output:    cfg.Output,
	}
	if cfg.Camera != nil {
		v.Camera = &gscene.Camera{
			Position:  gscene.Vec3(cfg.Camera.Position),
			Direction: gscene.Vec3(cfg.Camera.Direction),
		}
	}
	return v, nil
}

// Build converts the configuration to a variant and builds its scene. When
// FrameCamera is set and no camera is configured the camera is placed to
// frame the generated nodes.
func (cfg *GridConfig) Build() (*gscene.Scene, error) {
	v, err := cfg.Variant()
	if err != nil {
		return nil, err
	}
	scene, err := v.Build()
	if err != nil {
		return nil, err
	}
	if cfg.FrameCamera && scene.Camera == nil && len(scene.Nodes) > 0 {
		scene.Camera = gscene.FrameCamera(scene.Bounds(1))
	}
	return scene, nil
}

// LoadGridConfig decodes a YAML grid description from r. Unknown fields are an error.
func LoadGridConfig(r io.Reader) (*GridConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg GridConfig
	err := dec.Decode(&cfg)
	if err != nil {
		return nil, fmt.Errorf("decoding grid config: %w", err)
	}
	return &cfg, nil
}

// LoadGridConfigFile reads a YAML grid description from filename.
func LoadGridConfigFile(filename string) (*GridConfig, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return LoadGridConfig(fp)
}

// GridConfigFromVariant returns the YAML configuration equivalent to v.
// Fixed rules naming samplers x or y and indexed rules not using the
// ramp prefix cannot be expressed and are rejected.
func GridConfigFromVariant(v gscene.Variant) (*GridConfig, error) {
	cfg := &GridConfig{
		Name:    v.Name,
		Scene:   v.SceneName,
		Side:    v.Side,
		Spacing: v.Grid.Spacing,
		Z:       v.Grid.Z,
		Shape:   v.Shape,
		Output:  v.Output,
		Ramp:    RampConfig{Prefix: v.Ramp.Prefix, Channel: v.Ramp.Channel},
	}
	if v.Camera != nil {
		cfg.Camera = &CameraConfig{Position: v.Camera.Position, Direction: v.Camera.Direction}
	}
	prefix := v.Ramp.IDPrefix()
	for _, cr := range v.Template {
		var rule string
		switch cr.Rule.Kind() {
		case gscene.RuleByX, gscene.RuleByY:
			if cr.Rule.Source() != prefix {
				return nil, fmt.Errorf("variant %s: channel %s rule %s does not index the ramp", v.Name, cr.Channel, cr.Rule)
			}
			rule = "x"
			if cr.Rule.Kind() == gscene.RuleByY {
				rule = "y"
			}
		case gscene.RuleFixed:
			rule = cr.Rule.Source()
			if rule == "x" || rule == "y" || rule == "" {
				return nil, fmt.Errorf("variant %s: fixed sampler id %q not expressible in YAML", v.Name, rule)
			}
		default:
			return nil, fmt.Errorf("variant %s: channel %s has no rule", v.Name, cr.Channel)
		}
		cfg.Channels = append(cfg.Channels, ChannelConfig{Channel: cr.Channel, Rule: rule})
	}
	return cfg, nil
}

// WriteGridConfig encodes cfg as YAML to w.
func WriteGridConfig(w io.Writer, cfg *GridConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(cfg)
	if err != nil {
		return err
	}
	return enc.Close()
}
