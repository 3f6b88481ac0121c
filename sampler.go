package gscene

// SamplerType selects how an image-based sampler maps its file.
type SamplerType string

const (
	// SamplerImage is a 2D texture sampled with UV coordinates. It is the
	// renderer's default when an image sampler omits its type.
	SamplerImage SamplerType = "image"
	// SamplerEquirectangular is an environment map sampled by direction.
	SamplerEquirectangular SamplerType = "equirectangular"
)

// SampleMode is the texture filtering used by image-based samplers.
type SampleMode string

const (
	SampleLinear  SampleMode = "linear"
	SampleNearest SampleMode = "nearest"
)

// Sampler is a named shading input. It is either a constant color (Color set)
// or image-based (File set), never both.
type Sampler struct {
	ID    string      `json:"id"`
	Color *Vec3       `json:"color,omitempty"`
	Type  SamplerType `json:"type,omitempty"`
	File  string      `json:"file,omitempty"`
	// LDR requests the renderer convert a high dynamic range image to low dynamic range on load.
	LDR  bool       `json:"ldr,omitempty"`
	Mode SampleMode `json:"mode,omitempty"`
}

// NewColorSampler returns a constant color sampler. Components are
// conventionally in [0,1] but are not checked.
func NewColorSampler(id string, r, g, b float32) Sampler {
	return Sampler{ID: id, Color: &Vec3{r, g, b}}
}

// NewImageSampler returns a 2D texture sampler reading file.
func NewImageSampler(id, file string) Sampler {
	return Sampler{ID: id, Type: SamplerImage, File: file}
}

// NewEquirectangularSampler returns an environment map sampler reading file,
// typically used as the scene background.
func NewEquirectangularSampler(id, file string) Sampler {
	return Sampler{ID: id, Type: SamplerEquirectangular, File: file}
}

// IsConstant reports whether s is a constant color sampler.
func (s Sampler) IsConstant() bool { return s.Color != nil }

// Ramp configures a sequence of constant color samplers whose Channel
// component increases linearly with the sampler index.
type Ramp struct {
	// Prefix is prepended to the index to form ids. Empty means [DefaultRampPrefix].
	Prefix string
	// Channel is the color component that varies: 0 red, 1 green, 2 blue.
	Channel int
}

// IDPrefix returns the prefix used to form sampler ids.
func (r Ramp) IDPrefix() string {
	if r.Prefix == "" {
		return DefaultRampPrefix
	}
	return r.Prefix
}

// GenerateSamplers returns count constant samplers prefix0..prefix(count-1)
// whose ramp channel is index/count and other channels are zero.
// Callers pairing the ramp with a grid should pass the grid side as count
// so every index the grid references has a sampler.
func GenerateSamplers(count int, ramp Ramp) ([]Sampler, error) {
	bld := Builder{NoDimensionPanic: true}
	samplers := bld.GenerateSamplers(count, ramp)
	return samplers, bld.Err()
}

// GenerateSamplers returns count ramp samplers. See [GenerateSamplers].
func (bld *Builder) GenerateSamplers(count int, ramp Ramp) []Sampler {
	if count < 0 {
		bld.configErrorf("negative sampler count %d", count)
		return nil
	}
	if ramp.Channel < 0 || ramp.Channel > 2 {
		bld.configErrorf("ramp channel %d out of range [0,2]", ramp.Channel)
		return nil
	}
	prefix := ramp.IDPrefix()
	samplers := make([]Sampler, 0, count)
	for x := 0; x < count; x++ {
		var c Vec3
		c[ramp.Channel] = float32(x) / float32(count)
		samplers = append(samplers, Sampler{ID: indexedID(prefix, x), Color: &c})
	}
	Logger().Debug("generated samplers", "count", count, "prefix", prefix, "channel", ramp.Channel)
	return samplers
}
