package gscene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Common material channel names read by the renderer.
const (
	ChannelAlbedo    = "albedo"
	ChannelEmission  = "emission"
	ChannelRoughness = "roughness"
	ChannelMetallic  = "metallic"
	ChannelSpecular  = "specular"
)

// MaterialChannel binds a material channel to a sampler id.
type MaterialChannel struct {
	Name    string
	Sampler string
}

// Material maps channel names to sampler ids. It is a slice so that the
// declaration order of channels survives encoding and decoding; it is
// encoded as a JSON object.
type Material []MaterialChannel

// Get returns the sampler id bound to channel and whether it was present.
func (m Material) Get(channel string) (string, bool) {
	for _, c := range m {
		if c.Name == channel {
			return c.Sampler, true
		}
	}
	return "", false
}

// Set binds channel to samplerID, replacing an existing binding in place or
// appending a new one.
func (m Material) Set(channel, samplerID string) Material {
	for i := range m {
		if m[i].Name == channel {
			m[i].Sampler = samplerID
			return m
		}
	}
	return append(m, MaterialChannel{Name: channel, Sampler: samplerID})
}

// MarshalJSON encodes m as a JSON object with keys in declaration order.
// Channel names and sampler ids are not HTML-escaped, as in [Encode].
func (m Material) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	str := func(v string) error {
		err := enc.Encode(v)
		if err != nil {
			return err
		}
		buf.Truncate(buf.Len() - 1) // Encoder newline.
		return nil
	}
	buf.WriteByte('{')
	for i, c := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		err := str(c.Name)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		err = str(c.Sampler)
		if err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values keeping key order.
// A repeated key keeps its first position and its last value.
func (m *Material) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*m = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("material: expected JSON object")
	}
	var mat Material
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string) // Object keys are always strings.
		var val string
		err = dec.Decode(&val)
		if err != nil {
			return fmt.Errorf("material channel %q: %w", key, err)
		}
		mat = mat.Set(key, val)
	}
	_, err = dec.Token() // Closing brace.
	if err != nil {
		return err
	}
	*m = mat
	return nil
}
