package gscene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes s to w as compact JSON followed by a newline.
// Sampler and node order and material channel order are preserved.
func Encode(w io.Writer, s *Scene) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	err := enc.Encode(s)
	if err != nil {
		return fmt.Errorf("encoding scene %q: %w", s.Name, err)
	}
	return nil
}

// Marshal returns the compact JSON encoding of s without a trailing newline.
func Marshal(s *Scene) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(&buf, s)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// Decode decodes a single scene document from r.
func Decode(r io.Reader) (*Scene, error) {
	var s Scene
	dec := json.NewDecoder(r)
	err := dec.Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	return &s, nil
}
