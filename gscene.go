// Package gscene builds scene description documents for a path tracer.
// A scene is a camera, a background, a list of samplers (constant colors or
// image maps) and a list of nodes whose material channels reference samplers
// by id. Scenes are usually generated procedurally with [GenerateSamplers] and
// [GenerateGrid] and written out as JSON with [Encode].
package gscene

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// DefaultRampPrefix is prepended to the ramp index to form sampler ids: s0, s1, ...
	DefaultRampPrefix = "s"
	// DefaultSpacing is the distance between neighbouring grid nodes.
	DefaultSpacing = 3
	// ShapeSphere is the unit sphere shape tag understood by the renderer.
	ShapeSphere = "sphere"
)

// Builder wraps sampler and node generation logic.
// Provides error handling strategies with panics or error accumulation during scene generation.
type Builder struct {
	NoDimensionPanic bool
	accumErrs        []error
}

// Err returns all configuration errors accumulated by the builder joined together.
func (bld *Builder) Err() error {
	if len(bld.accumErrs) == 0 {
		return nil
	}
	return errors.Join(bld.accumErrs...)
}

func (bld *Builder) configErrorf(msg string, args ...any) {
	if !bld.NoDimensionPanic {
		panic(fmt.Sprintf(msg, args...))
	}
	bld.accumErrs = append(bld.accumErrs, fmt.Errorf(msg, args...))
}

// indexedID returns prefix followed by the decimal index, without zero padding.
func indexedID(prefix string, idx int) string {
	b := make([]byte, 0, len(prefix)+3)
	b = append(b, prefix...)
	b = strconv.AppendInt(b, int64(idx), 10)
	return string(b)
}
