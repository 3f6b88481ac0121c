package gsceneaux

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"slices"

	math "github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/gscene"
	"golang.org/x/image/draw"
)

// missingColor marks cells whose channel is absent or not a constant color.
var missingColor = color.RGBA{R: 255, B: 255, A: 255}

// SamplerColor converts a constant sampler to an 8 bit color, clamping
// components to [0,1]. ok is false for image-based samplers.
func SamplerColor(s gscene.Sampler) (c color.RGBA, ok bool) {
	if !s.IsConstant() {
		return missingColor, false
	}
	v := *s.Color
	return color.RGBA{
		R: uint8(ms1.Clamp(v[0], 0, 1)*math.MaxUint8 + 0.5),
		G: uint8(ms1.Clamp(v[1], 0, 1)*math.MaxUint8 + 0.5),
		B: uint8(ms1.Clamp(v[2], 0, 1)*math.MaxUint8 + 0.5),
		A: 255,
	}, true
}

// PreviewImage renders a top-down swatch of s looking down -Z: every distinct
// node X position is a column and every distinct Y position a row, with +Y
// pointing up. Each cell is cellSize pixels wide and takes the color of the
// constant sampler its node's channel references.
func PreviewImage(s *gscene.Scene, channel string, cellSize int) (*image.RGBA, error) {
	if len(s.Nodes) == 0 {
		return nil, errors.New("scene has no nodes to preview")
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("invalid preview cell size %d", cellSize)
	}
	colors := make(map[string]color.RGBA, len(s.Samplers))
	for _, smp := range s.Samplers {
		if c, ok := SamplerColor(smp); ok {
			colors[smp.ID] = c
		}
	}
	var xs, ys []float32
	for _, n := range s.Nodes {
		xs = append(xs, n.Translate[0])
		ys = append(ys, n.Translate[1])
	}
	slices.Sort(xs)
	slices.Sort(ys)
	xs = slices.Compact(xs)
	ys = slices.Compact(ys)

	// One pixel per cell, scaled afterwards.
	small := image.NewRGBA(image.Rect(0, 0, len(xs), len(ys)))
	for _, n := range s.Nodes {
		col, _ := slices.BinarySearch(xs, n.Translate[0])
		row, _ := slices.BinarySearch(ys, n.Translate[1])
		c := missingColor
		if id, ok := n.Material.Get(channel); ok {
			if sc, ok := colors[id]; ok {
				c = sc
			}
		}
		small.SetRGBA(col, len(ys)-1-row, c)
	}
	dst := image.NewRGBA(image.Rect(0, 0, len(xs)*cellSize, len(ys)*cellSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst, nil
}

// WritePreviewPNG renders the preview of s (see [PreviewImage]) and encodes it as PNG to w.
func WritePreviewPNG(w io.Writer, s *gscene.Scene, channel string, cellSize int) error {
	img, err := PreviewImage(s, channel, cellSize)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderPreviewPNGFile renders the preview of s and saves it to a PNG file with said filename.
func RenderPreviewPNGFile(filename string, s *gscene.Scene, channel string, cellSize int) error {
	img, err := PreviewImage(s, channel, cellSize)
	if err != nil {
		return err
	}
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = png.Encode(fp, img)
	if err != nil {
		return err
	}
	err = syncRegular(fp)
	if err != nil {
		return err
	}
	gscene.Logger().Info("wrote preview", "file", filename, "channel", channel)
	return nil
}
