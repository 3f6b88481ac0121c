package gscene

import (
	"errors"
	"fmt"
)

func newErr(reason string) error {
	return errors.New("gscene: " + reason)
}

// Check checks that every reference in s resolves and that samplers are well formed.
// It reports duplicate sampler ids, dangling background, material and mesh
// references, samplers that are neither constant nor image-based, unknown
// sampler types or modes and non-finite vectors. The background must
// reference a constant or equirectangular sampler and material channels a
// constant or image sampler. All problems found are returned joined.
func (s *Scene) Check() error {
	var errs []error
	samplers := make(map[string]Sampler, len(s.Samplers))
	for i, smp := range s.Samplers {
		if smp.ID == "" {
			errs = append(errs, newErr(fmt.Sprintf("sampler %d has empty id", i)))
		} else if _, dup := samplers[smp.ID]; dup {
			errs = append(errs, newErr("duplicate sampler id "+smp.ID))
		} else {
			samplers[smp.ID] = smp
		}
		if err := smp.Check(); err != nil {
			errs = append(errs, err)
		}
	}
	meshes := make(map[string]bool)
	for _, src := range s.Meshes {
		if src.File == "" {
			errs = append(errs, newErr("mesh source with empty file"))
		}
		for _, id := range src.IDs {
			meshes[id] = true
		}
	}
	if s.Camera != nil && (!s.Camera.Position.isFinite() || !s.Camera.Direction.isFinite()) {
		errs = append(errs, newErr("non-finite camera vector"))
	}
	if bg, ok := samplers[s.Background.Color]; !ok {
		errs = append(errs, newErr("background references undeclared sampler "+s.Background.Color))
	} else if !bg.IsConstant() && bg.Type != SamplerEquirectangular {
		errs = append(errs, newErr("background sampler "+bg.ID+" is not equirectangular"))
	}
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if !n.Translate.isFinite() ||
			(n.Rotate != nil && !n.Rotate.isFinite()) ||
			(n.Scale != nil && !n.Scale.isFinite()) {
			errs = append(errs, newErr(fmt.Sprintf("node %d has non-finite transform", i)))
		}
		if n.Mesh != "" && !meshes[n.Mesh] {
			errs = append(errs, newErr(fmt.Sprintf("node %d references undeclared mesh %s", i, n.Mesh)))
		}
		for _, c := range n.Material {
			smp, ok := samplers[c.Sampler]
			switch {
			case !ok:
				errs = append(errs, newErr(fmt.Sprintf("node %d %s references undeclared sampler %s", i, c.Name, c.Sampler)))
			case !smp.IsConstant() && smp.Type == SamplerEquirectangular:
				errs = append(errs, newErr(fmt.Sprintf("node %d %s references equirectangular sampler %s", i, c.Name, c.Sampler)))
			}
		}
	}
	return errors.Join(errs...)
}

// Check checks that smp is either a valid constant or image-based sampler.
func (smp Sampler) Check() error {
	switch {
	case smp.Color != nil && smp.File != "":
		return newErr("sampler " + smp.ID + " has both color and file")
	case smp.Color != nil:
		if !smp.Color.isFinite() {
			return newErr("sampler " + smp.ID + " has non-finite color")
		}
		if smp.Type != "" || smp.Mode != "" || smp.LDR {
			return newErr("constant sampler " + smp.ID + " has image fields")
		}
		return nil
	case smp.File == "":
		return newErr("sampler " + smp.ID + " has neither color nor file")
	}
	switch smp.Type {
	case "", SamplerImage, SamplerEquirectangular:
	default:
		return newErr("sampler " + smp.ID + " has unknown type " + string(smp.Type))
	}
	switch smp.Mode {
	case "", SampleLinear, SampleNearest:
	default:
		return newErr("sampler " + smp.ID + " has unknown mode " + string(smp.Mode))
	}
	return nil
}
