package gscene

import (
	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
)

// Vec3 is a 3 component vector encoded as a JSON array [x, y, z].
type Vec3 [3]float32

// V3 converts an [ms3.Vec] to a Vec3.
func V3(v ms3.Vec) Vec3 { return Vec3{v.X, v.Y, v.Z} }

// Vec returns v as an [ms3.Vec] for arithmetic.
func (v Vec3) Vec() ms3.Vec { return ms3.Vec{X: v[0], Y: v[1], Z: v[2]} }

func (v Vec3) isFinite() bool {
	for _, c := range v {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Camera places the renderer's pinhole camera. A scene with no camera
// leaves placement to the renderer's defaults.
type Camera struct {
	Position  Vec3 `json:"position"`
	Direction Vec3 `json:"direction"`
}

// Background selects the environment sampler seen by rays that escape the scene.
type Background struct {
	// Color is the id of a sampler declared in the scene.
	Color string `json:"color"`
}

// MeshSource names a Wavefront OBJ file and the object ids to load from it.
// Nodes reference the loaded meshes through [Node.Mesh].
type MeshSource struct {
	File string   `json:"file"`
	IDs  []string `json:"ids"`
}

// Scene is the root of a scene description document.
type Scene struct {
	Name       string       `json:"name"`
	Camera     *Camera      `json:"camera,omitempty"`
	Background Background   `json:"background"`
	Meshes     []MeshSource `json:"meshes,omitempty"`
	Samplers   []Sampler    `json:"samplers"`
	Nodes      []Node       `json:"nodes"`
}

// NewScene returns a scene with no samplers or nodes whose background
// references the sampler backgroundID. The background sampler must be appended
// by the caller. camera may be nil.
func NewScene(name, backgroundID string, camera *Camera) *Scene {
	return &Scene{
		Name:       name,
		Camera:     camera,
		Background: Background{Color: backgroundID},
		Samplers:   []Sampler{},
		Nodes:      []Node{},
	}
}

// AppendSampler appends samplers in declaration order.
func (s *Scene) AppendSampler(samplers ...Sampler) {
	s.Samplers = append(s.Samplers, samplers...)
}

// AppendNode appends nodes in declaration order.
func (s *Scene) AppendNode(nodes ...Node) {
	s.Nodes = append(s.Nodes, nodes...)
}

// AddMeshSource appends a mesh source so nodes may reference its ids.
func (s *Scene) AddMeshSource(src MeshSource) {
	s.Meshes = append(s.Meshes, src)
}

// Bounds returns the box enclosing every node's translation, each node
// padded by radius in all directions. Node rotation and scale are ignored.
// An empty scene returns the zero box.
func (s *Scene) Bounds(radius float32) ms3.Box {
	if len(s.Nodes) == 0 {
		return ms3.Box{}
	}
	pad := ms3.Vec{X: radius, Y: radius, Z: radius}
	first := s.Nodes[0].Translate.Vec()
	bb := ms3.Box{Min: ms3.Sub(first, pad), Max: ms3.Add(first, pad)}
	for _, n := range s.Nodes[1:] {
		p := n.Translate.Vec()
		bb.Min = ms3.MinElem(bb.Min, ms3.Sub(p, pad))
		bb.Max = ms3.MaxElem(bb.Max, ms3.Add(p, pad))
	}
	return bb
}

// FrameCamera returns a camera on the -Z side of bb looking down +Z at its
// center, far enough back that the XY extent fits a 45 degree field of view.
func FrameCamera(bb ms3.Box) *Camera {
	const halfFOV = math32.Pi / 8
	center := bb.Center()
	size := bb.Size()
	extent := math32.Max(size.X, size.Y) / 2
	dist := extent/math32.Tan(halfFOV) + size.Z/2
	return &Camera{
		Position:  V3(ms3.Sub(center, ms3.Vec{Z: dist})),
		Direction: Vec3{0, 0, 1},
	}
}
