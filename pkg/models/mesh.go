// Package models provides the mesh store for nwgfx: indexed, per-vertex
// colored triangle meshes with clone and reset-from-template semantics.
package models

import (
	"errors"
	"fmt"

	"github.com/brunoga/deep"
	"github.com/taigrr/nwgfx/pkg/math3d"
)

// MaxVertices is the largest vertex count addressable by uint16 indices.
const MaxVertices = 1 << 16

var (
	ErrInvalidSize     = errors.New("invalid mesh size")
	ErrShapeMismatch   = errors.New("mesh shape mismatch")
	ErrEmptyMesh       = errors.New("mesh has no vertices")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrReleased        = errors.New("mesh released")
)

// RGB is a linear color with components in [0, 1].
type RGB struct {
	R, G, B float32
}

// Vertex is a mesh vertex: a position and a color.
type Vertex struct {
	Position math3d.Vec3
	Color    RGB
}

// Mesh is an indexed triangle list. Every three consecutive indices form one
// triangle. Buffer lengths are fixed at creation; the contents are mutable.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint16

	released bool
}

// NewMesh creates a mesh with zeroed vertex and index buffers.
func NewMesh(name string, vertexCount, indexCount int) (*Mesh, error) {
	switch {
	case vertexCount < 0 || indexCount < 0:
		return nil, fmt.Errorf("%w: negative count (%d vertices, %d indices)", ErrInvalidSize, vertexCount, indexCount)
	case indexCount%3 != 0:
		return nil, fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrInvalidSize, indexCount)
	case vertexCount > MaxVertices:
		return nil, fmt.Errorf("%w: %d vertices exceeds %d", ErrInvalidSize, vertexCount, MaxVertices)
	}
	return &Mesh{
		Name:     name,
		Vertices: make([]Vertex, vertexCount),
		Indices:  make([]uint16, indexCount),
	}, nil
}

// Clone returns an independent deep copy of m.
func (m *Mesh) Clone() (*Mesh, error) {
	if m.released {
		return nil, ErrReleased
	}
	verts, err := deep.Copy(m.Vertices)
	if err != nil {
		return nil, fmt.Errorf("copy vertices: %w", err)
	}
	indices, err := deep.Copy(m.Indices)
	if err != nil {
		return nil, fmt.Errorf("copy indices: %w", err)
	}
	return &Mesh{Name: m.Name, Vertices: verts, Indices: indices}, nil
}

// CopyFrom overwrites the vertex data of m with the vertex data of template.
// Both meshes must have the same vertex and index counts. Indices are never
// touched and nothing is reallocated.
func (m *Mesh) CopyFrom(template *Mesh) error {
	if m.released || template.released {
		return ErrReleased
	}
	if len(m.Vertices) != len(template.Vertices) || len(m.Indices) != len(template.Indices) {
		return fmt.Errorf("%w: %d/%d vs template %d/%d", ErrShapeMismatch,
			len(m.Vertices), len(m.Indices), len(template.Vertices), len(template.Indices))
	}
	copy(m.Vertices, template.Vertices)
	return nil
}

// Release drops the mesh buffers. It is safe to call more than once.
func (m *Mesh) Release() {
	m.Vertices = nil
	m.Indices = nil
	m.released = true
}

// Released reports whether Release has been called.
func (m *Mesh) Released() bool {
	return m.released
}

// Centroid returns the arithmetic mean of all vertex positions.
func (m *Mesh) Centroid() (math3d.Vec3, error) {
	if m.released {
		return math3d.Vec3{}, ErrReleased
	}
	if len(m.Vertices) == 0 {
		return math3d.Vec3{}, ErrEmptyMesh
	}
	var sum math3d.Vec3
	for _, v := range m.Vertices {
		sum = sum.Add(v.Position)
	}
	return sum.Scale(1 / float32(len(m.Vertices))), nil
}

// Validate checks the structural invariants of the mesh.
func (m *Mesh) Validate() error {
	if m.released {
		return ErrReleased
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrInvalidSize, len(m.Indices))
	}
	if len(m.Vertices) > MaxVertices {
		return fmt.Errorf("%w: %d vertices", ErrInvalidSize, len(m.Vertices))
	}
	n := len(m.Vertices)
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at position %d, %d vertices", ErrIndexOutOfRange, idx, i, n)
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the three vertices of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c Vertex) {
	base := i * 3
	return m.Vertices[m.Indices[base]], m.Vertices[m.Indices[base+1]], m.Vertices[m.Indices[base+2]]
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
// An empty mesh yields a zero box.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo = m.Vertices[0].Position
	hi = lo
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	return lo, hi
}

// MapPositions replaces every vertex position p with fn(p).
func (m *Mesh) MapPositions(fn func(math3d.Vec3) math3d.Vec3) {
	for i := range m.Vertices {
		m.Vertices[i].Position = fn(m.Vertices[i].Position)
	}
}

// Transform applies a transformation matrix to all vertex positions.
func (m *Mesh) Transform(mat math3d.Mat4) {
	m.MapPositions(mat.MulVec3)
}

// FitUnit centers the mesh's bounding box on the origin and scales it
// uniformly so that its largest side is one unit, the size of the reference
// cube. Flat or empty meshes are only centered.
func (m *Mesh) FitUnit() {
	lo, hi := m.Bounds()
	center := lo.Add(hi).Scale(0.5)
	size := hi.Sub(lo)
	maxDim := max(size.X, size.Y, size.Z)

	transform := math3d.Translate(center.Negate())
	if maxDim > 0 {
		s := 1 / maxDim
		transform = math3d.Scale(math3d.V3(s, s, s)).Mul(transform)
	}
	m.Transform(transform)
}
