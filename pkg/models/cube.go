package models

import "github.com/taigrr/nwgfx/pkg/math3d"

var cubeCorners = [8]Vertex{
	{math3d.V3(-0.5, -0.5, -0.5), RGB{1, 0, 0}},
	{math3d.V3(0.5, -0.5, -0.5), RGB{0, 1, 0}},
	{math3d.V3(0.5, 0.5, -0.5), RGB{0, 0, 1}},
	{math3d.V3(-0.5, 0.5, -0.5), RGB{0, 1, 1}},
	{math3d.V3(-0.5, -0.5, 0.5), RGB{1, 0, 1}},
	{math3d.V3(0.5, -0.5, 0.5), RGB{1, 1, 0}},
	{math3d.V3(0.5, 0.5, 0.5), RGB{0, 0, 0}},
	{math3d.V3(-0.5, 0.5, 0.5), RGB{1, 1, 1}},
}

var cubeIndices = [36]uint16{
	0, 1, 2, 2, 3, 0, // back
	7, 6, 5, 5, 4, 7, // front
	0, 4, 5, 5, 1, 0, // bottom
	3, 2, 6, 6, 7, 3, // top
	0, 3, 7, 7, 4, 0, // left
	1, 5, 6, 6, 2, 1, // right
}

// NewCube returns a unit cube centered on the origin with a distinct color
// at each corner.
func NewCube(name string) *Mesh {
	m, _ := NewMesh(name, len(cubeCorners), len(cubeIndices))
	copy(m.Vertices, cubeCorners[:])
	copy(m.Indices, cubeIndices[:])
	return m
}
