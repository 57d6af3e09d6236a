package models

import (
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/nwgfx/pkg/math3d"
)

// writeTriangleGLB writes a colored triangle to a temporary GLB file and
// returns its path. Each index list becomes its own primitive over the same
// three positions.
func writeTriangleGLB(t *testing.T, lists ...[]uint16) string {
	t.Helper()

	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	colors := [][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}}

	var buf []byte
	for _, p := range positions {
		for _, f := range p {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}
	colorOffset := len(buf)
	for _, c := range colors {
		buf = append(buf, c[:]...)
	}
	indexOffset := len(buf)
	for _, indices := range lists {
		for _, i := range indices {
			buf = binary.LittleEndian.AppendUint16(buf, i)
		}
	}
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}

	doc := gltf.NewDocument()
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{ByteLength: len(buf), Data: buf})
	doc.BufferViews = append(doc.BufferViews,
		&gltf.BufferView{Buffer: 0, ByteOffset: 0, ByteLength: colorOffset},
		&gltf.BufferView{Buffer: 0, ByteOffset: colorOffset, ByteLength: indexOffset - colorOffset},
	)
	doc.Accessors = append(doc.Accessors,
		&gltf.Accessor{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: 3, Type: gltf.AccessorVec3},
		&gltf.Accessor{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUbyte, Normalized: true, Count: 3, Type: gltf.AccessorVec4},
	)
	mesh := &gltf.Mesh{Name: "triangle"}
	offset := indexOffset
	for _, indices := range lists {
		doc.BufferViews = append(doc.BufferViews,
			&gltf.BufferView{Buffer: 0, ByteOffset: offset, ByteLength: 2 * len(indices)})
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{
			BufferView:    gltf.Index(len(doc.BufferViews) - 1),
			ComponentType: gltf.ComponentUshort,
			Count:         len(indices),
			Type:          gltf.AccessorScalar,
		})
		mesh.Primitives = append(mesh.Primitives, &gltf.Primitive{
			Attributes: map[string]int{gltf.POSITION: 0, gltf.COLOR_0: 1},
			Indices:    gltf.Index(len(doc.Accessors) - 1),
			Mode:       gltf.PrimitiveTriangles,
		})
		offset += 2 * len(indices)
	}
	doc.Meshes = append(doc.Meshes, mesh)

	path := filepath.Join(t.TempDir(), "triangle.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadGLBTriangle(t *testing.T) {
	mesh, err := LoadGLB(writeTriangleGLB(t, []uint16{0, 1, 2}))
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}

	if mesh.Name != "triangle.glb" {
		t.Errorf("Name = %q", mesh.Name)
	}
	if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d triangles", mesh.VertexCount(), mesh.TriangleCount())
	}
	if got := mesh.Vertices[1].Position; got != math3d.V3(1, 0, 0) {
		t.Errorf("vertex 1 position = %v", got)
	}
	wantColors := []RGB{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, want := range wantColors {
		if got := mesh.Vertices[i].Color; got != want {
			t.Errorf("vertex %d color = %v, want %v", i, got, want)
		}
	}
	if mesh.Indices[2] != 2 {
		t.Errorf("indices = %v", mesh.Indices)
	}
}

func TestLoadGLBRejectsBadIndex(t *testing.T) {
	_, err := LoadGLB(writeTriangleGLB(t, []uint16{0, 1, 7}))
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestLoadGLBPrimitiveIndexRange(t *testing.T) {
	// Index 4 exists in the merged mesh but not in the first primitive
	_, err := LoadGLB(writeTriangleGLB(t, []uint16{0, 1, 4}, []uint16{0, 1, 2}))
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}

	mesh, err := LoadGLB(writeTriangleGLB(t, []uint16{0, 1, 2}, []uint16{2, 1, 0}))
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	want := []uint16{0, 1, 2, 5, 4, 3}
	if mesh.VertexCount() != 6 || len(mesh.Indices) != len(want) {
		t.Fatalf("got %d vertices, indices %v", mesh.VertexCount(), mesh.Indices)
	}
	for i := range want {
		if mesh.Indices[i] != want[i] {
			t.Errorf("indices = %v, want %v", mesh.Indices, want)
			break
		}
	}
}
