package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/nwgfx/pkg/math3d"
)

// DefaultColor is assigned to vertices of primitives without COLOR_0.
var DefaultColor = RGB{1, 1, 1}

// LoadGLB loads every triangle primitive of a GLTF or GLB file into a single
// mesh. Positions and COLOR_0 are read; other attributes are ignored. The
// result is validated before it is returned.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var verts []Vertex
	var indices []int
	for _, m := range doc.Meshes {
		if verts, indices, err = appendMesh(doc, m, verts, indices); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh, err := NewMesh(filepath.Base(path), len(verts), len(indices))
	if err != nil {
		return nil, err
	}
	copy(mesh.Vertices, verts)
	for i, idx := range indices {
		if idx < 0 || idx >= len(verts) {
			return nil, fmt.Errorf("%w: index %d at position %d", ErrIndexOutOfRange, idx, i)
		}
		mesh.Indices[i] = uint16(idx)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	return mesh, nil
}

func appendMesh(doc *gltf.Document, m *gltf.Mesh, verts []Vertex, indices []int) ([]Vertex, []int, error) {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return nil, nil, fmt.Errorf("read positions: %w", err)
		}

		var colors []RGB
		if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err = readColorAccessor(doc, colIdx)
			if err != nil {
				return nil, nil, fmt.Errorf("read colors: %w", err)
			}
		}

		base := len(verts)
		for i, p := range positions {
			c := DefaultColor
			if i < len(colors) {
				c = colors[i]
			}
			verts = append(verts, Vertex{Position: p, Color: c})
		}

		if prim.Indices != nil {
			idx, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return nil, nil, fmt.Errorf("read indices: %w", err)
			}
			for i, v := range idx {
				if v < 0 || v >= len(positions) {
					return nil, nil, fmt.Errorf("%w: index %d at position %d, primitive has %d vertices",
						ErrIndexOutOfRange, v, i, len(positions))
				}
			}
			for i := 0; i+2 < len(idx); i += 3 {
				indices = append(indices, base+idx[i], base+idx[i+1], base+idx[i+2])
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				indices = append(indices, base+i, base+i+1, base+i+2)
			}
		}

		if len(verts) > MaxVertices {
			return nil, nil, fmt.Errorf("%w: %d vertices exceeds uint16 index range", ErrInvalidSize, len(verts))
		}
	}
	return verts, indices, nil
}

// accessorView returns the buffer bytes, start offset and element stride of
// an accessor. elemSize is the tightly packed element size.
func accessorView(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}
	if *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, 0, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	buffer := doc.Buffers[view.Buffer]
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	start := view.ByteOffset + accessor.ByteOffset
	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(buffer.Data) {
			return nil, 0, 0, fmt.Errorf("accessor reads %d bytes past buffer end", end-len(buffer.Data))
		}
	}
	return buffer.Data, start, stride, nil
}

func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentUbyte, gltf.ComponentByte:
		return 1
	case gltf.ComponentUshort, gltf.ComponentShort:
		return 2
	default:
		return 4
	}
}

func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v/%v", accessor.Type, accessor.ComponentType)
	}
	data, start, stride, err := accessorView(doc, accessor, 12)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		off := start + i*stride
		result[i] = math3d.V3(readFloat32(data[off:]), readFloat32(data[off+4:]), readFloat32(data[off+8:]))
	}
	return result, nil
}

// readColorAccessor reads VEC3 or VEC4 colors stored as floats or as
// normalized unsigned bytes/shorts. Alpha is dropped.
func readColorAccessor(doc *gltf.Document, accessorIdx int) ([]RGB, error) {
	if accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	var n int
	switch accessor.Type {
	case gltf.AccessorVec3:
		n = 3
	case gltf.AccessorVec4:
		n = 4
	default:
		return nil, fmt.Errorf("expected VEC3 or VEC4 color, got %v", accessor.Type)
	}
	size := componentSize(accessor.ComponentType)
	data, start, stride, err := accessorView(doc, accessor, n*size)
	if err != nil {
		return nil, err
	}

	read := func(b []byte) (float32, error) {
		switch accessor.ComponentType {
		case gltf.ComponentFloat:
			return readFloat32(b), nil
		case gltf.ComponentUbyte:
			return float32(b[0]) / 255, nil
		case gltf.ComponentUshort:
			return float32(binary.LittleEndian.Uint16(b)) / 65535, nil
		}
		return 0, fmt.Errorf("unsupported color component type %v", accessor.ComponentType)
	}

	result := make([]RGB, accessor.Count)
	for i := range result {
		off := start + i*stride
		var c [3]float32
		for j := range c {
			if c[j], err = read(data[off+j*size:]); err != nil {
				return nil, err
			}
		}
		result[i] = RGB{
			math3d.Clamp(c[0], 0, 1),
			math3d.Clamp(c[1], 0, 1),
			math3d.Clamp(c[2], 0, 1),
		}
	}
	return result, nil
}

func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}
	size := componentSize(accessor.ComponentType)
	data, start, stride, err := accessorView(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		off := start + i*stride
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result[i] = int(data[off])
		case gltf.ComponentUshort:
			result[i] = int(binary.LittleEndian.Uint16(data[off:]))
		case gltf.ComponentUint:
			result[i] = int(binary.LittleEndian.Uint32(data[off:]))
		default:
			return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
		}
	}
	return result, nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
