package models

import (
	"errors"
	"testing"

	"github.com/taigrr/nwgfx/pkg/math3d"
)

func TestNewMesh(t *testing.T) {
	tests := []struct {
		name     string
		vertices int
		indices  int
		wantErr  bool
	}{
		{"cube", 8, 36, false},
		{"empty", 0, 0, false},
		{"max vertices", MaxVertices, 3, false},
		{"negative vertices", -1, 3, true},
		{"negative indices", 3, -3, true},
		{"partial triangle", 3, 4, true},
		{"too many vertices", MaxVertices + 1, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMesh(tt.name, tt.vertices, tt.indices)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSize) {
					t.Errorf("err = %v, want ErrInvalidSize", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.VertexCount() != tt.vertices || m.IndexCount() != tt.indices {
				t.Errorf("got %d/%d, want %d/%d", m.VertexCount(), m.IndexCount(), tt.vertices, tt.indices)
			}
			for _, v := range m.Vertices {
				if v != (Vertex{}) {
					t.Fatal("vertices not zeroed")
				}
			}
		})
	}
}

func TestCubeCentroid(t *testing.T) {
	c, err := NewCube("cube").Centroid()
	if err != nil {
		t.Fatal(err)
	}
	if !c.ApproxEqual(math3d.Vec3{}, 1e-6) {
		t.Errorf("centroid = %v, want origin", c)
	}

	m := NewCube("moved")
	m.MapPositions(func(p math3d.Vec3) math3d.Vec3 { return p.Add(math3d.V3(1, 2, 3)) })
	c, _ = m.Centroid()
	if !c.ApproxEqual(math3d.V3(1, 2, 3), 1e-6) {
		t.Errorf("moved centroid = %v", c)
	}
}

func TestCentroidEmpty(t *testing.T) {
	m, _ := NewMesh("empty", 0, 0)
	if _, err := m.Centroid(); !errors.Is(err, ErrEmptyMesh) {
		t.Errorf("err = %v, want ErrEmptyMesh", err)
	}
}

func TestCloneIndependence(t *testing.T) {
	src := NewCube("src")
	clone, err := src.Clone()
	if err != nil {
		t.Fatal(err)
	}

	clone.Vertices[0].Position = math3d.V3(9, 9, 9)
	clone.Indices[0] = 5
	if src.Vertices[0].Position == clone.Vertices[0].Position {
		t.Error("clone vertex write visible in source")
	}
	if src.Indices[0] != 0 {
		t.Error("clone index write visible in source")
	}

	src.Vertices[1].Color = RGB{}
	if clone.Vertices[1].Color != (RGB{0, 1, 0}) {
		t.Error("source write visible in clone")
	}
}

func TestCopyFromRestores(t *testing.T) {
	template := NewCube("template")
	m, _ := template.Clone()

	m.MapPositions(func(p math3d.Vec3) math3d.Vec3 {
		return math3d.RotateYaw(1.2, math3d.Vec3{}, p).Add(math3d.V3(0, -1, 20))
	})
	m.Vertices[3].Color = RGB{0.5, 0.5, 0.5}

	if err := m.CopyFrom(template); err != nil {
		t.Fatal(err)
	}
	for i := range m.Vertices {
		if m.Vertices[i] != template.Vertices[i] {
			t.Errorf("vertex %d = %v, want %v", i, m.Vertices[i], template.Vertices[i])
		}
	}
}

func TestCopyFromShapeMismatch(t *testing.T) {
	a := NewCube("a")
	b, _ := NewMesh("b", 3, 3)
	if err := b.CopyFrom(a); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestRelease(t *testing.T) {
	m := NewCube("gone")
	m.Release()
	m.Release()

	if !m.Released() || m.Vertices != nil || m.Indices != nil {
		t.Error("buffers not dropped")
	}
	if _, err := m.Clone(); !errors.Is(err, ErrReleased) {
		t.Errorf("Clone err = %v", err)
	}
	if err := m.CopyFrom(NewCube("t")); !errors.Is(err, ErrReleased) {
		t.Errorf("CopyFrom err = %v", err)
	}
	if _, err := m.Centroid(); !errors.Is(err, ErrReleased) {
		t.Errorf("Centroid err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	m := NewCube("cube")
	if err := m.Validate(); err != nil {
		t.Fatalf("cube invalid: %v", err)
	}
	m.Indices[10] = 8
	if err := m.Validate(); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestBounds(t *testing.T) {
	lo, hi := NewCube("cube").Bounds()
	if lo != math3d.Splat3(-0.5) || hi != math3d.Splat3(0.5) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}
}

func TestTriangle(t *testing.T) {
	m := NewCube("cube")
	a, b, c := m.Triangle(1)
	if a != cubeCorners[2] || b != cubeCorners[3] || c != cubeCorners[0] {
		t.Errorf("triangle 1 = %v %v %v", a, b, c)
	}
}

func BenchmarkClone(b *testing.B) {
	m := NewCube("cube")
	for b.Loop() {
		_, _ = m.Clone()
	}
}

func TestFitUnit(t *testing.T) {
	m := NewCube("big")
	m.MapPositions(func(p math3d.Vec3) math3d.Vec3 {
		return p.Mul(math3d.V3(4, 2, 1)).Add(math3d.V3(10, -3, 7))
	})
	m.FitUnit()

	lo, hi := m.Bounds()
	if !lo.ApproxEqual(math3d.V3(-0.5, -0.25, -0.125), 1e-5) || !hi.ApproxEqual(math3d.V3(0.5, 0.25, 0.125), 1e-5) {
		t.Errorf("bounds = %v %v", lo, hi)
	}
}
