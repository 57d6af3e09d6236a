package render

import (
	"errors"
	"image/color"
	"testing"

	"github.com/taigrr/nwgfx/pkg/math3d"
	"github.com/taigrr/nwgfx/pkg/models"
)

// createTestRasterizer creates a rasterizer and framebuffer for testing.
func createTestRasterizer(t testing.TB, width, height int) (*Rasterizer, *Framebuffer) {
	t.Helper()
	fb, err := NewFramebuffer(width, height)
	if err != nil {
		t.Fatal(err)
	}
	return NewRasterizer(fb), fb
}

// triangleMesh builds a single triangle with per-vertex colors.
func triangleMesh(t testing.TB, p [3]math3d.Vec3, c [3]models.RGB) *models.Mesh {
	t.Helper()
	m, err := models.NewMesh("tri", 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 3 {
		m.Vertices[i] = models.Vertex{Position: p[i], Color: c[i]}
		m.Indices[i] = uint16(i)
	}
	return m
}

var red = models.RGB{R: 1}

func frontTriangle(t testing.TB, offset math3d.Vec3) *models.Mesh {
	return triangleMesh(t,
		[3]math3d.Vec3{
			math3d.V3(-1, -1, -5).Add(offset),
			math3d.V3(1, -1, -5).Add(offset),
			math3d.V3(0, 1, -5).Add(offset),
		},
		[3]models.RGB{red, red, red},
	)
}

func countNot(fb *Framebuffer, c color.RGBA) int {
	n := 0
	for _, p := range fb.Pixels {
		if p != c {
			n++
		}
	}
	return n
}

func TestRenderTriangleCoversCenter(t *testing.T) {
	r, fb := createTestRasterizer(t, 80, 60)
	cam := NewCamera()

	if err := r.RenderMesh(frontTriangle(t, math3d.Vec3{}), cam, cam.Forward()); err != nil {
		t.Fatal(err)
	}

	if got := fb.GetPixel(40, 30); got != RGB(255, 0, 0) {
		t.Errorf("center pixel = %v, want red", got)
	}
	if got := fb.GetPixel(0, 0); got != ColorBlack {
		t.Errorf("corner pixel = %v, want untouched", got)
	}
	if r.Stats.TrianglesDrawn != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}
}

func TestRenderTriangleOffscreen(t *testing.T) {
	tests := []struct {
		name    string
		offset  math3d.Vec3
		culling bool
		check   func(Stats) bool
	}{
		{"far right culled", math3d.V3(1000, 0, 0), true, func(s Stats) bool { return s.MeshesCulled == 1 }},
		{"far right discarded", math3d.V3(1000, 0, 0), false, func(s Stats) bool { return s.TrianglesOffscreen == 1 }},
		{"behind camera", math3d.V3(0, 0, 10), false, func(s Stats) bool { return s.TrianglesBehind == 1 }},
		{"behind camera culled", math3d.V3(0, 0, 10), true, func(s Stats) bool { return s.MeshesCulled == 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, fb := createTestRasterizer(t, 80, 60)
			r.DisableCulling = !tt.culling
			cam := NewCamera()

			for _, mode := range []RenderMode{RenderFilled, RenderWireframe} {
				r.SetMode(mode)
				r.ResetStats()
				if err := r.RenderMesh(frontTriangle(t, tt.offset), cam, cam.Forward()); err != nil {
					t.Fatal(err)
				}
				if n := countNot(fb, ColorBlack); n != 0 {
					t.Errorf("%v: %d pixels drawn, want 0", mode, n)
				}
				if !tt.check(r.Stats) {
					t.Errorf("%v: stats = %+v", mode, r.Stats)
				}
			}
		})
	}
}

func TestRenderPartiallyBehindDropsTriangle(t *testing.T) {
	r, fb := createTestRasterizer(t, 80, 60)
	cam := NewCamera()
	m := triangleMesh(t,
		[3]math3d.Vec3{math3d.V3(-1, -1, -5), math3d.V3(1, -1, -5), math3d.V3(0, 1, 5)},
		[3]models.RGB{red, red, red},
	)
	if err := r.RenderMesh(m, cam, cam.Forward()); err != nil {
		t.Fatal(err)
	}
	if n := countNot(fb, ColorBlack); n != 0 {
		t.Errorf("%d pixels drawn, want 0", n)
	}
	if r.Stats.TrianglesBehind != 1 {
		t.Errorf("stats = %+v", r.Stats)
	}
}

func TestRenderWireframe(t *testing.T) {
	r, fb := createTestRasterizer(t, 80, 60)
	r.SetMode(RenderWireframe)
	cam := NewCamera()
	m := triangleMesh(t,
		[3]math3d.Vec3{math3d.V3(-1, -1, -5), math3d.V3(1, -1, -5), math3d.V3(0, 1, -5)},
		[3]models.RGB{{G: 1}, red, {B: 1}},
	)
	if err := r.RenderMesh(m, cam, cam.Forward()); err != nil {
		t.Fatal(err)
	}

	if got := fb.GetPixel(40, 30); got != ColorBlack {
		t.Errorf("interior pixel = %v, want untouched", got)
	}
	green := RGB(0, 255, 0)
	drawn := 0
	for _, p := range fb.Pixels {
		switch p {
		case ColorBlack:
		case green:
			drawn++
		default:
			t.Fatalf("edge pixel %v, want first vertex color", p)
		}
	}
	if drawn == 0 {
		t.Error("no edges drawn")
	}
}

func TestWindingIndependent(t *testing.T) {
	cam := NewCamera()
	ccw := frontTriangle(t, math3d.Vec3{})
	cw := frontTriangle(t, math3d.Vec3{})
	cw.Indices[1], cw.Indices[2] = cw.Indices[2], cw.Indices[1]

	r1, fb1 := createTestRasterizer(t, 80, 60)
	r2, fb2 := createTestRasterizer(t, 80, 60)
	if err := r1.RenderMesh(ccw, cam, cam.Forward()); err != nil {
		t.Fatal(err)
	}
	if err := r2.RenderMesh(cw, cam, cam.Forward()); err != nil {
		t.Fatal(err)
	}
	for i := range fb1.Pixels {
		if fb1.Pixels[i] != fb2.Pixels[i] {
			t.Fatalf("pixel %d differs between windings", i)
		}
	}
	if countNot(fb1, ColorBlack) == 0 {
		t.Error("nothing drawn")
	}
}

func TestSharedEdgeCoveredOnce(t *testing.T) {
	// Two triangles splitting an 8x8 square along its diagonal
	quad := [2][3]screenVertex{
		{{X: 0, Y: 0, Color: red}, {X: 8, Y: 0, Color: red}, {X: 0, Y: 8, Color: red}},
		{{X: 8, Y: 0, Color: red}, {X: 8, Y: 8, Color: red}, {X: 0, Y: 8, Color: red}},
	}
	cover := make([]int, 64)
	for _, tri := range quad {
		r, fb := createTestRasterizer(t, 8, 8)
		if !r.fillTriangle(tri) {
			t.Fatal("triangle reported degenerate")
		}
		for i, p := range fb.Pixels {
			if p != ColorBlack {
				cover[i]++
			}
		}
	}
	for i, n := range cover {
		if n != 1 {
			t.Errorf("pixel (%d,%d) covered %d times", i%8, i/8, n)
		}
	}
}

func TestFillInterpolatesColor(t *testing.T) {
	r, fb := createTestRasterizer(t, 16, 16)
	tri := [3]screenVertex{
		{X: 0, Y: 0, Color: models.RGB{R: 1}},
		{X: 16, Y: 0, Color: models.RGB{G: 1}},
		{X: 0, Y: 16, Color: models.RGB{B: 1}},
	}
	r.fillTriangle(tri)

	near0 := fb.GetPixel(0, 0)
	if near0.R < 200 || near0.G > 40 || near0.B > 40 {
		t.Errorf("pixel near red vertex = %v", near0)
	}
	mid := fb.GetPixel(4, 4)
	sum := int(mid.R) + int(mid.G) + int(mid.B)
	if sum < 250 || sum > 260 {
		t.Errorf("interpolated %v does not sum to ~255", mid)
	}
}

func TestDegenerateTriangle(t *testing.T) {
	r, fb := createTestRasterizer(t, 8, 8)
	line := [3]screenVertex{{X: 0, Y: 0}, {X: 4, Y: 4}, {X: 8, Y: 8}}
	if r.fillTriangle(line) {
		t.Error("collinear triangle reported as drawn")
	}
	if countNot(fb, ColorBlack) != 0 {
		t.Error("degenerate triangle wrote pixels")
	}
}

func TestToggleWireframe(t *testing.T) {
	r, _ := createTestRasterizer(t, 4, 4)
	if r.Mode() != RenderFilled {
		t.Fatalf("default mode = %v", r.Mode())
	}
	if got := r.ToggleWireframe(); got != RenderWireframe {
		t.Errorf("first toggle = %v", got)
	}
	if got := r.ToggleWireframe(); got != RenderFilled {
		t.Errorf("second toggle = %v", got)
	}
}

func TestRenderMeshErrors(t *testing.T) {
	r, fb := createTestRasterizer(t, 4, 4)
	cam := NewCamera()

	if err := r.RenderMesh(nil, cam, cam.Forward()); !errors.Is(err, ErrNilMesh) {
		t.Errorf("nil mesh err = %v", err)
	}

	bad := frontTriangle(t, math3d.Vec3{})
	bad.Indices[2] = 9
	if err := r.RenderMesh(bad, cam, cam.Forward()); !errors.Is(err, models.ErrIndexOutOfRange) {
		t.Errorf("bad index err = %v", err)
	}

	fb.Release()
	if err := r.RenderMesh(frontTriangle(t, math3d.Vec3{}), cam, cam.Forward()); !errors.Is(err, ErrReleased) {
		t.Errorf("released err = %v", err)
	}
}

func TestClipSegment(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 float32
		ok             bool
	}{
		{"inside", 1, 1, 5, 5, true},
		{"crossing", -100, 4, 100, 4, true},
		{"outside", -10, -10, -5, -1, false},
		{"huge", -1e9, -1e9, 1e9, 1e9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, y0, x1, y1, ok := clipSegment(tt.x0, tt.y0, tt.x1, tt.y1, 0, 0, 8, 8)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			for _, v := range []float32{x0, y0, x1, y1} {
				if v < -1e-3 || v > 8+1e-3 {
					t.Errorf("clipped coordinate %v outside viewport", v)
				}
			}
		})
	}
}

func BenchmarkRenderCube(b *testing.B) {
	r, _ := createTestRasterizer(b, 80, 60)
	cam := NewCamera()
	cube := models.NewCube("cube")
	cube.MapPositions(func(p math3d.Vec3) math3d.Vec3 { return p.Add(math3d.V3(0, 0, -3)) })
	fwd := cam.Forward()

	for b.Loop() {
		_ = r.RenderMesh(cube, cam, fwd)
	}
}

func BenchmarkRenderCubeWireframe(b *testing.B) {
	r, _ := createTestRasterizer(b, 80, 60)
	r.SetMode(RenderWireframe)
	cam := NewCamera()
	cube := models.NewCube("cube")
	cube.MapPositions(func(p math3d.Vec3) math3d.Vec3 { return p.Add(math3d.V3(0, 0, -3)) })
	fwd := cam.Forward()

	for b.Loop() {
		_ = r.RenderMesh(cube, cam, fwd)
	}
}
