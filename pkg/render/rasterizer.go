package render

import (
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/taigrr/nwgfx/pkg/math3d"
	"github.com/taigrr/nwgfx/pkg/models"
)

// RenderMode selects how triangles are drawn.
type RenderMode int

const (
	RenderFilled    RenderMode = iota // Gouraud-filled triangles
	RenderWireframe                   // Triangle edges only
)

func (m RenderMode) String() string {
	switch m {
	case RenderFilled:
		return "filled"
	case RenderWireframe:
		return "wireframe"
	default:
		return fmt.Sprintf("RenderMode(%d)", int(m))
	}
}

// Stats counts what the rasterizer did since the last ResetStats.
type Stats struct {
	MeshesTested int // Meshes submitted to RenderMesh
	MeshesCulled int // Meshes rejected whole by the frustum test

	TrianglesTested     int // Triangles considered
	TrianglesDrawn      int // Triangles that reached the framebuffer
	TrianglesBehind     int // Discarded: a vertex behind the near plane
	TrianglesOffscreen  int // Discarded: screen bounds outside the viewport
	TrianglesDegenerate int // Filled mode only: zero screen area
}

// Rasterizer draws meshes into a framebuffer. There is no depth buffer:
// later triangles overwrite earlier ones.
type Rasterizer struct {
	fb   *Framebuffer
	mode RenderMode

	// Stats accumulates until ResetStats.
	Stats Stats

	// DisableCulling turns off the whole-mesh frustum test.
	DisableCulling bool
}

// NewRasterizer creates a rasterizer drawing into fb in filled mode.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Mode returns the current render mode.
func (r *Rasterizer) Mode() RenderMode {
	return r.mode
}

// SetMode sets the render mode for subsequent draws.
func (r *Rasterizer) SetMode(m RenderMode) {
	r.mode = m
}

// ToggleWireframe flips between filled and wireframe mode. It does not
// debounce; callers holding a key should rate-limit.
func (r *Rasterizer) ToggleWireframe() RenderMode {
	if r.mode == RenderWireframe {
		r.mode = RenderFilled
	} else {
		r.mode = RenderWireframe
	}
	return r.mode
}

// ResetStats clears the statistics (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = Stats{}
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y  float32 // Continuous pixel coordinates
	Color models.RGB
}

// RenderMesh projects mesh through cam and draws every triangle in the
// current mode. forward is the camera view direction, normally
// cam.Forward(). The mesh is only read.
func (r *Rasterizer) RenderMesh(mesh *models.Mesh, cam *Camera, forward math3d.Vec3) error {
	if mesh == nil {
		return ErrNilMesh
	}
	if r.fb == nil || r.fb.Released() {
		return ErrReleased
	}
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("render mesh %q: %w", mesh.Name, err)
	}

	w, h := r.fb.Width, r.fb.Height
	tr := NewTransformer(cam, forward, float32(w)/float32(h))

	r.Stats.MeshesTested++
	if !r.DisableCulling && mesh.VertexCount() > 0 {
		lo, hi := mesh.Bounds()
		if !NewFrustumFromMatrix(tr.ViewProj).IntersectAABBNoFar(NewAABB(lo, hi)) {
			r.Stats.MeshesCulled++
			return nil
		}
	}

	for i := range mesh.TriangleCount() {
		r.Stats.TrianglesTested++
		a, b, c := mesh.Triangle(i)

		var sv [3]screenVertex
		behind := false
		for k, v := range [3]models.Vertex{a, b, c} {
			ndc, ok := tr.Project(v.Position)
			if !ok {
				behind = true
				break
			}
			sv[k].X, sv[k].Y = NDCToScreen(ndc, w, h)
			sv[k].Color = v.Color
		}
		if behind {
			r.Stats.TrianglesBehind++
			continue
		}

		minX, maxX := min3(sv[0].X, sv[1].X, sv[2].X), max3(sv[0].X, sv[1].X, sv[2].X)
		minY, maxY := min3(sv[0].Y, sv[1].Y, sv[2].Y), max3(sv[0].Y, sv[1].Y, sv[2].Y)
		if maxX < 0 || maxY < 0 || minX >= float32(w) || minY >= float32(h) {
			r.Stats.TrianglesOffscreen++
			continue
		}

		if r.mode == RenderWireframe {
			r.drawTriangleWire(sv)
			r.Stats.TrianglesDrawn++
			continue
		}
		if r.fillTriangle(sv) {
			r.Stats.TrianglesDrawn++
		} else {
			r.Stats.TrianglesDegenerate++
		}
	}
	return nil
}

// drawTriangleWire draws the three edges in the first vertex's color.
func (r *Rasterizer) drawTriangleWire(sv [3]screenVertex) {
	c := ToRGBA(sv[0].Color)
	r.drawLine2D(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y, c)
	r.drawLine2D(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y, c)
	r.drawLine2D(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y, c)
}

// ToRGBA converts a [0,1] color to 8-bit opaque RGBA.
func ToRGBA(c models.RGB) color.RGBA {
	return color.RGBA{unitToByte(c.R), unitToByte(c.G), unitToByte(c.B), 255}
}

func unitToByte(v float32) uint8 {
	return uint8(math3d.Clamp(v, 0, 1)*255 + 0.5)
}

func min3(a, b, c float32) float32 {
	return math32.Min(a, math32.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math32.Max(a, math32.Max(b, c))
}
