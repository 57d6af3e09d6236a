package render

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/taigrr/nwgfx/pkg/math3d"
	"github.com/taigrr/nwgfx/pkg/models"
)

// Transformer maps world-space points to normalized device coordinates for
// one camera pose. Build one per mesh render; it is cheap.
type Transformer struct {
	View     math3d.Mat4
	Proj     math3d.Mat4
	ViewProj math3d.Mat4

	near float32
}

// NewTransformer builds the view and projection for cam. forward is the view
// direction, normally cam.Forward(); aspect is viewport width / height.
func NewTransformer(cam *Camera, forward math3d.Vec3, aspect float32) *Transformer {
	forward = forward.NormalizeOr(cam.Forward())
	right := cam.Right()
	up := right.Cross(forward).NormalizeOr(math3d.V3(0, 1, 0))

	near, far := cam.Near, cam.Far
	if near <= 0 {
		near = DefaultNear
	}
	if far <= near {
		far = near + DefaultFar
	}
	if aspect <= 0 {
		aspect = 1
	}

	fov := math3d.Clamp(cam.FOV, MinFOV, MaxFOV)
	t := &Transformer{
		View: math3d.LookBasis(cam.Position, right, up, forward),
		Proj: math3d.Perspective(math3d.DegToRad(fov), aspect, near, far),
		near: near,
	}
	t.ViewProj = t.Proj.Mul(t.View)
	return t
}

// Clip returns p in homogeneous clip space.
func (t *Transformer) Clip(p math3d.Vec3) math3d.Vec4 {
	return t.ViewProj.MulVec4(math3d.V4FromV3(p, 1))
}

// Project returns p in normalized device coordinates. ok is false when p is
// closer to the camera plane than the near distance or behind it; such points
// have no meaningful projection.
func (t *Transformer) Project(p math3d.Vec3) (ndc math3d.Vec3, ok bool) {
	clip := t.Clip(p)
	if clip.W < t.near {
		return math3d.Vec3{}, false
	}
	return clip.PerspectiveDivide()
}

// ProjectMesh writes the NDC position of every vertex of src into dst. dst
// may be src. Vertices that fail Project get Z = +Inf. Colors are copied.
func (t *Transformer) ProjectMesh(dst, src *models.Mesh) error {
	if len(dst.Vertices) != len(src.Vertices) {
		return fmt.Errorf("project mesh: %w", models.ErrShapeMismatch)
	}
	for i, v := range src.Vertices {
		ndc, ok := t.Project(v.Position)
		if !ok {
			ndc = math3d.V3(0, 0, math32.Inf(1))
		}
		dst.Vertices[i] = models.Vertex{Position: ndc, Color: v.Color}
	}
	return nil
}

// NDCToScreen maps NDC x/y to continuous pixel coordinates. (-1, 1) is the
// top-left corner of pixel (0, 0); y grows downward.
func NDCToScreen(ndc math3d.Vec3, width, height int) (x, y float32) {
	x = (ndc.X + 1) * 0.5 * float32(width)
	y = (1 - ndc.Y) * 0.5 * float32(height)
	return x, y
}
