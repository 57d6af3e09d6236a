package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/nwgfx/pkg/math3d"
)

// Field of view limits in degrees.
const (
	MinFOV = 20
	MaxFOV = 180
)

// Default camera parameters.
const (
	DefaultFOV  = 75
	DefaultNear = 0.1
	DefaultFar  = 100
)

// Camera represents a first-person camera: a position plus yaw and pitch.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (radians). Yaw π looks down -Z.
	Yaw   float32
	Pitch float32

	// FOV is the vertical field of view in degrees, kept in [MinFOV, MaxFOV].
	FOV float32

	// Clip planes in view-space distance
	Near float32
	Far  float32
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera() *Camera {
	return &Camera{
		Yaw:  math32.Pi,
		FOV:  DefaultFOV,
		Near: DefaultNear,
		Far:  DefaultFar,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// SetFOV sets the field of view in degrees, clamped to [MinFOV, MaxFOV].
// It reports whether the value had to be clamped.
func (c *Camera) SetFOV(deg float32) (clamped bool) {
	c.FOV = math3d.Clamp(deg, MinFOV, MaxFOV)
	return c.FOV != deg
}

// AdjustFOV changes the field of view by delta degrees, clamped.
func (c *Camera) AdjustFOV(delta float32) (clamped bool) {
	return c.SetFOV(c.FOV + delta)
}

// Rotate rotates the camera by the given angles (in radians). Neither angle
// is clamped.
func (c *Camera) Rotate(deltaYaw, deltaPitch float32) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	f := math3d.V3(cp*-sy, sp, cp*cy)
	return f.NormalizeOr(math3d.V3(0, 0, -1))
}

// Right returns the unit right vector. It depends on yaw only, so it stays
// horizontal whatever the pitch.
func (c *Camera) Right() math3d.Vec3 {
	sy, cy := math32.Sincos(c.Yaw)
	r := math3d.V3(-cy, 0, -sy)
	return r.NormalizeOr(math3d.V3(1, 0, 0))
}

// Up returns the up vector orthogonal to Right and Forward.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward()).NormalizeOr(math3d.V3(0, 1, 0))
}

// MoveForward moves the camera along Forward (or backward if negative).
func (c *Camera) MoveForward(distance float32) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
}

// MoveRight moves the camera along Right (or left if negative).
func (c *Camera) MoveRight(distance float32) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
}
