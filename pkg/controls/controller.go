package controls

import (
	"log/slog"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/nwgfx/pkg/log"
	"github.com/taigrr/nwgfx/pkg/math3d"
	"github.com/taigrr/nwgfx/pkg/render"
)

// Per-frame steps.
const (
	DefaultFOVStep  = 0.3 // degrees
	DefaultTurnStep = 1   // degrees
	DefaultMoveStep = 0.5
	// DefaultCooldown is the number of held frames skipped between two
	// wireframe toggles: about 100 ms at 33 ms per frame.
	DefaultCooldown = 3
)

// Toggler switches between filled and wireframe rendering.
type Toggler interface {
	ToggleWireframe() render.RenderMode
}

// Controller applies held keys to a camera and a rasterizer.
type Controller struct {
	FOVStep  float32
	TurnStep float32 // degrees
	MoveStep float32
	Cooldown int

	// Smooth, if set, eases rotation speed instead of turning at a fixed
	// rate while a key is held.
	Smooth *Smoother

	Log *log.Logger

	cooldown int
}

// NewController creates a controller with the default steps.
func NewController() *Controller {
	return &Controller{
		FOVStep:  DefaultFOVStep,
		TurnStep: DefaultTurnStep,
		MoveStep: DefaultMoveStep,
		Cooldown: DefaultCooldown,
		cooldown: DefaultCooldown,
	}
}

// Update applies one frame of input. Field of view changes first, then the
// wireframe toggle, then rotation, and movement last so that it follows the
// new heading. It reports whether Exit is held.
func (c *Controller) Update(keys Keys, cam *render.Camera, rast Toggler) (exit bool) {
	if keys.Has(Exit) {
		return true
	}

	if keys.Has(FOVMore) && cam.AdjustFOV(c.FOVStep) {
		c.Log.Debug("fov clamped", slog.Float64("fov", float64(cam.FOV)))
	}
	if keys.Has(FOVLess) && cam.AdjustFOV(-c.FOVStep) {
		c.Log.Debug("fov clamped", slog.Float64("fov", float64(cam.FOV)))
	}

	// The countdown persists across releases, so a held key toggles on
	// every Cooldown+1-th frame.
	if keys.Has(Wireframe) && rast != nil {
		if c.cooldown > 0 {
			c.cooldown--
		} else {
			c.cooldown = c.Cooldown
			mode := rast.ToggleWireframe()
			c.Log.Info("render mode", slog.String("mode", mode.String()))
		}
	}

	step := math3d.DegToRad(c.TurnStep)
	var yaw, pitch float32
	if keys.Has(CameraLeft) {
		yaw -= step
	}
	if keys.Has(CameraRight) {
		yaw += step
	}
	if keys.Has(CameraDown) {
		pitch -= step
	}
	if keys.Has(CameraUp) {
		pitch += step
	}
	if c.Smooth != nil {
		yaw, pitch = c.Smooth.Step(yaw, pitch)
	}
	cam.Rotate(yaw, pitch)

	if keys.Has(Forward) {
		cam.MoveForward(c.MoveStep)
	}
	if keys.Has(Back) {
		cam.MoveForward(-c.MoveStep)
	}
	if keys.Has(Right) {
		cam.MoveRight(c.MoveStep)
	}
	if keys.Has(Left) {
		cam.MoveRight(-c.MoveStep)
	}
	return false
}

// axis eases a rotation speed toward a target with a critically damped
// spring.
type axis struct {
	speed  float64
	accel  float64 // spring velocity of speed
	spring harmonica.Spring
}

func newAxis(fps int) axis {
	// Frequency 6 settles within a few frames; damping 1 avoids overshoot.
	return axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

func (a *axis) step(target float32) float32 {
	a.speed, a.accel = a.spring.Update(a.speed, a.accel, float64(target))
	return float32(a.speed)
}

// Smoother eases yaw and pitch speed toward the key-driven rate.
type Smoother struct {
	yaw, pitch axis
}

// NewSmoother creates a smoother for a loop running at fps frames per
// second.
func NewSmoother(fps int) *Smoother {
	fps = max(fps, 1)
	return &Smoother{yaw: newAxis(fps), pitch: newAxis(fps)}
}

// Step advances both springs one frame toward the target rates and returns
// the rotation to apply this frame.
func (s *Smoother) Step(yaw, pitch float32) (float32, float32) {
	return s.yaw.step(yaw), s.pitch.step(pitch)
}
