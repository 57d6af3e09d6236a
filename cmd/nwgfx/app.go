package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taigrr/nwgfx/pkg/controls"
	"github.com/taigrr/nwgfx/pkg/demo"
	"github.com/taigrr/nwgfx/pkg/frame"
	"github.com/taigrr/nwgfx/pkg/log"
	"github.com/taigrr/nwgfx/pkg/math3d"
	"github.com/taigrr/nwgfx/pkg/models"
	"github.com/taigrr/nwgfx/pkg/overlay"
	"github.com/taigrr/nwgfx/pkg/render"
)

// Config holds the viewer settings, normally filled from flags.
type Config struct {
	Width, Height int
	ModelPath     string
	Wireframe     bool
	Smooth        bool
	Overlay       bool
	MaxFrames     uint64
	FPS           int
	Background    color.RGBA
}

// App owns the render state. All of it is touched only from the goroutine
// calling Step.
type App struct {
	cfg Config
	lg  *log.Logger

	fb    *render.Framebuffer
	rast  *render.Rasterizer
	cam   *render.Camera
	scene *demo.Scene
	ctrl  *controls.Controller

	text *overlay.Text
	info overlay.Log
	rate *frame.Rate

	frames uint64
}

// NewApp builds the framebuffer, camera and scene for cfg.
func NewApp(cfg Config, lg *log.Logger) (*App, error) {
	fb, err := render.NewFramebuffer(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	fb.ClearColor = cfg.Background
	fb.Clear(fb.ClearColor)

	template := models.NewCube("cube")
	if cfg.ModelPath != "" {
		template, err = models.LoadGLB(cfg.ModelPath)
		if err != nil {
			fb.Release()
			return nil, fmt.Errorf("load model: %w", err)
		}
		template.FitUnit()
	}
	lg.Info("model loaded",
		slog.String("name", template.Name),
		slog.Int("vertices", template.VertexCount()),
		slog.Int("triangles", template.TriangleCount()))

	scene, err := demo.NewScene(template)
	if err != nil {
		fb.Release()
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		lg:    lg,
		fb:    fb,
		rast:  render.NewRasterizer(fb),
		cam:   render.NewCamera(),
		scene: scene,
		ctrl:  controls.NewController(),
		text:  overlay.NewText(),
		rate:  frame.NewRate(nil),
	}
	a.ctrl.Log = lg
	if cfg.Smooth {
		a.ctrl.Smooth = controls.NewSmoother(cfg.FPS)
	}
	if cfg.Wireframe {
		a.rast.SetMode(render.RenderWireframe)
	}
	return a, nil
}

// Framebuffer returns the framebuffer frames are drawn into.
func (a *App) Framebuffer() *render.Framebuffer {
	return a.fb
}

// Camera returns the viewer camera.
func (a *App) Camera() *render.Camera {
	return a.cam
}

// Step runs one frame: input, scene, overlay, flush. It returns
// frame.ErrStop when Exit is held or MaxFrames frames have been shown.
func (a *App) Step(keys controls.Keys) error {
	if a.cfg.MaxFrames > 0 && a.frames >= a.cfg.MaxFrames {
		return frame.ErrStop
	}
	if a.ctrl.Update(keys, a.cam, a.rast) {
		a.lg.Info("exit requested", slog.Uint64("frame", a.frames))
		return frame.ErrStop
	}

	forward := a.cam.Forward()
	if err := a.scene.Step(a.frames, a.rast, a.cam, forward); err != nil {
		return fmt.Errorf("frame %d: %w", a.frames, err)
	}
	if a.cfg.Overlay {
		a.drawOverlay(forward)
	}
	if err := a.fb.Flush(); err != nil {
		return err
	}
	a.frames++

	if a.rate.Tick() {
		s := a.rast.Stats
		a.lg.Debug("frame stats",
			slog.Float64("fps", a.rate.FPS()),
			slog.Int("meshes_culled", s.MeshesCulled),
			slog.Int("triangles_drawn", s.TrianglesDrawn),
			slog.Int("triangles_behind", s.TrianglesBehind),
			slog.Int("triangles_offscreen", s.TrianglesOffscreen))
		a.rast.ResetStats()
	}
	return nil
}

func (a *App) drawOverlay(forward math3d.Vec3) {
	right := a.cam.Right()
	p := a.cam.Position
	a.info.Reset()
	a.info.Printf("FWR %.2f %.2f %.2f\nRGT %.2f %.2f %.2f\nXYZ %.2f %.2f %.2f\nPITCH / YAW %.2f %.2f\nFOV %.2f",
		forward.X, forward.Y, forward.Z,
		right.X, right.Y, right.Z,
		p.X, p.Y, p.Z,
		a.cam.Pitch, a.cam.Yaw,
		a.cam.FOV)
	a.text.Draw(a.fb.Displayer(), a.info.String(), 0, 0, render.ColorWhite, render.ColorBlack)
}

// Frames returns the number of frames shown.
func (a *App) Frames() uint64 {
	return a.frames
}

// Close releases the scene meshes and the framebuffer.
func (a *App) Close() {
	a.scene.Close()
	a.fb.Release()
}

// parseColor parses "R,G,B" with components in 0-255.
func parseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color %q: want R,G,B", s)
	}
	var c [3]uint8
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
		}
		c[i] = uint8(v)
	}
	return render.RGB(c[0], c[1], c[2]), nil
}
