// nwgfx - software 3D renderer demo
// Two vertex-colored cubes spin around a first-person camera, rendered into
// a small framebuffer and shown in the terminal, a window or nowhere.
//
// Controls:
//
//	W/S, Up/Down     - Move forward/back
//	A/D, Left/Right  - Strafe left/right
//	I/K              - Look up/down
//	J/L              - Turn left/right
//	+/-              - Widen/narrow field of view
//	X                - Toggle wireframe
//	Esc, Q, Home     - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/nwgfx/pkg/controls"
	"github.com/taigrr/nwgfx/pkg/frame"
	"github.com/taigrr/nwgfx/pkg/log"
	"github.com/taigrr/nwgfx/pkg/render"
	"github.com/taigrr/nwgfx/pkg/render/window"
)

var (
	displayFlag   = flag.String("display", "terminal", "Output: terminal, window or headless")
	widthFlag     = flag.Int("width", 80, "Framebuffer width in pixels")
	heightFlag    = flag.Int("height", 60, "Framebuffer height in pixels")
	scaleFlag     = flag.Int("scale", 4, "Pixel scale for the window, panel buffer and snapshots")
	frameMsFlag   = flag.Int("frame-ms", 33, "Frame budget in milliseconds")
	framesFlag    = flag.Uint64("frames", 0, "Stop after this many frames (0 = run until quit)")
	modelFlag     = flag.String("model", "", "GLB model to show instead of the cube")
	wireFlag      = flag.Bool("wireframe", false, "Start in wireframe mode")
	smoothFlag    = flag.Bool("smooth", false, "Ease camera rotation")
	overlayFlag   = flag.Bool("overlay", false, "Show camera debug text")
	snapshotFlag  = flag.String("snapshot", "", "Write the last frame to this PNG file on exit")
	snapEveryFlag = flag.Uint64("snapshot-every", 0, "Also write every Nth frame next to -snapshot")
	logLevelFlag  = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logDirFlag    = flag.String("log-dir", "", "Log directory (default: user config dir)")
	bgFlag        = flag.String("bg", "0,0,0", "Background color (R,G,B)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "nwgfx - software 3D renderer demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: nwgfx [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Move\n")
		fmt.Fprintf(os.Stderr, "  I/K/J/L     - Look around\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Field of view\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	lg := log.New(*logLevelFlag, *logDirFlag)
	defer lg.CatchAndReportCrash(&err)

	bg, err := parseColor(*bgFlag)
	if err != nil {
		return err
	}
	budget := time.Duration(*frameMsFlag) * time.Millisecond
	if budget <= 0 {
		budget = frame.DefaultBudget
	}

	cfg := Config{
		Width:      *widthFlag,
		Height:     *heightFlag,
		ModelPath:  *modelFlag,
		Wireframe:  *wireFlag,
		Smooth:     *smoothFlag,
		Overlay:    *overlayFlag,
		MaxFrames:  *framesFlag,
		FPS:        int(time.Second / budget),
		Background: bg,
	}
	app, err := NewApp(cfg, lg)
	if err != nil {
		return err
	}
	defer app.Close()

	var displays render.Displays
	if *snapshotFlag != "" && *snapEveryFlag > 0 {
		displays = append(displays, &render.ImageDisplay{
			Dir:   filepath.Dir(*snapshotFlag),
			Every: *snapEveryFlag,
			Scale: *scaleFlag,
		})
	}

	lg.Info("starting",
		slog.String("display", *displayFlag),
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Duration("budget", budget))

	switch *displayFlag {
	case "terminal":
		err = runTerminal(app, displays, budget)
	case "window":
		err = runWindow(app, displays)
	case "headless":
		err = runHeadless(app, displays, budget)
	default:
		err = fmt.Errorf("unknown display %q (use terminal, window or headless)", *displayFlag)
	}
	if err != nil {
		return err
	}

	lg.Info("stopped", slog.Uint64("frames", app.Frames()))
	if *snapshotFlag != "" {
		if err := app.Framebuffer().SavePNG(*snapshotFlag, *scaleFlag); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

func runLoop(ctx context.Context, app *App, src controls.Source, budget time.Duration) error {
	loop := &frame.Loop{Budget: budget, MaxFrames: app.cfg.MaxFrames}
	err := loop.Run(ctx, func(uint64) error {
		return app.Step(src.Scan())
	})
	if loop.Overruns > 0 {
		app.lg.Debug("frame budget overruns", slog.Uint64("frames", loop.Overruns))
	}
	return err
}

// runHeadless renders into an RGB565 panel buffer, the format the handheld
// LCD takes, without showing it anywhere.
func runHeadless(app *App, displays render.Displays, budget time.Duration) error {
	fb := app.Framebuffer()
	fb.Attach(append(displays, &render.PanelDisplay{Scale: *scaleFlag}))

	ctx, cancel := signalContext()
	defer cancel()
	return runLoop(ctx, app, controls.None, budget)
}

func runWindow(app *App, displays render.Displays) error {
	fb := app.Framebuffer()
	d := &window.Display{}
	fb.Attach(append(displays, d))

	keys := window.NewKeys()
	return window.Run("nwgfx", fb, d, *scaleFlag, func() error {
		return app.Step(keys.Scan())
	})
}

func runTerminal(app *App, displays render.Displays, budget time.Duration) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	fb := app.Framebuffer()
	fb.Attach(append(displays, render.NewTerminalDisplay(term, term.Display)))

	ctx, cancel := signalContext()
	defer cancel()

	keys := controls.NewTerminalSource(nil)
	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				term.Erase()
				term.Resize(ev.Width, ev.Height)
			case uv.KeyPressEvent:
				if ev.MatchString("ctrl+c") {
					cancel()
					return
				}
			}
			keys.HandleEvent(ev)
		}
	}()

	return runLoop(ctx, app, keys, budget)
}
