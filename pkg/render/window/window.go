// Package window shows the framebuffer in a desktop window, enlarged the
// way a handheld panel would show it, and reads the keyboard.
package window

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/taigrr/nwgfx/pkg/controls"
	"github.com/taigrr/nwgfx/pkg/frame"
	"github.com/taigrr/nwgfx/pkg/render"
)

// TPS is the update rate: one frame per DefaultBudget.
const TPS = 30

// Display is a render.Display that keeps the last presented frame for the
// window to draw.
type Display struct {
	img   *image.RGBA
	fbImg *ebiten.Image
	dirty bool
}

// Present implements render.Display.
func (d *Display) Present(fb *render.Framebuffer) error {
	if d.img == nil || d.img.Bounds().Dx() != fb.Width || d.img.Bounds().Dy() != fb.Height {
		d.img = image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	}
	dst := d.img.Pix
	for i, p := range fb.Front() {
		j := i * 4
		dst[j+0] = p.R
		dst[j+1] = p.G
		dst[j+2] = p.B
		dst[j+3] = 0xFF
	}
	d.dirty = true
	return nil
}

// Image returns the last presented frame, or nil before the first.
func (d *Display) Image() *image.RGBA {
	return d.img
}

func (d *Display) draw(screen *ebiten.Image) {
	if d.img == nil {
		return
	}
	b := d.img.Bounds()
	if d.fbImg == nil || d.fbImg.Bounds() != b {
		if d.fbImg != nil {
			d.fbImg.Deallocate()
		}
		d.fbImg = ebiten.NewImage(b.Dx(), b.Dy())
		d.dirty = true
	}
	if d.dirty {
		d.fbImg.WritePixels(d.img.Pix)
		d.dirty = false
	}
	screen.DrawImage(d.fbImg, nil)
}

type game struct {
	d    *Display
	fb   *render.Framebuffer
	step func() error
}

func (g *game) Update() error {
	if err := g.step(); err != nil {
		if errors.Is(err, frame.ErrStop) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.d.draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.Width, g.fb.Height
}

// Run opens a window scale times the framebuffer size showing the frames
// presented to d, and calls step once per tick until the window closes or
// step returns an error. d must be attached to fb. frame.ErrStop ends the
// run without error. Run blocks and must be called from the main goroutine.
func Run(title string, fb *render.Framebuffer, d *Display, scale int, step func() error) error {
	scale = max(scale, 1)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(fb.Width*scale, fb.Height*scale)
	ebiten.SetTPS(TPS)
	return ebiten.RunGame(&game{d: d, fb: fb, step: step})
}

// KeyMap binds ebiten keys to controls keys.
type KeyMap map[ebiten.Key]controls.Keys

// DefaultKeyMap mirrors the terminal bindings.
var DefaultKeyMap = KeyMap{
	ebiten.KeyI:          controls.CameraUp,
	ebiten.KeyK:          controls.CameraDown,
	ebiten.KeyJ:          controls.CameraLeft,
	ebiten.KeyL:          controls.CameraRight,
	ebiten.KeyW:          controls.Forward,
	ebiten.KeyArrowUp:    controls.Forward,
	ebiten.KeyS:          controls.Back,
	ebiten.KeyArrowDown:  controls.Back,
	ebiten.KeyA:          controls.Left,
	ebiten.KeyArrowLeft:  controls.Left,
	ebiten.KeyD:          controls.Right,
	ebiten.KeyArrowRight: controls.Right,
	ebiten.KeyEqual:      controls.FOVMore,
	ebiten.KeyMinus:      controls.FOVLess,
	ebiten.KeyX:          controls.Wireframe,
	ebiten.KeyShiftLeft:  controls.Wireframe,
	ebiten.KeyEscape:     controls.Exit,
	ebiten.KeyHome:       controls.Exit,
}

// Keys reads held keys from ebiten. Scan must be called from the update
// goroutine.
type Keys struct {
	Map     KeyMap
	pressed func(ebiten.Key) bool
}

// NewKeys creates a key source using DefaultKeyMap.
func NewKeys() *Keys {
	return &Keys{Map: DefaultKeyMap, pressed: ebiten.IsKeyPressed}
}

// Scan implements controls.Source.
func (k *Keys) Scan() controls.Keys {
	var keys controls.Keys
	for key, bit := range k.Map {
		if k.pressed(key) {
			keys |= bit
		}
	}
	return keys
}
