package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalDisplay presents frames on a terminal screen using half-block
// cells: each terminal row shows two framebuffer rows.
type TerminalDisplay struct {
	scr   uv.Screen
	flush func() error
}

// NewTerminalDisplay creates a display drawing into scr. flush, if non-nil,
// is called after every frame to push the cells to the terminal.
func NewTerminalDisplay(scr uv.Screen, flush func() error) *TerminalDisplay {
	return &TerminalDisplay{scr: scr, flush: flush}
}

// Present implements Display.
func (d *TerminalDisplay) Present(fb *Framebuffer) error {
	fb.Draw(d.scr, uv.Rect(0, 0, fb.Width, (fb.Height+1)/2))
	if d.flush == nil {
		return nil
	}
	return d.flush()
}

// Draw converts the presented frame to terminal cells and draws them on
// the screen.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.FrontPixel(col, topY)),
					Bg: rgbaToColor(fb.FrontPixel(col, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
