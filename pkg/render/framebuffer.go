// Package render provides the nwgfx software pipeline: camera, transformer,
// rasterizer and a double-buffered framebuffer with pluggable displays.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

var (
	ErrInvalidSize = errors.New("invalid framebuffer size")
	ErrReleased    = errors.New("framebuffer released")
	ErrNilMesh     = errors.New("nil mesh")
)

// Display receives finished frames. Present is called once per Flush with
// the framebuffer whose front buffer holds the frame; implementations read
// it through Front or FrontPixel and must not retain the slice.
type Display interface {
	Present(fb *Framebuffer) error
}

// Framebuffer is a double-buffered pixel surface. Drawing goes to the back
// buffer (Pixels); Flush swaps it to the front and presents it.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Back buffer, row-major

	// ClearColor is written to the back buffer after every flush.
	ClearColor color.RGBA

	front    []color.RGBA
	display  Display
	frames   uint64
	released bool
}

// NewFramebuffer creates a framebuffer with both buffers cleared to black.
func NewFramebuffer(width, height int) (*Framebuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	fb := &Framebuffer{
		Width:      width,
		Height:     height,
		Pixels:     make([]color.RGBA, width*height),
		front:      make([]color.RGBA, width*height),
		ClearColor: ColorBlack,
	}
	fb.Clear(fb.ClearColor)
	copy(fb.front, fb.Pixels)
	return fb, nil
}

// Attach sets the display that receives flushed frames. A nil display
// makes Flush swap buffers without presenting.
func (fb *Framebuffer) Attach(d Display) {
	fb.display = d
}

// Flush makes the back buffer visible: the buffers are swapped, the front
// buffer is presented to the attached display and the new back buffer is
// cleared to ClearColor.
func (fb *Framebuffer) Flush() error {
	if fb.released {
		return ErrReleased
	}
	fb.Pixels, fb.front = fb.front, fb.Pixels
	fb.frames++

	var err error
	if fb.display != nil {
		if err = fb.display.Present(fb); err != nil {
			err = fmt.Errorf("present frame %d: %w", fb.frames, err)
		}
	}
	fb.Clear(fb.ClearColor)
	return err
}

// Frames returns the number of completed flushes.
func (fb *Framebuffer) Frames() uint64 {
	return fb.frames
}

// Release drops both pixel buffers. Further flushes fail with ErrReleased;
// drawing becomes a no-op. It is safe to call more than once.
func (fb *Framebuffer) Release() {
	fb.Pixels = nil
	fb.front = nil
	fb.display = nil
	fb.released = true
}

// Released reports whether Release has been called.
func (fb *Framebuffer) Released() bool {
	return fb.released
}

// Front returns the most recently presented frame, row-major.
func (fb *Framebuffer) Front() []color.RGBA {
	return fb.front
}

// FrontPixel returns the presented color at (x, y), or transparent black if
// out of bounds.
func (fb *Framebuffer) FrontPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height || fb.front == nil {
		return color.RGBA{}
	}
	return fb.front[y*fb.Width+x]
}

// Clear fills the back buffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	// Use copy-doubling for faster clearing
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a back buffer pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height || fb.Pixels == nil {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the back buffer color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height || fb.Pixels == nil {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
// Both endpoints are drawn.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	if fb.Pixels == nil {
		return
	}
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width), min(y+h, fb.Height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			fb.Pixels[py*fb.Width+px] = c
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the presented frame to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.FrontPixel(x, y))
		}
	}
	return img
}

// ScaledImage returns the presented frame enlarged by an integer factor with
// nearest-neighbour sampling.
func (fb *Framebuffer) ScaledImage(scale int) *image.RGBA {
	src := fb.ToImage()
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG saves the presented frame as a PNG file, enlarged by scale.
func (fb *Framebuffer) SavePNG(path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ScaledImage(scale)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
