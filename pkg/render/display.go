package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"tinygo.org/x/drivers"
)

// Displays presents every frame to each display in order. All displays see
// the frame even if one fails; the errors are joined.
type Displays []Display

// Present implements Display.
func (ds Displays) Present(fb *Framebuffer) error {
	var errs []error
	for _, d := range ds {
		if d == nil {
			continue
		}
		if err := d.Present(fb); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ImageDisplay keeps the last presented frame as an image. With Dir set it
// also writes every Every-th frame to Dir as a PNG enlarged by Scale.
type ImageDisplay struct {
	Dir   string
	Every uint64
	Scale int

	last *image.RGBA
}

// Present implements Display.
func (d *ImageDisplay) Present(fb *Framebuffer) error {
	d.last = fb.ToImage()
	if d.Dir == "" || d.Every == 0 || fb.Frames()%d.Every != 0 {
		return nil
	}
	path := filepath.Join(d.Dir, fmt.Sprintf("frame-%06d.png", fb.Frames()))
	return fb.SavePNG(path, d.Scale)
}

// Last returns the most recently presented frame, or nil before the first.
func (d *ImageDisplay) Last() *image.RGBA {
	return d.last
}

// PanelDisplay converts frames to a little-endian RGB565 byte buffer, each
// framebuffer pixel enlarged to a Scale×Scale block. This is the native
// format of small LCD panels.
type PanelDisplay struct {
	Scale int
	// Buf holds Height*Scale rows of Stride bytes. It is (re)allocated on
	// the first Present and whenever the framebuffer size changes.
	Buf    []byte
	Stride int

	// Sink, if set, receives Buf after every frame.
	Sink func(buf []byte, stride int) error
}

// Present implements Display.
func (d *PanelDisplay) Present(fb *Framebuffer) error {
	scale := max(d.Scale, 1)
	w, h := fb.Width*scale, fb.Height*scale
	if d.Stride != w*2 || len(d.Buf) != w*2*h {
		d.Stride = w * 2
		d.Buf = make([]byte, d.Stride*h)
	}

	for y := range fb.Height {
		for x := range fb.Width {
			p := RGB565(fb.FrontPixel(x, y))
			lo, hi := byte(p), byte(p>>8)
			for sy := range scale {
				row := (y*scale+sy)*d.Stride + x*scale*2
				for sx := range scale {
					d.Buf[row+sx*2] = lo
					d.Buf[row+sx*2+1] = hi
				}
			}
		}
	}

	if d.Sink != nil {
		return d.Sink(d.Buf, d.Stride)
	}
	return nil
}

// RGB565 packs a color into 16 bits: 5 red, 6 green, 5 blue.
func RGB565(c color.RGBA) uint16 {
	return uint16((uint16(c.R>>3)&0x1F)<<11 | (uint16(c.G>>2)&0x3F)<<5 | (uint16(c.B>>3) & 0x1F))
}

// RGB888From565 expands a packed RGB565 pixel.
func RGB888From565(p uint16) color.RGBA {
	r := uint8(p>>11) & 0x1F
	g := uint8(p>>5) & 0x3F
	b := uint8(p) & 0x1F
	return color.RGBA{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2, 0xFF}
}

// fbDisplayer adapts the back buffer to drivers.Displayer so tinyfont and
// other TinyGo drawing code can render into it.
type fbDisplayer struct {
	fb *Framebuffer
}

// Displayer returns a drivers.Displayer drawing into the back buffer. Its
// Display method flushes the framebuffer.
func (fb *Framebuffer) Displayer() drivers.Displayer {
	return &fbDisplayer{fb: fb}
}

func (d *fbDisplayer) Size() (x, y int16) {
	return int16(d.fb.Width), int16(d.fb.Height)
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	d.fb.SetPixel(int(x), int(y), c)
}

func (d *fbDisplayer) Display() error {
	return d.fb.Flush()
}
