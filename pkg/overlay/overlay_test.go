package overlay

import (
	"image/color"
	"strings"
	"testing"
)

type memDisplay struct {
	w, h int16
	px   map[[2]int16]color.RGBA
}

func newMemDisplay(w, h int16) *memDisplay {
	return &memDisplay{w: w, h: h, px: make(map[[2]int16]color.RGBA)}
}

func (d *memDisplay) Size() (int16, int16) { return d.w, d.h }

func (d *memDisplay) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= d.w || y >= d.h {
		return
	}
	d.px[[2]int16{x, y}] = c
}

func (d *memDisplay) Display() error { return nil }

func (d *memDisplay) count(c color.RGBA) int {
	n := 0
	for _, p := range d.px {
		if p == c {
			n++
		}
	}
	return n
}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestLog(t *testing.T) {
	var l Log
	l.Printf("FOV %.2f", 75.0)
	l.Printf("\nXYZ %d", 1)
	if got := l.String(); got != "FOV 75.00\nXYZ 1" {
		t.Errorf("String = %q", got)
	}
	l.Reset()
	if l.String() != "" {
		t.Error("Reset left text")
	}

	l.Max = 8
	n, err := l.Write([]byte(strings.Repeat("a", 20)))
	if n != 20 || err != nil {
		t.Errorf("Write = %d, %v", n, err)
	}
	if l.String() != "aaaaaaaa" {
		t.Errorf("truncated = %q", l.String())
	}
}

func TestTextDraw(t *testing.T) {
	d := newMemDisplay(80, 60)
	txt := NewText()
	txt.Draw(d, "FOV 75.00\nXYZ", 0, 0, white, black)

	if d.count(white) == 0 {
		t.Fatal("no glyph pixels drawn")
	}
	if d.count(black) == 0 {
		t.Fatal("no background drawn")
	}
	for p := range d.px {
		if p[1] >= 2*txt.LineHeight {
			t.Errorf("pixel %v below the second line", p)
		}
	}
}

func TestTextDrawTransparentBackground(t *testing.T) {
	d := newMemDisplay(40, 10)
	NewText().Draw(d, "A", 0, 0, white, color.RGBA{})
	if d.count(white) == 0 || len(d.px) != d.count(white) {
		t.Errorf("drew %d pixels, %d glyph", len(d.px), d.count(white))
	}
}

func TestTextDrawClipped(t *testing.T) {
	d := newMemDisplay(8, 4)
	NewText().Draw(d, "LONG LINE OF TEXT", -2, 2, white, black)
	if len(d.px) == 0 {
		t.Error("nothing drawn inside the display")
	}

	empty := newMemDisplay(8, 8)
	NewText().Draw(empty, "", 0, 0, white, black)
	if len(empty.px) != 0 {
		t.Error("empty string drew pixels")
	}
}

func TestTextSize(t *testing.T) {
	txt := NewText()
	w1, h1 := txt.Size("AB")
	w2, h2 := txt.Size("ABCD\nA")
	if w2 <= w1 || h2 != 2*h1 {
		t.Errorf("Size: %d,%d vs %d,%d", w1, h1, w2, h2)
	}
}
