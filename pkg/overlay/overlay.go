// Package overlay draws debug text over a rendered frame.
package overlay

import (
	"fmt"
	"image/color"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// DefaultMax is the capacity of a Log in bytes.
const DefaultMax = 256

// Log collects the text shown for one frame. It implements io.Writer;
// writes beyond Max bytes are dropped.
type Log struct {
	Max int

	b strings.Builder
}

func (l *Log) limit() int {
	if l.Max <= 0 {
		return DefaultMax
	}
	return l.Max
}

func (l *Log) Write(p []byte) (int, error) {
	room := l.limit() - l.b.Len()
	if room > 0 {
		l.b.Write(p[:min(room, len(p))])
	}
	return len(p), nil
}

// Printf appends formatted text.
func (l *Log) Printf(format string, args ...any) {
	fmt.Fprintf(l, format, args...)
}

// String returns the collected text.
func (l *Log) String() string {
	return l.b.String()
}

// Reset empties the log.
func (l *Log) Reset() {
	l.b.Reset()
}

// Text draws multi-line strings with a tinyfont font.
type Text struct {
	Font tinyfont.Fonter
	// LineHeight is the distance between baselines; Ascent is the distance
	// from the top of a line to its baseline.
	LineHeight int16
	Ascent     int16
}

// NewText returns a Text using TomThumb, a 3x5 font that fits about twenty
// columns into an 80 pixel wide framebuffer.
func NewText() *Text {
	return &Text{Font: &tinyfont.TomThumb, LineHeight: 6, Ascent: 5}
}

// Draw writes s at (x, y), the top-left corner of the first line. Lines are
// separated by '\n'. Each line gets a bg box behind it unless bg is fully
// transparent.
func (t *Text) Draw(d drivers.Displayer, s string, x, y int16, fg, bg color.RGBA) {
	if s == "" {
		return
	}
	for i, line := range strings.Split(s, "\n") {
		top := y + int16(i)*t.LineHeight
		if line == "" {
			continue
		}
		if bg.A != 0 {
			_, w := tinyfont.LineWidth(t.Font, line)
			fillRect(d, x, top, int16(w)+1, t.LineHeight, bg)
		}
		tinyfont.WriteLine(d, t.Font, x+1, top+t.Ascent, line, fg)
	}
}

// Size returns the width and height s would cover when drawn.
func (t *Text) Size(s string) (w, h int16) {
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		_, lw := tinyfont.LineWidth(t.Font, line)
		w = max(w, int16(lw)+1)
	}
	return w, int16(len(lines)) * t.LineHeight
}

func fillRect(d drivers.Displayer, x, y, w, h int16, c color.RGBA) {
	sw, sh := d.Size()
	for py := max(y, 0); py < min(y+h, sh); py++ {
		for px := max(x, 0); px < min(x+w, sw); px++ {
			d.SetPixel(px, py, c)
		}
	}
}
