package render

import (
	"image/color"

	"github.com/chewxy/math32"
)

// drawLine2D draws a line between continuous pixel coordinates. The segment
// is first clipped to the viewport so that far off-screen endpoints cost
// nothing; the surviving part is drawn with Bresenham.
func (r *Rasterizer) drawLine2D(x0, y0, x1, y1 float32, c color.RGBA) {
	w, h := float32(r.fb.Width), float32(r.fb.Height)
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, 0, 0, w, h)
	if !ok {
		return
	}
	r.fb.DrawLine(pixelIndex(x0, r.fb.Width), pixelIndex(y0, r.fb.Height),
		pixelIndex(x1, r.fb.Width), pixelIndex(y1, r.fb.Height), c)
}

// pixelIndex maps a continuous coordinate in [0, n] to the pixel holding it.
func pixelIndex(v float32, n int) int {
	i := int(math32.Floor(v))
	return min(max(i, 0), n-1)
}

// clipSegment clips the segment to the rectangle [minX,maxX]×[minY,maxY]
// using Liang-Barsky. ok is false if nothing remains.
func clipSegment(x0, y0, x1, y1, minX, minY, maxX, maxY float32) (cx0, cy0, cx1, cy1 float32, ok bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := float32(0), float32(1)

	clip := func(p, q float32) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	if !clip(-dx, x0-minX) || !clip(dx, maxX-x0) ||
		!clip(-dy, y0-minY) || !clip(dy, maxY-y0) {
		return 0, 0, 0, 0, false
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
