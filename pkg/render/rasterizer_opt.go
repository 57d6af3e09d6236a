package render

import (
	"github.com/chewxy/math32"
	"github.com/taigrr/nwgfx/pkg/models"
)

// edgeCoeffs returns A, B, C for the edge function of the directed edge
// (x0,y0)→(x1,y1): edge(x,y) = A*x + B*y + C. With y pointing down, the
// function is positive on the inside of a clockwise triangle.
func edgeCoeffs(x0, y0, x1, y1 float32) (A, B, C float32) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}

// edgeFunc evaluates edge function at point (x, y)
func edgeFunc(A, B, C, x, y float32) float32 {
	return A*x + B*y + C
}

// isTopLeft reports whether the directed edge of a clockwise (y-down)
// triangle is a top edge or a left edge. Pixel centers exactly on such edges
// belong to the triangle; on other edges they belong to the neighbour.
func isTopLeft(x0, y0, x1, y1 float32) bool {
	dy := y1 - y0
	dx := x1 - x0
	return (dy == 0 && dx > 0) || dy < 0
}

// fillTriangle rasterizes a triangle with barycentric color interpolation,
// sampling pixel centers. Either winding is accepted. It returns false for a
// zero-area triangle, which draws nothing.
func (r *Rasterizer) fillTriangle(sv [3]screenVertex) bool {
	A, B, C := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	area := edgeFunc(A, B, C, sv[2].X, sv[2].Y)
	if area == 0 || math32.IsNaN(area) {
		return false
	}
	if area < 0 {
		// Normalize to clockwise so one inside test serves both windings
		sv[1], sv[2] = sv[2], sv[1]
		area = -area
	}

	w, h := r.fb.Width, r.fb.Height
	minX := int(math32.Max(0, math32.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math32.Min(float32(w-1), math32.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math32.Max(0, math32.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math32.Min(float32(h-1), math32.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))
	if minX > maxX || minY > maxY {
		return true
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	A1, B1, C1 := edgeCoeffs(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	A2, B2, C2 := edgeCoeffs(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)
	tl0 := isTopLeft(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	tl1 := isTopLeft(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y)
	tl2 := isTopLeft(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y)

	invArea := 1 / area
	c0, c1, c2 := sv[0].Color, sv[1].Color, sv[2].Color
	pix := r.fb.Pixels

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		row := y * w
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5

			w0 := edgeFunc(A0, B0, C0, px, py)
			w1 := edgeFunc(A1, B1, C1, px, py)
			w2 := edgeFunc(A2, B2, C2, px, py)
			if !inside(w0, tl0) || !inside(w1, tl1) || !inside(w2, tl2) {
				continue
			}

			b0, b1, b2 := w0*invArea, w1*invArea, w2*invArea
			pix[row+x] = ToRGBA(models.RGB{
				R: b0*c0.R + b1*c1.R + b2*c2.R,
				G: b0*c0.G + b1*c1.G + b2*c2.G,
				B: b0*c0.B + b1*c1.B + b2*c2.B,
			})
		}
	}
	return true
}

func inside(e float32, topLeft bool) bool {
	return e > 0 || (e == 0 && topLeft)
}
