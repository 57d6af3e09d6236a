package math3d

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/constraints"
)

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * (math32.Pi / 180)
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * (180 / math32.Pi)
}

// Clamp returns x limited to [lo, hi]. The result is unspecified when lo > hi.
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
