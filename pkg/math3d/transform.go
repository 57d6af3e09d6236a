package math3d

import "github.com/chewxy/math32"

// Translate3D returns in moved by offset.
func Translate3D(offset, in Vec3) Vec3 {
	return in.Add(offset)
}

// Scale3D returns in scaled component-wise by factor about the origin.
func Scale3D(factor, in Vec3) Vec3 {
	return in.Mul(factor)
}

// RotateRoll rotates in about the Z axis passing through pivot.
// Positive angles are counter-clockwise looking down +Z toward the origin.
func RotateRoll(angle float32, pivot, in Vec3) Vec3 {
	s, c := math32.Sincos(angle)
	p := in.Sub(pivot)
	return Vec3{
		p.X*c - p.Y*s + pivot.X,
		p.X*s + p.Y*c + pivot.Y,
		in.Z,
	}
}

// RotatePitch rotates in about the X axis passing through pivot.
func RotatePitch(angle float32, pivot, in Vec3) Vec3 {
	s, c := math32.Sincos(angle)
	p := in.Sub(pivot)
	return Vec3{
		in.X,
		p.Y*c - p.Z*s + pivot.Y,
		p.Y*s + p.Z*c + pivot.Z,
	}
}

// RotateYaw rotates in about the Y axis passing through pivot.
func RotateYaw(angle float32, pivot, in Vec3) Vec3 {
	s, c := math32.Sincos(angle)
	p := in.Sub(pivot)
	return Vec3{
		p.X*c + p.Z*s + pivot.X,
		in.Y,
		-p.X*s + p.Z*c + pivot.Z,
	}
}
