package core

import "math"

// Directions in this module are unit vectors expressed in a local
// orthonormal shading frame whose +z axis is the surface normal. The
// helpers below read spherical-coordinate quantities straight off such a
// vector without ever leaving Cartesian space.

// CosTheta returns the cosine of the zenith angle of v
func CosTheta(v Vec3) float64 {
	return v.Z
}

// Sin2Theta returns the squared sine of the zenith angle of v
func Sin2Theta(v Vec3) float64 {
	return math.Max(0, 1-v.Z*v.Z)
}

// SinTheta returns the sine of the zenith angle of v
func SinTheta(v Vec3) float64 {
	return math.Sqrt(Sin2Theta(v))
}

// SinCosPhi returns the sine and cosine of the azimuth of v.
// The azimuth is undefined for vectors parallel to the normal; (0, 1) is
// returned in that case.
func SinCosPhi(v Vec3) (sin, cos float64) {
	s2 := Sin2Theta(v)
	if s2 <= 0 {
		return 0, 1
	}
	inv := 1 / math.Sqrt(s2)
	return v.Y * inv, v.X * inv
}

// Phi returns the azimuth of v in [0, 2π)
func Phi(v Vec3) float64 {
	return WrapTwoPi(math.Atan2(v.Y, v.X))
}

// WrapTwoPi wraps an angle into [0, 2π)
func WrapTwoPi(phi float64) float64 {
	phi = math.Mod(phi, 2*math.Pi)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi
}

// SphericalDirection converts zenith and azimuth angles to a unit vector
// in the local frame
func SphericalDirection(theta, phi float64) Vec3 {
	sinTheta, cosTheta := math.Sincos(theta)
	sinPhi, cosPhi := math.Sincos(phi)
	return Vec3{X: sinTheta * cosPhi, Y: sinTheta * sinPhi, Z: cosTheta}
}

// SafeSqrt returns sqrt(max(x, 0)), absorbing small negative radicands
// produced by floating-point cancellation
func SafeSqrt(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return math.Sqrt(x)
}
