package physics

import "math"

// Lightweight float helpers for headings and damping. Positions never go
// through these; they only shape per-tick deltas.

type Vec3 struct{ X, Y, Z float64 }

// Heading returns the unit direction for a bearing in radians. Bearing 0
// points along +Y and increases toward +X.
func Heading(bearing float64) Vec3 {
	return Vec3{X: math.Sin(bearing), Y: math.Cos(bearing)}
}

// WrapAngle maps an angle into [0, 2π).
func WrapAngle(angle float64) float64 {
	angle = math.Mod(angle, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// Approach moves value toward zero by step without crossing it.
func Approach(value, step float64) float64 {
	switch {
	case value < 0:
		return math.Min(0, value+step)
	case value > 0:
		return math.Max(0, value-step)
	default:
		return 0
	}
}

// Clamp limits value to [-limit, limit].
func Clamp(value, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, value))
}

// Length returns the Euclidean length of v.
func (v Vec3) Length() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Components returns the first n components of v.
func (v Vec3) Components(n int) []float64 {
	all := []float64{v.X, v.Y, v.Z}
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}
