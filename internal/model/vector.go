package model

import "math"

// epsilon below which a vector is treated as zero length.
const epsilon = 1e-9

// Vec3 is a world-space vector. Y is up; agents move on the XZ plane.
// Value type, passed by value.
type Vec3 struct {
	X, Y, Z float64
}

// Forward is the default heading used when a direction is degenerate.
var Forward = Vec3{Z: 1}

// NewVec3 creates a Vec3.
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LenSq returns squared length (no sqrt).
func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// IsZero reports whether the vector is shorter than epsilon.
func (v Vec3) IsZero() bool {
	return v.LenSq() < epsilon*epsilon
}

// Flat returns the vector projected onto the XZ plane.
func (v Vec3) Flat() Vec3 {
	v.Y = 0
	return v
}

// Normalize returns the unit vector, or the zero vector for a zero-length input.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < epsilon {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Direction returns the unit vector, falling back to Forward when v is degenerate.
// Never returns NaN components.
func (v Vec3) Direction() Vec3 {
	l := v.Len()
	if l < epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return Forward
	}
	return v.Scale(1 / l)
}

// ClampLen truncates the vector to at most maxLen.
func (v Vec3) ClampLen(maxLen float64) Vec3 {
	if maxLen <= 0 {
		return Vec3{}
	}
	lsq := v.LenSq()
	if lsq <= maxLen*maxLen {
		return v
	}
	return v.Scale(maxLen / math.Sqrt(lsq))
}

// DistanceTo returns the euclidean distance between two points.
func (v Vec3) DistanceTo(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Yaw returns the heading angle of the vector on the XZ plane (0 = +Z).
func (v Vec3) Yaw() float64 {
	return math.Atan2(v.X, v.Z)
}

// FromAngle returns the unit XZ vector for an angle measured from +X toward +Z.
func FromAngle(angle float64) Vec3 {
	return Vec3{X: math.Cos(angle), Z: math.Sin(angle)}
}
