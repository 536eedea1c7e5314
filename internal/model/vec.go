package model

import "math"

// Vec3 is a point or direction in world space. Y is up; the ground plane is X/Z.
// Value type, passed by value.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Up is the world up axis.
var Up = Vec3{Y: 1}

// V3 builds a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// LenSquared avoids the sqrt when only comparisons are needed.
func (v Vec3) LenSquared() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSquared())
}

// Distance returns the Euclidean distance to o.
func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalized returns the unit vector in the direction of v, or the zero
// vector when v has no length.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Flat projects v onto the ground plane.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// IsZero reports whether v is (numerically) the zero vector.
func (v Vec3) IsZero() bool {
	return v.LenSquared() < 1e-18
}

// Lerp interpolates between v and o by t in [0,1].
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

// AngleDeg returns the angle between a and b in degrees, in [0, 180].
// Zero-length inputs yield 0.
func AngleDeg(a, b Vec3) float64 {
	na, nb := a.Normalized(), b.Normalized()
	if na.IsZero() || nb.IsZero() {
		return 0
	}
	cos := na.Dot(nb)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// Yaw returns the heading of v on the ground plane in radians; 0 faces +Z.
func (v Vec3) Yaw() float64 {
	return math.Atan2(v.X, v.Z)
}

// FromYaw builds a unit ground-plane direction from a heading in radians.
func FromYaw(yaw float64) Vec3 {
	return Vec3{X: math.Sin(yaw), Z: math.Cos(yaw)}
}

// NormalizeAngle wraps an angle to [-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
