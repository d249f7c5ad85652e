// Package geom holds the 2D vector and segment primitives shared by the level,
// navigation, and physics packages. World space is y-up.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec2 is a world-space point or direction.
type Vec2 = mgl64.Vec2

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Zero is the zero vector.
var Zero = Vec2{}

// UnitX is the positive horizontal axis.
var UnitX = Vec2{1, 0}

// LengthSq returns |v|².
func LengthSq(v Vec2) float64 {
	return v.Dot(v)
}

// DistSq returns the squared distance between a and b.
func DistSq(a, b Vec2) float64 {
	return LengthSq(a.Sub(b))
}

// NormalizeOrZero returns v scaled to unit length, or the zero vector when v
// has no usable direction.
func NormalizeOrZero(v Vec2) Vec2 {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Zero
	}
	return Vec2{v[0] / l, v[1] / l}
}

// Perp rotates v by +90°: (x, y) → (-y, x).
func Perp(v Vec2) Vec2 {
	return Vec2{-v[1], v[0]}
}

// IsZero reports whether both components are exactly zero.
func IsZero(v Vec2) bool {
	return v[0] == 0 && v[1] == 0
}

// Min returns the component-wise minimum.
func Min(a, b Vec2) Vec2 {
	return Vec2{math.Min(a[0], b[0]), math.Min(a[1], b[1])}
}

// Max returns the component-wise maximum.
func Max(a, b Vec2) Vec2 {
	return Vec2{math.Max(a[0], b[0]), math.Max(a[1], b[1])}
}

// Signum returns 1 for x >= 0 and -1 otherwise, so a point exactly on a
// boundary counts as the positive side.
func Signum(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
