package geom

import "math"

// Segment is a directed line segment from A to B.
type Segment struct {
	A, B Vec2
}

// Seg is shorthand for constructing a Segment.
func Seg(a, b Vec2) Segment {
	return Segment{A: a, B: b}
}

// Dir returns B - A.
func (s Segment) Dir() Vec2 {
	return s.B.Sub(s.A)
}

// Offset returns the segment translated by d.
func (s Segment) Offset(d Vec2) Segment {
	return Segment{A: s.A.Add(d), B: s.B.Add(d)}
}

func cross(a, b Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// Intersect returns the crossing point of segments p and q, endpoints
// included. Parallel, collinear and zero-length segments never intersect.
func Intersect(p, q Segment) (Vec2, bool) {
	r := p.Dir()
	s := q.Dir()
	denom := cross(r, s)
	if denom == 0 || math.IsNaN(denom) {
		return Zero, false
	}
	qp := q.A.Sub(p.A)
	t := cross(qp, s) / denom
	u := cross(qp, r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Zero, false
	}
	return p.A.Add(r.Mul(t)), true
}

// Intersects reports whether p and q cross.
func Intersects(p, q Segment) bool {
	_, hit := Intersect(p, q)
	return hit
}

// CapsuleSides returns the two copies of s shifted by radius along its left
// and right perpendiculars. A zero-length segment has no direction, so both
// sides collapse onto s itself.
func CapsuleSides(s Segment, radius float64) (left, right Segment) {
	n := Perp(NormalizeOrZero(s.Dir())).Mul(radius)
	return s.Offset(n), s.Offset(n.Mul(-1))
}

// ClosestPoint returns the point on s nearest to p and its squared distance.
// A zero-length segment yields its start point.
func ClosestPoint(s Segment, p Vec2) (Vec2, float64) {
	d := s.Dir()
	lenSq := LengthSq(d)
	if lenSq == 0 {
		return s.A, DistSq(p, s.A)
	}
	t := p.Sub(s.A).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))
	c := s.A.Add(d.Mul(t))
	return c, DistSq(p, c)
}

// SideOf returns which side of the infinite line through s the point p lies
// on: 1 for left, -1 for right, 0 on the line.
func SideOf(s Segment, p Vec2) float64 {
	c := cross(s.Dir(), p.Sub(s.A))
	switch {
	case c > 0:
		return 1
	case c < 0:
		return -1
	default:
		return 0
	}
}

// Bounds is an axis-aligned box.
type Bounds struct {
	Min, Max Vec2
}

// EmptyBounds returns an inverted box that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{
		Min: Vec2{math.MaxFloat64, math.MaxFloat64},
		Max: Vec2{-math.MaxFloat64, -math.MaxFloat64},
	}
}

// Extend grows b to include p.
func (b Bounds) Extend(p Vec2) Bounds {
	return Bounds{Min: Min(b.Min, p), Max: Max(b.Max, p)}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1]
}
