// Package level describes the static polygon geometry agents move through.
package level

import (
	"errors"

	"github.com/Garsondee/platnav/internal/geom"
)

// ErrNoPolygons is returned when a level file contains no geometry.
var ErrNoPolygons = errors.New("level has no polygons")

// Polygon is an ordered point sequence. Edges run from Points[i-1] to
// Points[i]; a closed polygon repeats its first point at the end.
//
// Solid obstacles wind clockwise and containers counter-clockwise (y-up), so
// the left-hand perpendicular of every edge faces open space.
type Polygon struct {
	Points    []geom.Vec2
	Container bool
}

// EdgeCount returns the number of edges.
func (p Polygon) EdgeCount() int {
	if len(p.Points) < 2 {
		return 0
	}
	return len(p.Points) - 1
}

// Edge returns edge i, running Points[i] → Points[i+1].
func (p Polygon) Edge(i int) geom.Segment {
	return geom.Seg(p.Points[i], p.Points[i+1])
}

// Contains reports whether pt lies inside the polygon by even-odd ray
// parity. For containers the result is inverted: the inside of a container
// is open space, so "inside solid" means outside the boundary.
func (p Polygon) Contains(pt geom.Vec2) bool {
	ray := geom.Seg(pt, pt.Add(geom.V(2, 1).Mul(10000)))
	crossings := 0
	for i := 0; i < p.EdgeCount(); i++ {
		if geom.Intersects(p.Edge(i), ray) {
			crossings++
		}
	}
	if p.Container {
		return crossings%2 == 0
	}
	return crossings%2 == 1
}

// Level is the full set of polygons. It must not be mutated while a
// navigation graph built from it is in use.
type Level struct {
	Polygons []Polygon
	Tuning   *Tuning
}

// EdgeRef identifies one polygon edge.
type EdgeRef struct {
	Polygon int
	Edge    int
}

// Segment returns the geometry of the referenced edge.
func (l *Level) Segment(r EdgeRef) geom.Segment {
	return l.Polygons[r.Polygon].Edge(r.Edge)
}

// EachEdge calls fn for every edge of every polygon in order.
func (l *Level) EachEdge(fn func(ref EdgeRef, seg geom.Segment) bool) {
	for pi, poly := range l.Polygons {
		for ei := 0; ei < poly.EdgeCount(); ei++ {
			if !fn(EdgeRef{Polygon: pi, Edge: ei}, poly.Edge(ei)) {
				return
			}
		}
	}
}

// Bounds returns the box around every polygon point.
func (l *Level) Bounds() geom.Bounds {
	b := geom.EmptyBounds()
	for _, poly := range l.Polygons {
		for _, pt := range poly.Points {
			b = b.Extend(pt)
		}
	}
	return b
}

// Rect returns a closed, clockwise (solid) rectangle polygon.
func Rect(x0, y0, x1, y1 float64) Polygon {
	return Polygon{Points: []geom.Vec2{
		geom.V(x0, y1),
		geom.V(x1, y1),
		geom.V(x1, y0),
		geom.V(x0, y0),
		geom.V(x0, y1),
	}}
}

// Room returns a closed, counter-clockwise container rectangle.
func Room(x0, y0, x1, y1 float64) Polygon {
	return Polygon{Container: true, Points: []geom.Vec2{
		geom.V(x0, y0),
		geom.V(x1, y0),
		geom.V(x1, y1),
		geom.V(x0, y1),
		geom.V(x0, y0),
	}}
}
