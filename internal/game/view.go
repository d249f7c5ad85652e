package game

import (
	"math"

	"github.com/Garsondee/platnav/internal/geom"
)

// view maps world space (y up) onto the playfield (y down).
type view struct {
	scale   float64
	originX float64 // screen x of world x = 0
	originY float64 // screen y of world y = 0
}

// fitView scales bounds to fit a w×h playfield with margin pixels on every
// side, centred. Empty or degenerate bounds give a unit view centred on the
// origin.
func fitView(b geom.Bounds, w, h, margin int) view {
	vw := float64(w - 2*margin)
	vh := float64(h - 2*margin)
	if b.Empty() || vw <= 0 || vh <= 0 {
		return view{scale: 1, originX: float64(w) / 2, originY: float64(h) / 2}
	}
	bw := b.Max.X() - b.Min.X()
	bh := b.Max.Y() - b.Min.Y()
	scale := 1.0
	if bw > 0 && bh > 0 {
		scale = math.Min(vw/bw, vh/bh)
	} else if bw > 0 {
		scale = vw / bw
	} else if bh > 0 {
		scale = vh / bh
	}
	cx := (b.Min.X() + b.Max.X()) / 2
	cy := (b.Min.Y() + b.Max.Y()) / 2
	return view{
		scale:   scale,
		originX: float64(w)/2 - cx*scale,
		originY: float64(h)/2 + cy*scale,
	}
}

// toScreen converts a world point to screen pixels.
func (v view) toScreen(p geom.Vec2) (float32, float32) {
	return float32(v.originX + p.X()*v.scale), float32(v.originY - p.Y()*v.scale)
}

// toWorld is the inverse of toScreen.
func (v view) toWorld(x, y int) geom.Vec2 {
	return geom.V((float64(x)-v.originX)/v.scale, (v.originY-float64(y))/v.scale)
}

// length scales a world distance to pixels.
func (v view) length(d float64) float32 {
	return float32(d * v.scale)
}

// clampToBounds keeps p inside b.
func clampToBounds(p geom.Vec2, b geom.Bounds) geom.Vec2 {
	if b.Empty() {
		return p
	}
	return geom.Max(b.Min, geom.Min(b.Max, p))
}
