package physics

import (
	"math"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
)

// Contact summarises what Resolve found this tick.
type Contact struct {
	// Touching is set when any surface was within touch range; a body that
	// touches down has finished whatever jump it was on.
	Touching bool
	Ceiling  bool
	// Clipped is set when the body ended inside solid geometry and was
	// moved back to its previous position.
	Clipped bool
}

// Resolve pushes the body out of the level edges it overlaps, refreshes its
// contact normal and flags, and removes the velocity component along the
// new normal. Only edges the body approached from their open side count.
func Resolve(lvl *level.Level, cfg Config, b *Body) Contact {
	var c Contact
	adjust := geom.Zero
	normal := geom.Zero
	rSq := b.Radius * b.Radius
	touch := b.Radius + cfg.TouchSlack
	touchSq := touch * touch

	for _, poly := range lvl.Polygons {
		colliding := false
		for i := 0; i < poly.EdgeCount(); i++ {
			edge := poly.Edge(i)
			if geom.SideOf(edge, b.PrevPosition) != 1 {
				continue
			}
			distSq, proj := project(edge, b.Position, b.Radius)
			hit := distSq <= rSq
			colliding = colliding || hit

			if distSq <= touchSq {
				away := geom.NormalizeOrZero(b.Position.Sub(proj))
				// Surfaces overhead never become part of the normal.
				if away.Y() >= -0.01 {
					c.Touching = true
					normal = normal.Sub(away)
					switch {
					case math.Abs(away.X()) >= 0.8:
						b.Walled = int8(geom.Signum(away.X()))
						b.HasWallJumped = false
						b.Grounded = false
					case away.Y() > 0.01:
						b.Grounded = true
						b.Walled = 0
						b.HasWallJumped = false
					}
				}
			}

			if hit {
				push := geom.NormalizeOrZero(b.Position.Sub(proj))
				if push.Y() < -0.01 {
					b.Velocity[1] = 0
					c.Ceiling = true
				}
				push = push.Mul(b.Radius - math.Sqrt(distSq))
				if math.Abs(push.X()) > math.Abs(adjust.X()) {
					adjust[0] = push.X()
				}
				if math.Abs(push.Y()) > math.Abs(adjust.Y()) {
					adjust[1] = push.Y()
				}
			}
		}
		if colliding && poly.Contains(b.Position) {
			b.Position = b.PrevPosition
			c.Clipped = true
		}
	}

	normal = geom.NormalizeOrZero(normal)
	b.Normal = normal
	b.Velocity = b.Velocity.Sub(normal.Mul(b.Velocity.Dot(normal)))
	b.Position = b.Position.Add(adjust)
	return c
}

// project returns the squared distance from p to edge and the closest
// point. Points beyond either end measure to that endpoint with a penalty
// of 2·radius so that a flat neighbour edge wins over a shared vertex.
func project(edge geom.Segment, p geom.Vec2, radius float64) (float64, geom.Vec2) {
	d := edge.Dir()
	lenSq := geom.LengthSq(d)
	if lenSq == 0 {
		return geom.DistSq(p, edge.A) + radius*2, edge.A
	}
	t := p.Sub(edge.A).Dot(d) / lenSq
	switch {
	case t < 0:
		return geom.DistSq(p, edge.A) + radius*2, edge.A
	case t > 1:
		return geom.DistSq(p, edge.B) + radius*2, edge.B
	}
	proj, distSq := geom.ClosestPoint(edge, p)
	return distSq, proj
}
