package nav

import (
	"math"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
)

type levelEdge struct {
	ref level.EdgeRef
	seg geom.Segment
}

// Analyzer decides whether a jump or drop between two nodes is physically
// achievable without the agent's capsule touching level geometry. It is only
// used while building a graph.
type Analyzer struct {
	edges    []levelEdge
	gravity  float64
	maxSpeed float64
	radius   float64
	steps    int
}

// NewAnalyzer captures the level edges and physical limits from cfg.
func NewAnalyzer(lvl *level.Level, cfg Config) *Analyzer {
	a := &Analyzer{
		gravity:  cfg.Gravity,
		maxSpeed: cfg.MaxJumpSpeed,
		radius:   cfg.AgentRadius,
		steps:    max(1, cfg.TrajectorySteps),
	}
	lvl.EachEdge(func(ref level.EdgeRef, seg geom.Segment) bool {
		a.edges = append(a.edges, levelEdge{ref: ref, seg: seg})
		return true
	})
	return a
}

// gravityVec is the downward acceleration.
func gravityVec(g float64) geom.Vec2 {
	return geom.V(0, -g)
}

// JumpDiscriminant is the ballistic reachability discriminant for reaching
// delta from rest with launch speed at most vmax under gravity g. A negative
// value means no launch velocity within vmax can reach the target.
func JumpDiscriminant(delta geom.Vec2, g, vmax float64) float64 {
	acc := gravityVec(g)
	b := delta.Dot(acc) + vmax*vmax
	return b*b - acc.Dot(acc)*delta.Dot(delta)
}

// LaunchVelocity returns the minimum-energy launch velocity that carries a
// body across delta under gravity g, and the flight time. timeScale
// stretches the flight time; 1 gives the minimum-energy arc.
func LaunchVelocity(delta geom.Vec2, g, timeScale float64) (geom.Vec2, float64) {
	acc := gravityVec(g)
	t := timeScale * math.Sqrt(math.Sqrt(4*delta.Dot(delta)/acc.Dot(acc)))
	if t == 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return geom.Zero, 0
	}
	v := delta.Mul(1 / t).Sub(acc.Mul(t / 2))
	return v, t
}

// LineOfSight reports whether the straight segment between two nodes is
// clear of every level edge neither node lies on.
func (a *Analyzer) LineOfSight(from, to *Node) bool {
	return !a.blocked(geom.Seg(from.Position, to.Position), from, to)
}

// Jump checks the minimum-energy arc from one node to another. On success it
// returns the launch speed of that arc.
func (a *Analyzer) Jump(from, to *Node) (float64, bool) {
	delta := to.Position.Sub(from.Position)
	if geom.IsZero(delta) || a.gravity <= 0 {
		return 0, false
	}
	if JumpDiscriminant(delta, a.gravity, a.maxSpeed) < 0 {
		return 0, false
	}
	v, t := LaunchVelocity(delta, a.gravity, 1)
	if t == 0 {
		return 0, false
	}
	acc := gravityVec(a.gravity)
	arc := func(tt float64) geom.Vec2 {
		return from.Position.Add(v.Mul(tt)).Add(acc.Mul(tt * tt / 2))
	}
	if !a.sweepClear(arc, t, from, to, math.Inf(-1)) {
		return 0, false
	}
	return v.Len(), true
}

// Drop checks a one-way fall from one node to a node strictly below it,
// carrying just enough constant horizontal speed to land on the target. On
// success it returns the straight-line distance between the nodes.
func (a *Analyzer) Drop(from, to *Node) (float64, bool) {
	start, goal := from.Position, to.Position
	if goal.Y() >= start.Y() || a.gravity <= 0 {
		return 0, false
	}
	dy := start.Y() - goal.Y()
	dx := goal.X() - start.X()
	t := math.Sqrt(2 * dy / a.gravity)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	vx := 0.0
	if t > 0 {
		vx = dx / t
	}
	v0 := geom.V(vx, 0)
	acc := gravityVec(a.gravity)
	arc := func(tt float64) geom.Vec2 {
		return start.Add(v0.Mul(tt)).Add(acc.Mul(tt * tt / 2))
	}
	if !a.sweepClear(arc, t, from, to, goal.Y()) {
		return 0, false
	}
	return goal.Sub(start).Len(), true
}

// sweepClear samples arc over [0, flight] and capsule-sweeps each step plus
// the closing segment onto the target. Sampling stops early once a sample
// falls below floorY; the closing segment is still checked.
func (a *Analyzer) sweepClear(arc func(float64) geom.Vec2, flight float64, from, to *Node, floorY float64) bool {
	step := flight / float64(a.steps)
	prev := from.Position
	for i := 1; i <= a.steps; i++ {
		pos := arc(step * float64(i))
		if pos.Y() < floorY {
			break
		}
		if a.capsuleBlocked(geom.Seg(prev, pos), from, to) {
			return false
		}
		prev = pos
	}
	return !a.capsuleBlocked(geom.Seg(prev, to.Position), from, to)
}

func (a *Analyzer) capsuleBlocked(seg geom.Segment, from, to *Node) bool {
	left, right := geom.CapsuleSides(seg, a.radius)
	return a.blocked(left, from, to) || a.blocked(right, from, to)
}

// blocked reports whether seg crosses any edge not owned by either node.
func (a *Analyzer) blocked(seg geom.Segment, from, to *Node) bool {
	for _, e := range a.edges {
		if from.OwnsEdge(e.ref) || to.OwnsEdge(e.ref) {
			continue
		}
		if geom.Intersects(seg, e.seg) {
			return true
		}
	}
	return false
}
