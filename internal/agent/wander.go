package agent

import (
	"math/rand"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/nav"
)

const (
	wanderSamples   = 3
	wanderReachedSq = 30 * 30
)

// Wanderer hands out roaming goals: the farthest of a few random nodes,
// replaced once the agent gets within reach of it.
type Wanderer struct {
	intn    func(n int) int
	goal    int
	hasGoal bool
}

// NewWanderer returns a wanderer with a deterministic random source.
func NewWanderer(seed int64) *Wanderer {
	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- goal picking, not security
	return &Wanderer{intn: rng.Intn}
}

// Goal returns the current wander goal for an agent at pos, picking a new
// one when the old goal was reached or is no longer a node of g. ok is
// false only for an empty graph.
func (w *Wanderer) Goal(g *nav.Graph, pos geom.Vec2) (geom.Vec2, bool) {
	if w.hasGoal {
		if w.goal >= len(g.Nodes) || geom.DistSq(pos, g.Nodes[w.goal].Position) <= wanderReachedSq {
			w.hasGoal = false
		}
	}
	if !w.hasGoal {
		id, ok := w.pick(g, pos)
		if !ok {
			return geom.Zero, false
		}
		w.goal, w.hasGoal = id, true
	}
	return g.Nodes[w.goal].Position, true
}

// GoalID returns the node id of the current goal.
func (w *Wanderer) GoalID() (int, bool) {
	return w.goal, w.hasGoal
}

// Clear forgets the current goal.
func (w *Wanderer) Clear() {
	w.hasGoal = false
}

func (w *Wanderer) pick(g *nav.Graph, pos geom.Vec2) (int, bool) {
	if len(g.Nodes) == 0 {
		return 0, false
	}
	best, bestDist := -1, 0.0
	for i := 0; i < wanderSamples; i++ {
		id := w.intn(len(g.Nodes))
		if best < 0 {
			best = id
		}
		if d := geom.DistSq(pos, g.Nodes[id].Position); d > bestDist {
			best, bestDist = id, d
		}
	}
	return best, true
}
