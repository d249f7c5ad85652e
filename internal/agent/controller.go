package agent

import (
	"go.uber.org/zap"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/nav"
)

// Decision is the controller output for one tick.
type Decision struct {
	// Move is a unit steering direction, or zero.
	Move geom.Vec2
	// Jump is the launch velocity when HasJump is set. Whether the launch
	// happens is up to the physics: it needs ground or wall contact.
	Jump     geom.Vec2
	JumpFrom geom.Vec2
	JumpTo   geom.Vec2
	HasJump  bool

	Strategy  Strategy
	Replanned bool
}

// Controller follows cached paths over a shared graph. It keeps no
// per-agent state, so one controller can drive any number of agents.
type Controller struct {
	cfg Config
	log *zap.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes replan events to l at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController returns a controller using cfg.
func NewController(cfg Config, opts ...Option) *Controller {
	c := &Controller{cfg: cfg, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Config returns the controller thresholds.
func (c *Controller) Config() Config {
	return c.cfg
}

// Tick replans if needed, picks a strategy for the current leg, and
// advances past any waypoints the agent has reached.
func (c *Controller) Tick(g *nav.Graph, st *State, ph Physics, goal geom.Vec2) Decision {
	var d Decision
	if c.NeedsReplan(st, ph.Position, goal) {
		c.replan(g, st, ph.Position, goal)
		d.Replanned = true
	}
	if !st.HasPath {
		return d
	}

	if i := st.Index; i+1 < st.Waypoints() {
		leg := c.leg(g, st, i, ph.Radius, goal)
		d.Strategy = ChooseStrategy(c.cfg, ph, leg)
		d.Move = geom.NormalizeOrZero(d.Strategy.Displacement(leg, ph.Position))

		if d.Strategy.TargetsNext() && leg.Jump {
			v, _ := nav.LaunchVelocity(leg.Next.Sub(leg.Current), c.cfg.Gravity, c.cfg.JumpTimeMultiplier)
			if !geom.IsZero(v) {
				d.Jump = v
				d.HasJump = true
				d.JumpFrom = leg.CurrentOffset
				d.JumpTo = leg.NextOffset
			}
		}
	}

	c.advance(st, ph.Position)
	return d
}

// NeedsReplan reports whether the cached path must be recomputed: there is
// none, it is used up, the goal moved, or the agent strayed from it.
func (c *Controller) NeedsReplan(st *State, agent, goal geom.Vec2) bool {
	if !st.HasPath || len(st.Path) == 0 || st.Index >= st.Waypoints() {
		return true
	}
	if !st.HasGoal || geom.DistSq(goal, st.LastGoal) > c.cfg.GoalChangeThresholdSq {
		return true
	}
	return geom.DistSq(agent, st.Waypoint(st.Index).Position) > c.cfg.PathDeviationThresholdSq
}

func (c *Controller) replan(g *nav.Graph, st *State, agent, goal geom.Vec2) {
	r, ok := g.FindRoute(agent, goal)
	st.HasPath = ok
	st.Start = r.Start
	st.Path = r.Path
	st.LastGoal = goal
	st.HasGoal = true
	st.Index = 0
	c.log.Debug("replan",
		zap.Bool("found", ok),
		zap.Int("waypoints", st.Waypoints()),
		zap.Float64("cost", r.Cost),
		zap.Float64("goal_x", goal.X()),
		zap.Float64("goal_y", goal.Y()))
}

// leg describes waypoints i and i+1.
func (c *Controller) leg(g *nav.Graph, st *State, i int, radius float64, goal geom.Vec2) Leg {
	cur := &g.Nodes[st.Waypoint(i).ID]
	next := &g.Nodes[st.Waypoint(i + 1).ID]
	return Leg{
		Current:       st.Waypoint(i).Position,
		Next:          st.Waypoint(i + 1).Position,
		CurrentOffset: cur.Offset(radius),
		NextOffset:    next.Offset(radius),
		Goal:          goal,
		Corner:        cur.IsCorner,
		Jump:          cur.JumpsTo(next.ID),
	}
}

func (c *Controller) advance(st *State, agent geom.Vec2) {
	for st.Index < st.Waypoints() &&
		geom.DistSq(agent, st.Waypoint(st.Index).Position) <= c.cfg.NodeReachedThresholdSq {
		st.Index++
	}
}
