// Package sim runs navigation agents headlessly: controller, physics and
// collision each tick, with structured event logging.
package sim

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/Garsondee/platnav/internal/agent"
	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
	"github.com/Garsondee/platnav/internal/nav"
	"github.com/Garsondee/platnav/internal/physics"
)

// Agent is one simulated navigator.
type Agent struct {
	ID    int
	Label string
	Spawn geom.Vec2
	Body  *physics.Body
	Nav   agent.State
	// Wander picks goals when set; otherwise Goal stays where it was put.
	Wander *agent.Wanderer
	Goal   geom.Vec2
	Last   agent.Decision
}

// Sim is a headless simulation. It mirrors the viewer's update loop without
// any rendering dependency.
type Sim struct {
	Level   *level.Level
	Graph   *nav.Graph
	NavCfg  nav.Config
	PhysCfg physics.Config
	Ctrl    *agent.Controller
	Agents  []*Agent
	SimLog  *SimLog

	agentCfg agent.Config
	log      *zap.Logger
	rng      *rand.Rand
	tick     int
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // level, configs, seed, verbose — applied first
	simOptAgent                      // add agents — applied after the graph exists
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithLevel sets the level geometry. Tuning stored in the level overrides
// the navigation config.
func WithLevel(lvl *level.Level) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.Level = lvl
	}}
}

// WithGraph reuses an already built graph instead of building one. The
// graph must come from the same level.
func WithGraph(g *nav.Graph) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.Graph = g
	}}
}

// WithNavConfig sets the graph construction config.
func WithNavConfig(cfg nav.Config) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.NavCfg = cfg
	}}
}

// WithAgentConfig sets the path-following thresholds.
func WithAgentConfig(cfg agent.Config) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.agentCfg = cfg
	}}
}

// WithPhysics sets the body movement tuning.
func WithPhysics(cfg physics.Config) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.PhysCfg = cfg
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.SimLog = NewSimLog(v)
	}}
}

// WithLogger routes graph build and replan logs to l.
func WithLogger(l *zap.Logger) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.log = l
	}}
}

// WithAgent adds an agent at (x,y) heading for a fixed goal at (gx,gy).
func WithAgent(id int, x, y, gx, gy float64) SimOption {
	return SimOption{simOptAgent, func(s *Sim) {
		s.addAgent(id, geom.V(x, y), geom.V(gx, gy), nil)
	}}
}

// WithWanderer adds an agent at (x,y) that roams between random nodes.
func WithWanderer(id int, x, y float64) SimOption {
	return SimOption{simOptAgent, func(s *Sim) {
		s.addAgent(id, geom.V(x, y), geom.V(x, y), agent.NewWanderer(s.rng.Int63()))
	}}
}

// NewSim constructs a Sim from the given options in ordered passes:
//  1. Infrastructure (level, configs, seed, verbose)
//  2. Build the graph unless one was supplied
//  3. Agents
func NewSim(opts ...SimOption) *Sim {
	s := &Sim{
		NavCfg:   nav.DefaultConfig(),
		PhysCfg:  physics.DefaultConfig(),
		agentCfg: agent.DefaultConfig(),
		SimLog:   NewSimLog(false),
		log:      zap.NewNop(),
		rng:      rand.New(rand.NewSource(1)), // #nosec G404 -- simulation default
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(s)
		}
	}
	if s.Level == nil {
		s.Level = level.Default()
	}
	s.NavCfg = s.NavCfg.WithTuning(s.Level.Tuning)
	if s.Graph == nil {
		s.Graph = nav.Build(s.Level, s.NavCfg, nav.WithLogger(s.log))
	}
	s.agentCfg.Gravity = s.Graph.Config().Gravity
	s.PhysCfg.Gravity = s.Graph.Config().Gravity
	s.Ctrl = agent.NewController(s.agentCfg, agent.WithLogger(s.log))
	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(s)
		}
	}
	return s
}

func (s *Sim) addAgent(id int, pos, goal geom.Vec2, w *agent.Wanderer) {
	s.Agents = append(s.Agents, &Agent{
		ID:     id,
		Label:  fmt.Sprintf("A%d", id),
		Spawn:  pos,
		Body:   physics.NewBody(pos, s.Graph.Config().AgentRadius),
		Wander: w,
		Goal:   goal,
	})
}

// Agent returns the agent with the given id, or nil.
func (s *Sim) Agent(id int) *Agent {
	for _, a := range s.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// SetGoal moves every fixed-goal agent's goal.
func (s *Sim) SetGoal(goal geom.Vec2) {
	for _, a := range s.Agents {
		if a.Wander == nil {
			a.Goal = goal
		}
	}
}

// ResetAgents puts every agent back at its spawn with a fresh nav state.
func (s *Sim) ResetAgents() {
	for _, a := range s.Agents {
		a.Body.Reset(a.Spawn)
		a.Nav.Reset()
		a.Last = agent.Decision{}
		if a.Wander != nil {
			a.Wander.Clear()
		}
	}
}

// RunTicks advances the simulation n ticks, logging events to SimLog.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (s *Sim) RunUntil(predicate func(*Sim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Step()
		if predicate(s) {
			return s.tick
		}
	}
	return -1
}

// Step advances every agent by one tick.
func (s *Sim) Step() {
	s.tick++
	for _, a := range s.Agents {
		s.stepAgent(a)
	}
}

// stepAgent runs goal selection, path following, movement, jumping,
// integration and collision for one agent.
func (s *Sim) stepAgent(a *Agent) {
	tick := s.tick
	b := a.Body

	if a.Wander != nil {
		prev, had := a.Wander.GoalID()
		if goal, ok := a.Wander.Goal(s.Graph, b.Position); ok {
			a.Goal = goal
			if id, _ := a.Wander.GoalID(); !had || id != prev {
				s.SimLog.Add(tick, a.Label, "wander", "goal",
					fmt.Sprintf("node %d at (%.0f,%.0f)", id, goal.X(), goal.Y()), float64(id))
			}
		}
	}

	d := s.Ctrl.Tick(s.Graph, &a.Nav, agent.Physics{
		Position: b.Position,
		Velocity: b.Velocity,
		Normal:   b.Normal,
		Grounded: b.Grounded,
		Walled:   b.Walled,
		Radius:   b.Radius,
	}, a.Goal)
	a.Last = d
	if d.Replanned {
		if a.Nav.HasPath {
			s.SimLog.Add(tick, a.Label, "nav", "replan",
				fmt.Sprintf("found %d waypoints", a.Nav.Waypoints()), float64(a.Nav.Waypoints()))
		} else {
			s.SimLog.Add(tick, a.Label, "nav", "no_path",
				fmt.Sprintf("goal (%.0f,%.0f)", a.Goal.X(), a.Goal.Y()), 0)
		}
	}
	s.SimLog.AddVerbose(tick, a.Label, "nav", "strategy", d.Strategy.String(), 0)

	b.Steer(s.PhysCfg, d.Move)
	if d.HasJump {
		if kind := b.Jump(s.PhysCfg, d.Jump); kind != physics.NoJump {
			a.Nav.SetJump(d.JumpFrom, d.JumpTo)
			s.SimLog.Add(tick, a.Label, "jump", "launch",
				fmt.Sprintf("%s jump speed %.2f", kind, d.Jump.Len()), d.Jump.Len())
		}
	}

	wasFalling := b.Falling()
	b.Integrate()
	c := physics.Resolve(s.Level, s.PhysCfg, b)
	if c.Touching {
		a.Nav.ClearJump()
		if wasFalling {
			s.SimLog.Add(tick, a.Label, "contact", "land",
				fmt.Sprintf("(%.1f,%.1f)", b.Position.X(), b.Position.Y()), b.Position.Y())
		}
	}
	if c.Clipped {
		s.SimLog.Add(tick, a.Label, "contact", "clip",
			fmt.Sprintf("(%.1f,%.1f)", b.Position.X(), b.Position.Y()), 0)
	}
	if c.Ceiling {
		s.SimLog.AddVerbose(tick, a.Label, "contact", "ceiling", "", 0)
	}
	s.SimLog.AddVerbose(tick, a.Label, "move", "position",
		fmt.Sprintf("(%.1f,%.1f)", b.Position.X(), b.Position.Y()), 0)
}

// CurrentTick returns the current simulation tick.
func (s *Sim) CurrentTick() int {
	return s.tick
}

// SimSnapshot captures a lightweight state summary.
type SimSnapshot struct {
	Tick   int
	Agents []AgentSnapshot
}

// AgentSnapshot is a lightweight copy of an agent's state at a tick.
type AgentSnapshot struct {
	ID       int
	Label    string
	Position geom.Vec2
	Velocity geom.Vec2
	Goal     geom.Vec2
	Strategy agent.Strategy
	Index    int
	Grounded bool
}

// Snapshot returns the current state of all agents.
func (s *Sim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: s.tick}
	for _, a := range s.Agents {
		snap.Agents = append(snap.Agents, AgentSnapshot{
			ID:       a.ID,
			Label:    a.Label,
			Position: a.Body.Position,
			Velocity: a.Body.Velocity,
			Goal:     a.Goal,
			Strategy: a.Last.Strategy,
			Index:    a.Nav.Index,
			Grounded: a.Body.Grounded,
		})
	}
	return snap
}
