package agent

import (
	"github.com/Garsondee/platnav/internal/geom"
)

// Strategy selects which pair of points steering aims between.
type Strategy uint8

const (
	StrategyNone Strategy = iota
	CurrentNodeToNextNode
	CurrentNodeOffsetToNextNodeOffset
	AgentToCurrentNode
	AgentToCurrentNodeOffset
	AgentToNextNode
	AgentToNextNodeOffset
	AgentToGoal
)

func (s Strategy) String() string {
	switch s {
	case CurrentNodeToNextNode:
		return "current_to_next"
	case CurrentNodeOffsetToNextNodeOffset:
		return "current_offset_to_next_offset"
	case AgentToCurrentNode:
		return "agent_to_current"
	case AgentToCurrentNodeOffset:
		return "agent_to_current_offset"
	case AgentToNextNode:
		return "agent_to_next"
	case AgentToNextNodeOffset:
		return "agent_to_next_offset"
	case AgentToGoal:
		return "agent_to_goal"
	default:
		return "none"
	}
}

// TargetsNext reports whether the strategy aims at the next waypoint, which
// is when a jump across the current edge may launch.
func (s Strategy) TargetsNext() bool {
	return s == AgentToNextNode || s == AgentToNextNodeOffset
}

// Leg is the stretch of path the agent is on: the waypoint it is heading
// for and the one after it.
type Leg struct {
	Current       geom.Vec2
	Next          geom.Vec2
	CurrentOffset geom.Vec2
	NextOffset    geom.Vec2
	Goal          geom.Vec2

	Corner bool // current waypoint is a corner node
	Jump   bool // current → next is a jump connection
}

// ChooseStrategy picks the steering strategy for one tick.
func ChooseStrategy(cfg Config, ph Physics, leg Leg) Strategy {
	if ph.Airborne() {
		return AgentToNextNodeOffset
	}
	if leg.Jump {
		onWall := ph.Normal.Y() > cfg.WallNormalY
		if CrossesNextTick(ph.Position, ph.Velocity, leg.Current, onWall) ||
			geom.LengthSq(ph.Velocity) < cfg.VelocityEpsilonSq {
			return AgentToNextNodeOffset
		}
		return AgentToCurrentNodeOffset
	}
	if leg.Corner {
		return AgentToNextNode
	}
	if geom.DistSq(leg.NextOffset, ph.Position) <= geom.DistSq(leg.NextOffset, leg.CurrentOffset) {
		return AgentToNextNodeOffset
	}
	return AgentToCurrentNodeOffset
}

// Displacement is the raw, unnormalised steering vector for s.
func (s Strategy) Displacement(leg Leg, agent geom.Vec2) geom.Vec2 {
	switch s {
	case CurrentNodeToNextNode:
		return leg.Next.Sub(leg.Current)
	case CurrentNodeOffsetToNextNodeOffset:
		return leg.NextOffset.Sub(leg.CurrentOffset)
	case AgentToCurrentNode:
		return leg.Current.Sub(agent)
	case AgentToCurrentNodeOffset:
		return leg.CurrentOffset.Sub(agent)
	case AgentToNextNode:
		return leg.Next.Sub(agent)
	case AgentToNextNodeOffset:
		return leg.NextOffset.Sub(agent)
	case AgentToGoal:
		return leg.Goal.Sub(agent)
	default:
		return geom.Zero
	}
}

// CrossesNextTick reports whether moving by vel for one tick takes pos to
// the other side of node along one axis: y when vertical, x otherwise.
func CrossesNextTick(pos, vel, node geom.Vec2, vertical bool) bool {
	axis := 0
	if vertical {
		axis = 1
	}
	next := pos.Add(vel)
	return geom.Signum(pos[axis]-node[axis]) != geom.Signum(next[axis]-node[axis])
}
