// Package agent turns a navigation path into per-tick steering and jump
// decisions for a physically simulated platformer agent.
package agent

import "github.com/Garsondee/platnav/internal/geom"

// Config holds the path-following thresholds. Distances are squared.
type Config struct {
	// GoalChangeThresholdSq is how far the goal may drift before a replan.
	GoalChangeThresholdSq float64
	// PathDeviationThresholdSq is how far the agent may stray from the
	// waypoint it is heading for before a replan.
	PathDeviationThresholdSq float64
	// NodeReachedThresholdSq is the radius within which a waypoint counts
	// as reached.
	NodeReachedThresholdSq float64
	// VelocityEpsilonSq is the speed below which the agent counts as
	// standing still at a jump edge.
	VelocityEpsilonSq float64
	// WallNormalY is the contact normal y above which the agent is on a
	// wall rather than a floor.
	WallNormalY float64
	// JumpTimeMultiplier stretches the flight time of launch arcs.
	JumpTimeMultiplier float64
	Gravity            float64
}

// DefaultConfig returns the thresholds matched to an agent radius of 8.
func DefaultConfig() Config {
	return Config{
		GoalChangeThresholdSq:    25,
		PathDeviationThresholdSq: 100,
		NodeReachedThresholdSq:   64,
		VelocityEpsilonSq:        0.1,
		WallNormalY:              -0.01,
		JumpTimeMultiplier:       1,
		Gravity:                  0.5,
	}
}

// Physics is the agent body state the controller reads each tick.
type Physics struct {
	Position geom.Vec2
	Velocity geom.Vec2
	// Normal points from the agent into the surfaces it touches and is
	// zero while airborne.
	Normal   geom.Vec2
	Grounded bool
	Walled   int8
	Radius   float64
}

// Airborne reports whether the agent touches no surface.
func (p Physics) Airborne() bool {
	return geom.LengthSq(p.Normal) <= 0
}
