package agent

import (
	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/nav"
)

// State is the per-agent navigation state. Each agent owns one and hands it
// to the controller every tick.
type State struct {
	// Start is the node the agent snapped to when the path was planned.
	// Waypoint 0 is Start; waypoint i is Path[i-1].
	Start   nav.PathNode
	Path    nav.Path
	HasPath bool
	Index   int

	LastGoal geom.Vec2
	HasGoal  bool

	// Jump anchors are set while a launched jump is in flight and cleared
	// when the agent touches down.
	JumpFrom geom.Vec2
	JumpTo   geom.Vec2
	Jumping  bool
}

// Waypoints is the number of waypoints the agent follows, including the
// start node.
func (s *State) Waypoints() int {
	if !s.HasPath {
		return 0
	}
	return len(s.Path) + 1
}

// Waypoint returns waypoint i.
func (s *State) Waypoint(i int) nav.PathNode {
	if i == 0 {
		return s.Start
	}
	return s.Path[i-1]
}

// SetJump records the anchors of a launched jump.
func (s *State) SetJump(from, to geom.Vec2) {
	s.JumpFrom, s.JumpTo, s.Jumping = from, to, true
}

// ClearJump forgets the jump anchors.
func (s *State) ClearJump() {
	s.JumpFrom, s.JumpTo, s.Jumping = geom.Zero, geom.Zero, false
}

// Reset drops the cached path and goal so the next tick replans.
func (s *State) Reset() {
	*s = State{}
}
