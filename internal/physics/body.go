// Package physics integrates agent bodies and resolves them against level
// polygons. It is a small circle-vs-segment resolver, not a general engine.
package physics

import (
	"github.com/Garsondee/platnav/internal/geom"
)

// Config holds the movement tuning for agent bodies.
type Config struct {
	MaxSpeed float64
	// Accel scales the steering correction while a move direction is held;
	// Decel applies when it is released.
	Accel   float64
	Decel   float64
	Gravity float64
	// TouchSlack widens the radius used to detect contact so a body
	// resting on a surface keeps its normal between ticks.
	TouchSlack float64
}

// DefaultConfig returns the tuning used by the wandering agent.
func DefaultConfig() Config {
	return Config{
		MaxSpeed:   3,
		Accel:      0.2,
		Decel:      0.4,
		Gravity:    0.5,
		TouchSlack: 0.5,
	}
}

// Body is a circular agent body.
//
// Normal is the summed contact direction pointing from the body into the
// surfaces it touches; it is zero while airborne. Walled is the side the
// body is pushed away from a wall toward (-1, 0 or 1).
type Body struct {
	Position     geom.Vec2
	PrevPosition geom.Vec2
	Velocity     geom.Vec2
	Acceleration geom.Vec2
	Radius       float64

	Normal        geom.Vec2
	Grounded      bool
	Walled        int8
	HasWallJumped bool
}

// NewBody places a body at rest.
func NewBody(pos geom.Vec2, radius float64) *Body {
	return &Body{Position: pos, PrevPosition: pos, Radius: radius}
}

// Reset puts the body back at pos with no motion. Contact flags are kept;
// the next Resolve refreshes them.
func (b *Body) Reset(pos geom.Vec2) {
	b.Position = pos
	b.PrevPosition = pos
	b.Velocity = geom.Zero
	b.Acceleration = geom.Zero
}

// Falling reports whether the body touches nothing.
func (b *Body) Falling() bool {
	return geom.LengthSq(b.Normal) <= 0
}

// Steer sets the acceleration for this tick: a proportional correction
// toward move × MaxSpeed while in contact, then gravity. Airborne bodies
// get no steering and plain downward gravity; bodies in contact are pulled
// into the surface they touch instead.
func (b *Body) Steer(cfg Config, move geom.Vec2) {
	if b.Falling() {
		b.Acceleration = geom.V(0, -cfg.Gravity)
		return
	}
	scale := cfg.Accel
	if geom.IsZero(move) {
		scale = cfg.Decel
	}
	b.Acceleration = move.Mul(cfg.MaxSpeed).Sub(b.Velocity).Mul(scale)
	b.Acceleration = b.Acceleration.Add(b.Normal.Mul(cfg.Gravity))
}

// JumpKind reports which jump, if any, was applied.
type JumpKind uint8

const (
	NoJump JumpKind = iota
	GroundJump
	WallJump
)

func (k JumpKind) String() string {
	switch k {
	case GroundJump:
		return "ground"
	case WallJump:
		return "wall"
	default:
		return "none"
	}
}

// Jump launches the body with velocity v when it is on the ground or on a
// wall. Airborne bodies and zero launches are ignored.
func (b *Body) Jump(cfg Config, v geom.Vec2) JumpKind {
	if geom.IsZero(v) || b.Falling() {
		return NoJump
	}
	var kind JumpKind
	switch {
	case b.Grounded:
		kind = GroundJump
		b.HasWallJumped = false
	case b.Walled != 0:
		kind = WallJump
		b.HasWallJumped = true
	default:
		return NoJump
	}
	b.Velocity = v
	b.Acceleration = geom.V(0, -cfg.Gravity)
	b.Grounded = false
	b.Walled = 0
	return kind
}

// Integrate applies acceleration to velocity and velocity to position.
func (b *Body) Integrate() {
	b.Velocity = b.Velocity.Add(b.Acceleration)
	b.PrevPosition = b.Position
	b.Position = b.Position.Add(b.Velocity)
}
