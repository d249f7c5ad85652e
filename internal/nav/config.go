package nav

import "github.com/Garsondee/platnav/internal/level"

// Config holds the graph-construction and search tuning. Distances are in
// world units, speeds in units per tick, gravity in units per tick².
type Config struct {
	// NodeSpacing is the nominal gap between nodes along a surface.
	NodeSpacing float64
	// NodeDirectionThreshold discards edges whose unit direction has an
	// x component at or below it; those run right-to-left and are undersides.
	NodeDirectionThreshold float64
	// MergeToleranceSq is the squared distance under which nodes collapse.
	MergeToleranceSq float64
	// TrajectorySteps is the number of arc samples per feasibility sweep.
	TrajectorySteps int
	// CellSizeFactor scales NodeSpacing into the spatial grid cell size.
	CellSizeFactor float64

	Gravity      float64
	MaxJumpSpeed float64
	AgentRadius  float64

	DropEffortMultiplier float64
	MaxDropOffsetFactor  float64

	EffortWeight            float64
	VerticalHeuristicWeight float64
}

// DefaultConfig returns the tuning the demo level is authored against.
func DefaultConfig() Config {
	return Config{
		NodeSpacing:             20,
		NodeDirectionThreshold:  -0.1,
		MergeToleranceSq:        1,
		TrajectorySteps:         10,
		CellSizeFactor:          2.5,
		Gravity:                 0.5,
		MaxJumpSpeed:            8,
		AgentRadius:             8,
		DropEffortMultiplier:    0.5,
		MaxDropOffsetFactor:     1.5,
		EffortWeight:            1,
		VerticalHeuristicWeight: 1.5,
	}
}

// CellSize is the spatial grid cell edge length.
func (c Config) CellSize() float64 {
	return c.NodeSpacing * c.CellSizeFactor
}

// MaxDropOffset is the widest horizontal offset a drop connection may span.
func (c Config) MaxDropOffset() float64 {
	return c.NodeSpacing * c.MaxDropOffsetFactor
}

// WithTuning returns c with every non-nil override from t applied.
func (c Config) WithTuning(t *level.Tuning) Config {
	if t == nil {
		return c
	}
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.NodeSpacing, t.NodeSpacing)
	set(&c.Gravity, t.Gravity)
	set(&c.MaxJumpSpeed, t.MaxJumpSpeed)
	set(&c.AgentRadius, t.AgentRadius)
	set(&c.DropEffortMultiplier, t.DropEffortMultiplier)
	set(&c.EffortWeight, t.EffortWeight)
	set(&c.VerticalHeuristicWeight, t.VerticalHeuristicWeight)
	return c
}
