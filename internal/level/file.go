package level

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/platnav/internal/geom"
)

// Tuning carries optional navigation overrides stored alongside a level.
// Nil fields keep the caller's defaults.
type Tuning struct {
	NodeSpacing             *float64 `yaml:"node_spacing"`
	Gravity                 *float64 `yaml:"gravity"`
	MaxJumpSpeed            *float64 `yaml:"max_jump_speed"`
	AgentRadius             *float64 `yaml:"agent_radius"`
	DropEffortMultiplier    *float64 `yaml:"drop_effort_multiplier"`
	EffortWeight            *float64 `yaml:"effort_weight"`
	VerticalHeuristicWeight *float64 `yaml:"vertical_heuristic_weight"`
}

type rawPolygon struct {
	Container bool         `yaml:"container"`
	Closed    bool         `yaml:"closed"`
	Points    [][2]float64 `yaml:"points"`
}

type rawLevel struct {
	Polygons []rawPolygon `yaml:"polygons"`
	Tuning   *Tuning      `yaml:"tuning"`
}

// Load reads a YAML level file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse level %s: %w", path, err)
	}
	return lvl, nil
}

// Parse decodes YAML level data. Polygons marked closed get their first
// point appended when the author did not repeat it.
func Parse(data []byte) (*Level, error) {
	var raw rawLevel
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.Polygons) == 0 {
		return nil, ErrNoPolygons
	}
	lvl := &Level{Tuning: raw.Tuning}
	for i, rp := range raw.Polygons {
		if len(rp.Points) < 2 {
			return nil, fmt.Errorf("polygon %d: need at least 2 points, got %d", i, len(rp.Points))
		}
		pts := make([]geom.Vec2, 0, len(rp.Points)+1)
		for _, p := range rp.Points {
			pts = append(pts, geom.V(p[0], p[1]))
		}
		if rp.Closed && pts[0] != pts[len(pts)-1] {
			pts = append(pts, pts[0])
		}
		lvl.Polygons = append(lvl.Polygons, Polygon{Points: pts, Container: rp.Container})
	}
	return lvl, nil
}

// Marshal encodes a level back to YAML.
func Marshal(lvl *Level) ([]byte, error) {
	raw := rawLevel{Tuning: lvl.Tuning}
	for _, poly := range lvl.Polygons {
		rp := rawPolygon{Container: poly.Container}
		for _, p := range poly.Points {
			rp.Points = append(rp.Points, [2]float64{p.X(), p.Y()})
		}
		raw.Polygons = append(raw.Polygons, rp)
	}
	return yaml.Marshal(&raw)
}
