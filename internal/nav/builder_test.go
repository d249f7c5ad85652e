package nav

import (
	"math"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
)

// ledgeLevel is a solid floor with two open ledges: a high one only
// reachable by dropping and a low one reachable by jumping.
func ledgeLevel() *level.Level {
	return &level.Level{Polygons: []level.Polygon{
		level.Rect(0, -20, 400, 0),
		{Points: []geom.Vec2{geom.V(100, 110), geom.V(200, 110)}},
		{Points: []geom.Vec2{geom.V(250, 40), geom.V(350, 40)}},
	}}
}

func nodeAt(t *testing.T, g *Graph, p geom.Vec2) *Node {
	t.Helper()
	for i := range g.Nodes {
		if geom.DistSq(g.Nodes[i].Position, p) < 1e-6 {
			return &g.Nodes[i]
		}
	}
	t.Fatalf("no node at (%.1f,%.1f)", p.X(), p.Y())
	return nil
}

func TestBuild_SolidRectPlacement(t *testing.T) {
	lvl := &level.Level{Polygons: []level.Polygon{level.Rect(0, 0, 100, 20)}}
	g := Build(lvl, DefaultConfig())

	// Top: 6 nodes, right side: 2, left side: 2, bottom discarded.
	// Both top corners merge, leaving 8.
	if len(g.Nodes) != 8 {
		t.Fatalf("expected 8 nodes, got %d", len(g.Nodes))
	}
	for _, p := range []geom.Vec2{geom.V(0, 20), geom.V(100, 20)} {
		n := nodeAt(t, g, p)
		if !n.IsCorner {
			t.Fatalf("node at (%.0f,%.0f) should be a corner", p.X(), p.Y())
		}
		ext, ok := n.ExternalCorner()
		if !ok || !ext {
			t.Fatalf("top corner at (%.0f,%.0f) should be external", p.X(), p.Y())
		}
	}
	mid := nodeAt(t, g, geom.V(40, 20))
	if mid.IsCorner {
		t.Fatal("mid-surface node should not be a corner")
	}
	if _, ok := mid.ExternalCorner(); ok {
		t.Fatal("non-corner should have no corner classification")
	}
	if mid.Normal != geom.V(0, 1) {
		t.Fatalf("top surface normal should be +Y, got (%.2f,%.2f)", mid.Normal.X(), mid.Normal.Y())
	}
	left := nodeAt(t, g, geom.V(0, 20))
	want := geom.NormalizeOrZero(geom.V(-1, 1))
	if geom.DistSq(left.Normal, want) > 1e-12 {
		t.Fatalf("corner normal should bisect its edges, got (%.3f,%.3f)", left.Normal.X(), left.Normal.Y())
	}
}

func TestBuild_InternalCorner(t *testing.T) {
	lvl := &level.Level{Polygons: []level.Polygon{
		level.Room(-200, -200, 200, 200),
		level.Room(-100, -100, 100, 100),
	}}
	g := Build(lvl, DefaultConfig())
	n := nodeAt(t, g, geom.V(100, -100))
	ext, ok := n.ExternalCorner()
	if !ok || ext {
		t.Fatal("floor/wall corner of a room should be an internal corner")
	}
}

func TestBuild_ContainerToggleSkipsOuterFrame(t *testing.T) {
	lvl := &level.Level{Polygons: []level.Polygon{
		level.Room(-200, -200, 200, 200),
		level.Room(-100, -100, 100, 100),
	}}
	g := Build(lvl, DefaultConfig())
	if len(g.Nodes) == 0 {
		t.Fatal("inner container should produce nodes")
	}
	for _, n := range g.Nodes {
		if n.Polygon != 1 {
			t.Fatalf("node %d belongs to polygon %d; the outer frame should be skipped", n.ID, n.Polygon)
		}
	}
}

func TestBuild_LeftwardEdgesDiscarded(t *testing.T) {
	lvl := &level.Level{Polygons: []level.Polygon{
		{Points: []geom.Vec2{geom.V(100, 0), geom.V(0, 0)}},
	}}
	g := Build(lvl, DefaultConfig())
	if len(g.Nodes) != 0 {
		t.Fatalf("underside edge should not produce nodes, got %d", len(g.Nodes))
	}
}

func TestBuild_DegenerateGeometryDoesNotPanic(t *testing.T) {
	lvl := &level.Level{Polygons: []level.Polygon{
		{Points: []geom.Vec2{geom.V(0, 0), geom.V(0, 0), geom.V(10, 0)}},
		{Points: []geom.Vec2{geom.V(5, 5)}},
		{},
	}}
	g := Build(lvl, DefaultConfig())
	if len(g.Nodes) != 2 {
		t.Fatalf("expected the single real edge to yield 2 nodes, got %d", len(g.Nodes))
	}
}

func TestBuild_EmptyLevel(t *testing.T) {
	g := Build(&level.Level{}, DefaultConfig())
	if len(g.Nodes) != 0 {
		t.Fatal("empty level should give an empty graph")
	}
	if _, ok := g.FindPath(geom.V(0, 0), geom.V(10, 10)); ok {
		t.Fatal("empty graph should yield no path")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	g1 := Build(level.Default(), DefaultConfig())
	g2 := Build(level.Default(), DefaultConfig())
	if !reflect.DeepEqual(g1.Nodes, g2.Nodes) {
		t.Fatal("building twice from identical geometry should give identical graphs")
	}
}

func TestBuild_WalkableSymmetry(t *testing.T) {
	g := Build(level.Default(), DefaultConfig())
	for _, n := range g.Nodes {
		for _, c := range n.Walkable {
			found := false
			for _, back := range g.Nodes[c.Target].Walkable {
				if back.Target == n.ID && back.Distance == c.Distance {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("walkable %d→%d has no mirror with equal distance", n.ID, c.Target)
			}
		}
	}
}

func TestBuild_DedupConverged(t *testing.T) {
	cfg := DefaultConfig()
	g := Build(level.Default(), cfg)
	for i := range g.Nodes {
		for j := i + 1; j < len(g.Nodes); j++ {
			if geom.DistSq(g.Nodes[i].Position, g.Nodes[j].Position) < cfg.MergeToleranceSq {
				t.Fatalf("nodes %d and %d are within merge tolerance", i, j)
			}
		}
	}
}

func TestBuild_IDsDense(t *testing.T) {
	g := Build(level.Default(), DefaultConfig())
	for i, n := range g.Nodes {
		if n.ID != i {
			t.Fatalf("node at index %d has id %d", i, n.ID)
		}
		for _, conns := range [...][]Connection{n.Walkable, n.Jumpable, n.Droppable} {
			for _, c := range conns {
				if c.Target < 0 || c.Target >= len(g.Nodes) {
					t.Fatalf("node %d targets out-of-range id %d", i, c.Target)
				}
				if c.Target == i {
					t.Fatalf("node %d has a self connection", i)
				}
			}
		}
	}
}

func TestBuild_DroppableDirectionality(t *testing.T) {
	g := Build(level.Default(), DefaultConfig())
	for _, n := range g.Nodes {
		for _, c := range n.Droppable {
			if !(g.Nodes[c.Target].Position.Y() < n.Position.Y()) {
				t.Fatalf("drop %d→%d does not go strictly down", n.ID, c.Target)
			}
		}
	}
}

func TestBuild_NoSamePolygonJumps(t *testing.T) {
	g := Build(level.Default(), DefaultConfig())
	for _, n := range g.Nodes {
		for _, conns := range [...][]Connection{n.Jumpable, n.Droppable} {
			for _, c := range conns {
				if g.Nodes[c.Target].Polygon == n.Polygon {
					t.Fatalf("%s %d→%d stays on polygon %d", c.Kind, n.ID, c.Target, n.Polygon)
				}
			}
		}
	}
}

func TestBuild_LedgeConnections(t *testing.T) {
	cfg := DefaultConfig()
	g := Build(ledgeLevel(), cfg)

	high := nodeAt(t, g, geom.V(200, 110))
	floor := nodeAt(t, g, geom.V(220, 0))
	var drop *Connection
	for i := range high.Droppable {
		if high.Droppable[i].Target == floor.ID {
			drop = &high.Droppable[i]
		}
	}
	if drop == nil {
		t.Fatal("expected a drop from the high ledge edge to the floor below")
	}
	wantDist := math.Hypot(20, 110)
	if math.Abs(drop.Distance-wantDist) > 1e-9 {
		t.Fatalf("drop distance: want %.3f, got %.3f", wantDist, drop.Distance)
	}
	if math.Abs(drop.Effort-wantDist*cfg.DropEffortMultiplier) > 1e-9 {
		t.Fatalf("drop effort should be scaled fall distance, got %.3f", drop.Effort)
	}

	low := nodeAt(t, g, geom.V(250, 40))
	start := nodeAt(t, g, geom.V(240, 0))
	if !start.JumpsTo(low.ID) {
		t.Fatal("expected a jump from the floor onto the low ledge")
	}
	for _, c := range start.Jumpable {
		if c.Target == low.ID {
			if c.Effort <= 0 || c.Effort > cfg.MaxJumpSpeed {
				t.Fatalf("jump effort should be a launch speed within the limit, got %.3f", c.Effort)
			}
		}
	}

	for _, c := range start.Jumpable {
		if c.Target == high.ID {
			t.Fatal("high ledge is out of jump range from the floor")
		}
	}
}

func TestBuild_SpatialIndexCoversAllNodes(t *testing.T) {
	g := Build(level.Default(), DefaultConfig())
	for _, n := range g.Nodes {
		found := false
		for _, id := range g.Nearby(n.Position) {
			if id == n.ID {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("node %d missing from its own grid neighbourhood", n.ID)
		}
	}
	if g.CellCount() == 0 {
		t.Fatal("expected occupied grid cells")
	}
}

func TestBuild_DefaultLevelHasJumps(t *testing.T) {
	s := Build(level.Default(), DefaultConfig()).Stats()
	if s.Jumpable == 0 {
		t.Fatal("demo level should contain jump connections")
	}
	if s.Walkable == 0 {
		t.Fatal("demo level should contain walkable connections")
	}
}

func TestConfig_WithTuning(t *testing.T) {
	g := 0.25
	cfg := DefaultConfig().WithTuning(&level.Tuning{Gravity: &g})
	if cfg.Gravity != 0.25 {
		t.Fatalf("gravity override not applied: %.2f", cfg.Gravity)
	}
	if cfg.NodeSpacing != DefaultConfig().NodeSpacing {
		t.Fatal("unset overrides should keep defaults")
	}
	if DefaultConfig().WithTuning(nil) != DefaultConfig() {
		t.Fatal("nil tuning should be a no-op")
	}
}

func TestBuild_LogsStages(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Build(level.Default(), DefaultConfig(), WithLogger(zap.New(core)))
	for _, msg := range []string{"nodes placed", "duplicates merged", "jump connections", "drop connections", "spatial index built"} {
		if n := logs.FilterMessage(msg).Len(); n != 1 {
			t.Fatalf("expected one %q line, got %d", msg, n)
		}
	}
}
