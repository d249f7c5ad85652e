package sim

import (
	"math"
	"testing"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
	"github.com/Garsondee/platnav/internal/nav"
)

func TestScenario_WalkAlongFloor(t *testing.T) {
	s := NewSim(
		WithSeed(7),
		WithAgent(0, -300, -292, -100, -300),
	)
	a := s.Agent(0)
	reached := s.RunUntil(func(s *Sim) bool {
		return math.Abs(a.Body.Position.X()+100) < 10
	}, 400)
	if reached < 0 {
		t.Fatalf("agent never reached the goal, ended at (%.1f,%.1f)\n%s",
			a.Body.Position.X(), a.Body.Position.Y(), s.SimLog.Summary(s.CurrentTick(), s.Agents))
	}
	if s.SimLog.CountCategory("nav", "replan") == 0 {
		t.Fatal("expected replan events")
	}
	if s.SimLog.CountCategory("jump", "launch") != 0 {
		t.Fatal("a flat walk should not need a jump")
	}
	if y := a.Body.Position.Y(); math.Abs(y+292) > 1 {
		t.Fatalf("agent should stay on the floor, y=%.2f", y)
	}
}

func TestScenario_JumpOntoStep(t *testing.T) {
	s := NewSim(
		WithSeed(3),
		WithAgent(0, 200, -292, 330, -270),
	)
	tick := s.RunUntil(func(s *Sim) bool {
		return s.SimLog.CountCategory("jump", "launch") > 0
	}, 400)
	if tick < 0 {
		t.Fatalf("expected a jump toward the step\n%s", s.SimLog.Summary(s.CurrentTick(), s.Agents))
	}
	e, _ := s.SimLog.LastOf("jump", "launch")
	if e.NumVal > s.Graph.Config().MaxJumpSpeed+1e-9 {
		t.Fatalf("launch speed %.2f exceeds the limit", e.NumVal)
	}
}

func TestScenario_StaysInsideLevel(t *testing.T) {
	s := NewSim(
		WithSeed(11),
		WithWanderer(0, 0, -292),
		WithWanderer(1, -300, -292),
	)
	b := s.Level.Bounds()
	for i := 0; i < 600; i++ {
		s.Step()
		for _, a := range s.Agents {
			p := a.Body.Position
			if p.X() < b.Min.X() || p.X() > b.Max.X() || p.Y() < b.Min.Y() || p.Y() > b.Max.Y() {
				t.Fatalf("T=%d %s escaped the level at (%.1f,%.1f)", s.CurrentTick(), a.Label, p.X(), p.Y())
			}
		}
	}
	if s.SimLog.CountCategory("wander", "goal") < 2 {
		t.Fatal("each wanderer should have picked a goal")
	}
}

func TestSim_Deterministic(t *testing.T) {
	run := func() SimSnapshot {
		s := NewSim(WithSeed(5), WithWanderer(0, 0, -292), WithWanderer(1, 200, -292))
		s.RunTicks(300)
		return s.Snapshot()
	}
	a, b := run(), run()
	for i := range a.Agents {
		if a.Agents[i] != b.Agents[i] {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, a.Agents[i], b.Agents[i])
		}
	}
}

func TestSim_SharedGraph(t *testing.T) {
	lvl := level.Default()
	g := nav.Build(lvl, nav.DefaultConfig())
	s1 := NewSim(WithLevel(lvl), WithGraph(g), WithAgent(0, 0, -292, 100, -300))
	s2 := NewSim(WithLevel(lvl), WithGraph(g), WithAgent(0, 0, -292, -100, -300))
	if s1.Graph != g || s2.Graph != g {
		t.Fatal("supplied graph should be reused")
	}
	s1.RunTicks(50)
	s2.RunTicks(50)
	if s1.Agent(0).Body.Position.X() <= 0 || s2.Agent(0).Body.Position.X() >= 0 {
		t.Fatal("agents sharing a graph should follow their own goals")
	}
}

func TestSim_NoPathLogged(t *testing.T) {
	lvl := &level.Level{Polygons: []level.Polygon{
		{Points: []geom.Vec2{geom.V(0, 0), geom.V(100, 0)}},
		{Points: []geom.Vec2{geom.V(1000, 0), geom.V(1100, 0)}},
	}}
	s := NewSim(WithLevel(lvl), WithAgent(0, 20, 8, 1100, 0))
	s.RunTicks(3)
	if s.SimLog.CountCategory("nav", "no_path") != 3 {
		t.Fatalf("expected a no_path event every tick\n%s", s.SimLog.Format())
	}
}

func TestSim_VerboseAndReset(t *testing.T) {
	s := NewSim(WithVerbose(true), WithAgent(0, -300, -292, -100, -300))
	s.RunTicks(20)
	if n := s.SimLog.CountCategory("move", "position"); n != 20 {
		t.Fatalf("expected 20 position entries, got %d", n)
	}
	a := s.Agent(0)
	s.ResetAgents()
	if a.Body.Position != a.Spawn || a.Nav.HasPath {
		t.Fatal("reset should return the agent to its spawn with no path")
	}
	s.SetGoal(geom.V(0, -300))
	if a.Goal != geom.V(0, -300) {
		t.Fatal("SetGoal should move fixed goals")
	}
}

func TestSim_TuningFromLevel(t *testing.T) {
	lvl := level.Default()
	spacing := 40.0
	lvl.Tuning = &level.Tuning{NodeSpacing: &spacing}
	s := NewSim(WithLevel(lvl))
	if s.Graph.Config().NodeSpacing != 40 {
		t.Fatal("level tuning should override node spacing")
	}
}
