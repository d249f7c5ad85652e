package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
	"github.com/Garsondee/platnav/internal/nav"
	"github.com/Garsondee/platnav/internal/sim"
)

// arriveRadiusSq is how close the agent must get to a fixed goal to count
// as arrived.
const arriveRadiusSq = 20 * 20

type runStats struct {
	runIndex int
	seed     int64
	scenario string

	arriveTick    int
	firstJumpTick int
	firstNoPath   int

	replans      int
	noPathEvents int
	jumps        int
	lands        int
	clips        int
	wanderGoals  int

	maxLaunchSpeed float64
	finalPos       geom.Vec2
	agents         map[string]struct{}
}

type scenario struct {
	name  string
	opts  func(seed int64) []sim.SimOption
	fixed bool // single agent with a fixed goal; stop on arrival
}

var scenarios = map[string]scenario{
	"cross-level": {
		name:  "cross-level",
		fixed: true,
		opts: func(seed int64) []sim.SimOption {
			return []sim.SimOption{sim.WithSeed(seed), sim.WithAgent(0, -300, -292, 330, -270)}
		},
	},
	"climb": {
		name:  "climb",
		fixed: true,
		opts: func(seed int64) []sim.SimOption {
			return []sim.SimOption{sim.WithSeed(seed), sim.WithAgent(0, 300, -292, -190, -240)}
		},
	},
	"wander": {
		name: "wander",
		opts: func(seed int64) []sim.SimOption {
			return []sim.SimOption{
				sim.WithSeed(seed),
				sim.WithWanderer(0, -300, -292),
				sim.WithWanderer(1, 0, -292),
				sim.WithWanderer(2, 300, -292),
			}
		},
	},
}

func scenarioNames() string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenarioName string
	var levelPath string
	var workers int
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 1200, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenarioName, "scenario", "cross-level", "scenario name")
	flag.StringVar(&levelPath, "level", "", "YAML level file (default: built-in test level)")
	flag.IntVar(&workers, "workers", 4, "runs simulated concurrently")
	flag.BoolVar(&verbose, "v", false, "log graph build stages")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	sc, ok := scenarios[scenarioName]
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenarioName, scenarioNames())
		return
	}

	logger := zap.NewNop()
	if verbose {
		var err error
		if logger, err = zap.NewProduction(); err != nil {
			fmt.Fprintf(os.Stderr, "error: logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() { _ = logger.Sync() }()

	lvl := level.Default()
	if levelPath != "" {
		var err error
		if lvl, err = level.Load(levelPath); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}
	graph := nav.Build(lvl, nav.DefaultConfig().WithTuning(lvl.Tuning), nav.WithLogger(logger))
	if err := graph.Validate(); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Navigation Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d workers=%d\n", sc.name, runs, ticks, seedBase, seedStep, workers)
	fmt.Print(graph.Stats().Format())
	fmt.Println()

	all, err := runAll(context.Background(), sc, lvl, graph, runs, ticks, seedBase, seedStep, workers)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all)
}

// runAll simulates every run over the same graph, at most workers at a
// time. Results come back in run order.
func runAll(ctx context.Context, sc scenario, lvl *level.Level, graph *nav.Graph, runs, ticks int, seedBase, seedStep int64, workers int) ([]runStats, error) {
	out := make([]runStats, runs)
	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = runScenario(sc, lvl, graph, i+1, seed, ticks)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func runScenario(sc scenario, lvl *level.Level, graph *nav.Graph, runIndex int, seed int64, ticks int) runStats {
	opts := append(sc.opts(seed), sim.WithLevel(lvl), sim.WithGraph(graph))
	s := sim.NewSim(opts...)

	arriveTick := -1
	if sc.fixed && len(s.Agents) > 0 {
		a := s.Agents[0]
		arriveTick = s.RunUntil(func(*sim.Sim) bool {
			return geom.DistSq(a.Body.Position, a.Goal) <= arriveRadiusSq
		}, ticks)
	} else {
		s.RunTicks(ticks)
	}
	return collectStats(s, sc.name, runIndex, seed, arriveTick)
}

// collectStats folds a finished simulation's event log into runStats.
func collectStats(s *sim.Sim, scenarioName string, runIndex int, seed int64, arriveTick int) runStats {
	entries := s.SimLog.Entries()
	rs := runStats{
		runIndex:      runIndex,
		seed:          seed,
		scenario:      scenarioName,
		arriveTick:    arriveTick,
		firstJumpTick: s.SimLog.FirstTick("jump", "launch", ""),
		firstNoPath:   s.SimLog.FirstTick("nav", "no_path", ""),
		replans:       s.SimLog.CountCategory("nav", "replan"),
		noPathEvents:  s.SimLog.CountCategory("nav", "no_path"),
		jumps:         s.SimLog.CountCategory("jump", "launch"),
		lands:         s.SimLog.CountCategory("contact", "land"),
		clips:         s.SimLog.CountCategory("contact", "clip"),
		wanderGoals:   s.SimLog.CountCategory("wander", "goal"),
		agents:        map[string]struct{}{},
	}
	for _, e := range entries {
		rs.agents[e.Agent] = struct{}{}
		if e.Category == "jump" && e.Key == "launch" && e.NumVal > rs.maxLaunchSpeed {
			rs.maxLaunchSpeed = e.NumVal
		}
	}
	if len(s.Agents) > 0 {
		rs.finalPos = s.Agents[0].Body.Position
	}
	return rs
}

// detectStuck flags a fixed-goal run that never arrived, or a run where no
// replan ever found a path. Clip-backs are reported but never decide it.
func detectStuck(rs runStats, fixed bool) (bool, string) {
	var reasons []string
	stuck := false
	if fixed && rs.arriveTick < 0 {
		stuck = true
		reasons = append(reasons, "never_arrived")
	}
	if rs.noPathEvents > 0 && rs.replans == 0 {
		stuck = true
		reasons = append(reasons, "no_path_found")
	}
	if rs.clips > 0 {
		reasons = append(reasons, fmt.Sprintf("clipped_%d", rs.clips))
	}
	if len(reasons) == 0 {
		return false, "ok"
	}
	return stuck, strings.Join(reasons, "+")
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: arrive=%d first_jump=%d first_no_path=%d\n",
		rs.arriveTick, rs.firstJumpTick, rs.firstNoPath)
	fmt.Printf("event_totals: replan=%d no_path=%d jump=%d land=%d clip=%d wander_goal=%d\n",
		rs.replans, rs.noPathEvents, rs.jumps, rs.lands, rs.clips, rs.wanderGoals)
	fmt.Printf("max_launch_speed=%.2f final_pos=(%.1f,%.1f)\n", rs.maxLaunchSpeed, rs.finalPos.X(), rs.finalPos.Y())
	fmt.Printf("agents: %s\n", joinSet(rs.agents))
	stuck, reason := detectStuck(rs, scenarios[rs.scenario].fixed)
	fmt.Printf("stuck=%v reason=%s\n", stuck, reason)
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalReplan := 0
	totalNoPath := 0
	totalJump := 0
	totalLand := 0
	totalClip := 0
	totalWander := 0
	stuckRuns := 0
	maxLaunch := 0.0

	arriveTicks := make([]int, 0, len(all))
	jumpTicks := make([]int, 0, len(all))

	for _, rs := range all {
		totalReplan += rs.replans
		totalNoPath += rs.noPathEvents
		totalJump += rs.jumps
		totalLand += rs.lands
		totalClip += rs.clips
		totalWander += rs.wanderGoals
		if rs.maxLaunchSpeed > maxLaunch {
			maxLaunch = rs.maxLaunchSpeed
		}
		if rs.arriveTick >= 0 {
			arriveTicks = append(arriveTicks, rs.arriveTick)
		}
		if rs.firstJumpTick >= 0 {
			jumpTicks = append(jumpTicks, rs.firstJumpTick)
		}
		if stuck, _ := detectStuck(rs, scenarios[rs.scenario].fixed); stuck {
			stuckRuns++
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d stuck_runs=%d\n", len(all), stuckRuns)
	fmt.Printf("avg_events_per_run: replan=%.1f no_path=%.1f jump=%.1f land=%.1f clip=%.1f wander_goal=%.1f\n",
		avg(totalReplan, len(all)), avg(totalNoPath, len(all)), avg(totalJump, len(all)),
		avg(totalLand, len(all)), avg(totalClip, len(all)), avg(totalWander, len(all)))
	fmt.Printf("phase_marker_avg_ticks: arrive=%s first_jump=%s\n", avgTickString(arriveTicks), avgTickString(jumpTicks))
	fmt.Printf("max_launch_speed=%.2f\n", maxLaunch)
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(s map[string]struct{}) string {
	if len(s) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(s))
	for k := range s {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}
