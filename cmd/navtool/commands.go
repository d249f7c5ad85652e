package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
	"github.com/Garsondee/platnav/internal/nav"
)

// app carries the state shared by every subcommand.
type app struct {
	levelPath string
	logOpts   logOptions
	log       *zap.Logger
	logCloser io.Closer
}

func newApp() *app {
	return &app{log: zap.NewNop()}
}

// close flushes the logger and releases the log file. It runs after
// Execute whether or not the command failed, and is safe to call twice.
func (a *app) close() error {
	_ = a.log.Sync()
	a.log = zap.NewNop()
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "navtool",
		Short:        "Build, query and inspect platformer navigation graphs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, closer, err := newLogger(a.logOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.log, a.logCloser = l, closer
			return nil
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.levelPath, "level", "", "YAML level file (default: built-in test level)")
	pf.StringVar(&a.logOpts.file, "log-file", "", "write JSON logs to this file with rotation instead of stderr")
	pf.StringVar(&a.logOpts.level, "log-level", "warn", "minimum log level: debug|info|warn|error")
	pf.IntVar(&a.logOpts.maxSizeMB, "log-max-size", 10, "log file size in MB before rotation")
	pf.IntVar(&a.logOpts.maxBackups, "log-max-backups", 3, "rotated log files to keep")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Build the graph for a level and print its stats",
		Args:  cobra.NoArgs,
		RunE:  a.runBuild,
	}
	buildCmd.Flags().StringP("out", "o", "", "write a graph snapshot to this file")

	pathCmd := &cobra.Command{
		Use:   "path [flags] -- <x0> <y0> <x1> <y1>",
		Short: "Find a path between two world positions",
		Long: `Find a path between two world positions. Put coordinates after "--"
so negative values are not read as flags.`,
		Args:  cobra.ExactArgs(4),
		RunE:  a.runPath,
	}
	pathCmd.Flags().String("graph", "", "load the graph from a snapshot instead of building it")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the level as YAML",
		Args:  cobra.NoArgs,
		RunE:  a.runExport,
	}
	exportCmd.Flags().StringP("out", "o", "", "output file (default: stdout)")

	inspectCmd := &cobra.Command{
		Use:   "inspect <snapshot>",
		Short: "Decode a graph snapshot and print its stats",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runInspect,
	}
	inspectCmd.Flags().Bool("nodes", false, "list every node")

	rootCmd.AddCommand(buildCmd, pathCmd, exportCmd, inspectCmd)
	return rootCmd
}

func (a *app) loadLevel() (*level.Level, error) {
	if a.levelPath == "" {
		return level.Default(), nil
	}
	return level.Load(a.levelPath)
}

func (a *app) buildGraph() (*nav.Graph, error) {
	lvl, err := a.loadLevel()
	if err != nil {
		return nil, err
	}
	g := nav.Build(lvl, nav.DefaultConfig().WithTuning(lvl.Tuning), nav.WithLogger(a.log))
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return g, nil
}

func readSnapshot(path string) (*nav.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	g, err := nav.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return g, nil
}

func (a *app) runBuild(cmd *cobra.Command, _ []string) error {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	g, err := a.buildGraph()
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), g.Stats().Format())

	if out == "" {
		return nil
	}
	data := nav.Encode(g)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	a.log.Info("snapshot written", zap.String("path", out), zap.Int("bytes", len(data)))
	fmt.Fprintf(cmd.OutOrStdout(), "snapshot=%s bytes=%d\n", out, len(data))
	return nil
}

// parseCoords reads consecutive x y pairs.
func parseCoords(args []string) ([]geom.Vec2, error) {
	if len(args)%2 != 0 {
		return nil, errors.New("coordinates must come in x y pairs")
	}
	pts := make([]geom.Vec2, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		x, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", args[i], err)
		}
		y, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %q: %w", args[i+1], err)
		}
		pts = append(pts, geom.V(x, y))
	}
	return pts, nil
}

func (a *app) runPath(cmd *cobra.Command, args []string) error {
	snap, err := cmd.Flags().GetString("graph")
	if err != nil {
		return err
	}
	pts, err := parseCoords(args)
	if err != nil {
		return err
	}

	var g *nav.Graph
	if snap != "" {
		g, err = readSnapshot(snap)
	} else {
		g, err = a.buildGraph()
	}
	if err != nil {
		return err
	}

	from, to := pts[0], pts[1]
	r, ok := g.FindRoute(from, to)
	if !ok {
		return fmt.Errorf("no path from (%.1f,%.1f) to (%.1f,%.1f)", from.X(), from.Y(), to.X(), to.Y())
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "start node=%d (%.1f,%.1f)\n", r.Start.ID, r.Start.Position.X(), r.Start.Position.Y())
	fmt.Fprint(w, g.FormatPath(r.Start.ID, r.Path))
	fmt.Fprintf(w, "waypoints=%d cost=%.2f\n", len(r.Path), r.Cost)
	return nil
}

func (a *app) runExport(cmd *cobra.Command, _ []string) error {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	lvl, err := a.loadLevel()
	if err != nil {
		return err
	}
	data, err := level.Marshal(lvl)
	if err != nil {
		return fmt.Errorf("marshal level: %w", err)
	}
	if out == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write level: %w", err)
	}
	return nil
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	listNodes, err := cmd.Flags().GetBool("nodes")
	if err != nil {
		return err
	}
	g, err := readSnapshot(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	cfg := g.Config()
	fmt.Fprintf(w, "config: spacing=%.1f gravity=%.2f jump_speed=%.2f radius=%.1f\n",
		cfg.NodeSpacing, cfg.Gravity, cfg.MaxJumpSpeed, cfg.AgentRadius)
	fmt.Fprint(w, g.Stats().Format())
	if !listNodes {
		return nil
	}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		fmt.Fprintf(w, "%4d (%.1f,%.1f) poly=%d corner=%s walk=%d jump=%d drop=%d\n",
			n.ID, n.Position.X(), n.Position.Y(), n.Polygon, n.Corner,
			len(n.Walkable), len(n.Jumpable), len(n.Droppable))
	}
	return nil
}
