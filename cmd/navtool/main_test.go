package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Garsondee/platnav/internal/level"
	"github.com/Garsondee/platnav/internal/nav"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := newApp()
	out, err := executeApp(a, args...)
	if cerr := a.close(); cerr != nil {
		t.Fatalf("close: %v", cerr)
	}
	return out, err
}

func executeApp(a *app, args ...string) (string, error) {
	cmd := a.rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeLevel(t *testing.T, lvl *level.Level) string {
	t.Helper()
	data, err := level.Marshal(lvl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "level.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestBuild_PrintsStats(t *testing.T) {
	out, err := execute(t, "build")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	if !strings.Contains(out, "nodes=") || !strings.Contains(out, "connections: walk=") {
		t.Fatalf("expected stats report, got:\n%s", out)
	}
}

func TestBuild_SnapshotThenInspect(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "graph.pnav")
	built, err := execute(t, "build", "--out", snap)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, built)
	}
	idx := strings.Index(built, "snapshot=")
	if idx < 0 {
		t.Fatalf("expected snapshot line, got:\n%s", built)
	}
	stats := built[:idx]

	inspected, err := execute(t, "inspect", snap)
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, inspected)
	}
	if !strings.HasPrefix(inspected, "config: spacing=20.0 gravity=0.50 jump_speed=8.00 radius=8.0\n") {
		t.Fatalf("unexpected config line:\n%s", inspected)
	}
	if !strings.Contains(inspected, stats) {
		t.Fatalf("decoded stats differ from built stats:\nbuilt:\n%s\ninspected:\n%s", stats, inspected)
	}

	listed, err := execute(t, "inspect", "--nodes", snap)
	if err != nil {
		t.Fatalf("inspect --nodes: %v", err)
	}
	if !strings.Contains(listed, "   0 (") {
		t.Fatalf("expected node listing, got:\n%s", listed)
	}
}

func TestInspect_CorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pnav")
	if err := os.WriteFile(path, []byte{0xff, 0xff, 0xff}, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "inspect", path)
	if !errors.Is(err, nav.ErrSnapshotCorrupt) {
		t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
	}
}

func TestPath_DefaultLevel(t *testing.T) {
	out, err := execute(t, "path", "--", "200", "-300", "330", "-270")
	if err != nil {
		t.Fatalf("path: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "start node=") || !strings.Contains(out, "waypoints=") {
		t.Fatalf("unexpected path output:\n%s", out)
	}
}

func TestPath_FromSnapshot(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "graph.pnav")
	if _, err := execute(t, "build", "-o", snap); err != nil {
		t.Fatalf("build: %v", err)
	}
	fromBuild, err := execute(t, "path", "--", "-300", "-300", "-100", "-300")
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	fromSnap, err := execute(t, "path", "--graph", snap, "--", "-300", "-300", "-100", "-300")
	if err != nil {
		t.Fatalf("path --graph: %v", err)
	}
	if fromBuild != fromSnap {
		t.Fatalf("snapshot path differs:\n%s\nvs\n%s", fromBuild, fromSnap)
	}
}

func TestPath_Unreachable(t *testing.T) {
	lvl := &level.Level{Polygons: []level.Polygon{
		level.Rect(0, -20, 100, 0),
		level.Rect(1000, -20, 1100, 0),
	}}
	path := writeLevel(t, lvl)
	_, err := execute(t, "--level", path, "path", "10", "0", "1050", "0")
	if err == nil || !strings.Contains(err.Error(), "no path") {
		t.Fatalf("expected no path error, got %v", err)
	}
}

func TestPath_BadCoordinate(t *testing.T) {
	if _, err := execute(t, "path", "abc", "0", "1", "1"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := execute(t, "path", "1", "2"); err == nil {
		t.Fatal("expected arg count error")
	}
}

func TestExport_RoundTrip(t *testing.T) {
	out, err := execute(t, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lvl, err := level.Parse([]byte(out))
	if err != nil {
		t.Fatalf("parse exported level: %v", err)
	}
	if got, want := len(lvl.Polygons), len(level.Default().Polygons); got != want {
		t.Fatalf("expected %d polygons, got %d", want, got)
	}
}

func TestLogFile_ReceivesBuildStages(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "navtool.log")
	if _, err := execute(t, "--log-file", logPath, "--log-level", "info", "build"); err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"nodes placed"`) {
		t.Fatalf("expected build stage in log file, got:\n%s", data)
	}
}

func TestLogFile_FlushedAndClosedAfterFailure(t *testing.T) {
	lvl := &level.Level{Polygons: []level.Polygon{
		level.Rect(0, -20, 100, 0),
		level.Rect(1000, -20, 1100, 0),
	}}
	levelPath := writeLevel(t, lvl)
	logPath := filepath.Join(t.TempDir(), "navtool.log")

	a := newApp()
	_, err := executeApp(a, "--level", levelPath, "--log-file", logPath, "--log-level", "info",
		"path", "10", "0", "1050", "0")
	if err == nil {
		t.Fatal("expected the path command to fail")
	}
	if a.logCloser == nil {
		t.Fatal("file logging should leave a closer to release")
	}
	if err := a.close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if a.logCloser != nil {
		t.Fatal("close should release the log file")
	}
	if err := a.close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"nodes placed"`) {
		t.Fatalf("log written before the failure should be on disk, got:\n%s", data)
	}
}

func TestLogLevel_Invalid(t *testing.T) {
	if _, err := execute(t, "--log-level", "loud", "build"); err == nil {
		t.Fatal("expected invalid log level error")
	}
}

func TestParseCoords(t *testing.T) {
	pts, err := parseCoords([]string{"1.5", "-2", "3", "4"})
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 2 || pts[0].X() != 1.5 || pts[0].Y() != -2 || pts[1].Y() != 4 {
		t.Fatalf("unexpected points %v", pts)
	}
	if _, err := parseCoords([]string{"1"}); err == nil {
		t.Fatal("expected odd-count error")
	}
}
