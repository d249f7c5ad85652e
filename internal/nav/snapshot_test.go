package nav

import (
	"errors"
	"strings"
	"testing"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
)

func buildDefault(t *testing.T) *Graph {
	t.Helper()
	return Build(level.Default(), DefaultConfig())
}

func sameConnections(a, b []Connection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSnapshot_RoundTrip(t *testing.T) {
	g := buildDefault(t)
	got, err := Decode(Encode(g))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Config() != g.Config() {
		t.Fatal("config did not survive the round trip")
	}
	if len(got.Nodes) != len(g.Nodes) {
		t.Fatalf("node count: want %d, got %d", len(g.Nodes), len(got.Nodes))
	}
	for i := range g.Nodes {
		a, b := &g.Nodes[i], &got.Nodes[i]
		if a.ID != b.ID || a.Position != b.Position || a.Polygon != b.Polygon || a.Normal != b.Normal {
			t.Fatalf("node %d fields differ", i)
		}
		if a.IsCorner != b.IsCorner || a.Corner != b.Corner {
			t.Fatalf("node %d corner classification differs", i)
		}
		if len(a.Edges) != len(b.Edges) {
			t.Fatalf("node %d edge count differs", i)
		}
		for j := range a.Edges {
			if a.Edges[j] != b.Edges[j] {
				t.Fatalf("node %d edge %d differs", i, j)
			}
		}
		if !sameConnections(a.Walkable, b.Walkable) || !sameConnections(a.Jumpable, b.Jumpable) || !sameConnections(a.Droppable, b.Droppable) {
			t.Fatalf("node %d connections differ", i)
		}
	}
	if got.CellCount() != g.CellCount() {
		t.Fatal("spatial index should be rebuilt identically")
	}

	p1, ok1 := g.FindPath(geom.V(-300, -300), geom.V(0, -180))
	p2, ok2 := got.FindPath(geom.V(-300, -300), geom.V(0, -180))
	if ok1 != ok2 || !sameIDs(pathIDs(p1), pathIDs(p2)) {
		t.Fatal("decoded graph should find the same path")
	}
}

func TestSnapshot_Truncated(t *testing.T) {
	data := Encode(buildDefault(t))
	_, err := Decode(data[:len(data)/2])
	if !errors.Is(err, ErrSnapshotCorrupt) {
		t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
	}
}

func TestSnapshot_Garbage(t *testing.T) {
	if _, err := Decode([]byte{0xff}); !errors.Is(err, ErrSnapshotCorrupt) {
		t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
	}
}

func TestSnapshot_DanglingTarget(t *testing.T) {
	g := testGraph(geom.V(0, 0), geom.V(10, 0))
	g.Nodes[0].Walkable = []Connection{{Target: 9, Distance: 1, Kind: Walkable}}
	if _, err := Decode(Encode(g)); !errors.Is(err, ErrSnapshotCorrupt) {
		t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
	}
}

func TestSnapshot_SparseIDs(t *testing.T) {
	g := testGraph(geom.V(0, 0), geom.V(10, 0))
	g.Nodes[1].ID = 4
	if _, err := Decode(Encode(g)); !errors.Is(err, ErrSnapshotCorrupt) {
		t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
	}
}

func TestStats_Counts(t *testing.T) {
	g := testGraph(geom.V(0, 0), geom.V(10, 0), geom.V(50, 50))
	walk(g, 0, 1, 10)
	g.Nodes[1].Jumpable = []Connection{{Target: 2, Distance: 56, Kind: Jumpable, Effort: 6}}

	s := g.Stats()
	if s.Nodes != 3 || s.Walkable != 2 || s.Jumpable != 1 || s.Droppable != 0 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.Isolated != 1 {
		t.Fatalf("node 2 has no outgoing connections, got isolated=%d", s.Isolated)
	}
	if s.ZeroNormals != 3 {
		t.Fatalf("hand-built nodes have zero normals, got %d", s.ZeroNormals)
	}

	out := g.FormatPath(0, Path{{ID: 1, Position: geom.V(10, 0)}, {ID: 2, Position: geom.V(50, 50)}})
	if want := "walk"; !strings.Contains(out, want) {
		t.Fatalf("formatted path should mention %q:\n%s", want, out)
	}
	if want := "jump"; !strings.Contains(out, want) {
		t.Fatalf("formatted path should mention %q:\n%s", want, out)
	}
}

func TestGraph_Validate(t *testing.T) {
	if err := (&Graph{}).Validate(); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}
	if err := buildDefault(t).Validate(); err != nil {
		t.Fatalf("built graph should validate: %v", err)
	}
	g := testGraph(geom.V(0, 0))
	g.Nodes[0].Walkable = []Connection{{Target: 3}}
	if err := g.Validate(); err == nil {
		t.Fatal("dangling target should fail validation")
	}
}
