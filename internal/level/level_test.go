package level

import (
	"errors"
	"testing"

	"github.com/Garsondee/platnav/internal/geom"
)

func TestRect_IsClosedClockwise(t *testing.T) {
	r := Rect(0, 0, 10, 5)
	if r.EdgeCount() != 4 {
		t.Fatalf("expected 4 edges, got %d", r.EdgeCount())
	}
	top := r.Edge(0)
	if top.A.Y() != 5 || top.B.X() <= top.A.X() {
		t.Fatal("first edge should be the top surface running left to right")
	}
}

func TestPolygon_Contains_Solid(t *testing.T) {
	r := Rect(0, 0, 10, 10)
	if !r.Contains(geom.V(5, 5)) {
		t.Fatal("centre of a solid rect should be inside")
	}
	if r.Contains(geom.V(15, 5)) {
		t.Fatal("point right of a solid rect should be outside")
	}
}

func TestPolygon_Contains_ContainerInverted(t *testing.T) {
	room := Room(0, 0, 100, 100)
	if room.Contains(geom.V(50, 50)) {
		t.Fatal("interior of a container is open space")
	}
	if !room.Contains(geom.V(150, 50)) {
		t.Fatal("outside a container counts as solid")
	}
}

func TestParse_ClosesPolygons(t *testing.T) {
	data := []byte(`
polygons:
  - container: true
    closed: true
    points: [[0, 0], [100, 0], [100, 100], [0, 100]]
tuning:
  gravity: 0.25
`)
	lvl, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(lvl.Polygons) != 1 || !lvl.Polygons[0].Container {
		t.Fatal("expected one container polygon")
	}
	if lvl.Polygons[0].EdgeCount() != 4 {
		t.Fatalf("closed square should have 4 edges, got %d", lvl.Polygons[0].EdgeCount())
	}
	if lvl.Tuning == nil || lvl.Tuning.Gravity == nil || *lvl.Tuning.Gravity != 0.25 {
		t.Fatal("expected gravity override 0.25")
	}
	if lvl.Tuning.NodeSpacing != nil {
		t.Fatal("unset tuning fields should stay nil")
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("polygons: []\n"))
	if !errors.Is(err, ErrNoPolygons) {
		t.Fatalf("expected ErrNoPolygons, got %v", err)
	}
}

func TestParse_TooFewPoints(t *testing.T) {
	_, err := Parse([]byte("polygons:\n  - points: [[1, 1]]\n"))
	if err == nil {
		t.Fatal("single-point polygon should be rejected")
	}
}

func TestMarshal_RoundTripsGeometry(t *testing.T) {
	lvl := Default()
	data, err := Marshal(lvl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(back.Polygons) != len(lvl.Polygons) {
		t.Fatalf("polygon count changed: %d → %d", len(lvl.Polygons), len(back.Polygons))
	}
	for i := range lvl.Polygons {
		if len(back.Polygons[i].Points) != len(lvl.Polygons[i].Points) {
			t.Fatalf("polygon %d point count changed", i)
		}
	}
}
