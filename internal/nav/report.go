package nav

import (
	"fmt"
	"strings"

	"github.com/Garsondee/platnav/internal/geom"
)

// Stats summarises a built graph for tooling and debug overlays.
type Stats struct {
	Nodes           int
	Cells           int
	Walkable        int
	Jumpable        int
	Droppable       int
	InternalCorners int
	ExternalCorners int
	ZeroNormals     int
	Isolated        int // nodes with no outgoing connection of any kind
}

// Stats counts nodes, connections and corner classes.
func (g *Graph) Stats() Stats {
	s := Stats{Nodes: len(g.Nodes), Cells: g.CellCount()}
	for i := range g.Nodes {
		n := &g.Nodes[i]
		s.Walkable += len(n.Walkable)
		s.Jumpable += len(n.Jumpable)
		s.Droppable += len(n.Droppable)
		switch n.Corner {
		case InternalCorner:
			s.InternalCorners++
		case ExternalCorner:
			s.ExternalCorners++
		}
		if geom.IsZero(n.Normal) {
			s.ZeroNormals++
		}
		if len(n.Walkable)+len(n.Jumpable)+len(n.Droppable) == 0 {
			s.Isolated++
		}
	}
	return s
}

// Format renders the stats as a short multi-line report.
func (s Stats) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "nodes=%d cells=%d isolated=%d zero_normals=%d\n", s.Nodes, s.Cells, s.Isolated, s.ZeroNormals)
	fmt.Fprintf(&b, "connections: walk=%d jump=%d drop=%d\n", s.Walkable, s.Jumpable, s.Droppable)
	fmt.Fprintf(&b, "corners: internal=%d external=%d\n", s.InternalCorners, s.ExternalCorners)
	return b.String()
}

// FormatPath renders a path as one waypoint per line, tagging each hop with
// the connection kind used to reach it.
func (g *Graph) FormatPath(start int, p Path) string {
	var b strings.Builder
	prev := start
	for i, pn := range p {
		kind := "?"
		if prev >= 0 && prev < len(g.Nodes) {
			if k, ok := g.connectionKind(prev, pn.ID); ok {
				kind = k.String()
			}
		}
		fmt.Fprintf(&b, "%3d  %-4s node=%-4d (%.1f,%.1f)\n", i, kind, pn.ID, pn.Position.X(), pn.Position.Y())
		prev = pn.ID
	}
	return b.String()
}

// connectionKind returns the kind of the first connection from a to b,
// checking walk, then jump, then drop.
func (g *Graph) connectionKind(a, b int) (Kind, bool) {
	n := &g.Nodes[a]
	for _, conns := range [...][]Connection{n.Walkable, n.Jumpable, n.Droppable} {
		for _, c := range conns {
			if c.Target == b {
				return c.Kind, true
			}
		}
	}
	return 0, false
}
