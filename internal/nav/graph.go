// Package nav builds and searches the platformer navigation graph: nodes
// along walkable surfaces joined by walk, jump and drop connections.
package nav

import (
	"errors"
	"fmt"
	"math"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
)

// ErrEmptyGraph is returned by tooling that needs at least one node.
var ErrEmptyGraph = errors.New("nav graph has no nodes")

// Kind tags how a connection is traversed.
type Kind uint8

const (
	Walkable Kind = iota
	Jumpable
	Droppable
)

func (k Kind) String() string {
	switch k {
	case Walkable:
		return "walk"
	case Jumpable:
		return "jump"
	case Droppable:
		return "drop"
	default:
		return "unknown"
	}
}

// Connection is a directed traversal option to another node.
type Connection struct {
	Target   int
	Distance float64
	Kind     Kind
	// Effort is the cost on top of Distance: zero for walking, launch speed
	// for jumps, scaled fall distance for drops.
	Effort float64
}

// CornerKind classifies a node shared by more than one surface edge.
type CornerKind uint8

const (
	NotCorner CornerKind = iota
	InternalCorner
	ExternalCorner
)

func (c CornerKind) String() string {
	switch c {
	case InternalCorner:
		return "internal"
	case ExternalCorner:
		return "external"
	default:
		return "none"
	}
}

// Node is a waypoint on walkable geometry.
type Node struct {
	ID       int
	Position geom.Vec2
	Polygon  int
	// Edges lists every source edge the node lies on. More than one entry
	// only happens where merged nodes meet at a corner.
	Edges    []level.EdgeRef
	Normal   geom.Vec2
	IsCorner bool
	Corner   CornerKind

	Walkable  []Connection
	Jumpable  []Connection
	Droppable []Connection
}

// ExternalCorner reports the corner classification. ok is false for nodes
// that are not corners.
func (n *Node) ExternalCorner() (external, ok bool) {
	if !n.IsCorner {
		return false, false
	}
	return n.Corner == ExternalCorner, true
}

// OwnsEdge reports whether the node lies on the given source edge.
func (n *Node) OwnsEdge(ref level.EdgeRef) bool {
	for _, e := range n.Edges {
		if e == ref {
			return true
		}
	}
	return false
}

// JumpsTo reports whether n has a jump connection to target.
func (n *Node) JumpsTo(target int) bool {
	for _, c := range n.Jumpable {
		if c.Target == target {
			return true
		}
	}
	return false
}

// Offset is the node position pushed out along its normal by radius: where
// the centre of an agent touching the surface at this node would be.
func (n *Node) Offset(radius float64) geom.Vec2 {
	return n.Position.Add(n.Normal.Mul(radius))
}

// Cell is a spatial grid coordinate.
type Cell [2]int

// Graph is the built navigation graph. It is immutable after Build and safe
// for concurrent readers.
type Graph struct {
	Nodes  []Node
	cfg    Config
	grid   map[Cell][]int
	bounds geom.Bounds
}

// Config returns the tuning the graph was built with.
func (g *Graph) Config() Config {
	return g.cfg
}

// Bounds returns the box around every node position.
func (g *Graph) Bounds() geom.Bounds {
	return g.bounds
}

// CellCount returns the number of occupied spatial grid cells.
func (g *Graph) CellCount() int {
	return len(g.grid)
}

// CellOf maps a world position onto the spatial grid.
func (g *Graph) CellOf(p geom.Vec2) Cell {
	cs := g.cfg.CellSize()
	return Cell{
		int(math.Floor((p.X() - g.bounds.Min.X()) / cs)),
		int(math.Floor((p.Y() - g.bounds.Min.Y()) / cs)),
	}
}

// Nearby returns the node ids in the 3×3 block of cells around p. An empty
// result means the caller should fall back to a full scan.
func (g *Graph) Nearby(p geom.Vec2) []int {
	c := g.CellOf(p)
	var ids []int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			ids = append(ids, g.grid[Cell{c[0] + dx, c[1] + dy}]...)
		}
	}
	return ids
}

// indexSpatial rebuilds the bounds and grid from the node positions.
func (g *Graph) indexSpatial() {
	b := geom.EmptyBounds()
	for i := range g.Nodes {
		b = b.Extend(g.Nodes[i].Position)
	}
	g.bounds = b
	g.grid = make(map[Cell][]int)
	for i := range g.Nodes {
		c := g.CellOf(g.Nodes[i].Position)
		g.grid[c] = append(g.grid[c], i)
	}
}

// Validate returns ErrEmptyGraph for a graph without nodes, or an error
// describing the first id or connection target out of place.
func (g *Graph) Validate() error {
	if len(g.Nodes) == 0 {
		return ErrEmptyGraph
	}
	return g.checkIDs()
}

// checkIDs verifies ids are dense and every target is in range.
func (g *Graph) checkIDs() error {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID != i {
			return fmt.Errorf("node %d carries id %d", i, n.ID)
		}
		for _, conns := range [...][]Connection{n.Walkable, n.Jumpable, n.Droppable} {
			for _, c := range conns {
				if c.Target < 0 || c.Target >= len(g.Nodes) {
					return fmt.Errorf("node %d targets %d", i, c.Target)
				}
			}
		}
	}
	return nil
}
