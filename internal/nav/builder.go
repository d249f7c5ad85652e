package nav

import (
	"math"

	"go.uber.org/zap"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
)

// Option configures Build.
type Option func(*builder)

// WithLogger routes build progress to l.
func WithLogger(l *zap.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

type builder struct {
	lvl   *level.Level
	cfg   Config
	log   *zap.Logger
	nodes []Node
}

// Build converts level geometry into a navigation graph. The result is
// deterministic for identical input and immutable afterwards.
func Build(lvl *level.Level, cfg Config, opts ...Option) *Graph {
	b := &builder{lvl: lvl, cfg: cfg, log: zap.NewNop()}
	for _, o := range opts {
		o(b)
	}

	b.placeNodes()
	placed := len(b.nodes)
	b.log.Info("nodes placed", zap.Int("nodes", placed))
	b.mirrorWalkable()
	survivor := b.mergeDuplicates()
	b.reindex(survivor)
	b.log.Info("duplicates merged",
		zap.Int("merged", placed-len(b.nodes)),
		zap.Int("nodes", len(b.nodes)))

	an := NewAnalyzer(lvl, cfg)
	b.log.Info("jump connections", zap.Int("count", b.connectJumps(an)))
	b.log.Info("drop connections", zap.Int("count", b.connectDrops(an)))

	b.computeNormals()
	b.classifyCorners()

	g := &Graph{Nodes: b.nodes, cfg: cfg}
	g.indexSpatial()
	b.log.Info("spatial index built",
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("cells", g.CellCount()))
	return g
}

// placeNodes walks every kept polygon edge and drops evenly spaced nodes
// along it, each linked to its predecessor on the same edge.
func (b *builder) placeNodes() {
	containerToggle := false
	for pi, poly := range b.lvl.Polygons {
		if poly.Container {
			containerToggle = !containerToggle
			if containerToggle {
				continue
			}
		}
		for ei := 0; ei < poly.EdgeCount(); ei++ {
			b.placeEdge(pi, ei, poly.Edge(ei))
		}
	}
}

func (b *builder) placeEdge(pi, ei int, seg geom.Segment) {
	length := seg.Dir().Len()
	if length == 0 || math.IsNaN(length) {
		return
	}
	dir := geom.NormalizeOrZero(seg.Dir())
	if dir.Dot(geom.UnitX) <= b.cfg.NodeDirectionThreshold {
		return
	}
	count := int(math.Ceil(length / b.cfg.NodeSpacing))
	step := length / float64(count)
	ref := level.EdgeRef{Polygon: pi, Edge: ei}
	for j := 0; j <= count; j++ {
		pos := seg.A.Add(dir.Mul(float64(j) * step))
		if j == count {
			pos = seg.B
		}
		n := Node{
			ID:       len(b.nodes),
			Position: pos,
			Polygon:  pi,
			Edges:    []level.EdgeRef{ref},
		}
		if j > 0 {
			n.Walkable = append(n.Walkable, Connection{
				Target:   len(b.nodes) - 1,
				Distance: step,
				Kind:     Walkable,
			})
		}
		b.nodes = append(b.nodes, n)
	}
}

// mirrorWalkable makes every walkable connection two-way.
func (b *builder) mirrorWalkable() {
	type link struct {
		from int
		c    Connection
	}
	var links []link
	for i := range b.nodes {
		for _, c := range b.nodes[i].Walkable {
			links = append(links, link{from: i, c: c})
		}
	}
	for _, l := range links {
		b.nodes[l.c.Target].Walkable = append(b.nodes[l.c.Target].Walkable, Connection{
			Target:   l.from,
			Distance: l.c.Distance,
			Kind:     Walkable,
		})
	}
}

// mergeDuplicates collapses nodes closer than the merge tolerance into the
// earliest of them. It returns, for every node index, the index of the node
// that absorbed it (itself when it survived). Survivors never move, so one
// ordered pass leaves no pair within tolerance.
func (b *builder) mergeDuplicates() []int {
	survivor := make([]int, len(b.nodes))
	for i := range survivor {
		survivor[i] = i
	}
	for i := range b.nodes {
		if survivor[i] != i {
			continue
		}
		for j := i + 1; j < len(b.nodes); j++ {
			if survivor[j] != j {
				continue
			}
			if geom.DistSq(b.nodes[i].Position, b.nodes[j].Position) >= b.cfg.MergeToleranceSq {
				continue
			}
			keep, gone := &b.nodes[i], &b.nodes[j]
			keep.Walkable = append(keep.Walkable, gone.Walkable...)
			for _, e := range gone.Edges {
				if !keep.OwnsEdge(e) {
					keep.Edges = append(keep.Edges, e)
				}
			}
			survivor[j] = i
		}
	}
	return survivor
}

// reindex drops merged nodes, assigns dense ids, and rewrites every
// connection target through the survivor and dense-id maps. Connections
// that now point at their own node are dropped.
func (b *builder) reindex(survivor []int) {
	dense := make([]int, len(b.nodes))
	kept := make([]Node, 0, len(b.nodes))
	for i := range b.nodes {
		if survivor[i] != i {
			dense[i] = -1
			continue
		}
		dense[i] = len(kept)
		kept = append(kept, b.nodes[i])
	}
	for i := range kept {
		kept[i].ID = i
		conns := kept[i].Walkable[:0]
		for _, c := range kept[i].Walkable {
			c.Target = dense[survivor[c.Target]]
			if c.Target == i {
				continue
			}
			conns = append(conns, c)
		}
		kept[i].Walkable = conns
	}
	b.nodes = kept
}

// connectJumps evaluates every ordered pair on different polygons.
func (b *builder) connectJumps(an *Analyzer) int {
	total := 0
	for i := range b.nodes {
		from := &b.nodes[i]
		var conns []Connection
		for j := range b.nodes {
			to := &b.nodes[j]
			if i == j || from.Polygon == to.Polygon {
				continue
			}
			if !an.LineOfSight(from, to) {
				continue
			}
			speed, ok := an.Jump(from, to)
			if !ok {
				continue
			}
			conns = append(conns, Connection{
				Target:   j,
				Distance: to.Position.Sub(from.Position).Len(),
				Kind:     Jumpable,
				Effort:   speed,
			})
		}
		from.Jumpable = conns
		total += len(conns)
	}
	return total
}

// connectDrops adds one-way falls onto nodes strictly below and within the
// horizontal drop window.
func (b *builder) connectDrops(an *Analyzer) int {
	total := 0
	maxOffset := b.cfg.MaxDropOffset()
	for i := range b.nodes {
		from := &b.nodes[i]
		var conns []Connection
		for j := range b.nodes {
			to := &b.nodes[j]
			if i == j || from.Polygon == to.Polygon {
				continue
			}
			if to.Position.Y() >= from.Position.Y() {
				continue
			}
			if math.Abs(to.Position.X()-from.Position.X()) > maxOffset {
				continue
			}
			if !an.LineOfSight(from, to) {
				continue
			}
			dist, ok := an.Drop(from, to)
			if !ok {
				continue
			}
			conns = append(conns, Connection{
				Target:   j,
				Distance: dist,
				Kind:     Droppable,
				Effort:   dist * b.cfg.DropEffortMultiplier,
			})
		}
		from.Droppable = conns
		total += len(conns)
	}
	return total
}

// computeNormals sums the left perpendicular of every edge a node lies on.
func (b *builder) computeNormals() {
	for i := range b.nodes {
		n := &b.nodes[i]
		sum := geom.Zero
		for _, ref := range n.Edges {
			sum = sum.Add(geom.NormalizeOrZero(geom.Perp(b.lvl.Segment(ref).Dir())))
		}
		n.Normal = geom.NormalizeOrZero(sum)
	}
}

// classifyCorners marks multi-edge nodes and decides convexity from the
// walkable neighbour directions against the node normal.
func (b *builder) classifyCorners() {
	for i := range b.nodes {
		n := &b.nodes[i]
		n.IsCorner = len(n.Edges) > 1
		if !n.IsCorner {
			n.Corner = NotCorner
			continue
		}
		dir := geom.Zero
		for _, c := range n.Walkable {
			dir = dir.Add(b.nodes[c.Target].Position.Sub(n.Position))
		}
		if dir.Dot(n.Normal) < 0 {
			n.Corner = ExternalCorner
		} else {
			n.Corner = InternalCorner
		}
	}
}
