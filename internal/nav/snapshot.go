package nav

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/level"
)

// ErrSnapshotCorrupt is returned when snapshot bytes cannot be decoded into a
// consistent graph.
var ErrSnapshotCorrupt = errors.New("nav snapshot corrupt")

// Snapshot wire layout (protobuf encoding, no generated types):
//
//	Graph      { 1: Config, 2: repeated Node }
//	Config     { 1..11: fixed64 floats, 12: varint trajectory steps }
//	Node       { 1: id, 2: x, 3: y, 4: polygon, 5: repeated Edge,
//	             6: normal x, 7: normal y, 8: corner kind, 9: repeated Connection }
//	Edge       { 1: polygon, 2: edge }
//	Connection { 1: target, 2: distance, 3: kind, 4: effort }
const (
	fieldGraphConfig = 1
	fieldGraphNode   = 2

	fieldNodeID      = 1
	fieldNodeX       = 2
	fieldNodeY       = 3
	fieldNodePolygon = 4
	fieldNodeEdge    = 5
	fieldNodeNormalX = 6
	fieldNodeNormalY = 7
	fieldNodeCorner  = 8
	fieldNodeConn    = 9

	fieldEdgePolygon = 1
	fieldEdgeIndex   = 2

	fieldConnTarget   = 1
	fieldConnDistance = 2
	fieldConnKind     = 3
	fieldConnEffort   = 4

	fieldConfigSteps = 12
)

func appendFloat(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func (c *Config) floatFields() []*float64 {
	return []*float64{
		&c.NodeSpacing, &c.NodeDirectionThreshold, &c.MergeToleranceSq, &c.CellSizeFactor,
		&c.Gravity, &c.MaxJumpSpeed, &c.AgentRadius, &c.DropEffortMultiplier,
		&c.MaxDropOffsetFactor, &c.EffortWeight, &c.VerticalHeuristicWeight,
	}
}

// Encode serialises the graph, including the config it was built with. The
// spatial index is not stored; Decode rebuilds it.
func Encode(g *Graph) []byte {
	var cfg []byte
	for i, f := range g.cfg.floatFields() {
		cfg = appendFloat(cfg, protowire.Number(i+1), *f)
	}
	cfg = appendUint(cfg, fieldConfigSteps, uint64(g.cfg.TrajectorySteps))

	out := appendMessage(nil, fieldGraphConfig, cfg)
	for i := range g.Nodes {
		out = appendMessage(out, fieldGraphNode, encodeNode(&g.Nodes[i]))
	}
	return out
}

func encodeNode(n *Node) []byte {
	var b []byte
	b = appendUint(b, fieldNodeID, uint64(n.ID))
	b = appendFloat(b, fieldNodeX, n.Position.X())
	b = appendFloat(b, fieldNodeY, n.Position.Y())
	b = appendUint(b, fieldNodePolygon, uint64(n.Polygon))
	for _, e := range n.Edges {
		var eb []byte
		eb = appendUint(eb, fieldEdgePolygon, uint64(e.Polygon))
		eb = appendUint(eb, fieldEdgeIndex, uint64(e.Edge))
		b = appendMessage(b, fieldNodeEdge, eb)
	}
	b = appendFloat(b, fieldNodeNormalX, n.Normal.X())
	b = appendFloat(b, fieldNodeNormalY, n.Normal.Y())
	b = appendUint(b, fieldNodeCorner, uint64(n.Corner))
	for _, conns := range [...][]Connection{n.Walkable, n.Jumpable, n.Droppable} {
		for _, c := range conns {
			var cb []byte
			cb = appendUint(cb, fieldConnTarget, uint64(c.Target))
			cb = appendFloat(cb, fieldConnDistance, c.Distance)
			cb = appendUint(cb, fieldConnKind, uint64(c.Kind))
			cb = appendFloat(cb, fieldConnEffort, c.Effort)
			b = appendMessage(b, fieldNodeConn, cb)
		}
	}
	return b
}

// field is one decoded protobuf field. Only the member matching typ is set.
type field struct {
	num   protowire.Number
	typ   protowire.Type
	u     uint64
	bytes []byte
}

func (f field) float() float64 { return math.Float64frombits(f.u) }

// walkFields decodes every top-level field in b, skipping unknown wire types.
func walkFields(b []byte, fn func(field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrSnapshotCorrupt, protowire.ParseError(n))
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.u, n = protowire.ConsumeVarint(b)
		case protowire.Fixed64Type:
			f.u, n = protowire.ConsumeFixed64(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", ErrSnapshotCorrupt, num, protowire.ParseError(n))
		}
		b = b[n:]
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// Decode rebuilds a graph from Encode output and validates that every id is
// dense and every connection target is in range.
func Decode(data []byte) (*Graph, error) {
	g := &Graph{}
	err := walkFields(data, func(f field) error {
		switch f.num {
		case fieldGraphConfig:
			return decodeConfig(f.bytes, &g.cfg)
		case fieldGraphNode:
			n, err := decodeNode(f.bytes)
			if err != nil {
				return err
			}
			g.Nodes = append(g.Nodes, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := g.checkIDs(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	g.indexSpatial()
	return g, nil
}

func decodeConfig(b []byte, cfg *Config) error {
	floats := cfg.floatFields()
	return walkFields(b, func(f field) error {
		switch {
		case f.num == fieldConfigSteps:
			cfg.TrajectorySteps = int(f.u)
		case f.num >= 1 && int(f.num) <= len(floats):
			*floats[f.num-1] = f.float()
		}
		return nil
	})
}

func decodeNode(b []byte) (Node, error) {
	var n Node
	var x, y, nx, ny float64
	err := walkFields(b, func(f field) error {
		switch f.num {
		case fieldNodeID:
			n.ID = int(f.u)
		case fieldNodeX:
			x = f.float()
		case fieldNodeY:
			y = f.float()
		case fieldNodePolygon:
			n.Polygon = int(f.u)
		case fieldNodeEdge:
			var e level.EdgeRef
			err := walkFields(f.bytes, func(ef field) error {
				switch ef.num {
				case fieldEdgePolygon:
					e.Polygon = int(ef.u)
				case fieldEdgeIndex:
					e.Edge = int(ef.u)
				}
				return nil
			})
			if err != nil {
				return err
			}
			n.Edges = append(n.Edges, e)
		case fieldNodeNormalX:
			nx = f.float()
		case fieldNodeNormalY:
			ny = f.float()
		case fieldNodeCorner:
			n.Corner = CornerKind(f.u)
		case fieldNodeConn:
			c, err := decodeConnection(f.bytes)
			if err != nil {
				return err
			}
			switch c.Kind {
			case Walkable:
				n.Walkable = append(n.Walkable, c)
			case Jumpable:
				n.Jumpable = append(n.Jumpable, c)
			case Droppable:
				n.Droppable = append(n.Droppable, c)
			default:
				return fmt.Errorf("%w: connection kind %d", ErrSnapshotCorrupt, c.Kind)
			}
		}
		return nil
	})
	n.Position = geom.V(x, y)
	n.Normal = geom.V(nx, ny)
	n.IsCorner = len(n.Edges) > 1
	return n, err
}

func decodeConnection(b []byte) (Connection, error) {
	var c Connection
	err := walkFields(b, func(f field) error {
		switch f.num {
		case fieldConnTarget:
			c.Target = int(f.u)
		case fieldConnDistance:
			c.Distance = f.float()
		case fieldConnKind:
			c.Kind = Kind(f.u)
		case fieldConnEffort:
			c.Effort = f.float()
		}
		return nil
	})
	return c, err
}
