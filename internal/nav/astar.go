package nav

import (
	"container/heap"
	"math"

	"github.com/Garsondee/platnav/internal/geom"
)

// PathNode is one waypoint of a found path.
type PathNode struct {
	ID       int
	Position geom.Vec2
}

// Path runs from the node after the start node up to and including the goal
// node. An empty path means the start already snapped to the goal.
type Path []PathNode

// --- A* pathfinding ---

type searchNode struct {
	id     int
	g, h   float64
	parent int
	index  int // heap index
}

func (n *searchNode) f() float64 { return n.g + n.h }

type openList []*searchNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	a, b := ol[i], ol[j]
	if fa, fb := a.f(), b.f(); fa != fb {
		return fa < fb
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.g < b.g
}
func (ol openList) Swap(i, j int)       { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) { n := x.(*searchNode); n.index = len(*ol); *ol = append(*ol, n) }
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

// Heuristic estimates the remaining cost from one position to another.
// Climbing is weighted because reaching higher ground needs jumps; falling
// is left unweighted. It is not admissible, so paths are not guaranteed to
// be optimal.
func Heuristic(from, to geom.Vec2, verticalWeight float64) float64 {
	dx := math.Abs(to.X() - from.X())
	dy := to.Y() - from.Y()
	v := math.Abs(dy)
	if dy > 0 {
		v = dy * verticalWeight
	}
	return math.Sqrt(dx*dx + v*v)
}

// Route is a found path together with the node the start position snapped
// to. Followers steer from Start along Path.
type Route struct {
	Start PathNode
	Path  Path
	Cost  float64
}

// FindRoute snaps start and goal onto the graph and searches between them.
// ok is false when the graph is empty or the goal node is unreachable.
func (g *Graph) FindRoute(start, goal geom.Vec2) (Route, bool) {
	goalID, ok := g.NearestNode(goal)
	if !ok {
		return Route{}, false
	}
	startID, ok := g.nearestStart(start, goal)
	if !ok {
		return Route{}, false
	}
	path, cost, found := g.Search(startID, goalID)
	if !found {
		return Route{}, false
	}
	return Route{
		Start: PathNode{ID: startID, Position: g.Nodes[startID].Position},
		Path:  path,
		Cost:  cost,
	}, true
}

// FindPath is FindRoute without the start node and cost.
func (g *Graph) FindPath(start, goal geom.Vec2) (Path, bool) {
	r, ok := g.FindRoute(start, goal)
	if !ok {
		return nil, false
	}
	return r.Path, true
}

// NearestNode returns the node closest to p, searching the surrounding grid
// cells first and every node when those are empty. The first candidate wins
// ties.
func (g *Graph) NearestNode(p geom.Vec2) (int, bool) {
	best, bestDist := -1, math.MaxFloat64
	for _, id := range g.candidates(p) {
		d := geom.DistSq(p, g.Nodes[id].Position)
		if d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, best >= 0
}

// nearestStart is NearestNode with ties broken toward the goal position.
func (g *Graph) nearestStart(p, goal geom.Vec2) (int, bool) {
	best, bestDist, bestToGoal := -1, math.MaxFloat64, math.MaxFloat64
	for _, id := range g.candidates(p) {
		pos := g.Nodes[id].Position
		d := geom.DistSq(p, pos)
		if d > bestDist {
			continue
		}
		toGoal := geom.DistSq(goal, pos)
		if d == bestDist && toGoal >= bestToGoal {
			continue
		}
		best, bestDist, bestToGoal = id, d, toGoal
	}
	return best, best >= 0
}

func (g *Graph) candidates(p geom.Vec2) []int {
	if ids := g.Nearby(p); len(ids) > 0 {
		return ids
	}
	ids := make([]int, len(g.Nodes))
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Search runs A* between two node ids and returns the path and its total
// cost. Walk, jump and drop connections are all traversable; each costs
// its distance plus the weighted effort.
func (g *Graph) Search(startID, goalID int) (Path, float64, bool) {
	if startID < 0 || goalID < 0 || startID >= len(g.Nodes) || goalID >= len(g.Nodes) {
		return nil, 0, false
	}
	if startID == goalID {
		return Path{}, 0, true
	}

	goalPos := g.Nodes[goalID].Position
	vw := g.cfg.VerticalHeuristicWeight
	ew := g.cfg.EffortWeight

	closed := make([]bool, len(g.Nodes))
	parent := make([]int, len(g.Nodes))
	for i := range parent {
		parent[i] = -1
	}

	start := &searchNode{id: startID, parent: -1, h: Heuristic(g.Nodes[startID].Position, goalPos, vw)}
	ol := &openList{start}
	heap.Init(ol)

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*searchNode)
		if closed[cur.id] {
			continue
		}
		parent[cur.id] = cur.parent
		if cur.id == goalID {
			return g.buildPath(parent, startID, goalID), cur.g, true
		}
		closed[cur.id] = true

		n := &g.Nodes[cur.id]
		for _, conns := range [...][]Connection{n.Walkable, n.Jumpable, n.Droppable} {
			for _, c := range conns {
				if closed[c.Target] {
					continue
				}
				heap.Push(ol, &searchNode{
					id:     c.Target,
					g:      cur.g + c.Distance + ew*c.Effort,
					h:      Heuristic(g.Nodes[c.Target].Position, goalPos, vw),
					parent: cur.id,
				})
			}
		}
	}
	return nil, 0, false
}

// buildPath walks parent pointers back from the goal, leaving out the start
// node, and returns the waypoints in travel order.
func (g *Graph) buildPath(parent []int, startID, goalID int) Path {
	var path Path
	for id := goalID; id != startID && id >= 0; id = parent[id] {
		path = append(path, PathNode{ID: id, Position: g.Nodes[id].Position})
	}
	// Reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
