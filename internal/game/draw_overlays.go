package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/nav"
	"github.com/Garsondee/platnav/internal/sim"
)

var (
	solidCol     = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	containerCol = color.RGBA{R: 90, G: 110, B: 140, A: 255}
	walkCol      = color.RGBA{R: 70, G: 80, B: 90, A: 200}
	jumpCol      = color.RGBA{R: 60, G: 200, B: 90, A: 90}
	dropCol      = color.RGBA{R: 230, G: 140, B: 40, A: 110}
	nodeCol      = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	internalCol  = color.RGBA{R: 80, G: 160, B: 255, A: 255}
	externalCol  = color.RGBA{R: 255, G: 90, B: 90, A: 255}
	routeCol     = color.RGBA{R: 255, G: 230, B: 60, A: 220}
	arcCol       = color.RGBA{R: 120, G: 255, B: 160, A: 220}
	agentCol     = color.RGBA{R: 240, G: 240, B: 255, A: 255}
	goalCol      = color.RGBA{R: 255, G: 60, B: 200, A: 255}
	hudCol       = color.RGBA{R: 200, G: 220, B: 200, A: 255}
)

// arcSamples is how many segments a jump arc is drawn with.
const arcSamples = 16

func (g *Game) line(screen *ebiten.Image, a, b geom.Vec2, width float32, c color.Color) {
	x0, y0 := g.view.toScreen(a)
	x1, y1 := g.view.toScreen(b)
	vector.StrokeLine(screen, x0, y0, x1, y1, width, c, true)
}

func (g *Game) drawLevel(screen *ebiten.Image) {
	for _, poly := range g.sim.Level.Polygons {
		c := solidCol
		if poly.Container {
			c = containerCol
		}
		for i := 0; i < poly.EdgeCount(); i++ {
			e := poly.Edge(i)
			g.line(screen, e.A, e.B, 2, c)
		}
	}
}

// drawGraph draws walk, jump and drop connections under the nodes. Corner
// nodes are coloured by class.
func (g *Game) drawGraph(screen *ebiten.Image) {
	nodes := g.sim.Graph.Nodes
	for i := range nodes {
		n := &nodes[i]
		for _, c := range n.Walkable {
			// Walkable links are mirrored; draw each pair once.
			if c.Target > n.ID {
				g.line(screen, n.Position, nodes[c.Target].Position, 1, walkCol)
			}
		}
		for _, c := range n.Jumpable {
			g.line(screen, n.Position, nodes[c.Target].Position, 1, jumpCol)
		}
		for _, c := range n.Droppable {
			g.line(screen, n.Position, nodes[c.Target].Position, 1, dropCol)
		}
	}
	for i := range nodes {
		n := &nodes[i]
		c := nodeCol
		if ext, ok := n.ExternalCorner(); ok {
			c = internalCol
			if ext {
				c = externalCol
			}
		}
		x, y := g.view.toScreen(n.Position)
		vector.FillCircle(screen, x, y, 2.5, c, true)
		if !geom.IsZero(n.Normal) {
			g.line(screen, n.Position, n.Position.Add(n.Normal.Mul(6)), 1, c)
		}
	}
}

// drawRoute draws the agent's cached waypoints from the current index on.
func (g *Game) drawRoute(screen *ebiten.Image, a *sim.Agent) {
	st := &a.Nav
	if !st.HasPath {
		return
	}
	prev := a.Body.Position
	for i := st.Index; i < st.Waypoints(); i++ {
		wp := st.Waypoint(i).Position
		g.line(screen, prev, wp, 2, routeCol)
		prev = wp
	}
}

func (g *Game) drawAgent(screen *ebiten.Image, a *sim.Agent) {
	if a.Nav.Jumping {
		g.drawArc(screen, a.Nav.JumpFrom, a.Nav.JumpTo)
	}
	x, y := g.view.toScreen(a.Body.Position)
	vector.StrokeCircle(screen, x, y, g.view.length(a.Body.Radius), 1.5, agentCol, true)
	if !geom.IsZero(a.Last.Move) {
		g.line(screen, a.Body.Position, a.Body.Position.Add(a.Last.Move.Mul(a.Body.Radius*2)), 1, agentCol)
	}
}

// drawArc samples the ballistic arc the graph builder checked for a jump
// between the two anchors.
func (g *Game) drawArc(screen *ebiten.Image, from, to geom.Vec2) {
	for i, seg := range jumpArc(g.sim.Graph.Config(), from, to, arcSamples) {
		if i%2 == 0 {
			g.line(screen, seg.A, seg.B, 1.5, arcCol)
		}
	}
}

// jumpArc splits the launch arc from→to into n segments.
func jumpArc(cfg nav.Config, from, to geom.Vec2, n int) []geom.Segment {
	if n <= 0 {
		return nil
	}
	v, t := nav.LaunchVelocity(to.Sub(from), cfg.Gravity, 1)
	a := geom.V(0, -cfg.Gravity)
	at := func(s float64) geom.Vec2 {
		return from.Add(v.Mul(s)).Add(a.Mul(0.5 * s * s))
	}
	segs := make([]geom.Segment, 0, n)
	prev := from
	for i := 1; i <= n; i++ {
		p := at(t * float64(i) / float64(n))
		segs = append(segs, geom.Seg(prev, p))
		prev = p
	}
	return segs
}

func (g *Game) drawGoal(screen *ebiten.Image) {
	for _, a := range g.sim.Agents {
		x, y := g.view.toScreen(a.Goal)
		vector.StrokeLine(screen, x-5, y-5, x+5, y+5, 2, goalCol, true)
		vector.StrokeLine(screen, x-5, y+5, x+5, y-5, 2, goalCol, true)
	}
}

// hudLines builds the HUD text, one entry per line.
func (g *Game) hudLines() []string {
	speedStr := "PAUSED"
	if g.simSpeed != 0 {
		speedStr = fmt.Sprintf("%.2gx", g.simSpeed)
	}
	st := g.sim.Graph.Stats()
	lines := []string{
		fmt.Sprintf("T=%d  SIM: %s  P=pause  ,/. speed  Space=step", g.sim.CurrentTick(), speedStr),
		fmt.Sprintf("graph: %d nodes  walk=%d jump=%d drop=%d  G=overlay", st.Nodes, st.Walkable, st.Jumpable, st.Droppable),
		fmt.Sprintf("goal: (%.0f,%.0f)  arrows/click=move  W=wander  R=reset  C=copy  Esc=quit", g.goal.X(), g.goal.Y()),
	}
	if a := g.agent(); a != nil {
		lines = append(lines, fmt.Sprintf("%s: strategy=%s waypoint=%d/%d grounded=%v walled=%d",
			a.Label, a.Last.Strategy, a.Nav.Index, a.Nav.Waypoints(), a.Body.Grounded, a.Body.Walled))
	}
	if g.flashTicks > 0 && g.flash != "" {
		lines = append(lines, g.flash)
	}
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	const lineHeight = 14
	for i, l := range g.hudLines() {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(borderWidth), float64(4+i*lineHeight))
		op.ColorScale.ScaleWithColor(hudCol)
		text.Draw(screen, l, g.face, op)
	}
}
