// Package game is the interactive debug viewer: it draws the level, the
// navigation graph and a simulated agent, and lets the goal be steered from
// the keyboard.
package game

import (
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/platnav/internal/agent"
	"github.com/Garsondee/platnav/internal/geom"
	"github.com/Garsondee/platnav/internal/sim"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 24

// goalStep is how far one frame of a held arrow key moves the goal.
const goalStep = 4.0

// reportTicks is how much event history the clipboard report includes.
const reportTicks = 240

// speedSteps are the selectable simulation speeds.
var speedSteps = []float64{0.25, 0.5, 1, 2, 4}

type Game struct {
	width  int
	height int

	sim  *sim.Sim
	view view
	goal geom.Vec2
	seed int64

	flash      string // transient status line, e.g. "report copied"
	flashTicks int

	showGraph bool
	showHUD   bool
	prevKeys  map[ebiten.Key]bool

	// Simulation speed control.
	simSpeed  float64 // multiplier: 0=paused
	speedIdx  int
	tickAccum float64

	events *eventLog
	face   *text.GoXFace
}

// New wraps a simulation in a viewer of the given window size. The first
// agent is the one the keyboard steers; its current goal seeds the cursor.
func New(s *sim.Sim, width, height int) *Game {
	g := &Game{
		width:     width,
		height:    height,
		sim:       s,
		showGraph: true,
		showHUD:   true,
		prevKeys:  make(map[ebiten.Key]bool),
		simSpeed:  1,
		speedIdx:  2,
		seed:      1,
		events:    newEventLog(),
		face:      text.NewGoXFace(basicfont.Face7x13),
	}
	g.view = fitView(s.Level.Bounds(), width-logPanelWidth, height, borderWidth)
	if a := g.agent(); a != nil {
		g.goal = a.Goal
	}
	return g
}

// agent returns the steered agent, or nil for an empty simulation.
func (g *Game) agent() *sim.Agent {
	if len(g.sim.Agents) == 0 {
		return nil
	}
	return g.sim.Agents[0]
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleInput()
	if g.flashTicks > 0 {
		g.flashTicks--
	}

	if g.simSpeed > 0 {
		g.tickAccum += g.simSpeed
		for g.tickAccum >= 1.0 {
			g.tickAccum -= 1.0
			g.sim.Step()
		}
	}
	g.events.sync(g.sim.SimLog)
	return nil
}

// pressed reports a key going down this frame and records it for the next.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

// handleInput processes goal movement (held) and toggles (edge-triggered).
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}

	var d geom.Vec2
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		d[1] += goalStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		d[1] -= goalStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		d[0] -= goalStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		d[0] += goalStep
	}
	if !geom.IsZero(d) {
		g.moveGoal(d)
	}

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.setGoal(g.view.toWorld(mx, my))
	}

	if g.pressed(currentKeys, ebiten.KeyG) {
		g.showGraph = !g.showGraph
	}
	if g.pressed(currentKeys, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.pressed(currentKeys, ebiten.KeyR) {
		g.sim.ResetAgents()
	}
	if g.pressed(currentKeys, ebiten.KeyW) {
		g.toggleWander()
	}
	if g.pressed(currentKeys, ebiten.KeyC) {
		g.copyReport()
	}
	if g.pressed(currentKeys, ebiten.KeyP) {
		if g.simSpeed == 0 {
			g.simSpeed = speedSteps[g.speedIdx]
		} else {
			g.simSpeed = 0
		}
	}
	if g.pressed(currentKeys, ebiten.KeyComma) {
		g.stepSpeed(-1)
	}
	if g.pressed(currentKeys, ebiten.KeyPeriod) {
		g.stepSpeed(1)
	}
	// Single-step while paused.
	if g.pressed(currentKeys, ebiten.KeySpace) && g.simSpeed == 0 {
		g.sim.Step()
	}

	g.prevKeys = currentKeys
}

// moveGoal shifts the goal cursor, clamped to the level.
func (g *Game) moveGoal(d geom.Vec2) {
	g.setGoal(g.goal.Add(d))
}

func (g *Game) setGoal(p geom.Vec2) {
	g.goal = clampToBounds(p, g.sim.Level.Bounds())
	g.sim.SetGoal(g.goal)
}

// toggleWander switches the steered agent between wandering and following
// the goal cursor.
func (g *Game) toggleWander() {
	a := g.agent()
	if a == nil {
		return
	}
	if a.Wander != nil {
		a.Wander = nil
		a.Goal = g.goal
		g.setFlash("wander off")
		return
	}
	g.seed++
	a.Wander = agent.NewWanderer(g.seed)
	g.setFlash("wander on")
}

func (g *Game) stepSpeed(dir int) {
	g.speedIdx += dir
	if g.speedIdx < 0 {
		g.speedIdx = 0
	}
	if g.speedIdx >= len(speedSteps) {
		g.speedIdx = len(speedSteps) - 1
	}
	if g.simSpeed != 0 {
		g.simSpeed = speedSteps[g.speedIdx]
	}
}

func (g *Game) copyReport() {
	report := debugReport(g.sim, g.agent(), reportTicks)
	if err := clipboard.WriteAll(report); err != nil {
		g.setFlash(fmt.Sprintf("copy failed: %v", err))
		return
	}
	g.setFlash("report copied")
}

func (g *Game) setFlash(msg string) {
	g.flash = msg
	g.flashTicks = 120
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 14, G: 16, B: 20, A: 255})

	g.drawLevel(screen)
	if g.showGraph {
		g.drawGraph(screen)
	}
	for _, a := range g.sim.Agents {
		g.drawRoute(screen, a)
		g.drawAgent(screen, a)
	}
	g.drawGoal(screen)

	if g.showHUD {
		g.drawHUD(screen)
	}
	g.events.draw(screen, g.face, g.width-logPanelWidth, g.height)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
