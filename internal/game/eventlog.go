package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/platnav/internal/sim"
)

const (
	logPanelWidth = 340
	logMaxEntries = 60
	logLineHeight = 13
	logHighlight  = 3 // newest entries drawn on a highlighted row
)

var categoryCols = map[string]color.RGBA{
	"nav":     {R: 230, G: 210, B: 80, A: 255},
	"jump":    {R: 90, G: 220, B: 120, A: 255},
	"contact": {R: 120, G: 160, B: 230, A: 255},
	"wander":  {R: 230, G: 110, B: 200, A: 255},
}

// eventLog is a ring buffer of the latest simulation events shown beside
// the playfield.
type eventLog struct {
	entries []sim.SimLogEntry
	head    int
	count   int
	seen    int // SimLog entries already copied in
}

func newEventLog() *eventLog {
	return &eventLog{entries: make([]sim.SimLogEntry, logMaxEntries)}
}

func (el *eventLog) add(e sim.SimLogEntry) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// sync copies in every SimLog entry recorded since the last call. A log
// shorter than what was already seen means it was replaced; start over.
func (el *eventLog) sync(sl *sim.SimLog) {
	all := sl.Entries()
	if len(all) < el.seen {
		el.head, el.count, el.seen = 0, 0, 0
	}
	for _, e := range all[el.seen:] {
		el.add(e)
	}
	el.seen = len(all)
}

// recent returns entries oldest first.
func (el *eventLog) recent() []sim.SimLogEntry {
	out := make([]sim.SimLogEntry, el.count)
	for i := 0; i < el.count; i++ {
		out[i] = el.entries[(el.head-el.count+i+logMaxEntries)%logMaxEntries]
	}
	return out
}

// draw renders the panel with its left edge at panelX.
func (el *eventLog) draw(screen *ebiten.Image, face text.Face, panelX, panelH int) {
	px := float32(panelX)
	vector.FillRect(screen, px, 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)
	vector.FillRect(screen, px, 0, logPanelWidth, 18, color.RGBA{R: 20, G: 24, B: 32, A: 255}, false)
	el.text(screen, face, "EVENTS", panelX+8, 3, hudCol)

	entries := el.recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 22
	for i, e := range entries {
		if i >= len(entries)-logHighlight {
			vector.FillRect(screen, px+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 30, G: 36, B: 48, A: 160}, false)
		}
		dot, ok := categoryCols[e.Category]
		if !ok {
			dot = color.RGBA{R: 150, G: 150, B: 150, A: 255}
		}
		vector.FillRect(screen, px+5, float32(y+4), 3, 5, dot, false)
		el.text(screen, face, fmt.Sprintf("%5d %s %s %s", e.Tick, e.Agent, e.Key, e.Value), panelX+12, y, hudCol)
		y += logLineHeight
	}
}

func (el *eventLog) text(screen *ebiten.Image, face text.Face, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, face, op)
}
