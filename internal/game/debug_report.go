package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/platnav/internal/sim"
)

// debugReport renders the graph stats, the agent's cached route and the
// event log for the last lastTicks ticks. It is what the viewer copies to the
// clipboard.
func debugReport(s *sim.Sim, a *sim.Agent, lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 120
	}
	toTick := s.CurrentTick()
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- platnav debug report ---\n")
	fmt.Fprintf(&b, "tick_range=[%d..%d] ticks=%d\n\n", fromTick, toTick, toTick-fromTick+1)

	b.WriteString("== graph ==\n")
	b.WriteString(s.Graph.Stats().Format())
	b.WriteByte('\n')

	if a == nil {
		b.WriteString("(no agent)\n")
		return b.String()
	}

	fmt.Fprintf(&b, "== agent %s ==\n", a.Label)
	fmt.Fprintf(&b, "pos=(%.1f,%.1f) vel=(%.2f,%.2f) grounded=%v walled=%d\n",
		a.Body.Position.X(), a.Body.Position.Y(),
		a.Body.Velocity.X(), a.Body.Velocity.Y(),
		a.Body.Grounded, a.Body.Walled)
	fmt.Fprintf(&b, "goal=(%.1f,%.1f) wander=%v strategy=%s\n",
		a.Goal.X(), a.Goal.Y(), a.Wander != nil, a.Last.Strategy)

	if a.Nav.HasPath {
		fmt.Fprintf(&b, "route: start=%d waypoints=%d index=%d\n", a.Nav.Start.ID, a.Nav.Waypoints(), a.Nav.Index)
		b.WriteString(s.Graph.FormatPath(a.Nav.Start.ID, a.Nav.Path))
	} else {
		b.WriteString("route: none\n")
	}
	b.WriteByte('\n')

	b.WriteString("== events ==\n")
	events := s.SimLog.FormatRange(fromTick, toTick)
	if events == "" {
		b.WriteString("(no events in range)\n")
	} else {
		b.WriteString(events)
	}
	return b.String()
}
