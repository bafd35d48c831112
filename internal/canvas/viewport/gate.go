package viewport

import (
	"sort"

	"tessera/internal/canvas/eventbus"
)

// PanGate ANDs every active suppression reason: panning is enabled only when
// no reason is active. Suppressing a reason twice needs a single release.
type PanGate struct {
	reasons  map[eventbus.PanReason]struct{}
	onChange func(enabled bool)
}

func NewPanGate() *PanGate {
	return &PanGate{reasons: make(map[eventbus.PanReason]struct{})}
}

// OnChange registers fn to be called when the enabled state flips
func (g *PanGate) OnChange(fn func(enabled bool)) {
	g.onChange = fn
}

func (g *PanGate) Suppress(reason eventbus.PanReason) {
	was := g.Enabled()
	g.reasons[reason] = struct{}{}
	g.notify(was)
}

func (g *PanGate) Release(reason eventbus.PanReason) {
	was := g.Enabled()
	delete(g.reasons, reason)
	g.notify(was)
}

// Enabled reports whether panning is currently allowed
func (g *PanGate) Enabled() bool {
	return len(g.reasons) == 0
}

// Active lists the suppression reasons in effect, sorted
func (g *PanGate) Active() []eventbus.PanReason {
	out := make([]eventbus.PanReason, 0, len(g.reasons))
	for r := range g.reasons {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset clears every reason
func (g *PanGate) Reset() {
	was := g.Enabled()
	clear(g.reasons)
	g.notify(was)
}

// Attach follows PanningChanged events on bus until the returned function is called
func (g *PanGate) Attach(bus *eventbus.Bus) (detach func()) {
	return bus.Subscribe(eventbus.TopicPanning, func(e eventbus.Event) {
		pc, ok := e.(eventbus.PanningChanged)
		if !ok {
			return
		}
		if pc.Suppressed {
			g.Suppress(pc.Reason)
		} else {
			g.Release(pc.Reason)
		}
	})
}

func (g *PanGate) notify(was bool) {
	if now := g.Enabled(); now != was && g.onChange != nil {
		g.onChange(now)
	}
}
