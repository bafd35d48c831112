package viewport

import (
	"time"

	"tessera/internal/canvas/clock"
)

// DeepLinker turns an element ID carried in the page URL into a zoom once the
// elements are loaded. Each ID is handled at most once per workspace.
type DeepLinker struct {
	ctrl    *Controller
	clear   func(elementID string)
	handled map[string]struct{}
	timers  map[int]clock.Timer // live timers only
	nextID  int
}

func newDeepLinker(ctrl *Controller, clearParam func(string)) *DeepLinker {
	return &DeepLinker{
		ctrl:    ctrl,
		clear:   clearParam,
		handled: make(map[string]struct{}),
		timers:  make(map[int]clock.Timer),
	}
}

// Offer schedules the zoom for elementID if it has not been handled in this
// workspace and elements have loaded. The zoom runs after the deep-link
// delay and the parameter is cleared once the transition has settled.
func (d *DeepLinker) Offer(elementID string, loaded bool) bool {
	if elementID == "" || !loaded {
		return false
	}
	if _, ok := d.handled[elementID]; ok {
		return false
	}
	d.handled[elementID] = struct{}{}

	s := d.ctrl.settings
	d.after(s.DeepLinkDelay, func() {
		d.ctrl.ZoomTo(ZoomRequest{ElementID: elementID}, d.ctrl.elements())
		d.after(s.TransitionDuration+s.DeepLinkSettle, func() {
			if d.clear != nil {
				d.clear(elementID)
			}
		})
	})

	d.ctrl.logger.Debug("deep link scheduled", "element_id", elementID, "workspace_id", d.ctrl.workspaceID)
	return true
}

func (d *DeepLinker) after(delay time.Duration, fn func()) {
	id := d.nextID
	d.nextID++
	d.timers[id] = d.ctrl.clock.AfterFunc(delay, func() {
		delete(d.timers, id)
		fn()
	})
}

// Pending returns the number of scheduled deep-link steps
func (d *DeepLinker) Pending() int {
	return len(d.timers)
}

// Handled reports whether elementID was already handled in this workspace
func (d *DeepLinker) Handled(elementID string) bool {
	_, ok := d.handled[elementID]
	return ok
}

func (d *DeepLinker) reset() {
	d.stop()
	clear(d.handled)
}

func (d *DeepLinker) stop() {
	for id, t := range d.timers {
		t.Stop()
		delete(d.timers, id)
	}
}
