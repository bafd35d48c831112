package gesture

import (
	"log/slog"
	"time"

	"tessera/internal/canvas"
	"tessera/internal/canvas/clock"
	"tessera/internal/canvas/eventbus"
	models "tessera/internal/domain/models/canvas"
)

type dragSession struct {
	elementID    string
	startPointer canvas.Point
	startPos     models.Position
	scale        float64
}

// DragController moves one element at a time: idle → dragging → idle.
// Not safe for concurrent use.
type DragController struct {
	pan           PanSuppressor
	clock         clock.Clock
	reenableDelay time.Duration
	logger        *slog.Logger

	session  *dragSession
	reenable clock.Timer
}

// NewDragController creates a drag controller that releases panning
// reenableDelay after a drag ends.
func NewDragController(pan PanSuppressor, c clock.Clock, reenableDelay time.Duration, logger *slog.Logger) *DragController {
	return &DragController{
		pan:           pan,
		clock:         c,
		reenableDelay: reenableDelay,
		logger:        logger,
	}
}

// Start begins dragging el. Returns false when editing is off, the element is
// locked or has no geometry, or a drag is already running.
func (d *DragController) Start(el *models.Element, pointer canvas.Point, scale float64, editMode bool) bool {
	if !editMode || el == nil || el.Locked || !el.HasGeometry() || d.session != nil {
		return false
	}

	d.stopReenable()
	d.session = &dragSession{
		elementID:    el.ID,
		startPointer: pointer,
		startPos:     *el.Position,
		scale:        safeScale(scale),
	}
	d.pan.SuppressPanning(eventbus.ReasonDrag)

	d.logger.Debug("drag started", "element_id", el.ID, "scale", d.session.scale)
	return true
}

// Active reports whether a drag is in progress
func (d *DragController) Active() bool {
	return d.session != nil
}

// ElementID returns the element being dragged, if any
func (d *DragController) ElementID() string {
	if d.session == nil {
		return ""
	}
	return d.session.elementID
}

// Move returns the preview position for pointer. Panning is suppressed again
// on every move since pan surfaces may re-enable it on their own.
func (d *DragController) Move(pointer canvas.Point) (models.Position, bool) {
	if d.session == nil {
		return models.Position{}, false
	}
	d.pan.SuppressPanning(eventbus.ReasonDrag)

	dx, dy := d.delta(pointer)
	pos := d.session.startPos
	pos.X += dx
	pos.Y += dy
	return pos, true
}

// End finishes the drag and returns the single update to emit: the element
// as currently stored in elements, moved by the scaled pointer delta, with
// wrapper children recomputed. Returns false if the element vanished.
func (d *DragController) End(pointer canvas.Point, elements []models.Element) (*models.Element, bool) {
	s := d.session
	if s == nil {
		return nil, false
	}
	dx, dy := d.delta(pointer)
	d.session = nil
	d.scheduleReenable()

	current := findElement(elements, s.elementID)
	if current == nil || !current.HasGeometry() {
		d.logger.Debug("drag target gone, dropping update", "element_id", s.elementID)
		return nil, false
	}

	updated := current.Clone()
	updated.Position.X += dx
	updated.Position.Y += dy
	canvas.RecomputeWrapper(updated, elements)

	d.logger.Debug("drag ended",
		"element_id", updated.ID,
		"dx", dx,
		"dy", dy,
	)
	return updated, true
}

// Cancel abandons the drag without an update and releases panning at once
func (d *DragController) Cancel() {
	if d.session == nil {
		return
	}
	d.session = nil
	d.stopReenable()
	d.pan.ReleasePanning(eventbus.ReasonDrag)
}

// Teardown cancels pending timers
func (d *DragController) Teardown() {
	d.session = nil
	d.stopReenable()
}

func (d *DragController) delta(pointer canvas.Point) (float64, float64) {
	s := d.session
	return (pointer.X - s.startPointer.X) / s.scale, (pointer.Y - s.startPointer.Y) / s.scale
}

func (d *DragController) scheduleReenable() {
	d.stopReenable()
	d.reenable = d.clock.AfterFunc(d.reenableDelay, func() {
		d.reenable = nil
		d.pan.ReleasePanning(eventbus.ReasonDrag)
	})
}

func (d *DragController) stopReenable() {
	if d.reenable != nil {
		d.reenable.Stop()
		d.reenable = nil
	}
}
