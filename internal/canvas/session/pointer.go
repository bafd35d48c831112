package session

import (
	"context"

	"tessera/internal/canvas"
	"tessera/internal/canvas/eventbus"
	"tessera/internal/canvas/gesture"
	"tessera/internal/canvas/viewport"
)

// SetEditMode switches between editing and viewing. Leaving edit mode
// cancels any running gesture.
func (s *Session) SetEditMode(on bool) error {
	return s.Do(func() {
		s.editMode = on
		if !on {
			s.cancelGesture()
		} else {
			s.bus.ReleasePanning(eventbus.ReasonReadOnlyHover)
		}
	})
}

// Resize reports a new window size
func (s *Session) Resize(width, height float64) error {
	return s.Do(func() { s.view.Resize(width, height) })
}

// TransformChanged reports a transform from the pan/zoom surface
func (s *Session) TransformChanged(t viewport.Transform) error {
	return s.Do(func() { s.view.TransformChanged(t) })
}

// SetPanning reports whether the user is actively panning
func (s *Session) SetPanning(active bool) error {
	return s.Do(func() { s.panning = active })
}

// HoverReadOnly suppresses panning while the pointer rests on an element
// that cannot be edited in view mode
func (s *Session) HoverReadOnly(hovering bool) error {
	return s.Do(func() {
		if hovering && !s.editMode {
			s.bus.SuppressPanning(eventbus.ReasonReadOnlyHover)
			return
		}
		s.bus.ReleasePanning(eventbus.ReasonReadOnlyHover)
	})
}

// DisablePanning is the explicit broadcast switch for panning
func (s *Session) DisablePanning(disabled bool) error {
	return s.Do(func() {
		if disabled {
			s.bus.SuppressPanning(eventbus.ReasonBroadcast)
		} else {
			s.bus.ReleasePanning(eventbus.ReasonBroadcast)
		}
	})
}

// BeginDrag starts dragging elementID from a screen point
func (s *Session) BeginDrag(elementID string, screen canvas.Point) (bool, error) {
	var started bool
	err := s.Do(func() {
		if s.resize.Active() {
			return
		}
		el, ok := s.elements.Get(elementID)
		if !ok {
			return
		}
		s.freezeBounds()
		started = s.drag.Start(el, screen, s.view.Viewport().Scale, s.editMode)
	})
	return started, err
}

// BeginResize starts resizing elementID from handle
func (s *Session) BeginResize(elementID string, handle gesture.Handle, screen canvas.Point) (bool, error) {
	var started bool
	err := s.Do(func() {
		if s.drag.Active() {
			return
		}
		el, ok := s.elements.Get(elementID)
		if !ok || (s.resizable != nil && !s.resizable(el.Type)) {
			return
		}
		s.freezeBounds()
		started = s.resize.Start(el, handle, screen, s.view.Viewport().Scale, s.editMode)
	})
	return started, err
}

// PointerMove feeds the active gesture and broadcasts the cursor at the
// throttled rate
func (s *Session) PointerMove(screen canvas.Point) error {
	return s.Do(func() {
		s.moveCursor(screen)

		switch {
		case s.drag.Active():
			id := s.drag.ElementID()
			pos, ok := s.drag.Move(screen)
			if !ok {
				return
			}
			if el, found := s.elements.Get(id); found && el.Dimensions != nil {
				s.preview[id] = gesture.Geometry{Position: pos, Dimensions: *el.Dimensions}
			}
		case s.resize.Active():
			id := s.resize.ElementID()
			if g, ok := s.resize.Move(screen); ok {
				s.preview[id] = g
			}
		}
	})
}

// PointerUp ends the active gesture, applying and persisting its single update
func (s *Session) PointerUp(screen canvas.Point) error {
	return s.Do(func() {
		switch {
		case s.drag.Active():
			id := s.drag.ElementID()
			delete(s.preview, id)
			if updated, ok := s.drag.End(screen, s.elements.Elements()); ok {
				s.applyUpdate(*updated)
			}
		case s.resize.Active():
			id := s.resize.ElementID()
			delete(s.preview, id)
			if updated, ok := s.resize.End(screen, s.elements.Elements()); ok {
				s.applyUpdate(*updated)
			}
		}
	})
}

// CancelGesture abandons the active gesture without an update
func (s *Session) CancelGesture() error {
	return s.Do(s.cancelGesture)
}

// freezeBounds computes the world bounds from the committed geometry so a
// gesture starting now keeps them fixed until it ends
func (s *Session) freezeBounds() {
	if s.drag.Active() || s.resize.Active() {
		return
	}
	s.bounds.Compute(s.view.Viewport(), s.elements.Elements(), false)
}

func (s *Session) cancelGesture() {
	s.drag.Cancel()
	s.resize.Cancel()
	clear(s.preview)
}

func (s *Session) moveCursor(screen canvas.Point) {
	if s.cursor == nil || !s.limiter.AllowN(s.clock.Now(), 1) {
		return
	}
	p := canvas.ScreenToCanvas(s.view.Viewport(), screen)
	s.background(func(ctx context.Context) {
		if err := s.cursor.UpdateCursor(ctx, p.X, p.Y); err != nil {
			s.logger.Debug("cursor broadcast failed", "error", err)
		}
	})
}
