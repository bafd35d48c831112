package session

import (
	"tessera/internal/canvas"
	"tessera/internal/canvas/minimap"
	"tessera/internal/canvas/viewport"
	models "tessera/internal/domain/models/canvas"
)

// View is a snapshot of what the canvas should currently show
type View struct {
	WorkspaceID    string
	Viewport       canvas.Viewport
	Bounds         canvas.Rect
	Elements       []models.Element // render set, gesture previews applied
	Total          int
	Highlighted    string
	PanningEnabled bool
	EditMode       bool
	Dragging       string
	Resizing       string
}

// View returns the current render snapshot. Returned elements are copies.
func (s *Session) View() (View, error) {
	var v View
	err := s.Do(func() { v = s.snapshot() })
	return v, err
}

func (s *Session) snapshot() View {
	vp := s.view.Viewport()
	all := s.withPreviews(s.elements.Elements())
	dragging := s.drag.Active() || s.resize.Active()

	return View{
		WorkspaceID:    s.workspaceID,
		Viewport:       vp,
		Bounds:         s.bounds.Compute(vp, all, dragging),
		Elements:       s.virtualizer.Select(all, vp, s.editMode, s.panning),
		Total:          len(all),
		Highlighted:    s.view.Highlighted(),
		PanningEnabled: s.view.PanningEnabled(),
		EditMode:       s.editMode,
		Dragging:       s.drag.ElementID(),
		Resizing:       s.resize.ElementID(),
	}
}

func (s *Session) withPreviews(elements []models.Element) []models.Element {
	out := make([]models.Element, len(elements))
	for i := range elements {
		el := elements[i].Clone()
		if g, ok := s.preview[el.ID]; ok {
			pos, dims := g.Position, g.Dimensions
			el.Position = &pos
			el.Dimensions = &dims
		}
		out[i] = *el
	}
	return out
}

// MinimapNavigate recentres the viewport on the canvas point under a click
// in a width × height minimap
func (s *Session) MinimapNavigate(pixel canvas.Point, width, height float64) error {
	return s.Do(func() {
		snap := s.snapshot()
		m := minimap.New(snap.Bounds, width, height)
		t := m.Navigate(pixel, snap.Viewport)
		s.view.TransformChanged(viewport.Transform{X: t.X, Y: t.Y, Scale: snap.Viewport.SafeScale()})
	})
}

// MinimapViewportBox returns the visible region drawn on a width × height minimap
func (s *Session) MinimapViewportBox(width, height float64) (canvas.Rect, error) {
	var box canvas.Rect
	err := s.Do(func() {
		snap := s.snapshot()
		box = minimap.New(snap.Bounds, width, height).ViewportBox(snap.Viewport)
	})
	return box, err
}
