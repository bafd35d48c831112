// Package gesture implements the pointer-driven drag and resize state machines.
//
// Both controllers convert raw pointer deltas into canvas units with the scale
// captured when the gesture started, and always measure from the gesture start
// rather than from the previous event, so a dropped move event is harmless.
package gesture

import (
	"tessera/internal/canvas/eventbus"
	models "tessera/internal/domain/models/canvas"
)

// PanSuppressor switches canvas panning off and on for a reason
type PanSuppressor interface {
	SuppressPanning(reason eventbus.PanReason)
	ReleasePanning(reason eventbus.PanReason)
}

// Geometry is an element's position and size during a gesture
type Geometry struct {
	Position   models.Position
	Dimensions models.Dimensions
}

func findElement(elements []models.Element, id string) *models.Element {
	for i := range elements {
		if elements[i].ID == id {
			return &elements[i]
		}
	}
	return nil
}

func safeScale(s float64) float64 {
	if s <= 0 || s != s {
		return 1
	}
	return s
}
