package canvas

import models "tessera/internal/domain/models/canvas"

// Virtualizer selects the elements worth rendering for a viewport
type Virtualizer struct {
	threshold int
	padding   float64
}

func NewVirtualizer(s Settings) *Virtualizer {
	return &Virtualizer{
		threshold: s.VirtualizationThreshold,
		padding:   s.VirtualizationPadding,
	}
}

// Select returns the render set.
// Wrappers are dropped outside edit mode. Viewport culling is skipped while
// panning and below the threshold; elements without geometry are always kept.
func (vz *Virtualizer) Select(elements []models.Element, v Viewport, editMode, panning bool) []models.Element {
	filtered := elements
	if !editMode {
		filtered = make([]models.Element, 0, len(elements))
		for i := range elements {
			if !elements[i].IsWrapper() {
				filtered = append(filtered, elements[i])
			}
		}
	}

	if panning || len(filtered) < vz.threshold {
		return filtered
	}

	view := v.VisibleRect().Expand(vz.padding)
	visible := make([]models.Element, 0, len(filtered))
	for i := range filtered {
		box, ok := ElementRect(&filtered[i])
		if !ok || box.Intersects(view) {
			visible = append(visible, filtered[i])
		}
	}
	return visible
}
