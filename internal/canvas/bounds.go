package canvas

import (
	"math"

	models "tessera/internal/domain/models/canvas"
)

// BoundsCalculator derives the world rectangle the canvas surface spans.
//
// The last result computed outside a drag is kept and returned verbatim while a
// drag is in progress, so the surface does not grow under the pointer as the
// dragged element moves. Not safe for concurrent use.
type BoundsCalculator struct {
	padding   float64
	minExtent float64
	frozen    *Rect
}

// NewBoundsCalculator creates a calculator using the settings' padding and extent
func NewBoundsCalculator(s Settings) *BoundsCalculator {
	return &BoundsCalculator{
		padding:   s.BoundsPadding,
		minExtent: s.MinCanvasExtent,
	}
}

// Compute returns the world bounds for the viewport and elements
func (b *BoundsCalculator) Compute(v Viewport, elements []models.Element, dragging bool) Rect {
	if dragging && b.frozen != nil {
		return *b.frozen
	}

	visible := v.VisibleRect().Expand(b.padding)

	minX := math.Min(0, visible.Left)
	minY := math.Min(0, visible.Top)
	maxX := math.Max(0, visible.Right())
	maxY := math.Max(0, visible.Bottom())

	for i := range elements {
		box, ok := ElementRect(&elements[i])
		if !ok {
			continue
		}
		box = box.Expand(b.padding)
		minX = math.Min(minX, box.Left)
		minY = math.Min(minY, box.Top)
		maxX = math.Max(maxX, box.Right())
		maxY = math.Max(maxY, box.Bottom())
	}

	minX = math.Min(minX, -b.minExtent)
	minY = math.Min(minY, -b.minExtent)
	maxX = math.Max(maxX, b.minExtent)
	maxY = math.Max(maxY, b.minExtent)

	bounds := Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
	if !dragging {
		b.frozen = &bounds
	}
	return bounds
}

// Frozen returns the last bounds computed outside a drag
func (b *BoundsCalculator) Frozen() (Rect, bool) {
	if b.frozen == nil {
		return Rect{}, false
	}
	return *b.frozen, true
}

// Reset drops the frozen value, e.g. on workspace switch
func (b *BoundsCalculator) Reset() {
	b.frozen = nil
}

// ElementRect returns the element's box in canvas space
func ElementRect(e *models.Element) (Rect, bool) {
	if !e.HasGeometry() {
		return Rect{}, false
	}
	return Rect{
		Left:   e.Position.X,
		Top:    e.Position.Y,
		Width:  e.Dimensions.Width,
		Height: e.Dimensions.Height,
	}, true
}
