package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/internal/canvas"
	models "tessera/internal/domain/models/canvas"
	serviceCanvas "tessera/internal/service/canvas"
)

func TestDemoLayout_Sections(t *testing.T) {
	layout := DemoLayout()
	elements := make([]models.Element, 0, len(layout))
	for i, req := range layout {
		el := models.Element{
			ID:         string(rune('a' + i)),
			Type:       req.Type,
			Position:   req.Position,
			Dimensions: req.Dimensions,
			Content:    req.Content,
		}
		if el.Dimensions == nil {
			el.Dimensions = &models.Dimensions{Width: 220, Height: 220}
		}
		elements = append(elements, el)
	}

	view := serviceCanvas.BuildPostView("demo", elements)
	require.Len(t, view.Sections, 2)
	assert.Equal(t, "Welcome to the canvas", view.Sections[0].Title)
	assert.Len(t, view.Sections[0].Elements, 4)
	assert.Equal(t, "Examples", view.Sections[1].Title)
	assert.Len(t, view.Sections[1].Elements, 3)

	sticky := elements[7]
	for _, w := range elements[8:] {
		assert.False(t, canvas.IsInside(&sticky, &w))
	}
}
