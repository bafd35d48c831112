package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	models "tessera/internal/domain/models/canvas"
)

func farElements(n int) []models.Element {
	out := make([]models.Element, n)
	for i := range out {
		out[i] = box(fmt.Sprintf("far-%d", i), 100000+float64(i)*10, 100000, 50, 50)
	}
	return out
}

func TestVirtualizeBelowThresholdReturnsEverything(t *testing.T) {
	vz := NewVirtualizer(DefaultSettings())
	elements := farElements(49)

	got := vz.Select(elements, NewViewport(1280, 720), true, false)
	assert.Len(t, got, 49)
}

func TestVirtualizeCullsOffscreenAtThreshold(t *testing.T) {
	vz := NewVirtualizer(DefaultSettings())
	elements := farElements(50)

	got := vz.Select(elements, NewViewport(1280, 720), true, false)
	assert.Empty(t, got)
}

func TestVirtualizeKeepsVisibleAndPaddedElements(t *testing.T) {
	vz := NewVirtualizer(DefaultSettings())
	elements := farElements(60)
	elements = append(elements,
		box("onscreen", 100, 100, 50, 50),
		box("in-padding", 1280+1500, 0, 50, 50),
		box("just-outside", 1280+2001, 0, 50, 50),
		models.Element{ID: "no-geometry", Type: models.TypeText},
	)

	got := vz.Select(elements, NewViewport(1280, 720), true, false)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{"onscreen", "in-padding", "no-geometry"}, ids)
}

func TestVirtualizeSuspendedWhilePanning(t *testing.T) {
	vz := NewVirtualizer(DefaultSettings())
	elements := farElements(120)

	got := vz.Select(elements, NewViewport(1280, 720), true, true)
	assert.Len(t, got, 120)
}

func TestVirtualizeDropsWrappersOutsideEditMode(t *testing.T) {
	vz := NewVirtualizer(DefaultSettings())
	elements := []models.Element{
		box("a", 0, 0, 10, 10),
		wrapper("w", -10, -10, 300, 300),
		box("b", 20, 20, 10, 10),
	}

	viewing := vz.Select(elements, NewViewport(800, 600), false, false)
	assert.Len(t, viewing, 2)
	for _, e := range viewing {
		assert.NotEqual(t, models.TypeWrapper, e.Type)
	}

	editing := vz.Select(elements, NewViewport(800, 600), true, false)
	assert.Len(t, editing, 3)
}

func TestVirtualizeScalesPaddingRegionWithZoom(t *testing.T) {
	vz := NewVirtualizer(DefaultSettings())
	elements := farElements(55)
	elements = append(elements, box("zoomed-out-visible", 9000, 0, 50, 50))

	// scale 0.1 shows canvas 0..12800 horizontally
	got := vz.Select(elements, Viewport{Width: 1280, Height: 720, Scale: 0.1}, true, false)
	assert.Len(t, got, 1)
	assert.Equal(t, "zoomed-out-visible", got[0].ID)
}
