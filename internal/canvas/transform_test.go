package canvas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreenCanvasRoundTrip(t *testing.T) {
	viewports := []Viewport{
		{X: 0, Y: 0, Width: 1280, Height: 720, Scale: 1},
		{X: -340, Y: 125.5, Width: 1920, Height: 1080, Scale: 2},
		{X: 8000, Y: -12000, Width: 800, Height: 600, Scale: 0.1},
		{X: 13.25, Y: -7.75, Width: 1024, Height: 768, Scale: 4.75},
	}
	points := []Point{{0, 0}, {100, -250}, {-19999.5, 20000}, {0.001, 123456.789}}

	for _, v := range viewports {
		for _, p := range points {
			got := ScreenToCanvas(v, CanvasToScreen(v, p))
			assert.InDelta(t, p.X, got.X, 1e-6, "viewport %+v point %+v", v, p)
			assert.InDelta(t, p.Y, got.Y, 1e-6, "viewport %+v point %+v", v, p)
		}
	}
}

func TestScreenToCanvas(t *testing.T) {
	v := Viewport{X: 100, Y: 50, Scale: 2}
	got := ScreenToCanvas(v, Point{X: 300, Y: 250})
	assert.Equal(t, Point{X: 100, Y: 100}, got)
}

func TestZeroScaleReadsAsOne(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
	}{
		{"zero", 0},
		{"negative", -2},
		{"nan", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Viewport{X: 10, Y: 20, Scale: tt.scale}
			got := ScreenToCanvas(v, Point{X: 110, Y: 220})
			assert.Equal(t, Point{X: 100, Y: 200}, got)
			assert.Equal(t, 1.0, v.SafeScale())
		})
	}
}

func TestCenterOnMapsCenterToDesiredScreenPoint(t *testing.T) {
	center := Point{X: 450, Y: -120}
	desired := Point{X: 960, Y: 621}
	t0 := CenterOn(center, 0.375, desired)

	v := Viewport{X: t0.X, Y: t0.Y, Scale: 0.375}
	got := CanvasToScreen(v, center)
	assert.InDelta(t, desired.X, got.X, 1e-9)
	assert.InDelta(t, desired.Y, got.Y, 1e-9)
}

func TestVisibleRect(t *testing.T) {
	v := Viewport{X: -200, Y: 100, Width: 800, Height: 600, Scale: 2}
	assert.Equal(t, Rect{Left: 100, Top: -50, Width: 400, Height: 300}, v.VisibleRect())
}

func TestZoomAtKeepsAnchorFixed(t *testing.T) {
	v := Viewport{X: 40, Y: -60, Width: 800, Height: 600, Scale: 1}
	anchor := Point{X: 400, Y: 300}
	before := ScreenToCanvas(v, anchor)

	zoomed := ZoomAt(v, anchor, 2.5)
	after := ScreenToCanvas(zoomed, anchor)

	assert.Equal(t, 2.5, zoomed.Scale)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestClampScale(t *testing.T) {
	assert.Equal(t, 0.1, ClampScale(0.01, 0.1, 5))
	assert.Equal(t, 5.0, ClampScale(12, 0.1, 5))
	assert.Equal(t, 1.5, ClampScale(1.5, 0.1, 5))
	assert.Equal(t, 1.0, ClampScale(0, 0.1, 5))
}

func TestRectIntersectsAndContains(t *testing.T) {
	a := Rect{Left: 0, Top: 0, Width: 100, Height: 100}

	assert.True(t, a.Intersects(Rect{Left: 100, Top: 100, Width: 10, Height: 10}), "touching corners overlap")
	assert.False(t, a.Intersects(Rect{Left: 100.5, Top: 0, Width: 10, Height: 10}))
	assert.True(t, a.Contains(a))
	assert.False(t, a.Contains(Rect{Left: -1, Top: 0, Width: 10, Height: 10}))
}
