// Package minimap maps between world bounds and a fixed-size overview
// rectangle, and turns clicks on that rectangle into viewport translations.
package minimap

import (
	"math"

	"tessera/internal/canvas"
)

// Mapper projects world bounds into a width × height pixel area, scaled
// uniformly and centred on the short axis
type Mapper struct {
	bounds  canvas.Rect
	width   float64
	height  float64
	scale   float64
	offsetX float64
	offsetY float64
}

// New creates a mapper. Degenerate bounds or sizes yield a scale of 1.
func New(bounds canvas.Rect, width, height float64) *Mapper {
	s := 1.0
	if bounds.Width > 0 && bounds.Height > 0 && width > 0 && height > 0 {
		s = math.Min(width/bounds.Width, height/bounds.Height)
	}
	return &Mapper{
		bounds:  bounds,
		width:   width,
		height:  height,
		scale:   s,
		offsetX: (width - bounds.Width*s) / 2,
		offsetY: (height - bounds.Height*s) / 2,
	}
}

// Scale returns the canvas-to-pixel factor
func (m *Mapper) Scale() float64 {
	return m.scale
}

// Bounds returns the world bounds being mapped
func (m *Mapper) Bounds() canvas.Rect {
	return m.bounds
}

func (m *Mapper) CanvasToMinimap(p canvas.Point) canvas.Point {
	return canvas.Point{
		X: (p.X-m.bounds.Left)*m.scale + m.offsetX,
		Y: (p.Y-m.bounds.Top)*m.scale + m.offsetY,
	}
}

func (m *Mapper) MinimapToCanvas(p canvas.Point) canvas.Point {
	return canvas.Point{
		X: (p.X-m.offsetX)/m.scale + m.bounds.Left,
		Y: (p.Y-m.offsetY)/m.scale + m.bounds.Top,
	}
}

// RectToMinimap projects a canvas rectangle
func (m *Mapper) RectToMinimap(r canvas.Rect) canvas.Rect {
	tl := m.CanvasToMinimap(canvas.Point{X: r.Left, Y: r.Top})
	return canvas.Rect{Left: tl.X, Top: tl.Y, Width: r.Width * m.scale, Height: r.Height * m.scale}
}

// ViewportBox is the visible canvas region drawn on the minimap
func (m *Mapper) ViewportBox(v canvas.Viewport) canvas.Rect {
	return m.RectToMinimap(v.VisibleRect())
}

// Navigate recentres v on the canvas point under pixel, keeping the visible
// region inside the bounds. It returns the new translation at v's scale.
func (m *Mapper) Navigate(pixel canvas.Point, v canvas.Viewport) canvas.Point {
	s := v.SafeScale()
	target := m.MinimapToCanvas(pixel)
	visW, visH := v.Width/s, v.Height/s

	left := clampAxis(target.X-visW/2, visW, m.bounds.Left, m.bounds.Width)
	top := clampAxis(target.Y-visH/2, visH, m.bounds.Top, m.bounds.Height)

	return canvas.Point{X: -left * s, Y: -top * s}
}

// clampAxis keeps [start, start+size] inside [lo, lo+extent], centring it
// when it does not fit
func clampAxis(start, size, lo, extent float64) float64 {
	if size >= extent {
		return lo + (extent-size)/2
	}
	return math.Max(lo, math.Min(start, lo+extent-size))
}
