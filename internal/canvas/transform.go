// Package canvas holds the pure geometry of the workspace canvas: screen/canvas
// conversion, world bounds, render virtualization and wrapper containment.
//
// The transform convention is screen = canvas*scale + translation. Nothing in this
// package returns an error: missing geometry is tolerated and a zero scale reads as 1.
package canvas

import "math"

// Point is a 2D coordinate; its space depends on context
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Center returns the rectangle's midpoint
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Intersects is the standard AABB overlap test; touching edges overlap
func (r Rect) Intersects(o Rect) bool {
	return !(r.Right() < o.Left || r.Left > o.Right() || r.Bottom() < o.Top || r.Top > o.Bottom())
}

// Contains reports whether o lies entirely within r, edges inclusive
func (r Rect) Contains(o Rect) bool {
	return o.Left >= r.Left && o.Top >= r.Top && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Expand grows the rectangle by pad on every side
func (r Rect) Expand(pad float64) Rect {
	return Rect{Left: r.Left - pad, Top: r.Top - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// Viewport is the pan/zoom state of the visible canvas.
// X and Y are the screen-space translation, Width and Height the pixel size.
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

// NewViewport returns an untranslated viewport at scale 1
func NewViewport(width, height float64) Viewport {
	return Viewport{Width: width, Height: height, Scale: 1}
}

// SafeScale returns the scale, or 1 when it is zero, negative or NaN
func (v Viewport) SafeScale() float64 {
	return safeScale(v.Scale)
}

func safeScale(s float64) float64 {
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return 1
	}
	return s
}

// ScreenToCanvas converts a screen point into canvas space
func ScreenToCanvas(v Viewport, p Point) Point {
	s := v.SafeScale()
	return Point{
		X: p.X/s - v.X/s,
		Y: p.Y/s - v.Y/s,
	}
}

// CanvasToScreen converts a canvas point into screen space
func CanvasToScreen(v Viewport, p Point) Point {
	s := v.SafeScale()
	return Point{
		X: p.X*s + v.X,
		Y: p.Y*s + v.Y,
	}
}

// VisibleRect is the canvas region currently shown by the viewport
func (v Viewport) VisibleRect() Rect {
	s := v.SafeScale()
	return Rect{
		Left:   -v.X / s,
		Top:    -v.Y / s,
		Width:  v.Width / s,
		Height: v.Height / s,
	}
}

// CenterOn returns the translation that maps canvas point center onto the
// screen point desired at targetScale.
func CenterOn(center Point, targetScale float64, desired Point) Point {
	s := safeScale(targetScale)
	return Point{
		X: -center.X*s + desired.X,
		Y: -center.Y*s + desired.Y,
	}
}

// ClampScale limits scale to [min, max]
func ClampScale(scale, min, max float64) float64 {
	scale = safeScale(scale)
	if scale < min {
		return min
	}
	if scale > max {
		return max
	}
	return scale
}

// ZoomAt returns the viewport after changing scale while keeping the canvas
// point under the screen anchor fixed.
func ZoomAt(v Viewport, anchor Point, newScale float64) Viewport {
	world := ScreenToCanvas(v, anchor)
	out := v
	out.Scale = safeScale(newScale)
	t := CenterOn(world, out.Scale, anchor)
	out.X, out.Y = t.X, t.Y
	return out
}
