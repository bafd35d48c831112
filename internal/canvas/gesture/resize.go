package gesture

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"tessera/internal/canvas"
	"tessera/internal/canvas/eventbus"
	models "tessera/internal/domain/models/canvas"
)

// Handle is the grip a resize is driven from
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// ParseHandle validates a handle name
func ParseHandle(s string) (Handle, error) {
	switch h := Handle(strings.ToLower(s)); h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return h, nil
	default:
		return "", fmt.Errorf("unknown resize handle %q", s)
	}
}

func (h Handle) north() bool { return strings.Contains(string(h), "n") }
func (h Handle) south() bool { return strings.Contains(string(h), "s") }
func (h Handle) east() bool  { return strings.Contains(string(h), "e") }
func (h Handle) west() bool  { return strings.Contains(string(h), "w") }

// MinSizeFunc returns the floor dimensions for an element type
type MinSizeFunc func(models.ElementType) models.Dimensions

type resizeSession struct {
	elementID    string
	handle       Handle
	startPointer canvas.Point
	start        Geometry
	min          models.Dimensions
	scale        float64
}

// ResizeController resizes one element at a time from one of eight handles.
// Resizing from the north or west keeps the opposite edge fixed.
// Not safe for concurrent use.
type ResizeController struct {
	pan     PanSuppressor
	minSize MinSizeFunc
	logger  *slog.Logger

	session *resizeSession
}

// NewResizeController creates a resize controller. minSize supplies the
// per-type floors; nil uses the settings' wrapper minimum for every type.
func NewResizeController(pan PanSuppressor, settings canvas.Settings, minSize MinSizeFunc, logger *slog.Logger) *ResizeController {
	if minSize == nil {
		floor := models.Dimensions{Width: settings.WrapperMinWidth, Height: settings.WrapperMinHeight}
		minSize = func(models.ElementType) models.Dimensions { return floor }
	}
	return &ResizeController{
		pan:     pan,
		minSize: minSize,
		logger:  logger,
	}
}

// Start begins resizing el from handle
func (r *ResizeController) Start(el *models.Element, handle Handle, pointer canvas.Point, scale float64, editMode bool) bool {
	if !editMode || el == nil || !el.HasGeometry() || r.session != nil {
		return false
	}
	if _, err := ParseHandle(string(handle)); err != nil {
		return false
	}

	r.session = &resizeSession{
		elementID:    el.ID,
		handle:       handle,
		startPointer: pointer,
		start:        Geometry{Position: *el.Position, Dimensions: *el.Dimensions},
		min:          r.minSize(el.Type),
		scale:        safeScale(scale),
	}
	r.pan.SuppressPanning(eventbus.ReasonResize)

	r.logger.Debug("resize started", "element_id", el.ID, "handle", string(handle))
	return true
}

// Active reports whether a resize is in progress
func (r *ResizeController) Active() bool {
	return r.session != nil
}

// ElementID returns the element being resized, if any
func (r *ResizeController) ElementID() string {
	if r.session == nil {
		return ""
	}
	return r.session.elementID
}

// Move returns the preview geometry for pointer
func (r *ResizeController) Move(pointer canvas.Point) (Geometry, bool) {
	if r.session == nil {
		return Geometry{}, false
	}
	r.pan.SuppressPanning(eventbus.ReasonResize)
	return r.geometry(pointer), true
}

// End finishes the resize and returns the single update to emit, with wrapper
// children recomputed from the final geometry. Returns false if the element
// vanished.
func (r *ResizeController) End(pointer canvas.Point, elements []models.Element) (*models.Element, bool) {
	if r.session == nil {
		return nil, false
	}
	final := r.geometry(pointer)
	id := r.session.elementID
	r.session = nil
	r.pan.ReleasePanning(eventbus.ReasonResize)

	current := findElement(elements, id)
	if current == nil {
		r.logger.Debug("resize target gone, dropping update", "element_id", id)
		return nil, false
	}

	updated := current.Clone()
	pos := final.Position
	if updated.Position != nil {
		pos.Z = updated.Position.Z
	}
	dims := final.Dimensions
	updated.Position = &pos
	updated.Dimensions = &dims
	canvas.RecomputeWrapper(updated, elements)

	r.logger.Debug("resize ended",
		"element_id", id,
		"width", dims.Width,
		"height", dims.Height,
	)
	return updated, true
}

// Cancel abandons the resize without an update
func (r *ResizeController) Cancel() {
	if r.session == nil {
		return
	}
	r.session = nil
	r.pan.ReleasePanning(eventbus.ReasonResize)
}

func (r *ResizeController) geometry(pointer canvas.Point) Geometry {
	s := r.session
	dx := (pointer.X - s.startPointer.X) / s.scale
	dy := (pointer.Y - s.startPointer.Y) / s.scale
	return Resize(s.start, s.handle, dx, dy, s.min)
}

// Resize applies canvas-space deltas for handle to start, never shrinking
// below min.
func Resize(start Geometry, handle Handle, dx, dy float64, min models.Dimensions) Geometry {
	g := start
	sw, sh := start.Dimensions.Width, start.Dimensions.Height

	if handle.east() {
		g.Dimensions.Width = math.Max(min.Width, sw+dx)
	}
	if handle.west() {
		g.Dimensions.Width = math.Max(min.Width, sw-dx)
		g.Position.X = start.Position.X + (sw - g.Dimensions.Width)
	}
	if handle.south() {
		g.Dimensions.Height = math.Max(min.Height, sh+dy)
	}
	if handle.north() {
		g.Dimensions.Height = math.Max(min.Height, sh-dy)
		g.Position.Y = start.Position.Y + (sh - g.Dimensions.Height)
	}
	return g
}
