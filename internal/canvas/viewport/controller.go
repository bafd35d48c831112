// Package viewport owns the pan/zoom state of a canvas session: frame-batched
// transform updates, animated zoom-to-element with highlighting, the pan gate
// and URL deep links.
package viewport

import (
	"log/slog"
	"time"

	"tessera/internal/canvas"
	"tessera/internal/canvas/clock"
	"tessera/internal/canvas/eventbus"
	models "tessera/internal/domain/models/canvas"
)

// Transform is what the pan/zoom surface reports: translation and scale
type Transform struct {
	X     float64
	Y     float64
	Scale float64
}

// ZoomRequest asks the controller to frame an element.
// Element takes precedence over ElementID.
type ZoomRequest struct {
	Element   *models.Element
	ElementID string
	Instant   bool
}

// Options configures a Controller
type Options struct {
	Settings canvas.Settings
	Clock    clock.Clock
	// Bus is optional; when set the controller follows panning and
	// zoom-to-element events and publishes highlight changes.
	Bus *eventbus.Bus
	// Elements returns the current element array for ID lookups
	Elements func() []models.Element
	// OnChange is called after every applied viewport change
	OnChange func(canvas.Viewport)
	// ClearDeepLink removes the deep-link parameter once handled
	ClearDeepLink func(elementID string)
	Logger        *slog.Logger
}

type transition struct {
	from    Transform
	to      Transform
	started time.Time
	frame   clock.Timer
}

// Controller holds the viewport. Not safe for concurrent use; drive it from
// the session loop.
type Controller struct {
	settings canvas.Settings
	clock    clock.Clock
	frames   *clock.Frames
	bus      *eventbus.Bus
	elements func() []models.Element
	onChange func(canvas.Viewport)
	logger   *slog.Logger

	vp          canvas.Viewport
	workspaceID string
	transforms  *clock.LatestWins[Transform]
	transition  *transition
	highlightID string
	highlight   clock.Timer

	gate  *PanGate
	links *DeepLinker
	unsub []func()
}

// New creates a controller at the origin with scale 1
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	elements := opts.Elements
	if elements == nil {
		elements = func() []models.Element { return nil }
	}

	c := &Controller{
		settings: opts.Settings,
		clock:    opts.Clock,
		frames:   clock.NewFrames(opts.Clock, opts.Settings.FrameInterval),
		bus:      opts.Bus,
		elements: elements,
		onChange: opts.OnChange,
		logger:   logger,
		vp:       canvas.NewViewport(0, 0),
		gate:     NewPanGate(),
	}
	c.transforms = clock.NewLatestWins(c.frames, c.applyTransform)
	c.links = newDeepLinker(c, opts.ClearDeepLink)

	if c.bus != nil {
		c.unsub = append(c.unsub,
			c.gate.Attach(c.bus),
			c.bus.Subscribe(eventbus.TopicZoomToElement, func(e eventbus.Event) {
				if z, ok := e.(eventbus.ZoomToElement); ok {
					c.ZoomTo(ZoomRequest{Element: z.Element, ElementID: z.ElementID, Instant: z.Instant}, c.elements())
				}
			}),
		)
	}
	return c
}

// Viewport returns the current viewport
func (c *Controller) Viewport() canvas.Viewport {
	return c.vp
}

// Gate returns the pan gate
func (c *Controller) Gate() *PanGate {
	return c.gate
}

// DeepLinks returns the deep-link handler
func (c *Controller) DeepLinks() *DeepLinker {
	return c.links
}

// PanningEnabled reports whether no suppression reason is active
func (c *Controller) PanningEnabled() bool {
	return c.gate.Enabled()
}

// Highlighted returns the highlighted element ID, or ""
func (c *Controller) Highlighted() string {
	return c.highlightID
}

// Animating reports whether a smooth transition is running
func (c *Controller) Animating() bool {
	return c.transition != nil
}

// WorkspaceID returns the active workspace
func (c *Controller) WorkspaceID() string {
	return c.workspaceID
}

// Resize updates the pixel size and keeps translation and scale
func (c *Controller) Resize(width, height float64) {
	c.vp.Width = width
	c.vp.Height = height
	c.changed()
}

// TransformChanged queues a transform from the pan/zoom surface. At most one
// is applied per frame; a newer one replaces the queued one.
func (c *Controller) TransformChanged(t Transform) {
	c.transforms.Submit(t)
}

func (c *Controller) applyTransform(t Transform) {
	c.stopTransition()
	c.set(t)
}

// ZoomTo frames the requested element at the focus scale, offset so a side
// panel does not cover it, and highlights it. Unknown elements and elements
// without geometry are ignored.
func (c *Controller) ZoomTo(req ZoomRequest, elements []models.Element) bool {
	el := req.Element
	if el == nil && req.ElementID != "" {
		for i := range elements {
			if elements[i].ID == req.ElementID {
				el = &elements[i]
				break
			}
		}
	}
	if el == nil {
		c.logger.Debug("zoom target not found", "element_id", req.ElementID)
		return false
	}
	box, ok := canvas.ElementRect(el)
	if !ok {
		return false
	}

	target := c.FocusTransform(box)
	c.transforms.Cancel()
	c.stopTransition()

	if req.Instant || c.settings.TransitionDuration <= 0 {
		c.set(target)
	} else {
		c.startTransition(target)
	}
	c.setHighlight(el.ID)

	c.logger.Debug("zoom to element",
		"element_id", el.ID,
		"instant", req.Instant,
		"x", target.X,
		"y", target.Y,
	)
	return true
}

// FocusTransform returns the transform placing box's centre at the focus
// point of the current viewport size
func (c *Controller) FocusTransform(box canvas.Rect) Transform {
	scale := canvas.ClampScale(c.settings.FocusScale, c.settings.MinScale, c.settings.MaxScale)
	desired := canvas.Point{
		X: c.vp.Width*0.5 + c.vp.Width*c.settings.FocusOffsetX,
		Y: c.vp.Height*0.5 + c.vp.Height*c.settings.FocusOffsetY,
	}
	t := canvas.CenterOn(box.Center(), scale, desired)
	return Transform{X: t.X, Y: t.Y, Scale: scale}
}

// SwitchWorkspace resets the viewport to the origin and forgets handled deep links
func (c *Controller) SwitchWorkspace(workspaceID string) {
	c.transforms.Cancel()
	c.stopTransition()
	c.clearHighlight()
	c.links.reset()
	c.workspaceID = workspaceID
	c.set(Transform{X: 0, Y: 0, Scale: 1})
}

// Teardown cancels every pending timer and frame and detaches from the bus
func (c *Controller) Teardown() {
	c.transforms.Cancel()
	c.stopTransition()
	if c.highlight != nil {
		c.highlight.Stop()
		c.highlight = nil
	}
	c.links.stop()
	for _, fn := range c.unsub {
		fn()
	}
	c.unsub = nil
}

func (c *Controller) set(t Transform) {
	c.vp.X = t.X
	c.vp.Y = t.Y
	c.vp.Scale = canvas.ClampScale(t.Scale, c.settings.MinScale, c.settings.MaxScale)
	c.changed()
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange(c.vp)
	}
}

func (c *Controller) startTransition(to Transform) {
	tr := &transition{
		from:    Transform{X: c.vp.X, Y: c.vp.Y, Scale: c.vp.SafeScale()},
		to:      to,
		started: c.clock.Now(),
	}
	c.transition = tr
	tr.frame = c.frames.Request(func() { c.step(tr) })
}

func (c *Controller) step(tr *transition) {
	if c.transition != tr {
		return
	}
	p := float64(c.clock.Now().Sub(tr.started)) / float64(c.settings.TransitionDuration)
	if p >= 1 {
		c.transition = nil
		c.set(tr.to)
		return
	}
	k := easeInOutCubic(p)
	c.set(Transform{
		X:     lerp(tr.from.X, tr.to.X, k),
		Y:     lerp(tr.from.Y, tr.to.Y, k),
		Scale: lerp(tr.from.Scale, tr.to.Scale, k),
	})
	tr.frame = c.frames.Request(func() { c.step(tr) })
}

func (c *Controller) stopTransition() {
	if c.transition == nil {
		return
	}
	if c.transition.frame != nil {
		c.transition.frame.Stop()
	}
	c.transition = nil
}

func (c *Controller) setHighlight(id string) {
	if c.highlight != nil {
		c.highlight.Stop()
	}
	c.highlightID = id
	c.publishHighlight()
	c.highlight = c.clock.AfterFunc(c.settings.HighlightDuration, func() {
		c.highlight = nil
		c.highlightID = ""
		c.publishHighlight()
	})
}

func (c *Controller) clearHighlight() {
	if c.highlight != nil {
		c.highlight.Stop()
		c.highlight = nil
	}
	if c.highlightID != "" {
		c.highlightID = ""
		c.publishHighlight()
	}
}

func (c *Controller) publishHighlight() {
	if c.bus != nil {
		c.bus.Publish(eventbus.HighlightChanged{ElementID: c.highlightID})
	}
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	f := -2*t + 2
	return 1 - f*f*f/2
}
