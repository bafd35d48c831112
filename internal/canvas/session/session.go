// Package session composes the canvas engine for one open workspace.
//
// All controller state lives on a single event-loop goroutine started by Run.
// Exported methods post work onto that loop and wait for it, timers are
// delivered onto the loop through an executor clock, and persistence calls run
// in their own goroutines and post their results back. Nothing outside the
// loop touches controller state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"tessera/internal/canvas"
	"tessera/internal/canvas/clock"
	"tessera/internal/canvas/debounce"
	"tessera/internal/canvas/eventbus"
	"tessera/internal/canvas/gesture"
	"tessera/internal/canvas/reconcile"
	"tessera/internal/canvas/viewport"
	models "tessera/internal/domain/models/canvas"
)

var ErrClosed = errors.New("session closed")

// ElementAPI persists element changes
type ElementAPI interface {
	Create(ctx context.Context, workspaceID string, draft models.Element) (*models.Element, error)
	Update(ctx context.Context, el models.Element) (*models.Element, error)
	Delete(ctx context.Context, elementID string) error
}

// CursorSink broadcasts the local pointer in canvas coordinates
type CursorSink interface {
	UpdateCursor(ctx context.Context, x, y float64) error
}

// Notifier surfaces transient, user-visible failures
type Notifier interface {
	Notify(message string, err error)
}

// Options configures a Session
type Options struct {
	WorkspaceID string
	Settings    canvas.Settings
	// Clock defaults to the system clock
	Clock    clock.Clock
	API      ElementAPI
	Cursor   CursorSink
	Notifier Notifier
	// MinSize supplies resize floors per element type
	MinSize gesture.MinSizeFunc
	// Resizable and EditableText gate resizing and in-place text edits per
	// element type. Nil allows every type.
	Resizable     func(models.ElementType) bool
	EditableText  func(models.ElementType) bool
	ClearDeepLink func(elementID string)
	Logger        *slog.Logger
}

// Session is one workspace open in the engine
type Session struct {
	settings canvas.Settings
	api      ElementAPI
	cursor   CursorSink
	notifier Notifier
	logger   *slog.Logger

	resizable    func(models.ElementType) bool
	editableText func(models.ElementType) bool

	events chan func()
	done   chan struct{}
	ctx    context.Context
	wg     sync.WaitGroup

	clock       clock.Clock
	bus         *eventbus.Bus
	view        *viewport.Controller
	bounds      *canvas.BoundsCalculator
	virtualizer *canvas.Virtualizer
	drag        *gesture.DragController
	resize      *gesture.ResizeController
	elements    *reconcile.Reconciler
	content     *debounce.Keyed[string, string]
	limiter     *rate.Limiter

	workspaceID  string
	editMode     bool
	panning      bool
	preview      map[string]gesture.Geometry
	deletedTemps map[string]struct{}
	pendingLink  string
}

// New wires a session. Call Run to start its loop.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("workspace_id", opts.WorkspaceID)
	base := opts.Clock
	if base == nil {
		base = clock.System()
	}

	s := &Session{
		settings:     opts.Settings,
		api:          opts.API,
		cursor:       opts.Cursor,
		notifier:     opts.Notifier,
		logger:       logger,
		resizable:    opts.Resizable,
		editableText: opts.EditableText,
		events:       make(chan func(), 256),
		done:         make(chan struct{}),
		ctx:          context.Background(),
		bus:          eventbus.New(),
		bounds:       canvas.NewBoundsCalculator(opts.Settings),
		virtualizer:  canvas.NewVirtualizer(opts.Settings),
		elements:     reconcile.New(logger),
		limiter:      rate.NewLimiter(rate.Every(opts.Settings.CursorInterval), 1),
		workspaceID:  opts.WorkspaceID,
		preview:      make(map[string]gesture.Geometry),
		deletedTemps: make(map[string]struct{}),
	}
	s.clock = clock.WithExecutor(base, s.post)

	s.view = viewport.New(viewport.Options{
		Settings:      opts.Settings,
		Clock:         s.clock,
		Bus:           s.bus,
		Elements:      s.elements.Elements,
		ClearDeepLink: opts.ClearDeepLink,
		Logger:        logger,
	})
	s.view.SwitchWorkspace(opts.WorkspaceID)
	s.drag = gesture.NewDragController(s.bus, s.clock, opts.Settings.PanReenableDelay, logger)
	s.resize = gesture.NewResizeController(s.bus, opts.Settings, opts.MinSize, logger)
	s.content = debounce.NewKeyed(s.clock, opts.Settings.ContentDebounce, s.persistContent)
	return s
}

// Run processes events until ctx is cancelled, then cancels every timer and
// waits for in-flight persistence calls.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.ctx = ctx

	s.logger.Info("canvas session started")
	for {
		select {
		case <-ctx.Done():
			s.teardown()
			close(s.done)
			cancel()
			s.wg.Wait()
			s.logger.Info("canvas session stopped")
			return ctx.Err()
		case fn := <-s.events:
			fn()
		}
	}
}

// Do runs fn on the session loop and waits for it to finish
func (s *Session) Do(fn func()) error {
	ran := make(chan struct{})
	select {
	case s.events <- func() { fn(); close(ran) }:
	case <-s.done:
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// post queues fn without waiting; dropped once the session has stopped
func (s *Session) post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

func (s *Session) teardown() {
	s.drag.Teardown()
	s.resize.Cancel()
	s.view.Teardown()
	s.content.Stop()
	clear(s.preview)
}

// background runs fn off the loop, tracked so Run can wait for it
func (s *Session) background(fn func(ctx context.Context)) {
	s.wg.Add(1)
	ctx := s.ctx
	go func() {
		defer s.wg.Done()
		fn(ctx)
	}()
}

func (s *Session) notify(message string, err error) {
	s.logger.Warn(message, "error", err)
	if s.notifier != nil {
		s.notifier.Notify(message, err)
	}
}
