package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/internal/canvas"
	"tessera/internal/canvas/clock"
	"tessera/internal/canvas/viewport"
	models "tessera/internal/domain/models/canvas"
)

type fakeAPI struct {
	mu        sync.Mutex
	creates   []models.Element
	updates   []models.Element
	deletes   []string
	createErr error
	updateErr error
	hold      chan struct{}
	nextID    int
}

func (f *fakeAPI) Create(ctx context.Context, workspaceID string, draft models.Element) (*models.Element, error) {
	if f.hold != nil {
		<-f.hold
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, draft)
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	el := *draft.Clone()
	el.ID = fmt.Sprintf("srv-%d", f.nextID)
	el.WorkspaceID = workspaceID
	return &el, nil
}

func (f *fakeAPI) Update(ctx context.Context, el models.Element) (*models.Element, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, el)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &el, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeAPI) snapshot() (creates, updates []models.Element, deletes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Element(nil), f.creates...),
		append([]models.Element(nil), f.updates...),
		append([]string(nil), f.deletes...)
}

type fakeCursor struct {
	mu     sync.Mutex
	points []canvas.Point
}

func (f *fakeCursor) UpdateCursor(ctx context.Context, x, y float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points = append(f.points, canvas.Point{X: x, Y: y})
	return nil
}

func (f *fakeCursor) sent() []canvas.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]canvas.Point(nil), f.points...)
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Notify(message string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

type harness struct {
	s        *Session
	clock    *clock.Manual
	api      *fakeAPI
	cursor   *fakeCursor
	notifier *fakeNotifier

	mu      sync.Mutex
	cleared []string
}

func newHarness(t *testing.T, configure ...func(*Options)) *harness {
	t.Helper()
	h := &harness{
		clock:    clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		api:      &fakeAPI{},
		cursor:   &fakeCursor{},
		notifier: &fakeNotifier{},
	}
	opts := Options{
		WorkspaceID: "ws-1",
		Settings:    canvas.DefaultSettings(),
		Clock:       h.clock,
		API:         h.api,
		Cursor:      h.cursor,
		Notifier:    h.notifier,
		ClearDeepLink: func(id string) {
			h.mu.Lock()
			h.cleared = append(h.cleared, id)
			h.mu.Unlock()
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range configure {
		fn(&opts)
	}
	h.s = New(opts)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = h.s.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	require.NoError(t, h.s.Resize(1000, 800))
	return h
}

// advance moves the clock and waits for the delivered callbacks to run
func (h *harness) advance(t *testing.T, d time.Duration) {
	t.Helper()
	h.clock.Advance(d)
	require.NoError(t, h.s.Do(func() {}))
}

func (h *harness) view(t *testing.T) View {
	t.Helper()
	v, err := h.s.View()
	require.NoError(t, err)
	return v
}

func find(v View, id string) *models.Element {
	for i := range v.Elements {
		if v.Elements[i].ID == id {
			return &v.Elements[i]
		}
	}
	return nil
}

func box(id string, typ models.ElementType, x, y, w, h float64) models.Element {
	return models.Element{
		ID:          id,
		WorkspaceID: "ws-1",
		Type:        typ,
		Position:    &models.Position{X: x, Y: y},
		Dimensions:  &models.Dimensions{Width: w, Height: h},
		Content:     map[string]interface{}{models.ContentHTMLKey: "<p>" + id + "</p>"},
	}
}

func wrapperScenario() []models.Element {
	w := box("w", models.TypeWrapper, -10, -10, 200, 200)
	w.SetChildElementIDs([]string{"a"})
	return []models.Element{box("a", models.TypeCard, 0, 0, 100, 100), w}
}

func TestDragWrapperAwayFromChild(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))
	require.NoError(t, h.s.SetEditMode(true))

	started, err := h.s.BeginDrag("w", canvas.Point{X: 0, Y: 0})
	require.NoError(t, err)
	require.True(t, started)

	require.NoError(t, h.s.PointerMove(canvas.Point{X: 255, Y: 255}))
	v := h.view(t)
	assert.Equal(t, "w", v.Dragging)
	assert.False(t, v.PanningEnabled)
	assert.Equal(t, 245.0, find(v, "w").Position.X, "preview applied")

	require.NoError(t, h.s.PointerUp(canvas.Point{X: 510, Y: 510}))
	v = h.view(t)
	w := find(v, "w")
	assert.Equal(t, models.Position{X: 500, Y: 500}, *w.Position)
	assert.Equal(t, []string{}, w.ChildElementIDs())
	assert.False(t, v.PanningEnabled, "re-enable waits for the delay")

	require.Eventually(t, func() bool {
		_, updates, _ := h.api.snapshot()
		return len(updates) == 1
	}, time.Second, time.Millisecond)
	_, updates, _ := h.api.snapshot()
	assert.Equal(t, "w", updates[0].ID)
	assert.Equal(t, []string{}, updates[0].ChildElementIDs())

	h.advance(t, 50*time.Millisecond)
	assert.True(t, h.view(t).PanningEnabled)
}

func TestBoundsStayFrozenWhileDragging(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))
	require.NoError(t, h.s.SetEditMode(true))

	started, err := h.s.BeginDrag("a", canvas.Point{})
	require.NoError(t, err)
	require.True(t, started)

	require.NoError(t, h.s.PointerMove(canvas.Point{X: 50000, Y: 0}))
	first := h.view(t).Bounds
	require.NoError(t, h.s.PointerMove(canvas.Point{X: 90000, Y: 0}))
	second := h.view(t).Bounds

	assert.Equal(t, first, second)
	assert.Less(t, first.Left+first.Width, 50000.0, "preview position is outside the frozen world")

	require.NoError(t, h.s.PointerUp(canvas.Point{X: 90000, Y: 0}))
	assert.Greater(t, h.view(t).Bounds.Width, second.Width, "bounds follow the committed position")
}

func TestTypeRulesGateResizeAndTextEdits(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Resizable = func(t models.ElementType) bool { return t != models.TypeCard }
		o.EditableText = func(t models.ElementType) bool { return t == models.TypeCard }
	})
	require.NoError(t, h.s.Load(wrapperScenario()))
	require.NoError(t, h.s.SetEditMode(true))

	started, err := h.s.BeginResize("a", "se", canvas.Point{X: 100, Y: 100})
	require.NoError(t, err)
	assert.False(t, started, "cards are not resizable here")

	started, err = h.s.BeginResize("w", "se", canvas.Point{X: 190, Y: 190})
	require.NoError(t, err)
	assert.True(t, started)
	require.NoError(t, h.s.CancelGesture())

	require.NoError(t, h.s.EditContent("w", "<p>nope</p>"))
	require.NoError(t, h.s.EditContent("a", "<p>yes</p>"))
	v := h.view(t)
	assert.Equal(t, "<p>yes</p>", find(v, "a").HTML())
	assert.Equal(t, "<p>w</p>", find(v, "w").HTML())
}

func TestDragRefusedInViewMode(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))

	started, err := h.s.BeginDrag("a", canvas.Point{})
	require.NoError(t, err)
	assert.False(t, started)

	started, _ = h.s.BeginDrag("missing", canvas.Point{})
	assert.False(t, started)
}

func TestViewModeHidesWrappers(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))

	assert.Nil(t, find(h.view(t), "w"))
	require.NoError(t, h.s.SetEditMode(true))
	assert.NotNil(t, find(h.view(t), "w"))
}

func TestResizeWithFloor(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))
	require.NoError(t, h.s.SetEditMode(true))

	started, err := h.s.BeginResize("w", "w", canvas.Point{X: -10, Y: 50})
	require.NoError(t, err)
	require.True(t, started)
	require.NoError(t, h.s.PointerUp(canvas.Point{X: 5000, Y: 50}))

	w := find(h.view(t), "w")
	assert.Equal(t, 200.0, w.Dimensions.Width)
	assert.Equal(t, 190.0, w.Position.X+w.Dimensions.Width)
	assert.True(t, h.view(t).PanningEnabled)
}

func TestCursorIsThrottledAndInCanvasSpace(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.TransformChanged(viewport.Transform{X: 100, Y: 0, Scale: 2}))
	h.advance(t, 16*time.Millisecond)

	require.NoError(t, h.s.PointerMove(canvas.Point{X: 300, Y: 40}))
	require.NoError(t, h.s.PointerMove(canvas.Point{X: 310, Y: 40}))
	h.advance(t, 20*time.Millisecond)
	require.NoError(t, h.s.PointerMove(canvas.Point{X: 320, Y: 40}))

	require.Eventually(t, func() bool { return len(h.cursor.sent()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, canvas.Point{X: 100, Y: 20}, h.cursor.sent()[0])

	h.advance(t, 50*time.Millisecond)
	require.NoError(t, h.s.PointerMove(canvas.Point{X: 500, Y: 40}))
	require.Eventually(t, func() bool { return len(h.cursor.sent()) == 2 }, time.Second, time.Millisecond)
}

func TestOptimisticCreateResolves(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.SetEditMode(true))

	tempID, err := h.s.CreateElement(box("", models.TypeStickyNote, 0, 0, 10, 10))
	require.NoError(t, err)
	assert.True(t, models.IsTempID(tempID))

	require.Eventually(t, func() bool {
		v := h.view(t)
		return find(v, "srv-1") != nil && find(v, tempID) == nil
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, h.view(t).Total)
}

func TestCreateFailureNotifiesAndKeepsEntry(t *testing.T) {
	h := newHarness(t)
	h.api.createErr = errors.New("boom")

	tempID, err := h.s.CreateElement(box("", models.TypeCard, 0, 0, 10, 10))
	require.NoError(t, err)

	require.Eventually(t, func() bool { return h.notifier.count() == 1 }, time.Second, time.Millisecond)
	assert.NotNil(t, find(h.view(t), tempID))
}

func TestDeletingPendingCreateDeletesOnServer(t *testing.T) {
	h := newHarness(t)
	h.api.hold = make(chan struct{})

	tempID, err := h.s.CreateElement(box("", models.TypeCard, 0, 0, 10, 10))
	require.NoError(t, err)
	require.NoError(t, h.s.DeleteElement(tempID))
	close(h.api.hold)

	require.Eventually(t, func() bool {
		_, _, deletes := h.api.snapshot()
		return len(deletes) == 1 && deletes[0] == "srv-1"
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, h.view(t).Total)
}

func TestUpdateFailureIsNotRolledBack(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))
	h.api.updateErr = errors.New("offline")

	moved := box("a", models.TypeCard, 99, 0, 100, 100)
	require.NoError(t, h.s.UpdateElement(moved))

	require.Eventually(t, func() bool { return h.notifier.count() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, h.s.SetEditMode(true))
	assert.Equal(t, 99.0, find(h.view(t), "a").Position.X)
}

func TestContentEditsAreDebounced(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))

	require.NoError(t, h.s.EditContent("a", "<p>x</p>"))
	h.advance(t, 200*time.Millisecond)
	require.NoError(t, h.s.EditContent("a", "<p>xy</p>"))
	assert.Equal(t, "<p>xy</p>", find(h.view(t), "a").HTML(), "local copy updated at once")

	h.advance(t, 499*time.Millisecond)
	_, updates, _ := h.api.snapshot()
	assert.Empty(t, updates)

	h.advance(t, time.Millisecond)
	require.Eventually(t, func() bool {
		_, updates, _ := h.api.snapshot()
		return len(updates) == 1
	}, time.Second, time.Millisecond)
	_, updates, _ = h.api.snapshot()
	assert.Equal(t, "<p>xy</p>", updates[0].HTML())
}

func TestContentRevertedToPersistedValueIsNotSaved(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))

	require.NoError(t, h.s.EditContent("a", "<p>changed</p>"))
	h.advance(t, 100*time.Millisecond)
	require.NoError(t, h.s.EditContent("a", "<p>a</p>"))
	h.advance(t, time.Second)

	_, updates, _ := h.api.snapshot()
	assert.Empty(t, updates)
}

func TestRemoteEvents(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))
	require.NoError(t, h.s.SetEditMode(true))

	require.NoError(t, h.s.RemoteDeleted("missing"))
	require.NoError(t, h.s.RemoteDeleted("a"))
	require.NoError(t, h.s.RemoteDeleted("a"))
	require.NoError(t, h.s.RemoteCreated(box("b", models.TypeText, 1, 1, 1, 1)))
	require.NoError(t, h.s.RemoteUpdated(box("b", models.TypeText, 7, 1, 1, 1)))

	v := h.view(t)
	assert.Equal(t, 2, v.Total)
	assert.Nil(t, find(v, "a"))
	assert.Equal(t, 7.0, find(v, "b").Position.X)
}

func TestDeepLinkBeforeLoad(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.DeepLink("a"))
	h.advance(t, time.Second)
	assert.Equal(t, "", h.view(t).Highlighted)

	require.NoError(t, h.s.Load(wrapperScenario()))
	h.advance(t, 300*time.Millisecond)
	assert.Equal(t, "a", h.view(t).Highlighted)

	h.advance(t, 600*time.Millisecond)
	h.mu.Lock()
	assert.Equal(t, []string{"a"}, h.cleared)
	h.mu.Unlock()

	// handled once per workspace
	require.NoError(t, h.s.DeepLink("a"))
	h.advance(t, 3*time.Second)
	h.advance(t, time.Second)
	assert.Equal(t, "", h.view(t).Highlighted)
}

func TestSwitchWorkspaceResetsViewport(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.s.Load(wrapperScenario()))
	require.NoError(t, h.s.TransformChanged(viewport.Transform{X: 40, Y: 40, Scale: 3}))
	h.advance(t, 16*time.Millisecond)

	require.NoError(t, h.s.SwitchWorkspace("ws-2", []models.Element{box("z", models.TypeText, 0, 0, 1, 1)}))

	v := h.view(t)
	assert.Equal(t, "ws-2", v.WorkspaceID)
	assert.Equal(t, canvas.Viewport{Width: 1000, Height: 800, Scale: 1}, v.Viewport)
	assert.Equal(t, 1, v.Total)
}

func TestMinimapNavigate(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.s.MinimapNavigate(canvas.Point{X: 100, Y: 100}, 200, 200))
	h.advance(t, 16*time.Millisecond)

	vp := h.view(t).Viewport
	assert.InDelta(t, 500, vp.X, 1e-6)
	assert.InDelta(t, 400, vp.Y, 1e-6)

	mini, err := h.s.MinimapViewportBox(200, 200)
	require.NoError(t, err)
	assert.InDelta(t, 5, mini.Width, 1e-9)
}

func TestClosedSessionRejectsCalls(t *testing.T) {
	s := New(Options{Settings: canvas.DefaultSettings(), Clock: clock.NewManual(time.Now()), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)

	assert.ErrorIs(t, s.Resize(1, 1), ErrClosed)
	_, err := s.View()
	assert.ErrorIs(t, err, ErrClosed)
}
