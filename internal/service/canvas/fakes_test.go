package canvas

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tessera/internal/domain"
	models "tessera/internal/domain/models/canvas"
	"tessera/internal/domain/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memWorkspaces struct {
	mu   sync.Mutex
	rows map[string]models.Workspace
}

func newMemWorkspaces() *memWorkspaces {
	return &memWorkspaces{rows: make(map[string]models.Workspace)}
}

func (m *memWorkspaces) Create(_ context.Context, w *models.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = uuid.NewString()
	m.rows[w.ID] = *w
	return nil
}

func (m *memWorkspaces) GetByID(_ context.Context, id, ownerID string) (*models.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.rows[id]
	if !ok || w.OwnerID != ownerID {
		return nil, fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	return &w, nil
}

func (m *memWorkspaces) List(_ context.Context, ownerID string) ([]models.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Workspace{}
	for _, w := range m.rows {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memWorkspaces) Update(_ context.Context, w *models.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[w.ID]; !ok {
		return fmt.Errorf("workspace %s: %w", w.ID, domain.ErrNotFound)
	}
	m.rows[w.ID] = *w
	return nil
}

func (m *memWorkspaces) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.rows[id]
	if !ok || w.OwnerID != ownerID {
		return fmt.Errorf("workspace %s: %w", id, domain.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

type memElements struct {
	mu    sync.Mutex
	rows  map[string]models.Element
	order []string
}

func newMemElements() *memElements {
	return &memElements{rows: make(map[string]models.Element)}
}

func (m *memElements) Create(_ context.Context, e *models.Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.NewString()
	m.rows[e.ID] = *e.Clone()
	m.order = append(m.order, e.ID)
	return nil
}

func (m *memElements) GetByID(_ context.Context, id string) (*models.Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	return e.Clone(), nil
}

func (m *memElements) ListByWorkspace(_ context.Context, workspaceID string) ([]models.Element, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Element{}
	for _, id := range m.order {
		if e, ok := m.rows[id]; ok && e.WorkspaceID == workspaceID {
			out = append(out, *e.Clone())
		}
	}
	return out, nil
}

func (m *memElements) CountByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	all, _ := m.ListByWorkspace(ctx, workspaceID)
	return len(all), nil
}

func (m *memElements) Update(_ context.Context, e *models.Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[e.ID]; !ok {
		return fmt.Errorf("element %s: %w", e.ID, domain.ErrNotFound)
	}
	m.rows[e.ID] = *e.Clone()
	return nil
}

func (m *memElements) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("element %s: %w", id, domain.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

// put stores an element directly, bypassing service validation
func (m *memElements) put(e models.Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.rows[e.ID] = e
}

type passthroughTx struct{ calls int }

func (p *passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	p.calls++
	return fn(ctx)
}

type recordedBroadcast struct {
	event   models.Event
	exclude string
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedBroadcast
}

func (r *recordingBroadcaster) Broadcast(event *models.Event, excludeClientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedBroadcast{event: *event, exclude: excludeClientID})
}

func (r *recordingBroadcaster) all() []recordedBroadcast {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedBroadcast(nil), r.events...)
}
