// Package reconcile keeps the local element array in step with optimistic
// local edits and remote collaborator events.
//
// Remote events always win by ID: there is no field merge, conflict detection
// or echo suppression. Applying the same object twice is harmless.
package reconcile

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	models "tessera/internal/domain/models/canvas"
)

var (
	// ErrUnknownTempID is returned when resolving a creation that is not pending
	ErrUnknownTempID = errors.New("unknown or already resolved temporary id")
)

// Reconciler owns an ordered element array keyed by ID.
// Not safe for concurrent use.
type Reconciler struct {
	elements []models.Element
	index    map[string]int
	pending  map[string]struct{}
	logger   *slog.Logger
}

func New(logger *slog.Logger) *Reconciler {
	return &Reconciler{
		index:   make(map[string]int),
		pending: make(map[string]struct{}),
		logger:  logger,
	}
}

// Load replaces the array with a freshly fetched element set
func (r *Reconciler) Load(elements []models.Element) {
	r.elements = make([]models.Element, 0, len(elements))
	clear(r.index)
	clear(r.pending)
	for i := range elements {
		r.upsert(*elements[i].Clone())
	}
}

// Elements returns the current array. Callers must not modify it.
func (r *Reconciler) Elements() []models.Element {
	return r.elements
}

// Get returns a copy of the element with id
func (r *Reconciler) Get(id string) (*models.Element, bool) {
	i, ok := r.index[id]
	if !ok {
		return nil, false
	}
	return r.elements[i].Clone(), true
}

func (r *Reconciler) Len() int {
	return len(r.elements)
}

// BeginCreate inserts draft under a fresh temporary ID and returns that ID
func (r *Reconciler) BeginCreate(draft models.Element) string {
	tempID := models.TempIDPrefix + uuid.NewString()
	el := *draft.Clone()
	el.ID = tempID
	r.upsert(el)
	r.pending[tempID] = struct{}{}

	r.logger.Debug("optimistic create", "temp_id", tempID, "type", string(el.Type))
	return tempID
}

// Pending reports whether tempID still awaits its server identity
func (r *Reconciler) Pending(tempID string) bool {
	_, ok := r.pending[tempID]
	return ok
}

// ResolveCreate swaps the temporary entry for the persisted element. Each
// temp ID resolves once. If the persisted element already arrived through a
// remote event, the temp entry is dropped and the persisted copy wins.
func (r *Reconciler) ResolveCreate(tempID string, persisted models.Element) error {
	if _, ok := r.pending[tempID]; !ok {
		return ErrUnknownTempID
	}
	delete(r.pending, tempID)

	el := *persisted.Clone()
	if _, exists := r.index[el.ID]; exists {
		r.remove(tempID)
		r.upsert(el)
	} else if i, ok := r.index[tempID]; ok {
		delete(r.index, tempID)
		r.elements[i] = el
		r.index[el.ID] = i
	} else {
		// temp entry deleted locally before the server answered
		r.upsert(el)
	}

	r.logger.Debug("create resolved", "temp_id", tempID, "element_id", el.ID)
	return nil
}

// AbandonCreate forgets a failed creation. The optimistic entry stays.
func (r *Reconciler) AbandonCreate(tempID string) {
	delete(r.pending, tempID)
}

// ApplyLocalUpdate replaces the element by ID with the local edit
func (r *Reconciler) ApplyLocalUpdate(el models.Element) {
	r.upsert(*el.Clone())
}

// ApplyLocalDelete removes the element by ID
func (r *Reconciler) ApplyLocalDelete(id string) bool {
	return r.remove(id)
}

// RemoteCreated inserts or overwrites the element
func (r *Reconciler) RemoteCreated(el models.Element) {
	r.upsert(*el.Clone())
}

// RemoteUpdated overwrites the element, inserting it if unknown
func (r *Reconciler) RemoteUpdated(el models.Element) {
	r.upsert(*el.Clone())
}

// RemoteDeleted removes the element; an unknown ID is a no-op
func (r *Reconciler) RemoteDeleted(id string) {
	if !r.remove(id) {
		r.logger.Debug("remote delete for unknown element", "element_id", id)
	}
}

func (r *Reconciler) upsert(el models.Element) {
	if i, ok := r.index[el.ID]; ok {
		r.elements[i] = el
		return
	}
	r.index[el.ID] = len(r.elements)
	r.elements = append(r.elements, el)
}

func (r *Reconciler) remove(id string) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.elements = append(r.elements[:i], r.elements[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.elements); j++ {
		r.index[r.elements[j].ID] = j
	}
	return true
}
