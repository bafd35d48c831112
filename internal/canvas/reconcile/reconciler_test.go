package reconcile

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "tessera/internal/domain/models/canvas"
)

func newReconciler() *Reconciler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func card(id string, x float64) models.Element {
	return models.Element{
		ID:         id,
		Type:       models.TypeCard,
		Position:   &models.Position{X: x},
		Dimensions: &models.Dimensions{Width: 10, Height: 10},
		Content:    map[string]interface{}{"html": "<p>" + id + "</p>"},
	}
}

func ids(r *Reconciler) []string {
	out := make([]string, 0, r.Len())
	for _, e := range r.Elements() {
		out = append(out, e.ID)
	}
	return out
}

func TestRemoteDeleteIsIdempotent(t *testing.T) {
	r := newReconciler()
	r.Load([]models.Element{card("a", 0), card("b", 1)})

	r.RemoteDeleted("a")
	r.RemoteDeleted("a")
	r.RemoteDeleted("never-existed")

	assert.Equal(t, []string{"b"}, ids(r))
}

func TestRemoteEventsLastWriteWins(t *testing.T) {
	r := newReconciler()
	r.Load([]models.Element{card("a", 0)})

	r.RemoteUpdated(card("a", 50))
	r.RemoteUpdated(card("a", 75))
	r.RemoteCreated(card("c", 5))
	r.RemoteUpdated(card("d", 6))

	a, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, 75.0, a.Position.X)
	assert.Equal(t, []string{"a", "c", "d"}, ids(r))

	// whole object replaced, no field merge
	bare := models.Element{ID: "a", Type: models.TypeText}
	r.RemoteUpdated(bare)
	a, _ = r.Get("a")
	assert.Nil(t, a.Position)
	assert.Nil(t, a.Content)
}

func TestOwnEchoIsHarmless(t *testing.T) {
	r := newReconciler()
	r.Load([]models.Element{card("a", 0)})

	edit := card("a", 30)
	r.ApplyLocalUpdate(edit)
	r.RemoteUpdated(edit)

	assert.Equal(t, 1, r.Len())
	a, _ := r.Get("a")
	assert.Equal(t, 30.0, a.Position.X)
}

func TestTempIDResolvesExactlyOnce(t *testing.T) {
	r := newReconciler()
	r.Load([]models.Element{card("a", 0)})

	tempID := r.BeginCreate(card("ignored", 9))
	assert.True(t, strings.HasPrefix(tempID, models.TempIDPrefix))
	assert.True(t, r.Pending(tempID))
	assert.Equal(t, []string{"a", tempID}, ids(r))

	persisted := card("srv-1", 9)
	require.NoError(t, r.ResolveCreate(tempID, persisted))
	assert.Equal(t, []string{"a", "srv-1"}, ids(r), "replaced in place")
	assert.False(t, r.Pending(tempID))

	assert.ErrorIs(t, r.ResolveCreate(tempID, card("srv-2", 0)), ErrUnknownTempID)
	assert.Equal(t, []string{"a", "srv-1"}, ids(r))
}

func TestResolveAfterRemoteEchoDropsTemp(t *testing.T) {
	r := newReconciler()
	tempID := r.BeginCreate(card("", 1))

	// another tab or a slow socket delivered the persisted element first
	r.RemoteCreated(card("srv-1", 2))
	require.NoError(t, r.ResolveCreate(tempID, card("srv-1", 3)))

	assert.Equal(t, []string{"srv-1"}, ids(r))
	el, _ := r.Get("srv-1")
	assert.Equal(t, 3.0, el.Position.X)
}

func TestResolveAfterLocalDeleteOfTemp(t *testing.T) {
	r := newReconciler()
	tempID := r.BeginCreate(card("", 1))
	r.ApplyLocalDelete(tempID)

	require.NoError(t, r.ResolveCreate(tempID, card("srv-1", 1)))
	assert.Equal(t, []string{"srv-1"}, ids(r))
}

func TestAbandonCreateKeepsOptimisticEntry(t *testing.T) {
	r := newReconciler()
	tempID := r.BeginCreate(card("", 1))

	r.AbandonCreate(tempID)

	assert.False(t, r.Pending(tempID))
	assert.Equal(t, []string{tempID}, ids(r))
}

func TestLocalDeleteKeepsOrderAndIndex(t *testing.T) {
	r := newReconciler()
	r.Load([]models.Element{card("a", 0), card("b", 1), card("c", 2)})

	assert.True(t, r.ApplyLocalDelete("b"))
	assert.False(t, r.ApplyLocalDelete("b"))

	r.RemoteUpdated(card("c", 99))
	assert.Equal(t, []string{"a", "c"}, ids(r))
	c, _ := r.Get("c")
	assert.Equal(t, 99.0, c.Position.X)
}

func TestStoredElementsAreIsolatedFromCallers(t *testing.T) {
	r := newReconciler()
	el := card("a", 0)
	r.RemoteCreated(el)

	el.Position.X = 500
	el.Content["html"] = "changed"

	got, _ := r.Get("a")
	assert.Equal(t, 0.0, got.Position.X)
	assert.Equal(t, "<p>a</p>", got.Content["html"])
}
