package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "tessera/internal/domain/models/canvas"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		_ = hub.ServeWS(w, r, q.Get("ws"), q.Get("user"), q.Get("client"))
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, ws, user, client string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?ws=" + ws + "&user=" + user + "&client=" + client
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) models.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event models.Event
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func assertSilent(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "expected no message")
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	hub, srv := newTestHub(t)
	a := dial(t, srv, "ws1", "u1", "client-a")
	b := dial(t, srv, "ws1", "u2", "client-b")
	other := dial(t, srv, "ws2", "u3", "client-c")

	require.Eventually(t, func() bool {
		return hub.RoomSize("ws1") == 2 && hub.RoomSize("ws2") == 1
	}, 2*time.Second, 10*time.Millisecond)

	event, err := models.NewEvent(models.EventElementDeleted, "ws1", models.DeletedPayload{ElementID: "e1"})
	require.NoError(t, err)
	hub.Broadcast(event, "client-a")

	got := readEvent(t, b)
	assert.Equal(t, models.EventElementDeleted, got.Type)
	var payload models.DeletedPayload
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, "e1", payload.ElementID)

	assertSilent(t, a)
	assertSilent(t, other)
}

func TestHub_RelaysCursor(t *testing.T) {
	hub, srv := newTestHub(t)
	a := dial(t, srv, "ws1", "u1", "client-a")
	b := dial(t, srv, "ws1", "u2", "client-b")

	require.Eventually(t, func() bool { return hub.RoomSize("ws1") == 2 }, 2*time.Second, 10*time.Millisecond)

	out, err := models.NewEvent(models.EventCursorMoved, "ignored", models.CursorPayload{UserID: "spoofed", X: 12, Y: 34})
	require.NoError(t, err)
	require.NoError(t, a.WriteJSON(out))

	got := readEvent(t, b)
	assert.Equal(t, models.EventCursorMoved, got.Type)
	assert.Equal(t, "ws1", got.WorkspaceID)
	assert.Equal(t, "client-a", got.SenderID)

	var cursor models.CursorPayload
	require.NoError(t, json.Unmarshal(got.Payload, &cursor))
	assert.Equal(t, models.CursorPayload{UserID: "u1", X: 12, Y: 34}, cursor)

	assertSilent(t, a)
}

func TestHub_IgnoresClientElementEvents(t *testing.T) {
	hub, srv := newTestHub(t)
	a := dial(t, srv, "ws1", "u1", "client-a")
	b := dial(t, srv, "ws1", "u2", "client-b")

	require.Eventually(t, func() bool { return hub.RoomSize("ws1") == 2 }, 2*time.Second, 10*time.Millisecond)

	out, err := models.NewEvent(models.EventElementDeleted, "ws1", models.DeletedPayload{ElementID: "e1"})
	require.NoError(t, err)
	require.NoError(t, a.WriteJSON(out))
	require.NoError(t, a.WriteMessage(websocket.TextMessage, []byte("not json")))

	assertSilent(t, b)
}

func TestHub_LeaveOnDisconnect(t *testing.T) {
	hub, srv := newTestHub(t)
	a := dial(t, srv, "ws1", "u1", "client-a")
	dial(t, srv, "ws1", "u2", "")

	require.Eventually(t, func() bool { return hub.RoomSize("ws1") == 2 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return hub.RoomSize("ws1") == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_CheckOrigin(t *testing.T) {
	hub := NewHub(&Config{AllowedOrigins: []string{"https://app.example"}}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "https://app.example")
	assert.True(t, hub.checkOrigin(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, hub.checkOrigin(req))
}

func TestHub_DuplicateClientIDStillReceives(t *testing.T) {
	hub, srv := newTestHub(t)
	a := dial(t, srv, "ws1", "u1", "client-a")
	require.Eventually(t, func() bool { return hub.RoomSize("ws1") == 1 }, 2*time.Second, 10*time.Millisecond)
	impostor := dial(t, srv, "ws1", "u2", "client-a")
	require.Eventually(t, func() bool { return hub.RoomSize("ws1") == 2 }, 2*time.Second, 10*time.Millisecond)

	event, err := models.NewEvent(models.EventElementDeleted, "ws1", models.DeletedPayload{ElementID: "e1"})
	require.NoError(t, err)
	hub.Broadcast(event, "client-a")

	got := readEvent(t, impostor)
	assert.Equal(t, models.EventElementDeleted, got.Type)
	assertSilent(t, a)
}
