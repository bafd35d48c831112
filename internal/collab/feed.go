package collab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	models "tessera/internal/domain/models/canvas"
)

// RemoteSink receives collaborators' element changes. *session.Session
// satisfies it.
type RemoteSink interface {
	RemoteCreated(el models.Element) error
	RemoteUpdated(el models.Element) error
	RemoteDeleted(id string) error
}

// CursorFunc is called for each collaborator cursor update
type CursorFunc func(senderID string, cursor models.CursorPayload)

// Feed is a workspace websocket. It forwards remote element events to a
// sink and sends the local cursor.
type Feed struct {
	conn        *websocket.Conn
	workspaceID string
	clientID    string
	sink        RemoteSink
	onCursor    CursorFunc
	logger      *slog.Logger

	writeMu sync.Mutex
	done    chan struct{}
	err     error
}

// Dial opens the workspace socket for the client's server and identity.
// onCursor may be nil.
func (c *Client) Dial(ctx context.Context, workspaceID string, sink RemoteSink, onCursor CursorFunc) (*Feed, error) {
	u := *c.base
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = u.Path + "/api/workspaces/" + url.PathEscape(workspaceID) + "/ws"
	q := url.Values{}
	q.Set("client_id", c.clientID)
	if c.token != "" {
		q.Set("access_token", c.token)
	}
	u.RawQuery = q.Encode()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, fmt.Errorf("dial workspace socket: %w", decodeProblem(resp))
		}
		return nil, fmt.Errorf("dial workspace socket: %w", err)
	}

	f := &Feed{
		conn:        conn,
		workspaceID: workspaceID,
		clientID:    c.clientID,
		sink:        sink,
		onCursor:    onCursor,
		logger:      c.logger.With("workspace_id", workspaceID),
		done:        make(chan struct{}),
	}
	go f.readLoop()
	return f, nil
}

// Done is closed when the feed stops reading
func (f *Feed) Done() <-chan struct{} { return f.done }

// Err returns why the feed stopped, once Done is closed
func (f *Feed) Err() error {
	<-f.done
	return f.err
}

// UpdateCursor sends the local pointer in canvas coordinates
func (f *Feed) UpdateCursor(ctx context.Context, x, y float64) error {
	event, err := models.NewEvent(models.EventCursorMoved, f.workspaceID, models.CursorPayload{X: x, Y: y})
	if err != nil {
		return err
	}

	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	deadline := time.Now().Add(5 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = f.conn.SetWriteDeadline(deadline)
	return f.conn.WriteJSON(event)
}

// Close sends a close frame and waits for the read loop to exit
func (f *Feed) Close() error {
	f.writeMu.Lock()
	err := f.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	f.writeMu.Unlock()

	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
	}
	f.conn.Close()
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	return err
}

func (f *Feed) readLoop() {
	defer close(f.done)
	for {
		var event models.Event
		if err := f.conn.ReadJSON(&event); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				f.err = err
			}
			return
		}
		if event.SenderID != "" && event.SenderID == f.clientID {
			continue
		}
		if err := f.dispatch(event); err != nil {
			f.logger.Warn("remote event not applied", "type", event.Type, "error", err)
		}
	}
}

func (f *Feed) dispatch(event models.Event) error {
	switch event.Type {
	case models.EventElementCreated, models.EventElementUpdated:
		var el models.Element
		if err := json.Unmarshal(event.Payload, &el); err != nil {
			return fmt.Errorf("decode element: %w", err)
		}
		if event.Type == models.EventElementCreated {
			return f.sink.RemoteCreated(el)
		}
		return f.sink.RemoteUpdated(el)
	case models.EventElementDeleted:
		var p models.DeletedPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			return fmt.Errorf("decode deletion: %w", err)
		}
		return f.sink.RemoteDeleted(p.ElementID)
	case models.EventCursorMoved:
		if f.onCursor == nil {
			return nil
		}
		var cursor models.CursorPayload
		if err := json.Unmarshal(event.Payload, &cursor); err != nil {
			return fmt.Errorf("decode cursor: %w", err)
		}
		f.onCursor(event.SenderID, cursor)
		return nil
	default:
		f.logger.Debug("ignoring event", "type", event.Type)
		return nil
	}
}
