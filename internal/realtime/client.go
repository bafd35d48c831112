package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	models "tessera/internal/domain/models/canvas"
)

// Client is one websocket connection in a workspace room
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	id          string
	userID      string
	workspaceID string

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newClient(h *Hub, conn *websocket.Conn, workspaceID, userID, clientID string) *Client {
	return &Client{
		hub:         h,
		conn:        conn,
		id:          clientID,
		userID:      userID,
		workspaceID: workspaceID,
		send:        make(chan []byte, h.cfg.SendBuffer),
	}
}

// ID returns the connection's client ID
func (c *Client) ID() string { return c.id }

// enqueue queues data without blocking. False means the queue is full.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump relays cursor updates from the client to the rest of its room.
// Elements are only changed through the REST API, so other inbound event
// types are ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	cfg := c.hub.cfg
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read failed",
					"client_id", c.id,
					"error", err,
				)
			}
			return
		}
		c.handleInbound(data)
	}
}

func (c *Client) handleInbound(data []byte) {
	var event models.Event
	if err := json.Unmarshal(data, &event); err != nil {
		c.hub.logger.Debug("ignoring malformed message", "client_id", c.id, "error", err)
		return
	}
	if event.Type != models.EventCursorMoved {
		c.hub.logger.Debug("ignoring client event", "client_id", c.id, "type", event.Type)
		return
	}

	var cursor models.CursorPayload
	if err := json.Unmarshal(event.Payload, &cursor); err != nil {
		c.hub.logger.Debug("ignoring malformed cursor", "client_id", c.id, "error", err)
		return
	}
	cursor.UserID = c.userID

	out, err := models.NewEvent(models.EventCursorMoved, c.workspaceID, cursor)
	if err != nil {
		return
	}
	out.SenderID = c.id
	c.hub.Broadcast(out, c.id)
}

// writePump drains the send queue and keeps the connection alive with pings
func (c *Client) writePump() {
	cfg := c.hub.cfg
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logWriteError(err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logWriteError(err)
				return
			}
		}
	}
}

func (c *Client) logWriteError(err error) {
	if errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	c.hub.logger.Warn("websocket write failed, stopping",
		"client_id", c.id,
		"error", err,
	)
}
