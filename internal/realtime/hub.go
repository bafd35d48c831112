// Package realtime fans collaboration events out to the websocket
// connections open on each workspace.
package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	models "tessera/internal/domain/models/canvas"
)

// Hub tracks one room of clients per workspace
type Hub struct {
	cfg      *Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub creates a hub. A nil cfg uses DefaultConfig.
func NewHub(cfg *Config, logger *slog.Logger) *Hub {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	h := &Hub{
		cfg:    cfg,
		logger: logger,
		rooms:  make(map[string]map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// ServeWS upgrades the request and joins the connection to the workspace
// room. It returns once the connection's pumps are running. An empty
// clientID, or one already connected to the room, gets a generated one.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, workspaceID, userID, clientID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		return err
	}
	if clientID == "" {
		clientID = uuid.NewString()
	}

	c := newClient(h, conn, workspaceID, userID, clientID)
	h.join(c)
	go c.writePump()
	go c.readPump()
	return nil
}

// Broadcast sends event to every client in its workspace room except the
// one whose ID is excludeClientID
func (h *Hub) Broadcast(event *models.Event, excludeClientID string) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode broadcast", "type", event.Type, "error", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[event.WorkspaceID]))
	for c := range h.rooms[event.WorkspaceID] {
		if c.id != excludeClientID {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(data) {
			h.logger.Warn("client too slow, disconnecting",
				"client_id", c.id,
				"workspace_id", c.workspaceID,
			)
			h.leave(c)
		}
	}
}

// RoomSize returns how many clients are connected to a workspace
func (h *Hub) RoomSize(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[workspaceID])
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*Client
	for _, room := range h.rooms {
		for c := range room {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		h.leave(c)
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.workspaceID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.workspaceID] = room
	}
	requested := c.id
	for other := range room {
		if other.id == requested {
			c.id = uuid.NewString()
			break
		}
	}
	room[c] = struct{}{}
	size := len(room)
	h.mu.Unlock()

	if c.id != requested {
		h.logger.Warn("client id already in use, assigned a new one",
			"requested_client_id", requested,
			"client_id", c.id,
			"workspace_id", c.workspaceID,
		)
	}

	h.logger.Info("client joined",
		"client_id", c.id,
		"user_id", c.userID,
		"workspace_id", c.workspaceID,
		"room_size", size,
	)
}

// leave removes c from its room and closes its queue. Safe to call twice.
func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	room, ok := h.rooms[c.workspaceID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, member := room[c]; !member {
		h.mu.Unlock()
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.workspaceID)
	}
	h.mu.Unlock()

	c.close()
	h.logger.Info("client left",
		"client_id", c.id,
		"workspace_id", c.workspaceID,
	)
}
