package handler

import (
	"log/slog"
	"net/http"

	canvasSvc "tessera/internal/domain/services/canvas"
	"tessera/internal/httputil"
)

// SocketServer upgrades a request into a workspace collaboration connection
type SocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, workspaceID, userID, clientID string) error
}

// CollabHandler joins authorized users to a workspace's realtime room
type CollabHandler struct {
	workspaces canvasSvc.WorkspaceService
	sockets    SocketServer
	logger     *slog.Logger
}

// NewCollabHandler creates a new collaboration handler
func NewCollabHandler(workspaces canvasSvc.WorkspaceService, sockets SocketServer, logger *slog.Logger) *CollabHandler {
	return &CollabHandler{workspaces: workspaces, sockets: sockets, logger: logger}
}

// Connect upgrades to a websocket once workspace access is confirmed
// GET /api/workspaces/{id}/ws
func (h *CollabHandler) Connect(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	workspaceID := r.PathValue("id")

	if _, err := h.workspaces.GetWorkspace(r.Context(), workspaceID, userID); err != nil {
		handleError(w, h.logger, err)
		return
	}

	if err := h.sockets.ServeWS(w, r, workspaceID, userID, httputil.GetClientID(r)); err != nil {
		h.logger.Debug("websocket upgrade failed",
			"workspace_id", workspaceID,
			"error", err,
		)
	}
}
