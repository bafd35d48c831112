package handler

import (
	"log/slog"
	"net/http"

	canvasSvc "tessera/internal/domain/services/canvas"
	"tessera/internal/httputil"
)

// PostViewHandler serves the linear reading view
type PostViewHandler struct {
	service canvasSvc.PostViewService
	logger  *slog.Logger
}

// NewPostViewHandler creates a new post view handler
func NewPostViewHandler(service canvasSvc.PostViewService, logger *slog.Logger) *PostViewHandler {
	return &PostViewHandler{service: service, logger: logger}
}

// GetPostView returns a workspace as ordered sections
// GET /api/workspaces/{id}/post
func (h *PostViewHandler) GetPostView(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetPostView(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}
