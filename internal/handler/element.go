package handler

import (
	"log/slog"
	"net/http"

	canvasSvc "tessera/internal/domain/services/canvas"
	"tessera/internal/httputil"
)

// ElementHandler handles element HTTP requests
type ElementHandler struct {
	service canvasSvc.ElementService
	logger  *slog.Logger
}

// NewElementHandler creates a new element handler
func NewElementHandler(service canvasSvc.ElementService, logger *slog.Logger) *ElementHandler {
	return &ElementHandler{
		service: service,
		logger:  logger,
	}
}

func actorFrom(r *http.Request) canvasSvc.Actor {
	return canvasSvc.Actor{
		UserID:   httputil.GetUserID(r),
		ClientID: httputil.GetClientID(r),
	}
}

// ListElements lists a workspace's elements. With width and height the
// result is narrowed to what that viewport would render.
// GET /api/workspaces/{id}/elements[?x&y&width&height&scale&edit]
func (h *ElementHandler) ListElements(w http.ResponseWriter, r *http.Request) {
	view, err := parseViewportQuery(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	elements, err := h.service.ListElements(r.Context(), r.PathValue("id"), httputil.GetUserID(r), view)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, elements)
}

// parseViewportQuery returns nil when no viewport size was given
func parseViewportQuery(r *http.Request) (*canvasSvc.ViewportQuery, error) {
	width, hasWidth, err := httputil.QueryFloat(r, "width")
	if err != nil {
		return nil, err
	}
	height, hasHeight, err := httputil.QueryFloat(r, "height")
	if err != nil {
		return nil, err
	}
	if !hasWidth || !hasHeight {
		return nil, nil
	}

	q := &canvasSvc.ViewportQuery{Width: width, Height: height, Scale: 1}
	if q.X, _, err = httputil.QueryFloat(r, "x"); err != nil {
		return nil, err
	}
	if q.Y, _, err = httputil.QueryFloat(r, "y"); err != nil {
		return nil, err
	}
	if scale, ok, err := httputil.QueryFloat(r, "scale"); err != nil {
		return nil, err
	} else if ok {
		q.Scale = scale
	}
	if q.EditMode, err = httputil.QueryBool(r, "edit"); err != nil {
		return nil, err
	}
	return q, nil
}

// CreateElement places a new element
// POST /api/workspaces/{id}/elements
func (h *ElementHandler) CreateElement(w http.ResponseWriter, r *http.Request) {
	var req canvasSvc.CreateElementRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	element, err := h.service.CreateElement(r.Context(), r.PathValue("id"), actorFrom(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, element)
}

// UpdateElement replaces an element's fields
// PUT /api/elements/{id}
func (h *ElementHandler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	var req canvasSvc.UpdateElementRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	element, err := h.service.UpdateElement(r.Context(), r.PathValue("id"), actorFrom(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, element)
}

// DeleteElement removes an element
// DELETE /api/elements/{id}
func (h *ElementHandler) DeleteElement(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteElement(r.Context(), r.PathValue("id"), actorFrom(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondNoContent(w)
}
