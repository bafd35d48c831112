package handler

import (
	"log/slog"
	"net/http"

	canvasSvc "tessera/internal/domain/services/canvas"
	"tessera/internal/httputil"
)

// WorkspaceHandler handles workspace HTTP requests
type WorkspaceHandler struct {
	service canvasSvc.WorkspaceService
	logger  *slog.Logger
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(service canvasSvc.WorkspaceService, logger *slog.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		service: service,
		logger:  logger,
	}
}

// ListWorkspaces lists the caller's workspaces
// GET /api/workspaces
func (h *WorkspaceHandler) ListWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.service.ListWorkspaces(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, workspaces)
}

// CreateWorkspace creates a workspace owned by the caller
// POST /api/workspaces
func (h *WorkspaceHandler) CreateWorkspace(w http.ResponseWriter, r *http.Request) {
	var req canvasSvc.CreateWorkspaceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.OwnerID = httputil.GetUserID(r)

	workspace, err := h.service.CreateWorkspace(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, workspace)
}

// GetWorkspace retrieves one workspace
// GET /api/workspaces/{id}
func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	workspace, err := h.service.GetWorkspace(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, workspace)
}

// updateWorkspaceBody is the PATCH body; absent fields are left alone
type updateWorkspaceBody struct {
	Name httputil.OptionalString `json:"name"`
}

// UpdateWorkspace renames a workspace
// PATCH /api/workspaces/{id}
func (h *WorkspaceHandler) UpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	var body updateWorkspaceBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if body.Name.Present && body.Name.Value == nil {
		httputil.RespondError(w, http.StatusBadRequest, "name cannot be null")
		return
	}

	req := canvasSvc.UpdateWorkspaceRequest{Name: body.Name.Set()}
	workspace, err := h.service.UpdateWorkspace(r.Context(), r.PathValue("id"), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, workspace)
}

// DeleteWorkspace deletes a workspace and its elements
// DELETE /api/workspaces/{id}
func (h *WorkspaceHandler) DeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteWorkspace(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondNoContent(w)
}
