package handler

import "net/http"

// Handlers groups the API handlers mounted by RegisterRoutes
type Handlers struct {
	Workspaces *WorkspaceHandler
	Elements   *ElementHandler
	PostView   *PostViewHandler
	Collab     *CollabHandler
}

// RegisterRoutes mounts the workspace API on mux
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	mux.HandleFunc("GET /api/workspaces", h.Workspaces.ListWorkspaces)
	mux.HandleFunc("POST /api/workspaces", h.Workspaces.CreateWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}", h.Workspaces.GetWorkspace)
	mux.HandleFunc("PATCH /api/workspaces/{id}", h.Workspaces.UpdateWorkspace)
	mux.HandleFunc("DELETE /api/workspaces/{id}", h.Workspaces.DeleteWorkspace)

	mux.HandleFunc("GET /api/workspaces/{id}/elements", h.Elements.ListElements)
	mux.HandleFunc("POST /api/workspaces/{id}/elements", h.Elements.CreateElement)
	mux.HandleFunc("PUT /api/elements/{id}", h.Elements.UpdateElement)
	mux.HandleFunc("DELETE /api/elements/{id}", h.Elements.DeleteElement)

	mux.HandleFunc("GET /api/workspaces/{id}/post", h.PostView.GetPostView)

	if h.Collab != nil {
		mux.HandleFunc("GET /api/workspaces/{id}/ws", h.Collab.Connect)
	}
}
