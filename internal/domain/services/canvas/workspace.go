package canvas

import (
	"context"

	"tessera/internal/domain/models/canvas"
)

// CreateWorkspaceRequest represents a request to create a workspace
type CreateWorkspaceRequest struct {
	OwnerID string `json:"-"`
	Name    string `json:"name"`
}

// UpdateWorkspaceRequest carries PATCH semantics: nil fields are left unchanged.
// Transport-agnostic; handlers map from httputil.OptionalString.
type UpdateWorkspaceRequest struct {
	Name *string
}

// WorkspaceService defines business logic operations for workspaces
type WorkspaceService interface {
	CreateWorkspace(ctx context.Context, req *CreateWorkspaceRequest) (*canvas.Workspace, error)

	// GetWorkspace retrieves a workspace the user owns
	GetWorkspace(ctx context.Context, id, userID string) (*canvas.Workspace, error)

	ListWorkspaces(ctx context.Context, userID string) ([]canvas.Workspace, error)

	UpdateWorkspace(ctx context.Context, id, userID string, req *UpdateWorkspaceRequest) (*canvas.Workspace, error)

	// DeleteWorkspace removes a workspace with all of its elements
	DeleteWorkspace(ctx context.Context, id, userID string) error
}
