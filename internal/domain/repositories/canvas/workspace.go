package canvas

import (
	"context"

	"tessera/internal/domain/models/canvas"
)

// WorkspaceRepository defines data access operations for workspaces
type WorkspaceRepository interface {
	// Create inserts a workspace and fills in its generated ID and timestamps
	Create(ctx context.Context, workspace *canvas.Workspace) error

	// GetByID retrieves a workspace owned by ownerID
	GetByID(ctx context.Context, id, ownerID string) (*canvas.Workspace, error)

	// List retrieves all workspaces for an owner, ordered by updated_at DESC
	List(ctx context.Context, ownerID string) ([]canvas.Workspace, error)

	// Update updates a workspace's name and updated_at timestamp
	Update(ctx context.Context, workspace *canvas.Workspace) error

	// Delete removes a workspace and, by cascade, its elements
	Delete(ctx context.Context, id, ownerID string) error
}
