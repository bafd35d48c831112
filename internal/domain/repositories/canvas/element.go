package canvas

import (
	"context"

	"tessera/internal/domain/models/canvas"
)

// ElementRepository defines data access operations for canvas elements
type ElementRepository interface {
	// Create inserts an element and fills in its generated ID and timestamps
	Create(ctx context.Context, element *canvas.Element) error

	// GetByID retrieves an element by ID
	GetByID(ctx context.Context, id string) (*canvas.Element, error)

	// ListByWorkspace retrieves every element of a workspace ordered by z, then creation
	ListByWorkspace(ctx context.Context, workspaceID string) ([]canvas.Element, error)

	// CountByWorkspace returns the number of elements in a workspace
	CountByWorkspace(ctx context.Context, workspaceID string) (int, error)

	// Update replaces an element's type, geometry, content, style and lock flag
	Update(ctx context.Context, element *canvas.Element) error

	// Delete removes an element
	Delete(ctx context.Context, id string) error
}
