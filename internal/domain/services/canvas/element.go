package canvas

import (
	"context"

	"tessera/internal/domain/models/canvas"
)

// Actor identifies who performs a mutation. ClientID is the originating
// collaboration connection, excluded from the resulting broadcast.
type Actor struct {
	UserID   string
	ClientID string
}

// CreateElementRequest represents a request to place a new element.
// Missing dimensions fall back to the element type's defaults.
type CreateElementRequest struct {
	Type       canvas.ElementType     `json:"type"`
	Position   *canvas.Position       `json:"position"`
	Dimensions *canvas.Dimensions     `json:"dimensions"`
	Content    map[string]interface{} `json:"content"`
	Style      map[string]interface{} `json:"style"`
	Locked     bool                   `json:"locked"`
}

// UpdateElementRequest replaces an element's mutable fields wholesale
type UpdateElementRequest struct {
	Type       canvas.ElementType     `json:"type"`
	Position   *canvas.Position       `json:"position"`
	Dimensions *canvas.Dimensions     `json:"dimensions"`
	Content    map[string]interface{} `json:"content"`
	Style      map[string]interface{} `json:"style"`
	Locked     bool                   `json:"locked"`
}

// ViewportQuery narrows a listing to what a viewport would render
type ViewportQuery struct {
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Scale    float64
	EditMode bool
}

// ElementService defines business logic operations for canvas elements
type ElementService interface {
	// ListElements returns a workspace's elements, virtualized when view is set
	ListElements(ctx context.Context, workspaceID, userID string, view *ViewportQuery) ([]canvas.Element, error)

	CreateElement(ctx context.Context, workspaceID string, actor Actor, req *CreateElementRequest) (*canvas.Element, error)

	UpdateElement(ctx context.Context, id string, actor Actor, req *UpdateElementRequest) (*canvas.Element, error)

	DeleteElement(ctx context.Context, id string, actor Actor) error
}

// PostViewService builds the linear reading view of a workspace
type PostViewService interface {
	GetPostView(ctx context.Context, workspaceID, userID string) (*canvas.PostView, error)
}

// Broadcaster fans collaboration events out to a workspace's connections
type Broadcaster interface {
	Broadcast(event *canvas.Event, excludeClientID string)
}
