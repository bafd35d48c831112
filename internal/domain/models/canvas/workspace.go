package canvas

import "time"

type Workspace struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostSection is one wrapper of the linear post view with its contained elements
type PostSection struct {
	WrapperID string    `json:"wrapper_id"`
	Title     string    `json:"title,omitempty"`
	Elements  []Element `json:"elements"`
}

// PostView is the linear rendering of a workspace's wrapped content
type PostView struct {
	WorkspaceID string        `json:"workspace_id"`
	Sections    []PostSection `json:"sections"`
}
