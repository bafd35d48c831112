package canvas

import "encoding/json"

// EventType names a collaboration event on a workspace channel
type EventType string

const (
	EventElementCreated EventType = "element:created"
	EventElementUpdated EventType = "element:updated"
	EventElementDeleted EventType = "element:deleted"
	EventCursorMoved    EventType = "cursor:moved"
)

// Event is the envelope sent over the collaboration socket
type Event struct {
	Type        EventType       `json:"type"`
	WorkspaceID string          `json:"workspace_id"`
	SenderID    string          `json:"sender_id,omitempty"`
	Payload     json.RawMessage `json:"payload"`
}

// DeletedPayload carries the ID of a removed element
type DeletedPayload struct {
	ElementID string `json:"element_id"`
}

// CursorPayload carries a collaborator's pointer in canvas coordinates
type CursorPayload struct {
	UserID string  `json:"user_id,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// NewEvent marshals payload into an event envelope
func NewEvent(eventType EventType, workspaceID string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:        eventType,
		WorkspaceID: workspaceID,
		Payload:     data,
	}, nil
}
