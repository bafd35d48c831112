package canvas

import (
	"strings"
	"time"
)

// ElementType identifies what an element renders as
type ElementType string

const (
	TypeTitle       ElementType = "title"
	TypeDescription ElementType = "description"
	TypeMacro       ElementType = "macro"
	TypeExample     ElementType = "example"
	TypeText        ElementType = "text"
	TypeSubtext     ElementType = "subtext"
	TypeCard        ElementType = "card"
	TypeStickyNote  ElementType = "sticky-note"
	TypeImage       ElementType = "image"
	TypeLink        ElementType = "link"
	TypeWrapper     ElementType = "wrapper"
)

// ElementTypes lists every valid element type
var ElementTypes = []ElementType{
	TypeTitle, TypeDescription, TypeMacro, TypeExample, TypeText, TypeSubtext,
	TypeCard, TypeStickyNote, TypeImage, TypeLink, TypeWrapper,
}

// TempIDPrefix marks IDs generated on the client before the server assigns one
const TempIDPrefix = "temp-"

// ChildElementsKey is the wrapper content key holding contained element IDs
const ChildElementsKey = "childElements"

// ContentHTMLKey holds an element's rich-text body as an opaque HTML string
const ContentHTMLKey = "html"

// Position is an element's top-left corner in canvas units; Z is the render layer
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Dimensions is an element's size in canvas units
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is a positioned, typed content unit on a workspace canvas.
// Position and Dimensions are nil while an element has no geometry yet.
type Element struct {
	ID          string                 `json:"id"`
	WorkspaceID string                 `json:"workspace_id"`
	Type        ElementType            `json:"type"`
	Position    *Position              `json:"position,omitempty"`
	Dimensions  *Dimensions            `json:"dimensions,omitempty"`
	Content     map[string]interface{} `json:"content"`
	Style       map[string]interface{} `json:"style"`
	Locked      bool                   `json:"locked"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// HasGeometry reports whether both position and dimensions are present
func (e *Element) HasGeometry() bool {
	return e != nil && e.Position != nil && e.Dimensions != nil
}

// IsWrapper reports whether the element is a wrapper
func (e *Element) IsWrapper() bool {
	return e != nil && e.Type == TypeWrapper
}

// IsTemporary reports whether the element still carries a client-generated ID
func (e *Element) IsTemporary() bool {
	return IsTempID(e.ID)
}

// IsTempID reports whether id was generated on the client
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// ChildElementIDs returns the wrapper's stored child IDs.
// JSON-decoded content holds []interface{}, locally built content holds []string.
func (e *Element) ChildElementIDs() []string {
	if e == nil || e.Content == nil {
		return nil
	}
	switch v := e.Content[ChildElementsKey].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SetChildElementIDs replaces the wrapper's child list.
// The content map is copied first so snapshots sharing it are not mutated.
func (e *Element) SetChildElementIDs(ids []string) {
	content := make(map[string]interface{}, len(e.Content)+1)
	for k, v := range e.Content {
		content[k] = v
	}
	if ids == nil {
		ids = []string{}
	}
	content[ChildElementsKey] = ids
	e.Content = content
}

// HTML returns the element's HTML body, or ""
func (e *Element) HTML() string {
	if e == nil || e.Content == nil {
		return ""
	}
	s, _ := e.Content[ContentHTMLKey].(string)
	return s
}

// SetHTML replaces the HTML body on a copied content map
func (e *Element) SetHTML(html string) {
	content := make(map[string]interface{}, len(e.Content)+1)
	for k, v := range e.Content {
		content[k] = v
	}
	content[ContentHTMLKey] = html
	e.Content = content
}

// Clone returns a copy that shares no mutable state with e
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	if e.Position != nil {
		p := *e.Position
		c.Position = &p
	}
	if e.Dimensions != nil {
		d := *e.Dimensions
		c.Dimensions = &d
	}
	c.Content = cloneMap(e.Content)
	c.Style = cloneMap(e.Style)
	return &c
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case []string:
			cp := make([]string, len(tv))
			copy(cp, tv)
			out[k] = cp
		case []interface{}:
			cp := make([]interface{}, len(tv))
			copy(cp, tv)
			out[k] = cp
		default:
			out[k] = v
		}
	}
	return out
}
