// Package elementtypes holds the element type registry loaded from an
// embedded YAML file.
package elementtypes

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	models "tessera/internal/domain/models/canvas"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry maps element types to their defaults
type Registry struct {
	types map[models.ElementType]*TypeInfo
	order []models.ElementType
	mu    sync.RWMutex
}

// NewRegistry creates a registry from the embedded types file
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/types.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read types.yaml: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from YAML. Every type the model knows must be
// present, and no unknown types are accepted.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal element types: %w", err)
	}

	valid := make(map[models.ElementType]bool, len(models.ElementTypes))
	for _, t := range models.ElementTypes {
		valid[t] = true
	}

	r := &Registry{types: make(map[models.ElementType]*TypeInfo, len(file.Types))}
	for i := range file.Types {
		info := file.Types[i]
		if !valid[info.Type] {
			return nil, fmt.Errorf("unknown element type %q", info.Type)
		}
		if _, dup := r.types[info.Type]; dup {
			return nil, fmt.Errorf("duplicate element type %q", info.Type)
		}
		if info.DefaultSize.Width <= 0 || info.DefaultSize.Height <= 0 {
			return nil, fmt.Errorf("element type %q: default size must be positive", info.Type)
		}
		if info.MinSize.Width > info.DefaultSize.Width || info.MinSize.Height > info.DefaultSize.Height {
			return nil, fmt.Errorf("element type %q: min size exceeds default size", info.Type)
		}
		r.types[info.Type] = &info
		r.order = append(r.order, info.Type)
	}

	for _, t := range models.ElementTypes {
		if _, ok := r.types[t]; !ok {
			return nil, fmt.Errorf("element type %q missing from registry", t)
		}
	}

	return r, nil
}

// Get returns the info for an element type
func (r *Registry) Get(t models.ElementType) (*TypeInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.types[t]
	if !ok {
		return nil, fmt.Errorf("unknown element type: %s", t)
	}
	return info, nil
}

// Valid reports whether t is a registered type
func (r *Registry) Valid(t models.ElementType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[t]
	return ok
}

// List returns every type in file order
func (r *Registry) List() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]TypeInfo, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, *r.types[t])
	}
	return out
}

// DefaultDimensions returns the size a new element of type t gets when
// none is supplied
func (r *Registry) DefaultDimensions(t models.ElementType) (models.Dimensions, bool) {
	info, err := r.Get(t)
	if err != nil {
		return models.Dimensions{}, false
	}
	return info.DefaultSize.Dimensions(), true
}

// MinSize returns the resize floor for t. Unknown types get fallback.
func (r *Registry) MinSize(t models.ElementType, fallback models.Dimensions) models.Dimensions {
	info, err := r.Get(t)
	if err != nil {
		return fallback
	}
	return info.MinSize.Dimensions()
}

// Resizable reports whether elements of type t expose resize handles.
// Unknown types are not resizable.
func (r *Registry) Resizable(t models.ElementType) bool {
	info, err := r.Get(t)
	return err == nil && info.Resizable
}

// Container reports whether type t groups the elements inside its box
func (r *Registry) Container(t models.ElementType) bool {
	info, err := r.Get(t)
	return err == nil && info.Container
}

// EditableText reports whether type t carries rich text edited in place
func (r *Registry) EditableText(t models.ElementType) bool {
	info, err := r.Get(t)
	return err == nil && info.EditableText
}
