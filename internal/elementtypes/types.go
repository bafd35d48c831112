package elementtypes

import models "tessera/internal/domain/models/canvas"

// Size is a width/height pair as written in the registry file
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Dimensions converts to the element model's dimensions
func (s Size) Dimensions() models.Dimensions {
	return models.Dimensions{Width: s.Width, Height: s.Height}
}

// TypeInfo describes how one element type is created and resized
type TypeInfo struct {
	Type         models.ElementType `yaml:"type"`
	DisplayName  string             `yaml:"display_name"`
	DefaultSize  Size               `yaml:"default_size"`
	MinSize      Size               `yaml:"min_size"`
	Resizable    bool               `yaml:"resizable"`
	Container    bool               `yaml:"container"`
	EditableText bool               `yaml:"editable_text"`
}

type registryFile struct {
	Types []TypeInfo `yaml:"types"`
}
