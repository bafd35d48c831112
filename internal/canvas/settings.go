package canvas

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the tuning constants of the canvas engine.
// Zero-valued fields loaded from YAML fall back to DefaultSettings.
type Settings struct {
	MinScale float64 `yaml:"min_scale"`
	MaxScale float64 `yaml:"max_scale"`

	// World bounds
	BoundsPadding   float64 `yaml:"bounds_padding"`
	MinCanvasExtent float64 `yaml:"min_canvas_extent"`

	// Virtualization
	VirtualizationThreshold int     `yaml:"virtualization_threshold"`
	VirtualizationPadding   float64 `yaml:"virtualization_padding"`

	// Wrapper resize floors
	WrapperMinWidth  float64 `yaml:"wrapper_min_width"`
	WrapperMinHeight float64 `yaml:"wrapper_min_height"`

	// Zoom to element framing
	FocusScale         float64       `yaml:"focus_scale"`
	FocusOffsetX       float64       `yaml:"focus_offset_x"` // fraction of viewport width
	FocusOffsetY       float64       `yaml:"focus_offset_y"` // fraction of viewport height
	TransitionDuration time.Duration `yaml:"transition_duration"`
	HighlightDuration  time.Duration `yaml:"highlight_duration"`
	DeepLinkDelay      time.Duration `yaml:"deep_link_delay"`
	DeepLinkSettle     time.Duration `yaml:"deep_link_settle"`
	PanReenableDelay   time.Duration `yaml:"pan_reenable_delay"`
	CursorInterval     time.Duration `yaml:"cursor_interval"`
	ContentDebounce    time.Duration `yaml:"content_debounce"`
	FrameInterval      time.Duration `yaml:"frame_interval"`
}

// DefaultSettings returns the engine constants used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		MinScale:                0.1,
		MaxScale:                5,
		BoundsPadding:           3000,
		MinCanvasExtent:         20000,
		VirtualizationThreshold: 50,
		VirtualizationPadding:   2000,
		WrapperMinWidth:         200,
		WrapperMinHeight:        150,
		FocusScale:              0.375,
		FocusOffsetX:            0.25,
		FocusOffsetY:            0.075,
		TransitionDuration:      500 * time.Millisecond,
		HighlightDuration:       3000 * time.Millisecond,
		DeepLinkDelay:           300 * time.Millisecond,
		DeepLinkSettle:          100 * time.Millisecond,
		PanReenableDelay:        50 * time.Millisecond,
		CursorInterval:          50 * time.Millisecond,
		ContentDebounce:         500 * time.Millisecond,
		FrameInterval:           16 * time.Millisecond,
	}
}

// LoadSettings reads a YAML settings file. An empty path returns the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read canvas settings: %w", err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return s, fmt.Errorf("parse canvas settings %s: %w", path, err)
	}

	s.merge(loaded)
	if s.MinScale > s.MaxScale {
		return s, fmt.Errorf("canvas settings: min_scale %.3f exceeds max_scale %.3f", s.MinScale, s.MaxScale)
	}
	return s, nil
}

func (s *Settings) merge(o Settings) {
	setFloat(&s.MinScale, o.MinScale)
	setFloat(&s.MaxScale, o.MaxScale)
	setFloat(&s.BoundsPadding, o.BoundsPadding)
	setFloat(&s.MinCanvasExtent, o.MinCanvasExtent)
	if o.VirtualizationThreshold > 0 {
		s.VirtualizationThreshold = o.VirtualizationThreshold
	}
	setFloat(&s.VirtualizationPadding, o.VirtualizationPadding)
	setFloat(&s.WrapperMinWidth, o.WrapperMinWidth)
	setFloat(&s.WrapperMinHeight, o.WrapperMinHeight)
	setFloat(&s.FocusScale, o.FocusScale)
	setFloat(&s.FocusOffsetX, o.FocusOffsetX)
	setFloat(&s.FocusOffsetY, o.FocusOffsetY)
	setDuration(&s.TransitionDuration, o.TransitionDuration)
	setDuration(&s.HighlightDuration, o.HighlightDuration)
	setDuration(&s.DeepLinkDelay, o.DeepLinkDelay)
	setDuration(&s.DeepLinkSettle, o.DeepLinkSettle)
	setDuration(&s.PanReenableDelay, o.PanReenableDelay)
	setDuration(&s.CursorInterval, o.CursorInterval)
	setDuration(&s.ContentDebounce, o.ContentDebounce)
	setDuration(&s.FrameInterval, o.FrameInterval)
}

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
