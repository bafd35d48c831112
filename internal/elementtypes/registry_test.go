package elementtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "tessera/internal/domain/models/canvas"
)

func TestNewRegistry_CoversEveryType(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, len(models.ElementTypes))
	for _, et := range models.ElementTypes {
		assert.True(t, r.Valid(et), "type %s", et)
	}
	assert.False(t, r.Valid("spreadsheet"))
}

func TestRegistry_WrapperFloor(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	info, err := r.Get(models.TypeWrapper)
	require.NoError(t, err)
	assert.True(t, info.Container)
	assert.Equal(t, models.Dimensions{Width: 200, Height: 150}, info.MinSize.Dimensions())

	fallback := models.Dimensions{Width: 1, Height: 1}
	assert.Equal(t, models.Dimensions{Width: 200, Height: 150}, r.MinSize(models.TypeWrapper, fallback))
	assert.Equal(t, fallback, r.MinSize("nope", fallback))
}

func TestRegistry_DefaultDimensions(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	d, ok := r.DefaultDimensions(models.TypeStickyNote)
	require.True(t, ok)
	assert.Equal(t, models.Dimensions{Width: 220, Height: 220}, d)

	_, ok = r.DefaultDimensions("nope")
	assert.False(t, ok)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown type",
			yaml: "types:\n  - type: spreadsheet\n    default_size: {width: 1, height: 1}\n",
			want: "unknown element type",
		},
		{
			name: "missing types",
			yaml: "types:\n  - type: text\n    default_size: {width: 10, height: 10}\n",
			want: "missing from registry",
		},
		{
			name: "duplicate",
			yaml: "types:\n  - type: text\n    default_size: {width: 10, height: 10}\n  - type: text\n    default_size: {width: 10, height: 10}\n",
			want: "duplicate",
		},
		{
			name: "zero default",
			yaml: "types:\n  - type: text\n    default_size: {width: 0, height: 10}\n",
			want: "must be positive",
		},
		{
			name: "min above default",
			yaml: "types:\n  - type: text\n    default_size: {width: 10, height: 10}\n    min_size: {width: 20, height: 5}\n",
			want: "exceeds default",
		},
		{
			name: "malformed",
			yaml: "types: [",
			want: "unmarshal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRegistry_Flags(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		typ       models.ElementType
		resizable bool
		container bool
		editable  bool
	}{
		{models.TypeWrapper, true, true, false},
		{models.TypeStickyNote, true, false, true},
		{models.TypeImage, true, false, false},
		{models.TypeLink, false, false, false},
		{"nope", false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.resizable, r.Resizable(tt.typ))
			assert.Equal(t, tt.container, r.Container(tt.typ))
			assert.Equal(t, tt.editable, r.EditableText(tt.typ))
		})
	}
}
