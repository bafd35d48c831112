package canvas

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"tessera/internal/config"
	models "tessera/internal/domain/models/canvas"
	"tessera/internal/elementtypes"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// elementFields is what create and update requests share
type elementFields struct {
	Type       models.ElementType
	Position   *models.Position
	Dimensions *models.Dimensions
	Content    map[string]interface{}
	Style      map[string]interface{}
}

func validateElementFields(f *elementFields, registry *elementtypes.Registry) error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Type,
			validation.Required,
			validation.By(func(value interface{}) error {
				t, _ := value.(models.ElementType)
				if t != "" && !registry.Valid(t) {
					return fmt.Errorf("unknown element type %q", t)
				}
				return nil
			}),
		),
		validation.Field(&f.Position, validation.By(validPosition)),
		validation.Field(&f.Dimensions, validation.By(validDimensions)),
		validation.Field(&f.Content, validation.By(maxJSONBytes(config.MaxContentBytes))),
		validation.Field(&f.Style, validation.By(maxJSONBytes(config.MaxContentBytes))),
	)
}

func validPosition(value interface{}) error {
	p, _ := value.(*models.Position)
	if p == nil {
		return nil
	}
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if !finiteWithin(v, config.MaxElementExtent) {
			return fmt.Errorf("coordinates must be finite and within ±%v", config.MaxElementExtent)
		}
	}
	return nil
}

func validDimensions(value interface{}) error {
	d, _ := value.(*models.Dimensions)
	if d == nil {
		return nil
	}
	if d.Width < 0 || d.Height < 0 {
		return errors.New("width and height must not be negative")
	}
	if !finiteWithin(d.Width, config.MaxElementExtent) || !finiteWithin(d.Height, config.MaxElementExtent) {
		return fmt.Errorf("width and height must be finite and at most %v", config.MaxElementExtent)
	}
	return nil
}

func maxJSONBytes(limit int) validation.RuleFunc {
	return func(value interface{}) error {
		m, _ := value.(map[string]interface{})
		if m == nil {
			return nil
		}
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("must be JSON encodable: %v", err)
		}
		if len(data) > limit {
			return fmt.Errorf("must be at most %d bytes", limit)
		}
		return nil
	}
}

func finiteWithin(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= limit
}
