package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent PATCH field from null and "".
//   - Present=false: field absent, leave unchanged
//   - Present=true, Value=nil: explicit null
//   - Present=true, Value!=nil: new value, possibly empty
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON is only called when the field appears in the body
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Set returns the new value for a non-nullable field. Absent and null both
// mean "leave unchanged".
func (o OptionalString) Set() *string {
	if !o.Present {
		return nil
	}
	return o.Value
}
