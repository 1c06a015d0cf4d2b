package schema

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Dependency gates a field's visibility on another field's value. Key is an
// absolute path from the form-data root.
//
// An `equals` condition is tracked by presence, so `"equals": null` requires
// an explicit null while an omitted `equals` imposes no condition.
type Dependency struct {
	Key       string
	Equals    any
	NotEmpty  *bool
	hasEquals bool
}

// DependsOnValue builds an equality dependency.
func DependsOnValue(key string, value any) Dependency {
	return Dependency{Key: key, Equals: value, hasEquals: true}
}

// DependsOnNotEmpty builds a non-empty-string dependency.
func DependsOnNotEmpty(key string) Dependency {
	yes := true
	return Dependency{Key: key, NotEmpty: &yes}
}

// HasEquals reports whether the dependency declares an equality condition.
func (d Dependency) HasEquals() bool {
	return d.hasEquals
}

// RequiresNotEmpty reports whether the dependency demands a non-empty string.
func (d Dependency) RequiresNotEmpty() bool {
	return d.NotEmpty != nil && *d.NotEmpty
}

type dependencyWire struct {
	Key      string `json:"key"`
	Equals   any    `json:"equals,omitempty"`
	NotEmpty *bool  `json:"notEmpty,omitempty"`
}

// UnmarshalJSON records whether `equals` was present in the document.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("schema: dependency: %w", err)
	}

	out := Dependency{}
	if key, ok := raw["key"]; ok {
		if err := json.Unmarshal(key, &out.Key); err != nil {
			return fmt.Errorf("schema: dependency key: %w", err)
		}
	}
	if equals, ok := raw["equals"]; ok {
		if err := json.Unmarshal(equals, &out.Equals); err != nil {
			return fmt.Errorf("schema: dependency %q equals: %w", out.Key, err)
		}
		out.hasEquals = true
	}
	if notEmpty, ok := raw["notEmpty"]; ok {
		var flag bool
		if err := json.Unmarshal(notEmpty, &flag); err != nil {
			return fmt.Errorf("schema: dependency %q notEmpty: %w", out.Key, err)
		}
		out.NotEmpty = &flag
	}

	*d = out
	return nil
}

// MarshalJSON emits `equals` only when the condition is present.
func (d Dependency) MarshalJSON() ([]byte, error) {
	if !d.hasEquals {
		return json.Marshal(dependencyWire{Key: d.Key, NotEmpty: d.NotEmpty})
	}
	out := map[string]any{"key": d.Key, "equals": d.Equals}
	if d.NotEmpty != nil {
		out["notEmpty"] = *d.NotEmpty
	}
	return json.Marshal(out)
}
