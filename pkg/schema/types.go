package schema

import (
	"errors"
	"strings"
)

// FieldType enumerates the supported field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeNumber   FieldType = "number"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeGroup    FieldType = "group"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeNumber, FieldTypeSelect, FieldTypeCheckbox,
		FieldTypeRadio, FieldTypeDate, FieldTypeGroup:
		return true
	default:
		return false
	}
}

// Format declares the semantic validation applied to a field value.
type Format string

const (
	FormatNone     Format = ""
	FormatEmail    Format = "email"
	FormatName     Format = "name"
	FormatPhone    Format = "phone"
	FormatLocation Format = "location"
	FormatSize     Format = "size"
	FormatCount    Format = "count"
)

// Valid reports whether f is empty or one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatNone, FormatEmail, FormatName, FormatPhone, FormatLocation,
		FormatSize, FormatCount:
		return true
	default:
		return false
	}
}

// ErrNoSteps is returned when a schema declares no steps.
var ErrNoSteps = errors.New("schema: no steps defined")

// Schema is the root document: an ordered list of steps. The last step is
// the review step.
type Schema struct {
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one page of the form.
type Step struct {
	Title  string  `json:"title" yaml:"title"`
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field describes a single input or a group of nested inputs.
type Field struct {
	Key          string        `json:"key" yaml:"key"`
	Label        string        `json:"label" yaml:"label"`
	Type         FieldType     `json:"type" yaml:"type"`
	Required     bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Format       Format        `json:"format,omitempty" yaml:"format,omitempty"`
	Options      []string      `json:"options,omitempty" yaml:"options,omitempty"`
	OptionSource *OptionSource `json:"optionSource,omitempty" yaml:"optionSource,omitempty"`
	Dependencies []Dependency  `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Fields       []Field       `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// OptionSource selects a field's options from another field's value.
type OptionSource struct {
	Key string              `json:"key" yaml:"key"`
	Map map[string][]string `json:"map" yaml:"map"`
}

// IsGroup reports whether the field nests child fields.
func (f Field) IsGroup() bool {
	return f.Type == FieldTypeGroup
}

// DisplayLabel returns the label, falling back to the key.
func (f Field) DisplayLabel() string {
	if label := strings.TrimSpace(f.Label); label != "" {
		return label
	}
	return f.Key
}

// HasStaticOptions reports whether the field declares an options list. An
// explicitly empty list still counts.
func (f Field) HasStaticOptions() bool {
	return f.Options != nil
}

// TotalSteps returns the number of steps including the review step.
func (s *Schema) TotalSteps() int {
	if s == nil {
		return 0
	}
	return len(s.Steps)
}

// ReviewIndex returns the index of the review step, or -1 for an empty
// schema.
func (s *Schema) ReviewIndex() int {
	return s.TotalSteps() - 1
}

// Step returns the step at index i.
func (s *Schema) Step(i int) (Step, bool) {
	if s == nil || i < 0 || i >= len(s.Steps) {
		return Step{}, false
	}
	return s.Steps[i], true
}

// EditableSteps returns every step except the trailing review step.
func (s *Schema) EditableSteps() []Step {
	if s.TotalSteps() <= 1 {
		return nil
	}
	return s.Steps[:len(s.Steps)-1]
}

// JoinPath composes a dotted field path.
func JoinPath(parent, key string) string {
	parent = strings.TrimSpace(parent)
	key = strings.TrimSpace(key)
	if parent == "" {
		return key
	}
	if key == "" {
		return parent
	}
	return parent + "." + key
}

// WalkFunc is called for each field with its composed path. Returning false
// skips the children of a group.
type WalkFunc func(field Field, path string) bool

// Walk visits fields depth-first in render order.
func Walk(fields []Field, prefix string, fn WalkFunc) {
	for _, field := range fields {
		path := JoinPath(prefix, field.Key)
		if !fn(field, path) {
			continue
		}
		if field.IsGroup() && len(field.Fields) > 0 {
			Walk(field.Fields, path, fn)
		}
	}
}

// FieldPaths returns every field path in render order across all steps.
func (s *Schema) FieldPaths() []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, step := range s.Steps {
		Walk(step.Fields, "", func(_ Field, path string) bool {
			out = append(out, path)
			return true
		})
	}
	return out
}

// Lookup finds the field addressed by path.
func (s *Schema) Lookup(path string) (Field, bool) {
	if s == nil || strings.TrimSpace(path) == "" {
		return Field{}, false
	}
	var (
		found Field
		ok    bool
	)
	for _, step := range s.Steps {
		Walk(step.Fields, "", func(field Field, candidate string) bool {
			if ok {
				return false
			}
			if candidate == path {
				found, ok = field, true
				return false
			}
			return strings.HasPrefix(path, candidate+".")
		})
		if ok {
			break
		}
	}
	return found, ok
}
