package render

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/options"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// ErrUnsupportedField is returned in strict mode for a field type without a
// control.
var ErrUnsupportedField = errors.New("render: unsupported field type")

// Kind is the control a renderer draws for a field.
type Kind string

const (
	ControlText        Kind = "text"
	ControlNumber      Kind = "number"
	ControlSelect      Kind = "select"
	ControlCheckbox    Kind = "checkbox"
	ControlRadio       Kind = "radio"
	ControlDate        Kind = "date"
	ControlGroup       Kind = "group"
	ControlUnsupported Kind = "unsupported"
)

// KindOf maps a field type to its control.
func KindOf(t schema.FieldType) (Kind, error) {
	switch t {
	case schema.FieldTypeText:
		return ControlText, nil
	case schema.FieldTypeNumber:
		return ControlNumber, nil
	case schema.FieldTypeSelect:
		return ControlSelect, nil
	case schema.FieldTypeCheckbox:
		return ControlCheckbox, nil
	case schema.FieldTypeRadio:
		return ControlRadio, nil
	case schema.FieldTypeDate:
		return ControlDate, nil
	case schema.FieldTypeGroup:
		return ControlGroup, nil
	default:
		return ControlUnsupported, fmt.Errorf("%w %q", ErrUnsupportedField, t)
	}
}

// ValidationState is the per-field validation status shown to the user.
type ValidationState string

const (
	StatePristine ValidationState = "pristine"
	StateValid    ValidationState = "valid"
	StateInvalid  ValidationState = "invalid"
)

// Validation is the validation status of a field view.
type Validation struct {
	State    ValidationState `json:"state"`
	Messages []string        `json:"messages,omitempty"`
}

// FieldView is the render-ready description of one field.
type FieldView struct {
	Path         string           `json:"path"`
	Key          string           `json:"key"`
	Label        string           `json:"label"`
	Kind         Kind             `json:"kind"`
	Type         schema.FieldType `json:"type"`
	Value        any              `json:"value,omitempty"`
	Display      string           `json:"display,omitempty"`
	Visible      bool             `json:"visible"`
	Required     bool             `json:"required"`
	Options      []string         `json:"options,omitempty"`
	OptionSource options.Source   `json:"optionSource,omitempty"`
	Validation   Validation       `json:"validation"`
	Children     []FieldView      `json:"children,omitempty"`
}

// Selected reports whether option is the current value.
func (f FieldView) Selected(option string) bool {
	s, ok := f.Value.(string)
	return ok && s == option
}

// Checked reports whether a checkbox value is true.
func (f FieldView) Checked() bool {
	b, ok := f.Value.(bool)
	return ok && b
}

// StepView is the render-ready description of one step.
type StepView struct {
	Index    int            `json:"index"`
	Total    int            `json:"total"`
	Title    string         `json:"title"`
	Label    string         `json:"label"`
	Review   bool           `json:"review"`
	Fields   []FieldView    `json:"fields"`
	Progress []ProgressStep `json:"progress"`
	Errors   []string       `json:"errors,omitempty"`
}

// Flatten lists every field view depth-first, groups before their
// children.
func (s StepView) Flatten() []FieldView {
	var out []FieldView
	var walk func([]FieldView)
	walk = func(fields []FieldView) {
		for _, field := range fields {
			out = append(out, field)
			walk(field.Children)
		}
	}
	walk(s.Fields)
	return out
}

// Visible lists the visible leaf fields.
func (s StepView) Visible() []FieldView {
	var out []FieldView
	for _, field := range s.Flatten() {
		if field.Visible && field.Kind != ControlGroup {
			out = append(out, field)
		}
	}
	return out
}

// Invalid reports whether any field shows an invalid state.
func (s StepView) Invalid() bool {
	for _, field := range s.Flatten() {
		if field.Validation.State == StateInvalid {
			return true
		}
	}
	return false
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithValidator sets the validator used for field states.
func WithValidator(v *validation.Validator) BuilderOption {
	return func(b *Builder) {
		if v != nil {
			b.validator = v
		}
	}
}

// Strict makes unknown field types an error instead of an unsupported
// control.
func Strict(strict bool) BuilderOption {
	return func(b *Builder) {
		b.strict = strict
	}
}

// ShowAll reports validation for every visible field, including fields
// that were never filled in.
func ShowAll(show bool) BuilderOption {
	return func(b *Builder) {
		b.showAll = show
	}
}

// WithTouched marks paths whose validation is shown even when empty.
func WithTouched(paths ...string) BuilderOption {
	return func(b *Builder) {
		for _, path := range paths {
			if path = strings.TrimSpace(path); path != "" {
				b.touched[path] = struct{}{}
			}
		}
	}
}

// Builder turns schema steps and form data into views.
type Builder struct {
	validator *validation.Validator
	strict    bool
	showAll   bool
	touched   map[string]struct{}
}

// NewBuilder constructs a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		validator: validation.New(),
		touched:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Validator exposes the validator in use.
func (b *Builder) Validator() *validation.Validator {
	return b.validator
}

// Step builds the view of step index.
func (b *Builder) Step(s *schema.Schema, index int, data formdata.Data) (StepView, error) {
	step, ok := s.Step(index)
	if !ok {
		return StepView{}, fmt.Errorf("render: step %d out of range", index)
	}
	fields, err := b.fields(step.Fields, "", data, true)
	if err != nil {
		return StepView{}, err
	}
	total := s.TotalSteps()
	return StepView{
		Index:    index,
		Total:    total,
		Title:    step.Title,
		Label:    StepLabel(index, total),
		Review:   index == total-1,
		Fields:   fields,
		Progress: Progress(s, index),
	}, nil
}

func (b *Builder) fields(fields []schema.Field, prefix string, data formdata.Data, parentVisible bool) ([]FieldView, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]FieldView, 0, len(fields))
	for _, field := range fields {
		view, err := b.field(field, prefix, data, parentVisible)
		if err != nil {
			return nil, err
		}
		out = append(out, view)
	}
	return out, nil
}

func (b *Builder) field(field schema.Field, prefix string, data formdata.Data, parentVisible bool) (FieldView, error) {
	path := schema.JoinPath(prefix, field.Key)
	kind, err := KindOf(field.Type)
	if err != nil && b.strict {
		return FieldView{}, fmt.Errorf("%s: %w", path, err)
	}

	visible := parentVisible && b.validator.Evaluator().Visible(field, data)
	value, _ := formdata.Get(data, path)
	view := FieldView{
		Path:       path,
		Key:        field.Key,
		Label:      field.DisplayLabel(),
		Kind:       kind,
		Type:       field.Type,
		Visible:    visible,
		Required:   field.Required,
		Validation: Validation{State: StatePristine},
	}

	if kind == ControlGroup {
		children, err := b.fields(field.Fields, path, data, visible)
		if err != nil {
			return FieldView{}, err
		}
		view.Children = children
		for _, child := range children {
			if child.Validation.State == StateInvalid {
				view.Validation.State = StateInvalid
				break
			}
		}
		return view, nil
	}

	view.Value = value
	view.Display = DisplayValue(field, value)
	if kind == ControlSelect || kind == ControlRadio {
		res := options.Resolve(field, data)
		view.Options = res.Options
		view.OptionSource = res.Source
	}
	if visible && kind != ControlUnsupported && b.shouldValidate(path, value) {
		issues := b.validator.FieldIn(field, path, data)
		if len(issues) == 0 {
			view.Validation.State = StateValid
		} else {
			view.Validation.State = StateInvalid
			for _, issue := range issues {
				view.Validation.Messages = append(view.Validation.Messages, issue.Message)
			}
		}
	}
	return view, nil
}

func (b *Builder) shouldValidate(path string, value any) bool {
	if b.showAll {
		return true
	}
	if _, ok := b.touched[path]; ok {
		return true
	}
	return !formdata.IsEmpty(value)
}

// DisplayValue formats a stored value for humans. Checkboxes read Yes/No.
func DisplayValue(field schema.Field, value any) string {
	if field.Type == schema.FieldTypeCheckbox {
		if formdata.IsFalsy(value) {
			return "No"
		}
		return "Yes"
	}
	return formdata.String(value)
}

// Coerce converts raw user input into the value stored for field. Numbers
// that parse are stored as float64, checkbox input as bool; anything else is
// kept as the trimmed string.
func Coerce(field schema.Field, raw string) any {
	trimmed := strings.TrimSpace(raw)
	switch field.Type {
	case schema.FieldTypeNumber:
		if trimmed == "" {
			return ""
		}
		if n, ok := validation.ParseNumber(trimmed); ok {
			return n
		}
		return trimmed
	case schema.FieldTypeCheckbox:
		b, err := strconv.ParseBool(strings.ToLower(trimmed))
		if err != nil {
			switch strings.ToLower(trimmed) {
			case "y", "yes", "on":
				return true
			}
			return false
		}
		return b
	default:
		return trimmed
	}
}
