// Package validation checks field values and whole steps against the schema.
// Failures are reported as Issues carrying the composed field path, a stable
// code and a human readable message.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/options"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

var (
	emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]{7,15}$`)
)

// Limits applied by the semantic formats.
const (
	NameMinLength     = 2
	NameMaxLength     = 50
	PhoneMinLength    = 7
	PhoneMaxLength    = 15
	LocationMinLength = 3
	LocationMaxLength = 100
	SizeMax           = 100000
	CountMin          = 1
	CountMax          = 50
)

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry replaces the format registry.
func WithRegistry(reg *FormatRegistry) Option {
	return func(v *Validator) {
		if reg != nil {
			v.formats = reg
		}
	}
}

// WithInference toggles key-based format inference. Explicit formats are
// always honoured.
func WithInference(enabled bool) Option {
	return func(v *Validator) {
		if enabled {
			v.formats = NewFormatRegistry()
			return
		}
		v.formats = NewExplicitRegistry()
	}
}

// WithEvaluator replaces the visibility evaluator used by step validation.
func WithEvaluator(e visibility.Evaluator) Option {
	return func(v *Validator) {
		v.visibility = visibility.Or(e)
	}
}

// Validator validates fields, steps and whole schemas. The zero value is not
// usable; construct with New.
type Validator struct {
	formats    *FormatRegistry
	visibility visibility.Evaluator
}

// New constructs a Validator with inference enabled and the default
// dependency evaluator.
func New(opts ...Option) *Validator {
	v := &Validator{
		formats:    NewFormatRegistry(),
		visibility: visibility.Default,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	return v
}

// Evaluator exposes the visibility evaluator in use.
func (v *Validator) Evaluator() visibility.Evaluator {
	return v.visibility
}

// Format returns the semantic format applied to the field at path.
func (v *Validator) Format(field schema.Field, path string) schema.Format {
	return v.formats.Resolve(field, path)
}

// Field validates a single value. Select membership is checked against the
// static option list only; Step also honours dynamic option sources.
func (v *Validator) Field(field schema.Field, value any, path string) Issues {
	var allowed []string
	if field.HasStaticOptions() {
		allowed = field.Options
	}
	return v.field(field, value, path, allowed)
}

// FieldIn validates the value of the field at path inside data, resolving
// dynamic options against data.
func (v *Validator) FieldIn(field schema.Field, path string, data formdata.Data) Issues {
	value := formdata.Value(data, path)
	return v.field(field, value, path, options.List(field, data))
}

func (v *Validator) field(field schema.Field, value any, path string, allowed []string) Issues {
	if path == "" {
		path = field.Key
	}
	label := field.DisplayLabel()

	if field.Required && formdata.IsEmpty(value) {
		return Issues{{
			Path:    path,
			Code:    CodeRequired,
			Message: fmt.Sprintf("%s is required", label),
			Label:   label,
		}}
	}
	if formdata.IsFalsy(value) && !field.Required {
		return nil
	}

	format := v.formats.Resolve(field, path)
	var issue *Issue
	switch field.Type {
	case schema.FieldTypeText:
		issue = checkText(format, value)
	case schema.FieldTypeNumber:
		issue = checkNumber(format, value)
	case schema.FieldTypeSelect:
		issue = checkOption(allowed, value)
	}
	if issue == nil {
		return nil
	}
	issue.Path = path
	issue.Label = label
	issue.Message = label + " " + issue.Message
	return Issues{*issue}
}

func checkText(format schema.Format, value any) *Issue {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	length := utf8.RuneCountInString(s)

	switch format {
	case schema.FormatEmail:
		if !emailPattern.MatchString(s) {
			return &Issue{Code: CodeInvalidEmail, Message: "must be a valid email address"}
		}
	case schema.FormatName:
		if issue := checkLength(length, NameMinLength, NameMaxLength); issue != nil {
			return issue
		}
		if !namePattern.MatchString(s) {
			return &Issue{Code: CodeInvalidName, Message: "may only contain letters and spaces"}
		}
	case schema.FormatPhone:
		if issue := checkLength(length, PhoneMinLength, PhoneMaxLength); issue != nil {
			return issue
		}
		if !phonePattern.MatchString(s) {
			return &Issue{Code: CodeInvalidPhone, Message: "may only contain digits, spaces and + - ( )"}
		}
	case schema.FormatLocation:
		return checkLength(length, LocationMinLength, LocationMaxLength)
	}
	return nil
}

func checkLength(length, lo, hi int) *Issue {
	params := map[string]any{"min": lo, "max": hi, "got": length}
	switch {
	case length < lo:
		return &Issue{Code: CodeTooShort, Message: fmt.Sprintf("must be at least %d characters", lo), Params: params}
	case length > hi:
		return &Issue{Code: CodeTooLong, Message: fmt.Sprintf("must be at most %d characters", hi), Params: params}
	}
	return nil
}

// ParseNumber converts a stored value to a finite number. Strings are
// trimmed and parsed strictly.
func ParseNumber(value any) (float64, bool) {
	if s, ok := value.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	n, ok := formdata.Number(value)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func checkNumber(format schema.Format, value any) *Issue {
	if _, isString := value.(string); !isString {
		if _, ok := formdata.Number(value); !ok {
			return &Issue{Code: CodeInvalidType, Message: "must be a number", Params: map[string]any{"got": fmt.Sprintf("%T", value)}}
		}
	}
	n, ok := ParseNumber(value)
	if !ok {
		return &Issue{Code: CodeNotANumber, Message: "must be a number"}
	}

	switch format {
	case schema.FormatSize:
		if n <= 0 || n > SizeMax {
			return &Issue{
				Code:    CodeOutOfRange,
				Message: fmt.Sprintf("must be greater than 0 and at most %d", SizeMax),
				Params:  map[string]any{"min": 0, "max": SizeMax, "got": n},
			}
		}
	case schema.FormatCount:
		if n != math.Trunc(n) {
			return &Issue{Code: CodeNotInteger, Message: "must be a whole number", Params: map[string]any{"got": n}}
		}
		if n < CountMin || n > CountMax {
			return &Issue{
				Code:    CodeOutOfRange,
				Message: fmt.Sprintf("must be between %d and %d", CountMin, CountMax),
				Params:  map[string]any{"min": CountMin, "max": CountMax, "got": n},
			}
		}
	}
	return nil
}

func checkOption(allowed []string, value any) *Issue {
	if len(allowed) == 0 {
		return nil
	}
	if s, ok := value.(string); ok {
		for _, opt := range allowed {
			if opt == s {
				return nil
			}
		}
	}
	return &Issue{
		Code:    CodeInvalidOption,
		Message: "must be one of the available options",
		Params:  map[string]any{"options": append([]string(nil), allowed...)},
	}
}

// Step validates the fields of one step against data. Invisible fields are
// skipped together with their children; groups recurse with the composed
// path.
func (v *Validator) Step(fields []schema.Field, data formdata.Data) Issues {
	return v.walk(fields, data, "")
}

// StepValid reports whether Step yields no issues.
func (v *Validator) StepValid(fields []schema.Field, data formdata.Data) bool {
	return len(v.Step(fields, data)) == 0
}

func (v *Validator) walk(fields []schema.Field, data formdata.Data, prefix string) Issues {
	var out Issues
	for _, field := range fields {
		if !v.visibility.Visible(field, data) {
			continue
		}
		path := schema.JoinPath(prefix, field.Key)
		if field.IsGroup() {
			out = append(out, v.walk(field.Fields, data, path)...)
			continue
		}
		out = append(out, v.FieldIn(field, path, data)...)
	}
	return out
}

// Schema validates every step, the final one included. Only failing steps
// appear in the result, keyed by step index.
func (v *Validator) Schema(s *schema.Schema, data formdata.Data) map[int]Issues {
	out := make(map[int]Issues)
	if s == nil {
		return out
	}
	for idx, step := range s.Steps {
		if issues := v.Step(step.Fields, data); len(issues) > 0 {
			out[idx] = issues
		}
	}
	return out
}

// Valid reports whether every step validates.
func (v *Validator) Valid(s *schema.Schema, data formdata.Data) bool {
	if s == nil {
		return true
	}
	for _, step := range s.Steps {
		if !v.StepValid(step.Fields, data) {
			return false
		}
	}
	return true
}
