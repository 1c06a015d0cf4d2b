// Package visibility decides whether a field is shown for the current form
// data. The default evaluator requires every declared dependency to hold.
package visibility

import (
	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// Evaluator determines whether a field should be visible given the current
// form data.
type Evaluator interface {
	Visible(field schema.Field, data formdata.Data) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field schema.Field, data formdata.Data) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(field schema.Field, data formdata.Data) bool {
	return fn(field, data)
}

// Dependencies is the default evaluator: a field is visible iff all of its
// dependencies are satisfied. Dependency keys are absolute paths from the
// root of the form data, also for fields nested inside groups.
type Dependencies struct{}

// Default is the shared Dependencies evaluator.
var Default Evaluator = Dependencies{}

// Visible implements Evaluator.
func (Dependencies) Visible(field schema.Field, data formdata.Data) bool {
	for _, dep := range field.Dependencies {
		if !Satisfied(dep, data) {
			return false
		}
	}
	return true
}

// Satisfied evaluates a single dependency. An equals condition compares the
// stored value strictly and never holds for a missing value, so equals null
// matches only an explicit null. notEmpty=true requires a non-empty string.
// A dependency declaring neither condition always holds.
func Satisfied(dep schema.Dependency, data formdata.Data) bool {
	value, present := formdata.Get(data, dep.Key)
	if dep.HasEquals() && (!present || !formdata.Equal(value, dep.Equals)) {
		return false
	}
	if dep.RequiresNotEmpty() {
		s, ok := value.(string)
		if !ok || s == "" {
			return false
		}
	}
	return true
}

// Unmet returns the dependencies of field that do not hold.
func Unmet(field schema.Field, data formdata.Data) []schema.Dependency {
	var out []schema.Dependency
	for _, dep := range field.Dependencies {
		if !Satisfied(dep, data) {
			out = append(out, dep)
		}
	}
	return out
}

// Or returns e, or Default when e is nil.
func Or(e Evaluator) Evaluator {
	if e == nil {
		return Default
	}
	return e
}
