package schema

import (
	"fmt"
	"strings"
)

// Severity grades a schema problem.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Problem is a single authoring issue found by Check.
type Problem struct {
	Severity Severity
	Step     int
	Path     string
	Message  string
}

func (p Problem) String() string {
	if p.Path == "" {
		return fmt.Sprintf("%s: step %d: %s", p.Severity, p.Step, p.Message)
	}
	return fmt.Sprintf("%s: step %d: %s: %s", p.Severity, p.Step, p.Path, p.Message)
}

// Problems collects the results of Check. It implements error.
type Problems []Problem

func (ps Problems) Error() string {
	if len(ps) == 0 {
		return ""
	}
	const maxShown = 3
	parts := make([]string, 0, maxShown)
	for i, p := range ps {
		if i == maxShown {
			parts = append(parts, fmt.Sprintf("... (total %d)", len(ps)))
			break
		}
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "; ")
}

// Errors returns only error-severity problems.
func (ps Problems) Errors() Problems {
	return ps.filter(SeverityError)
}

// Warnings returns only warning-severity problems.
func (ps Problems) Warnings() Problems {
	return ps.filter(SeverityWarning)
}

func (ps Problems) filter(sev Severity) Problems {
	var out Problems
	for _, p := range ps {
		if p.Severity == sev {
			out = append(out, p)
		}
	}
	return out
}

type fieldRef struct {
	field Field
	path  string
	step  int
	order int
}

// Check lints a schema. Error-severity problems make the schema unusable;
// warnings describe references that degrade silently at runtime (a field
// gated on an unknown path never shows, an option source on an unknown path
// never yields options).
func Check(s *Schema) Problems {
	if s == nil || len(s.Steps) == 0 {
		return Problems{{Severity: SeverityError, Message: ErrNoSteps.Error()}}
	}

	var (
		problems Problems
		refs     []fieldRef
		order    = make(map[string]int)
	)

	for idx, step := range s.Steps {
		if strings.TrimSpace(step.Title) == "" {
			problems = append(problems, Problem{Severity: SeverityWarning, Step: idx, Message: "step has no title"})
		}
		if idx == len(s.Steps)-1 && len(step.Fields) > 0 && len(s.Steps) > 1 {
			problems = append(problems, Problem{Severity: SeverityWarning, Step: idx, Message: "fields on the review step are never rendered"})
		}
		problems = append(problems, checkSiblings(step.Fields, "", idx)...)

		Walk(step.Fields, "", func(field Field, path string) bool {
			if _, seen := order[path]; !seen {
				order[path] = len(refs)
			}
			refs = append(refs, fieldRef{field: field, path: path, step: idx, order: len(refs)})
			return true
		})
	}

	for _, ref := range refs {
		problems = append(problems, checkField(ref)...)
		problems = append(problems, checkReferences(ref, order)...)
	}
	return problems
}

func checkSiblings(fields []Field, prefix string, step int) Problems {
	var problems Problems
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			problems = append(problems, Problem{Severity: SeverityError, Step: step, Path: prefix, Message: "field has an empty key"})
			continue
		}
		if strings.Contains(key, ".") {
			problems = append(problems, Problem{Severity: SeverityError, Step: step, Path: JoinPath(prefix, key), Message: "field key must not contain '.'"})
		}
		if _, dup := seen[key]; dup {
			problems = append(problems, Problem{Severity: SeverityError, Step: step, Path: JoinPath(prefix, key), Message: "duplicate key among siblings"})
		}
		seen[key] = struct{}{}
		if field.IsGroup() {
			problems = append(problems, checkSiblings(field.Fields, JoinPath(prefix, key), step)...)
		}
	}
	return problems
}

func checkField(ref fieldRef) Problems {
	var problems Problems
	add := func(sev Severity, format string, args ...any) {
		problems = append(problems, Problem{Severity: sev, Step: ref.step, Path: ref.path, Message: fmt.Sprintf(format, args...)})
	}

	field := ref.field
	if !field.Type.Valid() {
		add(SeverityError, "unsupported field type %q", field.Type)
	}
	if !field.Format.Valid() {
		add(SeverityError, "unsupported format %q", field.Format)
	}
	if field.IsGroup() && len(field.Fields) == 0 {
		add(SeverityError, "group has no fields")
	}
	if !field.IsGroup() && len(field.Fields) > 0 {
		add(SeverityWarning, "fields on a %s field are ignored", field.Type)
	}
	if (field.Type == FieldTypeSelect || field.Type == FieldTypeRadio) && !field.HasStaticOptions() && field.OptionSource == nil {
		add(SeverityWarning, "%s field has neither options nor optionSource", field.Type)
	}
	for _, dep := range field.Dependencies {
		if strings.TrimSpace(dep.Key) == "" {
			add(SeverityError, "dependency without key")
		}
	}
	if field.OptionSource != nil && strings.TrimSpace(field.OptionSource.Key) == "" {
		add(SeverityError, "optionSource without key")
	}
	return problems
}

func checkReferences(ref fieldRef, order map[string]int) Problems {
	var problems Problems
	check := func(kind, key string) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		target, ok := order[key]
		switch {
		case !ok:
			problems = append(problems, Problem{Severity: SeverityWarning, Step: ref.step, Path: ref.path, Message: fmt.Sprintf("%s references unknown path %q", kind, key)})
		case key == ref.path:
			problems = append(problems, Problem{Severity: SeverityWarning, Step: ref.step, Path: ref.path, Message: fmt.Sprintf("%s references the field itself", kind)})
		case target > ref.order:
			problems = append(problems, Problem{Severity: SeverityWarning, Step: ref.step, Path: ref.path, Message: fmt.Sprintf("%s references %q which is rendered later", kind, key)})
		}
	}

	for _, dep := range ref.field.Dependencies {
		check("dependency", dep.Key)
	}
	if ref.field.OptionSource != nil {
		check("optionSource", ref.field.OptionSource.Key)
	}
	return problems
}
