package render

import (
	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

// Copy shown around the review screen.
const (
	ReviewTitle  = "Review Your Information"
	ReviewIntro  = "Please review all the information before submitting"
	ReviewNotice = "By submitting this form, you confirm that all information provided is accurate and complete."
)

// ReviewEntry is a value line or, for groups, a heading with nested
// entries.
type ReviewEntry struct {
	Path     string        `json:"path"`
	Label    string        `json:"label"`
	Value    string        `json:"value,omitempty"`
	Group    bool          `json:"group,omitempty"`
	Children []ReviewEntry `json:"children,omitempty"`
}

// ReviewSection summarizes one editable step.
type ReviewSection struct {
	Index   int           `json:"index"`
	Title   string        `json:"title"`
	Entries []ReviewEntry `json:"entries,omitempty"`
}

// ReviewView is the read-only summary shown on the final step.
type ReviewView struct {
	Title    string          `json:"title"`
	Intro    string          `json:"intro"`
	Notice   string          `json:"notice"`
	Label    string          `json:"label"`
	Sections []ReviewSection `json:"sections"`
	Progress []ProgressStep  `json:"progress"`
	Errors   []string        `json:"errors,omitempty"`
}

// Review summarizes every editable step. Invisible fields and empty values
// are skipped; groups become headings; checkboxes read Yes/No.
func Review(s *schema.Schema, data formdata.Data, evaluator visibility.Evaluator) ReviewView {
	evaluator = visibility.Or(evaluator)
	review := s.ReviewIndex()
	view := ReviewView{
		Title:    ReviewTitle,
		Intro:    ReviewIntro,
		Notice:   ReviewNotice,
		Label:    StepLabel(review, s.TotalSteps()),
		Progress: Progress(s, review),
	}
	for idx, step := range s.EditableSteps() {
		view.Sections = append(view.Sections, ReviewSection{
			Index:   idx,
			Title:   step.Title,
			Entries: reviewEntries(step.Fields, "", data, evaluator),
		})
	}
	return view
}

func reviewEntries(fields []schema.Field, prefix string, data formdata.Data, evaluator visibility.Evaluator) []ReviewEntry {
	var out []ReviewEntry
	for _, field := range fields {
		if !evaluator.Visible(field, data) {
			continue
		}
		path := schema.JoinPath(prefix, field.Key)
		if field.IsGroup() {
			out = append(out, ReviewEntry{
				Path:     path,
				Label:    field.DisplayLabel(),
				Group:    true,
				Children: reviewEntries(field.Fields, path, data, evaluator),
			})
			continue
		}
		value, _ := formdata.Get(data, path)
		if formdata.IsEmpty(value) {
			continue
		}
		out = append(out, ReviewEntry{
			Path:  path,
			Label: field.DisplayLabel(),
			Value: DisplayValue(field, value),
		})
	}
	return out
}
