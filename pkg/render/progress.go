package render

import (
	"fmt"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// ProgressStatus classifies a step relative to the current one.
type ProgressStatus string

const (
	StatusComplete ProgressStatus = "complete"
	StatusCurrent  ProgressStatus = "current"
	StatusUpcoming ProgressStatus = "upcoming"
)

// ProgressStep is one entry of the step indicator.
type ProgressStep struct {
	Index  int            `json:"index"`
	Number int            `json:"number"`
	Title  string         `json:"title"`
	Status ProgressStatus `json:"status"`
}

// Progress lists every step with its status for the current index.
func Progress(s *schema.Schema, current int) []ProgressStep {
	out := make([]ProgressStep, 0, s.TotalSteps())
	for idx := 0; idx < s.TotalSteps(); idx++ {
		status := StatusUpcoming
		switch {
		case idx < current:
			status = StatusComplete
		case idx == current:
			status = StatusCurrent
		}
		out = append(out, ProgressStep{
			Index:  idx,
			Number: idx + 1,
			Title:  s.Steps[idx].Title,
			Status: status,
		})
	}
	return out
}

// StepLabel renders the navigation label, counting every step including
// review.
func StepLabel(current, total int) string {
	return fmt.Sprintf("Step %d of %d", current+1, total)
}

// EditableStepLabel renders the step header label, which does not count the
// review step.
func EditableStepLabel(current, total int) string {
	editable := total - 1
	if editable < 1 {
		editable = 1
	}
	return fmt.Sprintf("Step %d of %d", current+1, editable)
}
