package session

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goliatone/go-formflow/pkg/validation"
)

// Reason explains why a transition was refused.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonLastStep    Reason = "last_step"
	ReasonInvalid     Reason = "invalid"
	ReasonOutOfRange  Reason = "out_of_range"
	ReasonNotOnReview Reason = "not_on_review"
)

// Errors returned by the session.
var (
	ErrNoSchema = errors.New("session: schema has no steps")
	ErrDelivery = errors.New("session: submission delivery failed")
)

// Outcome reports the result of a navigation request. On refusal the
// snapshot is the unchanged current state.
type Outcome struct {
	OK       bool
	Reason   Reason
	Issues   validation.Issues
	Snapshot Snapshot
}

// RejectedError is returned by Submit when the form cannot be submitted.
type RejectedError struct {
	Reason Reason
	Steps  map[int]validation.Issues
}

func (e *RejectedError) Error() string {
	if e.Reason != ReasonInvalid || len(e.Steps) == 0 {
		return fmt.Sprintf("session: submit rejected: %s", e.Reason)
	}
	steps := make([]int, 0, len(e.Steps))
	for idx := range e.Steps {
		steps = append(steps, idx)
	}
	sort.Ints(steps)
	return fmt.Sprintf("session: submit rejected: step %d: %v", steps[0], e.Steps[steps[0]])
}

// Issues flattens the per-step issues in step order.
func (e *RejectedError) Issues() validation.Issues {
	steps := make([]int, 0, len(e.Steps))
	for idx := range e.Steps {
		steps = append(steps, idx)
	}
	sort.Ints(steps)
	var out validation.Issues
	for _, idx := range steps {
		out = append(out, e.Steps[idx]...)
	}
	return out
}

// Transition records a step change.
type Transition struct {
	From    int       `json:"from"`
	To      int       `json:"to"`
	Trigger string    `json:"trigger"`
	At      time.Time `json:"at"`
}

// Transition triggers.
const (
	TriggerNext   = "next"
	TriggerPrev   = "prev"
	TriggerGoTo   = "goto"
	TriggerReset  = "reset"
	TriggerSubmit = "submit"
)
