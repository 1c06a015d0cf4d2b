package session

import (
	"github.com/goliatone/go-formflow/pkg/formdata"
)

// Flags are the derived navigation predicates of a snapshot.
type Flags struct {
	Valid     bool `json:"valid"`
	CanGoNext bool `json:"canGoNext"`
	CanGoPrev bool `json:"canGoPrev"`
	CanSubmit bool `json:"canSubmit"`
	OnReview  bool `json:"onReview"`
}

// Snapshot is a point-in-time view of the session. Every snapshot handed out
// owns a private copy of Data, so writing to it never reaches the session;
// changes go through Session.UpdateField.
type Snapshot struct {
	SessionID  string        `json:"sessionId"`
	Step       int           `json:"step"`
	TotalSteps int           `json:"totalSteps"`
	Data       formdata.Data `json:"data"`
	Flags      Flags         `json:"flags"`
	Version    uint64        `json:"version"`
}

// Value reads the value stored at path.
func (s Snapshot) Value(path string) any {
	return formdata.Value(s.Data, path)
}

func (s Snapshot) detached() Snapshot {
	s.Data = formdata.Clone(s.Data)
	return s
}

// ReviewIndex returns the index of the final step.
func (s Snapshot) ReviewIndex() int {
	return s.TotalSteps - 1
}
