// Package session implements the form state machine: the active step index
// and the accumulated form data. Every change publishes a new immutable
// Snapshot; forward navigation and submission are gated on validation.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/sink"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Submission is the payload produced by Submit.
type Submission = sink.Submission

// Session holds the navigation state of one form fill. All methods are safe
// for concurrent use.
type Session struct {
	mu sync.Mutex

	schema    *schema.Schema
	validator *validation.Validator
	logger    *zap.Logger
	sinks     []sink.Sink
	now       func() time.Time

	id           string
	historyLimit int
	history      []Transition
	current      Snapshot

	subscribers map[int]func(Snapshot)
	nextSub     int
}

// New starts a session on step 0 with empty data.
func New(s *schema.Schema, opts ...Option) (*Session, error) {
	if s.TotalSteps() == 0 {
		return nil, ErrNoSchema
	}

	sess := &Session{
		schema:       s,
		validator:    validation.New(),
		logger:       zap.NewNop(),
		now:          time.Now,
		id:           xid.New().String(),
		historyLimit: DefaultHistoryLimit,
		subscribers:  make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sess)
		}
	}
	sess.logger = sess.logger.With(zap.String("session_id", sess.id))
	sess.current = sess.snapshot(0, formdata.Data{}, 0)
	return sess, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Schema returns the schema driving the session.
func (s *Session) Schema() *schema.Schema {
	return s.schema
}

// Validator returns the validator used for gating.
func (s *Session) Validator() *validation.Validator {
	return s.validator
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.detached()
}

// CurrentStep returns the schema step at the current index.
func (s *Session) CurrentStep() schema.Step {
	snap := s.Snapshot()
	step, _ := s.schema.Step(snap.Step)
	return step
}

// Issues validates the current step against the current data.
func (s *Session) Issues() validation.Issues {
	snap := s.Snapshot()
	step, _ := s.schema.Step(snap.Step)
	return s.validator.Step(step.Fields, snap.Data)
}

// UpdateField stores a copy of value at path. It always succeeds.
func (s *Session) UpdateField(path string, value any) Snapshot {
	s.mu.Lock()
	next := s.snapshot(s.current.Step, formdata.Set(s.current.Data, path, formdata.CopyValue(value)), s.current.Version+1)
	s.current = next
	s.mu.Unlock()

	s.logger.Debug("field updated", zap.String("path", path))
	s.publish(next)
	return next.detached()
}

// NextStep advances one step when the current step validates. The error is
// non-nil only when ctx is done.
func (s *Session) NextStep(ctx context.Context) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{Snapshot: s.Snapshot()}, err
	}

	s.mu.Lock()
	cur := s.current
	if cur.Step >= cur.TotalSteps-1 {
		s.mu.Unlock()
		return Outcome{Reason: ReasonLastStep, Snapshot: cur.detached()}, nil
	}
	step, _ := s.schema.Step(cur.Step)
	issues := s.validator.Step(step.Fields, cur.Data)
	if len(issues) > 0 {
		s.mu.Unlock()
		s.logger.Warn("step validation failed",
			zap.Int("step", cur.Step),
			zap.Strings("paths", issues.Paths()),
		)
		return Outcome{Reason: ReasonInvalid, Issues: issues, Snapshot: cur.detached()}, nil
	}
	next := s.moveLocked(cur.Step+1, cur.Data, TriggerNext)
	s.mu.Unlock()

	s.publish(next)
	return Outcome{OK: true, Snapshot: next.detached()}, nil
}

// PrevStep moves back one step, never below 0. It does not validate.
func (s *Session) PrevStep() Snapshot {
	s.mu.Lock()
	target := s.current.Step - 1
	if target < 0 {
		target = 0
	}
	if target == s.current.Step {
		cur := s.current
		s.mu.Unlock()
		return cur.detached()
	}
	next := s.moveLocked(target, s.current.Data, TriggerPrev)
	s.mu.Unlock()

	s.publish(next)
	return next.detached()
}

// GoToStep jumps to any step in range without validating the steps in
// between.
func (s *Session) GoToStep(index int) Outcome {
	s.mu.Lock()
	if index < 0 || index >= s.current.TotalSteps {
		cur := s.current
		s.mu.Unlock()
		return Outcome{Reason: ReasonOutOfRange, Snapshot: cur.detached()}
	}
	next := s.moveLocked(index, s.current.Data, TriggerGoTo)
	s.mu.Unlock()

	s.publish(next)
	return Outcome{OK: true, Snapshot: next.detached()}
}

// Reset returns to step 0 with empty data.
func (s *Session) Reset() Snapshot {
	s.mu.Lock()
	next := s.moveLocked(0, formdata.Data{}, TriggerReset)
	s.mu.Unlock()

	s.logger.Info("session reset")
	s.publish(next)
	return next.detached()
}

// Submit re-validates every step and, when all pass, hands a deep
// copy of the data to the configured sinks. It is only allowed on the final
// step. Rejections are returned as *RejectedError; sink failures wrap
// ErrDelivery and still return the submission.
func (s *Session) Submit(ctx context.Context) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}

	s.mu.Lock()
	cur := s.current
	if cur.Step != cur.TotalSteps-1 {
		s.mu.Unlock()
		return Submission{}, &RejectedError{Reason: ReasonNotOnReview}
	}
	if failing := s.validator.Schema(s.schema, cur.Data); len(failing) > 0 {
		s.mu.Unlock()
		rejected := &RejectedError{Reason: ReasonInvalid, Steps: failing}
		s.logger.Warn("submission rejected", zap.Strings("paths", rejected.Issues().Paths()))
		return Submission{}, rejected
	}
	sub := Submission{
		ID:          uuid.NewString(),
		SessionID:   s.id,
		SubmittedAt: s.now().UTC(),
		Data:        formdata.Clone(cur.Data),
	}
	s.recordLocked(cur.Step, cur.Step, TriggerSubmit)
	s.mu.Unlock()

	s.logger.Info("form submitted", zap.String("submission_id", sub.ID))
	if err := sink.DeliverAll(ctx, sub, s.sinks...); err != nil {
		s.logger.Error("submission delivery failed", zap.String("submission_id", sub.ID), zap.Error(err))
		return sub, fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	return sub, nil
}

// History returns the recorded transitions, oldest first.
func (s *Session) History() []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transition, len(s.history))
	copy(out, s.history)
	return out
}

// Subscribe registers fn for every new snapshot. The returned function
// removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) publish(snap Snapshot) {
	s.mu.Lock()
	subs := make([]func(Snapshot), 0, len(s.subscribers))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subscribers[id]; ok {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap.detached())
	}
}

// moveLocked switches to step with data and records the transition. The
// caller holds s.mu.
func (s *Session) moveLocked(step int, data formdata.Data, trigger string) Snapshot {
	from := s.current.Step
	s.current = s.snapshot(step, data, s.current.Version+1)
	s.recordLocked(from, step, trigger)
	s.logger.Debug("step changed", zap.Int("from", from), zap.Int("to", step), zap.String("trigger", trigger))
	return s.current
}

func (s *Session) recordLocked(from, to int, trigger string) {
	if len(s.history) >= s.historyLimit {
		evict := s.historyLimit / 10
		if evict < 1 {
			evict = 1
		}
		s.history = s.history[evict:]
	}
	s.history = append(s.history, Transition{From: from, To: to, Trigger: trigger, At: s.now()})
}

func (s *Session) snapshot(step int, data formdata.Data, version uint64) Snapshot {
	total := s.schema.TotalSteps()
	current, _ := s.schema.Step(step)
	valid := s.validator.StepValid(current.Fields, data)
	onReview := step == total-1

	return Snapshot{
		SessionID:  s.id,
		Step:       step,
		TotalSteps: total,
		Data:       data,
		Version:    version,
		Flags: Flags{
			Valid:     valid,
			CanGoNext: step < total-1 && valid,
			CanGoPrev: step > 0,
			CanSubmit: onReview && s.validator.Valid(s.schema, data),
			OnReview:  onReview,
		},
	}
}
