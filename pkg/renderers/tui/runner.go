// Package tui drives a form session interactively in a terminal. Prompts
// are issued through a PromptDriver so the flow can be scripted in tests.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/options"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/text"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Review screen actions, in menu order.
const (
	ActionSubmit  = "Submit"
	ActionBack    = "Back"
	ActionRestart = "Start over"
	ActionQuit    = "Quit"
)

// Step navigation actions offered after the fields of a step.
const (
	ActionNext     = "Next"
	ActionPrevious = "Previous"
)

const skipOption = "(none)"

// Runner walks a session from its current step to submission.
type Runner struct {
	driver      PromptDriver
	theme       Theme
	logger      *zap.Logger
	review      render.Renderer
	maxAttempts int
}

// New constructs a Runner with the survey driver and the text review
// renderer.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		driver: NewSurveyDriver(),
		theme:  DefaultTheme,
		logger: zap.NewNop(),
		review: text.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		return nil, ErrNoDriver
	}
	return r, nil
}

// Run prompts until the form is submitted or the user aborts. A submission
// whose delivery failed is returned together with the delivery error.
func (r *Runner) Run(ctx context.Context, sess *session.Session) (session.Submission, error) {
	if sess == nil {
		return session.Submission{}, errors.New("tui: session is required")
	}
	ctrl := render.NewController(sess)

	for {
		if err := ctx.Err(); err != nil {
			return session.Submission{}, err
		}

		snap := sess.Snapshot()
		if snap.Flags.OnReview {
			sub, done, err := r.reviewScreen(ctx, ctrl)
			if err != nil || done {
				return sub, err
			}
			continue
		}

		if err := r.promptStep(ctx, ctrl); err != nil {
			return session.Submission{}, err
		}
		if err := r.navigate(ctx, ctrl); err != nil {
			return session.Submission{}, err
		}
	}
}

func (r *Runner) promptStep(ctx context.Context, ctrl *render.Controller) error {
	sess := ctrl.Session()
	snap := sess.Snapshot()
	step := sess.CurrentStep()

	header := fmt.Sprintf("%s (%s)", step.Title, render.EditableStepLabel(snap.Step, snap.TotalSteps))
	if err := r.info(ctx, header); err != nil {
		return err
	}
	return r.promptFields(ctx, ctrl, step.Fields, "")
}

// promptFields re-reads the snapshot for every field so answers given
// earlier in the step affect visibility and options of later fields.
func (r *Runner) promptFields(ctx context.Context, ctrl *render.Controller, fields []schema.Field, prefix string) error {
	sess := ctrl.Session()
	for _, field := range fields {
		data := sess.Snapshot().Data
		if !sess.Validator().Evaluator().Visible(field, data) {
			continue
		}
		path := schema.JoinPath(prefix, field.Key)
		if field.IsGroup() {
			if err := r.info(ctx, field.DisplayLabel()); err != nil {
				return err
			}
			if err := r.promptFields(ctx, ctrl, field.Fields, path); err != nil {
				return err
			}
			continue
		}
		if err := r.promptField(ctx, ctrl, field, path); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) promptField(ctx context.Context, ctrl *render.Controller, field schema.Field, path string) error {
	if _, err := render.KindOf(field.Type); err != nil {
		r.logger.Warn("skipping unsupported field", zap.String("path", path), zap.String("type", string(field.Type)))
		return r.info(ctx, fmt.Sprintf("Field type %q is not supported yet.", field.Type))
	}

	sess := ctrl.Session()
	for attempt := 1; ; attempt++ {
		data := sess.Snapshot().Data
		current, _ := formdata.Get(data, path)

		value, err := r.ask(ctx, field, current, data)
		if err != nil {
			return err
		}

		candidate := formdata.Set(data, path, value)
		issues := sess.Validator().FieldIn(field, path, candidate)
		if len(issues) == 0 {
			ctrl.OnFieldChange(path, value)
			return nil
		}
		for _, issue := range issues {
			if err := r.fail(ctx, issue.Message); err != nil {
				return err
			}
		}
		if r.maxAttempts > 0 && attempt >= r.maxAttempts {
			ctrl.OnFieldChange(path, value)
			return nil
		}
	}
}

func (r *Runner) ask(ctx context.Context, field schema.Field, current any, data formdata.Data) (any, error) {
	label := field.DisplayLabel()
	if field.Required {
		label += " *"
	}

	switch field.Type {
	case schema.FieldTypeCheckbox:
		b, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: b})
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		res := options.Resolve(field, data)
		if res.Empty() {
			break
		}
		choices := res.Options
		if !field.Required {
			choices = append([]string{skipOption}, choices...)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      choices,
			DefaultIndex: indexOf(choices, formdata.String(current)),
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(choices) || choices[idx] == skipOption {
			return "", nil
		}
		return choices[idx], nil
	}

	help := ""
	if field.Type == schema.FieldTypeDate {
		help = "YYYY-MM-DD"
	}
	raw, err := r.driver.Input(ctx, InputConfig{
		Message: label,
		Default: formdata.String(current),
		Help:    help,
	})
	if err != nil {
		return nil, err
	}
	return render.Coerce(field, raw), nil
}

func (r *Runner) navigate(ctx context.Context, ctrl *render.Controller) error {
	sess := ctrl.Session()
	if sess.Snapshot().Flags.CanGoPrev {
		idx, err := r.driver.Select(ctx, SelectConfig{Message: "Continue", Options: []string{ActionNext, ActionPrevious}})
		if err != nil {
			return err
		}
		if idx == 1 {
			sess.PrevStep()
			return nil
		}
	}

	out, err := sess.NextStep(ctx)
	if err != nil {
		return err
	}
	if out.OK {
		return nil
	}
	ctrl.TouchStep()
	for _, issue := range out.Issues {
		if err := r.fail(ctx, issue.Message); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) reviewScreen(ctx context.Context, ctrl *render.Controller) (session.Submission, bool, error) {
	sess := ctrl.Session()
	// The final step may carry its own fields, e.g. a consent checkbox.
	if fields := sess.CurrentStep().Fields; len(fields) > 0 {
		if err := r.promptFields(ctx, ctrl, fields, ""); err != nil {
			return session.Submission{}, false, err
		}
	}
	page, err := r.review.RenderReview(ctx, ctrl.Review())
	if err != nil {
		return session.Submission{}, false, fmt.Errorf("tui: render review: %w", err)
	}
	if err := r.info(ctx, strings.TrimRight(string(page), "\n")); err != nil {
		return session.Submission{}, false, err
	}

	actions := []string{ActionSubmit, ActionBack, ActionRestart, ActionQuit}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: actions})
	if err != nil {
		return session.Submission{}, false, err
	}

	switch {
	case idx == 0:
		return r.submit(ctx, ctrl)
	case idx == 1:
		sess.PrevStep()
	case idx == 2:
		sess.Reset()
		ctrl.Reset()
	default:
		return session.Submission{}, false, ErrAborted
	}
	return session.Submission{}, false, nil
}

func (r *Runner) submit(ctx context.Context, ctrl *render.Controller) (session.Submission, bool, error) {
	sess := ctrl.Session()
	sub, err := sess.Submit(ctx)
	if err == nil {
		return sub, true, nil
	}

	var rejected *session.RejectedError
	if !errors.As(err, &rejected) {
		return sub, sub.ID != "", err
	}
	if err := r.fail(ctx, "Please complete all required fields before submitting"); err != nil {
		return session.Submission{}, false, err
	}
	first := -1
	for idx := range rejected.Steps {
		if first < 0 || idx < first {
			first = idx
		}
	}
	if first >= 0 {
		sess.GoToStep(first)
		ctrl.TouchStep()
	}
	return session.Submission{}, false, nil
}

func (r *Runner) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) fail(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}
