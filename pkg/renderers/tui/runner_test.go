package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/sink"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	infoMessages []string
	selects      []SelectConfig
	inputPos     int
	selectPos    int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) sawInfo(substr string) bool {
	for _, msg := range s.infoMessages {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func emailForm() *schema.Schema {
	return testsupport.SingleStep(schema.Field{Key: "email", Label: "Email", Type: schema.FieldTypeText, Required: true})
}

func newRunner(t *testing.T, driver *stubDriver, opts ...Option) *Runner {
	t.Helper()
	r, err := New(append([]Option{WithPromptDriver(driver)}, opts...)...)
	if err != nil {
		t.Fatalf("new runner: %v", err)
	}
	return r
}

func newSession(t *testing.T, doc *schema.Schema, opts ...session.Option) *session.Session {
	t.Helper()
	sess, err := session.New(doc, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess
}

func TestRun_RepromptsInvalidAnswerAndSubmits(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:    []string{"bad", "ada@example.com"},
		selectIdx: []int{0},
	}
	var delivered []sink.Submission
	sess := newSession(t, emailForm(), session.WithSinks(sink.Func(func(_ context.Context, sub sink.Submission) error {
		delivered = append(delivered, sub)
		return nil
	})))

	sub, err := newRunner(t, driver).Run(testsupport.Context(), sess)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(formdata.Data{"email": "ada@example.com"}, sub.Data); diff != "" {
		t.Fatalf("submitted data mismatch (-want +got):\n%s", diff)
	}
	if len(delivered) != 1 || delivered[0].ID != sub.ID {
		t.Fatalf("expected one delivery of %s, got %+v", sub.ID, delivered)
	}
	if !driver.sawInfo("✗ Email must be a valid email address") {
		t.Fatalf("expected validation message, got %v", driver.infoMessages)
	}
	if !driver.sawInfo("Details (Step 1 of 1)") {
		t.Fatalf("expected step header, got %v", driver.infoMessages)
	}
	if !driver.sawInfo("Review Your Information") {
		t.Fatalf("expected review summary, got %v", driver.infoMessages)
	}
}

func TestRun_SkipsHiddenFields(t *testing.T) {
	t.Parallel()

	doc := testsupport.SingleStep(
		schema.Field{Key: "hasParking", Label: "Has Parking", Type: schema.FieldTypeCheckbox},
		schema.Field{
			Key:          "parkingSpots",
			Label:        "Parking Spots",
			Type:         schema.FieldTypeNumber,
			Required:     true,
			Dependencies: []schema.Dependency{schema.DependsOnValue("hasParking", true)},
		},
	)

	cases := []struct {
		name    string
		confirm bool
		inputs  []string
		want    formdata.Data
	}{
		{name: "hidden", confirm: false, want: formdata.Data{"hasParking": false}},
		{name: "shown", confirm: true, inputs: []string{"2"}, want: formdata.Data{"hasParking": true, "parkingSpots": 2.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			driver := &stubDriver{confirm: []bool{tc.confirm}, inputs: tc.inputs, selectIdx: []int{0}}
			sub, err := newRunner(t, driver).Run(testsupport.Context(), newSession(t, doc))
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if diff := cmp.Diff(tc.want, sub.Data); diff != "" {
				t.Fatalf("data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_OptionalSelectOffersNone(t *testing.T) {
	t.Parallel()

	doc := testsupport.SingleStep(schema.Field{
		Key:     "tier",
		Label:   "Tier",
		Type:    schema.FieldTypeSelect,
		Options: []string{"basic", "pro"},
	})
	driver := &stubDriver{selectIdx: []int{0, 0}}

	sub, err := newRunner(t, driver).Run(testsupport.Context(), newSession(t, doc))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"(none)", "basic", "pro"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if got := sub.Data["tier"]; got != "" {
		t.Fatalf("expected empty tier, got %v", got)
	}
}

func TestRun_DynamicOptionsFollowEarlierAnswers(t *testing.T) {
	t.Parallel()

	doc := testsupport.SingleStep(
		schema.Field{Key: "propertyType", Label: "Property Type", Type: schema.FieldTypeSelect, Required: true, Options: []string{"house", "apartment"}},
		schema.Field{
			Key:      "bedrooms",
			Label:    "Bedrooms",
			Type:     schema.FieldTypeSelect,
			Required: true,
			OptionSource: &schema.OptionSource{
				Key: "propertyType",
				Map: map[string][]string{"apartment": {"studio", "1"}},
			},
		},
	)
	driver := &stubDriver{selectIdx: []int{1, 0, 0}}

	sub, err := newRunner(t, driver).Run(testsupport.Context(), newSession(t, doc))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"studio", "1"}, driver.selects[1].Options); diff != "" {
		t.Fatalf("bedroom options mismatch (-want +got):\n%s", diff)
	}
	if got := sub.Data["bedrooms"]; got != "studio" {
		t.Fatalf("expected studio, got %v", got)
	}
}

func TestRun_QuitFromReview(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"ada@example.com"}, selectIdx: []int{3}}
	_, err := newRunner(t, driver).Run(testsupport.Context(), newSession(t, emailForm()))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestRun_BackFromReviewReprompts(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:    []string{"ada@example.com", "grace@example.com"},
		selectIdx: []int{1, 0},
	}
	sub, err := newRunner(t, driver).Run(testsupport.Context(), newSession(t, emailForm()))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := sub.Data["email"]; got != "grace@example.com" {
		t.Fatalf("expected updated email, got %v", got)
	}
}

func TestRun_RejectedSubmitReturnsToFailingStep(t *testing.T) {
	t.Parallel()

	sess := newSession(t, emailForm())
	if out := sess.GoToStep(1); !out.OK {
		t.Fatalf("goto review: %+v", out)
	}

	driver := &stubDriver{inputs: []string{"ada@example.com"}, selectIdx: []int{0, 0}}
	sub, err := newRunner(t, driver).Run(testsupport.Context(), sess)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !driver.sawInfo("Please complete all required fields before submitting") {
		t.Fatalf("expected rejection notice, got %v", driver.infoMessages)
	}
	if sub.Data["email"] != "ada@example.com" {
		t.Fatalf("unexpected data %v", sub.Data)
	}
}

func TestRun_MaxAttemptsDefersToStepValidation(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{
		inputs:    []string{"bad", "ada@example.com"},
		selectIdx: []int{0},
	}
	_, err := newRunner(t, driver, WithMaxAttempts(1)).Run(testsupport.Context(), newSession(t, emailForm()))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	count := 0
	for _, msg := range driver.infoMessages {
		if msg == "✗ Email must be a valid email address" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected field and step failures, got %d in %v", count, driver.infoMessages)
	}
}

func TestRun_PreviousStep(t *testing.T) {
	t.Parallel()

	doc := &schema.Schema{Steps: []schema.Step{
		{Title: "One", Fields: []schema.Field{{Key: "first", Label: "First", Type: schema.FieldTypeText}}},
		{Title: "Two", Fields: []schema.Field{{Key: "second", Label: "Second", Type: schema.FieldTypeText}}},
		{Title: "Review"},
	}}
	driver := &stubDriver{
		inputs:    []string{"a", "b", "c", "d"},
		selectIdx: []int{1, 0, 0},
	}
	sub, err := newRunner(t, driver).Run(testsupport.Context(), newSession(t, doc))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(formdata.Data{"first": "c", "second": "d"}, sub.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_UnsupportedFieldIsAnnounced(t *testing.T) {
	t.Parallel()

	doc := testsupport.SingleStep(schema.Field{Key: "upload", Label: "Upload", Type: "file"})
	driver := &stubDriver{selectIdx: []int{0}}
	if _, err := newRunner(t, driver).Run(testsupport.Context(), newSession(t, doc)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !driver.sawInfo(`Field type "file" is not supported yet.`) {
		t.Fatalf("expected unsupported notice, got %v", driver.infoMessages)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRunner(t, &stubDriver{}).Run(ctx, newSession(t, emailForm()))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_PromptsFieldsOnFinalStep(t *testing.T) {
	t.Parallel()

	doc := &schema.Schema{Steps: []schema.Step{
		{Title: "Details", Fields: []schema.Field{{Key: "name", Label: "Name", Type: schema.FieldTypeText, Required: true}}},
		{Title: "Confirm", Fields: []schema.Field{{Key: "terms", Label: "Accept terms", Type: schema.FieldTypeText, Required: true}}},
	}}
	driver := &stubDriver{
		inputs:    []string{"Ada", "yes"},
		selectIdx: []int{0},
	}
	sess := newSession(t, doc)

	sub, err := newRunner(t, driver).Run(testsupport.Context(), sess)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff(formdata.Data{"name": "Ada", "terms": "yes"}, sub.Data); diff != "" {
		t.Fatalf("submitted data mismatch (-want +got):\n%s", diff)
	}
}
