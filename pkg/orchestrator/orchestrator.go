// Package orchestrator wires schema loading, sessions, view building and
// the renderer registry behind a single entry point.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/renderers/html"
	jsonrenderer "github.com/goliatone/go-formflow/pkg/renderers/json"
	"github.com/goliatone/go-formflow/pkg/renderers/text"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/validation"
)

const defaultRendererName = text.Name

// Option customises the orchestrator.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer sets the renderer used when a request names none.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithValidator sets the validator shared by sessions and views.
func WithValidator(v *validation.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithLogger sets the logger handed to sessions.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHTMLOptions configures the default html renderer.
func WithHTMLOptions(opts ...html.Option) Option {
	return func(o *Orchestrator) {
		o.htmlOptions = append(o.htmlOptions, opts...)
	}
}

// WithStrict makes unsupported field types fail rendering.
func WithStrict(strict bool) Option {
	return func(o *Orchestrator) {
		o.strict = strict
	}
}

// Orchestrator loads schemas, starts sessions and renders views through
// named renderers. The default registry holds the html, json and text
// renderers.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	validator       *validation.Validator
	logger          *zap.Logger
	htmlOptions     []html.Option
	strict          bool
	initialiseErr   error
}

// New constructs an Orchestrator, filling missing dependencies with the
// built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	o.applyDefaults()
	return o
}

// Request describes what to render.
type Request struct {
	// Schema is the form document. Optional when Source is set.
	Schema *schema.Schema
	// Source names a schema file, read from FS when set and from disk
	// otherwise.
	Source string
	FS     fs.FS

	// Step selects the step to render; the review index renders the review.
	Step int
	Data formdata.Data

	// Renderer names the renderer; empty uses the default.
	Renderer string

	// Errors carries externally produced messages keyed by field path.
	Errors map[string][]string

	// Touched and ShowAll control which fields report validation.
	Touched []string
	ShowAll bool
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Validator exposes the validator shared with sessions.
func (o *Orchestrator) Validator() *validation.Validator {
	return o.validator
}

// Load reads a schema document.
func (o *Orchestrator) Load(req Request) (*schema.Schema, error) {
	if req.Schema != nil {
		return req.Schema, nil
	}
	if req.Source == "" {
		return nil, errors.New("orchestrator: schema or source is required")
	}
	var (
		doc *schema.Schema
		err error
	)
	if req.FS != nil {
		doc, err = schema.LoadFS(req.FS, req.Source)
	} else {
		doc, err = schema.LoadFile(req.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load schema: %w", err)
	}
	if warnings := schema.Check(doc).Warnings(); len(warnings) > 0 {
		o.logger.Warn("schema warnings", zap.String("source", req.Source), zap.Int("count", len(warnings)), zap.Error(warnings))
	}
	return doc, nil
}

// NewSession starts a session on s sharing the orchestrator's validator and
// logger. Later options win.
func (o *Orchestrator) NewSession(s *schema.Schema, opts ...session.Option) (*session.Session, error) {
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}
	base := []session.Option{session.WithLogger(o.logger), session.WithValidator(o.validator)}
	return session.New(s, append(base, opts...)...)
}

// Generate loads the schema if needed, builds the requested view and
// renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.initialiseErr != nil {
		return nil, o.initialiseErr
	}

	doc, err := o.Load(req)
	if err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	mapping := render.MapErrorPayload(doc, req.Errors)

	if req.Step == doc.ReviewIndex() {
		review := render.Review(doc, req.Data, o.validator.Evaluator())
		review.Errors = reviewErrors(doc, mapping)
		out, err := renderer.RenderReview(ctx, review)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: render review: %w", err)
		}
		return out, nil
	}

	builder := render.NewBuilder(
		render.WithValidator(o.validator),
		render.Strict(o.strict),
		render.ShowAll(req.ShowAll),
		render.WithTouched(req.Touched...),
	)
	view, err := builder.Step(doc, req.Step, req.Data)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build step: %w", err)
	}
	ApplyErrors(&view, mapping)

	out, err := renderer.RenderStep(ctx, view)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render step: %w", err)
	}
	return out, nil
}

// RenderSession renders the current step of sess. When showAll is set every
// visible field reports its validation state, which suits redisplay after a
// refused NextStep.
func (o *Orchestrator) RenderSession(ctx context.Context, sess *session.Session, rendererName string, showAll bool) ([]byte, error) {
	snap := sess.Snapshot()
	return o.Generate(ctx, Request{
		Schema:   sess.Schema(),
		Step:     snap.Step,
		Data:     snap.Data,
		Renderer: rendererName,
		ShowAll:  showAll,
	})
}

// ApplyErrors marks fields of view named by mapping invalid and appends
// their messages. Form-level messages become step errors.
func ApplyErrors(view *render.StepView, mapping render.ErrorMapping) {
	if view == nil || mapping.Empty() {
		return
	}
	view.Errors = append(view.Errors, mapping.Form...)
	view.Fields = applyFieldErrors(view.Fields, mapping)
}

func applyFieldErrors(fields []render.FieldView, mapping render.ErrorMapping) []render.FieldView {
	for i := range fields {
		field := &fields[i]
		if len(field.Children) > 0 {
			field.Children = applyFieldErrors(field.Children, mapping)
			for _, child := range field.Children {
				if child.Validation.State == render.StateInvalid {
					field.Validation.State = render.StateInvalid
				}
			}
		}
		messages := mapping.For(field.Path)
		if len(messages) == 0 {
			continue
		}
		field.Validation.State = render.StateInvalid
		for _, msg := range messages {
			if !containsString(field.Validation.Messages, msg) {
				field.Validation.Messages = append(field.Validation.Messages, msg)
			}
		}
	}
	return fields
}

func reviewErrors(doc *schema.Schema, mapping render.ErrorMapping) []string {
	out := append([]string(nil), mapping.Form...)
	paths := make([]string, 0, len(mapping.Fields))
	for path := range mapping.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		label := path
		if field, ok := doc.Lookup(path); ok {
			label = field.DisplayLabel()
		}
		for _, msg := range mapping.Fields[path] {
			out = append(out, label+": "+msg)
		}
	}
	return out
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.Names()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.validator == nil {
		o.validator = validation.New()
	}
	if o.registry != nil {
		return
	}
	htmlRenderer, err := html.New(o.htmlOptions...)
	if err != nil {
		o.initialiseErr = fmt.Errorf("orchestrator: default html renderer: %w", err)
		return
	}
	o.registry, o.initialiseErr = render.NewRegistry(htmlRenderer, jsonrenderer.New(), text.New())
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
