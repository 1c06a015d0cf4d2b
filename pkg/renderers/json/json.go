// Package json renders views as JSON documents for API clients and
// client-side renderers.
package json

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formflow/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "json"

// Document kinds.
const (
	KindStep   = "step"
	KindReview = "review"
)

// Document is the envelope written by the renderer. Exactly one of Step and
// Review is set.
type Document struct {
	Kind   string             `json:"kind"`
	Step   *render.StepView   `json:"step,omitempty"`
	Review *render.ReviewView `json:"review,omitempty"`
}

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent pretty-prints output using indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer encodes views with goccy/go-json.
type Renderer struct {
	indent string
}

// New constructs a JSON renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "application/json" }

func (r *Renderer) RenderStep(ctx context.Context, step render.StepView) ([]byte, error) {
	return r.encode(ctx, Document{Kind: KindStep, Step: &step})
}

func (r *Renderer) RenderReview(ctx context.Context, review render.ReviewView) ([]byte, error) {
	return r.encode(ctx, Document{Kind: KindReview, Review: &review})
}

func (r *Renderer) encode(ctx context.Context, doc Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		out []byte
		err error
	)
	if r.indent != "" {
		out, err = json.MarshalIndentWithOption(doc, "", r.indent, json.DisableHTMLEscape())
	} else {
		out, err = json.MarshalWithOption(doc, json.DisableHTMLEscape())
	}
	if err != nil {
		return nil, fmt.Errorf("json: encode %s: %w", doc.Kind, err)
	}
	return out, nil
}

// Decode reads a document produced by the renderer.
func Decode(payload []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return Document{}, fmt.Errorf("json: decode: %w", err)
	}
	return doc, nil
}
