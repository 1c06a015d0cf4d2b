// Package text renders steps and the review screen as plain terminal text.
package text

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "text"

// Renderer writes indented plain text.
type Renderer struct {
	indent string
}

// Option configures the renderer.
type Option func(*Renderer)

// WithIndent sets the indentation unit. The default is two spaces.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New constructs a text renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{indent: "  "}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// RenderStep lists the visible fields of a step with values, options and
// validation messages.
func (r *Renderer) RenderStep(ctx context.Context, step render.StepView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n%s\n", step.Title, step.Label, progressLine(step.Progress))
	for _, msg := range step.Errors {
		fmt.Fprintf(&b, "! %s\n", msg)
	}
	b.WriteString("\n")
	r.writeFields(&b, step.Fields, 1)
	return []byte(b.String()), nil
}

func (r *Renderer) writeFields(b *strings.Builder, fields []render.FieldView, depth int) {
	pad := strings.Repeat(r.indent, depth)
	for _, field := range fields {
		if !field.Visible {
			continue
		}
		label := field.Label
		if field.Required {
			label += " *"
		}
		switch field.Kind {
		case render.ControlGroup:
			fmt.Fprintf(b, "%s%s\n", pad, label)
			r.writeFields(b, field.Children, depth+1)
			continue
		case render.ControlUnsupported:
			fmt.Fprintf(b, "%s%s: field type %q is not supported yet\n", pad, label, field.Type)
			continue
		}
		fmt.Fprintf(b, "%s%s: %s\n", pad, label, field.Display)
		if len(field.Options) > 0 {
			fmt.Fprintf(b, "%s%soptions: %s\n", pad, r.indent+r.indent, strings.Join(field.Options, ", "))
		}
		for _, msg := range field.Validation.Messages {
			fmt.Fprintf(b, "%s%s! %s\n", pad, r.indent+r.indent, msg)
		}
	}
}

// RenderReview writes the read-only summary.
func (r *Renderer) RenderReview(ctx context.Context, review render.ReviewView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", review.Title, review.Intro)
	for _, msg := range review.Errors {
		fmt.Fprintf(&b, "! %s\n", msg)
	}
	for _, section := range review.Sections {
		fmt.Fprintf(&b, "\n%s\n", section.Title)
		r.writeEntries(&b, section.Entries, 1)
	}
	fmt.Fprintf(&b, "\n%s\n", review.Notice)
	return []byte(b.String()), nil
}

func (r *Renderer) writeEntries(b *strings.Builder, entries []render.ReviewEntry, depth int) {
	pad := strings.Repeat(r.indent, depth)
	for _, entry := range entries {
		if entry.Group {
			fmt.Fprintf(b, "%s%s\n", pad, entry.Label)
			r.writeEntries(b, entry.Children, depth+1)
			continue
		}
		fmt.Fprintf(b, "%s%s: %s\n", pad, entry.Label, entry.Value)
	}
}

func progressLine(steps []render.ProgressStep) string {
	parts := make([]string, 0, len(steps))
	for _, step := range steps {
		marker := "·"
		switch step.Status {
		case render.StatusComplete:
			marker = "✓"
		case render.StatusCurrent:
			marker = "▶"
		}
		parts = append(parts, marker+" "+step.Title)
	}
	return strings.Join(parts, "  ")
}
