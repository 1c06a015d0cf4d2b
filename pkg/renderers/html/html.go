// Package html renders steps and the review screen as HTML fragments using
// pongo2 templates. Schema copy is passed through a strict sanitizer and
// user values are escaped by the template engine.
package html

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formflow/pkg/render"
)

// Name is the registry name of the renderer.
const Name = "html"

// Template names looked up in the template filesystem.
const (
	StepTemplate   = "step"
	ReviewTemplate = "review"
)

//go:embed templates/*.tpl
var embedded embed.FS

// Templates returns the bundled template filesystem.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templates fs.FS
	action    string
	globals   map[string]any
}

// WithTemplates replaces the bundled templates. The filesystem must provide
// step.tpl and review.tpl.
func WithTemplates(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithAction sets the form action URL.
func WithAction(action string) Option {
	return func(cfg *config) {
		cfg.action = strings.TrimSpace(action)
	}
}

// WithGlobals exposes extra values to every template.
func WithGlobals(values map[string]any) Option {
	return func(cfg *config) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(values))
		}
		for key, value := range values {
			cfg.globals[key] = value
		}
	}
}

// Renderer renders views through pongo2 templates.
type Renderer struct {
	engine *Engine
	action string
}

// New constructs an HTML renderer.
func New(opts ...Option) (*Renderer, error) {
	cfg := &config{templates: Templates()}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	engine, err := NewEngine(cfg.templates, ".tpl")
	if err != nil {
		return nil, err
	}
	engine.GlobalContext(cfg.globals)
	return &Renderer{engine: engine, action: cfg.action}, nil
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// RenderStep renders a step as a form fragment.
func (r *Renderer) RenderStep(ctx context.Context, step render.StepView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.engine.Render(StepTemplate, pongo2.Context{
		"action":   r.action,
		"step":     stepHeader{Index: step.Index, Total: step.Total, Title: step.Title, Label: step.Label, First: step.Index == 0},
		"progress": progressRows(step.Progress),
		"errors":   step.Errors,
		"rows":     fieldRows(step.Fields, 0),
	})
}

// RenderReview renders the read-only summary with submit controls.
func (r *Renderer) RenderReview(ctx context.Context, review render.ReviewView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sections := make([]reviewSection, 0, len(review.Sections))
	for _, section := range review.Sections {
		sections = append(sections, reviewSection{
			Index: section.Index,
			Title: section.Title,
			Rows:  entryRows(section.Entries, 0),
		})
	}
	return r.engine.Render(ReviewTemplate, pongo2.Context{
		"action":   r.action,
		"review":   review,
		"progress": progressRows(review.Progress),
		"errors":   review.Errors,
		"sections": sections,
	})
}

// Row kinds used by the templates to open and close groups in a flat list.
const (
	rowField = "field"
	rowGroup = "group"
	rowEnd   = "end"
)

type stepHeader struct {
	Index int
	Total int
	Title string
	Label string
	First bool
}

type progressRow struct {
	Number int
	Title  string
	Status string
}

type choice struct {
	Value    string
	ID       string
	Selected bool
}

type fieldRow struct {
	Kind     string
	Control  string
	Type     string
	Path     string
	ID       string
	Label    string
	Value    string
	Checked  bool
	Required bool
	Invalid  bool
	Options  []choice
	Messages []string
	Depth    int
}

type entryRow struct {
	Kind  string
	Label string
	Value string
	Depth int
}

type reviewSection struct {
	Index int
	Title string
	Rows  []entryRow
}

func progressRows(steps []render.ProgressStep) []progressRow {
	out := make([]progressRow, 0, len(steps))
	for _, step := range steps {
		out = append(out, progressRow{Number: step.Number, Title: step.Title, Status: string(step.Status)})
	}
	return out
}

// fieldRows flattens the visible field tree. Groups emit an opening row
// and a matching end row so templates never recurse.
func fieldRows(fields []render.FieldView, depth int) []fieldRow {
	var out []fieldRow
	for _, field := range fields {
		if !field.Visible {
			continue
		}
		id := fieldID(field.Path)
		if field.Kind == render.ControlGroup {
			out = append(out, fieldRow{Kind: rowGroup, Path: field.Path, ID: id, Label: field.Label, Invalid: field.Validation.State == render.StateInvalid, Depth: depth})
			out = append(out, fieldRows(field.Children, depth+1)...)
			out = append(out, fieldRow{Kind: rowEnd, Depth: depth})
			continue
		}
		row := fieldRow{
			Kind:     rowField,
			Control:  string(field.Kind),
			Type:     string(field.Type),
			Path:     field.Path,
			ID:       id,
			Label:    field.Label,
			Checked:  field.Checked(),
			Required: field.Required,
			Invalid:  field.Validation.State == render.StateInvalid,
			Messages: field.Validation.Messages,
			Depth:    depth,
		}
		if field.Kind != render.ControlCheckbox {
			row.Value = field.Display
		}
		for i, option := range field.Options {
			row.Options = append(row.Options, choice{
				Value:    option,
				ID:       fmt.Sprintf("%s-%d", id, i),
				Selected: field.Selected(option),
			})
		}
		out = append(out, row)
	}
	return out
}

func entryRows(entries []render.ReviewEntry, depth int) []entryRow {
	var out []entryRow
	for _, entry := range entries {
		if entry.Group {
			out = append(out, entryRow{Kind: rowGroup, Label: entry.Label, Depth: depth})
			out = append(out, entryRows(entry.Children, depth+1)...)
			out = append(out, entryRow{Kind: rowEnd, Depth: depth})
			continue
		}
		out = append(out, entryRow{Kind: rowField, Label: entry.Label, Value: entry.Value, Depth: depth})
	}
	return out
}

func fieldID(path string) string {
	return "field-" + strings.ReplaceAll(path, ".", "-")
}
