// Package formflow is the top-level entry point for the multi-step form
// engine. It re-exports the common types and wraps the orchestrator for
// callers that only need a rendered step or a running session.
package formflow

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
)

// Schema is a parsed form document.
type Schema = schema.Schema

// Data holds the answers collected so far, keyed by dotted path.
type Data = formdata.Data

// Session drives one user through a form.
type Session = session.Session

// Submission is the payload handed to sinks after a successful submit.
type Submission = session.Submission

// StepView is the renderer-facing model of one editable step.
type StepView = render.StepView

// ReviewView is the renderer-facing model of the review screen.
type ReviewView = render.ReviewView

// Request aliases orchestrator.Request so callers can build one without a
// second import.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the module root.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// LoadSchema reads and checks a schema from disk. JSON and YAML are
// accepted.
func LoadSchema(path string) (*Schema, error) {
	return schema.LoadFile(path)
}

// LoadSchemaFS reads a schema from fsys, typically an embed.FS.
func LoadSchemaFS(fsys fs.FS, name string) (*Schema, error) {
	return schema.LoadFS(fsys, name)
}

// NewSession starts a session on s.
func NewSession(s *Schema, options ...session.Option) (*Session, error) {
	return session.New(s, options...)
}

// GenerateStep renders step index of s with data using the named renderer.
// An index equal to the number of editable steps renders the review screen.
func GenerateStep(ctx context.Context, s *Schema, index int, data Data, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Schema:   s,
		Step:     index,
		Data:     data,
		Renderer: rendererName,
	})
}

// GenerateFromFile loads the schema at path and renders its first step.
func GenerateFromFile(ctx context.Context, path, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   path,
		Renderer: rendererName,
	})
}
