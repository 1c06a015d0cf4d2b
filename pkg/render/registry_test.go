package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/render"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) RenderStep(context.Context, render.StepView) ([]byte, error) {
	return []byte(s.name), nil
}
func (s stubRenderer) RenderReview(context.Context, render.ReviewView) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg, err := render.NewRegistry(stubRenderer{"HTML"}, stubRenderer{"text"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if diff := cmp.Diff([]string{"html", "text"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	got, err := reg.Get(" Html ")
	if err != nil || got.Name() != "HTML" {
		t.Fatalf("get html: %v %v", got, err)
	}
	if _, err := reg.Get("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if err := reg.Register(stubRenderer{"text"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register(stubRenderer{"  "}); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}
}
