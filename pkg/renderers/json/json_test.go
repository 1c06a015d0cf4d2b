package json_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/render"
	jsonrenderer "github.com/goliatone/go-formflow/pkg/renderers/json"
	"github.com/goliatone/go-formflow/pkg/testsupport"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

func TestRenderStep_RoundTrip(t *testing.T) {
	t.Parallel()

	doc := testsupport.PropertyListing(t)
	view, err := render.NewBuilder().Step(doc, 0, formdata.Data{"propertyType": "house", "size": "abc"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	out, err := jsonrenderer.New().RenderStep(testsupport.Context(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	decoded, err := jsonrenderer.Decode(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != jsonrenderer.KindStep || decoded.Step == nil || decoded.Review != nil {
		t.Fatalf("unexpected envelope %+v", decoded)
	}

	got := decoded.Step
	if got.Title != "Property Details" || got.Label != "Step 1 of 4" || len(got.Progress) != 4 {
		t.Fatalf("unexpected header %+v", got)
	}
	size := got.Fields[1]
	want := render.Validation{State: render.StateInvalid, Messages: []string{"Size (sq ft) must be a number"}}
	if diff := cmp.Diff(want, size.Validation); diff != "" {
		t.Fatalf("validation mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2", "3", "4+"}, got.Fields[2].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderStep_Shape(t *testing.T) {
	t.Parallel()

	doc := testsupport.PropertyListing(t)
	view, _ := render.NewBuilder().Step(doc, 1, testsupport.PropertyListingData())
	out, err := jsonrenderer.New(jsonrenderer.WithIndent("  ")).RenderStep(testsupport.Context(), view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	page := string(out)
	for _, fragment := range []string{
		`"kind": "step"`,
		`"path": "address.city"`,
		`"optionSource": "static"`,
		`"state": "valid"`,
	} {
		if !strings.Contains(page, fragment) {
			t.Fatalf("expected %q in\n%s", fragment, page)
		}
	}
	if strings.Contains(page, `"review":`) {
		t.Fatalf("step document must not carry a review")
	}
}

func TestRenderReview(t *testing.T) {
	t.Parallel()

	doc := testsupport.PropertyListing(t)
	review := render.Review(doc, testsupport.PropertyListingData(), visibility.Default)
	out, err := jsonrenderer.New().RenderReview(testsupport.Context(), review)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	decoded, err := jsonrenderer.Decode(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != jsonrenderer.KindReview || decoded.Review == nil {
		t.Fatalf("unexpected envelope %+v", decoded)
	}
	if diff := cmp.Diff(review, *decoded.Review); diff != "" {
		t.Fatalf("review mismatch (-want +got):\n%s", diff)
	}
}

func TestRendererContract(t *testing.T) {
	t.Parallel()

	r := jsonrenderer.New()
	if r.Name() != "json" || r.ContentType() != "application/json" {
		t.Fatalf("unexpected identity %s %s", r.Name(), r.ContentType())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RenderReview(ctx, render.ReviewView{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := jsonrenderer.Decode([]byte("{")); err == nil {
		t.Fatalf("expected decode error")
	}
}
