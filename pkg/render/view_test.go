package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/options"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

func TestBuilder_StepContract(t *testing.T) {
	t.Parallel()

	doc := testsupport.PropertyListing(t)
	data := formdata.Data{"propertyType": "house", "hasParking": false, "size": "abc"}

	view, err := render.NewBuilder().Step(doc, 0, data)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if view.Title != "Property Details" || view.Label != "Step 1 of 4" || view.Review {
		t.Fatalf("unexpected header: %+v", view)
	}

	type row struct {
		Path    string
		Kind    render.Kind
		Visible bool
		State   render.ValidationState
		Options []string
	}
	var got []row
	for _, field := range view.Flatten() {
		got = append(got, row{field.Path, field.Kind, field.Visible, field.Validation.State, field.Options})
	}
	want := []row{
		{"propertyType", render.ControlSelect, true, render.StateValid, []string{"house", "apartment", "land"}},
		{"size", render.ControlNumber, true, render.StateInvalid, nil},
		{"bedrooms", render.ControlSelect, true, render.StatePristine, []string{"1", "2", "3", "4+"}},
		{"hasParking", render.ControlCheckbox, true, render.StateValid, nil},
		{"parkingSpots", render.ControlNumber, false, render.StatePristine, nil},
		{"location", render.ControlText, true, render.StatePristine, nil},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	size := view.Flatten()[1]
	if diff := cmp.Diff([]string{"Size (sq ft) must be a number"}, size.Validation.Messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if !view.Invalid() {
		t.Fatalf("expected step view to report invalid fields")
	}
}

func TestBuilder_GroupPathsAndShowAll(t *testing.T) {
	t.Parallel()

	doc := testsupport.PropertyListing(t)
	view, err := render.NewBuilder(render.ShowAll(true)).Step(doc, 1, formdata.Data{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var paths []string
	for _, field := range view.Visible() {
		paths = append(paths, field.Path)
	}
	want := []string{"fullName", "email", "phone.number", "address.street", "address.city", "contactMethod"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("visible paths mismatch (-want +got):\n%s", diff)
	}

	address := view.Fields[3]
	if address.Kind != render.ControlGroup || address.Validation.State != render.StateInvalid {
		t.Fatalf("expected invalid group view, got %+v", address)
	}
	if got := address.Children[1].Validation.Messages; len(got) != 1 || got[0] != "City is required" {
		t.Fatalf("unexpected city messages %v", got)
	}
}

func TestBuilder_TouchedShowsRequired(t *testing.T) {
	t.Parallel()

	doc := testsupport.SingleStep(schema.Field{Key: "email", Label: "Email", Type: schema.FieldTypeText, Required: true})

	view, _ := render.NewBuilder().Step(doc, 0, nil)
	if got := view.Fields[0].Validation.State; got != render.StatePristine {
		t.Fatalf("expected pristine, got %q", got)
	}
	view, _ = render.NewBuilder(render.WithTouched("email")).Step(doc, 0, nil)
	if got := view.Fields[0].Validation.State; got != render.StateInvalid {
		t.Fatalf("expected invalid once touched, got %q", got)
	}
}

func TestBuilder_UnsupportedField(t *testing.T) {
	t.Parallel()

	doc := testsupport.SingleStep(schema.Field{Key: "file", Label: "File", Type: "file"})

	view, err := render.NewBuilder().Step(doc, 0, nil)
	if err != nil {
		t.Fatalf("lenient build: %v", err)
	}
	if got := view.Fields[0].Kind; got != render.ControlUnsupported {
		t.Fatalf("expected unsupported control, got %q", got)
	}

	_, err = render.NewBuilder(render.Strict(true)).Step(doc, 0, nil)
	if !errors.Is(err, render.ErrUnsupportedField) {
		t.Fatalf("expected ErrUnsupportedField, got %v", err)
	}
}

func TestBuilder_OutOfRange(t *testing.T) {
	t.Parallel()

	if _, err := render.NewBuilder().Step(testsupport.PropertyListing(t), 9, nil); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestBuilder_DynamicOptionSource(t *testing.T) {
	t.Parallel()

	doc := testsupport.PropertyListing(t)
	view, _ := render.NewBuilder().Step(doc, 0, formdata.Data{"propertyType": "apartment"})
	bedrooms := view.Fields[2]
	if bedrooms.OptionSource != options.SourceDynamic {
		t.Fatalf("expected dynamic source, got %q", bedrooms.OptionSource)
	}
	if diff := cmp.Diff([]string{"studio", "1", "2", "3"}, bedrooms.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestProgressAndLabels(t *testing.T) {
	t.Parallel()

	got := render.Progress(testsupport.PropertyListing(t), 1)
	var statuses []render.ProgressStatus
	for _, step := range got {
		statuses = append(statuses, step.Status)
	}
	want := []render.ProgressStatus{render.StatusComplete, render.StatusCurrent, render.StatusUpcoming, render.StatusUpcoming}
	if diff := cmp.Diff(want, statuses); diff != "" {
		t.Fatalf("statuses mismatch (-want +got):\n%s", diff)
	}
	if got[3].Title != "Review" || got[3].Number != 4 {
		t.Fatalf("unexpected last step %+v", got[3])
	}

	if got := render.StepLabel(1, 4); got != "Step 2 of 4" {
		t.Fatalf("StepLabel = %q", got)
	}
	if got := render.EditableStepLabel(1, 4); got != "Step 2 of 3" {
		t.Fatalf("EditableStepLabel = %q", got)
	}
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	number := schema.Field{Type: schema.FieldTypeNumber}
	checkbox := schema.Field{Type: schema.FieldTypeCheckbox}
	text := schema.Field{Type: schema.FieldTypeText}

	cases := []struct {
		field schema.Field
		raw   string
		want  any
	}{
		{number, " 42 ", 42.0},
		{number, "4x", "4x"},
		{number, "", ""},
		{checkbox, "yes", true},
		{checkbox, "true", true},
		{checkbox, "no", false},
		{text, "  Ada ", "Ada"},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, render.Coerce(tc.field, tc.raw)); diff != "" {
			t.Fatalf("Coerce(%q, %q) mismatch (-want +got):\n%s", tc.field.Type, tc.raw, diff)
		}
	}
}
