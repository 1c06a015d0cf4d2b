package visibility_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/visibility"
)

func TestDependencies_Visible(t *testing.T) {
	t.Parallel()

	parking := schema.Field{
		Key:          "parkingSpots",
		Type:         schema.FieldTypeNumber,
		Dependencies: []schema.Dependency{schema.DependsOnValue("hasParking", true)},
	}
	bedrooms := schema.Field{
		Key:          "bedrooms",
		Type:         schema.FieldTypeSelect,
		Dependencies: []schema.Dependency{schema.DependsOnNotEmpty("propertyType")},
	}
	nested := schema.Field{
		Key:          "city",
		Type:         schema.FieldTypeText,
		Dependencies: []schema.Dependency{schema.DependsOnValue("address.country", "PT")},
	}

	cases := []struct {
		name  string
		field schema.Field
		data  formdata.Data
		want  bool
	}{
		{name: "no dependencies", field: schema.Field{Key: "x"}, data: nil, want: true},
		{name: "equals holds", field: parking, data: formdata.Data{"hasParking": true}, want: true},
		{name: "equals is strict", field: parking, data: formdata.Data{"hasParking": "true"}, want: false},
		{name: "equals missing value", field: parking, data: formdata.Data{}, want: false},
		{name: "equals false", field: parking, data: formdata.Data{"hasParking": false}, want: false},
		{name: "notEmpty holds", field: bedrooms, data: formdata.Data{"propertyType": "house"}, want: true},
		{name: "notEmpty empty string", field: bedrooms, data: formdata.Data{"propertyType": ""}, want: false},
		{name: "notEmpty non-string", field: bedrooms, data: formdata.Data{"propertyType": 3}, want: false},
		{name: "absolute nested key", field: nested, data: formdata.Data{"address": map[string]any{"country": "PT"}}, want: true},
		{name: "nested key missing", field: nested, data: formdata.Data{"country": "PT"}, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := visibility.Default.Visible(tc.field, tc.data); got != tc.want {
				t.Fatalf("Visible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDependencies_AllMustHold(t *testing.T) {
	t.Parallel()

	field := schema.Field{
		Key: "preferredTime",
		Dependencies: []schema.Dependency{
			schema.DependsOnValue("contactMethod", "phone"),
			schema.DependsOnNotEmpty("phone.number"),
		},
	}
	data := formdata.Data{"contactMethod": "phone"}

	if visibility.Default.Visible(field, data) {
		t.Fatalf("expected hidden while phone.number is empty")
	}
	unmet := visibility.Unmet(field, data)
	var keys []string
	for _, dep := range unmet {
		keys = append(keys, dep.Key)
	}
	if diff := cmp.Diff([]string{"phone.number"}, keys); diff != "" {
		t.Fatalf("unmet mismatch (-want +got):\n%s", diff)
	}

	data = formdata.Set(data, "phone.number", "912 345 678")
	if !visibility.Default.Visible(field, data) {
		t.Fatalf("expected visible once both dependencies hold")
	}
	if got := visibility.Unmet(field, data); len(got) != 0 {
		t.Fatalf("expected no unmet dependencies, got %+v", got)
	}
}

func TestSatisfied_NoCondition(t *testing.T) {
	t.Parallel()

	no := false
	deps := []schema.Dependency{
		{Key: "anything"},
		{Key: "anything", NotEmpty: &no},
	}
	for _, dep := range deps {
		if !visibility.Satisfied(dep, formdata.Data{}) {
			t.Fatalf("expected dependency without condition to hold: %+v", dep)
		}
	}
}

func TestSatisfied_EqualsNull(t *testing.T) {
	t.Parallel()

	dep := schema.DependsOnValue("a", nil)
	if visibility.Satisfied(dep, formdata.Data{}) {
		t.Fatalf("expected equals null not to match a missing value")
	}
	if !visibility.Satisfied(dep, formdata.Data{"a": nil}) {
		t.Fatalf("expected equals null to match an explicit null")
	}
	if visibility.Satisfied(dep, formdata.Data{"a": ""}) {
		t.Fatalf("expected equals null not to match an empty string")
	}
}

func TestEvaluatorFuncAndOr(t *testing.T) {
	t.Parallel()

	hidden := visibility.EvaluatorFunc(func(schema.Field, formdata.Data) bool { return false })
	if visibility.Or(hidden).Visible(schema.Field{}, nil) {
		t.Fatalf("expected custom evaluator to be used")
	}
	if !visibility.Or(nil).Visible(schema.Field{}, nil) {
		t.Fatalf("expected default evaluator for nil")
	}
}
