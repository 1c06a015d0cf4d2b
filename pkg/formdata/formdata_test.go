package formdata_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/formdata"
)

func TestGet(t *testing.T) {
	t.Parallel()

	data := formdata.Data{
		"email": "ada@example.com",
		"address": map[string]any{
			"city": "Lisbon",
			"geo":  map[string]any{"lat": 38.7},
		},
		"size": 12,
	}

	cases := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{name: "top level", path: "email", want: "ada@example.com", wantOK: true},
		{name: "nested", path: "address.city", want: "Lisbon", wantOK: true},
		{name: "deep", path: "address.geo.lat", want: 38.7, wantOK: true},
		{name: "mapping value", path: "address.geo", want: map[string]any{"lat": 38.7}, wantOK: true},
		{name: "missing leaf", path: "address.zip", wantOK: false},
		{name: "missing root", path: "phone.number", wantOK: false},
		{name: "through scalar", path: "size.value", wantOK: false},
		{name: "empty path", path: "", wantOK: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := formdata.Get(data, tc.path)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSet_RoundTrip(t *testing.T) {
	t.Parallel()

	paths := []string{"email", "address.city", "a.b.c.d", "phone.number"}
	values := []any{"x", 3.5, true, nil, map[string]any{"k": "v"}}

	for _, path := range paths {
		for _, value := range values {
			got, ok := formdata.Get(formdata.Set(formdata.Data{}, path, value), path)
			if !ok {
				t.Fatalf("Get(Set(%q)) not found", path)
			}
			if diff := cmp.Diff(value, got); diff != "" {
				t.Fatalf("round trip %q mismatch (-want +got):\n%s", path, diff)
			}
		}
	}
}

func TestSet_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	original := formdata.Data{
		"address": map[string]any{"city": "Porto", "street": "Rua A"},
		"email":   "a@b.co",
	}
	before := formdata.Clone(original)

	next := formdata.Set(original, "address.city", "Lisbon")

	if diff := cmp.Diff(before, original); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
	if got := formdata.Value(next, "address.city"); got != "Lisbon" {
		t.Fatalf("expected updated city, got %v", got)
	}
	if got := formdata.Value(next, "address.street"); got != "Rua A" {
		t.Fatalf("expected sibling kept, got %v", got)
	}
	if got := formdata.Value(next, "email"); got != "a@b.co" {
		t.Fatalf("expected top-level value kept, got %v", got)
	}
}

func TestSet_ReplacesScalarIntermediate(t *testing.T) {
	t.Parallel()

	data := formdata.Set(formdata.Data{"phone": "123"}, "phone.number", "456")
	want := formdata.Data{"phone": map[string]any{"number": "456"}}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_NilInput(t *testing.T) {
	t.Parallel()

	data := formdata.Set(nil, "a.b", 1)
	if got := formdata.Value(data, "a.b"); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	original := formdata.Data{"address": map[string]any{"city": "Lisbon", "street": "Rua"}}
	next := formdata.Delete(original, "address.city")

	if _, ok := formdata.Get(next, "address.city"); ok {
		t.Fatalf("expected city removed")
	}
	if _, ok := formdata.Get(original, "address.city"); !ok {
		t.Fatalf("input mutated")
	}
}

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	original := formdata.Data{"address": map[string]any{"city": "Lisbon"}, "tags": []any{"a"}}
	clone := formdata.Clone(original)
	clone["address"].(map[string]any)["city"] = "Porto"
	clone["tags"].([]any)[0] = "b"

	if got := formdata.Value(original, "address.city"); got != "Lisbon" {
		t.Fatalf("clone shares nested map: %v", got)
	}
	if got := original["tags"].([]any)[0]; got != "a" {
		t.Fatalf("clone shares slice: %v", got)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "same string", a: "x", b: "x", want: true},
		{name: "bool vs string", a: true, b: "true", want: false},
		{name: "number vs string", a: 3, b: "3", want: false},
		{name: "int vs float", a: 3, b: 3.0, want: true},
		{name: "different numbers", a: 3, b: 4.0, want: false},
		{name: "bools", a: false, b: false, want: true},
		{name: "nil nil", a: nil, b: nil, want: true},
		{name: "nil vs empty", a: nil, b: "", want: false},
		{name: "maps", a: map[string]any{}, b: map[string]any{}, want: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := formdata.Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%#v, %#v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestIsEmptyAndFalsy(t *testing.T) {
	t.Parallel()

	if !formdata.IsEmpty(nil) || !formdata.IsEmpty("") {
		t.Fatalf("nil and empty string must be empty")
	}
	if formdata.IsEmpty(false) || formdata.IsEmpty(0) || formdata.IsEmpty(" ") {
		t.Fatalf("false, 0 and whitespace are values")
	}
	for _, v := range []any{nil, "", false, 0, 0.0} {
		if !formdata.IsFalsy(v) {
			t.Fatalf("expected %#v to be falsy", v)
		}
	}
	for _, v := range []any{"x", true, 1, -2.5, map[string]any{}} {
		if formdata.IsFalsy(v) {
			t.Fatalf("expected %#v to be truthy", v)
		}
	}
}

func TestFlattenAndPaths(t *testing.T) {
	t.Parallel()

	data := formdata.Data{
		"email":   "a@b.co",
		"address": map[string]any{"city": "Lisbon", "street": "Rua"},
		"phone":   map[string]any{"number": "123"},
	}

	wantFlat := map[string]any{
		"email":          "a@b.co",
		"address.city":   "Lisbon",
		"address.street": "Rua",
		"phone.number":   "123",
	}
	if diff := cmp.Diff(wantFlat, formdata.Flatten(data)); diff != "" {
		t.Fatalf("flatten mismatch (-want +got):\n%s", diff)
	}

	wantPaths := []string{"address.city", "address.street", "email", "phone.number"}
	if diff := cmp.Diff(wantPaths, formdata.Paths(data)); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	cases := map[any]string{
		"abc":         "abc",
		float64(1450): "1450",
		2.5:           "2.5",
		7:             "7",
		true:          "true",
	}
	for in, want := range cases {
		if got := formdata.String(in); got != want {
			t.Fatalf("String(%#v) = %q, want %q", in, got, want)
		}
	}
	if got := formdata.String(nil); got != "" {
		t.Fatalf("String(nil) = %q", got)
	}
}
