package testsupport

import (
	"context"
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/schema"
)

//go:embed testdata/*
var fixtures embed.FS

// Fixture names shipped with the package.
const (
	PropertyListingFixture = "testdata/property_listing.json"
	ContactYAMLFixture     = "testdata/contact.yaml"
)

// FixturesFS exposes the embedded fixtures.
func FixturesFS() embed.FS {
	return fixtures
}

// MustLoadSchema parses an embedded fixture, failing the test on error.
func MustLoadSchema(t testing.TB, name string) *schema.Schema {
	t.Helper()

	doc, err := schema.LoadFS(fixtures, name)
	if err != nil {
		t.Fatalf("load schema fixture %s: %v", name, err)
	}
	return doc
}

// PropertyListing returns the four-step property listing fixture.
func PropertyListing(t testing.TB) *schema.Schema {
	t.Helper()
	return MustLoadSchema(t, PropertyListingFixture)
}

// PropertyListingData returns data that satisfies every step of the
// property listing fixture. Each call returns a fresh copy.
func PropertyListingData() formdata.Data {
	return formdata.Data{
		"propertyType": "house",
		"size":         float64(1450),
		"bedrooms":     "3",
		"hasParking":   true,
		"parkingSpots": float64(2),
		"location":     "Lisbon, Portugal",
		"fullName":     "Ada Lovelace",
		"email":        "ada@example.com",
		"phone": map[string]any{
			"number": "+351 912345678",
		},
		"address": map[string]any{
			"street": "Rua Augusta 1",
			"city":   "Lisbon",
		},
		"contactMethod": "email",
		"availableFrom": "2026-11-01",
	}
}

// SingleStep builds a schema with one editable step followed by a review
// step.
func SingleStep(fields ...schema.Field) *schema.Schema {
	return &schema.Schema{Steps: []schema.Step{
		{Title: "Details", Fields: fields},
		{Title: "Review"},
	}}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is
// set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
