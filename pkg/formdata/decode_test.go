package formdata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/formdata"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	want := formdata.Data{
		"email":   "ada@example.com",
		"address": map[string]any{"city": "Lisbon"},
	}
	cases := []struct {
		name   string
		source string
		raw    string
	}{
		{"json", "data.json", `{"email":"ada@example.com","address":{"city":"Lisbon"}}`},
		{"yaml", "data.yaml", "email: ada@example.com\naddress:\n  city: Lisbon\n"},
		{"sniffed yaml", "data.txt", "email: ada@example.com\naddress:\n  city: Lisbon\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := formdata.Decode([]byte(tc.raw), tc.source)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_EmptyAndInvalid(t *testing.T) {
	t.Parallel()

	got, err := formdata.Decode([]byte("  \n"), "data.json")
	if err != nil || len(got) != 0 || got == nil {
		t.Fatalf("expected empty data, got %v %v", got, err)
	}
	if _, err := formdata.Decode([]byte("[1, 2"), "data.json"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"size": 1450}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := formdata.LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !formdata.Equal(got["size"], 1450) {
		t.Fatalf("unexpected size %v", got["size"])
	}

	if _, err := formdata.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}
