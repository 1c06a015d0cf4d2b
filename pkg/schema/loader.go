package schema

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses a schema document from disk.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads and parses a schema document from fsys.
func LoadFS(fsys fs.FS, name string) (*Schema, error) {
	if fsys == nil {
		return nil, fmt.Errorf("schema: nil filesystem for %s", name)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes a JSON or YAML schema document. The source name selects the
// decoder by extension; unknown extensions try JSON first, then YAML. Parse
// fails when Check reports error-severity problems.
func Parse(data []byte, source string) (*Schema, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("schema: file %s is empty", source)
	}

	var (
		doc *Schema
		err error
	)
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		doc, err = decodeJSON(data)
	case ".yaml", ".yml":
		doc, err = decodeYAML(data)
	default:
		doc, err = decodeJSON(data)
		if err != nil {
			doc, err = decodeYAML(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("schema: parse %s: %w", source, err)
	}

	if problems := Check(doc).Errors(); len(problems) > 0 {
		return nil, fmt.Errorf("schema: %s: %w", source, problems)
	}
	return doc, nil
}

func decodeJSON(data []byte) (*Schema, error) {
	var doc Schema
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// decodeYAML routes YAML through the JSON decoder so both formats share the
// same field semantics (notably dependency `equals` presence).
func decodeYAML(data []byte) (*Schema, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(normalizeYAML(raw))
	if err != nil {
		return nil, err
	}
	return decodeJSON(encoded)
}

func normalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[k] = normalizeYAML(v)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for k, v := range typed {
			out[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, v := range typed {
			out[i] = normalizeYAML(v)
		}
		return out
	default:
		return typed
	}
}
