package formdata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadFile reads form data from a JSON or YAML document.
func LoadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formdata: read %s: %w", path, err)
	}
	return Decode(raw, path)
}

// Decode parses a JSON or YAML object. The source extension picks the
// decoder; unknown extensions try JSON, then YAML. An empty document
// yields empty data.
func Decode(raw []byte, source string) (Data, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Data{}, nil
	}

	var (
		out Data
		err error
	)
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		err = json.Unmarshal(raw, &out)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &out)
	default:
		if err = json.Unmarshal(raw, &out); err != nil {
			out = nil
			err = yaml.Unmarshal(raw, &out)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("formdata: decode %s: %w", source, err)
	}
	if out == nil {
		out = Data{}
	}
	return out, nil
}
