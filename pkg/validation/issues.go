package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue codes.
const (
	CodeRequired      = "required"
	CodeInvalidEmail  = "invalid_email"
	CodeInvalidName   = "invalid_name"
	CodeInvalidPhone  = "invalid_phone"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeNotANumber    = "not_a_number"
	CodeOutOfRange    = "out_of_range"
	CodeNotInteger    = "not_integer"
	CodeInvalidOption = "invalid_option"
	CodeInvalidType   = "invalid_type"
)

// Issue is a single field validation failure.
type Issue struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Label   string         `json:"label,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
}

// Issues is a collection of validation failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(iss)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// OK reports whether there are no issues.
func (iss Issues) OK() bool {
	return len(iss) == 0
}

// ByPath groups issue messages by field path.
func (iss Issues) ByPath() map[string][]string {
	if len(iss) == 0 {
		return nil
	}
	out := make(map[string][]string, len(iss))
	for _, issue := range iss {
		out[issue.Path] = append(out[issue.Path], issue.Message)
	}
	return out
}

// Paths returns the distinct failing paths, sorted.
func (iss Issues) Paths() []string {
	seen := make(map[string]struct{}, len(iss))
	var out []string
	for _, issue := range iss {
		if _, ok := seen[issue.Path]; ok {
			continue
		}
		seen[issue.Path] = struct{}{}
		out = append(out, issue.Path)
	}
	sort.Strings(out)
	return out
}

// Codes returns the issue codes in order.
func (iss Issues) Codes() []string {
	out := make([]string, 0, len(iss))
	for _, issue := range iss {
		out = append(out, issue.Code)
	}
	return out
}

// AsIssues extracts Issues from an error chain.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
