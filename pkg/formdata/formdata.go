// Package formdata addresses values in the nested form-data mapping by dotted
// path. Writes are copy-on-write: Set never mutates the mapping it is given,
// so a previously handed out Data value stays a stable snapshot.
package formdata

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Data is the nested form-data mapping. Values are strings, numbers, booleans
// or nested Data/map[string]any values.
type Data = map[string]any

// Split breaks a dotted path into segments. Empty input yields nil.
func Split(path string) []string {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get walks data along path. It returns (nil, false) at the first missing or
// non-mapping segment.
func Get(data Data, path string) (any, bool) {
	segments := Split(path)
	if len(segments) == 0 || data == nil {
		return nil, false
	}

	var current any = data
	for _, segment := range segments {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		next, ok := node[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Value is Get without the presence flag.
func Value(data Data, path string) any {
	v, _ := Get(data, path)
	return v
}

// Set returns a copy of data with value stored at path. Every mapping along
// the path is copied; missing or non-mapping intermediates are replaced by
// empty mappings. An empty path returns a copy of data unchanged.
func Set(data Data, path string, value any) Data {
	segments := Split(path)
	out := shallowCopy(data)
	if len(segments) == 0 {
		return out
	}

	current := out
	for _, segment := range segments[:len(segments)-1] {
		child, ok := asMap(current[segment])
		if ok {
			child = shallowCopy(child)
		} else {
			child = make(Data)
		}
		current[segment] = child
		current = child
	}
	current[segments[len(segments)-1]] = value
	return out
}

// Delete returns a copy of data without the value at path.
func Delete(data Data, path string) Data {
	segments := Split(path)
	out := shallowCopy(data)
	if len(segments) == 0 {
		return out
	}

	current := out
	for _, segment := range segments[:len(segments)-1] {
		child, ok := asMap(current[segment])
		if !ok {
			return out
		}
		child = shallowCopy(child)
		current[segment] = child
		current = child
	}
	delete(current, segments[len(segments)-1])
	return out
}

// Clone deep-copies data.
func Clone(data Data) Data {
	if data == nil {
		return make(Data)
	}
	out, _ := deepCopy(data).(Data)
	return out
}

// CopyValue deep-copies mappings and slices inside v. Scalars are returned
// as is.
func CopyValue(v any) any {
	return deepCopy(v)
}

// IsEmpty reports whether v counts as "no value": nil or the empty string.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// IsFalsy reports nil, "", false, zero numbers and NaN.
func IsFalsy(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return typed == ""
	case bool:
		return !typed
	}
	if n, ok := Number(v); ok {
		return n == 0 || math.IsNaN(n)
	}
	return false
}

// Number converts any Go numeric kind to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Equal is strict, type-sensitive equality on scalar values. All Go numeric
// kinds belong to one "number" type, so int 3 equals float64 3 while the
// string "3" does not. Mappings and slices never compare equal.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, ok := Number(a); ok {
		bn, ok := Number(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return false
	}
}

// Flatten returns the leaf values of data keyed by dotted path.
func Flatten(data Data) map[string]any {
	out := make(map[string]any)
	flatten("", data, out)
	return out
}

// Paths returns the sorted leaf paths of data.
func Paths(data Data) []string {
	flat := Flatten(data)
	out := make([]string, 0, len(flat))
	for path := range flat {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// String renders a scalar for display.
func String(v any) string {
	switch typed := v.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		if typed == math.Trunc(typed) && math.Abs(typed) < 1e15 {
			return fmt.Sprintf("%d", int64(typed))
		}
		return fmt.Sprint(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func flatten(prefix string, value any, out map[string]any) {
	node, ok := asMap(value)
	if !ok {
		if prefix != "" {
			out[prefix] = value
		}
		return
	}
	for key, child := range node {
		next := key
		if prefix != "" {
			next = prefix + "." + key
		}
		flatten(next, child, out)
	}
}

func asMap(v any) (Data, bool) {
	node, ok := v.(map[string]any)
	return node, ok
}

func shallowCopy(data Data) Data {
	out := make(Data, len(data)+1)
	for k, v := range data {
		out[k] = v
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
