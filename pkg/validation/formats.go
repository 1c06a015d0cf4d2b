package validation

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Matcher decides whether a format applies to the field at path.
type Matcher func(field schema.Field, path string) bool

type rule struct {
	format   schema.Format
	priority int
	match    Matcher
	order    int
}

// FormatRegistry picks the semantic format of a field. An explicit Format on
// the field always wins; otherwise registered matchers are consulted, higher
// priority first with ties broken by registration order.
type FormatRegistry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewFormatRegistry returns a registry with the key-based inference matchers
// registered.
func NewFormatRegistry() *FormatRegistry {
	reg := &FormatRegistry{}
	reg.registerInference()
	return reg
}

// NewExplicitRegistry returns a registry that only honours explicit formats.
func NewExplicitRegistry() *FormatRegistry {
	return &FormatRegistry{}
}

// Register adds a matcher for format. Invalid formats and nil matchers are
// ignored.
func (r *FormatRegistry) Register(format schema.Format, priority int, matcher Matcher) {
	if r == nil || matcher == nil || format == schema.FormatNone || !format.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		format:   format,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the format for the field at path, or FormatNone.
func (r *FormatRegistry) Resolve(field schema.Field, path string) schema.Format {
	if field.Format != schema.FormatNone {
		return field.Format
	}
	if r == nil {
		return schema.FormatNone
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return schema.FormatNone
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field, path) {
			return entry.format
		}
	}
	return schema.FormatNone
}

func keyIs(key string) Matcher {
	return func(field schema.Field, _ string) bool {
		return field.Key == key
	}
}

// registerInference reproduces the legacy coupling between field keys and
// validation rules.
func (r *FormatRegistry) registerInference() {
	r.Register(schema.FormatEmail, 50, keyIs("email"))
	r.Register(schema.FormatName, 50, keyIs("fullName"))
	r.Register(schema.FormatPhone, 50, func(field schema.Field, path string) bool {
		return field.Key == "number" && strings.Contains(path, "phone")
	})
	r.Register(schema.FormatLocation, 50, keyIs("location"))
	r.Register(schema.FormatSize, 50, keyIs("size"))
	r.Register(schema.FormatCount, 50, keyIs("parkingSpots"))
}
