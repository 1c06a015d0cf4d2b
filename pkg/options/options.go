// Package options resolves the choices offered by select and radio fields.
package options

import (
	"github.com/goliatone/go-formflow/pkg/formdata"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// Source records where a resolution came from.
type Source string

const (
	SourceNone    Source = "none"
	SourceStatic  Source = "static"
	SourceDynamic Source = "dynamic"
)

// Resolution is the option list for a field plus its origin.
type Resolution struct {
	Options []string
	Source  Source
}

// Empty reports whether the resolution offers no choices.
func (r Resolution) Empty() bool {
	return len(r.Options) == 0
}

// Contains reports whether value is one of the resolved options.
func (r Resolution) Contains(value string) bool {
	for _, opt := range r.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// Resolve returns the options for field. A static list wins whenever it is
// declared, even when empty. Otherwise the option source is consulted: the
// value stored at its key must be a non-empty string present in the map.
func Resolve(field schema.Field, data formdata.Data) Resolution {
	if field.HasStaticOptions() {
		return Resolution{Options: copyOptions(field.Options), Source: SourceStatic}
	}
	src := field.OptionSource
	if src == nil {
		return Resolution{Source: SourceNone}
	}
	selected, ok := formdata.Value(data, src.Key).(string)
	if !ok || selected == "" {
		return Resolution{Source: SourceNone}
	}
	opts, ok := src.Map[selected]
	if !ok {
		return Resolution{Source: SourceNone}
	}
	return Resolution{Options: copyOptions(opts), Source: SourceDynamic}
}

// List is Resolve without the origin.
func List(field schema.Field, data formdata.Data) []string {
	return Resolve(field, data).Options
}

func copyOptions(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
