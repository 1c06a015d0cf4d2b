package session

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/sink"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// DefaultHistoryLimit caps the recorded transitions.
const DefaultHistoryLimit = 256

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(s *Session) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithSinks appends submission sinks.
func WithSinks(sinks ...sink.Sink) Option {
	return func(s *Session) {
		for _, sk := range sinks {
			if sk != nil {
				s.sinks = append(s.sinks, sk)
			}
		}
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) {
		if id = strings.TrimSpace(id); id != "" {
			s.id = id
		}
	}
}

// WithHistoryLimit caps the transition history. Values below one keep the
// default.
func WithHistoryLimit(limit int) Option {
	return func(s *Session) {
		if limit > 0 {
			s.historyLimit = limit
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
