package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/render"
)

// Theme captures the prefixes used for info and error lines.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultTheme is used when no theme is configured.
var DefaultTheme = Theme{InfoPrefix: "", ErrorPrefix: "✗ "}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithReviewRenderer replaces the renderer used for the review screen.
func WithReviewRenderer(renderer render.Renderer) Option {
	return func(r *Runner) {
		if renderer != nil {
			r.review = renderer
		}
	}
}

// WithMaxAttempts limits how often a field is re-prompted after failing
// validation. Zero means unlimited.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.maxAttempts = n
		}
	}
}
