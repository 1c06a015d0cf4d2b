package render

import "context"

// Renderer turns step and review views into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	RenderStep(ctx context.Context, step StepView) ([]byte, error)
	RenderReview(ctx context.Context, review ReviewView) ([]byte, error)
}
