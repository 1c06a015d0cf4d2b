// Package sink delivers submitted form data. A submission is handed to every
// configured sink in order; sinks must not mutate the payload.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/formdata"
)

// Submission is the payload produced by a successful submit.
type Submission struct {
	ID          string        `json:"id"`
	SessionID   string        `json:"sessionId"`
	SubmittedAt time.Time     `json:"submittedAt"`
	Data        formdata.Data `json:"data"`
}

// Sink receives a submission.
type Sink interface {
	Deliver(ctx context.Context, sub Submission) error
}

// Func adapts a function into a Sink.
type Func func(ctx context.Context, sub Submission) error

// Deliver delegates to the underlying function.
func (fn Func) Deliver(ctx context.Context, sub Submission) error {
	return fn(ctx, sub)
}

// DeliverAll hands sub to each sink in order. Every sink is attempted; the
// failures are joined.
func DeliverAll(ctx context.Context, sub Submission, sinks ...Sink) error {
	var errs []error
	for idx, s := range sinks {
		if s == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.Deliver(ctx, sub); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", idx, err))
		}
	}
	return errors.Join(errs...)
}

// Log writes the submission as a structured log entry.
func Log(logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Func(func(_ context.Context, sub Submission) error {
		payload, err := json.Marshal(sub.Data)
		if err != nil {
			return fmt.Errorf("sink: encode submission %s: %w", sub.ID, err)
		}
		logger.Info("form submitted",
			zap.String("submission_id", sub.ID),
			zap.String("session_id", sub.SessionID),
			zap.Time("submitted_at", sub.SubmittedAt),
			zap.Int("fields", len(formdata.Paths(sub.Data))),
			zap.ByteString("data", payload),
		)
		return nil
	})
}

// JSON writes the submission data to w, indented when indent is non-empty.
func JSON(w io.Writer, indent string) Sink {
	return Func(func(_ context.Context, sub Submission) error {
		var (
			payload []byte
			err     error
		)
		if indent != "" {
			payload, err = json.MarshalIndent(sub.Data, "", indent)
		} else {
			payload, err = json.Marshal(sub.Data)
		}
		if err != nil {
			return fmt.Errorf("sink: encode submission %s: %w", sub.ID, err)
		}
		payload = append(payload, '\n')
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("sink: write submission %s: %w", sub.ID, err)
		}
		return nil
	})
}

// DefaultAcknowledgement is shown to the user after a successful submit.
const DefaultAcknowledgement = "Form submitted successfully!"

// Acknowledge writes a one-line confirmation for the user.
func Acknowledge(w io.Writer, message string) Sink {
	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultAcknowledgement
	}
	return Func(func(_ context.Context, sub Submission) error {
		if _, err := fmt.Fprintf(w, "%s (receipt %s)\n", message, sub.ID); err != nil {
			return fmt.Errorf("sink: acknowledge %s: %w", sub.ID, err)
		}
		return nil
	})
}
