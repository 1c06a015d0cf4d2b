package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/session"
)

// Controller binds a session to the view builder. Field changes coming from
// a renderer go through OnFieldChange, which stores the value and marks the
// path as touched so its validation state is shown.
type Controller struct {
	mu      sync.Mutex
	sess    *session.Session
	builder *Builder
}

// NewController builds views for sess. The session's validator is used
// unless an option overrides it.
func NewController(sess *session.Session, opts ...BuilderOption) *Controller {
	opts = append([]BuilderOption{WithValidator(sess.Validator())}, opts...)
	return &Controller{sess: sess, builder: NewBuilder(opts...)}
}

// Session returns the bound session.
func (c *Controller) Session() *session.Session {
	return c.sess
}

// View builds the current step.
func (c *Controller) View() (StepView, error) {
	snap := c.sess.Snapshot()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builder.Step(c.sess.Schema(), snap.Step, snap.Data)
}

// Review builds the review summary from the current data.
func (c *Controller) Review() ReviewView {
	snap := c.sess.Snapshot()
	return Review(c.sess.Schema(), snap.Data, c.builder.validator.Evaluator())
}

// OnFieldChange stores value at path and rebuilds the current step.
func (c *Controller) OnFieldChange(path string, value any) (StepView, error) {
	c.Touch(path)
	c.sess.UpdateField(path, value)
	return c.View()
}

// OnFieldInput coerces raw text for the field at path before storing it.
func (c *Controller) OnFieldInput(path, raw string) (StepView, error) {
	field, ok := c.sess.Schema().Lookup(path)
	if !ok {
		return StepView{}, fmt.Errorf("render: unknown field %q", path)
	}
	return c.OnFieldChange(path, Coerce(field, raw))
}

// Touch marks paths so their validation state is shown even when empty.
func (c *Controller) Touch(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, path := range paths {
		if path = strings.TrimSpace(path); path != "" {
			c.builder.touched[path] = struct{}{}
		}
	}
}

// TouchStep marks every field of the current step, typically after a
// refused NextStep.
func (c *Controller) TouchStep() {
	view, err := c.View()
	if err != nil {
		return
	}
	paths := make([]string, 0, len(view.Fields))
	for _, field := range view.Flatten() {
		paths = append(paths, field.Path)
	}
	c.Touch(paths...)
}

// Reset forgets touched paths.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.builder.touched = make(map[string]struct{})
}
