package contact

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Controller owns the contact form: field values, the submission status and
// the single in-flight request. It is safe for concurrent use.
type Controller struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	fields   Submission
	status   Status
	queue    []Status // transitions not yet delivered
	draining bool

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func(Status)
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSubmitTimeout bounds each dispatch. Zero or negative keeps the default.
func WithSubmitTimeout(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = l }
}

// NewController returns an idle controller with empty fields.
func NewController(sender Sender, opts ...ControllerOption) *Controller {
	c := &Controller{
		sender:  sender,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		subs:    make(map[int]func(Status)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fields returns a copy of the current field values.
func (c *Controller) Fields() Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Disabled reports whether inputs and the submit control are locked.
func (c *Controller) Disabled() bool {
	return c.Status().State == Submitting
}

// SubmitLabel returns the text of the submit control.
func (c *Controller) SubmitLabel() string {
	if c.Disabled() {
		return SubmittingLabel
	}
	return SubmitLabel
}

// SetField records an edit. Edits are rejected while a submission is in
// flight; an edit made while a terminal status is shown clears it to Idle.
func (c *Controller) SetField(f Field, v string) bool {
	c.mu.Lock()
	if c.status.State == Submitting {
		c.mu.Unlock()
		return false
	}
	c.fields.Set(f, v)
	if c.status.Terminal() {
		c.transition(Status{State: Idle})
	}
	c.mu.Unlock()

	c.flush()
	return true
}

// SetFields replaces all four fields, following the same rules as SetField.
func (c *Controller) SetFields(s Submission) bool {
	c.mu.Lock()
	if c.status.State == Submitting {
		c.mu.Unlock()
		return false
	}
	c.fields = s
	if c.status.Terminal() {
		c.transition(Status{State: Idle})
	}
	c.mu.Unlock()

	c.flush()
	return true
}

// Submit validates the current fields and, if they pass, dispatches them
// and waits for the outcome. It returns the resulting status. Calling
// Submit while another submission is in flight does nothing and returns
// the Submitting status.
//
// The request is detached from ctx cancellation; it ends on completion or
// when the submit timeout expires.
func (c *Controller) Submit(ctx context.Context) Status {
	c.mu.Lock()
	if c.status.State == Submitting {
		st := c.status
		c.mu.Unlock()
		return st
	}

	s := c.fields
	if err := s.Validate(); err != nil {
		st := Status{State: Failed, Message: err.Error()}
		c.transition(st)
		c.mu.Unlock()
		c.flush()
		return st
	}

	c.transition(Status{State: Submitting})
	c.mu.Unlock()
	c.flush()

	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	err := c.sender.Send(reqCtx, s)
	cancel()

	st := c.outcome(err)
	c.mu.Lock()
	c.transition(st)
	if st.State == Succeeded {
		c.fields = Submission{}
	}
	c.mu.Unlock()

	c.flush()
	return st
}

// outcome maps a send result onto the status shown to the visitor.
func (c *Controller) outcome(err error) Status {
	if err == nil {
		c.logger.Info("contact message sent")
		return Status{State: Succeeded, Message: SuccessMessage}
	}

	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		c.logger.Warn("contact relay rejected message", "status", serverErr.StatusCode, "error", serverErr.Message)
		return Status{State: Failed, Message: serverErr.Message}
	}

	c.logger.Warn("contact message not sent", "error", err)
	return Status{State: Failed, Message: TransportFailureMessage}
}

// Subscribe registers fn to be called with every status transition. The
// returned function removes the listener; calling it more than once is safe.
func (c *Controller) Subscribe(fn func(Status)) (release func()) {
	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// transition sets the status and queues it for subscribers. c.mu must be
// held.
func (c *Controller) transition(st Status) {
	c.status = st
	c.queue = append(c.queue, st)
}

// flush delivers queued transitions in the order they happened. Only one
// goroutine drains at a time; a flush that finds a drain in progress leaves
// its transitions to that goroutine. Listeners run without c.mu held, so
// they may call back into the controller.
func (c *Controller) flush() {
	c.mu.Lock()
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	for len(c.queue) > 0 {
		st := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		c.notify(st)
		c.mu.Lock()
	}
	c.draining = false
	c.mu.Unlock()
}

func (c *Controller) notify(st Status) {
	c.subMu.Lock()
	listeners := make([]func(Status), 0, len(c.subs))
	for _, fn := range c.subs {
		listeners = append(listeners, fn)
	}
	c.subMu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}
