package sku

import (
	"context"
	"strings"
	"sync"
	"time"
)

// State is the controller's position in the validation lifecycle.
type State string

const (
	StateIdle          State = "idle"
	StateDebouncing    State = "debouncing"
	StateValidating    State = "validating"
	StateValid         State = "valid"
	StateInvalid       State = "invalid"
	StateIndeterminate State = "indeterminate"
)

// Snapshot is the controller state pushed to the consuming UI after every
// transition.
type Snapshot struct {
	State   State   `json:"state"`
	Message string  `json:"message,omitempty"`
	Result  *Result `json:"result,omitempty"`
}

// Controller debounces a mutable SKU input and drives availability checks for
// it. Each input field owns exactly one Controller. It guarantees that only
// the most recently issued check can affect the reported state: superseded
// in-flight checks are cancelled and their results discarded even if they
// arrive later.
type Controller struct {
	mu     sync.Mutex
	check  CheckFunc
	quiet  time.Duration
	notify func(Snapshot)

	timer    *time.Timer
	timerGen uint64
	cancel   context.CancelFunc // current in-flight check; owned exclusively here
	seq      uint64
	last     Snapshot
	closed   bool
}

// NewController builds a controller. quiet is the keystroke quiet period;
// notify receives every state transition and must not call back into the
// controller.
func NewController(quiet time.Duration, check CheckFunc, notify func(Snapshot)) *Controller {
	if notify == nil {
		notify = func(Snapshot) {}
	}
	return &Controller{
		check:  check,
		quiet:  quiet,
		notify: notify,
		last:   Snapshot{State: StateIdle},
	}
}

// Observe records a keystroke. It resets the quiet-period timer without
// cancelling any check already running; a later transition to validating
// supersedes that check instead.
func (c *Controller) Observe(req Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	// Stop can lose the race with a timer that already fired; the generation
	// counter makes the stale callback a no-op.
	c.timerGen++
	gen := c.timerGen
	c.transition(Snapshot{State: StateDebouncing})
	c.timer = time.AfterFunc(c.quiet, func() { c.fire(gen, req) })
}

// Snapshot returns the last published state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Close cancels the pending timer and any in-flight check. No state updates
// happen after Close returns; the consuming UI context may be gone.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// fire runs when the quiet period elapses. A callback from a superseded timer
// does nothing.
func (c *Controller) fire(gen uint64, req Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.timerGen {
		return
	}

	// Empty input is "no opinion": no network call, neutral state.
	if strings.TrimSpace(req.SKU) == "" {
		c.supersede()
		c.transition(Snapshot{State: StateIdle})
		return
	}

	c.supersede()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	issued := c.seq
	c.transition(Snapshot{State: StateValidating, Message: MsgChecking})

	go func() {
		res := c.check(ctx, req)
		c.apply(issued, ctx, res)
	}()
}

// supersede invalidates the current in-flight check, if any.
func (c *Controller) supersede() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
}

// apply reconciles a finished check with controller state. Results from
// superseded checks are discarded unconditionally, whatever their arrival
// order.
func (c *Controller) apply(issued uint64, ctx context.Context, res *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || issued != c.seq || ctx.Err() != nil {
		return
	}
	if c.cancel != nil {
		// The check finished; release its context.
		c.cancel()
		c.cancel = nil
	}

	switch {
	case res == nil:
		c.transition(Snapshot{State: StateIndeterminate, Message: MsgIndeterminate})
	case res.Confidence == ConfidenceLow:
		// Fail open: the store was unreachable, the form may still submit.
		c.transition(Snapshot{State: StateIndeterminate, Message: MsgIndeterminate, Result: res})
	case res.IsAvailable:
		c.transition(Snapshot{State: StateValid, Message: MsgAvailable, Result: res})
	default:
		msg := res.Error
		if msg == "" {
			msg = MsgTaken
		}
		c.transition(Snapshot{State: StateInvalid, Message: msg, Result: res})
	}
}

// transition publishes a new snapshot. Callers hold c.mu.
func (c *Controller) transition(s Snapshot) {
	c.last = s
	c.notify(s)
}
