package sku

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testQuiet = 20 * time.Millisecond

// recorder collects every published snapshot and signals when a terminal
// state (valid/invalid/indeterminate/idle after fire) arrives.
type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
	settled   chan Snapshot
}

func newRecorder() *recorder {
	return &recorder{settled: make(chan Snapshot, 16)}
}

func (r *recorder) notify(s Snapshot) {
	r.mu.Lock()
	r.snapshots = append(r.snapshots, s)
	r.mu.Unlock()
	switch s.State {
	case StateValid, StateInvalid, StateIndeterminate:
		r.settled <- s
	}
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.snapshots))
	for i, s := range r.snapshots {
		out[i] = s.State
	}
	return out
}

func waitSettled(t *testing.T, r *recorder) Snapshot {
	t.Helper()
	select {
	case s := <-r.settled:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("controller never settled")
		return Snapshot{}
	}
}

func TestControllerDebounceCollapsesKeystrokes(t *testing.T) {
	var calls int32
	var lastSKU atomic.Value
	check := func(ctx context.Context, req Request) *Result {
		atomic.AddInt32(&calls, 1)
		lastSKU.Store(req.SKU)
		return &Result{IsAvailable: true, Confidence: ConfidenceHigh}
	}
	rec := newRecorder()
	c := NewController(testQuiet, check, rec.notify)
	defer c.Close()

	for _, s := range []string{"A", "AB", "ABC", "ABC-1"} {
		c.Observe(Request{SKU: s})
		time.Sleep(2 * time.Millisecond)
	}

	got := waitSettled(t, rec)
	assert.Equal(t, StateValid, got.State)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "burst of keystrokes must collapse to one check")
	assert.Equal(t, "ABC-1", lastSKU.Load())
}

func TestControllerLastRequestWins(t *testing.T) {
	release := make(chan struct{})
	var calls int32
	check := func(ctx context.Context, req Request) *Result {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			// First check is slow and comes back after being superseded.
			<-release
			return &Result{IsAvailable: true, Confidence: ConfidenceHigh}
		}
		return &Result{IsAvailable: false, Confidence: ConfidenceHigh}
	}
	rec := newRecorder()
	c := NewController(testQuiet, check, rec.notify)
	defer c.Close()

	c.Observe(Request{SKU: "SLOW-1"})
	// Wait for the first check to be in flight before typing again.
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	c.Observe(Request{SKU: "FAST-2"})
	got := waitSettled(t, rec)
	assert.Equal(t, StateInvalid, got.State)

	// Now let the stale check finish; it must not override the verdict.
	close(release)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateInvalid, c.Snapshot().State, "stale result must be discarded")
	select {
	case s := <-rec.settled:
		t.Fatalf("unexpected extra transition to %s", s.State)
	default:
	}
}

func TestControllerEmptyInputSkipsCheck(t *testing.T) {
	var calls int32
	check := func(ctx context.Context, req Request) *Result {
		atomic.AddInt32(&calls, 1)
		return &Result{IsAvailable: true, Confidence: ConfidenceHigh}
	}
	rec := newRecorder()
	c := NewController(testQuiet, check, rec.notify)
	defer c.Close()

	c.Observe(Request{SKU: "   "})
	assert.Eventually(t, func() bool {
		return c.Snapshot().State == StateIdle
	}, time.Second, time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "empty input must not hit the store")
	assert.Equal(t, []State{StateDebouncing, StateIdle}, rec.states())
}

func TestControllerEmptyInputCancelsInFlightCheck(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	check := func(ctx context.Context, req Request) *Result {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return nil
	}
	rec := newRecorder()
	c := NewController(testQuiet, check, rec.notify)
	defer c.Close()

	c.Observe(Request{SKU: "ABC"})
	<-started
	c.Observe(Request{SKU: ""})

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("clearing the field must cancel the in-flight check")
	}
	assert.Eventually(t, func() bool {
		return c.Snapshot().State == StateIdle
	}, time.Second, time.Millisecond)
}

func TestControllerResultMapping(t *testing.T) {
	tests := []struct {
		name    string
		result  *Result
		state   State
		message string
	}{
		{"available", &Result{IsAvailable: true, Confidence: ConfidenceHigh}, StateValid, MsgAvailable},
		{"taken", &Result{IsAvailable: false, Confidence: ConfidenceHigh, Error: MsgTaken}, StateInvalid, MsgTaken},
		{"reserved by disabled variation", &Result{IsAvailable: false, Confidence: ConfidenceHigh, Error: MsgReserved}, StateInvalid, MsgReserved},
		{"degraded check", &Result{IsAvailable: false, Confidence: ConfidenceLow, Error: "upstream timeout"}, StateIndeterminate, MsgIndeterminate},
		{"nil result", nil, StateIndeterminate, MsgIndeterminate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := func(ctx context.Context, req Request) *Result { return tt.result }
			rec := newRecorder()
			c := NewController(testQuiet, check, rec.notify)
			defer c.Close()

			c.Observe(Request{SKU: "ANY-1"})
			got := waitSettled(t, rec)
			assert.Equal(t, tt.state, got.State)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, []State{StateDebouncing, StateValidating, tt.state}, rec.states())
		})
	}
}

func TestControllerStaleTimerCallbackIsNoOp(t *testing.T) {
	var calls int32
	check := func(ctx context.Context, req Request) *Result {
		atomic.AddInt32(&calls, 1)
		return &Result{IsAvailable: true, Confidence: ConfidenceHigh}
	}
	rec := newRecorder()
	c := NewController(time.Hour, check, rec.notify)
	defer c.Close()

	c.Observe(Request{SKU: "OLD-1"})
	c.Observe(Request{SKU: "NEW-2"})

	c.mu.Lock()
	stale := c.timerGen - 1
	live := c.timerGen
	c.mu.Unlock()

	// A timer whose Stop lost the race still runs its callback; a superseded
	// generation must not issue a check.
	c.fire(stale, Request{SKU: "OLD-1"})
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "superseded timer must not issue a check")
	assert.Equal(t, StateDebouncing, c.Snapshot().State)

	c.fire(live, Request{SKU: "NEW-2"})
	got := waitSettled(t, rec)
	assert.Equal(t, StateValid, got.State)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "exactly one check for the burst")
}

func TestControllerReleasesContextAfterApply(t *testing.T) {
	var captured atomic.Value
	check := func(ctx context.Context, req Request) *Result {
		captured.Store(ctx)
		return &Result{IsAvailable: true, Confidence: ConfidenceHigh}
	}
	rec := newRecorder()
	c := NewController(testQuiet, check, rec.notify)
	defer c.Close()

	c.Observe(Request{SKU: "ABC-1"})
	got := waitSettled(t, rec)
	require.Equal(t, StateValid, got.State)

	ctx := captured.Load().(context.Context)
	assert.Eventually(t, func() bool {
		return ctx.Err() != nil
	}, time.Second, time.Millisecond, "the finished check's context must be released")
}

func TestControllerCloseStopsNotifications(t *testing.T) {
	started := make(chan struct{})
	check := func(ctx context.Context, req Request) *Result {
		close(started)
		<-ctx.Done()
		return &Result{IsAvailable: true, Confidence: ConfidenceHigh}
	}
	rec := newRecorder()
	c := NewController(testQuiet, check, rec.notify)

	c.Observe(Request{SKU: "ABC"})
	<-started
	before := len(rec.states())
	c.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, len(rec.states()), "no transitions after Close")

	// Further keystrokes are ignored once closed.
	c.Observe(Request{SKU: "DEF"})
	time.Sleep(2 * testQuiet)
	assert.Equal(t, before, len(rec.states()))
}
