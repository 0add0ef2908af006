package search

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce collapses rapid query or rebuild requests so a burst of
// input changes produces one in-flight operation.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays each submitted operation and supersedes the previous one:
// a pending timer is reset and an in-flight operation's context is canceled
// rather than letting a stale request queue behind a fresh one. Close clears
// the pending timer deterministically so no callback fires into a torn-down
// owner.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
}

// NewDebouncer creates a debouncer; a non-positive delay uses DefaultDebounce.
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Do schedules fn to run after the debounce delay, superseding any pending or
// in-flight operation. fn must honor its context: a newer request or Close
// cancels it. The returned context is the operation's own; it is done once
// the operation has been superseded or the debouncer closed, which lets a
// caller waiting on fn's result stop waiting for work that will never run.
func (d *Debouncer) Do(fn func(ctx context.Context)) context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	if d.cancel != nil {
		d.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()
		fn(ctx)
	})
	return ctx
}

// Close cancels the pending timer and any in-flight operation. After Close,
// Do becomes a no-op.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
