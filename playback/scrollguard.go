package playback

import (
	"sync"
	"time"
)

// ScrollState is the scroll guard's current mode. Transitions back to idle
// are timed: a user scroll holds off auto-scroll for a quiet window, a
// programmatic scroll holds the guard for its own settle duration.
type ScrollState int

const (
	ScrollIdle ScrollState = iota
	ScrollUser
	ScrollProgrammatic
)

func (s ScrollState) String() string {
	switch s {
	case ScrollIdle:
		return "idle"
	case ScrollUser:
		return "user-scrolling"
	case ScrollProgrammatic:
		return "programmatic-scrolling"
	default:
		return "unknown"
	}
}

const (
	// DefaultQuietWindow is how long after a manual scroll auto-scroll stays
	// suppressed. Reset on every manual scroll.
	DefaultQuietWindow = 2 * time.Second
	// DefaultSettleTimeout bounds a programmatic scroll animation; the flag
	// clears after this even if no scroll event arrives.
	DefaultSettleTimeout = 600 * time.Millisecond
)

// ScrollGuard is the explicit state machine that prevents the mutual scroll
// listeners of two synchronized panes from feeding back into each other.
// The clock is injected so transitions are testable without real sleeps.
type ScrollGuard struct {
	mu     sync.Mutex
	now    func() time.Time
	quiet  time.Duration
	settle time.Duration
	state  ScrollState
	until  time.Time
}

// NewScrollGuard creates a guard with the given windows; zero values fall
// back to the defaults and a nil clock uses time.Now.
func NewScrollGuard(quiet, settle time.Duration, now func() time.Time) *ScrollGuard {
	if quiet <= 0 {
		quiet = DefaultQuietWindow
	}
	if settle <= 0 {
		settle = DefaultSettleTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &ScrollGuard{now: now, quiet: quiet, settle: settle}
}

// State returns the current state, applying any due timed transition to idle.
func (g *ScrollGuard) State() ScrollState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

func (g *ScrollGuard) stateLocked() ScrollState {
	if g.state != ScrollIdle && !g.now().Before(g.until) {
		g.state = ScrollIdle
	}
	return g.state
}

// OnUserScroll records a manual scroll, resetting the quiet window. Scroll
// events arriving while a programmatic scroll is in flight are the
// highlighter's own doing and are ignored.
func (g *ScrollGuard) OnUserScroll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stateLocked() == ScrollProgrammatic {
		return
	}
	g.state = ScrollUser
	g.until = g.now().Add(g.quiet)
}

// OnProgrammaticScroll marks an auto-scroll in flight for the settle duration.
func (g *ScrollGuard) OnProgrammaticScroll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = ScrollProgrammatic
	g.until = g.now().Add(g.settle)
}

// CanAutoScroll reports whether an auto-scroll may fire now.
func (g *ScrollGuard) CanAutoScroll() bool {
	return g.State() == ScrollIdle
}
