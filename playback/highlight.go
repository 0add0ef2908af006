package playback

import "sort"

// NoActiveItem is returned by ActiveIndex when the playback position
// precedes the first item; highlighting is off.
const NoActiveItem = -1

// ScrollAnchorFraction places the active item at a fixed fraction from the
// top of its viewport instead of dead-center, keeping following context
// visible below it.
const ScrollAnchorFraction = 0.3

// ActiveIndex resolves the active item for a playback position under
// half-open interval assignment: the greatest index i with times[i] <= now,
// where a boundary belongs to the earlier item. times must be sorted
// ascending in projected video seconds.
func ActiveIndex(times []float64, now float64) int {
	// first index with times[i] > now; the active item sits just before it
	return sort.Search(len(times), func(i int) bool { return times[i] > now }) - 1
}

// ScrollTarget computes the scroll offset that positions an item's top at the
// anchor fraction of the viewport.
func ScrollTarget(itemTop, viewportHeight float64) float64 {
	return itemTop - viewportHeight*ScrollAnchorFraction
}

// AutoScroller suppresses redundant and feedback-triggering scrolls for one
// pane. The only persisted state is the last index actually notified.
type AutoScroller struct {
	guard *ScrollGuard
	last  int
}

// NewAutoScroller creates a scroller sharing the pane's scroll guard.
func NewAutoScroller(guard *ScrollGuard) *AutoScroller {
	return &AutoScroller{guard: guard, last: NoActiveItem}
}

// Observe reports whether the pane should scroll to idx now. A scroll fires
// only when idx differs from the last notified index and the guard is idle;
// firing marks the guard programmatic for the scroll's own settle duration so
// the user-scroll detector is not self-triggered. A blocked index does not
// update the notified state, so the pane catches up once the guard clears.
func (a *AutoScroller) Observe(idx int) bool {
	if idx == a.last {
		return false
	}
	if !a.guard.CanAutoScroll() {
		return false
	}
	a.last = idx
	a.guard.OnProgrammaticScroll()
	return true
}

// Last returns the last notified index.
func (a *AutoScroller) Last() int { return a.last }
