package playback

import (
	"testing"
	"time"
)

func TestActiveIndexBoundaries(t *testing.T) {
	times := []float64{10, 20, 30}
	cases := []struct {
		now  float64
		want int
	}{
		{9, NoActiveItem}, // before the first item: highlighting off
		{10, 0},
		{15, 0},
		{20, 1}, // boundary belongs to the earlier item's end: 20 starts item 1
		{29.999, 1},
		{30, 2},
		{1000, 2},
	}
	for _, c := range cases {
		if got := ActiveIndex(times, c.now); got != c.want {
			t.Errorf("ActiveIndex(now=%v) = %d, want %d", c.now, got, c.want)
		}
	}
}

func TestActiveIndexEmpty(t *testing.T) {
	if got := ActiveIndex(nil, 5); got != NoActiveItem {
		t.Errorf("ActiveIndex(nil) = %d, want %d", got, NoActiveItem)
	}
}

func TestScrollTarget(t *testing.T) {
	// Active item anchored at a fraction from the top, not centered.
	got := ScrollTarget(1000, 600)
	want := 1000 - 600*ScrollAnchorFraction
	if got != want {
		t.Errorf("ScrollTarget = %v, want %v", got, want)
	}
}

func TestAutoScrollerSuppressesRedundant(t *testing.T) {
	clock := newFakeClock()
	a := NewAutoScroller(NewScrollGuard(time.Second, 100*time.Millisecond, clock.now))
	if !a.Observe(0) {
		t.Fatal("first observation should scroll")
	}
	clock.advance(200 * time.Millisecond) // settle passes
	if a.Observe(0) {
		t.Error("same index must not scroll again")
	}
	if !a.Observe(1) {
		t.Error("new index should scroll")
	}
}

func TestAutoScrollerRespectsUserScroll(t *testing.T) {
	clock := newFakeClock()
	guard := NewScrollGuard(time.Second, 100*time.Millisecond, clock.now)
	a := NewAutoScroller(guard)
	guard.OnUserScroll()
	if a.Observe(2) {
		t.Error("auto-scroll during the user quiet window must be blocked")
	}
	if a.Last() != NoActiveItem {
		t.Error("blocked scroll must not update the notified index")
	}
	clock.advance(1100 * time.Millisecond)
	if !a.Observe(2) {
		t.Error("pane should catch up after the quiet window expires")
	}
}
