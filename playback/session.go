package playback

import (
	"sync"
	"time"

	"github.com/callarchive/callarchive/telemetry"
)

// Pane identifies one synchronized view of a call.
type Pane string

const (
	PaneTranscript Pane = "transcript"
	PaneChat       Pane = "chat"
	PaneAgenda     Pane = "agenda"
)

// DefaultPollInterval is how often playback position is sampled while the
// video is playing. Polling stops entirely while paused.
const DefaultPollInterval = 100 * time.Millisecond

// PlayerClock reports the current playback position and whether the video is
// playing. It is injected so sessions are testable without a real player.
type PlayerClock func() (seconds float64, playing bool)

// Update is one highlight notification: the playback position, the shareable
// fragment, and the active index per pane (NoActiveItem when highlighting is
// off or the position precedes the pane's first item).
type Update struct {
	VideoSeconds float64
	Fragment     string
	Active       map[Pane]int
	Seeked       bool
}

// SessionOptions configures a playback session for one call page.
type SessionOptions struct {
	Engine *SyncEngine
	Player PlayerClock
	// Items holds each pane's item timestamps in source-clock seconds,
	// ascending. They are projected into video seconds once at session start.
	Items        map[Pane][]float64
	PollInterval time.Duration
	Notify       func(Update)
}

// Session owns the playback-time poll loop and the per-pane highlight state
// of one call page. All parsed artifacts are owned exclusively by the page's
// session; Close tears down every timer deterministically so no callback can
// mutate a discarded session.
type Session struct {
	engine    *SyncEngine
	player    PlayerClock
	notify    func(Update)
	interval  time.Duration
	projected map[Pane][]float64

	mu       sync.Mutex
	last     map[Pane]int
	fragment string
	position float64
	stop     chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewSession projects the pane items through the sync engine and prepares
// the session. Polling starts with SetPlaying(true).
func NewSession(opts SessionOptions) *Session {
	if opts.Engine == nil {
		opts.Engine = NewSyncEngine(nil)
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	s := &Session{
		engine:    opts.Engine,
		player:    opts.Player,
		notify:    opts.Notify,
		interval:  opts.PollInterval,
		projected: make(map[Pane][]float64, len(opts.Items)),
		last:      make(map[Pane]int, len(opts.Items)),
	}
	for pane, times := range opts.Items {
		s.projected[pane] = opts.Engine.ProjectAll(times)
		s.last[pane] = NoActiveItem
	}
	telemetry.ActiveSessionsGauge.Inc()
	return s
}

// SetPlaying starts the poll ticker when playback begins and stops it when
// paused, so no work happens while the video is idle.
func (s *Session) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if playing == (s.stop != nil) {
		return
	}
	if !playing {
		close(s.stop)
		s.stop = nil
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	s.wg.Add(1)
	go s.poll(stop)
}

func (s *Session) poll(stop chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Session) tick() {
	if s.player == nil {
		return
	}
	pos, playing := s.player()
	if !playing {
		s.SetPlaying(false)
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	upd, changed := s.resolveLocked(pos, false)
	s.mu.Unlock()
	if changed {
		s.publish(upd)
	}
}

// Seek moves the playback position, updates the shareable fragment to the
// new integer second, and immediately republishes highlight state so every
// pane stays consistent. Clicks on timestamps and external jump signals both
// land here.
func (s *Session) Seek(videoSec float64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if videoSec < 0 {
		videoSec = 0
	}
	s.fragment = FormatFragment(videoSec)
	upd, _ := s.resolveLocked(videoSec, true)
	s.mu.Unlock()
	s.publish(upd)
}

// Jump accepts a raw source-clock timestamp from an external caller (e.g. a
// search result) and performs the same offset projection as internal clicks.
func (s *Session) Jump(ts string) {
	s.Seek(s.engine.ToVideo(ts))
}

// LoadFragment seeks to a deep-link fragment parsed from the page URL.
// Unrecognized fragments are ignored.
func (s *Session) LoadFragment(frag string) {
	if sec, ok := ParseFragment(frag); ok {
		s.Seek(sec)
	}
}

// Fragment returns the current shareable fragment ("" before any seek).
func (s *Session) Fragment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fragment
}

// Active returns a snapshot of the current active index per pane.
func (s *Session) Active() map[Pane]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Pane]int, len(s.last))
	for pane, idx := range s.last {
		out[pane] = idx
	}
	return out
}

// Close stops the poll ticker and waits for it to exit. After Close returns,
// no further notifications fire and seeks become no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.mu.Unlock()
	s.wg.Wait()
	telemetry.ActiveSessionsGauge.Dec()
}

// resolveLocked recomputes the active index of every pane for a playback
// position. With a disabled sync engine highlighting stays off: every pane
// resolves to NoActiveItem.
func (s *Session) resolveLocked(pos float64, seeked bool) (Update, bool) {
	s.position = pos
	upd := Update{VideoSeconds: pos, Fragment: s.fragment, Active: make(map[Pane]int, len(s.projected)), Seeked: seeked}
	changed := seeked
	for pane, times := range s.projected {
		idx := NoActiveItem
		if s.engine.Enabled() {
			idx = ActiveIndex(times, pos)
		}
		if idx != s.last[pane] {
			changed = true
			s.last[pane] = idx
		}
		upd.Active[pane] = idx
	}
	return upd, changed
}

func (s *Session) publish(upd Update) {
	if s.notify != nil {
		s.notify(upd)
	}
}
