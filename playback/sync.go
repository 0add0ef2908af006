// Package playback keeps the transcript, chat, and agenda panes of a call
// synchronized with video playback. It owns the transcript-clock↔video-clock
// offset, resolves the active item of each pane for a playback position, and
// guards auto-scroll against feedback between panes.
package playback

import (
	"github.com/callarchive/callarchive/timecode"
)

// SyncEngine holds the fixed per-call offset between the source clocks
// (transcript/chat/agenda) and the video clock, and exposes the two pure
// projection functions. A call without a sync config gets a disabled engine:
// timestamps are shown verbatim and highlighting is off.
type SyncEngine struct {
	offset  float64
	enabled bool
}

// NewSyncEngine derives the offset from a call's sync config. A nil or empty
// config disables all cross-clock projection.
func NewSyncEngine(cfg *timecode.SyncConfig) *SyncEngine {
	if cfg == nil || (cfg.TranscriptStartTime == "" && cfg.VideoStartTime == "") {
		return &SyncEngine{}
	}
	return &SyncEngine{offset: timecode.Offset(*cfg), enabled: true}
}

// Enabled reports whether cross-clock projection is available.
func (e *SyncEngine) Enabled() bool { return e.enabled }

// Offset returns the transcript-minus-video offset in seconds (0 when disabled).
func (e *SyncEngine) Offset() float64 { return e.offset }

// ToVideo projects a source-clock timestamp string into video seconds.
func (e *SyncEngine) ToVideo(ts string) float64 {
	return timecode.ToVideoSeconds(ts, e.offset)
}

// ToVideoSeconds projects source-clock seconds into video seconds.
func (e *SyncEngine) ToVideoSeconds(src float64) float64 { return src - e.offset }

// ToSource is the inverse projection, from video seconds to the source clock.
func (e *SyncEngine) ToSource(videoSec float64) float64 {
	return timecode.ToSourceSeconds(videoSec, e.offset)
}

// ProjectAll maps a pane's source-clock seconds into video seconds,
// preserving order.
func (e *SyncEngine) ProjectAll(src []float64) []float64 {
	out := make([]float64, len(src))
	for i, s := range src {
		out[i] = s - e.offset
	}
	return out
}
