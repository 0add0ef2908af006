// Package timecode converts between HH:MM:SS timestamp strings and seconds,
// and derives the fixed per-call offset between the transcript clock and the
// video playback clock. All three clocks of a call (chat, transcript, video)
// share the textual representation but have independent epochs; every
// cross-pane comparison goes through the projection helpers here so the panes
// cannot drift from a single source of truth.
package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// SyncConfig holds the two reference points from which the single fixed
// offset for a call is derived. Loaded once per call and immutable after.
type SyncConfig struct {
	TranscriptStartTime string `json:"transcriptStartTime"`
	VideoStartTime      string `json:"videoStartTime"`
	Description         string `json:"description,omitempty"`
}

// ParseSeconds converts "HH:MM:SS" or "HH:MM:SS.mmm" to seconds.
// Malformed input (wrong segment count, non-numeric piece) yields 0 rather
// than an error; a bad timestamp must never break rendering.
func ParseSeconds(s string) float64 {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	sec, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0
	}
	return float64(h)*3600 + float64(m)*60 + sec
}

// FormatSeconds renders seconds as signed zero-padded "HH:MM:SS".
// Sub-second precision is dropped for display.
func FormatSeconds(sec float64) string {
	sign := ""
	if sec < 0 {
		sign = "-"
		sec = -sec
	}
	total := int(sec)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)
}

// Offset returns the transcript-clock minus video-clock difference in
// seconds. Constant for the lifetime of one call's artifacts.
func Offset(cfg SyncConfig) float64 {
	return ParseSeconds(cfg.TranscriptStartTime) - ParseSeconds(cfg.VideoStartTime)
}

// ToVideoSeconds projects a transcript- or chat-clock timestamp into the
// video player's clock.
func ToVideoSeconds(ts string, offset float64) float64 {
	return ParseSeconds(ts) - offset
}

// ToSourceSeconds is the inverse projection, from video-clock seconds back
// to the source (transcript/chat) clock.
func ToSourceSeconds(videoSec, offset float64) float64 {
	return videoSec + offset
}
