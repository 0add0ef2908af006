// Package agenda models the externally produced agenda/action-item summary
// of a call. Items are consumed, never constructed here; they carry source
// timestamps so the playback highlighter can treat them like any other
// timestamped pane.
package agenda

import (
	"encoding/json"
	"fmt"

	"github.com/callarchive/callarchive/timecode"
)

// ActionItem is a single follow-up captured during an agenda item, with an
// optional timestamp of the moment it was raised.
type ActionItem struct {
	Text      string `json:"text"`
	Owner     string `json:"owner,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Item is one agenda topic with its start timestamp in the source clock.
type Item struct {
	Title          string       `json:"title"`
	StartTimestamp string       `json:"start_timestamp"`
	Actions        []ActionItem `json:"actions,omitempty"`
}

// Summary is the full agenda document of one call.
type Summary struct {
	Items []Item `json:"items"`
}

// Load decodes an agenda summary document.
func Load(data []byte) (Summary, error) {
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("decode agenda: %w", err)
	}
	return s, nil
}

// StartSeconds returns each item's start timestamp in source-clock seconds,
// in document order, for active-item resolution.
func (s Summary) StartSeconds() []float64 {
	out := make([]float64, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, timecode.ParseSeconds(it.StartTimestamp))
	}
	return out
}
