// Package transcript parses the subtitle-style transcript artifact of a call
// into timestamped speaker entries. The format is WEBVTT-like: a header
// marker, optional metadata, numeric cue indices, "start --> end" timing
// lines with fractional seconds, and one or more caption lines per cue in
// "Speaker: text" form. Only the cue start time is retained; cues without a
// speaker colon are attributed to "Unknown". Parsing never fails: malformed
// cues are skipped and the rest of the file still renders.
package transcript

import (
	"regexp"
	"strings"

	"github.com/callarchive/callarchive/timecode"
)

// UnknownSpeaker is assigned to cues whose caption carries no "Speaker:" prefix.
const UnknownSpeaker = "Unknown"

// Entry is one transcript cue: the start timestamp (in the transcript's own
// clock), the speaker, and the caption text.
type Entry struct {
	Timestamp string  `json:"timestamp"`
	Seconds   float64 `json:"seconds"`
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
}

var (
	headerRe = regexp.MustCompile(`^WEBVTT\b`)
	// timingRe captures the cue start; fractional seconds are optional.
	timingRe = regexp.MustCompile(`^(\d{2}:\d{2}:\d{2}(?:\.\d{1,3})?)\s*-->\s*\d{2}:\d{2}:\d{2}(?:\.\d{1,3})?`)
	cueIDRe  = regexp.MustCompile(`^\d+$`)
	metaRe   = regexp.MustCompile(`^(Kind|Language|NOTE|STYLE|REGION)\b`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	// speakerRe splits "Speaker Name: text". The speaker part excludes tabs
	// and further colons so timestamps inside the caption don't split.
	speakerRe = regexp.MustCompile(`^([^:\t]{1,64}):\s*(.*)$`)
)

// Parse converts raw transcript text into ordered entries, one per cue.
func Parse(raw string) []Entry {
	var entries []Entry
	var cur *Entry
	flush := func() {
		if cur != nil && cur.Text != "" {
			entries = append(entries, *cur)
		}
		cur = nil
	}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		switch {
		case headerRe.MatchString(line) || metaRe.MatchString(line):
			continue
		case cueIDRe.MatchString(line):
			continue
		case line == "":
			flush()
		default:
			if m := timingRe.FindStringSubmatch(line); m != nil {
				flush()
				start := m[1]
				cur = &Entry{Timestamp: start, Seconds: timecode.ParseSeconds(start)}
				continue
			}
			if cur == nil {
				continue
			}
			appendCaption(cur, tagRe.ReplaceAllString(line, ""))
		}
	}
	flush()
	return entries
}

// appendCaption folds a caption line into the current cue. The first caption
// line establishes the speaker; later lines of the same cue join the text.
func appendCaption(cur *Entry, line string) {
	if line == "" {
		return
	}
	if cur.Text == "" && cur.Speaker == "" {
		if m := speakerRe.FindStringSubmatch(line); m != nil {
			cur.Speaker = strings.TrimSpace(m[1])
			cur.Text = m[2]
			return
		}
		cur.Speaker = UnknownSpeaker
		cur.Text = line
		return
	}
	cur.Text += " " + line
}
