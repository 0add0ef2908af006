package playback

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/callarchive/callarchive/timecode"
)

// clockFragmentRe matches an HH:MM:SS deep-link fragment, with optional
// fractional seconds.
var clockFragmentRe = regexp.MustCompile(`^\d{1,2}:\d{2}:\d{2}(\.\d+)?$`)

// ParseFragment interprets a shareable URL fragment as video seconds.
// Both "#t=<seconds>" and "#HH:MM:SS" forms are accepted; the leading "#"
// is optional. Returns ok=false for anything unrecognized or negative.
func ParseFragment(frag string) (float64, bool) {
	frag = strings.TrimPrefix(strings.TrimSpace(frag), "#")
	if frag == "" {
		return 0, false
	}
	if rest, found := strings.CutPrefix(frag, "t="); found {
		sec, err := strconv.ParseFloat(rest, 64)
		if err != nil || sec < 0 {
			return 0, false
		}
		return sec, true
	}
	if clockFragmentRe.MatchString(frag) {
		return timecode.ParseSeconds(frag), true
	}
	return 0, false
}

// FormatFragment renders a playback position as the canonical shareable
// fragment, truncated to the whole second.
func FormatFragment(videoSec float64) string {
	if videoSec < 0 {
		videoSec = 0
	}
	return fmt.Sprintf("#t=%d", int(videoSec))
}
