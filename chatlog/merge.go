package chatlog

import (
	"regexp"
	"strings"
)

// recordStartRe matches the leading timestamp of a new physical record.
var recordStartRe = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\t`)

// MergeLines normalizes a raw chat export into one logical line per message.
// Lines without a leading timestamp are continuations of the preceding
// record: if that record is a bare reply header ("Replying to ..."), the
// continuation is the actual quoted reply body and is joined with a " → "
// separator; otherwise it is appended with an embedded newline so multi-line
// message formatting survives. Blank lines pass through and are filtered by
// the parse pass.
func MergeLines(raw string, phrases []PhraseSet) []string {
	headerRes := replyHeaderOnlyRes(phrases)
	lines := strings.Split(raw, "\n")
	merged := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		switch {
		case recordStartRe.MatchString(line):
			merged = append(merged, line)
		case strings.TrimSpace(line) == "":
			merged = append(merged, line)
		default:
			// Continuation: fold into the last non-blank record. A leading
			// continuation with no owner has nothing to attach to and is dropped.
			i := len(merged) - 1
			for i >= 0 && strings.TrimSpace(merged[i]) == "" {
				i--
			}
			if i < 0 {
				continue
			}
			if isReplyHeaderOnly(merged[i], headerRes) {
				merged[i] += replySeparator + strings.TrimSpace(line)
			} else {
				merged[i] += "\n" + line
			}
		}
	}
	return merged
}

// replyHeaderOnlyRes compiles, per locale, a matcher for a record whose body
// is exactly a reply header with its quoted target and nothing after it.
func replyHeaderOnlyRes(phrases []PhraseSet) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		res = append(res, regexp.MustCompile(
			`(?s)^\d{2}:\d{2}:\d{2}\t[^\t]+:\t\s*`+regexp.QuoteMeta(p.ReplyHeader)+` ".*"\s*$`))
	}
	return res
}

func isReplyHeaderOnly(record string, headerRes []*regexp.Regexp) bool {
	for _, re := range headerRes {
		if re.MatchString(record) {
			return true
		}
	}
	return false
}
