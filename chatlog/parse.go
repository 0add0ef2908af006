package chatlog

import (
	"regexp"
	"strings"
)

// Message is one chat message as produced by parsing. Messages are immutable
// facts; identity for matching purposes is the (timestamp, speaker, text)
// triple.
type Message struct {
	Timestamp string `json:"timestamp"`
	Speaker   string `json:"speaker"`
	Text      string `json:"message"`
}

// Reaction records one speaker reacting to a message with an emoji.
// Reactions accumulate in arrival order under the (possibly truncated)
// quoted target text; grouping by emoji is a view-time aggregation.
type Reaction struct {
	Speaker string `json:"speaker"`
	Emoji   string `json:"emoji"`
}

// ParseResult holds the accepted messages of an export plus the reaction map
// keyed by target message text.
type ParseResult struct {
	Messages  []Message             `json:"messages"`
	Reactions map[string][]Reaction `json:"reactions"`
}

// lineRe matches a merged record: timestamp, speaker, body. (?s) lets the
// body span the embedded newlines produced by MergeLines.
var lineRe = regexp.MustCompile(`(?s)^(\d{2}:\d{2}:\d{2})\t([^\t]+?):\t(.*)$`)

// shorthandRe matches the "add <emoji>" reaction shorthand.
var shorthandRe = regexp.MustCompile(`^add\s+(\S+)$`)

// ellipsis marks a truncated quoted target in reply headers and reaction
// annotations.
const ellipsis = "..."

// ParseMessages turns merged chat lines into structured messages and
// reactions. Lines that do not match the record grammar are silently dropped;
// export formats vary and tolerant parsing is required. Special bodies are
// checked in priority order: reaction shorthand, explicit reaction phrasing,
// reply header with content, plain message.
func ParseMessages(lines []string, phrases []PhraseSet) ParseResult {
	res := ParseResult{Reactions: make(map[string][]Reaction)}
	replyRes := replyBodyRes(phrases)
	for _, line := range lines {
		m := lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ts, speaker, body := m[1], strings.TrimSpace(m[2]), strings.TrimSpace(m[3])
		if body == "" {
			continue
		}

		// 1. Shorthand reaction attaches to the previous accepted message
		// and is not itself stored.
		if sm := shorthandRe.FindStringSubmatch(body); sm != nil {
			if n := len(res.Messages); n > 0 {
				target := res.Messages[n-1].Text
				res.Reactions[target] = append(res.Reactions[target], Reaction{Speaker: speaker, Emoji: sm[1]})
			}
			continue
		}

		// 2. Explicit "Reacted to X with Y" annotation, any recognized locale.
		if target, emoji, ok := matchReaction(body, phrases); ok {
			target = resolveTruncated(target, res.Messages)
			res.Reactions[target] = append(res.Reactions[target], Reaction{Speaker: speaker, Emoji: emoji})
			continue
		}

		// 3. Reply header joined to its content by MergeLines; normalize the
		// header to the canonical phrasing before storage.
		if quote, content, ok := matchReply(body, replyRes); ok {
			body = CanonicalReplyHeader + ` "` + quote + `"` + replySeparator + content
		}

		// 4. Plain message (or normalized reply); becomes the shorthand target.
		res.Messages = append(res.Messages, Message{Timestamp: ts, Speaker: speaker, Text: body})
	}
	return res
}

// ParseExport runs the merge and parse passes over a raw chat export using
// the built-in phrase table.
func ParseExport(raw string) ParseResult {
	phrases := DefaultPhrases()
	return ParseMessages(MergeLines(raw, phrases), phrases)
}

// matchReaction tries each locale's reaction patterns in order; the first
// match wins. The quoted target has any trailing ellipsis stripped by the
// caller via resolveTruncated.
func matchReaction(body string, phrases []PhraseSet) (target, emoji string, ok bool) {
	for _, p := range phrases {
		for _, re := range p.ReactionPatterns {
			if m := re.FindStringSubmatch(body); m != nil {
				return m[1], m[2], true
			}
		}
	}
	return "", "", false
}

// resolveTruncated strips a trailing ellipsis from a quoted reaction target
// and, when it was truncated, re-keys it to the full text of an already
// accepted message whose text starts with the prefix. If no message matches,
// the truncated prefix itself remains the key.
func resolveTruncated(target string, accepted []Message) string {
	if !strings.HasSuffix(target, ellipsis) {
		return target
	}
	prefix := strings.TrimSuffix(target, ellipsis)
	lower := strings.ToLower(prefix)
	for _, msg := range accepted {
		if strings.HasPrefix(strings.ToLower(msg.Text), lower) {
			return msg.Text
		}
	}
	return prefix
}

// replyBodyRes compiles, per locale, a matcher for a reply header followed by
// the folded reply content.
func replyBodyRes(phrases []PhraseSet) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		res = append(res, regexp.MustCompile(
			`(?s)^`+regexp.QuoteMeta(p.ReplyHeader)+` "(.*?)"`+replySeparator+`(.+)$`))
	}
	return res
}

func matchReply(body string, replyRes []*regexp.Regexp) (quote, content string, ok bool) {
	for _, re := range replyRes {
		if m := re.FindStringSubmatch(body); m != nil {
			return m[1], strings.TrimSpace(m[2]), true
		}
	}
	return "", "", false
}
