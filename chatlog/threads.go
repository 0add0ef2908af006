package chatlog

import (
	"regexp"
	"sort"
	"strings"

	"github.com/callarchive/callarchive/timecode"
)

// VirtualSpeaker and VirtualTimestamp identify a synthesized parent created
// when a reply's quoted target cannot be located among real messages.
const (
	VirtualSpeaker   = "Unknown"
	VirtualTimestamp = "00:00:00"
)

// Thread groups a parent message with the replies that quoted it. Replies
// retain source order. Virtual marks a synthesized parent.
type Thread struct {
	Parent  Message   `json:"parent"`
	Replies []Message `json:"replies"`
	Virtual bool      `json:"virtual,omitempty"`
}

// ThreadSet is the reconstructed conversation structure of one export:
// threads in candidate order and the chronological top-level message list.
type ThreadSet struct {
	Threads     []Thread  `json:"threads"`
	Standalones []Message `json:"standalones"`
}

// canonicalReplyRe extracts the quoted target and folded content from a
// normalized reply body.
var canonicalReplyRe = regexp.MustCompile(`(?s)^` + CanonicalReplyHeader + ` "(.*?)"(?:` + replySeparator + `(.*))?$`)

// ReplyBody splits a message into its quoted target and effective reply
// content. ok is false for messages that are not replies.
func (m Message) ReplyBody() (quote, content string, ok bool) {
	sm := canonicalReplyRe.FindStringSubmatch(m.Text)
	if sm == nil {
		return "", "", false
	}
	return sm[1], strings.TrimSpace(sm[2]), true
}

// quoteQuery is a reply's resolved lookup against parent text: a prefix query
// when the quote was truncated with an ellipsis, a substring query otherwise.
type quoteQuery struct {
	text   string
	prefix bool
}

func newQuoteQuery(quote string) quoteQuery {
	if strings.HasSuffix(quote, ellipsis) {
		return quoteQuery{text: strings.ToLower(strings.TrimSuffix(quote, ellipsis)), prefix: true}
	}
	return quoteQuery{text: strings.ToLower(quote), prefix: false}
}

// matches reports whether a candidate parent's text satisfies the query.
// Matching is case-insensitive and best-effort by design; no attempt is made
// to be smarter than the prefix/substring rule.
func (q quoteQuery) matches(parentText string) bool {
	lower := strings.ToLower(parentText)
	if q.prefix {
		return strings.HasPrefix(lower, q.text)
	}
	return strings.Contains(lower, q.text)
}

// BuildThreads reconstructs reply threads from accepted messages. It is a
// pure function over the immutable message list: replies are matched against
// parent text with the quote query rule, a virtual parent is synthesized
// (once per distinct quoted text) when nothing matches, and each reply is
// claimed by at most one thread, first candidate wins. Messages that are not
// replies form the standalone list, sorted by timestamp ascending.
func BuildThreads(msgs []Message) ThreadSet {
	type reply struct {
		msg   Message
		query quoteQuery
	}

	var parents []Message
	var replies []reply
	var standalones []Message
	for _, m := range msgs {
		if quote, _, ok := m.ReplyBody(); ok {
			replies = append(replies, reply{msg: m, query: newQuoteQuery(quote)})
			continue
		}
		parents = append(parents, m)
		standalones = append(standalones, m)
	}

	// Synthesize virtual parents for replies whose quote matches no real
	// parent, reusing one virtual per distinct quoted text.
	var virtuals []Message
	seenVirtual := make(map[string]bool)
	for _, r := range replies {
		if matchParent(parents, r.query) >= 0 {
			continue
		}
		quote, _, _ := r.msg.ReplyBody()
		if seenVirtual[quote] {
			continue
		}
		seenVirtual[quote] = true
		virtuals = append(virtuals, Message{Timestamp: VirtualTimestamp, Speaker: VirtualSpeaker, Text: quote})
	}

	// Attach replies to candidates: real parents in source order first, then
	// virtuals in creation order. A claimed reply is never reassigned; a
	// candidate with no replies produces no thread.
	claimed := make([]bool, len(replies))
	threads := make([]Thread, 0, len(virtuals))
	attach := func(parent Message, virtual bool) {
		var attached []Message
		for i, r := range replies {
			if claimed[i] || !r.query.matches(parent.Text) {
				continue
			}
			claimed[i] = true
			attached = append(attached, r.msg)
		}
		if len(attached) > 0 {
			threads = append(threads, Thread{Parent: parent, Replies: attached, Virtual: virtual})
		}
	}
	for _, p := range parents {
		attach(p, false)
	}
	for _, v := range virtuals {
		attach(v, true)
	}

	sort.SliceStable(standalones, func(i, j int) bool {
		return timecode.ParseSeconds(standalones[i].Timestamp) < timecode.ParseSeconds(standalones[j].Timestamp)
	})

	return ThreadSet{Threads: threads, Standalones: standalones}
}

func matchParent(parents []Message, q quoteQuery) int {
	for i, p := range parents {
		if q.matches(p.Text) {
			return i
		}
	}
	return -1
}
