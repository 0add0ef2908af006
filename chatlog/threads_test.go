package chatlog

import (
	"testing"
)

func TestBuildThreadsBasic(t *testing.T) {
	res := ParseExport("00:00:01\tAlice:\tLet's ship feature X\n" +
		"00:00:02\tBob:\tReplying to \"Let's ship...\"\nAgreed\n")
	set := BuildThreads(res.Messages)
	if len(set.Threads) != 1 {
		t.Fatalf("got %d threads, want 1", len(set.Threads))
	}
	th := set.Threads[0]
	if th.Virtual {
		t.Error("thread parent should be Alice's real message")
	}
	if th.Parent.Speaker != "Alice" || th.Parent.Text != "Let's ship feature X" {
		t.Errorf("parent = %+v", th.Parent)
	}
	if len(th.Replies) != 1 {
		t.Fatalf("got %d replies, want 1", len(th.Replies))
	}
	_, content, ok := th.Replies[0].ReplyBody()
	if !ok || content != "Agreed" {
		t.Errorf("effective reply content = %q, ok=%v, want Agreed", content, ok)
	}
}

func TestBuildThreadsVirtualParent(t *testing.T) {
	res := ParseExport("00:00:02\tBob:\tReplying to \"never said this...\"\nSure\n" +
		"00:00:03\tCarol:\tReplying to \"never said this...\"\nAlso sure\n")
	set := BuildThreads(res.Messages)
	if len(set.Threads) != 1 {
		t.Fatalf("identical quotes must reuse one virtual parent; got %d threads", len(set.Threads))
	}
	th := set.Threads[0]
	if !th.Virtual {
		t.Error("expected a virtual parent")
	}
	if th.Parent.Speaker != VirtualSpeaker || th.Parent.Timestamp != VirtualTimestamp {
		t.Errorf("virtual parent = %+v", th.Parent)
	}
	if len(th.Replies) != 2 {
		t.Errorf("got %d replies, want 2", len(th.Replies))
	}
}

func TestBuildThreadsFirstMatchClaims(t *testing.T) {
	// Two parents both contain the quoted text; the earlier one claims the reply.
	msgs := []Message{
		{Timestamp: "00:00:01", Speaker: "Alice", Text: "deploy window friday"},
		{Timestamp: "00:00:02", Speaker: "Bob", Text: "the deploy window friday works"},
		{Timestamp: "00:00:03", Speaker: "Carol", Text: `Replying to "deploy window" → fine by me`},
	}
	set := BuildThreads(msgs)
	if len(set.Threads) != 1 {
		t.Fatalf("got %d threads, want 1", len(set.Threads))
	}
	if set.Threads[0].Parent.Speaker != "Alice" {
		t.Errorf("reply claimed by %q, want Alice", set.Threads[0].Parent.Speaker)
	}
}

func TestBuildThreadsCaseInsensitive(t *testing.T) {
	msgs := []Message{
		{Timestamp: "00:00:01", Speaker: "Alice", Text: "EIP-7702 Discussion"},
		{Timestamp: "00:00:02", Speaker: "Bob", Text: `Replying to "eip-7702 disc..." → supportive`},
	}
	set := BuildThreads(msgs)
	if len(set.Threads) != 1 || set.Threads[0].Virtual {
		t.Fatalf("case-insensitive prefix match failed: %+v", set.Threads)
	}
}

func TestBuildThreadsSubstringMatch(t *testing.T) {
	// A non-truncated quote is a substring query, not a prefix query.
	msgs := []Message{
		{Timestamp: "00:00:01", Speaker: "Alice", Text: "I think the fork should slip a week"},
		{Timestamp: "00:00:02", Speaker: "Bob", Text: `Replying to "fork should slip" → agreed`},
	}
	set := BuildThreads(msgs)
	if len(set.Threads) != 1 || set.Threads[0].Parent.Speaker != "Alice" {
		t.Fatalf("substring match failed: %+v", set.Threads)
	}
}

func TestBuildThreadsStandalonesSorted(t *testing.T) {
	msgs := []Message{
		{Timestamp: "00:00:09", Speaker: "Bob", Text: "later message"},
		{Timestamp: "00:00:01", Speaker: "Alice", Text: "earlier message"},
	}
	set := BuildThreads(msgs)
	if len(set.Standalones) != 2 {
		t.Fatalf("got %d standalones, want 2", len(set.Standalones))
	}
	if set.Standalones[0].Speaker != "Alice" || set.Standalones[1].Speaker != "Bob" {
		t.Errorf("standalones not sorted by timestamp: %+v", set.Standalones)
	}
}

func TestBuildThreadsReplyClaimedOnce(t *testing.T) {
	msgs := []Message{
		{Timestamp: "00:00:01", Speaker: "Alice", Text: "shared phrase here"},
		{Timestamp: "00:00:02", Speaker: "Bob", Text: "another shared phrase here too"},
		{Timestamp: "00:00:03", Speaker: "Carol", Text: `Replying to "shared phrase" → ack`},
	}
	set := BuildThreads(msgs)
	total := 0
	for _, th := range set.Threads {
		total += len(th.Replies)
	}
	if total != 1 {
		t.Errorf("reply attached %d times, want exactly once", total)
	}
}
