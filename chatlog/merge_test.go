package chatlog

import (
	"strings"
	"testing"
)

func TestMergeLinesContinuation(t *testing.T) {
	raw := "00:00:05\tAlice:\tHello\nworld\n"
	merged := MergeLines(raw, DefaultPhrases())
	if len(merged) < 1 {
		t.Fatal("no merged lines")
	}
	if merged[0] != "00:00:05\tAlice:\tHello\nworld" {
		t.Errorf("merged[0] = %q", merged[0])
	}
}

func TestMergeLinesReplyHeader(t *testing.T) {
	raw := "00:00:02\tBob:\tReplying to \"Let's ship...\"\nAgreed\n"
	merged := MergeLines(raw, DefaultPhrases())
	if len(merged) < 1 {
		t.Fatal("no merged lines")
	}
	want := "00:00:02\tBob:\tReplying to \"Let's ship...\" → Agreed"
	if merged[0] != want {
		t.Errorf("merged[0] = %q, want %q", merged[0], want)
	}
}

func TestMergeLinesLocalizedReplyHeader(t *testing.T) {
	raw := "00:00:02\tBob:\tRespondiendo a \"Hola...\"\nDe acuerdo\n"
	merged := MergeLines(raw, DefaultPhrases())
	want := "00:00:02\tBob:\tRespondiendo a \"Hola...\" → De acuerdo"
	if len(merged) < 1 || merged[0] != want {
		t.Errorf("merged = %q, want first %q", merged, want)
	}
}

func TestMergeLinesBlankPassthrough(t *testing.T) {
	raw := "00:00:01\tAlice:\tHi\n\n00:00:02\tBob:\tYo\n"
	merged := MergeLines(raw, DefaultPhrases())
	var blanks int
	for _, l := range merged {
		if strings.TrimSpace(l) == "" {
			blanks++
		}
	}
	if blanks == 0 {
		t.Error("blank lines should pass through the merge pass")
	}
}

func TestMergeLinesContinuationAcrossBlank(t *testing.T) {
	// A continuation after a blank line still folds into the last real record.
	raw := "00:00:01\tAlice:\tHi\n\nstill alice\n"
	merged := MergeLines(raw, DefaultPhrases())
	found := false
	for _, l := range merged {
		if l == "00:00:01\tAlice:\tHi\nstill alice" {
			found = true
		}
	}
	if !found {
		t.Errorf("continuation not folded, merged = %q", merged)
	}
}

func TestMergeLinesLeadingContinuationDropped(t *testing.T) {
	raw := "orphan line\n00:00:01\tAlice:\tHi\n"
	merged := MergeLines(raw, DefaultPhrases())
	for _, l := range merged {
		if strings.Contains(l, "orphan") {
			t.Errorf("orphan continuation kept: %q", l)
		}
	}
}
