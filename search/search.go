// Package search defines the contract of the search-index collaborator:
// build an index over a call's panes, query it, and report build progress.
// The core consumes the contract as a black box; MemoryIndex is the built-in
// implementation. Every hit carries its source timestamp so a result click
// can drive the cross-pane jump.
package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
)

// Document is one searchable unit: a transcript cue, a chat message, or an
// agenda item.
type Document struct {
	CallID    string  `json:"call_id"`
	Pane      string  `json:"pane"`
	Speaker   string  `json:"speaker,omitempty"`
	Text      string  `json:"text"`
	Timestamp string  `json:"timestamp"`
	Seconds   float64 `json:"seconds"`
}

// Hit is a query match with its relevance score.
type Hit struct {
	Document
	Score float64 `json:"score"`
}

// Index is the black-box collaborator contract.
type Index interface {
	Build(ctx context.Context, docs []Document) error
	Query(ctx context.Context, q string, limit int) ([]Hit, error)
	Progress() float64
}

// MemoryIndex is an in-memory inverted index. Safe for concurrent use;
// a rebuild atomically replaces the previous postings.
type MemoryIndex struct {
	mu       sync.RWMutex
	docs     []Document
	postings map[string][]int

	total atomic.Int64
	done  atomic.Int64
}

// NewMemoryIndex returns an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{postings: make(map[string][]int)}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Build indexes the documents, replacing any previous contents. Progress is
// observable concurrently while a build runs.
func (ix *MemoryIndex) Build(ctx context.Context, docs []Document) error {
	ix.total.Store(int64(len(docs)))
	ix.done.Store(0)

	postings := make(map[string][]int)
	for i, d := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen := make(map[string]bool)
		for _, tok := range tokenize(d.Speaker + " " + d.Text) {
			if seen[tok] {
				continue
			}
			seen[tok] = true
			postings[tok] = append(postings[tok], i)
		}
		ix.done.Add(1)
	}

	ix.mu.Lock()
	ix.docs = append([]Document(nil), docs...)
	ix.postings = postings
	ix.mu.Unlock()
	return nil
}

// Progress reports build completion in [0,1]. An index that has never been
// built reports 0.
func (ix *MemoryIndex) Progress() float64 {
	total := ix.total.Load()
	if total == 0 {
		return 0
	}
	return float64(ix.done.Load()) / float64(total)
}

// Query returns documents matching the query terms, scored by how many terms
// match, ordered by score descending then source time ascending. An empty
// query matches nothing.
func (ix *MemoryIndex) Query(ctx context.Context, q string, limit int) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := tokenize(q)
	if len(terms) == 0 {
		return nil, nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	scores := make(map[int]float64)
	for _, term := range terms {
		for _, docID := range ix.postings[term] {
			scores[docID]++
		}
	}
	hits := make([]Hit, 0, len(scores))
	for docID, score := range scores {
		hits = append(hits, Hit{Document: ix.docs[docID], Score: score})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Seconds < hits[j].Seconds
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
