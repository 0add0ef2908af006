// Package chatlog reconstructs threaded conversation structure and emoji
// reactions from a flat, timestamp-prefixed chat export.
//
// Processing happens in three passes:
//   - MergeLines folds continuation lines (lines without a leading timestamp)
//     into their owning record, joining a quoted-reply body to its
//     "Replying to" header with a " → " separator.
//   - ParseMessages turns merged records into Messages, peeling off reaction
//     shorthand ("add <emoji>") and explicit "Reacted to ... with ..."
//     annotations into a reaction map instead of storing them as messages.
//   - BuildThreads separates reply messages from parents, resolves each
//     reply's quoted target against parent text (handling truncation), and
//     synthesizes a virtual parent when no real parent matches.
//
// Parsing is deliberately tolerant: export tooling varies in whitespace,
// punctuation, and locale, so lines that match nothing are dropped or kept
// as plain messages rather than reported as errors. Thread attribution is
// best-effort prefix/substring matching, not a provable algorithm.
package chatlog
