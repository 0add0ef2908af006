// Package artifact loads archived call bundles from disk and keeps the
// parsed form in memory. A call is a directory of static files: chat export,
// transcript, agenda summary, and a metadata document carrying the sync
// configuration. Parsing is best-effort; a malformed or missing artifact
// degrades that call, it never fails the load.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/callarchive/callarchive/agenda"
	"github.com/callarchive/callarchive/chatlog"
	"github.com/callarchive/callarchive/playback"
	"github.com/callarchive/callarchive/search"
	"github.com/callarchive/callarchive/timecode"
	"github.com/callarchive/callarchive/transcript"
)

// Artifact file names within a call directory.
const (
	MetaFile       = "call.json"
	ChatFile       = "chat.txt"
	TranscriptFile = "transcript.vtt"
	AgendaFile     = "agenda.json"
)

// Meta is the call metadata document. Sync holds the two reference
// timestamps the playback offset is derived from; absent sync disables
// projection for the call.
type Meta struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Date        string               `json:"date,omitempty"`
	VideoURL    string               `json:"video_url,omitempty"`
	Description string               `json:"description,omitempty"`
	Sync        *timecode.SyncConfig `json:"sync,omitempty"`
}

// Call is one parsed bundle. It is immutable after load; rescans replace the
// whole value rather than mutating it.
type Call struct {
	Meta       Meta                `json:"meta"`
	Chat       chatlog.ParseResult `json:"chat"`
	Threads    chatlog.ThreadSet   `json:"threads"`
	Transcript []transcript.Entry  `json:"transcript"`
	Agenda     agenda.Summary      `json:"agenda"`

	Engine *playback.SyncEngine `json:"-"`
}

// LoadCall parses a single call directory. Only an unreadable or invalid
// metadata document is an error; every content artifact is optional and
// tolerated when malformed.
func LoadCall(dir string) (*Call, error) {
	meta, err := loadMeta(dir)
	if err != nil {
		return nil, err
	}

	call := &Call{
		Meta:   meta,
		Engine: playback.NewSyncEngine(meta.Sync),
	}
	call.Chat = chatlog.ParseResult{Reactions: map[string][]chatlog.Reaction{}}

	if raw, err := os.ReadFile(filepath.Join(dir, ChatFile)); err == nil {
		call.Chat = chatlog.ParseExport(string(raw))
		call.Threads = chatlog.BuildThreads(call.Chat.Messages)
	}
	if raw, err := os.ReadFile(filepath.Join(dir, TranscriptFile)); err == nil {
		call.Transcript = transcript.Parse(string(raw))
	}
	if raw, err := os.ReadFile(filepath.Join(dir, AgendaFile)); err == nil {
		if sum, err := agenda.Load(raw); err == nil {
			call.Agenda = sum
		}
	}
	return call, nil
}

func loadMeta(dir string) (Meta, error) {
	raw, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if os.IsNotExist(err) {
		// A bare directory of artifacts is still a call.
		return Meta{ID: filepath.Base(dir), Title: filepath.Base(dir)}, nil
	}
	if err != nil {
		return Meta{}, fmt.Errorf("read %s: %w", MetaFile, err)
	}
	var meta Meta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Meta{}, fmt.Errorf("decode %s: %w", MetaFile, err)
	}
	if meta.ID == "" {
		meta.ID = filepath.Base(dir)
	}
	if meta.Title == "" {
		meta.Title = meta.ID
	}
	return meta, nil
}

// PaneTimes returns each pane's item timestamps in source-clock seconds,
// ascending, ready to hand to a playback session.
func (c *Call) PaneTimes() map[playback.Pane][]float64 {
	times := make(map[playback.Pane][]float64, 3)

	ts := make([]float64, len(c.Transcript))
	for i, e := range c.Transcript {
		ts[i] = e.Seconds
	}
	times[playback.PaneTranscript] = ts

	ch := make([]float64, len(c.Threads.Standalones))
	for i, m := range c.Threads.Standalones {
		ch[i] = timecode.ParseSeconds(m.Timestamp)
	}
	times[playback.PaneChat] = ch

	times[playback.PaneAgenda] = c.Agenda.StartSeconds()
	return times
}

// Documents flattens the call into searchable units: one per transcript cue,
// chat message, and agenda item.
func (c *Call) Documents() []search.Document {
	docs := make([]search.Document, 0, len(c.Transcript)+len(c.Chat.Messages)+len(c.Agenda.Items))
	for _, e := range c.Transcript {
		docs = append(docs, search.Document{
			CallID:    c.Meta.ID,
			Pane:      string(playback.PaneTranscript),
			Speaker:   e.Speaker,
			Text:      e.Text,
			Timestamp: e.Timestamp,
			Seconds:   e.Seconds,
		})
	}
	for _, m := range c.Chat.Messages {
		docs = append(docs, search.Document{
			CallID:    c.Meta.ID,
			Pane:      string(playback.PaneChat),
			Speaker:   m.Speaker,
			Text:      m.Text,
			Timestamp: m.Timestamp,
			Seconds:   timecode.ParseSeconds(m.Timestamp),
		})
	}
	for _, item := range c.Agenda.Items {
		docs = append(docs, search.Document{
			CallID:    c.Meta.ID,
			Pane:      string(playback.PaneAgenda),
			Text:      item.Title,
			Timestamp: item.StartTimestamp,
			Seconds:   timecode.ParseSeconds(item.StartTimestamp),
		})
	}
	return docs
}
