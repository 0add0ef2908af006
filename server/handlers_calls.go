package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/callarchive/callarchive/artifact"
	"github.com/callarchive/callarchive/playback"
	"github.com/callarchive/callarchive/search"
	"github.com/callarchive/callarchive/telemetry"
)

// callSummary is the listing view of a call.
type callSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	Description string `json:"description,omitempty"`
	SyncEnabled bool   `json:"sync_enabled"`
}

func summarize(c *artifact.Call) callSummary {
	return callSummary{
		ID:          c.Meta.ID,
		Title:       c.Meta.Title,
		Date:        c.Meta.Date,
		VideoURL:    c.Meta.VideoURL,
		Description: c.Meta.Description,
		SyncEnabled: c.Engine.Enabled(),
	}
}

// HandleCallsList returns a paginated list of calls, newest first.
func (h *Handlers) HandleCallsList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// Basic pagination: ?limit=50&offset=0
	limit := parseIntQuery(r, "limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := parseIntQuery(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	calls := h.store.List()
	list := make([]callSummary, 0, limit)
	for i := offset; i < len(calls) && len(list) < limit; i++ {
		list = append(list, summarize(calls[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"calls":  list,
		"total":  len(calls),
		"limit":  limit,
		"offset": offset,
	})
}

// HandleCallsDispatcher routes requests under /calls/{id}/* to appropriate sub-handlers.
func (h *Handlers) HandleCallsDispatcher(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/calls/")
	parts := strings.Split(path, "/")
	callID := parts[0]
	tail := ""
	if len(parts) > 1 {
		tail = strings.Join(parts[1:], "/")
	}
	if callID == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	call, ok := h.store.Get(callID)
	if !ok {
		http.NotFound(w, r)
		return
	}
	trace.SpanFromContext(r.Context()).SetAttributes(telemetry.CallIDAttr(call.Meta.ID))

	switch tail {
	case "":
		h.handleCallDetail(w, r, call)
	case "chat":
		h.handleCallChat(w, r, call)
	case "transcript":
		h.handleCallTranscript(w, r, call)
	case "agenda":
		h.handleCallAgenda(w, r, call)
	case "sync":
		h.handleCallSync(w, r, call)
	case "active":
		h.handleCallActive(w, r, call)
	case "jump":
		h.handleCallJump(w, r, call)
	case "search":
		h.handleCallSearch(w, r, call)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handlers) handleCallDetail(w http.ResponseWriter, _ *http.Request, call *artifact.Call) {
	resp := map[string]any{
		"meta":               call.Meta,
		"sync_enabled":       call.Engine.Enabled(),
		"sync_offset":        call.Engine.Offset(),
		"chat_messages":      len(call.Chat.Messages),
		"chat_threads":       len(call.Threads.Threads),
		"transcript_entries": len(call.Transcript),
		"agenda_items":       len(call.Agenda.Items),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) handleCallChat(w http.ResponseWriter, _ *http.Request, call *artifact.Call) {
	resp := map[string]any{
		"threads":     call.Threads.Threads,
		"standalones": call.Threads.Standalones,
		"reactions":   call.Chat.Reactions,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handlers) handleCallTranscript(w http.ResponseWriter, _ *http.Request, call *artifact.Call) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"entries": call.Transcript})
}

func (h *Handlers) handleCallAgenda(w http.ResponseWriter, _ *http.Request, call *artifact.Call) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(call.Agenda)
}

func (h *Handlers) handleCallSync(w http.ResponseWriter, _ *http.Request, call *artifact.Call) {
	resp := map[string]any{
		"enabled": call.Engine.Enabled(),
		"offset":  call.Engine.Offset(),
	}
	if call.Meta.Sync != nil {
		resp["config"] = call.Meta.Sync
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleCallActive resolves the active item per pane for a playback position.
func (h *Handlers) handleCallActive(w http.ResponseWriter, r *http.Request, call *artifact.Call) {
	t := parseFloat64Query(r, "t", 0)
	if t < 0 {
		t = 0
	}

	active := map[string]int{}
	for pane, times := range call.PaneTimes() {
		if !call.Engine.Enabled() {
			active[string(pane)] = playback.NoActiveItem
			continue
		}
		active[string(pane)] = playback.ActiveIndex(call.Engine.ProjectAll(times), t)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"t":      t,
		"active": active,
	})
}

// handleCallJump projects a source timestamp into video time and the
// shareable fragment for it.
func (h *Handlers) handleCallJump(w http.ResponseWriter, r *http.Request, call *artifact.Call) {
	ts := r.URL.Query().Get("ts")
	if ts == "" {
		http.Error(w, "missing ts", http.StatusBadRequest)
		return
	}
	videoSec := call.Engine.ToVideo(ts)
	if videoSec < 0 {
		videoSec = 0
	}
	telemetry.JumpSignals.Inc()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ts":            ts,
		"video_seconds": videoSec,
		"fragment":      playback.FormatFragment(videoSec),
	})
}

// handleCallSearch runs a debounced query and filters hits to this call.
// A request superseded by a newer one answers 204 so typeahead clients can
// simply ignore it.
func (h *Handlers) handleCallSearch(w http.ResponseWriter, r *http.Request, call *artifact.Call) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "missing q", http.StatusBadRequest)
		return
	}
	if h.index == nil {
		http.Error(w, "search unavailable", http.StatusServiceUnavailable)
		return
	}
	telemetry.SearchQueries.Inc()

	type result struct {
		hits []search.Hit
		err  error
	}
	done := make(chan result, 1)
	opCtx := h.debouncer.Do(func(ctx context.Context) {
		hits, err := h.index.Query(ctx, q, 0)
		done <- result{hits: hits, err: err}
	})

	var res result
	select {
	case res = <-done:
	case <-opCtx.Done():
		// Superseded by a newer query; drain in case the result raced in.
		select {
		case res = <-done:
		default:
			w.WriteHeader(http.StatusNoContent)
			return
		}
	case <-r.Context().Done():
		return
	case <-time.After(searchWait):
		http.Error(w, "search timed out", http.StatusGatewayTimeout)
		return
	}
	if res.err != nil {
		if res.err == context.Canceled {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, res.err.Error(), http.StatusInternalServerError)
		return
	}

	hits := make([]search.Hit, 0, h.searchLimit)
	for _, hit := range res.hits {
		if hit.CallID != call.Meta.ID {
			continue
		}
		hits = append(hits, hit)
		if len(hits) >= h.searchLimit {
			break
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"query":    q,
		"progress": h.index.Progress(),
		"hits":     hits,
	})
}
