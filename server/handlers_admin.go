package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/callarchive/callarchive/telemetry"
)

// HandleAdminRescan forces an immediate rescan of the data directory so a
// newly archived call appears without waiting for the next worker cycle.
func (h *Handlers) HandleAdminRescan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	telemetry.ScanCycles.Inc()
	if err := h.store.Load(r.Context()); err != nil {
		telemetry.LoggerWithCorr(r.Context()).Error("forced rescan failed", slog.Any("err", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"calls":  h.store.Count(),
	})
}
