package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// HandleHealthz responds to liveness probe requests.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleReadyz responds to readiness probe requests. The service is ready
// once the artifact store has completed its first scan; index build progress
// is reported alongside for observability.
func (h *Handlers) HandleReadyz(w http.ResponseWriter, _ *http.Request) {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"artifacts", func() error {
			if !h.store.Ready() {
				return fmt.Errorf("initial artifact scan not complete")
			}
			return nil
		}},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status":       "not_ready",
				"failed_check": check.name,
				"error":        err.Error(),
			})
			return
		}
	}

	resp := map[string]any{
		"status": "ready",
		"calls":  h.store.Count(),
	}
	if h.index != nil {
		resp["index_progress"] = h.index.Progress()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
