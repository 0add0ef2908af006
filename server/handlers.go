// Package server exposes the HTTP API handlers.
package server

import (
	"time"

	"github.com/callarchive/callarchive/artifact"
	"github.com/callarchive/callarchive/config"
	"github.com/callarchive/callarchive/search"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	store       *artifact.Store
	index       search.Index
	debouncer   *search.Debouncer
	searchLimit int
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(store *artifact.Store, index search.Index, cfg *config.Config) *Handlers {
	debounce := search.DefaultDebounce
	limit := 50
	if cfg != nil {
		if cfg.SearchDebounce > 0 {
			debounce = cfg.SearchDebounce
		}
		if cfg.SearchLimit > 0 {
			limit = cfg.SearchLimit
		}
	}
	return &Handlers{
		store:       store,
		index:       index,
		debouncer:   search.NewDebouncer(debounce),
		searchLimit: limit,
	}
}

// Close tears down handler-owned timers.
func (h *Handlers) Close() {
	h.debouncer.Close()
}

// searchWait bounds how long a search request waits for its debounced query
// before giving up.
const searchWait = 10 * time.Second
