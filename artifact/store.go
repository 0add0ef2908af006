package artifact

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/callarchive/callarchive/search"
	"github.com/callarchive/callarchive/telemetry"
)

// loadParallelism caps concurrent call-directory parses during a scan.
const loadParallelism = 4

// Store owns every loaded call. Lookups are lock-cheap reads; a rescan
// parses into a fresh map and swaps it in whole, so readers never observe a
// partially loaded store.
type Store struct {
	dir    string
	index  search.Index
	logger *slog.Logger

	mu    sync.RWMutex
	calls map[string]*Call
	order []string
	ready bool
}

// NewStore creates a store over the given data directory. The index is
// rebuilt from all call documents after every successful scan.
func NewStore(dir string, index search.Index) *Store {
	return &Store{
		dir:    dir,
		index:  index,
		logger: slog.Default().With(slog.String("component", "artifact_store")),
		calls:  map[string]*Call{},
	}
}

// Load scans the data directory and parses every call subdirectory. Call
// directories that fail to parse are logged and skipped; Load errors only
// when the data directory itself is unreadable.
func (s *Store) Load(ctx context.Context) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var (
		loadMu sync.Mutex
		loaded = map[string]*Call{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadParallelism)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.dir, entry.Name())
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var call *Call
			var loadErr error
			telemetry.TimeFunc(telemetry.ArtifactParseDuration, func() {
				call, loadErr = LoadCall(dir)
			})
			if loadErr != nil {
				telemetry.CallLoadsFailed.Inc()
				s.logger.Warn("skipping call directory",
					slog.String("dir", dir), slog.Any("err", loadErr))
				return nil
			}
			telemetry.CallsLoaded.Inc()
			telemetry.AddChatParsed(len(call.Chat.Messages), len(call.Threads.Threads))

			loadMu.Lock()
			loaded[call.Meta.ID] = call
			loadMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	order := make([]string, 0, len(loaded))
	for id := range loaded {
		order = append(order, id)
	}
	// Newest first; ties fall back to id so listing order is stable.
	sort.Slice(order, func(i, j int) bool {
		a, b := loaded[order[i]], loaded[order[j]]
		if a.Meta.Date != b.Meta.Date {
			return a.Meta.Date > b.Meta.Date
		}
		return a.Meta.ID < b.Meta.ID
	})

	s.mu.Lock()
	s.calls = loaded
	s.order = order
	s.ready = true
	s.mu.Unlock()

	telemetry.SetCallCount(len(loaded))
	s.logger.Info("artifact scan complete", slog.Int("calls", len(loaded)))

	return s.rebuildIndex(ctx, loaded, order)
}

func (s *Store) rebuildIndex(ctx context.Context, calls map[string]*Call, order []string) error {
	if s.index == nil {
		return nil
	}
	var docs []search.Document
	for _, id := range order {
		docs = append(docs, calls[id].Documents()...)
	}
	var err error
	telemetry.TimeFunc(telemetry.IndexBuildDuration, func() {
		err = s.index.Build(ctx, docs)
	})
	if err != nil {
		s.logger.Warn("index rebuild failed", slog.Any("err", err))
		return err
	}
	telemetry.IndexBuilds.Inc()
	return nil
}

// Get returns the call with the given id.
func (s *Store) Get(id string) (*Call, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.calls[id]
	return c, ok
}

// List returns every call, newest first.
func (s *Store) List() []*Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Call, len(s.order))
	for i, id := range s.order {
		out[i] = s.calls[id]
	}
	return out
}

// Count reports how many calls are loaded.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// Ready reports whether at least one scan has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// StartScanWorker rescans the data directory on a fixed interval so newly
// archived calls appear without a restart. It blocks until ctx is cancelled.
func (s *Store) StartScanWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	logger := slog.Default().With(slog.String("component", "artifact_scan_worker"))
	logger.Info("scan worker started", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("scan worker stopped")
			return
		case <-ticker.C:
			telemetry.ScanCycles.Inc()
			if err := s.Load(ctx); err != nil {
				logger.Warn("rescan failed", slog.Any("err", err))
			}
		}
	}
}
