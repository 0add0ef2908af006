// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	CallsLoaded        prometheus.Counter
	CallLoadsFailed    prometheus.Counter
	ScanCycles         prometheus.Counter
	SearchQueries      prometheus.Counter
	IndexBuilds        prometheus.Counter
	JumpSignals        prometheus.Counter
	ChatMessagesParsed prometheus.Counter
	ThreadsBuilt       prometheus.Counter

	// Histograms (seconds)
	ArtifactParseDuration prometheus.Observer
	IndexBuildDuration    prometheus.Observer

	// Gauges
	CallCountGauge      prometheus.Gauge
	ActiveSessionsGauge prometheus.Gauge
)

// Init registers metrics (idempotent). It must run before any metric is
// touched: main calls it at startup, and tests that exercise metric paths
// call it in their setup.
func Init() {
	once.Do(func() {
		CallsLoaded = promauto.NewCounter(prometheus.CounterOpts{Name: "callarchive_calls_loaded_total", Help: "Number of call artifact bundles parsed and loaded"})
		CallLoadsFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "callarchive_call_loads_failed_total", Help: "Number of call artifact loads that failed"})
		ScanCycles = promauto.NewCounter(prometheus.CounterOpts{Name: "callarchive_scan_cycles_total", Help: "Number of artifact directory scan cycles"})
		SearchQueries = promauto.NewCounter(prometheus.CounterOpts{Name: "callarchive_search_queries_total", Help: "Number of search queries served"})
		IndexBuilds = promauto.NewCounter(prometheus.CounterOpts{Name: "callarchive_index_builds_total", Help: "Number of search index builds"})
		JumpSignals = promauto.NewCounter(prometheus.CounterOpts{Name: "callarchive_jump_signals_total", Help: "Number of cross-pane jump projections served"})
		ChatMessagesParsed = promauto.NewCounter(prometheus.CounterOpts{Name: "callarchive_chat_messages_parsed_total", Help: "Number of chat messages accepted by the parser"})
		ThreadsBuilt = promauto.NewCounter(prometheus.CounterOpts{Name: "callarchive_chat_threads_built_total", Help: "Number of reply threads reconstructed"})
		ArtifactParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "callarchive_artifact_parse_duration_seconds", Help: "Time to parse one call's artifact bundle", Buckets: prometheus.DefBuckets})
		IndexBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "callarchive_index_build_duration_seconds", Help: "Search index build duration seconds", Buckets: prometheus.DefBuckets})
		CallCountGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "callarchive_calls", Help: "Current number of loaded calls"})
		ActiveSessionsGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "callarchive_active_sessions", Help: "Currently open playback sessions"})
	})
}

// SetCallCount records the number of loaded calls.
func SetCallCount(n int) {
	CallCountGauge.Set(float64(n))
}

// AddChatParsed records parser output counts for one call.
func AddChatParsed(messages, threads int) {
	ChatMessagesParsed.Add(float64(messages))
	ThreadsBuilt.Add(float64(threads))
}

// TimeFunc measures the duration of fn and records it in obs.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	obs.Observe(d.Seconds())
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
