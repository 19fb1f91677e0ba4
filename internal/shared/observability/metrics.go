package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "getdocs_parsing_seconds",
		Help:    "Time spent parsing and binding a source batch.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	GatherDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "getdocs_gather_seconds",
		Help:    "Time spent extracting one source unit.",
		Buckets: prometheus.DefBuckets,
	})

	UnitsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "getdocs_units_processed_total",
		Help: "Total number of source units extracted.",
	})

	ItemsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "getdocs_items_emitted_total",
		Help: "Total number of top-level items emitted.",
	})

	FatalErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "getdocs_fatal_errors_total",
		Help: "Total number of fatal extraction errors by code.",
	}, []string{"code"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "getdocs_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "getdocs_rebuilds_total",
		Help: "Total number of watch-mode rebuilds.",
	})
)

// Serve exposes the metrics endpoint; blocks until the listener fails.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
