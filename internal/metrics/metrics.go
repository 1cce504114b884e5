// Package metrics exposes Prometheus instrumentation for the ingestion
// pipeline. The collector owns its own registry so the /metrics endpoint
// serves only what this process registers.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	JourneysFetched prometheus.Counter
	JourneysDropped prometheus.Counter
	JourneysStored  prometheus.Counter

	StoreConflicts prometheus.Counter
	StoreErrors    prometheus.Counter
	FetchErrors    prometheus.Counter

	RunDuration prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		JourneysFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_journeys_fetched_total",
			Help: "Total raw journey events received from the tracking API.",
		}),
		JourneysDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_journeys_dropped_total",
			Help: "Total raw events dropped by normalization (missing or malformed timestamps).",
		}),
		JourneysStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_journeys_stored_total",
			Help: "Total canonical journeys persisted.",
		}),
		StoreConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_store_conflicts_total",
			Help: "Total duplicate inserts absorbed as no-ops.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_store_errors_total",
			Help: "Total journeys skipped on storage errors.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ingest_fetch_errors_total",
			Help: "Total ingestion runs aborted on fetch failures.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Wall-clock duration of one per-vehicle ingestion run.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}

	reg.MustRegister(
		c.JourneysFetched, c.JourneysDropped, c.JourneysStored,
		c.StoreConflicts, c.StoreErrors, c.FetchErrors,
		c.RunDuration,
	)

	return c
}

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
