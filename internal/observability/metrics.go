package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "neo_impact"

// Metrics holds the Prometheus collectors for lookups and simulations.
type Metrics struct {
	Resolutions     *prometheus.CounterVec   // labels: outcome={catalog,no_credential,not_found,upstream_error}
	CatalogRequests *prometheus.CounterVec   // labels: status={2xx,4xx,5xx,error}
	CatalogDuration prometheus.Histogram     // seconds per outbound NeoWs call
	CacheLookups    *prometheus.CounterVec   // labels: result={hit,miss,expired}
	Simulations     *prometheus.CounterVec   // labels: outcome={ok,invalid}
	PrefetchRuns    prometheus.Counter       // watchlist refresh cycles
	PrefetchPruned  prometheus.Counter       // expired cache rows removed
	HTTPDuration    *prometheus.HistogramVec // labels: route, status
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Resolutions,
		m.CatalogRequests,
		m.CatalogDuration,
		m.CacheLookups,
		m.Simulations,
		m.PrefetchRuns,
		m.PrefetchPruned,
		m.HTTPDuration,
	)
	return m
}

// NewMetricsForTesting returns unregistered metrics so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "NEO lookups by outcome.",
		}, []string{"outcome"}),
		CatalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Outbound NeoWs requests by status class.",
		}, []string{"status"}),
		CatalogDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "NeoWs request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Catalog record cache lookups by result.",
		}, []string{"result"}),
		Simulations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_total",
			Help:      "Impact simulations by outcome.",
		}, []string{"outcome"}),
		PrefetchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prefetch_runs_total",
			Help:      "Completed watchlist refresh cycles.",
		}),
		PrefetchPruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prefetch_pruned_total",
			Help:      "Expired cache entries removed by the refresher.",
		}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
