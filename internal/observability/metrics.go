package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the dashboard pipeline.
type Metrics struct {
	FetchRequests    *prometheus.CounterVec // labels: outcome={success,partial,error}
	RecordsFetched   prometheus.Counter
	RecordsGenerated prometheus.Counter
	RecordsPersisted prometheus.Counter
	StoreErrors      prometheus.Counter
	FetchDuration    prometheus.Histogram
}

// NewMetrics creates and registers all dashboard metrics with the
// default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.RecordsFetched,
		m.RecordsGenerated,
		m.RecordsPersisted,
		m.StoreErrors,
		m.FetchDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without touching the default
// registry, to avoid "already registered" panics across tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chicago_web",
			Name:      "fetch_requests_total",
			Help:      "Open-data API fetches by outcome.",
		}, []string{"outcome"}),
		RecordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chicago_web",
			Name:      "records_fetched_total",
			Help:      "Total incident records received from the open-data API.",
		}),
		RecordsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chicago_web",
			Name:      "records_generated_total",
			Help:      "Total synthetic incident records generated.",
		}),
		RecordsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chicago_web",
			Name:      "records_persisted_total",
			Help:      "Total new rows inserted into the local store.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chicago_web",
			Name:      "store_errors_total",
			Help:      "Total local store failures.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chicago_web",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of complete fetch-merge-persist cycles.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}
