package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analytics service.
type Metrics struct {
	DatasetsLoaded prometheus.Counter
	DatasetRows    prometheus.Gauge
	RowsNormalized prometheus.Counter
	RowDegradation *prometheus.CounterVec // labels: kind={invalid_timestamp,invalid_coords}

	// Festival feed metrics.
	FeedFetches *prometheus.CounterVec // labels: outcome={success,error}
	FeedEvents  prometheus.Gauge

	// View computation metrics.
	ViewsComputed      prometheus.Counter
	ViewDuration       prometheus.Histogram
	SignificantResults prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetsLoaded,
		m.DatasetRows,
		m.RowsNormalized,
		m.RowDegradation,
		m.FeedFetches,
		m.FeedEvents,
		m.ViewsComputed,
		m.ViewDuration,
		m.SignificantResults,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering collectors, to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "call_analytics",
			Name:      "datasets_loaded_total",
			Help:      "Total dataset load attempts that succeeded.",
		}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "call_analytics",
			Name:      "dataset_rows",
			Help:      "Rows in the current dataset snapshot.",
		}),
		RowsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "call_analytics",
			Name:      "rows_normalized_total",
			Help:      "Total rows normalized across all loads.",
		}),
		RowDegradation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "call_analytics",
			Name:      "row_degradation_total",
			Help:      "Rows kept with degraded fields, by kind.",
		}, []string{"kind"}),
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "call_analytics",
			Name:      "feed_fetches_total",
			Help:      "Festival feed fetch attempts by outcome.",
		}, []string{"outcome"}),
		FeedEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "call_analytics",
			Name:      "feed_events",
			Help:      "Festival intervals in the cached catalog.",
		}),
		ViewsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "call_analytics",
			Name:      "views_computed_total",
			Help:      "Analysis view computations.",
		}),
		ViewDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "call_analytics",
			Name:      "view_duration_seconds",
			Help:      "Duration of a complete view computation.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
		SignificantResults: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "call_analytics",
			Name:      "significant_festivals",
			Help:      "Significant festivals in the most recent view.",
		}),
	}
}
