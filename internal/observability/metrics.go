package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// plow-status service.
type Metrics struct {
	// Plow refresh metrics.
	RefreshTotal     *prometheus.CounterVec // labels: outcome={success,no_storm,error}
	RefreshDuration  prometheus.Histogram
	LookupEntries    prometheus.Gauge
	MatchedStreets   prometheus.Gauge
	RunnerActive     prometheus.Gauge
	FeedDuration     *prometheus.HistogramVec // labels: feed={plow,centerline}
	SnapshotsWritten prometheus.Counter

	// Viewport metrics.
	StreetsMaterialized prometheus.Gauge
	PointsMaterialized  prometheus.Gauge
	ViewportRequests    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "street_plow",
			Name:      "refresh_total",
			Help:      "Plow refresh cycles by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "street_plow",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-join-apply refresh cycle.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LookupEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "street_plow",
			Name:      "lookup_entries",
			Help:      "Canonical street keys in the current plow lookup.",
		}),
		MatchedStreets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "street_plow",
			Name:      "matched_streets",
			Help:      "Materialized streets matched by the last lookup apply.",
		}),
		RunnerActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "street_plow",
			Name:      "runner_active",
			Help:      "1 when the periodic refresh runner is active, 0 when shut down.",
		}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "street_plow",
			Name:      "feed_duration_seconds",
			Help:      "Upstream feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"feed"}),
		SnapshotsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "street_plow",
			Name:      "snapshots_written_total",
			Help:      "Plow snapshots published to the snapshot topic.",
		}),
		StreetsMaterialized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "street_plow",
			Name:      "streets_materialized",
			Help:      "Streets materialized from the arena so far.",
		}),
		PointsMaterialized: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "street_plow",
			Name:      "points_materialized",
			Help:      "Traffic-control points materialized so far.",
		}),
		ViewportRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "street_plow",
			Name:      "viewport_requests_total",
			Help:      "Viewport street load requests served.",
		}),
	}

	prometheus.MustRegister(
		m.RefreshTotal,
		m.RefreshDuration,
		m.LookupEntries,
		m.MatchedStreets,
		m.RunnerActive,
		m.FeedDuration,
		m.SnapshotsWritten,
		m.StreetsMaterialized,
		m.PointsMaterialized,
		m.ViewportRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshTotal:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "street_plow", Name: "refresh_total"}, []string{"outcome"}),
		RefreshDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "street_plow", Name: "refresh_duration_seconds"}),
		LookupEntries:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "street_plow", Name: "lookup_entries"}),
		MatchedStreets:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "street_plow", Name: "matched_streets"}),
		RunnerActive:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "street_plow", Name: "runner_active"}),
		FeedDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "street_plow", Name: "feed_duration_seconds"}, []string{"feed"}),
		SnapshotsWritten:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "street_plow", Name: "snapshots_written_total"}),
		StreetsMaterialized: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "street_plow", Name: "streets_materialized"}),
		PointsMaterialized:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "street_plow", Name: "points_materialized"}),
		ViewportRequests:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "street_plow", Name: "viewport_requests_total"}),
	}
}
