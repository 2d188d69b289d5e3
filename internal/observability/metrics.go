package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pg_locator"

// Metrics holds the Prometheus counters and histograms for geocoding and the picker.
type Metrics struct {
	// Geocoding provider metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={search,reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={search,reverse}, result={hit,miss,shared}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={search,reverse}

	// Picker metrics.
	PickerSearches       *prometheus.CounterVec // labels: outcome={issued,empty,failed}
	PickerStaleResponses *prometheus.CounterVec // labels: kind={search,reverse}
	PickerLocate         *prometheus.CounterVec // labels: outcome={success,denied,failed}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.PickerSearches,
		m.PickerStaleResponses,
		m.PickerLocate,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding provider requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		PickerSearches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picker_searches_total",
			Help:      "Debounced picker searches by outcome.",
		}, []string{"outcome"}),
		PickerStaleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picker_stale_responses_total",
			Help:      "Lookup responses dropped because a newer request superseded them.",
		}, []string{"kind"}),
		PickerLocate: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "picker_locate_total",
			Help:      "Device location attempts by outcome.",
		}, []string{"outcome"}),
	}
}
