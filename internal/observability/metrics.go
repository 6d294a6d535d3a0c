package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	entrySavedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness_tracker",
		Subsystem: "entries",
		Name:      "last_entry_saved_timestamp_seconds",
		Help:      "Unix timestamp of the most recent entry added or updated.",
	})
	entriesStoredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitness_tracker",
		Subsystem: "entries",
		Name:      "stored",
		Help:      "Number of entries currently held in the repository.",
	})
	validationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "entries",
		Name:      "validation_failures_total",
		Help:      "Entry form submissions rejected by validation, by form and field.",
	}, []string{"form", "field"})

	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests handled, by method, route and status.",
	}, []string{"method", "route", "status"})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitness_tracker",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time spent serving HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(entrySavedGauge, entriesStoredGauge, validationFailures, requestCounter, requestDuration)
}

// RecordEntrySaved updates the save watermark gauge.
func RecordEntrySaved(ts time.Time) {
	if ts.IsZero() {
		return
	}
	entrySavedGauge.Set(float64(ts.Unix()))
}

// SetEntriesStored reports the repository size.
func SetEntriesStored(n int) {
	entriesStoredGauge.Set(float64(n))
}

// RecordValidationFailure counts a rejected field on the named form.
func RecordValidationFailure(form, field string) {
	validationFailures.WithLabelValues(form, field).Inc()
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route, status string, elapsed time.Duration) {
	requestCounter.WithLabelValues(method, route, status).Inc()
	requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ValidationFailures exposes the counter for assertions in tests.
func ValidationFailures() *prometheus.CounterVec {
	return validationFailures
}

// EntriesStored exposes the gauge for assertions in tests.
func EntriesStored() prometheus.Gauge {
	return entriesStoredGauge
}
