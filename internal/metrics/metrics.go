package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation requests by kind (summary, periodic) and result (ok, empty, config_error, request_error)
	GenerationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "journal_generation_total",
			Help: "Total number of note generation requests",
		},
		[]string{"kind", "result"},
	)

	// Chat completion latency in seconds
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journal_generation_duration_seconds",
			Help:    "Chat completion round trip duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2min
		},
		[]string{"kind"},
	)

	// HTTP request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "journal_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordGeneration counts a generation attempt and, when it reached the service, its latency
func RecordGeneration(kind, result string, duration time.Duration) {
	GenerationCount.WithLabelValues(kind, result).Inc()
	if duration > 0 {
		GenerationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// RecordHTTPRequestDuration records an HTTP request duration
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
