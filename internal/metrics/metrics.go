// Package metrics provides the Prometheus collectors for the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiquiz_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wikiquiz_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Quiz pipeline metrics
var (
	// QuizGenerationsTotal counts generate-quiz requests by outcome ("ok" or an error code).
	QuizGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiquiz_quiz_generations_total",
			Help: "Total number of quiz generation requests by outcome",
		},
		[]string{"outcome"},
	)

	// StageDuration measures each pipeline stage: fetch, generate, persist.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wikiquiz_stage_duration_seconds",
			Help:    "Duration of quiz pipeline stages in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"stage"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wikiquiz_cache_requests_total",
			Help: "Cache lookups by cache name and result (hit, miss, error)",
		},
		[]string{"cache", "result"},
	)
)

func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func RecordGeneration(outcome string) {
	QuizGenerationsTotal.WithLabelValues(outcome).Inc()
}

func RecordStage(stage string, duration time.Duration) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

func RecordCache(cache, result string) {
	CacheRequestsTotal.WithLabelValues(cache, result).Inc()
}
