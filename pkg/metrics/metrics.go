package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glow_analysis_duration_seconds",
			Help:    "Duration of skin analyses including simulated inference",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 2.5, 3, 5, 10},
		},
		[]string{"outcome"},
	)

	AnalysisConcerns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glow_detected_concerns_total",
			Help: "Detected concerns by kind and severity",
		},
		[]string{"concern", "severity"},
	)

	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glow_recommendation_requests_total",
			Help: "Recommendation requests by scope and cache result",
		},
		[]string{"scope", "cache"},
	)

	InferenceBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "glow_inference_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	InferenceBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glow_inference_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	JobsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glow_analysis_jobs_total",
			Help: "Asynchronous analysis jobs by final status",
		},
		[]string{"status"},
	)

	HTTPErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glow_http_errors_total",
			Help: "Error responses by error code",
		},
		[]string{"code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glow_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// ObserveAnalysis records one analysis run.
func ObserveAnalysis(outcome string, started time.Time) {
	AnalysisDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
