// Package metrics exposes Prometheus collectors for the jobshare service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	shareRendersTotal          *prometheus.CounterVec
	jobLookupDurationSeconds   *prometheus.HistogramVec
	rateLimitDelaySeconds      prometheus.Histogram
	statusChecksCreatedTotal   prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		shareRendersTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobshare_share_renders_total",
				Help: "Total number of share documents served, labeled by render reason.",
			},
			[]string{"reason"},
		)

		jobLookupDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobshare_job_lookup_duration_seconds",
				Help:    "Histogram of job source lookup latencies, labeled by outcome.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"outcome"},
		)

		rateLimitDelaySeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "jobshare_job_lookup_rate_limit_delay_seconds",
				Help:    "Histogram of time spent waiting on the job source rate limiter.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
		)

		statusChecksCreatedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "jobshare_status_checks_created_total",
				Help: "Total number of status checks persisted.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveRender counts a served share document.
func ObserveRender(reason string) {
	Init()
	shareRendersTotal.WithLabelValues(reason).Inc()
}

// ObserveJobLookup records the latency of a job source call.
func ObserveJobLookup(outcome string, duration time.Duration) {
	Init()
	jobLookupDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveRateLimitDelay records the duration of a rate limit wait.
func ObserveRateLimitDelay(duration time.Duration) {
	Init()
	rateLimitDelaySeconds.Observe(duration.Seconds())
}

// IncStatusChecksCreated counts a persisted status check.
func IncStatusChecksCreated() {
	Init()
	statusChecksCreatedTotal.Inc()
}
