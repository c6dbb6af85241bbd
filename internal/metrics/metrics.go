// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/pygeoregister/internal/version"
)

const namespace = "pygeoregister"

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Current number of in-flight HTTP requests",
		},
	)

	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_hits_total",
			Help:      "Total number of rate limit rejections",
		},
		[]string{"route"},
	)

	// Landing Page Metrics
	LandingPageResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "landing_page_responses_total",
			Help:      "Landing page responses by negotiated format and status",
		},
		[]string{"format", "status_code"},
	)

	StreamErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_errors_total",
			Help:      "Errors while streaming a rendered response body",
		},
	)

	// Namespace Registration Metrics
	NamespaceSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "namespace_submissions_total",
			Help:      "Namespace CSV submissions by outcome",
		},
		[]string{"result"}, // result: "created", "unchanged", "invalid", "failed"
	)

	// GitHub API Metrics
	GitHubRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "github_requests_total",
			Help:      "Total number of GitHub API requests",
		},
		[]string{"method", "status_code"},
	)

	GitHubRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "github_request_duration_seconds",
			Help:      "GitHub API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_consecutive_failures",
			Help:      "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state_transitions_total",
			Help:      "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// BuildInfo is always 1; the labels carry the running version.
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Build information of the running process",
		},
		[]string{"version", "commit"},
	)
)

func init() {
	BuildInfo.WithLabelValues(version.Version, version.Commit).Set(1)
}

// RecordHTTPRequest records a completed HTTP request. route should be the
// router pattern, not the raw path, to bound label cardinality.
func RecordHTTPRequest(method, route, statusCode string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		HTTPActiveRequests.Inc()
	} else {
		HTTPActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(route string) {
	RateLimitHits.WithLabelValues(route).Inc()
}

// RecordLandingPage records a landing page response. An empty format is
// reported as "json", the format it is served in.
func RecordLandingPage(format, statusCode string) {
	if format == "" {
		format = "json"
	}
	LandingPageResponses.WithLabelValues(format, statusCode).Inc()
}

// RecordStreamError records a failure while writing a streamed body.
func RecordStreamError() {
	StreamErrors.Inc()
}

// RecordNamespaceSubmission records the outcome of a namespace upload.
func RecordNamespaceSubmission(result string) {
	NamespaceSubmissions.WithLabelValues(result).Inc()
}

// RecordGitHubRequest records a GitHub API call. statusCode is "error" when
// no response was received.
func RecordGitHubRequest(method, statusCode string, duration time.Duration) {
	GitHubRequestsTotal.WithLabelValues(method, statusCode).Inc()
	GitHubRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}
