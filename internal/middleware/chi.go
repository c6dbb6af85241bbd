// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pygeoregister/internal/logging"
	"github.com/tomtom215/pygeoregister/internal/metrics"
)

// ChiConfig holds configuration for the chi middleware factories.
type ChiConfig struct {
	// CORS configuration
	CORSEnabled        bool
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSExposedHeaders []string
	CORSMaxAge         int // seconds

	// Rate limiting configuration; zero requests disables the limiter
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DefaultChiConfig returns the defaults used when a field is left empty.
// The registry is a public read-only resource, so any origin may read it.
func DefaultChiConfig() ChiConfig {
	return ChiConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		CORSAllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", RequestIDHeader},
		CORSExposedHeaders: []string{"Content-Language", "X-Powered-By", RequestIDHeader},
		CORSMaxAge:         86400,
		RateLimitWindow:    time.Minute,
	}
}

// passthrough is a no-op middleware.
func passthrough(next http.Handler) http.Handler {
	return next
}

// CORS returns a go-chi/cors middleware, or a no-op when disabled.
func CORS(cfg ChiConfig) func(http.Handler) http.Handler {
	if !cfg.CORSEnabled {
		return passthrough
	}

	defaults := DefaultChiConfig()
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = defaults.CORSAllowedOrigins
	}
	if len(cfg.CORSAllowedMethods) == 0 {
		cfg.CORSAllowedMethods = defaults.CORSAllowedMethods
	}
	if len(cfg.CORSAllowedHeaders) == 0 {
		cfg.CORSAllowedHeaders = defaults.CORSAllowedHeaders
	}
	if len(cfg.CORSExposedHeaders) == 0 {
		cfg.CORSExposedHeaders = defaults.CORSExposedHeaders
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: cfg.CORSAllowedMethods,
		AllowedHeaders: cfg.CORSAllowedHeaders,
		ExposedHeaders: cfg.CORSExposedHeaders,
		MaxAge:         cfg.CORSMaxAge,
	})
}

// rateLimitBody is the exception returned to limited clients.
type rateLimitBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// RateLimit returns an IP-keyed go-chi/httprate limiter, or a no-op when
// no request budget is configured.
func RateLimit(cfg ChiConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitRequests <= 0 {
		return passthrough
	}

	window := cfg.RateLimitWindow
	if window <= 0 {
		window = DefaultChiConfig().RateLimitWindow
	}

	return httprate.Limit(
		cfg.RateLimitRequests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(rateLimited),
	)
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRateLimitHit(RoutePattern(r))
	logging.Ctx(r.Context()).Warn().
		Str("remote_addr", r.RemoteAddr).
		Str("path", r.URL.Path).
		Msg("rate limit exceeded")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(rateLimitBody{
		Code:        "TooManyRequests",
		Description: "Rate limit exceeded, retry later",
	})
}
