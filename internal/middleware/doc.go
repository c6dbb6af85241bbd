// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package middleware provides chi-compatible HTTP middleware for the registry
service.

Key Components:

  - RequestID: X-Request-ID propagation plus request and correlation IDs
    in the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge labelled
    by chi route pattern
  - AccessLog: one structured log line per request, enabled in debug mode
  - CORS: go-chi/cors for read-only cross-origin access
  - RateLimit: go-chi/httprate per-client request budget

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(debug))
	r.Use(middleware.CORS(cfg))
	r.Group(func(r chi.Router) {
	    r.Use(middleware.RateLimit(cfg))
	    r.Get("/", home)
	})

All response writer wrappers forward Flush so that streamed HTML reaches the
client as it is rendered.
*/
package middleware
