// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package middleware

import (
	"net/http"
	"time"

	"github.com/tomtom215/pygeoregister/internal/logging"
)

// AccessLog returns a middleware that logs every completed request. It is a
// no-op unless enabled, which the serve command does in debug mode.
func AccessLog(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := newStatusResponseWriter(w)

			next.ServeHTTP(ww, r)

			logging.Ctx(r.Context()).Info().
				Str("component", "http").
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("query", r.URL.RawQuery).
				Str("remote_addr", r.RemoteAddr).
				Str("user_agent", r.UserAgent()).
				Int("status", ww.statusCode).
				Int("bytes", ww.bytes).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
