// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package metrics provides Prometheus metrics for the registry service.

Metrics are registered on the default registry with promauto and exposed at
/metrics when server.metrics is enabled:

	curl http://localhost:5000/metrics

# Available Metrics

HTTP Metrics:
  - pygeoregister_http_requests_total: Total HTTP requests (counter)
    Labels: method, route, status_code
  - pygeoregister_http_request_duration_seconds: Request latency (histogram)
    Labels: method, route
  - pygeoregister_http_active_requests: In-flight requests (gauge)
  - pygeoregister_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: route

Landing Page Metrics:
  - pygeoregister_landing_page_responses_total: Responses (counter)
    Labels: format (json, html, jsonld, invalid), status_code
  - pygeoregister_stream_errors_total: Failed streamed renders (counter)

Namespace Registration Metrics:
  - pygeoregister_namespace_submissions_total: Uploads by outcome (counter)
    Labels: result (created, unchanged, invalid, failed)

GitHub API Metrics:
  - pygeoregister_github_requests_total: API calls (counter)
    Labels: method, status_code ("error" when no response)
  - pygeoregister_github_request_duration_seconds: API latency (histogram)
    Labels: method
  - pygeoregister_circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - pygeoregister_circuit_breaker_requests_total: Calls by result (counter)
    Labels: name, result (success, failure, rejected)
  - pygeoregister_circuit_breaker_consecutive_failures (gauge)
  - pygeoregister_circuit_breaker_state_transitions_total (counter)
    Labels: name, from_state, to_state

Process Metrics:
  - pygeoregister_build_info: Always 1 (gauge)
    Labels: version, commit

The route label is the chi route pattern ("/", "/namespaces/{namespace}", ...)
so that arbitrary request paths cannot grow label cardinality.
*/
package metrics
