// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package github is a small GitHub REST client for the registry repository.

It covers the calls the namespace registration workflow needs:

	GET  /repos/{repo}/git/refs/heads/{branch}   GetRef
	POST /repos/{repo}/git/refs                  CreateRef
	GET  /repos/{repo}/contents/{path}?ref=      GetContents
	PUT  /repos/{repo}/contents/{path}           PutContents
	POST /repos/{repo}/pulls                     CreatePullRequest

Resilience:
  - Client-side token bucket (golang.org/x/time/rate), server.github.rate_limit
    and server.github.burst
  - HTTP 429 retried with exponential backoff or Retry-After
  - CircuitBreakerClient (sony/gobreaker) opens after 5 consecutive 5xx,
    429 or transport failures and rejects calls with ErrUnavailable

The token is sent as "Authorization: token <token>" and is never logged.
Reads of public repositories work without one.
*/
package github
