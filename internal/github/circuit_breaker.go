// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pygeoregister/internal/config"
	"github.com/tomtom215/pygeoregister/internal/logging"
	"github.com/tomtom215/pygeoregister/internal/metrics"
)

// breakerName labels the breaker in logs and metrics.
const breakerName = "github-api"

// ErrUnavailable is returned while the circuit is open.
var ErrUnavailable = errors.New("github API temporarily unavailable")

// CircuitBreakerClient wraps Client with the circuit breaker pattern so that
// an unreachable or failing GitHub API is not called for every upload.
//
// Only transport errors, 5xx and 429 responses count as failures. A 404 is
// excluded from the counts and other 4xx responses count as successes, since
// they show the API is answering.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a GitHub client with circuit breaker.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 5 consecutive failures
func NewCircuitBreakerClient(cfg *config.GitHubConfig) *CircuitBreakerClient {
	return newCircuitBreakerClient(NewClient(cfg), 2*time.Minute)
}

func newCircuitBreakerClient(client *Client, timeout time.Duration) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= 5
			if shouldTrip {
				logging.Warn().Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: isHealthyResponse,

		IsExcluded: func(err error) bool {
			return errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   breakerName,
	}
}

// isHealthyResponse reports whether err still shows a working API.
func isHealthyResponse(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode < http.StatusInternalServerError &&
			apiErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// execute wraps a GitHub API call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if isHealthyResponse(err) || errors.Is(err, ErrNotFound) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
			return nil, err
		}
		metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()
		counts := cbc.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)
	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	typed, ok := result.(*T)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// GetRef returns the head of branch with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetRef(ctx context.Context, branch string) (*Ref, error) {
	return castResult[Ref](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetRef(ctx, branch)
	}))
}

// CreateRef creates a branch with circuit breaker protection.
func (cbc *CircuitBreakerClient) CreateRef(ctx context.Context, branch, sha string) (*Ref, error) {
	return castResult[Ref](cbc.execute(func() (interface{}, error) {
		return cbc.client.CreateRef(ctx, branch, sha)
	}))
}

// GetContents reads a file with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetContents(ctx context.Context, path, ref string) (*Contents, error) {
	return castResult[Contents](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetContents(ctx, path, ref)
	}))
}

// PutContents writes a file with circuit breaker protection.
func (cbc *CircuitBreakerClient) PutContents(ctx context.Context, path string, req *PutContentsRequest) error {
	_, err := cbc.execute(func() (interface{}, error) {
		return nil, cbc.client.PutContents(ctx, path, req)
	})
	return err
}

// CreatePullRequest opens a pull request with circuit breaker protection.
func (cbc *CircuitBreakerClient) CreatePullRequest(ctx context.Context, pr *NewPullRequest) (*PullRequest, error) {
	return castResult[PullRequest](cbc.execute(func() (interface{}, error) {
		return cbc.client.CreatePullRequest(ctx, pr)
	}))
}
