// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/pygeoregister/internal/config"
	"github.com/tomtom215/pygeoregister/internal/metrics"
	"github.com/tomtom215/pygeoregister/internal/version"
)

// maxErrorBodySize limits how much of an error response is read.
const maxErrorBodySize = 64 * 1024

// mediaType is the versioned GitHub REST media type.
const mediaType = "application/vnd.github+json"

// ErrNotFound is returned when the requested ref or file does not exist.
var ErrNotFound = errors.New("github: not found")

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
}

// Error renders the status like the registry upload form does:
// "422 - Unprocessable Entity", followed by GitHub's message if any.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d - %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Client talks to the GitHub REST API on behalf of one repository.
//
// Requests pass through a client-side token bucket so that a burst of
// uploads cannot exhaust the token's hourly quota, and HTTP 429 responses
// are retried with exponential backoff (1s, 2s, 4s) or the delay named by
// Retry-After.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	baseURL        string
	repo           string
	token          string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a client for cfg.Repo. A zero RateLimit disables the
// client-side limiter.
func NewClient(cfg *config.GitHubConfig) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		repo:    cfg.Repo,
		token:   cfg.Token,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     3,
		retryBaseDelay: time.Second,
	}
}

// do sends one API call. body, when non-nil, is encoded as the JSON request
// body; out, when non-nil, receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode %s %s request: %w", method, endpoint, err)
		}
	}

	resp, err := c.doWithRetry(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

// doWithRetry performs the request, waiting on the limiter before every
// attempt and backing off on HTTP 429. The context cancels both waits.
func (c *Client) doWithRetry(ctx context.Context, method, endpoint string, payload []byte) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("github rate limiter: %w", err)
		}

		var reqBody io.Reader = http.NoBody
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", mediaType)
		req.Header.Set("User-Agent", version.PoweredBy())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "token "+c.token)
		}

		start := time.Now()
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.RecordGitHubRequest(method, "error", time.Since(start))
			return nil, fmt.Errorf("github %s %s: %w", method, endpoint, err)
		}
		metrics.RecordGitHubRequest(method, strconv.Itoa(resp.StatusCode), time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests || attempt == c.maxRetries {
			return resp, nil
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds >= 0 {
			delay = time.Duration(seconds) * time.Second
		}
		_ = resp.Body.Close()

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// errorMessage extracts the "message" field of a GitHub error body, falling
// back to the raw (bounded) body text.
func errorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}
