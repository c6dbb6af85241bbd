// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/pygeoregister/internal/api"
	"github.com/tomtom215/pygeoregister/internal/metrics"
)

func TestWriteResult_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	result := &api.Result{
		Headers: http.Header{"Content-Type": {"application/json"}, "X-Powered-By": {"pygeoregister test"}},
		Status:  http.StatusCreated,
		Body:    []byte(`{"ok":true}`),
	}

	WriteResult(rec, httptest.NewRequest(http.MethodGet, "/", nil), result)

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if rec.Body.String() != `{"ok":true}` {
		t.Errorf("body = %q", rec.Body.String())
	}
	if got := rec.Header().Get("Content-Length"); got != "11" {
		t.Errorf("Content-Length = %q, want 11", got)
	}
	if got := rec.Header().Get("X-Powered-By"); got != "pygeoregister test" {
		t.Errorf("X-Powered-By = %q", got)
	}
}

func TestWriteResult_ReplacesHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "text/plain; charset=utf-8")
	rec.Header().Add("X-Powered-By", "something else")
	rec.Header().Set("X-Request-ID", "kept")

	result := &api.Result{
		Headers: http.Header{"Content-Type": {"application/ld+json"}, "X-Powered-By": {"pygeoregister test"}},
		Status:  http.StatusOK,
		Body:    []byte("{}"),
	}
	WriteResult(rec, httptest.NewRequest(http.MethodGet, "/", nil), result)

	if got := rec.Header().Values("Content-Type"); len(got) != 1 || got[0] != "application/ld+json" {
		t.Errorf("Content-Type = %v, want [application/ld+json]", got)
	}
	if got := rec.Header().Values("X-Powered-By"); len(got) != 1 || got[0] != "pygeoregister test" {
		t.Errorf("X-Powered-By = %v, want [pygeoregister test]", got)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "kept" {
		t.Errorf("X-Request-ID = %q, want kept", got)
	}
}

func TestWriteResult_NoDefaultContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResult(rec, httptest.NewRequest(http.MethodGet, "/", nil), &api.Result{
		Headers: http.Header{},
		Status:  http.StatusOK,
		Body:    []byte("plain"),
	})

	if got := rec.Header().Get("Content-Type"); got != "" {
		t.Errorf("Content-Type = %q, want none", got)
	}
}

func TestWriteResult_Stream(t *testing.T) {
	rec := httptest.NewRecorder()
	big := strings.Repeat("x", streamBufferSize*3)
	result := &api.Result{
		Headers: http.Header{"Content-Type": {"text/html"}},
		Status:  http.StatusOK,
		Stream: func(w io.Writer) error {
			_, err := io.WriteString(w, big)
			return err
		},
	}

	WriteResult(rec, httptest.NewRequest(http.MethodGet, "/", nil), result)

	if rec.Body.String() != big {
		t.Errorf("body length = %d, want %d", rec.Body.Len(), len(big))
	}
	if !rec.Flushed {
		t.Error("stream was not flushed")
	}
	if rec.Header().Get("Content-Length") != "" {
		t.Error("stream should not carry Content-Length")
	}
}

func TestWriteResult_StreamError(t *testing.T) {
	before := testutil.ToFloat64(metrics.StreamErrors)

	rec := httptest.NewRecorder()
	result := &api.Result{
		Headers: http.Header{"Content-Type": {"text/html"}},
		Status:  http.StatusOK,
		Stream: func(w io.Writer) error {
			_, _ = io.WriteString(w, "<html>")
			return errors.New("template exploded")
		},
	}

	WriteResult(rec, httptest.NewRequest(http.MethodGet, "/", nil), result)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (headers already sent)", rec.Code)
	}
	if got := testutil.ToFloat64(metrics.StreamErrors) - before; got != 1 {
		t.Errorf("stream errors delta = %v, want 1", got)
	}
}

func TestWriteResult_Head(t *testing.T) {
	rec := httptest.NewRecorder()
	called := false
	result := &api.Result{
		Headers: http.Header{"Content-Type": {"text/html"}},
		Status:  http.StatusOK,
		Stream: func(w io.Writer) error {
			called = true
			return nil
		},
	}

	WriteResult(rec, httptest.NewRequest(http.MethodHead, "/", nil), result)

	if called {
		t.Error("stream rendered for HEAD request")
	}
	if rec.Body.Len() != 0 {
		t.Errorf("HEAD body = %q", rec.Body.String())
	}
}
