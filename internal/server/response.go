// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package server

import (
	"bufio"
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/pygeoregister/internal/api"
	"github.com/tomtom215/pygeoregister/internal/logging"
	"github.com/tomtom215/pygeoregister/internal/metrics"
)

// streamBufferSize is the amount of rendered output held before it is
// sent to the client as a chunk.
const streamBufferSize = 4096

// WriteResult writes result to w. Headers from the result are copied
// verbatim; a header already present on w with the same name is replaced.
func WriteResult(w http.ResponseWriter, r *http.Request, result *api.Result) {
	h := w.Header()
	for name, values := range result.Headers {
		h[http.CanonicalHeaderKey(name)] = append([]string(nil), values...)
	}

	if !result.IsStream() {
		h.Set("Content-Length", strconv.Itoa(len(result.Body)))
		w.WriteHeader(result.Status)
		if r.Method == http.MethodHead {
			return
		}
		if _, err := w.Write(result.Body); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("failed to write response body")
		}
		return
	}

	h.Del("Content-Length")
	w.WriteHeader(result.Status)
	if r.Method == http.MethodHead {
		return
	}

	bw := bufio.NewWriterSize(w, streamBufferSize)
	err := result.Stream(bw)
	if err == nil {
		err = bw.Flush()
	}
	if err != nil {
		// Headers are already on the wire, so the error can only be logged.
		metrics.RecordStreamError()
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to stream response")
		return
	}

	if err := http.NewResponseController(w).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("failed to flush response")
	}
}
