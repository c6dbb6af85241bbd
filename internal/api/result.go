// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package api

import (
	"io"
	"net/http"
)

// Stream lazily writes a response body.
type Stream func(w io.Writer) error

// Result is the outcome of an API operation: headers, status and content.
// Exactly one of Body or Stream is set.
type Result struct {
	Headers http.Header
	Status  int
	Body    []byte
	Stream  Stream
}

// IsStream reports whether the content is produced lazily.
func (r *Result) IsStream() bool {
	return r.Stream != nil
}
