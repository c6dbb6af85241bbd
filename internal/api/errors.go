// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

// Package api provides the landing page operation.
//
// errors.go - OGC API exception responses
package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/pygeoregister/internal/logging"
)

// OGC API exception codes
const (
	ErrCodeInvalidParameterValue = "InvalidParameterValue"
	ErrCodeMissingParameterValue = "MissingParameterValue"
	ErrCodeNoApplicableCode      = "NoApplicableCode"
	ErrCodeNotFound              = "NotFound"
)

// ExceptionReport is the JSON body of an error response.
type ExceptionReport struct {
	// Code is the machine-readable exception code
	Code string `json:"code"`

	// Description is a human-readable message
	Description string `json:"description"`
}

// Exception builds an error result carrying the process headers. The body
// is always JSON regardless of the requested format. Client errors are
// logged at warn level, server errors at error level.
func (a *API) Exception(ctx context.Context, status int, headers http.Header, code, description string) *Result {
	log := logging.Ctx(ctx)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.
		Int("status", status).
		Str("code", code).
		Msg(description)

	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	for k, v := range a.headers {
		h.Set(k, v)
	}
	h.Set("Content-Type", FormatTypes[FormatJSON])

	body, err := toJSON(ExceptionReport{Code: code, Description: description}, a.prettyPrint)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode exception")
		body = []byte(`{"code":"` + ErrCodeNoApplicableCode + `"}`)
	}

	return &Result{
		Headers: h,
		Status:  status,
		Body:    body,
	}
}
