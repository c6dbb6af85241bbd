// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package api

import (
	"strings"

	"github.com/munnerz/goautoneg"
)

// Format is a negotiated response representation.
type Format string

// Supported formats, selectable with the f query parameter.
const (
	FormatJSON   Format = "json"
	FormatHTML   Format = "html"
	FormatJSONLD Format = "jsonld"
)

// FormatTypes maps each supported format to its media type.
var FormatTypes = map[Format]string{
	FormatJSON:   "application/json",
	FormatHTML:   "text/html",
	FormatJSONLD: "application/ld+json",
}

// mediaTypeFormats maps Accept header media types back to formats.
var mediaTypeFormats = map[string]Format{
	"application/json":      FormatJSON,
	"text/html":             FormatHTML,
	"application/xhtml+xml": FormatHTML,
	"application/ld+json":   FormatJSONLD,
}

// Known reports whether f is one of the supported formats.
func (f Format) Known() bool {
	_, ok := FormatTypes[f]
	return ok
}

// MediaType returns the Content-Type for f. Unset and unknown formats
// are served as JSON.
func (f Format) MediaType() string {
	if mt, ok := FormatTypes[f]; ok {
		return mt
	}
	return FormatTypes[FormatJSON]
}

// formatFromQuery normalizes the f query parameter. Unknown values are kept
// so that the request can be reported as invalid.
func formatFromQuery(value string) Format {
	return Format(strings.ToLower(strings.TrimSpace(value)))
}

// formatFromAccept picks the highest-ranked media type in the Accept header
// that maps to a supported format. Wildcards never select a format.
func formatFromAccept(accept string) Format {
	if strings.TrimSpace(accept) == "" {
		return ""
	}
	for _, a := range goautoneg.ParseAccept(accept) {
		if a.Q <= 0 {
			continue
		}
		if f, ok := mediaTypeFormats[a.Type+"/"+a.SubType]; ok {
			return f
		}
	}
	return ""
}
