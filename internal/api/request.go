// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

const (
	// FormatParam selects the response format (json, html, jsonld).
	FormatParam = "f"
	// LangParam selects the response language.
	LangParam = "lang"
)

// DefaultLocales is used when no languages are configured.
var DefaultLocales = []language.Tag{language.AmericanEnglish}

// Request is the framework-independent view of an incoming HTTP request:
// the negotiated format and locale. It is immutable after NewRequest.
type Request struct {
	ctx    context.Context
	format Format
	locale language.Tag
}

// NewRequest normalizes r against the supported locales.
//
// The format comes from the f query parameter when present, otherwise from
// the Accept header. The locale comes from the lang query parameter, then
// Accept-Language, falling back to the first supported locale.
func NewRequest(r *http.Request, locales []language.Tag) *Request {
	if len(locales) == 0 {
		locales = DefaultLocales
	}

	query := r.URL.Query()
	format := formatFromQuery(query.Get(FormatParam))
	if format == "" {
		format = formatFromAccept(r.Header.Get("Accept"))
	}

	return &Request{
		ctx:    r.Context(),
		format: format,
		locale: negotiateLocale(query.Get(LangParam), r.Header.Get("Accept-Language"), locales),
	}
}

// negotiateLocale matches the requested languages against the supported set.
// An explicit lang parameter takes priority over Accept-Language.
func negotiateLocale(param, acceptLanguage string, supported []language.Tag) language.Tag {
	var desired []language.Tag
	if param = strings.TrimSpace(param); param != "" {
		if tag, err := language.Parse(param); err == nil {
			desired = append(desired, tag)
		}
	}
	if accept := strings.TrimSpace(acceptLanguage); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			desired = append(desired, tags...)
		}
	}
	if len(desired) == 0 {
		return supported[0]
	}

	_, idx, confidence := language.NewMatcher(supported).Match(desired...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[idx]
}

// ParseLocales converts configured language strings into tags.
func ParseLocales(languages []string) ([]language.Tag, error) {
	tags := make([]language.Tag, 0, len(languages))
	for _, lang := range languages {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", lang, err)
		}
		tags = append(tags, tag)
	}
	if len(tags) == 0 {
		return DefaultLocales, nil
	}
	return tags, nil
}

// Context returns the context of the originating HTTP request.
func (r *Request) Context() context.Context {
	return r.ctx
}

// Format returns the negotiated format. It is empty when the client
// expressed no usable preference.
func (r *Request) Format() Format {
	return r.format
}

// Locale returns the negotiated locale.
func (r *Request) Locale() language.Tag {
	return r.locale
}

// IsValid reports whether the requested format is supported. A request
// with no format preference is valid.
func (r *Request) IsValid() bool {
	return r.format == "" || r.format.Known()
}

// ResponseHeaders returns the Content-Type and Content-Language for this
// request merged with extra. Entries in extra win.
func (r *Request) ResponseHeaders(extra map[string]string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", r.format.MediaType())
	h.Set("Content-Language", r.locale.String())
	for k, v := range extra {
		h.Set(k, v)
	}
	return h
}

// Operation is an API method operating on a normalized request.
type Operation func(*Request) *Result

// PreProcess composes request normalization in front of op, producing a
// function that accepts the raw *http.Request.
//
//	home := api.PreProcess(a.LandingPage, locales)
//	result := home(r)
func PreProcess(op Operation, locales []language.Tag) func(*http.Request) *Result {
	return func(r *http.Request) *Result {
		return op(NewRequest(r, locales))
	}
}
