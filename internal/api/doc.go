// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package api implements the registry operations independently of the HTTP
framework that serves them: the landing page, namespace uploads and the
contribution guide.

Key Components:

  - Request: the negotiated format (f parameter or Accept header) and locale
    (lang parameter or Accept-Language) of an incoming request
  - PreProcess: composes request normalization in front of an operation
  - API: configuration shared by operations, process headers and templates
  - Result: headers, status and either a byte body or a lazily rendered stream
  - Renderer: html/template pages with embedded defaults that can be
    overridden from server.templates.path
  - RegisterNamespace: validates an uploaded namespace CSV and opens a pull
    request against the registry repository (server.github)
  - Contributing: the CONTRIBUTING.md of the registry repository, rendered

Formats:

	json    application/json     (default)
	html    text/html
	jsonld  application/ld+json

Any other value of the f parameter produces a 400 InvalidParameterValue
exception.

Usage Example:

	a, err := api.New(cfg)
	if err != nil {
	    return err
	}
	home := api.PreProcess(a.LandingPage, a.Locales())
	result := home(r)

The HTTP layer in internal/server writes a Result to the client.

Upload responses:

	201  pull request opened (Location is the pull request)
	200  identical file already registered, nothing written
	400  MissingParameterValue or InvalidParameterValue, including CSV errors
	502  GitHub rejected a step of the workflow
	503  GitHub circuit open

Thread Safety:

API and Renderer are read-only after construction and safe for concurrent
use by multiple goroutines.
*/
package api
