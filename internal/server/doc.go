// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package server binds the landing page operation to HTTP using the chi router.

Routes:

	GET /              landing page (json, html, jsonld)
	GET /favicon.ico   <server.templates.static>/img/favicon.ico
	GET /static/*      files under server.templates.static
	GET /metrics       Prometheus metrics (when server.metrics is true)

Trailing slashes are ignored, so /favicon.ico/ is the same route as
/favicon.ico.

WriteResult converts an api.Result into the HTTP response. The headers of
the result replace any same-named headers already on the response and no
Content-Type is added on top of them. Streamed results are rendered straight
to the connection using chunked transfer encoding.
*/
package server
