// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package services provides suture.Service wrappers for long-running
components.

HTTPServerService adapts the blocking ListenAndServe of an *http.Server to
suture's context-aware Serve method and performs a graceful Shutdown when
the supervisor stops:

	srv := server.NewHTTPServer(cfg, router)
	svc := services.NewHTTPServerService(srv, srv.Addr, cfg.Server.Timeout)
	tree.AddAPIService(svc)

A ListenAndServe error (for example, the port is already in use) is
returned from Serve and the supervisor restarts the service with backoff.
*/
package services
