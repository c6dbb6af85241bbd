// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package supervisor provides process supervision using suture v4.

The tree has one layer today:

	RootSupervisor ("pygeoregister")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with backoff once FailureThreshold failures
accumulate (decaying every FailureDecay seconds). Canceling the context
passed to Serve stops every service, waiting at most ShutdownTimeout.

Supervisor events (service failures, restarts, backoff) are logged through
sutureslog, which takes a *slog.Logger; logging.NewSlogLogger bridges it to
the zerolog output used by the rest of the process.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
*/
package supervisor
