// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/pygeoregister/internal/api"
	"github.com/tomtom215/pygeoregister/internal/config"
	"github.com/tomtom215/pygeoregister/internal/logging"
	"github.com/tomtom215/pygeoregister/internal/server"
	"github.com/tomtom215/pygeoregister/internal/supervisor"
	"github.com/tomtom215/pygeoregister/internal/supervisor/services"
	"github.com/tomtom215/pygeoregister/internal/version"
)

func newServeCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registry landing page server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// --debug is accepted but not consulted: the server always runs
			// in debug mode.
			return run(ctx, cfg, server.Options{Debug: true})
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "debug mode (the server always runs in debug mode)")
	return cmd
}

// run configures logging, builds the HTTP stack and serves it under the
// supervisor tree until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, opts server.Options) error {
	closer, err := logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Caller:  cfg.Logging.Caller,
		Logfile: cfg.Logging.Logfile,
	})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	defer closer.Close()

	logging.Info().
		Str("version", version.Version).
		Str("addr", cfg.Addr()).
		Str("url", cfg.BaseURL()).
		Bool("debug", opts.Debug).
		Msg("Starting pygeoregister")

	a, err := api.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize API: %w", err)
	}
	defer a.Close()

	if gh := cfg.Server.GitHub; gh.Enabled() {
		logging.Info().
			Str("repo", gh.Repo).
			Str("base_branch", gh.BaseBranch).
			Bool("uploads", a.UploadsEnabled()).
			Bool("contributing", a.ContributingEnabled()).
			Msg("GitHub registry repository configured")
	}

	srv := server.NewHTTPServer(cfg, server.NewRouter(a, cfg, opts))

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, cfg.Server.Timeout))

	err = tree.Serve(ctx)

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	logging.Info().Msg("pygeoregister stopped")
	return nil
}
