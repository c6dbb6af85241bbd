// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

// Package main is the entry point for pygeoregister, the landing page of the
// Geoconnex registry (register.geoconnex.us).
//
// # Configuration
//
// The YAML configuration file is named by the PYGEOREGISTER_CONFIG
// environment variable, which is required. ${VAR} references in the file are
// expanded from the environment, and PYGEOREGISTER_* variables override
// individual keys (see internal/config).
//
// # Example Usage
//
//	export PYGEOREGISTER_CONFIG=/etc/pygeoregister/config.yml
//	pygeoregister serve
//
//	pygeoregister version
//
// # Signal Handling
//
// serve shuts down gracefully on SIGINT and SIGTERM, waiting for in-flight
// requests up to server.timeout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/pygeoregister/internal/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pygeoregister",
		Short:        "Geoconnex registry landing service",
		Version:      version.Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pygeoregister version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
