// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

// Package version holds build metadata for pygeoregister.
//
// Values are overridden at build time:
//
//	go build -ldflags "-X github.com/tomtom215/pygeoregister/internal/version.Version=0.1.0" ./cmd/pygeoregister
package version

import "fmt"

// Version is set at build time
var Version = "0.1.dev0"

// Commit is the VCS revision the binary was built from.
var Commit = "none"

// PoweredBy is the value sent in the X-Powered-By response header.
func PoweredBy() string {
	return "pygeoregister " + Version
}

// String returns a human-readable version line for the CLI.
func String() string {
	return fmt.Sprintf("pygeoregister %s (commit=%s)", Version, Commit)
}
