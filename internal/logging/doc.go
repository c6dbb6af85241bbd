// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

// Package logging provides centralized zerolog-based logging for pygeoregister.
//
// The logger is configured once from the `logging` section of the
// configuration file:
//
//	logging:
//	  level: DEBUG
//	  logfile: /tmp/pygeoregister.log
//	  format: json
//
// Levels are case-insensitive (DEBUG and debug are equivalent). When logfile
// is set, records are appended to that file instead of stderr.
//
// # Quick Start
//
//	closer, err := logging.Init(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	logging.Info().Str("addr", addr).Msg("Server starting")
//	logging.Ctx(r.Context()).Debug().Msg("request received")
//
// Always terminate log chains with .Msg() or .Send().
package logging
