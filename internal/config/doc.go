// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

/*
Package config loads the pygeoregister configuration.

The configuration file is named by the PYGEOREGISTER_CONFIG environment
variable. Loading fails fast when it is unset; nothing is served without a
configuration.

# Layers

Configuration is assembled with Koanf v2 (highest priority wins):

 1. Built-in defaults (struct provider)
 2. YAML file from PYGEOREGISTER_CONFIG, after ${VAR} expansion
 3. Environment overrides (PYGEOREGISTER_HOST, PYGEOREGISTER_PORT, ...)

The resulting Config is validated once and treated as read-only afterwards.

# Example

	server:
	  bind:
	    host: 0.0.0.0
	    port: 5000
	  url: https://register.geoconnex.us
	  pretty_print: false
	  templates:
	    path: /opt/pygeoregister/templates
	    static: /opt/pygeoregister/static
	logging:
	  level: ERROR
	metadata:
	  identification:
	    title: Geoconnex Registry
	    description: A registry
*/
package config
