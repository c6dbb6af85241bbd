// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a config that passes validation.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Metadata.Identification.Title = "Geoconnex Registry"
	cfg.Metadata.Identification.Description = "A registry"
	return cfg
}

func TestBaseURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"no trailing slash", "https://register.geoconnex.us", "https://register.geoconnex.us"},
		{"single trailing slash", "https://register.geoconnex.us/", "https://register.geoconnex.us"},
		{"double trailing slash", "https://register.geoconnex.us//", "https://register.geoconnex.us"},
		{"with path", "http://localhost:5000/registry/", "http://localhost:5000/registry"},
		{"unset", "", "http://0.0.0.0:5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.URL = tt.url
			if got := cfg.BaseURL(); got != tt.want {
				t.Errorf("BaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Bind.Host = "127.0.0.1"
	cfg.Server.Bind.Port = 8080
	if got := cfg.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q, want 127.0.0.1:8080", got)
	}

	cfg.Server.Bind.Host = "::1"
	if got := cfg.Addr(); got != "[::1]:8080" {
		t.Errorf("Addr() = %q, want [::1]:8080", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing title", func(c *Config) { c.Metadata.Identification.Title = "" }, "metadata.identification.title is required"},
		{"empty description allowed", func(c *Config) { c.Metadata.Identification.Description = "" }, ""},
		{"missing host", func(c *Config) { c.Server.Bind.Host = "" }, "server.bind.host is required"},
		{"port zero", func(c *Config) { c.Server.Bind.Port = 0 }, "server.bind.port must be at least 1"},
		{"port too large", func(c *Config) { c.Server.Bind.Port = 70000 }, "server.bind.port must be at most 65535"},
		{"bad url", func(c *Config) { c.Server.URL = "not a url" }, "server.url must be a valid URL"},
		{"no languages", func(c *Config) { c.Server.Languages = nil }, "server.languages must be at least 1"},
		{"malformed language", func(c *Config) { c.Server.Languages = []string{"en-US", "!!"} }, "invalid language tag"},
		{"bad log level", func(c *Config) { c.Logging.Level = "LOUD" }, "logging.level must be one of"},
		{"lowercase log level", func(c *Config) { c.Logging.Level = "debug" }, ""},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format must be one of"},
		{"negative timeout", func(c *Config) { c.Server.Timeout = -time.Second }, "server.timeout must be at least 0"},
		{"missing static", func(c *Config) { c.Server.Templates.Static = "" }, "server.templates.static is required"},
		{"github repo without owner", func(c *Config) { c.Server.GitHub.Repo = "geoconnex.us" }, "server.github.repo must be in owner/name form"},
		{"github repo with path", func(c *Config) { c.Server.GitHub.Repo = "a/b/c" }, "server.github.repo must be in owner/name form"},
		{"github disabled", func(c *Config) { c.Server.GitHub = GitHubConfig{} }, ""},
		{"github missing base branch", func(c *Config) { c.Server.GitHub.BaseBranch = "" }, "server.github.base_branch is required when Repo is set"},
		{"github missing api url", func(c *Config) { c.Server.GitHub.APIURL = "" }, "server.github.api_url is required when Repo is set"},
		{"github bad api url", func(c *Config) { c.Server.GitHub.APIURL = "api.github.com" }, "server.github.api_url must be a valid URL"},
		{"github negative rate", func(c *Config) { c.Server.GitHub.RateLimit = -1 }, "server.github.rate_limit must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGitHubConfigFeatures(t *testing.T) {
	tests := []struct {
		name             string
		cfg              GitHubConfig
		enabled, uploads bool
		contributing     bool
	}{
		{"unset", GitHubConfig{}, false, false, false},
		{"read only", GitHubConfig{Repo: "o/r", Contributing: "CONTRIBUTING.md"}, true, false, true},
		{"token", GitHubConfig{Repo: "o/r", Token: "t"}, true, true, false},
		{"token without repo", GitHubConfig{Token: "t", Contributing: "CONTRIBUTING.md"}, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Enabled(); got != tt.enabled {
				t.Errorf("Enabled() = %t, want %t", got, tt.enabled)
			}
			if got := tt.cfg.UploadsEnabled(); got != tt.uploads {
				t.Errorf("UploadsEnabled() = %t, want %t", got, tt.uploads)
			}
			if got := tt.cfg.ContributingEnabled(); got != tt.contributing {
				t.Errorf("ContributingEnabled() = %t, want %t", got, tt.contributing)
			}
		})
	}
}
