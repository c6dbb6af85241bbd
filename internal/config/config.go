// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for pygeoregister.
// A Config is built once by Load and must not be mutated afterwards.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Metadata MetadataConfig `koanf:"metadata"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Bind BindConfig `koanf:"bind"`

	// URL is the public base URL of the service, used for self links.
	// Default: http://<bind.host>:<bind.port>
	URL string `koanf:"url" validate:"omitempty,url"`

	Templates TemplatesConfig `koanf:"templates"`

	// PrettyPrint indents JSON responses.
	// Default: false
	PrettyPrint bool `koanf:"pretty_print"`

	// Languages lists the supported response locales, first is the default.
	// Default: [en-US]
	Languages []string `koanf:"languages" validate:"min=1,dive,required"`

	// CORS enables permissive cross-origin headers.
	CORS bool `koanf:"cors"`

	// Metrics exposes Prometheus metrics at /metrics.
	Metrics bool `koanf:"metrics"`

	// Timeout bounds request reads and response writes.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`

	GitHub GitHubConfig `koanf:"github"`
}

// BindConfig is the listen address.
type BindConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"min=1,max=65535"`
}

// TemplatesConfig locates HTML templates and static assets.
type TemplatesConfig struct {
	// Path is a directory holding landing_page.html. Empty means the
	// templates compiled into the binary.
	Path string `koanf:"path"`

	// Static is the directory served under /static; favicon.ico is read
	// from its img/ subdirectory.
	// Default: static
	Static string `koanf:"static" validate:"required"`
}

// RateLimitConfig configures per-IP request limits. Requests of 0 disables limiting.
type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"gte=0"`
	Window   time.Duration `koanf:"window" validate:"required_with=Requests"`
}

// GitHubConfig connects the registry to the repository that holds the
// namespace CSV files. Repo empty disables every GitHub-backed route.
type GitHubConfig struct {
	// APIURL is the GitHub REST endpoint.
	// Default: https://api.github.com
	APIURL string `koanf:"api_url" validate:"required_with=Repo,omitempty,url"`

	// Repo is the owner/name of the registry repository.
	// Default: internetofwater/geoconnex.us
	Repo string `koanf:"repo" validate:"omitempty,repo"`

	// BaseBranch is the branch pull requests are opened against.
	// Default: master
	BaseBranch string `koanf:"base_branch" validate:"required_with=Repo"`

	// Token authorizes branch, file and pull request writes. Namespace
	// uploads are disabled while it is empty. Set it through
	// PYGEOREGISTER_GITHUB_TOKEN or a ${VAR} reference, never inline.
	Token string `koanf:"token"`

	// Contributing is the repository path of the contribution guide served
	// at /contributing. Empty disables the page.
	// Default: CONTRIBUTING.md
	Contributing string `koanf:"contributing"`

	// CacheTTL is how long the rendered contribution guide is reused.
	// Default: 10m
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gte=0"`

	// Timeout bounds a single API call.
	// Default: 30s
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`

	// RateLimit is the client-side request rate in requests per second.
	// 0 disables the limiter.
	// Default: 1
	RateLimit float64 `koanf:"rate_limit" validate:"gte=0"`

	// Burst is the number of requests allowed above RateLimit at once.
	// Default: 5
	Burst int `koanf:"burst" validate:"gte=0"`

	// MaxUploadSize caps the size of an uploaded namespace CSV in bytes.
	// Default: 10485760 (10 MiB)
	MaxUploadSize int64 `koanf:"max_upload_size" validate:"gte=0"`
}

// Enabled reports whether a registry repository is configured.
func (g GitHubConfig) Enabled() bool {
	return g.Repo != ""
}

// UploadsEnabled reports whether namespace uploads can open pull requests.
func (g GitHubConfig) UploadsEnabled() bool {
	return g.Enabled() && g.Token != ""
}

// ContributingEnabled reports whether the contribution guide is served.
func (g GitHubConfig) ContributingEnabled() bool {
	return g.Enabled() && g.Contributing != ""
}

// MetadataConfig describes the service.
type MetadataConfig struct {
	Identification IdentificationConfig `koanf:"identification"`
}

// IdentificationConfig is copied verbatim into the landing page.
type IdentificationConfig struct {
	Title       string `koanf:"title" validate:"required"`
	Description string `koanf:"description"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARNING, ERROR, CRITICAL.
	// Default: INFO
	Level string `koanf:"level" validate:"loglevel"`

	// Logfile appends logs to a file instead of stderr.
	Logfile string `koanf:"logfile"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Bind.Host, strconv.Itoa(c.Server.Bind.Port))
}

// BaseURL returns the configured public URL without trailing slashes.
func (c *Config) BaseURL() string {
	if c.Server.URL == "" {
		return "http://" + c.Addr()
	}
	return strings.TrimRight(c.Server.URL, "/")
}
