// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable holding the config file path.
const ConfigPathEnvVar = "PYGEOREGISTER_CONFIG"

// envPrefix scopes the environment overrides.
const envPrefix = "PYGEOREGISTER_"

// ErrConfigEnvUnset is returned by Load when PYGEOREGISTER_CONFIG is not set.
var ErrConfigEnvUnset = errors.New(ConfigPathEnvVar + " environment variable not set")

// defaultConfig returns the values applied before the config file.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Bind: BindConfig{
				Host: "0.0.0.0",
				Port: 5000,
			},
			Templates: TemplatesConfig{
				Path:   "",
				Static: "static",
			},
			PrettyPrint: false,
			Languages:   []string{"en-US"},
			CORS:        false,
			Metrics:     true,
			Timeout:     30 * time.Second,
			RateLimit: RateLimitConfig{
				Requests: 0,
				Window:   time.Minute,
			},
			GitHub: GitHubConfig{
				APIURL:        "https://api.github.com",
				Repo:          "internetofwater/geoconnex.us",
				BaseBranch:    "master",
				Contributing:  "CONTRIBUTING.md",
				CacheTTL:      10 * time.Minute,
				Timeout:       30 * time.Second,
				RateLimit:     1,
				Burst:         5,
				MaxUploadSize: 10 << 20,
			},
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "json",
		},
	}
}

// Load reads the file named by PYGEOREGISTER_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(ConfigPathEnvVar)
	if path == "" {
		return nil, ErrConfigEnvUnset
	}
	return LoadFile(path)
}

// LoadFile loads configuration with the following precedence:
//
//  1. Defaults
//  2. The YAML file at path, with ${VAR} references expanded
//  3. PYGEOREGISTER_* environment overrides
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(newExpandedFile(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// envMappings maps environment variable names (lower-cased) to config paths.
var envMappings = map[string]string{
	"pygeoregister_host":         "server.bind.host",
	"pygeoregister_port":         "server.bind.port",
	"pygeoregister_url":          "server.url",
	"pygeoregister_pretty_print": "server.pretty_print",
	"pygeoregister_log_level":    "logging.level",
	"pygeoregister_log_format":   "logging.format",
	"pygeoregister_logfile":      "logging.logfile",
	"pygeoregister_github_token": "server.github.token",
	"pygeoregister_github_repo":  "server.github.repo",
	"pygeoregister_github_url":   "server.github.api_url",
}

// envTransformFunc maps PYGEOREGISTER_* variables to koanf paths.
// Unmapped keys (including PYGEOREGISTER_CONFIG itself) are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// envRefPattern matches ${VAR} references in the raw YAML.
var envRefPattern = regexp.MustCompile(`\$\{([^}{]+)\}`)

// expandedFile is a koanf.Provider that reads a file and substitutes
// ${VAR} references from the environment before parsing.
type expandedFile struct {
	path string
	file *file.File
}

func newExpandedFile(path string) *expandedFile {
	return &expandedFile{path: path, file: file.Provider(path)}
}

// ReadBytes returns the file contents with environment references expanded.
// A reference to an unset variable is an error.
func (e *expandedFile) ReadBytes() ([]byte, error) {
	raw, err := e.file.ReadBytes()
	if err != nil {
		return nil, err
	}

	var missing []string
	expanded := envRefPattern.ReplaceAllFunc(raw, func(ref []byte) []byte {
		name := string(envRefPattern.FindSubmatch(ref)[1])
		value, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
			return ref
		}
		return []byte(value)
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("environment variables not set: %s", strings.Join(missing, ", "))
	}
	return expanded, nil
}

// Read is not supported; expandedFile must be used with a parser.
func (e *expandedFile) Read() (map[string]interface{}, error) {
	return nil, errors.New("expanded file provider does not support Read")
}
