// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package api

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/pygeoregister/internal/config"
)

func TestNewRenderer_Embedded(t *testing.T) {
	r, err := NewRenderer(testConfig(), "")
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	var buf bytes.Buffer
	data := LandingPage{Title: "Embedded", Links: []Link{{Rel: "self", Href: "http://x"}}}
	if err := r.Stream("landing_page.html", "en-US", data)(&buf); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<h2>Embedded</h2>") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestNewRenderer_Override(t *testing.T) {
	dir := t.TempDir()
	page := `{{template "header" .}}custom {{.Data.Title}} {{.Locale}}{{template "footer" .}}`
	if err := os.WriteFile(filepath.Join(dir, "landing_page.html"), []byte(page), 0o600); err != nil {
		t.Fatal(err)
	}

	r, err := NewRenderer(testConfig(), dir)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	var buf bytes.Buffer
	if err := r.Stream("landing_page.html", "fr", LandingPage{Title: "Override"})(&buf); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "custom Override fr") {
		t.Errorf("override not used: %s", out)
	}
	// _base.html is not overridden and comes from the embedded defaults.
	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Errorf("embedded layout missing: %s", out)
	}
}

func TestNewRenderer_InvalidTemplate(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "landing_page.html"), []byte("{{ .Broken "), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewRenderer(testConfig(), dir); err == nil {
		t.Error("NewRenderer() expected parse error")
	}
}

func TestNewRenderer_PathIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "templates")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewRenderer(testConfig(), file); err == nil {
		t.Error("NewRenderer() expected error for non-directory path")
	}
}

func TestRenderer_ExecutionError(t *testing.T) {
	r, err := NewRenderer(testConfig(), "")
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	var buf bytes.Buffer
	if err := r.Stream("missing.html", "en-US", nil)(&buf); err == nil {
		t.Error("Stream() expected error for unknown template")
	}
}

func TestLandingPageTemplate_GitHubSections(t *testing.T) {
	tests := []struct {
		name             string
		github           config.GitHubConfig
		wantForm         bool
		wantContributing bool
	}{
		{"disabled", config.GitHubConfig{}, false, false},
		{"guide only", config.GitHubConfig{Repo: "o/r", Contributing: "CONTRIBUTING.md"}, false, true},
		{"uploads", config.GitHubConfig{Repo: "o/r", Token: "t"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Server.GitHub = tt.github
			r, err := NewRenderer(cfg, "")
			if err != nil {
				t.Fatalf("NewRenderer() error = %v", err)
			}

			var buf bytes.Buffer
			if err := r.Stream("landing_page.html", "en-US", LandingPage{Title: "x"})(&buf); err != nil {
				t.Fatalf("Stream() error = %v", err)
			}
			out := buf.String()
			if got := strings.Contains(out, `action="https://register.geoconnex.us/namespaces?f=html"`); got != tt.wantForm {
				t.Errorf("upload form present = %t, want %t", got, tt.wantForm)
			}
			if got := strings.Contains(out, `href="https://register.geoconnex.us/contributing"`); got != tt.wantContributing {
				t.Errorf("contributing link present = %t, want %t", got, tt.wantContributing)
			}
		})
	}
}

func TestNamespaceTemplate(t *testing.T) {
	r, err := NewRenderer(testConfig(), "")
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	var buf bytes.Buffer
	data := NamespaceSubmission{
		Namespace:   "usgs",
		Path:        "namespaces/usgs/gages.csv",
		Branch:      "upload-usgs-1",
		Message:     "Pull request created successfully.",
		PullRequest: "https://github.com/o/r/pull/1",
	}
	if err := r.Stream("namespace.html", "en-US", data)(&buf); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	for _, want := range []string{"<h2>usgs</h2>", "upload-usgs-1", `<a href="https://github.com/o/r/pull/1">`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q: %s", want, buf.String())
		}
	}
}

func TestContributingTemplate_TrustsRenderedGuide(t *testing.T) {
	r, err := NewRenderer(testConfig(), "")
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	var buf bytes.Buffer
	data := ContributingPage{Title: "Contributing", HTML: "<h1>Contributing</h1>"}
	if err := r.Stream("contributing.html", "en-US", data)(&buf); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<h1>Contributing</h1>") {
		t.Errorf("guide HTML was escaped: %s", buf.String())
	}
}
