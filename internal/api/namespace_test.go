// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pygeoregister/internal/github/githubtest"
	"github.com/tomtom215/pygeoregister/internal/registry"
)

const namespaceCSV = "id,target,creator,description\n" +
	"https://geoconnex.us/usgs/gages/1,https://waterdata.usgs.gov/monitoring-location/1,me@example.com,Gage 1\n"

func newGitHubAPI(t *testing.T) (*API, *githubtest.Server) {
	t.Helper()
	gh := githubtest.NewServer(t)
	cfg := testConfig()
	cfg.Server.GitHub = gh.Config()
	a := newTestAPI(t, cfg)
	t.Cleanup(a.Close)
	return a, gh
}

func register(a *API, target string, upload *Upload) *Result {
	r := httptest.NewRequest(http.MethodPost, target, nil)
	return a.RegisterNamespace(NewRequest(r, a.Locales()), upload)
}

func decodeException(t *testing.T, result *Result) ExceptionReport {
	t.Helper()
	var report ExceptionReport
	if err := json.Unmarshal(result.Body, &report); err != nil {
		t.Fatalf("decode exception: %v: %s", err, result.Body)
	}
	return report
}

func TestRegisterNamespace_Created(t *testing.T) {
	a, gh := newGitHubAPI(t)

	result := register(a, "/namespaces/usgs", &Upload{
		Namespace: "usgs",
		Filename:  `C:\fakepath\gages.csv`,
		Content:   []byte(namespaceCSV),
	})
	if result.Status != http.StatusCreated {
		t.Fatalf("status = %d: %s", result.Status, result.Body)
	}
	if got := result.Headers.Get("Location"); got != githubtest.PullURL(1) {
		t.Errorf("Location = %q", got)
	}

	var content NamespaceSubmission
	if err := json.Unmarshal(result.Body, &content); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if content.Status != SubmissionCreated || content.Path != "namespaces/usgs/gages.csv" ||
		content.PullRequest != githubtest.PullURL(1) || !strings.HasPrefix(content.Branch, "upload-usgs-") {
		t.Errorf("content = %+v", content)
	}
	if _, ok := gh.File(content.Branch, "namespaces/usgs/gages.csv"); !ok {
		t.Error("file not written on the upload branch")
	}
}

func TestRegisterNamespace_DefaultFilename(t *testing.T) {
	a, _ := newGitHubAPI(t)

	result := register(a, "/namespaces/usgs", &Upload{Namespace: "usgs", Content: []byte(namespaceCSV)})
	if result.Status != http.StatusCreated {
		t.Fatalf("status = %d: %s", result.Status, result.Body)
	}
	if !bytes.Contains(result.Body, []byte(`"path":"namespaces/usgs/usgs.csv"`)) {
		t.Errorf("body = %s", result.Body)
	}
}

func TestRegisterNamespace_Unchanged(t *testing.T) {
	a, gh := newGitHubAPI(t)
	gh.SetFile("namespaces/usgs/gages.csv", []byte(namespaceCSV))

	result := register(a, "/namespaces/usgs", &Upload{Namespace: "usgs", Filename: "gages.csv", Content: []byte(namespaceCSV)})
	if result.Status != http.StatusOK {
		t.Fatalf("status = %d: %s", result.Status, result.Body)
	}
	if result.Headers.Get("Location") != "" {
		t.Error("Location set for an unchanged file")
	}

	var content NamespaceSubmission
	if err := json.Unmarshal(result.Body, &content); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if content.Status != SubmissionUnchanged || content.Message != "No changes detected; skipping pull request." {
		t.Errorf("content = %+v", content)
	}
}

func TestRegisterNamespace_Errors(t *testing.T) {
	tests := []struct {
		name       string
		upload     *Upload
		fail       string
		wantStatus int
		wantCode   string
		wantDesc   string
	}{
		{
			name:       "no file",
			upload:     &Upload{Namespace: "usgs"},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeMissingParameterValue,
			wantDesc:   "Please select a file.",
		},
		{
			name:       "no namespace",
			upload:     &Upload{Filename: "a.csv", Content: []byte(namespaceCSV)},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeMissingParameterValue,
			wantDesc:   "Please provide a namespace.",
		},
		{
			name:       "invalid namespace",
			upload:     &Upload{Namespace: "-bad", Filename: "a.csv", Content: []byte(namespaceCSV)},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeInvalidParameterValue,
			wantDesc:   `invalid namespace: "-bad"`,
		},
		{
			name:       "not a csv",
			upload:     &Upload{Namespace: "usgs", Filename: "a.xlsx", Content: []byte(namespaceCSV)},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeInvalidParameterValue,
			wantDesc:   `invalid file name: "a.xlsx"`,
		},
		{
			name:       "csv error",
			upload:     &Upload{Namespace: "usgs", Filename: "a.csv", Content: []byte("id,target,creator,description\nx,y,z,w\n")},
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeInvalidParameterValue,
			wantDesc:   string(registry.ErrCSVIDAsURL),
		},
		{
			name:       "github failure",
			upload:     &Upload{Namespace: "usgs", Filename: "a.csv", Content: []byte(namespaceCSV)},
			fail:       githubtest.OpCreatePullRequest,
			wantStatus: http.StatusBadGateway,
			wantCode:   ErrCodeNoApplicableCode,
			wantDesc:   "Error creating pull request: 422 - Unprocessable Entity: Unprocessable Entity",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, gh := newGitHubAPI(t)
			if tt.fail != "" {
				gh.Fail(tt.fail, http.StatusUnprocessableEntity)
			}

			result := register(a, "/namespaces", tt.upload)
			if result.Status != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", result.Status, tt.wantStatus, result.Body)
			}
			report := decodeException(t, result)
			if report.Code != tt.wantCode || report.Description != tt.wantDesc {
				t.Errorf("exception = %+v, want %s %q", report, tt.wantCode, tt.wantDesc)
			}
		})
	}
}

func TestRegisterNamespace_Disabled(t *testing.T) {
	a := newTestAPI(t, testConfig())
	if a.UploadsEnabled() || a.ContributingEnabled() {
		t.Fatal("GitHub features enabled without a repository")
	}

	result := register(a, "/namespaces", &Upload{Namespace: "usgs", Content: []byte(namespaceCSV)})
	if result.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", result.Status)
	}
}

func TestRegisterNamespace_HTML(t *testing.T) {
	a, _ := newGitHubAPI(t)

	result := register(a, "/namespaces?f=html", &Upload{Namespace: "usgs", Filename: "gages.csv", Content: []byte(namespaceCSV)})
	if result.Status != http.StatusCreated || !result.IsStream() {
		t.Fatalf("status = %d, stream = %t", result.Status, result.IsStream())
	}
	var buf bytes.Buffer
	if err := result.Stream(&buf); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if !strings.Contains(buf.String(), githubtest.PullURL(1)) {
		t.Errorf("page does not link the pull request: %s", buf.String())
	}
}

func TestContributing(t *testing.T) {
	a, gh := newGitHubAPI(t)
	gh.SetFile("CONTRIBUTING.md", []byte("# How to contribute\n"))

	r := httptest.NewRequest(http.MethodGet, "/contributing", nil)
	result := a.Contributing(NewRequest(r, a.Locales()))
	if result.Status != http.StatusOK {
		t.Fatalf("status = %d: %s", result.Status, result.Body)
	}

	var page ContributingPage
	if err := json.Unmarshal(result.Body, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Content != "# How to contribute\n" {
		t.Errorf("Content = %q", page.Content)
	}
	if len(page.Links) != 1 || page.Links[0].Type != "text/markdown" ||
		!strings.HasSuffix(page.Links[0].Href, "/CONTRIBUTING.md") {
		t.Errorf("Links = %+v", page.Links)
	}
	if bytes.Contains(result.Body, []byte("<h1>")) {
		t.Error("JSON carries rendered HTML")
	}

	r = httptest.NewRequest(http.MethodGet, "/contributing?f=html", nil)
	result = a.Contributing(NewRequest(r, a.Locales()))
	var buf bytes.Buffer
	if err := result.Stream(&buf); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if !strings.Contains(buf.String(), "<h1>How to contribute</h1>") {
		t.Errorf("page = %s", buf.String())
	}
}

func TestContributing_UpstreamFailure(t *testing.T) {
	a, _ := newGitHubAPI(t)

	r := httptest.NewRequest(http.MethodGet, "/contributing", nil)
	result := a.Contributing(NewRequest(r, a.Locales()))
	if result.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", result.Status)
	}
}
