// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package api

import (
	"fmt"
	"net/http"

	"golang.org/x/text/language"

	"github.com/tomtom215/pygeoregister/internal/config"
	"github.com/tomtom215/pygeoregister/internal/github"
	"github.com/tomtom215/pygeoregister/internal/logging"
	"github.com/tomtom215/pygeoregister/internal/registry"
	"github.com/tomtom215/pygeoregister/internal/version"
)

// RegistryTitle is the title of the self link on the landing page.
const RegistryTitle = "register.geoconnex.us"

// LandingPage is the content of the root resource.
type LandingPage struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Links       []Link `json:"links"`
}

// Link is a web link in a resource.
type Link struct {
	Rel   string `json:"rel"`
	Type  string `json:"type"`
	Title string `json:"title"`
	Href  string `json:"href"`
}

// API holds the configuration shared by all operations. It is read-only
// after New and safe for concurrent use.
type API struct {
	cfg         *config.Config
	baseURL     string
	prettyPrint bool
	locales     []language.Tag
	renderer    *Renderer
	headers     map[string]string

	// submitter is nil unless namespace uploads are enabled.
	submitter *registry.Submitter

	// guide is nil unless the contribution guide is enabled.
	guide *registry.Guide
}

// New builds an API from a validated configuration.
func New(cfg *config.Config) (*API, error) {
	locales, err := ParseLocales(cfg.Server.Languages)
	if err != nil {
		return nil, err
	}

	renderer, err := NewRenderer(cfg, cfg.Server.Templates.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	a := &API{
		cfg:         cfg,
		baseURL:     cfg.BaseURL(),
		prettyPrint: cfg.Server.PrettyPrint,
		locales:     locales,
		renderer:    renderer,
		headers: map[string]string{
			"X-Powered-By": version.PoweredBy(),
		},
	}

	gh := cfg.Server.GitHub
	if gh.Enabled() {
		client := github.NewCircuitBreakerClient(&gh)
		if gh.UploadsEnabled() {
			a.submitter = registry.NewSubmitter(client, gh.BaseBranch)
		}
		if gh.ContributingEnabled() {
			a.guide, err = registry.NewGuide(client, gh.Contributing, gh.BaseBranch, gh.CacheTTL)
			if err != nil {
				return nil, err
			}
		}
	}

	return a, nil
}

// Close releases resources held by the API.
func (a *API) Close() {
	if a.guide != nil {
		a.guide.Close()
	}
}

// UploadsEnabled reports whether RegisterNamespace is available.
func (a *API) UploadsEnabled() bool {
	return a.submitter != nil
}

// ContributingEnabled reports whether Contributing is available.
func (a *API) ContributingEnabled() bool {
	return a.guide != nil
}

// Locales returns the supported locales, most preferred first.
func (a *API) Locales() []language.Tag {
	return a.locales
}

// LandingPage provides the root resource of the registry.
func (a *API) LandingPage(req *Request) *Result {
	log := logging.Ctx(req.Context())
	log.Debug().Msg("request received")

	if !req.IsValid() {
		return a.Exception(req.Context(), http.StatusBadRequest, http.Header{}, ErrCodeInvalidParameterValue,
			fmt.Sprintf("Invalid format: %s", req.Format()))
	}

	headers := req.ResponseHeaders(a.headers)

	content := LandingPage{
		Title:       a.cfg.Metadata.Identification.Title,
		Description: a.cfg.Metadata.Identification.Description,
		Links: []Link{{
			Rel:   "self",
			Type:  FormatTypes[FormatJSON],
			Title: RegistryTitle,
			Href:  a.baseURL,
		}},
	}

	if req.Format() == FormatHTML {
		return &Result{
			Headers: headers,
			Status:  http.StatusOK,
			Stream:  a.renderer.Stream("landing_page.html", req.Locale().String(), content),
		}
	}

	body, err := toJSON(content, a.prettyPrint)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode landing page")
		return a.Exception(req.Context(), http.StatusInternalServerError, headers, ErrCodeNoApplicableCode,
			"failed to encode landing page")
	}

	return &Result{
		Headers: headers,
		Status:  http.StatusOK,
		Body:    body,
	}
}
