// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package api

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/tomtom215/pygeoregister/internal/github"
	"github.com/tomtom215/pygeoregister/internal/registry"
)

// Submission statuses
const (
	SubmissionCreated   = "created"
	SubmissionUnchanged = "unchanged"
)

// Messages shown to submitters
const (
	msgMissingFile      = "Please select a file."
	msgMissingNamespace = "Please provide a namespace."
	msgNoChanges        = "No changes detected; skipping pull request."
	msgCreated          = "Pull request created successfully."
	msgUnavailable      = "GitHub is temporarily unavailable, please try again later."
)

// Upload is a namespace CSV received from a client.
type Upload struct {
	Namespace string
	Filename  string
	Content   []byte
}

// NamespaceSubmission is the content of a namespace upload response.
type NamespaceSubmission struct {
	Namespace   string `json:"namespace"`
	Path        string `json:"path"`
	Branch      string `json:"branch,omitempty"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	PullRequest string `json:"pull_request,omitempty"`
}

// ContributingPage is the content of the contribution guide resource.
type ContributingPage struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Links   []Link `json:"links"`

	// HTML is the rendered guide for the html format.
	HTML template.HTML `json:"-"`
}

// RegisterNamespace validates upload and proposes it to the registry
// repository as a pull request.
//
// A new pull request answers 201 with its URL in Location. An upload that
// matches the file already in the repository answers 200 with status
// unchanged. Validation failures answer 400; GitHub failures answer 502, or
// 503 while the GitHub circuit is open.
func (a *API) RegisterNamespace(req *Request, upload *Upload) *Result {
	ctx := req.Context()
	if !req.IsValid() {
		return a.invalidFormat(req)
	}
	if a.submitter == nil {
		return a.Exception(ctx, http.StatusNotFound, http.Header{}, ErrCodeNotFound, "namespace uploads are disabled")
	}
	if upload == nil || len(upload.Content) == 0 {
		return a.Exception(ctx, http.StatusBadRequest, http.Header{}, ErrCodeMissingParameterValue, msgMissingFile)
	}
	if upload.Namespace == "" {
		return a.Exception(ctx, http.StatusBadRequest, http.Header{}, ErrCodeMissingParameterValue, msgMissingNamespace)
	}

	filename := registry.BaseName(upload.Filename)
	if filename == "" {
		filename = upload.Namespace + ".csv"
	}

	outcome, err := a.submitter.Submit(ctx, registry.Submission{
		Namespace: upload.Namespace,
		Filename:  filename,
		Content:   upload.Content,
	})
	if err != nil {
		return a.submissionError(req, err)
	}

	content := NamespaceSubmission{
		Namespace: outcome.Namespace,
		Path:      outcome.Path,
		Branch:    outcome.Branch,
		Status:    SubmissionCreated,
		Message:   msgCreated,
	}
	status := http.StatusCreated
	headers := req.ResponseHeaders(a.headers)
	if outcome.Unchanged {
		content.Status = SubmissionUnchanged
		content.Message = msgNoChanges
		status = http.StatusOK
	} else {
		content.PullRequest = outcome.PullRequest.HTMLURL
		headers.Set("Location", content.PullRequest)
	}

	return a.respond(req, headers, status, "namespace.html", content)
}

// submissionError maps a Submit failure to an exception.
func (a *API) submissionError(req *Request, err error) *Result {
	ctx := req.Context()

	var csvErr registry.CSVError
	switch {
	case errors.As(err, &csvErr):
		return a.Exception(ctx, http.StatusBadRequest, http.Header{}, ErrCodeInvalidParameterValue, csvErr.Error())
	case errors.Is(err, registry.ErrInvalidNamespace), errors.Is(err, registry.ErrInvalidFilename):
		return a.Exception(ctx, http.StatusBadRequest, http.Header{}, ErrCodeInvalidParameterValue, err.Error())
	case errors.Is(err, github.ErrUnavailable):
		h := http.Header{}
		h.Set("Retry-After", "120")
		return a.Exception(ctx, http.StatusServiceUnavailable, h, ErrCodeNoApplicableCode, msgUnavailable)
	default:
		return a.Exception(ctx, http.StatusBadGateway, http.Header{}, ErrCodeNoApplicableCode, err.Error())
	}
}

// Contributing provides the contribution guide of the registry repository.
func (a *API) Contributing(req *Request) *Result {
	ctx := req.Context()
	if !req.IsValid() {
		return a.invalidFormat(req)
	}
	if a.guide == nil {
		return a.Exception(ctx, http.StatusNotFound, http.Header{}, ErrCodeNotFound, "contribution guide is disabled")
	}

	page, err := a.guide.Get(ctx)
	if err != nil {
		if errors.Is(err, github.ErrUnavailable) {
			return a.Exception(ctx, http.StatusServiceUnavailable, http.Header{}, ErrCodeNoApplicableCode, msgUnavailable)
		}
		return a.Exception(ctx, http.StatusBadGateway, http.Header{}, ErrCodeNoApplicableCode, err.Error())
	}

	content := ContributingPage{
		Title:   "Contributing",
		Content: page.Markdown,
		Links: []Link{{
			Rel:   "alternate",
			Type:  "text/markdown",
			Title: page.Path,
			Href:  page.Source,
		}},
		HTML: template.HTML(page.HTML), //nolint:gosec // rendered from the registry repository
	}

	return a.respond(req, req.ResponseHeaders(a.headers), http.StatusOK, "contributing.html", content)
}

func (a *API) invalidFormat(req *Request) *Result {
	return a.Exception(req.Context(), http.StatusBadRequest, http.Header{}, ErrCodeInvalidParameterValue,
		"Invalid format: "+string(req.Format()))
}

// respond renders content as HTML with tmpl or encodes it as JSON.
func (a *API) respond(req *Request, headers http.Header, status int, tmpl string, content interface{}) *Result {
	if req.Format() == FormatHTML {
		return &Result{
			Headers: headers,
			Status:  status,
			Stream:  a.renderer.Stream(tmpl, req.Locale().String(), content),
		}
	}

	body, err := toJSON(content, a.prettyPrint)
	if err != nil {
		return a.Exception(req.Context(), http.StatusInternalServerError, headers, ErrCodeNoApplicableCode,
			"failed to encode response")
	}
	return &Result{
		Headers: headers,
		Status:  status,
		Body:    body,
	}
}
