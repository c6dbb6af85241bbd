// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Ref is a git reference such as refs/heads/master.
type Ref struct {
	Ref    string `json:"ref"`
	Object struct {
		SHA  string `json:"sha"`
		Type string `json:"type"`
	} `json:"object"`
}

// Contents is a file in the repository as returned by the contents API.
type Contents struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	HTMLURL  string `json:"html_url"`
}

// Decode returns the file bytes. GitHub wraps the base64 payload at 60
// columns, so line breaks are removed before decoding.
func (c *Contents) Decode() ([]byte, error) {
	if c.Encoding != "" && c.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported content encoding %q", c.Encoding)
	}
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(c.Content)
	return base64.StdEncoding.DecodeString(raw)
}

// PutContentsRequest creates or replaces a file on a branch. SHA must be the
// blob SHA of the file being replaced and empty for a new file.
type PutContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// NewPullRequest describes a pull request to open.
type NewPullRequest struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body"`
}

// PullRequest is an opened pull request.
type PullRequest struct {
	Number  int    `json:"number"`
	State   string `json:"state"`
	HTMLURL string `json:"html_url"`
}

// GetRef returns the head of branch. ErrNotFound means the branch does not exist.
func (c *Client) GetRef(ctx context.Context, branch string) (*Ref, error) {
	var ref Ref
	endpoint := fmt.Sprintf("/repos/%s/git/refs/heads/%s", c.repo, escapePath(branch))
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// CreateRef creates branch pointing at sha.
func (c *Client) CreateRef(ctx context.Context, branch, sha string) (*Ref, error) {
	var ref Ref
	body := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": sha,
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/git/refs", c.repo), body, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// GetContents returns the file at path as of ref (a branch, tag or commit
// SHA). ErrNotFound means the file does not exist at that ref.
func (c *Client) GetContents(ctx context.Context, path, ref string) (*Contents, error) {
	var contents Contents
	endpoint := fmt.Sprintf("/repos/%s/contents/%s", c.repo, escapePath(path))
	if ref != "" {
		endpoint += "?ref=" + url.QueryEscape(ref)
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &contents); err != nil {
		return nil, err
	}
	return &contents, nil
}

// PutContents creates or updates the file at path.
func (c *Client) PutContents(ctx context.Context, path string, req *PutContentsRequest) error {
	endpoint := fmt.Sprintf("/repos/%s/contents/%s", c.repo, escapePath(path))
	return c.do(ctx, http.MethodPut, endpoint, req, nil)
}

// CreatePullRequest opens a pull request.
func (c *Client) CreatePullRequest(ctx context.Context, pr *NewPullRequest) (*PullRequest, error) {
	var created PullRequest
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/pulls", c.repo), pr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// escapePath escapes each segment of a slash-separated repository path.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
