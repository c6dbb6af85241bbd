// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

// Package githubtest provides an in-memory GitHub repository served over
// HTTP for tests of code built on the github package.
package githubtest

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pygeoregister/internal/config"
)

// Repository coordinates served by every Server.
const (
	Repo       = "internetofwater/geoconnex.us"
	BaseBranch = "master"
	BaseSHA    = "4f6c2a1e9b7d"
	Token      = "test-token"
)

// Operations that can be made to fail with Fail.
const (
	OpGetRef            = "get-ref"
	OpCreateRef         = "create-ref"
	OpGetContents       = "get-contents"
	OpPutContents       = "put-contents"
	OpCreatePullRequest = "create-pull-request"
)

// Call is a request received by the server.
type Call struct {
	Op     string
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server fakes the git refs, contents and pulls endpoints of one repository.
// Files set with SetFile live on the base branch; files written with the
// contents API live on the branch named in the request.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	branches map[string]string
	files    map[string]map[string][]byte
	failures map[string]int
	calls    []Call
	pulls    int
}

// NewServer starts a Server that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{
		branches: map[string]string{BaseBranch: BaseSHA},
		files:    map[string]map[string][]byte{BaseBranch: {}},
		failures: make(map[string]int),
	}

	r := chi.NewRouter()
	r.Route("/repos/{owner}/{repo}", func(r chi.Router) {
		r.Get("/git/refs/heads/*", s.handle(OpGetRef, s.getRef))
		r.Post("/git/refs", s.handle(OpCreateRef, s.createRef))
		r.Get("/contents/*", s.handle(OpGetContents, s.getContents))
		r.Put("/contents/*", s.handle(OpPutContents, s.putContents))
		r.Post("/pulls", s.handle(OpCreatePullRequest, s.createPull))
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// Config returns a GitHub configuration pointing at the server with
// uploads enabled.
func (s *Server) Config() config.GitHubConfig {
	return config.GitHubConfig{
		APIURL:        s.URL,
		Repo:          Repo,
		BaseBranch:    BaseBranch,
		Token:         Token,
		Contributing:  "CONTRIBUTING.md",
		CacheTTL:      time.Minute,
		Timeout:       5 * time.Second,
		Burst:         1,
		MaxUploadSize: 1 << 20,
	}
}

// SetFile stores content at path on the base branch.
func (s *Server) SetFile(path string, content []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[BaseBranch][path] = content
}

// File returns the content at path on branch.
func (s *Server) File(branch, path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.files[branch][path]
	return content, ok
}

// Fail makes every later call of op answer with status.
func (s *Server) Fail(op string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = status
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Ops returns the operation of each request received so far.
func (s *Server) Ops() []string {
	calls := s.Calls()
	ops := make([]string, len(calls))
	for i, c := range calls {
		ops[i] = c.Op
	}
	return ops
}

// Branches returns the names of all branches.
func (s *Server) Branches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.branches))
	for name := range s.branches {
		names = append(names, name)
	}
	return names
}

func (s *Server) handle(op string, fn func(w http.ResponseWriter, r *http.Request, body []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Op:     op,
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		status, fail := s.failures[op]
		s.mu.Unlock()

		if chi.URLParam(r, "owner")+"/"+chi.URLParam(r, "repo") != Repo {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		if fail {
			writeJSON(w, status, map[string]string{"message": http.StatusText(status)})
			return
		}
		fn(w, r, body)
	}
}

func (s *Server) getRef(w http.ResponseWriter, r *http.Request, _ []byte) {
	branch := wildcard(r)

	s.mu.Lock()
	sha, ok := s.branches[branch]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, refBody(branch, sha))
}

func (s *Server) createRef(w http.ResponseWriter, r *http.Request, body []byte) {
	var req struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	}
	if err := json.Unmarshal(body, &req); err != nil || !strings.HasPrefix(req.Ref, "refs/heads/") {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid request"})
		return
	}
	branch := strings.TrimPrefix(req.Ref, "refs/heads/")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.branches[branch]; exists {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Reference already exists"})
		return
	}
	s.branches[branch] = req.SHA
	s.files[branch] = cloneFiles(s.files[BaseBranch])
	writeJSON(w, http.StatusCreated, refBody(branch, req.SHA))
}

func (s *Server) getContents(w http.ResponseWriter, r *http.Request, _ []byte) {
	path := wildcard(r)
	ref := r.URL.Query().Get("ref")

	s.mu.Lock()
	branch := s.resolveRef(ref)
	content, ok := s.files[branch][path]
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"name":     path[strings.LastIndex(path, "/")+1:],
		"path":     path,
		"sha":      blobSHA(content),
		"size":     len(content),
		"encoding": "base64",
		"content":  wrap(base64.StdEncoding.EncodeToString(content), 60),
		"html_url": fmt.Sprintf("https://github.com/%s/blob/%s/%s", Repo, branch, path),
	})
}

func (s *Server) putContents(w http.ResponseWriter, r *http.Request, body []byte) {
	path := wildcard(r)
	var req struct {
		Message string `json:"message"`
		Content string `json:"content"`
		Branch  string `json:"branch"`
		SHA     string `json:"sha"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid request"})
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.Content)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "content is not valid Base64"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	files, ok := s.files[req.Branch]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Branch not found"})
		return
	}
	status := http.StatusCreated
	if existing, exists := files[path]; exists {
		if req.SHA != blobSHA(existing) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "sha does not match"})
			return
		}
		status = http.StatusOK
	} else if req.SHA != "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "sha given for a new file"})
		return
	}
	files[path] = content
	writeJSON(w, status, map[string]interface{}{"content": map[string]string{"path": path}})
}

func (s *Server) createPull(w http.ResponseWriter, r *http.Request, body []byte) {
	var req struct {
		Title string `json:"title"`
		Head  string `json:"head"`
		Base  string `json:"base"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.Title == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, headOK := s.branches[req.Head]
	_, baseOK := s.branches[req.Base]
	if !headOK || !baseOK {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Validation Failed"})
		return
	}
	s.pulls++
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"number":   s.pulls,
		"state":    "open",
		"html_url": PullURL(s.pulls),
	})
}

// PullURL is the html_url of pull request n.
func PullURL(n int) string {
	return fmt.Sprintf("https://github.com/%s/pull/%d", Repo, n)
}

// resolveRef maps a branch name or commit SHA to a branch. Callers hold mu.
func (s *Server) resolveRef(ref string) string {
	if ref == "" || ref == BaseSHA {
		return BaseBranch
	}
	return ref
}

func wildcard(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

func refBody(branch, sha string) map[string]interface{} {
	return map[string]interface{}{
		"ref":    "refs/heads/" + branch,
		"object": map[string]string{"sha": sha, "type": "commit"},
	}
}

func blobSHA(content []byte) string {
	return fmt.Sprintf("blob-%d-%x", len(content), content[:min(len(content), 8)])
}

func cloneFiles(files map[string][]byte) map[string][]byte {
	out := make(map[string][]byte, len(files))
	for k, v := range files {
		out[k] = v
	}
	return out
}

// wrap breaks s into lines of n characters the way the contents API does.
func wrap(s string, n int) string {
	var b strings.Builder
	for len(s) > n {
		b.WriteString(s[:n])
		b.WriteByte('\n')
		s = s[n:]
	}
	b.WriteString(s)
	return b.String()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
