// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/pygeoregister/internal/api"
	"github.com/tomtom215/pygeoregister/internal/config"
	"github.com/tomtom215/pygeoregister/internal/metrics"
	"github.com/tomtom215/pygeoregister/internal/middleware"
)

// FaviconContentType is the media type the favicon is served with.
const FaviconContentType = "image/vnd.microsoft.icon"

// defaultMaxUploadSize applies when server.github.max_upload_size is unset.
const defaultMaxUploadSize = 10 << 20

// multipartMemory is the part of a multipart upload held in memory; the
// rest spills to temporary files.
const multipartMemory = 1 << 20

// Options controls router behaviour that does not come from the config file.
type Options struct {
	// Debug enables per-request access logging.
	Debug bool
}

// Router wires API operations to HTTP routes.
type Router struct {
	cfg          *config.Config
	opts         Options
	api          *api.API
	landing      func(*http.Request) *api.Result
	contributing func(*http.Request) *api.Result
	static       http.FileSystem
}

// NewRouter builds the HTTP handler for the service.
func NewRouter(a *api.API, cfg *config.Config, opts Options) http.Handler {
	rt := &Router{
		cfg:    cfg,
		opts:   opts,
		api:    a,
		static: fileOnlyFS{http.Dir(cfg.Server.Templates.Static)},
	}
	rt.landing = api.PreProcess(rt.recordLanding(a.LandingPage), a.Locales())
	rt.contributing = api.PreProcess(a.Contributing, a.Locales())
	return rt.setup()
}

func (rt *Router) setup() http.Handler {
	chiCfg := middleware.DefaultChiConfig()
	chiCfg.CORSEnabled = rt.cfg.Server.CORS
	chiCfg.RateLimitRequests = rt.cfg.Server.RateLimit.Requests
	chiCfg.RateLimitWindow = rt.cfg.Server.RateLimit.Window

	r := chi.NewRouter()
	r.NotFound(rt.notFound)

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog(rt.opts.Debug))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(chimiddleware.GetHead)
	r.Use(middleware.CORS(chiCfg)) // global so OPTIONS preflight is answered

	// ========================
	// Registry Endpoints
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(chiCfg))

		r.Get("/", rt.home)
		r.Get("/favicon.ico", rt.favicon)
		r.Handle("/static/*", http.StripPrefix("/static", http.FileServer(rt.static)))

		if rt.api.ContributingEnabled() {
			r.Get("/contributing", rt.contributingGuide)
		}
		if rt.api.UploadsEnabled() {
			r.Post("/namespaces", rt.registerNamespace)
			r.Post("/namespaces/{namespace}", rt.registerNamespace)
		}
	})

	// ========================
	// Observability
	// ========================
	if rt.cfg.Server.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// home serves the landing page.
func (rt *Router) home(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, r, rt.landing(r))
}

// recordLanding counts landing page responses by negotiated format.
func (rt *Router) recordLanding(op api.Operation) api.Operation {
	return func(req *api.Request) *api.Result {
		result := op(req)
		format := string(req.Format())
		if !req.IsValid() {
			format = "invalid"
		}
		metrics.RecordLandingPage(format, strconv.Itoa(result.Status))
		return result
	}
}

// notFound answers unknown routes with an OGC exception.
func (rt *Router) notFound(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, r, rt.api.Exception(r.Context(), http.StatusNotFound, http.Header{}, api.ErrCodeNotFound,
		fmt.Sprintf("%s not found", r.URL.Path)))
}

// contributingGuide serves the rendered contribution guide.
func (rt *Router) contributingGuide(w http.ResponseWriter, r *http.Request) {
	WriteResult(w, r, rt.contributing(r))
}

// registerNamespace accepts a namespace CSV as a multipart form (fields
// namespace and file) or as a raw CSV body. A namespace in the path wins
// over the form field; a raw body takes its file name from the filename
// query parameter.
func (rt *Router) registerNamespace(w http.ResponseWriter, r *http.Request) {
	var result *api.Result

	upload, err := rt.readUpload(w, r)
	if err != nil {
		result = rt.uploadError(r, err)
	} else {
		op := func(req *api.Request) *api.Result {
			return rt.api.RegisterNamespace(req, upload)
		}
		result = api.PreProcess(op, rt.api.Locales())(r)
	}

	metrics.RecordNamespaceSubmission(submissionResult(result.Status))
	WriteResult(w, r, result)
}

func (rt *Router) readUpload(w http.ResponseWriter, r *http.Request) (*api.Upload, error) {
	limit := rt.cfg.Server.GitHub.MaxUploadSize
	if limit <= 0 {
		limit = defaultMaxUploadSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	upload := &api.Upload{Namespace: chi.URLParam(r, "namespace")}
	query := r.URL.Query()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		content, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if upload.Namespace == "" {
			upload.Namespace = query.Get("namespace")
		}
		upload.Filename = query.Get("filename")
		upload.Content = content
		return upload, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	if upload.Namespace == "" {
		upload.Namespace = r.FormValue("namespace")
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return upload, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	upload.Filename = header.Filename
	upload.Content = content
	return upload, nil
}

func (rt *Router) uploadError(r *http.Request, err error) *api.Result {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return rt.api.Exception(r.Context(), http.StatusRequestEntityTooLarge, http.Header{},
			api.ErrCodeInvalidParameterValue, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
	}
	return rt.api.Exception(r.Context(), http.StatusBadRequest, http.Header{},
		api.ErrCodeInvalidParameterValue, "malformed upload: "+err.Error())
}

// submissionResult labels a namespace upload response for metrics.
func submissionResult(status int) string {
	switch {
	case status == http.StatusCreated:
		return "created"
	case status == http.StatusOK:
		return "unchanged"
	case status < http.StatusInternalServerError:
		return "invalid"
	default:
		return "failed"
	}
}

// favicon serves img/favicon.ico from the static directory.
func (rt *Router) favicon(w http.ResponseWriter, r *http.Request) {
	f, err := rt.static.Open(path.Join("/img", "favicon.ico"))
	if err != nil {
		rt.notFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		rt.notFound(w, r)
		return
	}

	w.Header().Set("Content-Type", FaviconContentType)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// fileOnlyFS hides directories so that the file server never produces
// listings or trailing-slash redirects.
type fileOnlyFS struct {
	http.FileSystem
}

func (fsys fileOnlyFS) Open(name string) (http.File, error) {
	f, err := fsys.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
