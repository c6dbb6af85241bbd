// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package api

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"

	"github.com/tomtom215/pygeoregister/internal/config"
	"github.com/tomtom215/pygeoregister/internal/version"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// templateNames lists the templates parsed at startup. Layout partials come
// first so pages can reference them.
var templateNames = []string{"_base.html", "landing_page.html", "namespace.html", "contributing.html"}

// Renderer executes HTML templates. Each template is looked up in the
// configured directory first and falls back to the embedded default.
type Renderer struct {
	cfg  *config.Config
	tmpl *template.Template
}

// templateData is the root object passed to every template.
type templateData struct {
	Config  *config.Config
	Data    interface{}
	Locale  string
	Version string
}

// NewRenderer parses all templates. dir may be empty to use only the
// embedded defaults.
func NewRenderer(cfg *config.Config, dir string) (*Renderer, error) {
	embedded, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, err
	}

	var custom fs.FS
	if dir != "" {
		info, statErr := os.Stat(dir)
		if statErr != nil {
			return nil, fmt.Errorf("templates path: %w", statErr)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("templates path %s is not a directory", dir)
		}
		custom = os.DirFS(dir)
	}

	root := template.New("").Option("missingkey=zero")
	for _, name := range templateNames {
		src, err := readTemplate(name, custom, embedded)
		if err != nil {
			return nil, err
		}
		if _, err := root.New(name).Parse(string(src)); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}

	return &Renderer{cfg: cfg, tmpl: root}, nil
}

func readTemplate(name string, custom, embedded fs.FS) ([]byte, error) {
	if custom != nil {
		src, err := fs.ReadFile(custom, name)
		if err == nil {
			return src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}
	}
	return fs.ReadFile(embedded, name)
}

// Stream returns a lazily executed rendering of the named template.
func (r *Renderer) Stream(name, locale string, data interface{}) Stream {
	return func(w io.Writer) error {
		return r.tmpl.ExecuteTemplate(w, name, templateData{
			Config:  r.cfg,
			Data:    data,
			Locale:  locale,
			Version: version.Version,
		})
	}
}
