// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/russross/blackfriday/v2"

	"github.com/tomtom215/pygeoregister/internal/github"
	"github.com/tomtom215/pygeoregister/internal/logging"
)

// maxGuideCost bounds the bytes held by the guide cache.
const maxGuideCost = 8 << 20

// FileReader reads a repository file at a ref.
type FileReader interface {
	GetContents(ctx context.Context, path, ref string) (*github.Contents, error)
}

// GuidePage is a rendered contribution guide.
type GuidePage struct {
	// Path is the repository path of the guide.
	Path string

	// Markdown is the guide source.
	Markdown string

	// HTML is the rendered guide. It is produced from repository content
	// and trusted as such.
	HTML string

	// Source is the GitHub page of the guide.
	Source string
}

// Guide fetches and renders the contribution guide of the registry
// repository. Rendered pages are cached for ttl.
type Guide struct {
	repo  FileReader
	path  string
	ref   string
	ttl   time.Duration
	cache *ristretto.Cache[string, *GuidePage]
}

// NewGuide creates a Guide for the file at path on ref. A ttl of zero
// disables caching.
func NewGuide(repo FileReader, path, ref string, ttl time.Duration) (*Guide, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, *GuidePage]{
		NumCounters: 100,
		MaxCost:     maxGuideCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create guide cache: %w", err)
	}

	return &Guide{
		repo:  repo,
		path:  path,
		ref:   ref,
		ttl:   ttl,
		cache: cache,
	}, nil
}

// Get returns the rendered guide, from cache when fresh.
func (g *Guide) Get(ctx context.Context) (*GuidePage, error) {
	if page, ok := g.cache.Get(g.path); ok {
		return page, nil
	}

	contents, err := g.repo.GetContents(ctx, g.path, g.ref)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", g.path, err)
	}
	markdown, err := contents.Decode()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", g.path, err)
	}

	page := &GuidePage{
		Path:     g.path,
		Markdown: string(markdown),
		HTML:     string(blackfriday.Run(markdown)),
		Source:   contents.HTMLURL,
	}

	if g.ttl > 0 {
		cost := int64(len(page.Markdown) + len(page.HTML))
		if g.cache.SetWithTTL(g.path, page, cost, g.ttl) {
			g.cache.Wait()
		}
	}

	logging.Ctx(ctx).Debug().
		Str("path", g.path).
		Int("bytes", len(markdown)).
		Msg("Contribution guide fetched")
	return page, nil
}

// Close stops the cache goroutines.
func (g *Guide) Close() {
	g.cache.Close()
}
