// Package refresher pulls up-to-date resources from Notion and rewrites the
// resources cache file in one atomic write.
package refresher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/normalize"
	"github.com/starford/folio/internal/notion"
	"github.com/starford/folio/internal/storage"
)

const (
	// DefaultCachePath is where the cache file lives relative to the content root.
	DefaultCachePath = "src/content/resources-cache.json"
	// PublishedStatus is the only Status value fetched.
	PublishedStatus = "Up-to-Date"

	pageSize = 100
)

// Credentials are the Notion secrets a refresh needs.
type Credentials struct {
	Token       string
	ContainerID string
}

// Validate reports every missing credential, one error each.
func (c Credentials) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Token) == "" {
		errs = append(errs, apperr.ErrMissingToken)
	}
	if strings.TrimSpace(c.ContainerID) == "" {
		errs = append(errs, apperr.ErrMissingContainer)
	}
	return errors.Join(errs...)
}

// Result describes a completed refresh.
type Result struct {
	Count    int
	Path     string
	Checksum string
}

// Refresher runs one cache refresh against a Notion API.
type Refresher struct {
	api         notion.API
	resolver    *notion.Resolver
	sources     *notion.SourceCache
	store       storage.Provider
	containerID string
	cachePath   string
	logger      *slog.Logger
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithCachePath overrides DefaultCachePath.
func WithCachePath(path string) Option {
	return func(r *Refresher) {
		if path != "" {
			r.cachePath = path
		}
	}
}

// WithSourceCache shares a resolved data source cache across refreshers.
func WithSourceCache(c *notion.SourceCache) Option {
	return func(r *Refresher) { r.sources = c }
}

// WithLogger sets the logger used for warnings and progress.
func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Refresher that reads containerID through api and writes the
// cache file through store.
func New(api notion.API, store storage.Provider, containerID string, opts ...Option) *Refresher {
	r := &Refresher{
		api:         api,
		store:       store,
		containerID: containerID,
		cachePath:   DefaultCachePath,
		logger:      slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	r.resolver = notion.NewResolver(api, r.sources, r.logger)
	return r
}

// Fetch returns every published page, normalized and sorted, without
// touching the cache file. Zero records is ErrNoRecords.
func (r *Refresher) Fetch(ctx context.Context) ([]normalize.CacheEntry, error) {
	sourceID := r.resolver.Resolve(ctx, r.containerID)

	pages, err := r.fetchAll(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	entries := make([]normalize.CacheEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, normalize.BuildEntry(p))
	}
	normalize.SortEntries(entries)

	if len(entries) == 0 {
		return nil, apperr.ErrNoRecords
	}
	return entries, nil
}

// Run fetches every published page and replaces the cache file. Nothing is
// written unless every page was fetched and at least one record came back.
func (r *Refresher) Run(ctx context.Context) (Result, error) {
	entries, err := r.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}

	data, err := Encode(entries)
	if err != nil {
		return Result{}, err
	}
	if err := r.store.Write(r.cachePath, data); err != nil {
		return Result{}, fmt.Errorf("refresher: write cache: %w", err)
	}

	r.logger.Info(fmt.Sprintf("Wrote %d resources to %s", len(entries), r.cachePath),
		slog.Int("count", len(entries)),
		slog.String("path", r.cachePath))
	return Result{Count: len(entries), Path: r.cachePath, Checksum: checksum.Sum(data)}, nil
}

func (r *Refresher) fetchAll(ctx context.Context, sourceID string) ([]notion.Page, error) {
	var (
		pages  []notion.Page
		cursor string
	)
	for {
		resp, err := r.api.QueryDataSource(ctx, sourceID, notion.QueryRequest{
			Filter: &notion.Filter{
				Property: normalize.FieldStatus,
				Status:   &notion.StatusCondition{Equals: PublishedStatus},
			},
			PageSize:    pageSize,
			StartCursor: cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("refresher: query: %w", err)
		}
		for _, p := range resp.Results {
			if p.Object == "page" {
				pages = append(pages, p)
			}
		}
		r.logger.Debug("fetched results page",
			slog.Int("results", len(resp.Results)),
			slog.Bool("has_more", resp.HasMore))

		cursor = resp.Cursor()
		if cursor == "" {
			return pages, nil
		}
	}
}

// Encode renders entries as the cache file body: a 2-space indented JSON
// array with a trailing newline.
func Encode(entries []normalize.CacheEntry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("refresher: encode cache: %w", err)
	}
	return buf.Bytes(), nil
}
