package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/listing"
	"github.com/starford/folio/internal/pages"
	"github.com/starford/folio/internal/routing"
)

// Content is the read side of the content store.
type Content interface {
	Resources() []listing.Resource
	TIL() []listing.TILEntry
}

// Handler holds the page and API route handlers.
type Handler struct {
	content  Content
	pageSize int
	logger   *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithPageSize sets the number of cards per listing page.
func WithPageSize(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.pageSize = n
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a new Handler over c.
func NewHandler(c Content, opts ...HandlerOption) *Handler {
	h := &Handler{content: c, pageSize: pages.DefaultPageSize, logger: slog.Default()}
	for _, o := range opts {
		o(h)
	}
	return h
}

// pathParam returns a decoded route parameter. chi matches on the raw path
// when it holds escapes such as %2F, so parameters may still be encoded.
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func queryParam(r *http.Request, key string) string {
	return routing.QueryValue(r.URL.RawQuery, key)
}

func pageParam(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ResourcesPage handles the resources listing routes.
func (h *Handler) ResourcesPage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	route := routing.ResourceRoute{
		Category: pathParam(r, "category"),
		Type:     pathParam(r, "type"),
		Page:     page,
	}

	all := h.content.Resources()
	entries := content.FilterResources(all, route.Category, route.Type)
	if (route.Category != "" || route.Type != "") && len(entries) == 0 {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	_, err := pages.RenderResources(&buf, pages.ResourcesPage{
		Route:    route,
		Entries:  entries,
		Facets:   content.ResourceFacets(all),
		PageSize: h.pageSize,
		RawQuery: r.URL.RawQuery,
	})
	h.finishPage(w, r, buf.Bytes(), err)
}

// TILPage handles the TIL listing routes.
func (h *Handler) TILPage(w http.ResponseWriter, r *http.Request) {
	page, ok := pageParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	route := routing.TILRoute{
		Tag:  pathParam(r, "tag"),
		Page: page,
		View: queryParam(r, "view"),
	}

	all := h.content.TIL()
	entries := content.FilterTIL(all, route.Tag)
	if route.Tag != "" && len(entries) == 0 {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	_, err := pages.RenderTIL(&buf, pages.TILPage{
		Route:    route,
		Entries:  entries,
		Tags:     content.TagCounts(all),
		PageSize: h.pageSize,
		RawQuery: r.URL.RawQuery,
	})
	h.finishPage(w, r, buf.Bytes(), err)
}

func (h *Handler) finishPage(w http.ResponseWriter, r *http.Request, body []byte, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		http.NotFound(w, r)
	case err != nil:
		h.logger.Error("render page failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	default:
		writeHTML(w, http.StatusOK, body)
	}
}

// RedirectResources sends /resources to the first page, keeping the search term.
func (h *Handler) RedirectResources(w http.ResponseWriter, r *http.Request) {
	target := routing.ResourcesURL(routing.ResourceRoute{Page: 1}, listing.QueryTerm(r.URL.RawQuery))
	http.Redirect(w, r, target, http.StatusFound)
}

// RedirectTIL sends /til to the first page, keeping the search term and view.
func (h *Handler) RedirectTIL(w http.ResponseWriter, r *http.Request) {
	route := routing.TILRoute{Page: 1, View: queryParam(r, "view")}
	http.Redirect(w, r, routing.TILURL(route, listing.QueryTerm(r.URL.RawQuery)), http.StatusFound)
}

// SearchResources handles GET /api/resources. Optional category and type
// parameters narrow the dataset before the search runs.
func (h *Handler) SearchResources(w http.ResponseWriter, r *http.Request) {
	entries := content.FilterResources(h.content.Resources(), queryParam(r, "category"), queryParam(r, "type"))
	writeJSON(w, http.StatusOK, search(entries, r.URL.RawQuery, listing.Resources{}))
}

// SearchTIL handles GET /api/til. An optional tag parameter narrows the
// dataset before the search runs.
func (h *Handler) SearchTIL(w http.ResponseWriter, r *http.Request) {
	entries := content.FilterTIL(h.content.TIL(), queryParam(r, "tag"))
	writeJSON(w, http.StatusOK, search(entries, r.URL.RawQuery, listing.TIL{}))
}

func search[E any](entries []E, rawQuery string, l listing.Searchable[E]) SearchResponse[E] {
	term := listing.QueryTerm(rawQuery)
	if term == "" {
		if entries == nil {
			entries = []E{}
		}
		return SearchResponse[E]{Results: entries}
	}
	hits := listing.Filter(entries, term, l)
	return SearchResponse[E]{Query: term, Summary: listing.Summary(len(hits), term), Results: hits}
}

// Facets handles GET /api/resources/facets.
func (h *Handler) Facets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, content.ResourceFacets(h.content.Resources()))
}

// Tags handles GET /api/til/tags.
func (h *Handler) Tags(w http.ResponseWriter, _ *http.Request) {
	tags := content.TagCounts(h.content.TIL())
	if tags == nil {
		tags = []content.TagCount{}
	}
	writeJSON(w, http.StatusOK, TagsResponse{Tags: tags})
}
