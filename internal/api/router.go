// Package api serves the listing pages and the JSON search API using chi.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates the JSON API router mounted under /api.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(h *Handler, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/resources", h.SearchResources)
	r.Get("/resources/facets", h.Facets)
	r.Get("/til", h.SearchTIL)
	r.Get("/til/tags", h.Tags)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}

// MountPages registers the listing page routes on r.
func MountPages(r chi.Router, h *Handler) {
	r.Get("/resources", h.RedirectResources)
	r.Get("/resources/all/{page}", h.ResourcesPage)
	r.Get("/resources/category/{category}/{page}", h.ResourcesPage)
	r.Get("/resources/type/{type}/{page}", h.ResourcesPage)
	r.Get("/resources/category/{category}/type/{type}/{page}", h.ResourcesPage)

	r.Get("/til", h.RedirectTIL)
	r.Get("/til/all/{page}", h.TILPage)
	r.Get("/til/{tag}/{page}", h.TILPage)
}
