package api

import (
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/listing"
)

// SearchResponse is the JSON form of one listing search.
type SearchResponse[E any] struct {
	Query   string `json:"query"`
	Summary string `json:"summary"`
	Results []E    `json:"results"`
}

// ResourceSearchResponse wraps resource search hits.
type ResourceSearchResponse = SearchResponse[listing.Resource]

// TILSearchResponse wraps TIL search hits.
type TILSearchResponse = SearchResponse[listing.TILEntry]

// FacetsResponse lists the resource categories and types.
type FacetsResponse = content.Facets

// TagsResponse lists TIL tags by use.
type TagsResponse struct {
	Tags []content.TagCount `json:"tags"`
}
