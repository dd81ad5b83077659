// Package content loads the listing datasets from the resources cache file
// and the TIL notes directory, and keeps them current while serving.
package content

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/starford/folio/internal/listing"
	"github.com/starford/folio/internal/normalize"
	"github.com/starford/folio/internal/routing"
)

// cachedEntry is the subset of a cache entry the listing needs.
type cachedEntry struct {
	ID   string `json:"id"`
	Data struct {
		Archived bool           `json:"archived"`
		InTrash  bool           `json:"in_trash"`
		Name     any            `json:"Name"`
		Summary  any            `json:"AI summary"`
		Category any            `json:"Category"`
		Type     any            `json:"Type"`
		Source   any            `json:"Source"`
		UserURL  any            `json:"User Defined URL"`
		Flat     map[string]any `json:"flat"`
	} `json:"data"`
}

// ParseResources projects the cache file body into listing resources, in
// file order. Archived, trashed and untitled entries are skipped.
func ParseResources(data []byte) ([]listing.Resource, error) {
	var entries []cachedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("content: decode resources cache: %w", err)
	}

	out := make([]listing.Resource, 0, len(entries))
	for i, e := range entries {
		d := e.Data
		if d.Archived || d.InTrash {
			continue
		}
		title := entryTitle(d.Name, d.Flat)
		if title == "" {
			continue
		}
		id := e.ID
		if id == "" {
			id = "cache-" + strconv.Itoa(i)
		}

		r := listing.Resource{
			ID:         id,
			Title:      title,
			Categories: stringList(d.Category),
			Types:      stringList(d.Type),
			Href:       routing.ResourcePath(routing.ResourceSlug(title, id)),
		}
		if s, ok := normalize.NonEmptyString(d.Summary); ok {
			r.Summary = strings.TrimSpace(s)
		}
		if u, ok := normalize.URLValue(d.Source); ok {
			r.Source = u
		} else if u, ok := normalize.URLValue(d.UserURL); ok {
			r.Source = u
		}
		out = append(out, r)
	}
	return out, nil
}

func entryTitle(name any, flat map[string]any) string {
	if s, ok := normalize.NonEmptyString(name); ok {
		return strings.TrimSpace(s)
	}
	if s, ok := normalize.NonEmptyString(flat[normalize.FieldName]); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func stringList(v any) []string {
	if items, ok := normalize.StringArray(v); ok {
		return items
	}
	return []string{}
}

// FilterResources returns the resources carrying category and typ. An empty
// criterion matches everything. Matching is case-insensitive.
func FilterResources(rs []listing.Resource, category, typ string) []listing.Resource {
	out := make([]listing.Resource, 0, len(rs))
	for _, r := range rs {
		if category != "" && !hasFold(r.Categories, category) {
			continue
		}
		if typ != "" && !hasFold(r.Types, typ) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Facets are the distinct categories and types across resources, sorted.
type Facets struct {
	Categories []string `json:"categories"`
	Types      []string `json:"types"`
}

// ResourceFacets collects the distinct categories and types of rs.
func ResourceFacets(rs []listing.Resource) Facets {
	cats := map[string]struct{}{}
	types := map[string]struct{}{}
	for _, r := range rs {
		for _, c := range r.Categories {
			cats[c] = struct{}{}
		}
		for _, t := range r.Types {
			types[t] = struct{}{}
		}
	}
	return Facets{Categories: sortedKeys(cats), Types: sortedKeys(types)}
}

func hasFold(items []string, want string) bool {
	for _, s := range items {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
