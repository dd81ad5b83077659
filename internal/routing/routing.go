// Package routing builds listing URLs and resource slugs.
package routing

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// SearchParam is the reserved query parameter for the search term.
const SearchParam = "search"

// TIL view modes.
const (
	ViewFeed   = "feed"
	ViewKanban = "kanban"
)

// ResourceRoute selects a resources listing page.
type ResourceRoute struct {
	Category string
	Type     string
	Page     int
}

// TILRoute selects a TIL listing page.
type TILRoute struct {
	Tag  string
	Page int
	View string
}

// ResourcesPath returns the path of the resources listing page for r.
func ResourcesPath(r ResourceRoute) string {
	page := pageNumber(r.Page)
	switch {
	case r.Category != "" && r.Type != "":
		return "/resources/category/" + EncodeComponent(r.Category) + "/type/" + EncodeComponent(r.Type) + "/" + page
	case r.Category != "":
		return "/resources/category/" + EncodeComponent(r.Category) + "/" + page
	case r.Type != "":
		return "/resources/type/" + EncodeComponent(r.Type) + "/" + page
	}
	return "/resources/all/" + page
}

// ResourcesURL returns ResourcesPath plus the search query, if any.
func ResourcesURL(r ResourceRoute, search string) string {
	return ResourcesPath(r) + toQuery(search, nil)
}

// TILPath returns the path of the TIL listing page for r.
func TILPath(r TILRoute) string {
	page := pageNumber(r.Page)
	if r.Tag != "" {
		return "/til/" + EncodeComponent(r.Tag) + "/" + page
	}
	return "/til/all/" + page
}

// TILURL returns TILPath plus the search and view query, if any. Unknown
// view values are ignored.
func TILURL(r TILRoute, search string) string {
	var extra url.Values
	if r.View == ViewFeed || r.View == ViewKanban {
		extra = url.Values{"view": {r.View}}
	}
	return TILPath(r) + toQuery(search, extra)
}

func toQuery(search string, extra url.Values) string {
	params := url.Values{}
	if s := strings.TrimSpace(search); s != "" {
		params.Set(SearchParam, s)
	}
	for k, vs := range extra {
		if len(vs) > 0 && strings.TrimSpace(vs[0]) != "" {
			params.Set(k, vs[0])
		}
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

func pageNumber(p int) string {
	if p < 1 {
		p = 1
	}
	return strconv.Itoa(p)
}

var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent escapes s for use as one path segment the way browsers'
// encodeURIComponent does.
func EncodeComponent(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}

// Slugify lowercases s and collapses every run of characters that are not
// letters or digits into a single "-", trimmed from both ends.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

// ResourceSlug is the canonical slug of a resource: the slugified title, or
// "resource" when that is empty, followed by the first eight characters of
// the id without dashes.
func ResourceSlug(title, id string) string {
	base := Slugify(title)
	if base == "" {
		base = "resource"
	}
	short := strings.ToLower(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return base + "-" + short
}

// ResourcePath is the detail page path of a resource slug.
func ResourcePath(slug string) string {
	return "/resources/" + slug
}

// TILEntryPath is the detail page path of a TIL slug.
func TILEntryPath(slug string) string {
	return "/til/" + slug
}
