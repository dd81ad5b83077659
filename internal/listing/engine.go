// Package listing filters an inline listing dataset by the search URL
// parameter and renders the matching cards into a parsed HTML page.
//
// A listing page carries named regions: the serialized dataset, a results
// container, a default content container, and optionally a query display and
// a result summary. Apply reads those regions, never the network, and can be
// re-run on the same tree with the same result.
package listing

import (
	"fmt"
	"strings"

	"github.com/starford/folio/internal/routing"
	"golang.org/x/net/html"
)

const (
	emptyState = `<div class="py-12 text-center"><h2 class="mb-2 text-xl font-semibold text-muted-foreground">No search results found</h2><p class="text-muted-foreground">Try a different search term.</p></div>`
	gridOpen   = `<div class="grid grid-cols-1 gap-6 md:grid-cols-2 lg:grid-cols-3">`
	gridClose  = `</div>`
)

// Markers are the CSS selectors locating each region of a listing.
type Markers struct {
	Page         string
	Dataset      string
	Results      string
	Default      string
	QueryDisplay string
	Summary      string
}

// KindMarkers returns the data-attribute markers for a listing kind such as
// "resources" or "til".
func KindMarkers(kind string) Markers {
	return Markers{
		Page:         "[data-" + kind + "-page]",
		Dataset:      "[data-" + kind + "-dataset]",
		Results:      "[data-" + kind + "-search-results]",
		Default:      "[data-" + kind + "-default-content]",
		QueryDisplay: "[data-search-query-display]",
		Summary:      "[data-search-summary]",
	}
}

// Searchable is the capability set of one listing type.
type Searchable[E any] interface {
	Markers() Markers
	// Decode parses the inline dataset, dropping malformed entries.
	// Malformed JSON yields no entries.
	Decode(raw []byte) []E
	// Matches reports whether any searchable field of e contains needle.
	// needle is already lowercased.
	Matches(e E, needle string) bool
	// Render returns the card markup of e with all text escaped.
	Render(e E) string
}

// View is what a listing region shows after Apply.
type View int

const (
	// ViewIdle means the root is not a search-enabled listing.
	ViewIdle View = iota
	ViewDefault
	ViewResults
)

func (v View) String() string {
	switch v {
	case ViewDefault:
		return "default"
	case ViewResults:
		return "results"
	default:
		return "idle"
	}
}

// State is the outcome of applying a search to one listing region.
type State struct {
	View  View
	Query string
	Hits  int
}

// QueryTerm extracts the trimmed search term from a raw URL query string.
func QueryTerm(rawQuery string) string {
	return strings.TrimSpace(routing.QueryValue(rawQuery, routing.SearchParam))
}

// Filter returns the entries matching term, in dataset order.
func Filter[E any](entries []E, term string, l Searchable[E]) []E {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]E, 0, len(entries))
	for _, e := range entries {
		if l.Matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

// Summary is the result count line shown above the results.
func Summary(n int, term string) string {
	noun := "results"
	if n == 1 {
		noun = "result"
	}
	return fmt.Sprintf(`Showing %d %s for "%s"`, n, noun, term)
}

// QueryDisplay is the text appended to the listing heading.
func QueryDisplay(term string) string {
	return `: "` + term + `"`
}

// RenderResults returns the results markup: a card grid, or the empty state.
func RenderResults[E any](matches []E, l Searchable[E]) string {
	if len(matches) == 0 {
		return emptyState
	}
	var b strings.Builder
	b.WriteString(gridOpen)
	for _, e := range matches {
		b.WriteString(l.Render(e))
	}
	b.WriteString(gridClose)
	return b.String()
}

// Apply runs the search for rawQuery against the listing under root.
// Missing dataset or container regions leave the tree untouched.
func Apply[E any](root *html.Node, rawQuery string, l Searchable[E]) State {
	m := l.Markers()
	dataset := query(root, m.Dataset)
	results := query(root, m.Results)
	defaults := query(root, m.Default)
	if dataset == nil || results == nil || defaults == nil {
		return State{View: ViewIdle}
	}
	display := query(root, m.QueryDisplay)
	summary := query(root, m.Summary)

	term := QueryTerm(rawQuery)
	if term == "" {
		show(defaults)
		hide(results)
		if display != nil {
			setText(display, "")
			hide(display)
		}
		if summary != nil {
			hide(summary)
		}
		return State{View: ViewDefault}
	}

	raw := strings.TrimSpace(TextContent(dataset))
	if raw == "" {
		raw = "[]"
	}
	matches := Filter(l.Decode([]byte(raw)), term, l)

	hide(defaults)
	show(results)
	if display != nil {
		setText(display, QueryDisplay(term))
		show(display)
	}
	if summary != nil {
		setText(summary, Summary(len(matches), term))
		show(summary)
	}

	// Card markup is built from escaped text only, so parsing cannot fail
	// short of a reader error.
	_ = setInnerHTML(results, RenderResults(matches, l))

	return State{View: ViewResults, Query: term, Hits: len(matches)}
}

// ApplyAll applies the search to every listing page region in doc.
func ApplyAll[E any](doc *html.Node, rawQuery string, l Searchable[E]) []State {
	pages := queryAll(doc, l.Markers().Page)
	states := make([]State, 0, len(pages))
	for _, p := range pages {
		states = append(states, Apply(p, rawQuery, l))
	}
	return states
}
