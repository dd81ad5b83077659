// Package pages builds the resources and TIL listing pages with their inline
// dataset and applies the search to them before they are served.
package pages

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/listing"
	"github.com/starford/folio/internal/routing"
	"golang.org/x/net/html"
)

// DefaultPageSize is the number of cards on one listing page.
const DefaultPageSize = 12

// Pagination describes one slice of a listing.
type Pagination struct {
	Page       int
	TotalPages int
	Start, End int
}

// Paginate returns the bounds of page within total items. Page 1 of an
// empty listing is valid; any other page outside the range is ErrNotFound.
func Paginate(total, page, size int) (Pagination, error) {
	if size < 1 {
		size = DefaultPageSize
	}
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 || page > pages {
		return Pagination{}, fmt.Errorf("pages: page %d of %d: %w", page, pages, apperr.ErrNotFound)
	}
	start := (page - 1) * size
	end := min(start+size, total)
	return Pagination{Page: page, TotalPages: pages, Start: start, End: end}, nil
}

// ResourcesPage is the input of a resources listing page.
type ResourcesPage struct {
	Route    routing.ResourceRoute
	Entries  []listing.Resource // filtered by the route's category and type
	Facets   content.Facets
	PageSize int
	RawQuery string
}

// TILPage is the input of a TIL listing page.
type TILPage struct {
	Route    routing.TILRoute
	Entries  []listing.TILEntry // filtered by the route's tag
	Tags     []content.TagCount
	PageSize int
	RawQuery string
}

// RenderResources writes the resources listing page to w.
func RenderResources(w io.Writer, p ResourcesPage) (listing.State, error) {
	pg, err := Paginate(len(p.Entries), p.Route.Page, p.PageSize)
	if err != nil {
		return listing.State{}, err
	}

	heading := "Resources"
	switch {
	case p.Route.Category != "" && p.Route.Type != "":
		heading = p.Route.Category + " · " + p.Route.Type
	case p.Route.Category != "":
		heading = p.Route.Category
	case p.Route.Type != "":
		heading = p.Route.Type
	}

	var cards strings.Builder
	for _, e := range p.Entries[pg.Start:pg.End] {
		cards.WriteString(listing.Resources{}.Render(e))
	}

	var nav strings.Builder
	nav.WriteString(`<nav class="mb-6 flex flex-wrap gap-2" aria-label="Categories">`)
	nav.WriteString(link(routing.ResourcesPath(routing.ResourceRoute{}), "All"))
	for _, c := range p.Facets.Categories {
		nav.WriteString(link(routing.ResourcesPath(routing.ResourceRoute{Category: c}), c))
	}
	nav.WriteString(`</nav>`)

	pager := pagerMarkup(pg, func(n int) string {
		r := p.Route
		r.Page = n
		return routing.ResourcesURL(r, listing.QueryTerm(p.RawQuery))
	})

	doc, err := build(layout{
		kind:     "resources",
		title:    heading,
		action:   routing.ResourcesPath(p.Route),
		query:    listing.QueryTerm(p.RawQuery),
		nav:      nav.String(),
		cards:    cards.String(),
		pager:    pager,
		entries:  p.Entries,
		viewAttr: "",
	})
	if err != nil {
		return listing.State{}, err
	}
	return apply[listing.Resource](w, doc, p.RawQuery, listing.Resources{})
}

// RenderTIL writes the TIL listing page to w.
func RenderTIL(w io.Writer, p TILPage) (listing.State, error) {
	pg, err := Paginate(len(p.Entries), p.Route.Page, p.PageSize)
	if err != nil {
		return listing.State{}, err
	}

	heading := "Today I Learned"
	if p.Route.Tag != "" {
		heading = "#" + p.Route.Tag
	}

	var cards strings.Builder
	for _, e := range p.Entries[pg.Start:pg.End] {
		cards.WriteString(listing.TIL{}.Render(e))
	}

	var nav strings.Builder
	nav.WriteString(`<nav class="mb-6 flex flex-wrap gap-2" aria-label="Tags">`)
	nav.WriteString(link(routing.TILPath(routing.TILRoute{}), "All"))
	for _, t := range p.Tags {
		nav.WriteString(link(routing.TILPath(routing.TILRoute{Tag: t.Slug}), "#"+t.Tag+" ("+strconv.Itoa(t.Count)+")"))
	}
	nav.WriteString(`</nav>`)

	pager := pagerMarkup(pg, func(n int) string {
		r := p.Route
		r.Page = n
		return routing.TILURL(r, listing.QueryTerm(p.RawQuery))
	})

	view := p.Route.View
	if view != routing.ViewKanban {
		view = routing.ViewFeed
	}

	doc, err := build(layout{
		kind:     "til",
		title:    heading,
		action:   routing.TILPath(p.Route),
		query:    listing.QueryTerm(p.RawQuery),
		nav:      nav.String(),
		cards:    cards.String(),
		pager:    pager,
		entries:  p.Entries,
		viewAttr: ` data-til-view="` + view + `"`,
	})
	if err != nil {
		return listing.State{}, err
	}
	return apply[listing.TILEntry](w, doc, p.RawQuery, listing.TIL{})
}

type layout struct {
	kind     string
	title    string
	action   string
	query    string
	nav      string
	cards    string
	pager    string
	entries  any
	viewAttr string
}

func build(l layout) (*html.Node, error) {
	// json.Marshal escapes <, > and & so the payload cannot end its script.
	dataset, err := json.Marshal(l.entries)
	if err != nil {
		return nil, fmt.Errorf("pages: encode dataset: %w", err)
	}
	if string(dataset) == "null" {
		dataset = []byte("[]")
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.WriteString(`<title>` + listing.EscapeHTML(l.title) + `</title></head><body>`)
	b.WriteString(`<main class="mx-auto max-w-6xl px-4 py-12" data-` + l.kind + `-page` + l.viewAttr + `>`)
	b.WriteString(`<header class="mb-8"><h1 class="text-3xl font-bold">` + listing.EscapeHTML(l.title))
	b.WriteString(`<span data-search-query-display class="hidden"></span></h1>`)
	b.WriteString(`<p data-search-summary class="mt-2 text-sm text-muted-foreground hidden"></p>`)
	b.WriteString(`<form method="get" action="` + listing.EscapeHTML(l.action) + `" class="mt-4" role="search">`)
	b.WriteString(`<input type="search" name="` + routing.SearchParam + `" value="` + listing.EscapeHTML(l.query) + `" placeholder="Search" class="w-full rounded-md border border-border px-3 py-2">`)
	b.WriteString(`</form></header>`)
	b.WriteString(l.nav)
	b.WriteString(`<div data-` + l.kind + `-default-content>`)
	if l.cards == "" {
		b.WriteString(`<p class="py-12 text-center text-muted-foreground">Nothing here yet.</p>`)
	} else {
		b.WriteString(`<div class="grid grid-cols-1 gap-6 md:grid-cols-2 lg:grid-cols-3">` + l.cards + `</div>`)
	}
	b.WriteString(l.pager)
	b.WriteString(`</div>`)
	b.WriteString(`<div data-` + l.kind + `-search-results class="hidden"></div>`)
	b.WriteString(`<script type="application/json" data-` + l.kind + `-dataset>`)
	b.Write(dataset)
	b.WriteString(`</script></main></body></html>`)

	doc, err := html.Parse(strings.NewReader(b.String()))
	if err != nil {
		return nil, fmt.Errorf("pages: parse page: %w", err)
	}
	return doc, nil
}

func apply[E any](w io.Writer, doc *html.Node, rawQuery string, l listing.Searchable[E]) (listing.State, error) {
	states := listing.ApplyAll(doc, rawQuery, l)
	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return listing.State{}, fmt.Errorf("pages: render: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return listing.State{}, err
	}
	if len(states) == 0 {
		return listing.State{View: listing.ViewIdle}, nil
	}
	return states[0], nil
}

func link(href, label string) string {
	return `<a href="` + listing.EscapeHTML(href) + `" class="rounded-md bg-muted px-3 py-1 text-sm hover:bg-primary/10">` + listing.EscapeHTML(label) + `</a>`
}

func pagerMarkup(pg Pagination, url func(int) string) string {
	if pg.TotalPages <= 1 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<nav class="mt-8 flex items-center justify-center gap-4" aria-label="Pagination">`)
	if pg.Page > 1 {
		b.WriteString(`<a rel="prev" href="` + listing.EscapeHTML(url(pg.Page-1)) + `">← Previous</a>`)
	}
	b.WriteString(`<span class="text-sm text-muted-foreground">Page ` + strconv.Itoa(pg.Page) + ` of ` + strconv.Itoa(pg.TotalPages) + `</span>`)
	if pg.Page < pg.TotalPages {
		b.WriteString(`<a rel="next" href="` + listing.EscapeHTML(url(pg.Page+1)) + `">Next →</a>`)
	}
	b.WriteString(`</nav>`)
	return b.String()
}
