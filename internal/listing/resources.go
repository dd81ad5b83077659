package listing

import "strings"

// Resource is one entry of the resources listing dataset.
type Resource struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Categories []string `json:"categories"`
	Types      []string `json:"types"`
	Href       string   `json:"href"`
	Source     string   `json:"source,omitempty"`
}

// Resources is the Searchable for the resources listing.
type Resources struct{}

var resourceMarkers = KindMarkers("resources")

// Markers implements Searchable.
func (Resources) Markers() Markers { return resourceMarkers }

// Decode implements Searchable. Entries without id, title or href are dropped.
func (Resources) Decode(raw []byte) []Resource {
	records := decodeRecords(raw)
	out := make([]Resource, 0, len(records))
	for _, r := range records {
		e := Resource{
			ID:         text(r["id"]),
			Title:      text(r["title"]),
			Summary:    text(r["summary"]),
			Categories: textListOrSingle(r["categories"]),
			Types:      textListOrSingle(r["types"]),
			Href:       text(r["href"]),
		}
		if s, ok := r["source"].(string); ok {
			e.Source = s
		}
		if e.ID == "" || e.Title == "" || e.Href == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Matches implements Searchable over title, summary, categories and types.
func (Resources) Matches(e Resource, needle string) bool {
	return containsFold(e.Title, needle) ||
		containsFold(e.Summary, needle) ||
		anyContainsFold(e.Categories, needle) ||
		anyContainsFold(e.Types, needle)
}

// Render implements Searchable.
func (Resources) Render(e Resource) string {
	category := first(e.Categories)
	typ := first(e.Types)

	var b strings.Builder
	b.WriteString(`<article class="resource-card group rounded-lg border border-border bg-card p-6 shadow-sm transition-all hover:shadow-lg">`)
	b.WriteString(`<div class="mb-3"><h3 class="mb-2 text-lg font-semibold leading-tight">`)
	b.WriteString(`<a href="` + EscapeHTML(e.Href) + `" class="text-card-foreground transition-colors hover:text-primary group-hover:underline">` + EscapeHTML(e.Title) + `</a>`)
	b.WriteString(`</h3>`)
	if e.Summary != "" {
		b.WriteString(`<p class="line-clamp-3 text-sm leading-relaxed text-muted-foreground">` + EscapeHTML(e.Summary) + `</p>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="mb-3 flex flex-wrap gap-2">`)
	if category != "" {
		b.WriteString(`<span class="rounded-full bg-primary/10 px-3 py-1 text-xs font-medium text-primary">` + EscapeHTML(category) + `</span>`)
	}
	if typ != "" {
		b.WriteString(`<span class="rounded-full bg-muted px-3 py-1 text-xs font-medium text-muted-foreground">` + EscapeHTML(typ) + `</span>`)
	}
	b.WriteString(`</div>`)

	b.WriteString(`<div class="flex items-center justify-between"><div class="text-xs text-muted-foreground">`)
	if line := facetLine(typ, category); line != "" {
		b.WriteString(`<span>` + line + `</span>`)
	}
	b.WriteString(`</div>`)
	if e.Source != "" {
		b.WriteString(`<a href="` + EscapeHTML(e.Source) + `" target="_blank" rel="noopener noreferrer" class="text-xs font-medium text-primary transition-colors hover:text-accent">View Source →</a>`)
	}
	b.WriteString(`</div></article>`)
	return b.String()
}

// facetLine returns the escaped "Type: … · Category: …" line.
func facetLine(typ, category string) string {
	switch {
	case typ != "" && category != "":
		return "Type: " + EscapeHTML(typ) + " · Category: " + EscapeHTML(category)
	case typ != "":
		return "Type: " + EscapeHTML(typ)
	case category != "":
		return "Category: " + EscapeHTML(category)
	}
	return ""
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}
