package listing

import (
	"regexp"
	"strings"
	"time"

	"github.com/starford/folio/internal/routing"
)

// descriptionLimit is the rune count after which descriptions are cut.
const descriptionLimit = 150

// TILEntry is one entry of the TIL listing dataset.
type TILEntry struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Date        string   `json:"date"`
}

// TIL is the Searchable for the today-I-learned listing.
type TIL struct{}

var tilMarkers = KindMarkers("til")

// Markers implements Searchable.
func (TIL) Markers() Markers { return tilMarkers }

// Decode implements Searchable. Entries without id, slug or title are dropped.
func (TIL) Decode(raw []byte) []TILEntry {
	records := decodeRecords(raw)
	out := make([]TILEntry, 0, len(records))
	for _, r := range records {
		e := TILEntry{
			ID:          text(r["id"]),
			Slug:        text(r["slug"]),
			Title:       text(r["title"]),
			Description: text(r["description"]),
			Tags:        textList(r["tags"]),
			Date:        text(r["date"]),
		}
		if e.ID == "" || e.Slug == "" || e.Title == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Matches implements Searchable over title, description and tags.
func (TIL) Matches(e TILEntry, needle string) bool {
	return containsFold(e.Title, needle) ||
		containsFold(e.Description, needle) ||
		anyContainsFold(e.Tags, needle)
}

// Render implements Searchable.
func (TIL) Render(e TILEntry) string {
	var b strings.Builder
	b.WriteString(`<article class="til-card" data-til-entry-id="` + EscapeHTML(e.ID) + `">`)
	b.WriteString(`<div class="flex h-full flex-col rounded-lg border border-border bg-card p-6 transition-all duration-300 hover:shadow-md">`)
	b.WriteString(`<div class="mb-2 flex items-start justify-between"><span class="text-sm text-muted-foreground">` + EscapeHTML(FormatDate(e.Date)) + `</span></div>`)
	b.WriteString(`<h3 class="mb-2 text-xl font-bold text-foreground transition-colors hover:text-primary">`)
	b.WriteString(`<a href="` + EscapeHTML(routing.TILEntryPath(e.Slug)) + `">` + EscapeHTML(e.Title) + `</a></h3>`)
	b.WriteString(`<p class="mb-4 grow text-muted-foreground">` + EscapeHTML(Truncate(e.Description, descriptionLimit)) + `</p>`)
	b.WriteString(`<div class="mt-auto flex flex-wrap gap-2">`)
	for _, tag := range e.Tags {
		b.WriteString(`<a href="/til/` + EscapeHTML(TagSlug(tag)) + `/1" class="relative z-10 rounded-md bg-primary/10 px-2 py-1 text-xs font-medium text-primary transition-colors hover:bg-primary/20">#` + EscapeHTML(tag) + `</a>`)
	}
	b.WriteString(`</div></div></article>`)
	return b.String()
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// TagSlug lowercases tag and replaces whitespace runs with "-".
func TagSlug(tag string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(tag), "-")
}

// Truncate cuts s to limit runes and appends "..." when it was longer.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders an ISO date as "Jan 2, 2006". Unparsable values are
// returned unchanged.
func FormatDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return value
}
