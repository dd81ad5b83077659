package content

import (
	"cmp"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/starford/folio/internal/listing"
	"github.com/starford/folio/internal/parser"
	"github.com/starford/folio/internal/storage"
)

// LoadTIL parses every Markdown note under dir into a TIL entry. Drafts and
// untitled notes are skipped; a note that fails to read is logged and
// skipped. Entries are ordered newest first, then by slug.
func LoadTIL(store storage.Provider, dir string, logger *slog.Logger) ([]listing.TILEntry, error) {
	files, err := store.List(dir, ".md")
	if err != nil {
		return nil, fmt.Errorf("content: list til: %w", err)
	}

	out := make([]listing.TILEntry, 0, len(files))
	for _, f := range files {
		data, err := store.Read(f.Path)
		if err != nil {
			logger.Warn("content: read til note failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			continue
		}
		r, err := parser.Parse(data)
		if err != nil {
			logger.Warn("content: parse til note failed", slog.String("path", f.Path), slog.String("error", err.Error()))
			continue
		}
		if r.Draft || r.Title == "" {
			continue
		}
		slug := tilSlug(dir, f.Path)
		out = append(out, listing.TILEntry{
			ID:          slug,
			Slug:        slug,
			Title:       r.Title,
			Description: r.Description,
			Tags:        r.Tags,
			Date:        r.Date,
		})
	}

	slices.SortStableFunc(out, func(a, b listing.TILEntry) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return out, nil
}

// tilSlug is the note path relative to dir without the .md extension.
func tilSlug(dir, p string) string {
	rel := strings.TrimPrefix(p, path.Clean(dir)+"/")
	return strings.TrimSuffix(rel, ".md")
}

// FilterTIL returns the entries carrying a tag whose slug is tagSlug. An
// empty tagSlug matches everything.
func FilterTIL(entries []listing.TILEntry, tagSlug string) []listing.TILEntry {
	if tagSlug == "" {
		return entries
	}
	want := strings.ToLower(tagSlug)
	out := make([]listing.TILEntry, 0, len(entries))
	for _, e := range entries {
		for _, t := range e.Tags {
			if listing.TagSlug(t) == want {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// TagCount is one tag and the number of entries carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// TagCounts tallies tags by slug, most used first, then by slug. The first
// spelling seen is the display tag.
func TagCounts(entries []listing.TILEntry) []TagCount {
	idx := map[string]int{}
	var out []TagCount
	for _, e := range entries {
		for _, t := range e.Tags {
			slug := listing.TagSlug(t)
			if i, ok := idx[slug]; ok {
				out[i].Count++
				continue
			}
			idx[slug] = len(out)
			out = append(out, TagCount{Tag: t, Slug: slug, Count: 1})
		}
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
	return out
}
