package pages

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/listing"
	"github.com/starford/folio/internal/routing"
)

func resources(n int) []listing.Resource {
	out := make([]listing.Resource, 0, n)
	for i := range n {
		out = append(out, listing.Resource{
			ID:         fmt.Sprintf("r%02d", i),
			Title:      fmt.Sprintf("Resource %02d", i),
			Summary:    "notes",
			Categories: []string{"Design"},
			Types:      []string{"Article"},
			Href:       fmt.Sprintf("/resources/resource-%02d", i),
		})
	}
	return out
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		total, page, size int
		want              Pagination
		wantErr           bool
	}{
		{0, 1, 12, Pagination{Page: 1, TotalPages: 1}, false},
		{25, 1, 12, Pagination{Page: 1, TotalPages: 3, Start: 0, End: 12}, false},
		{25, 3, 12, Pagination{Page: 3, TotalPages: 3, Start: 24, End: 25}, false},
		{25, 4, 12, Pagination{}, true},
		{25, 0, 12, Pagination{}, true},
		{5, 1, 0, Pagination{Page: 1, TotalPages: 1, Start: 0, End: 5}, false},
	}
	for _, tc := range cases {
		got, err := Paginate(tc.total, tc.page, tc.size)
		if tc.wantErr {
			if !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("Paginate(%d,%d,%d) err = %v, want ErrNotFound", tc.total, tc.page, tc.size, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("Paginate(%d,%d,%d) = %+v, %v; want %+v", tc.total, tc.page, tc.size, got, err, tc.want)
		}
	}
}

func TestRenderResources_Default(t *testing.T) {
	var b strings.Builder
	state, err := RenderResources(&b, ResourcesPage{
		Route:    routing.ResourceRoute{Page: 1},
		Entries:  resources(3),
		Facets:   content.Facets{Categories: []string{"Design"}, Types: []string{"Article"}},
		PageSize: 2,
	})
	if err != nil {
		t.Fatalf("RenderResources: %v", err)
	}
	if state.View != listing.ViewDefault {
		t.Errorf("view = %v, want default", state.View)
	}
	out := b.String()
	if strings.Count(out, `class="resource-card`) != 2 {
		t.Errorf("want 2 cards on page 1:\n%s", out)
	}
	if !strings.Contains(out, `href="/resources/all/2"`) {
		t.Errorf("missing next page link:\n%s", out)
	}
	if !strings.Contains(out, `href="/resources/category/Design/1"`) {
		t.Errorf("missing category link:\n%s", out)
	}
	// The dataset carries the whole filtered set, not only the page slice.
	if !strings.Contains(out, `"id":"r02"`) {
		t.Errorf("dataset should include entries beyond the page:\n%s", out)
	}
}

func TestRenderResources_Search(t *testing.T) {
	entries := resources(3)
	entries[1].Title = "Color Theory"

	var b strings.Builder
	state, err := RenderResources(&b, ResourcesPage{
		Route:    routing.ResourceRoute{Page: 1},
		Entries:  entries,
		PageSize: 12,
		RawQuery: "search=color",
	})
	if err != nil {
		t.Fatalf("RenderResources: %v", err)
	}
	if state.View != listing.ViewResults || state.Hits != 1 || state.Query != "color" {
		t.Errorf("state = %+v", state)
	}
	out := b.String()
	if !strings.Contains(out, `Showing 1 result for &#34;color&#34;`) {
		t.Errorf("missing summary:\n%s", out)
	}
	if !strings.Contains(out, `value="color"`) {
		t.Errorf("search box should keep the term:\n%s", out)
	}
}

func TestRenderResources_PageOutOfRange(t *testing.T) {
	var b strings.Builder
	_, err := RenderResources(&b, ResourcesPage{Route: routing.ResourceRoute{Page: 2}, Entries: resources(3)})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if b.Len() != 0 {
		t.Error("nothing should be written for a missing page")
	}
}

func TestRenderResources_EmptyDataset(t *testing.T) {
	var b strings.Builder
	state, err := RenderResources(&b, ResourcesPage{Route: routing.ResourceRoute{Page: 1}, RawQuery: "search=x"})
	if err != nil {
		t.Fatalf("RenderResources: %v", err)
	}
	if state.View != listing.ViewResults || state.Hits != 0 {
		t.Errorf("state = %+v", state)
	}
	if !strings.Contains(b.String(), "No search results found") {
		t.Errorf("missing empty state:\n%s", b.String())
	}
}

func TestRenderTIL(t *testing.T) {
	entries := []listing.TILEntry{
		{ID: "go/errors", Slug: "go/errors", Title: "Wrapping errors", Description: "Use %w", Tags: []string{"Go"}, Date: "2024-03-01"},
		{ID: "css/grid", Slug: "css/grid", Title: "Grid areas", Tags: []string{"CSS"}, Date: "2024-02-01"},
	}

	var b strings.Builder
	state, err := RenderTIL(&b, TILPage{
		Route:    routing.TILRoute{Page: 1, View: routing.ViewKanban},
		Entries:  entries,
		Tags:     content.TagCounts(entries),
		RawQuery: "search=grid&view=kanban",
	})
	if err != nil {
		t.Fatalf("RenderTIL: %v", err)
	}
	if state.View != listing.ViewResults || state.Hits != 1 {
		t.Errorf("state = %+v", state)
	}
	out := b.String()
	if !strings.Contains(out, `data-til-view="kanban"`) {
		t.Errorf("missing view mode:\n%s", out)
	}
	if !strings.Contains(out, `href="/til/go/1"`) {
		t.Errorf("missing tag link:\n%s", out)
	}
	if !strings.Contains(out, `data-til-entry-id="css/grid"`) {
		t.Errorf("missing result card:\n%s", out)
	}
}

func TestRenderTIL_UnknownViewFallsBackToFeed(t *testing.T) {
	var b strings.Builder
	if _, err := RenderTIL(&b, TILPage{Route: routing.TILRoute{Page: 1, View: "grid"}}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `data-til-view="feed"`) {
		t.Errorf("want feed view:\n%s", b.String())
	}
}
