package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/starford/folio/internal/listing"
)

type fakeContent struct {
	resources []listing.Resource
	til       []listing.TILEntry
}

func (f *fakeContent) Resources() []listing.Resource { return f.resources }
func (f *fakeContent) TIL() []listing.TILEntry { return f.til }

func sampleContent() *fakeContent {
	return &fakeContent{
		resources: []listing.Resource{
			{ID: "a", Title: "Color Theory", Summary: "Hue and tone", Categories: []string{"Design"}, Types: []string{"Article"}, Href: "/resources/color-theory-a"},
			{ID: "b", Title: "Go Concurrency", Summary: "Channels", Categories: []string{"Engineering"}, Types: []string{"Video"}, Href: "/resources/go-concurrency-b"},
			{ID: "c", Title: "Sketching", Categories: []string{"UI/UX"}, Types: []string{"Course"}, Href: "/resources/sketching-c"},
		},
		til: []listing.TILEntry{
			{ID: "go/errors", Slug: "go/errors", Title: "Wrapping errors", Description: "Use %w", Tags: []string{"Go"}, Date: "2024-03-01"},
			{ID: "css/grid", Slug: "css/grid", Title: "Grid areas", Tags: []string{"CSS", "Layout"}, Date: "2024-02-01"},
		},
	}
}

// testEnv builds the full router the server mounts: pages at the root and
// the JSON API under /api.
func testEnv(t *testing.T, opts ...HandlerOption) http.Handler {
	t.Helper()
	h := NewHandler(sampleContent(), opts...)
	r := chi.NewRouter()
	MountPages(r, h)
	r.Mount("/api", NewRouter(h, nil))
	return r
}

func do(t *testing.T, router http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, vs := range header {
		req.Header[k] = vs
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRedirects(t *testing.T) {
	router := testEnv(t)
	cases := []struct {
		target string
		want   string
	}{
		{"/resources", "/resources/all/1"},
		{"/resources?search=foo", "/resources/all/1?search=foo"},
		{"/resources?search=%20%20", "/resources/all/1"},
		{"/til?search=grid", "/til/all/1?search=grid"},
		{"/til?view=kanban", "/til/all/1?view=kanban"},
		{"/til?view=bogus", "/til/all/1"},
	}
	for _, tc := range cases {
		w := do(t, router, http.MethodGet, tc.target, nil)
		if w.Code != http.StatusFound {
			t.Errorf("%s: status = %d", tc.target, w.Code)
			continue
		}
		if got := w.Header().Get("Location"); got != tc.want {
			t.Errorf("%s: Location = %q, want %q", tc.target, got, tc.want)
		}
	}
}

func TestRedirectThenSearch(t *testing.T) {
	router := testEnv(t)

	w := do(t, router, http.MethodGet, "/resources?search=color", nil)
	loc := w.Header().Get("Location")
	if loc != "/resources/all/1?search=color" {
		t.Fatalf("Location = %q", loc)
	}

	w = do(t, router, http.MethodGet, loc, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `Showing 1 result for &#34;color&#34;`) {
		t.Errorf("missing summary:\n%s", body)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("content type = %q", w.Header().Get("Content-Type"))
	}
}

func TestResourcesPage(t *testing.T) {
	router := testEnv(t)
	cases := []struct {
		target string
		status int
		cards  int
	}{
		{"/resources/all/1", http.StatusOK, 3},
		{"/resources/category/Design/1", http.StatusOK, 1},
		{"/resources/category/design/1", http.StatusOK, 1},
		{"/resources/type/Video/1", http.StatusOK, 1},
		{"/resources/category/Design/type/Article/1", http.StatusOK, 1},
		{"/resources/category/UI%2FUX/1", http.StatusOK, 1},
		{"/resources/category/Design/type/Video/1", http.StatusNotFound, 0},
		{"/resources/category/Nope/1", http.StatusNotFound, 0},
		{"/resources/all/2", http.StatusNotFound, 0},
		{"/resources/all/0", http.StatusNotFound, 0},
		{"/resources/all/first", http.StatusNotFound, 0},
	}
	for _, tc := range cases {
		w := do(t, router, http.MethodGet, tc.target, nil)
		if w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.target, w.Code, tc.status)
			continue
		}
		if tc.status != http.StatusOK {
			continue
		}
		if got := strings.Count(w.Body.String(), `class="resource-card`); got != tc.cards {
			t.Errorf("%s: cards = %d, want %d", tc.target, got, tc.cards)
		}
	}
}

func TestResourcesPage_Paginates(t *testing.T) {
	router := testEnv(t, WithPageSize(2))

	w := do(t, router, http.MethodGet, "/resources/all/2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := strings.Count(w.Body.String(), `class="resource-card`); got != 1 {
		t.Errorf("cards on page 2 = %d, want 1", got)
	}
	if !strings.Contains(w.Body.String(), `href="/resources/all/1"`) {
		t.Error("missing previous page link")
	}
}

func TestTILPage(t *testing.T) {
	router := testEnv(t)

	w := do(t, router, http.MethodGet, "/til/all/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := strings.Count(w.Body.String(), `class="til-card"`); got != 2 {
		t.Errorf("cards = %d, want 2", got)
	}

	w = do(t, router, http.MethodGet, "/til/layout/1?view=kanban", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tag status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `data-til-entry-id="css/grid"`) || strings.Contains(body, `data-til-entry-id="go/errors"`) {
		t.Errorf("tag page should only list css/grid:\n%s", body)
	}
	if !strings.Contains(body, `data-til-view="kanban"`) {
		t.Error("missing kanban view")
	}

	w = do(t, router, http.MethodGet, "/til/rust/1", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown tag status = %d, want 404", w.Code)
	}
}

func TestSearchResourcesAPI(t *testing.T) {
	router := testEnv(t)

	w := do(t, router, http.MethodGet, "/api/resources?search=%20DESIGN%20", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp ResourceSearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Query != "DESIGN" || resp.Summary != `Showing 1 result for "DESIGN"` {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != "a" {
		t.Errorf("results = %+v", resp.Results)
	}

	w = do(t, router, http.MethodGet, "/api/resources", nil)
	resp = ResourceSearchResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Query != "" || resp.Summary != "" || len(resp.Results) != 3 {
		t.Errorf("empty search should return everything: %+v", resp)
	}

	w = do(t, router, http.MethodGet, "/api/resources?type=video&search=go", nil)
	resp = ResourceSearchResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 || resp.Results[0].ID != "b" {
		t.Errorf("type filtered results = %+v", resp.Results)
	}
}

func TestSearchTILAPI(t *testing.T) {
	router := testEnv(t)

	w := do(t, router, http.MethodGet, "/api/til?search=zzz", nil)
	if !strings.Contains(w.Body.String(), `"results":[]`) {
		t.Errorf("no hits should encode an empty list: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"summary":"Showing 0 results for \"zzz\""`) {
		t.Errorf("summary: %s", w.Body.String())
	}

	w = do(t, router, http.MethodGet, "/api/til?tag=go", nil)
	var resp TILSearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Slug != "go/errors" {
		t.Errorf("tag results = %+v", resp.Results)
	}
}

func TestFacetsAndTags(t *testing.T) {
	router := testEnv(t)

	w := do(t, router, http.MethodGet, "/api/resources/facets", nil)
	var facets FacetsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &facets); err != nil {
		t.Fatal(err)
	}
	if strings.Join(facets.Categories, ",") != "Design,Engineering,UI/UX" {
		t.Errorf("categories = %v", facets.Categories)
	}

	w = do(t, router, http.MethodGet, "/api/til/tags", nil)
	var tags TagsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &tags); err != nil {
		t.Fatal(err)
	}
	if len(tags.Tags) != 3 || tags.Tags[0].Slug != "css" {
		t.Errorf("tags = %+v", tags.Tags)
	}
}
