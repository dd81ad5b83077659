package routing

import "testing"

func TestResourcesURL(t *testing.T) {
	cases := []struct {
		route  ResourceRoute
		search string
		want   string
	}{
		{ResourceRoute{}, "", "/resources/all/1"},
		{ResourceRoute{Page: 3}, "  go  ", "/resources/all/3?search=go"},
		{ResourceRoute{Category: "Web Dev"}, "", "/resources/category/Web%20Dev/1"},
		{ResourceRoute{Type: "Video", Page: 2}, "", "/resources/type/Video/2"},
		{ResourceRoute{Category: "A&B", Type: "C/D", Page: 1}, "a b", "/resources/category/A%26B/type/C%2FD/1?search=a+b"},
		{ResourceRoute{Page: -4}, " ", "/resources/all/1"},
	}
	for _, tc := range cases {
		if got := ResourcesURL(tc.route, tc.search); got != tc.want {
			t.Errorf("ResourcesURL(%+v, %q) = %q, want %q", tc.route, tc.search, got, tc.want)
		}
	}
}

func TestTILURL(t *testing.T) {
	cases := []struct {
		route  TILRoute
		search string
		want   string
	}{
		{TILRoute{}, "", "/til/all/1"},
		{TILRoute{Tag: "go", Page: 2}, "", "/til/go/2"},
		{TILRoute{View: ViewKanban}, "", "/til/all/1?view=kanban"},
		{TILRoute{Tag: "dev ops", View: ViewFeed}, "maps", "/til/dev%20ops/1?search=maps&view=feed"},
		{TILRoute{View: "grid"}, "x", "/til/all/1?search=x"},
	}
	for _, tc := range cases {
		if got := TILURL(tc.route, tc.search); got != tc.want {
			t.Errorf("TILURL(%+v, %q) = %q, want %q", tc.route, tc.search, got, tc.want)
		}
	}
}

func TestEncodeComponent(t *testing.T) {
	cases := map[string]string{
		"plain":     "plain",
		"a b":       "a%20b",
		"it's (ok)": "it's%20(ok)",
		"x/y?z":     "x%2Fy%3Fz",
		"*~":        "*~",
	}
	for in, want := range cases {
		if got := EncodeComponent(in); got != want {
			t.Errorf("EncodeComponent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Alpha Guide":       "alpha-guide",
		"  Go: The Tour!  ": "go-the-tour",
		"C++ & Rust":        "c-rust",
		"---":               "",
		"Déjà vu 2":         "déjà-vu-2",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResourceSlug(t *testing.T) {
	if got := ResourceSlug("Alpha Guide", "1F2E3D4C-5B6A-0000"); got != "alpha-guide-1f2e3d4c" {
		t.Errorf("got %q", got)
	}
	if got := ResourceSlug("!!!", "ab-cd"); got != "resource-abcd" {
		t.Errorf("got %q", got)
	}
	if got := ResourcePath(ResourceSlug("Go", "12345678")); got != "/resources/go-12345678" {
		t.Errorf("got %q", got)
	}
}
