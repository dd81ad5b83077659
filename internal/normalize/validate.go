package normalize

import (
	"fmt"
	"strings"

	whatwg "github.com/nlnwa/whatwg-url/url"
)

// Allowed values for the enumerated resource fields.
var (
	AllowedStatus     = NewSet("Needs Review", "Writing", "Needs Update", "Up-to-Date")
	AllowedLength     = NewSet("Short", "Medium", "Long")
	AllowedSkillLevel = NewSet("Beginner", "Intermediate", "Advanced", "Any")
)

// Set is a fixed group of permitted values.
type Set map[string]struct{}

// NewSet builds a Set from values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// Has reports whether v is a member.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// NonEmptyString returns v when it is a string with non-blank content.
// The value is returned as given, not trimmed.
func NonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// URLValue returns the WHATWG serialization of v when it parses as an
// absolute URL.
func URLValue(v any) (string, bool) {
	s, ok := NonEmptyString(v)
	if !ok {
		return "", false
	}
	u, err := whatwg.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return u.Href(false), true
}

// StringArray coerces v to a non-empty list of trimmed strings. A single
// non-blank string becomes a one-element list. Anything else, including a
// list that ends up empty, is absent.
func StringArray(v any) ([]string, bool) {
	var out []string
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			out = []string{s}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Enum returns v when it is a string member of allowed.
func Enum(v any, allowed Set) (string, bool) {
	s, ok := v.(string)
	if !ok || !allowed.Has(s) {
		return "", false
	}
	return s, true
}

// Bool returns v only when it is strictly a boolean.
func Bool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}
