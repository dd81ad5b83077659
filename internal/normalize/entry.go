package normalize

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/starford/folio/internal/notion"
)

// CacheEntry is one normalized Notion page in the resources cache file.
type CacheEntry struct {
	ID   string `json:"id"`
	Data Data   `json:"data"`
}

// Data is the payload of a cache entry. Fields holds the sanitized values
// merged at the top level of the JSON object; Flat holds the unsanitized
// transformed values.
type Data struct {
	Icon       json.RawMessage
	Cover      json.RawMessage
	Archived   bool
	InTrash    bool
	URL        string
	PublicURL  *string
	Properties map[string]json.RawMessage
	Fields     map[string]any
	Flat       map[string]any
}

// Name returns the trimmed Name field, or "" when it is not a string.
func (d Data) Name() string {
	s, _ := d.Fields[FieldName].(string)
	return strings.TrimSpace(s)
}

type member struct {
	key   string
	value any
}

// MarshalJSON writes the fixed page keys first, then the sanitized fields
// in key order, then flat. A sanitized field named like a page key replaces
// that key's value in place.
func (d Data) MarshalJSON() ([]byte, error) {
	props := d.Properties
	if props == nil {
		props = map[string]json.RawMessage{}
	}
	flat := d.Flat
	if flat == nil {
		flat = map[string]any{}
	}

	members := []member{
		{"icon", rawOrNull(d.Icon)},
		{"cover", rawOrNull(d.Cover)},
		{"archived", d.Archived},
		{"in_trash", d.InTrash},
		{"url", d.URL},
		{"public_url", d.PublicURL},
		{"properties", props},
	}

	keys := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		if k != "flat" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

outer:
	for _, k := range keys {
		for i := range members {
			if members[i].key == k {
				members[i].value = d.Fields[k]
				continue outer
			}
		}
		members = append(members, member{k, d.Fields[k]})
	}
	members = append(members, member{"flat", flat})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(&buf, m.key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeValue(&buf, m.value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

// BuildEntry transforms every property of page and assembles its cache entry.
func BuildEntry(page notion.Page) CacheEntry {
	transformed := make(map[string]any, len(page.Properties))
	for name, raw := range page.Properties {
		if v, ok := TransformProperty(raw); storable(v, ok) {
			transformed[name] = v
		}
	}

	data := Data{
		Icon:       page.Icon,
		Cover:      page.Cover,
		Archived:   page.Archived,
		InTrash:    page.InTrash,
		Properties: page.Properties,
		Fields:     Sanitize(transformed),
		Flat:       transformed,
	}
	if u, ok := NonEmptyString(page.URL); ok {
		data.URL = u
	}
	if page.PublicURL != nil {
		if u, ok := NonEmptyString(*page.PublicURL); ok {
			data.PublicURL = &u
		}
	}

	return CacheEntry{ID: page.ID, Data: data}
}

// SortEntries orders entries by case-insensitive trimmed Name, breaking ties
// by id.
func SortEntries(entries []CacheEntry) {
	slices.SortStableFunc(entries, func(a, b CacheEntry) int {
		na, nb := strings.ToLower(a.Data.Name()), strings.ToLower(b.Data.Name())
		if c := strings.Compare(na, nb); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
