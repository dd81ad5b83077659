// Package normalize turns Notion property objects into plain values and
// builds the flat cache entries written by the refresher.
package normalize

import (
	"encoding/json"
	"strings"
)

// TransformProperty converts one raw Notion property into a plain value
// according to its declared type. ok is false when the value is absent or
// the type is not supported.
func TransformProperty(raw json.RawMessage) (any, bool) {
	var prop map[string]any
	if err := json.Unmarshal(raw, &prop); err != nil || prop == nil {
		return nil, false
	}

	kind, _ := prop["type"].(string)
	switch kind {
	case "title", "rich_text":
		return plainText(prop[kind]), true
	case "status", "select":
		return optionName(prop[kind])
	case "multi_select":
		return optionNames(prop[kind]), true
	case "url":
		return URLValue(prop[kind])
	case "checkbox":
		return truthy(prop[kind]), true
	case "number":
		n, ok := prop[kind].(float64)
		return n, ok
	case "date":
		return dateStart(prop[kind])
	case "email", "phone_number":
		s, ok := NonEmptyString(prop[kind])
		return strings.TrimSpace(s), ok
	case "created_time", "last_edited_time":
		return NonEmptyString(prop[kind])
	default:
		return nil, false
	}
}

// plainText joins the plain_text of every rich text fragment.
func plainText(v any) string {
	items, ok := v.([]any)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, item := range items {
		frag, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := frag["plain_text"].(string); ok {
			b.WriteString(s)
		}
	}
	return strings.TrimSpace(b.String())
}

func optionName(v any) (any, bool) {
	opt, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	name, ok := opt["name"].(string)
	return name, ok
}

func optionNames(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		return out
	}
	for _, item := range items {
		opt, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := opt["name"].(string); ok && name != "" {
			out = append(out, name)
		}
	}
	return out
}

func dateStart(v any) (any, bool) {
	d, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	start, ok := d["start"].(string)
	if !ok || strings.TrimSpace(start) == "" {
		return nil, false
	}
	return start, true
}

// truthy mirrors loose boolean coercion of decoded JSON values.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// storable reports whether a transformed value belongs in the flat map.
func storable(v any, ok bool) bool {
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && s == "" {
		return false
	}
	return true
}
