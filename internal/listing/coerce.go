package listing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// decodeRecords parses raw as a JSON array and returns its object members.
// Anything that is not an array, or not valid JSON, yields nil.
func decodeRecords(raw []byte) []map[string]any {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// text renders a decoded JSON value as display text. Missing and null
// values become "".
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = text(e)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// textList renders every element of an array as text, dropping empty ones.
// Non-arrays yield an empty list.
func textList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s := text(e); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// textListOrSingle is textList that also accepts one non-blank string.
func textListOrSingle(v any) []string {
	if s, ok := v.(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			return []string{s}
		}
		return []string{}
	}
	return textList(v)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

func anyContainsFold(items []string, needle string) bool {
	for _, s := range items {
		if containsFold(s, needle) {
			return true
		}
	}
	return false
}
