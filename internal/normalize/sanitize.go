package normalize

import "strings"

// Known resource fields that get field-specific sanitization.
const (
	FieldName           = "Name"
	FieldSource         = "Source"
	FieldUserDefinedURL = "User Defined URL"
	FieldCategory       = "Category"
	FieldType           = "Type"
	FieldTags           = "Tags"
	FieldKeywords       = "Keywords"
	FieldStatus         = "Status"
	FieldLength         = "Length"
	FieldSkillLevel     = "Skill Level"
	FieldAISummary      = "AI summary"
	FieldFavorite       = "Favorite"
	FieldLastUpdated    = "Last Updated"
)

// Sanitize copies transformed and re-validates the known fields. A known
// field that fails its check is removed; other fields pass through as is.
func Sanitize(transformed map[string]any) map[string]any {
	out := make(map[string]any, len(transformed))
	for k, v := range transformed {
		out[k] = v
	}

	if s, ok := out[FieldName].(string); ok {
		out[FieldName] = strings.TrimSpace(s)
	}

	keep(out, FieldSource, URLValue)
	keep(out, FieldUserDefinedURL, URLValue)

	for _, key := range []string{FieldCategory, FieldType, FieldTags, FieldKeywords} {
		keep(out, key, StringArray)
	}

	keep(out, FieldStatus, enumOf(AllowedStatus))
	keep(out, FieldLength, enumOf(AllowedLength))
	keep(out, FieldSkillLevel, enumOf(AllowedSkillLevel))

	keep(out, FieldAISummary, NonEmptyString)
	keep(out, FieldFavorite, Bool)
	keep(out, FieldLastUpdated, NonEmptyString)

	return out
}

// keep replaces m[key] with its validated form or deletes it.
func keep[T any](m map[string]any, key string, check func(any) (T, bool)) {
	v, ok := check(m[key])
	if !ok {
		delete(m, key)
		return
	}
	m[key] = v
}

func enumOf(allowed Set) func(any) (string, bool) {
	return func(v any) (string, bool) {
		return Enum(v, allowed)
	}
}
