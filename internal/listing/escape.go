package listing

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters for use in both
// text and quoted attribute values.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
