package extract

import "strings"

const (
	labelPage = "label.aspx"
	recNumKey = "RecNumAndPort="
)

// IsLabelLink reports whether href points at a food label page.
func IsLabelLink(href string) bool {
	return strings.Contains(strings.ToLower(href), labelPage)
}

// RecNumFromHref returns the value after the last RecNumAndPort= in href,
// or "" if there isn't one.
func RecNumFromHref(href string) string {
	idx := strings.LastIndex(href, recNumKey)
	if idx < 0 {
		return ""
	}
	value := href[idx+len(recNumKey):]
	end := strings.IndexAny(value, "&#")
	if end >= 0 {
		value = value[:end]
	}
	return strings.TrimSpace(value)
}
