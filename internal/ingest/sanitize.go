package ingest

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// sanitizeText strips any markup a vendor page leaked into a text field
// and collapses whitespace.
func sanitizeText(s string) string {
	return normalizeSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// normalizeSpace collapses multiple spaces into one and trims the string.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sanitizeNotes cleans every note and drops empties and case-insensitive
// duplicates, preserving first-seen order.
func sanitizeNotes(notes []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(notes))
	for _, note := range notes {
		clean := sanitizeText(note)
		if clean == "" {
			continue
		}
		key := strings.ToLower(clean)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, clean)
	}
	return out
}
