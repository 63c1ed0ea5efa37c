package utils

import (
	"html"
	"strings"
	"time"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SanitizeText strips HTML tags and collapses whitespace. Board content
// (task descriptions, comments) is stored as plain text.
func SanitizeText(s string) string {
	p := bluemonday.StripTagsPolicy()
	s = p.Sanitize(s)

	// bluemonday escapes entities; decode back to plain text
	s = html.UnescapeString(s)

	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// Initials derives the two-letter avatar initials from a display name: the
// first letter of each name token, uppercased, capped at 2 characters.
func Initials(name string) string {
	var sb strings.Builder
	// Cap counts runes, not builder bytes: non-ASCII initials are multi-byte.
	count := 0
	for _, token := range strings.Fields(name) {
		r := []rune(token)[0]
		sb.WriteRune(unicode.ToUpper(r))
		if count++; count >= 2 {
			break
		}
	}
	return sb.String()
}

// ParseLabels splits a comma-separated label string, trims entries, and
// drops empty ones.
func ParseLabels(s string) []string {
	labels := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, part)
		}
	}
	return labels
}

// DueDateLayout is the calendar-date format accepted from clients.
const DueDateLayout = "2006-01-02"

// ParseDueDate parses an optional YYYY-MM-DD due date. Empty input means no
// due date; a malformed value is a validation error for the caller.
func ParseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DueDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// NormalizeSearch lowercases and strips diacritics so fuzzy matching treats
// accented and unaccented spellings alike.
func NormalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return clean
}
