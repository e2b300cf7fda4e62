package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer = bluemonday.UGCPolicy()
	// textSanitizer drops every tag; used for plain-text fields such as titles.
	textSanitizer = bluemonday.StrictPolicy()
)

// Sanitize cleans user supplied HTML to prevent XSS and trims surrounding whitespace.
func Sanitize(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}

// SanitizeText strips all markup and returns unescaped plain text, so "Tom & Jerry" stays as typed.
func SanitizeText(input string) string {
	return strings.TrimSpace(html.UnescapeString(textSanitizer.Sanitize(input)))
}
