// Package sanitize cleans user-supplied free text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	rich   = bluemonday.UGCPolicy()
)

// Text strips all markup and returns readable plain text.
// Entity-encoded tags are decoded and stripped a second time.
func Text(s string) string {
	if s == "" {
		return s
	}
	out := html.UnescapeString(strict.Sanitize(s))
	if strings.ContainsRune(out, '<') {
		out = html.UnescapeString(strict.Sanitize(out))
	}
	return strings.TrimSpace(out)
}

// RichText keeps basic formatting such as paragraphs, lists and links and
// drops scripts, styles and event handlers. Used for product descriptions.
func RichText(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(rich.Sanitize(s))
}
