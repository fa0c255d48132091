package htmlutil

import (
	"strings"

	"github.com/k3a/html2text"
)

// ToText converts HTML to plain text using a proper HTML parser.
// Handles entities, strips tags, and preserves readable text.
func ToText(s string) string {
	return html2text.HTML2Text(s)
}

// SingleLine converts s to plain text and collapses all whitespace runs,
// including line breaks, into single spaces. Used for meta tag content.
func SingleLine(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(ToText(s)), " ")
}
