// ABOUTME: Text normalization for extracted page content
// ABOUTME: Collapses extraction artifacts without rewriting the prose itself
package ingest

import (
	"regexp"
	"strings"
)

var (
	multiSpace   = regexp.MustCompile(` +`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText cleans extracted text: runs of spaces collapse to one,
// runs of three or more newlines collapse to a blank line, and every
// line loses its edge whitespace.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}

	text = multiSpace.ReplaceAllString(text, " ")
	text = multiNewline.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
