package richtext

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var htmlTagPattern = regexp.MustCompile(`<[a-zA-Z!/][^>]*>`)

// LooksLikeHTML reports whether a plain-string content field is actually a
// blob of markup. Some legacy items stored editor output as raw HTML before
// the structured tree format existed.
func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// MarkdownFromHTMLString converts a legacy raw-HTML string into Markdown for
// the Markdown export path. On conversion failure the input is returned
// unchanged, a fragment must never abort the export.
func MarkdownFromHTMLString(html string, limit int) string {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return Bound(html, limit, markerMarkdownTrunc)
	}
	return Bound(strings.TrimSpace(markdown), limit, markerMarkdownTrunc)
}
