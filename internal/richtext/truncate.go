package richtext

// Byte ceilings applied when rendering content fields. Free-text bodies get
// the large tier, secondary fields (question, correction, instructions,
// pedagogical context) the medium one. The whole-document ceiling lives in
// the export package since it is checked across fragments.
const (
	LimitBody  = 100_000
	LimitField = 50_000
)

// Truncation markers. The sentinel "(contenu tronqué)" distinguishes a cut
// from real content in both output formats.
const (
	MarkerEllipsis      = "..."
	markerHTMLTruncated = "<p><em>... (contenu tronqué)</em></p>"
	markerMarkdownTrunc = "\n\n... (contenu tronqué)"
)

// Bound caps s at limit bytes, appending marker when it had to cut. The
// marker is appended after the prefix, so the result can exceed limit by at
// most len(marker).
func Bound(s string, limit int, marker string) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + marker
}
