package export

import (
	"strings"
	"time"

	"github.com/campusforge/portal-export/internal/richtext"
)

// printCSS styles the composite document for A4 landscape printing. The
// renderer honours @page, browsers opening the intermediate file get a close
// approximation.
const printCSS = `
@page { size: A4 landscape; margin: 1cm; }
* { box-sizing: border-box; }
body {
  font-family: 'Helvetica Neue', Arial, sans-serif;
  color: #1a1a2e;
  margin: 0;
  padding: 0;
  line-height: 1.5;
}
.document-header {
  text-align: center;
  padding: 120px 60px;
  page-break-after: always;
}
.document-header h1 { font-size: 34px; margin-bottom: 12px; }
.document-header .subtitle { font-size: 16px; color: #666; }
.document-header .date { font-size: 13px; color: #999; margin-top: 24px; }
.course-description { font-size: 15px; color: #444; margin: 16px 40px; }
.module-header {
  font-size: 22px;
  font-weight: 700;
  color: #16213e;
  border-bottom: 3px solid #0f3460;
  padding: 12px 0 6px;
  margin: 24px 40px 12px;
  page-break-after: avoid;
}
.course-section-header {
  font-size: 28px;
  font-weight: 700;
  padding: 80px 60px 20px;
  page-break-before: always;
}
.slide-page { padding: 20px 40px; page-break-inside: avoid; }
.slide-title { font-size: 18px; color: #0f3460; margin-bottom: 8px; }
.chapter-title { font-size: 15px; color: #16213e; margin: 14px 0 4px; }
.field-title { font-size: 14px; margin: 12px 0 4px; }
.slide-content p { margin: 6px 0; }
.slide-content img, .slide-image { max-width: 100%; max-height: 480px; }
.slide-placeholder { color: #888; font-style: italic; padding: 12px 0; }
.slide-placeholder .note { font-size: 12px; }
.checklist { list-style: none; padding-left: 8px; }
.context-section {
  background: #f4f6fb;
  border-left: 4px solid #0f3460;
  padding: 8px 16px;
  margin: 12px 0;
}
.context-title { margin: 4px 0; }
.toc { padding: 20px 60px; page-break-after: always; }
.toc h2 { font-size: 24px; }
.toc ul { list-style: none; padding-left: 0; }
.toc li { margin: 4px 0; }
.toc .toc-course { font-weight: 700; margin-top: 12px; }
.toc .toc-module { padding-left: 20px; }
.toc .toc-item { padding-left: 40px; font-size: 13px; color: #555; }
.resources { padding: 12px 40px; }
.resources a { color: #0f3460; }
.glossary { padding: 20px 40px; page-break-before: always; }
.glossary h2 { font-size: 24px; }
.glossary .glossary-category { font-size: 18px; margin-top: 18px; }
.glossary dt { font-weight: 700; margin-top: 10px; }
.glossary dd { margin: 2px 0 0 16px; }
.glossary .glossary-example { font-style: italic; color: #555; }
.glossary .glossary-tags { font-size: 12px; color: #888; }
pre {
  background: #f4f4f4;
  padding: 10px;
  overflow-x: auto;
  font-size: 12px;
  page-break-inside: avoid;
}
code { font-family: 'SF Mono', Menlo, monospace; font-size: 0.92em; }
blockquote { border-left: 3px solid #ccc; margin-left: 0; padding-left: 14px; color: #555; }
table { border-collapse: collapse; margin: 10px 0; }
td, th { border: 1px solid #bbb; padding: 4px 10px; }
th { background: #eef1f7; }
`

// wrapHTMLPage wraps an assembled body in the complete printable page with a
// cover header and the print stylesheet.
func wrapHTMLPage(title, subtitle, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"fr\">\n<head>\n<meta charset=\"utf-8\" />\n<title>")
	b.WriteString(richtext.EscapeHTML(title))
	b.WriteString("</title>\n<style>")
	b.WriteString(printCSS)
	b.WriteString("</style>\n</head>\n<body>\n")
	b.WriteString(`<div class="document-header"><h1>` + richtext.EscapeHTML(title) + "</h1>")
	if subtitle != "" {
		b.WriteString(`<p class="subtitle">` + richtext.EscapeHTML(subtitle) + "</p>")
	}
	b.WriteString(`<p class="date">` + time.Now().Format("02/01/2006") + "</p></div>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
