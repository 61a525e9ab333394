package richtext

import (
	"fmt"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five HTML-unsafe characters. Used for both text
// content and attribute values.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// HTMLContent renders a decoded content value (tree, string, or nil) to
// HTML, bounded at limit bytes.
func HTMLContent(v any, limit int) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		if val == "" {
			return ""
		}
		return "<p>" + EscapeHTML(Bound(val, limit, MarkerEllipsis)) + "</p>"
	default:
		return RenderHTML(FromValue(v), limit)
	}
}

// RenderHTML renders a document tree to HTML, bounded at limit bytes. A cut
// never lands inside a tag of the appended marker, but may leave earlier
// structural tags unclosed; the whole-fragment bound mirrors the reference
// output and keeps memory flat.
func RenderHTML(n *Node, limit int) string {
	if n == nil {
		return ""
	}
	html := nodeToHTML(n)
	if limit > 0 && len(html) > limit {
		return html[:limit] + markerHTMLTruncated
	}
	return html
}

func nodeToHTML(n *Node) string {
	switch n.Type {
	case NodeDoc, NodeUnknown:
		return childrenToHTML(n)
	case NodeParagraph:
		return "<p>" + childrenToHTML(n) + "</p>"
	case NodeHeading:
		level := n.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		return fmt.Sprintf("<h%d>%s</h%d>", level, childrenToHTML(n), level)
	case NodeText:
		return textToHTML(n)
	case NodeHardBreak:
		return "<br>"
	case NodeBulletList:
		return "<ul>" + childrenToHTML(n) + "</ul>"
	case NodeOrderedList:
		return "<ol>" + childrenToHTML(n) + "</ol>"
	case NodeListItem:
		return "<li>" + childrenToHTML(n) + "</li>"
	case NodeBlockquote:
		return "<blockquote>" + childrenToHTML(n) + "</blockquote>"
	case NodeCodeBlock:
		class := ""
		if n.Language != "" {
			class = ` class="language-` + EscapeHTML(n.Language) + `"`
		}
		return "<pre><code" + class + ">" + codeText(n, true) + "</code></pre>"
	case NodeHorizontalRule:
		return "<hr>"
	case NodeImage:
		attrs := ` src="` + EscapeHTML(n.Src) + `" alt="` + EscapeHTML(n.Alt) + `"`
		if n.Title != "" {
			attrs += ` title="` + EscapeHTML(n.Title) + `"`
		}
		return "<img" + attrs + " />"
	case NodeTable:
		return "<table>" + childrenToHTML(n) + "</table>"
	case NodeTableRow:
		return "<tr>" + childrenToHTML(n) + "</tr>"
	case NodeTableCell:
		return "<td>" + childrenToHTML(n) + "</td>"
	case NodeTableHeader:
		return "<th>" + childrenToHTML(n) + "</th>"
	default:
		return childrenToHTML(n)
	}
}

func childrenToHTML(n *Node) string {
	if len(n.Content) == 0 {
		return ""
	}
	var b strings.Builder
	for _, child := range n.Content {
		b.WriteString(nodeToHTML(child))
	}
	return b.String()
}

func textToHTML(n *Node) string {
	out := EscapeHTML(n.Text)
	marks := orderedMarks(n.Marks)
	// Wrap innermost first so the highest-priority mark ends up outermost.
	for i := len(marks) - 1; i >= 0; i-- {
		switch marks[i].Type {
		case MarkBold:
			out = "<strong>" + out + "</strong>"
		case MarkItalic:
			out = "<em>" + out + "</em>"
		case MarkUnderline:
			out = "<u>" + out + "</u>"
		case MarkCode:
			out = "<code>" + out + "</code>"
		case MarkHighlight:
			out = "<mark>" + out + "</mark>"
		case MarkLink:
			out = `<a href="` + EscapeHTML(marks[i].Href) + `">` + out + "</a>"
		}
	}
	return out
}

// codeText concatenates the text children of a code block, ignoring anything
// else that may have been nested inside.
func codeText(n *Node, escape bool) string {
	var b strings.Builder
	for _, child := range n.Content {
		if child.Type != NodeText {
			continue
		}
		if escape {
			b.WriteString(EscapeHTML(child.Text))
		} else {
			b.WriteString(child.Text)
		}
	}
	return b.String()
}
