package richtext

import (
	"fmt"
	"strings"
)

// MarkdownContent renders a decoded content value (tree, string, or nil) to
// Markdown, bounded at limit bytes.
func MarkdownContent(v any, limit int) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return Bound(val, limit, markerMarkdownTrunc)
	default:
		return RenderMarkdown(FromValue(v), limit)
	}
}

// RenderMarkdown renders a document tree to Markdown, bounded at limit
// bytes.
//
// Known gap kept on purpose: table rows are emitted pipe-delimited without a
// header-separator line, so most Markdown viewers will not lay them out as
// tables. Downstream consumers rely on this exact byte output; do not "fix"
// it here without coordinating with them.
func RenderMarkdown(n *Node, limit int) string {
	if n == nil {
		return ""
	}
	md := nodeToMarkdown(n)
	if limit > 0 && len(md) > limit {
		return md[:limit] + markerMarkdownTrunc
	}
	return md
}

func nodeToMarkdown(n *Node) string {
	switch n.Type {
	case NodeDoc, NodeUnknown:
		return childrenToMarkdown(n)
	case NodeParagraph:
		content := childrenToMarkdown(n)
		if content == "" {
			return ""
		}
		return content + "\n\n"
	case NodeHeading:
		level := n.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		return strings.Repeat("#", level) + " " + strings.TrimSpace(childrenToMarkdown(n)) + "\n\n"
	case NodeText:
		return textToMarkdown(n)
	case NodeHardBreak:
		return "\n"
	case NodeBulletList:
		return childrenToMarkdown(n)
	case NodeOrderedList:
		var b strings.Builder
		index := 0
		for _, child := range n.Content {
			item := nodeToMarkdown(child)
			if item == "" {
				continue
			}
			index++
			b.WriteString(fmt.Sprintf("%d. %s", index, stripBulletPrefix(item)))
		}
		return b.String()
	case NodeListItem:
		content := strings.TrimSpace(childrenToMarkdown(n))
		if content == "" {
			return ""
		}
		return "- " + content + "\n"
	case NodeBlockquote:
		content := childrenToMarkdown(n)
		if content == "" {
			return ""
		}
		var quoted []string
		for _, line := range strings.Split(content, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			quoted = append(quoted, "> "+line)
		}
		return strings.Join(quoted, "\n") + "\n\n"
	case NodeCodeBlock:
		return "```" + n.Language + "\n" + codeText(n, false) + "\n```\n\n"
	case NodeHorizontalRule:
		return "---\n\n"
	case NodeImage:
		if n.Title != "" {
			return fmt.Sprintf("![%s](%s %q)\n\n", n.Alt, n.Src, n.Title)
		}
		return fmt.Sprintf("![%s](%s)\n\n", n.Alt, n.Src)
	case NodeTable:
		content := childrenToMarkdown(n)
		if content == "" {
			return ""
		}
		return content + "\n"
	case NodeTableRow:
		if len(n.Content) == 0 {
			return ""
		}
		cells := make([]string, 0, len(n.Content))
		for _, child := range n.Content {
			cells = append(cells, nodeToMarkdown(child))
		}
		return "|" + strings.Join(cells, "|") + "|\n"
	case NodeTableCell, NodeTableHeader:
		return " " + strings.TrimSpace(childrenToMarkdown(n)) + " "
	default:
		return childrenToMarkdown(n)
	}
}

func childrenToMarkdown(n *Node) string {
	if len(n.Content) == 0 {
		return ""
	}
	var b strings.Builder
	for _, child := range n.Content {
		b.WriteString(nodeToMarkdown(child))
	}
	return b.String()
}

func textToMarkdown(n *Node) string {
	out := n.Text
	marks := orderedMarks(n.Marks)
	// Same fixed priority as HTML: wrap innermost first, link tokens end up
	// outermost ([**text**](href), never **[text](href)**).
	for i := len(marks) - 1; i >= 0; i-- {
		switch marks[i].Type {
		case MarkBold:
			out = "**" + out + "**"
		case MarkItalic:
			out = "*" + out + "*"
		case MarkUnderline:
			out = "<u>" + out + "</u>"
		case MarkCode:
			out = "`" + out + "`"
		case MarkHighlight:
			out = "==" + out + "=="
		case MarkLink:
			out = "[" + out + "](" + marks[i].Href + ")"
		}
	}
	return out
}

func stripBulletPrefix(item string) string {
	trimmed := strings.TrimPrefix(item, "- ")
	if trimmed == item {
		trimmed = strings.TrimPrefix(item, "* ")
	}
	return trimmed
}
