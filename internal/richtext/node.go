// Package richtext models the editor's rich-text document tree and renders
// it to HTML or Markdown. Parsing is deliberately lenient: content comes from
// a JSONB column written by several generations of the editor, so unknown
// node types degrade to transparent containers instead of failing the export.
package richtext

import (
	"encoding/json"
)

type NodeType string

const (
	NodeDoc            NodeType = "doc"
	NodeParagraph      NodeType = "paragraph"
	NodeHeading        NodeType = "heading"
	NodeText           NodeType = "text"
	NodeHardBreak      NodeType = "hardBreak"
	NodeBulletList     NodeType = "bulletList"
	NodeOrderedList    NodeType = "orderedList"
	NodeListItem       NodeType = "listItem"
	NodeBlockquote     NodeType = "blockquote"
	NodeCodeBlock      NodeType = "codeBlock"
	NodeHorizontalRule NodeType = "horizontalRule"
	NodeImage          NodeType = "image"
	NodeTable          NodeType = "table"
	NodeTableRow       NodeType = "tableRow"
	NodeTableCell      NodeType = "tableCell"
	NodeTableHeader    NodeType = "tableHeader"
	// NodeUnknown keeps the children of an unrecognized node so they are
	// still traversed and rendered.
	NodeUnknown NodeType = "unknown"
)

type MarkType string

const (
	MarkBold      MarkType = "bold"
	MarkItalic    MarkType = "italic"
	MarkUnderline MarkType = "underline"
	MarkCode      MarkType = "code"
	MarkHighlight MarkType = "highlight"
	MarkLink      MarkType = "link"
)

type Mark struct {
	Type MarkType
	Href string
}

// Node is one vertex of the document tree. Only the fields relevant to its
// Type are populated; Content holds the ordered children (document order).
type Node struct {
	Type     NodeType
	Text     string
	Marks    []Mark
	Level    int
	Language string
	Src      string
	Alt      string
	Title    string
	Content  []*Node
}

var knownTypes = map[string]NodeType{
	"doc":            NodeDoc,
	"paragraph":      NodeParagraph,
	"heading":        NodeHeading,
	"text":           NodeText,
	"hardBreak":      NodeHardBreak,
	"bulletList":     NodeBulletList,
	"orderedList":    NodeOrderedList,
	"listItem":       NodeListItem,
	"blockquote":     NodeBlockquote,
	"codeBlock":      NodeCodeBlock,
	"horizontalRule": NodeHorizontalRule,
	"image":          NodeImage,
	"table":          NodeTable,
	"tableRow":       NodeTableRow,
	"tableCell":      NodeTableCell,
	"tableHeader":    NodeTableHeader,
}

// Parse decodes raw JSON into a document tree. It never fails: invalid JSON
// is treated as a plain string, and a plain string becomes a one-paragraph
// document (legacy content predating the structured editor).
func Parse(raw []byte) *Node {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return FromValue(string(raw))
	}
	return FromValue(v)
}

// FromValue builds a document tree from an already-decoded JSON value.
func FromValue(v any) *Node {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if val == "" {
			return nil
		}
		return &Node{
			Type: NodeDoc,
			Content: []*Node{{
				Type:    NodeParagraph,
				Content: []*Node{{Type: NodeText, Text: val}},
			}},
		}
	case map[string]any:
		return nodeFromMap(val)
	case []any:
		// A bare content array, treat it as an untyped container.
		return &Node{Type: NodeUnknown, Content: childrenFromSlice(val)}
	default:
		return nil
	}
}

func nodeFromMap(m map[string]any) *Node {
	n := &Node{}
	rawType, _ := m["type"].(string)
	typ, ok := knownTypes[rawType]
	if !ok {
		typ = NodeUnknown
	}
	n.Type = typ

	if children, ok := m["content"].([]any); ok {
		n.Content = childrenFromSlice(children)
	}

	attrs, _ := m["attrs"].(map[string]any)

	switch typ {
	case NodeText:
		n.Text, _ = m["text"].(string)
		if rawMarks, ok := m["marks"].([]any); ok {
			n.Marks = marksFromSlice(rawMarks)
		}
	case NodeHeading:
		n.Level = intAttr(attrs, "level", 1)
	case NodeCodeBlock:
		n.Language = stringAttr(attrs, "language")
	case NodeImage:
		n.Src = stringAttr(attrs, "src")
		n.Alt = stringAttr(attrs, "alt")
		n.Title = stringAttr(attrs, "title")
	}
	return n
}

func childrenFromSlice(items []any) []*Node {
	out := make([]*Node, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if n := nodeFromMap(child); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func marksFromSlice(items []any) []Mark {
	out := make([]Mark, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rawType, _ := m["type"].(string)
		mark := Mark{Type: MarkType(rawType)}
		if mark.Type == MarkLink {
			attrs, _ := m["attrs"].(map[string]any)
			mark.Href = stringAttr(attrs, "href")
			if mark.Href == "" {
				mark.Href = "#"
			}
		}
		switch mark.Type {
		case MarkBold, MarkItalic, MarkUnderline, MarkCode, MarkHighlight, MarkLink:
			out = append(out, mark)
		}
	}
	return out
}

// markPriority is the fixed outer-to-inner application order: the link wraps
// everything, character styling sits closest to the text. Input mark order
// is irrelevant, renders are deterministic.
var markPriority = map[MarkType]int{
	MarkLink:      0,
	MarkHighlight: 1,
	MarkBold:      2,
	MarkItalic:    3,
	MarkUnderline: 4,
	MarkCode:      5,
}

// orderedMarks returns the node's marks deduplicated and sorted by priority,
// outermost first.
func orderedMarks(marks []Mark) []Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]Mark, 0, len(marks))
	seen := map[MarkType]bool{}
	for prio := 0; prio < len(markPriority); prio++ {
		for _, m := range marks {
			if markPriority[m.Type] == prio && !seen[m.Type] {
				seen[m.Type] = true
				out = append(out, m)
			}
		}
	}
	return out
}

func intAttr(attrs map[string]any, key string, def int) int {
	if attrs == nil {
		return def
	}
	switch v := attrs[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func stringAttr(attrs map[string]any, key string) string {
	if attrs == nil {
		return ""
	}
	s, _ := attrs[key].(string)
	return s
}
