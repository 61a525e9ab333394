package richtext

import (
	"strings"
	"testing"
)

func TestParagraphBoldMarkdown(t *testing.T) {
	n := doc(para(text("Hello", Mark{Type: MarkBold})))
	if got := RenderMarkdown(n, LimitBody); got != "**Hello**\n\n" {
		t.Fatalf("bold paragraph: got %q", got)
	}
}

func TestEmptyParagraphOmitted(t *testing.T) {
	n := doc(para(), para(text("a")))
	if got := RenderMarkdown(n, LimitBody); got != "a\n\n" {
		t.Fatalf("empty paragraph should emit nothing: got %q", got)
	}
}

func TestOrderedListNumbering(t *testing.T) {
	list := &Node{Type: NodeOrderedList, Content: []*Node{
		{Type: NodeListItem, Content: []*Node{para(text("First"))}},
		{Type: NodeListItem, Content: []*Node{para(text("Second"))}},
	}}
	if got := RenderMarkdown(doc(list), LimitBody); got != "1. First\n2. Second\n" {
		t.Fatalf("ordered list: got %q", got)
	}
}

func TestBulletList(t *testing.T) {
	list := &Node{Type: NodeBulletList, Content: []*Node{
		{Type: NodeListItem, Content: []*Node{para(text("  padded  "))}},
		{Type: NodeListItem, Content: []*Node{para(text("b"))}},
	}}
	if got := RenderMarkdown(doc(list), LimitBody); got != "- padded\n- b\n" {
		t.Fatalf("bullet list: got %q", got)
	}
}

func TestHeadingMarkdown(t *testing.T) {
	h := &Node{Type: NodeHeading, Level: 3, Content: []*Node{text(" Title ")}}
	if got := RenderMarkdown(doc(h), LimitBody); got != "### Title\n\n" {
		t.Fatalf("heading: got %q", got)
	}
}

func TestBlockquotePrefixesEveryLine(t *testing.T) {
	q := &Node{Type: NodeBlockquote, Content: []*Node{
		para(text("line one")),
		para(text("line two")),
	}}
	got := RenderMarkdown(doc(q), LimitBody)
	if got != "> line one\n> line two\n\n" {
		t.Fatalf("blockquote: got %q", got)
	}
}

func TestCodeBlockMarkdown(t *testing.T) {
	n := &Node{Type: NodeCodeBlock, Language: "python", Content: []*Node{text("print('a < b')")}}
	got := RenderMarkdown(doc(n), LimitBody)
	want := "```python\nprint('a < b')\n```\n\n"
	if got != want {
		t.Fatalf("code block: got %q", got)
	}
	if strings.Contains(got, "&lt;") {
		t.Fatalf("markdown must not HTML-escape code: %q", got)
	}
}

func TestMarkdownMarks(t *testing.T) {
	cases := []struct {
		mark Mark
		want string
	}{
		{Mark{Type: MarkBold}, "**x**\n\n"},
		{Mark{Type: MarkItalic}, "*x*\n\n"},
		{Mark{Type: MarkCode}, "`x`\n\n"},
		{Mark{Type: MarkUnderline}, "<u>x</u>\n\n"},
		{Mark{Type: MarkHighlight}, "==x==\n\n"},
		{Mark{Type: MarkLink, Href: "https://e.co"}, "[x](https://e.co)\n\n"},
	}
	for _, tc := range cases {
		got := RenderMarkdown(doc(para(text("x", tc.mark))), LimitBody)
		if got != tc.want {
			t.Fatalf("mark %s: got %q want %q", tc.mark.Type, got, tc.want)
		}
	}
}

func TestMarkdownLinkWrapsBold(t *testing.T) {
	n := doc(para(text("x", Mark{Type: MarkBold}, Mark{Type: MarkLink, Href: "#"})))
	if got := RenderMarkdown(n, LimitBody); got != "[**x**](#)\n\n" {
		t.Fatalf("link+bold: got %q", got)
	}
}

func TestTableRowsWithoutSeparator(t *testing.T) {
	row := func(a, b string) *Node {
		return &Node{Type: NodeTableRow, Content: []*Node{
			{Type: NodeTableHeader, Content: []*Node{para(text(a))}},
			{Type: NodeTableCell, Content: []*Node{para(text(b))}},
		}}
	}
	table := &Node{Type: NodeTable, Content: []*Node{row("h1", "h2"), row("a", "b")}}
	got := RenderMarkdown(doc(table), LimitBody)
	want := "| h1 | h2 |\n| a | b |\n\n"
	if got != want {
		t.Fatalf("table: got %q want %q", got, want)
	}
	if strings.Contains(got, "---|") {
		t.Fatalf("separator row must not be emitted: %q", got)
	}
}

func TestHorizontalRuleAndHardBreak(t *testing.T) {
	n := doc(
		para(text("a"), &Node{Type: NodeHardBreak}, text("b")),
		&Node{Type: NodeHorizontalRule},
	)
	if got := RenderMarkdown(n, LimitBody); got != "a\nb\n\n---\n\n" {
		t.Fatalf("rule/break: got %q", got)
	}
}

func TestImageMarkdown(t *testing.T) {
	with := &Node{Type: NodeImage, Src: "a.png", Alt: "alt", Title: "t"}
	if got := RenderMarkdown(doc(with), LimitBody); got != "![alt](a.png \"t\")\n\n" {
		t.Fatalf("image with title: got %q", got)
	}
	without := &Node{Type: NodeImage, Src: "a.png", Alt: "alt"}
	if got := RenderMarkdown(doc(without), LimitBody); got != "![alt](a.png)\n\n" {
		t.Fatalf("image without title: got %q", got)
	}
}

func TestUnknownNodeMarkdownTransparent(t *testing.T) {
	n := Parse([]byte(`{"type":"doc","content":[{"type":"callout","content":[{"type":"paragraph","content":[{"type":"text","text":"still here"}]}]}]}`))
	if got := RenderMarkdown(n, LimitBody); got != "still here\n\n" {
		t.Fatalf("unknown node: got %q", got)
	}
}

func TestMarkdownContentStringTruncation(t *testing.T) {
	long := strings.Repeat("z", 30)
	got := MarkdownContent(long, 10)
	if got != long[:10]+"\n\n... (contenu tronqué)" {
		t.Fatalf("string truncation: got %q", got)
	}
}

func TestMarkdownFromHTMLString(t *testing.T) {
	got := MarkdownFromHTMLString("<p>plain <strong>bold</strong></p>", LimitBody)
	if !strings.Contains(got, "bold") || strings.Contains(got, "<p>") {
		t.Fatalf("html fallback: got %q", got)
	}
	if !LooksLikeHTML("<p>x</p>") || LooksLikeHTML("2 < 3 and 4 > 1") {
		t.Fatalf("LooksLikeHTML misclassified")
	}
}
