package richtext

import (
	"strings"
	"testing"
)

func doc(children ...*Node) *Node {
	return &Node{Type: NodeDoc, Content: children}
}

func para(children ...*Node) *Node {
	return &Node{Type: NodeParagraph, Content: children}
}

func text(s string, marks ...Mark) *Node {
	return &Node{Type: NodeText, Text: s, Marks: marks}
}

func TestParagraphBoldHTML(t *testing.T) {
	n := doc(para(text("Hello", Mark{Type: MarkBold})))
	got := RenderHTML(n, LimitBody)
	if got != "<p><strong>Hello</strong></p>" {
		t.Fatalf("bold paragraph: got %q", got)
	}
}

func TestMarkOrderIsFixed(t *testing.T) {
	link := Mark{Type: MarkLink, Href: "https://example.com"}
	bold := Mark{Type: MarkBold}
	want := `<p><a href="https://example.com"><strong>x</strong></a></p>`

	for _, marks := range [][]Mark{{bold, link}, {link, bold}} {
		got := RenderHTML(doc(para(text("x", marks...))), LimitBody)
		if got != want {
			t.Fatalf("marks %v: got %q want %q", marks, got, want)
		}
	}
}

func TestAllMarksNesting(t *testing.T) {
	marks := []Mark{
		{Type: MarkCode},
		{Type: MarkBold},
		{Type: MarkUnderline},
		{Type: MarkItalic},
		{Type: MarkHighlight},
		{Type: MarkLink, Href: "#"},
	}
	got := RenderHTML(doc(para(text("x", marks...))), LimitBody)
	want := `<p><a href="#"><mark><strong><em><u><code>x</code></u></em></strong></mark></a></p>`
	if got != want {
		t.Fatalf("nesting: got %q want %q", got, want)
	}
}

func TestTextEscaping(t *testing.T) {
	got := RenderHTML(doc(para(text(`a & <b> "c" 'd'`))), LimitBody)
	want := "<p>a &amp; &lt;b&gt; &quot;c&quot; &#039;d&#039;</p>"
	if got != want {
		t.Fatalf("escaping: got %q", got)
	}
}

func TestUnknownNodeStaysTransparent(t *testing.T) {
	n := Parse([]byte(`{"type":"doc","content":[{"type":"fancyWidget","content":[{"type":"paragraph","content":[{"type":"text","text":"inside"}]}]}]}`))
	got := RenderHTML(n, LimitBody)
	if got != "<p>inside</p>" {
		t.Fatalf("unknown node: got %q", got)
	}
}

func TestHeadingLevelClamped(t *testing.T) {
	for level, want := range map[int]string{0: "<h1>t</h1>", 3: "<h3>t</h3>", 9: "<h6>t</h6>"} {
		n := &Node{Type: NodeHeading, Level: level, Content: []*Node{text("t")}}
		if got := RenderHTML(doc(n), LimitBody); got != want {
			t.Fatalf("level %d: got %q want %q", level, got, want)
		}
	}
}

func TestEmptyContainersRenderEmptyForms(t *testing.T) {
	cases := map[NodeType]string{
		NodeParagraph:  "<p></p>",
		NodeBulletList: "<ul></ul>",
		NodeTable:      "<table></table>",
	}
	for typ, want := range cases {
		if got := RenderHTML(doc(&Node{Type: typ}), LimitBody); got != want {
			t.Fatalf("%s: got %q want %q", typ, got, want)
		}
	}
}

func TestCodeBlockOnlyRendersTextChildren(t *testing.T) {
	n := &Node{Type: NodeCodeBlock, Language: "go", Content: []*Node{
		text("a < b"),
		{Type: NodeImage, Src: "ignored.png"},
		text(" && c"),
	}}
	got := RenderHTML(doc(n), LimitBody)
	want := `<pre><code class="language-go">a &lt; b &amp;&amp; c</code></pre>`
	if got != want {
		t.Fatalf("code block: got %q", got)
	}
}

func TestImageAttributes(t *testing.T) {
	withTitle := &Node{Type: NodeImage, Src: `a"b.png`, Alt: "alt", Title: "t"}
	got := RenderHTML(doc(withTitle), LimitBody)
	want := `<img src="a&quot;b.png" alt="alt" title="t" />`
	if got != want {
		t.Fatalf("image with title: got %q", got)
	}

	noTitle := &Node{Type: NodeImage, Src: "a.png", Alt: "alt"}
	got = RenderHTML(doc(noTitle), LimitBody)
	if strings.Contains(got, "title=") {
		t.Fatalf("image without title should omit title attr: got %q", got)
	}
}

func TestTableHTML(t *testing.T) {
	row := &Node{Type: NodeTableRow, Content: []*Node{
		{Type: NodeTableHeader, Content: []*Node{para(text("h"))}},
		{Type: NodeTableCell, Content: []*Node{para(text("c"))}},
	}}
	got := RenderHTML(doc(&Node{Type: NodeTable, Content: []*Node{row}}), LimitBody)
	want := "<table><tr><th><p>h</p></th><td><p>c</p></td></tr></table>"
	if got != want {
		t.Fatalf("table: got %q", got)
	}
}

func TestRenderHTMLIdempotent(t *testing.T) {
	n := Parse([]byte(`{"type":"doc","content":[{"type":"bulletList","content":[{"type":"listItem","content":[{"type":"paragraph","content":[{"type":"text","text":"a","marks":[{"type":"italic"}]}]}]}]}]}`))
	first := RenderHTML(n, LimitBody)
	second := RenderHTML(n, LimitBody)
	if first != second {
		t.Fatalf("renders differ: %q vs %q", first, second)
	}
}

func TestHTMLContentPlainString(t *testing.T) {
	if got := HTMLContent("hello", LimitBody); got != "<p>hello</p>" {
		t.Fatalf("plain string: got %q", got)
	}
	long := strings.Repeat("x", 20)
	got := HTMLContent(long, 10)
	if got != "<p>"+long[:10]+"...</p>" {
		t.Fatalf("truncated string: got %q", got)
	}
}

func TestRenderHTMLTruncationMarker(t *testing.T) {
	children := make([]*Node, 0, 200)
	for i := 0; i < 200; i++ {
		children = append(children, para(text(strings.Repeat("y", 100))))
	}
	got := RenderHTML(doc(children...), 1000)
	if !strings.Contains(got, "(contenu tronqué)") {
		t.Fatalf("expected truncation marker, got tail %q", got[len(got)-80:])
	}
	if len(got) > 1000+len("<p><em>... (contenu tronqué)</em></p>") {
		t.Fatalf("truncated output too long: %d bytes", len(got))
	}
}

func TestParseStringBecomesParagraphDoc(t *testing.T) {
	n := FromValue("legacy text")
	if got := RenderHTML(n, LimitBody); got != "<p>legacy text</p>" {
		t.Fatalf("degenerate string doc: got %q", got)
	}
}
