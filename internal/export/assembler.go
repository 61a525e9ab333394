// Package export assembles the hierarchical content tree into composite
// HTML or Markdown documents and orchestrates the conversion to the final
// artifact.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/campusforge/portal-export/internal/platform/apierr"
	"github.com/campusforge/portal-export/internal/platform/logger"
	"github.com/campusforge/portal-export/internal/richtext"
	"github.com/campusforge/portal-export/internal/types"
)

// AssetResolver maps stored asset paths to URLs. Satisfied by the GCS-backed
// resolver; tests substitute a fake.
type AssetResolver interface {
	PublicURL(key string) string
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// Whole-document limits. The incremental ceiling trips every tenth item so
// an oversized export fails while the accumulator is still small, instead of
// exhausting memory and failing at the end.
const (
	DefaultMaxDocumentBytes = 50 << 20
	incrementalCeiling      = 20 << 20
	incrementalCheckEvery   = 10
)

// FragmentCounts is the diagnostic payload returned with an empty-export
// error so callers can see what was filtered out and why.
type FragmentCounts struct {
	Courses        int `json:"courses,omitempty"`
	Modules        int `json:"modules"`
	Items          int `json:"items"`
	PublishedItems int `json:"published_items"`
	Chapters       int `json:"chapters"`
}

type Assembler struct {
	log              *logger.Logger
	assets           AssetResolver
	signedURLTTL     time.Duration
	maxDocumentBytes int
}

func NewAssembler(log *logger.Logger, assets AssetResolver, signedURLTTL time.Duration, maxDocumentBytes int) *Assembler {
	if maxDocumentBytes <= 0 {
		maxDocumentBytes = DefaultMaxDocumentBytes
	}
	return &Assembler{
		log:              log.With("service", "Assembler"),
		assets:           assets,
		signedURLTTL:     signedURLTTL,
		maxDocumentBytes: maxDocumentBytes,
	}
}

// CountFragments tallies a course tree for the empty-export diagnostic.
func CountFragments(course *types.Course) FragmentCounts {
	var counts FragmentCounts
	for _, module := range course.Modules {
		counts.Modules++
		for _, item := range module.Items {
			counts.Items++
			if item.Published {
				counts.PublishedItems++
				counts.Chapters += len(item.Chapters)
			}
		}
	}
	return counts
}

// CountProgramFragments tallies the exportable courses of a program.
func CountProgramFragments(courses []*types.Course) FragmentCounts {
	var counts FragmentCounts
	for _, course := range courses {
		counts.Courses++
		c := CountFragments(course)
		counts.Modules += c.Modules
		counts.Items += c.Items
		counts.PublishedItems += c.PublishedItems
		counts.Chapters += c.Chapters
	}
	return counts
}

// docBuilder accumulates fragments and enforces the incremental and final
// size ceilings.
type docBuilder struct {
	b         strings.Builder
	fragments int
	maxBytes  int
}

func (d *docBuilder) add(fragment string) error {
	d.b.WriteString(fragment)
	d.fragments++
	if d.fragments%incrementalCheckEvery == 0 && d.b.Len() > incrementalCeiling {
		return apierr.Newf(apierr.KindContentTooLarge, "le contenu du cours est trop volumineux",
			"document exceeded %d bytes after %d fragments", incrementalCeiling, d.fragments)
	}
	return nil
}

func (d *docBuilder) finish(maxBytes int) (string, error) {
	out := d.b.String()
	if len(out) > maxBytes {
		return "", apierr.Newf(apierr.KindContentTooLarge, "le contenu du cours est trop volumineux",
			"document is %d bytes, ceiling is %d", len(out), maxBytes)
	}
	return out, nil
}

// CourseHTML assembles a complete printable HTML page for one course.
func (a *Assembler) CourseHTML(course *types.Course) (string, error) {
	var d docBuilder
	if err := a.courseBodyHTML(&d, course); err != nil {
		return "", err
	}
	body, err := d.finish(a.maxDocumentBytes)
	if err != nil {
		return "", err
	}
	return wrapHTMLPage(course.Title, "Extraction complète du cours", body), nil
}

func (a *Assembler) courseBodyHTML(d *docBuilder, course *types.Course) error {
	if course.Description != "" {
		if err := d.add(`<p class="course-description">` + richtext.EscapeHTML(course.Description) + "</p>\n"); err != nil {
			return err
		}
	}
	for _, module := range course.Modules {
		if err := d.add(`<div class="module-header">` + richtext.EscapeHTML(module.Title) + "</div>\n"); err != nil {
			return err
		}
		for _, item := range module.Items {
			if !item.Published {
				continue
			}
			if err := d.add(a.itemHTML(item)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Assembler) itemHTML(item *types.Item) string {
	var b strings.Builder
	b.WriteString(`<div class="slide-page"><h3 class="slide-title">` + richtext.EscapeHTML(item.Title) + "</h3>\n")

	content := decodeContent(item.Content)
	rendered := false

	if item.AssetPath != "" {
		b.WriteString(a.assetHTML(item))
		rendered = true
	}
	if body, ok := content["body"]; ok {
		if html := richtext.HTMLContent(body, richtext.LimitBody); html != "" {
			b.WriteString(`<div class="slide-content">` + html + "</div>\n")
			rendered = true
		}
	}
	for _, chapter := range item.Chapters {
		if !chapter.Published {
			continue
		}
		b.WriteString(`<h4 class="chapter-title">` + richtext.EscapeHTML(chapter.Title) + "</h4>\n")
		if html := chapterContentHTML(chapter.Content); html != "" {
			b.WriteString(`<div class="chapter-content">` + html + "</div>\n")
		}
		rendered = true
	}
	for _, field := range []struct{ key, label string }{
		{"question", "Question"},
		{"correction", "Correction"},
		{"instructions", "Instructions"},
	} {
		v, ok := content[field.key]
		if !ok {
			continue
		}
		if html := richtext.HTMLContent(v, richtext.LimitField); html != "" {
			b.WriteString(`<h4 class="field-title">` + field.label + "</h4>\n" + html + "\n")
			rendered = true
		}
	}
	if checklist := checklistEntries(content["checklist"]); len(checklist) > 0 {
		b.WriteString(`<ul class="checklist">`)
		for _, entry := range checklist {
			b.WriteString("<li>☐ " + richtext.EscapeHTML(entry) + "</li>")
		}
		b.WriteString("</ul>\n")
		rendered = true
	}
	// The free-text description duplicates the body in older content, only
	// fall back to it when there is no body.
	if _, hasBody := content["body"]; !hasBody {
		if v, ok := content["description"]; ok {
			if html := richtext.HTMLContent(v, richtext.LimitField); html != "" {
				b.WriteString(html + "\n")
				rendered = true
			}
		}
	}
	if v, ok := content["pedagogical_context"]; ok {
		html := pedagogicalContextHTML(v, richtext.LimitField)
		if html == "" {
			html = "<p><em>Aucun contexte pédagogique disponible.</em></p>"
		}
		b.WriteString(`<div class="context-section"><h4 class="context-title">Contexte pédagogique</h4>` + html + "</div>\n")
		rendered = true
	}

	if !rendered {
		b.WriteString(`<div class="slide-placeholder"><p>Aucun contenu de slide</p></div>` + "\n")
	}
	b.WriteString("</div>\n")
	return b.String()
}

func (a *Assembler) assetHTML(item *types.Item) string {
	if strings.HasSuffix(strings.ToLower(item.AssetPath), ".pdf") {
		return `<div class="slide-placeholder"><p><strong>PDF:</strong> ` + richtext.EscapeHTML(item.Title) + "</p>" +
			`<p class="note">Le contenu PDF ne peut pas être affiché dans cette extraction.</p></div>` + "\n"
	}
	url := a.assets.PublicURL(item.AssetPath)
	return `<img src="` + richtext.EscapeHTML(url) + `" alt="` + richtext.EscapeHTML(item.Title) + `" class="slide-image" />` + "\n"
}

// CourseMarkdown assembles the Markdown export of one course.
func (a *Assembler) CourseMarkdown(course *types.Course) (string, error) {
	var d docBuilder
	if err := d.add("# " + course.Title + "\n\n"); err != nil {
		return "", err
	}
	if err := a.courseBodyMarkdown(&d, course, 2); err != nil {
		return "", err
	}
	return d.finish(a.maxDocumentBytes)
}

// courseBodyMarkdown writes the module/item tree at the given heading depth
// (2 for standalone courses, 3 inside a program document).
func (a *Assembler) courseBodyMarkdown(d *docBuilder, course *types.Course, depth int) error {
	if course.Description != "" {
		if err := d.add(course.Description + "\n\n"); err != nil {
			return err
		}
	}
	moduleHeading := strings.Repeat("#", depth)
	itemHeading := moduleHeading + "#"
	for _, module := range course.Modules {
		if err := d.add(moduleHeading + " " + module.Title + "\n\n"); err != nil {
			return err
		}
		for _, item := range module.Items {
			if !item.Published {
				continue
			}
			if err := d.add(a.itemMarkdown(item, itemHeading)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Assembler) itemMarkdown(item *types.Item, heading string) string {
	var b strings.Builder
	b.WriteString(heading + " " + item.Title + "\n\n")

	content := decodeContent(item.Content)
	rendered := false

	if item.AssetPath != "" {
		b.WriteString(a.assetMarkdown(item))
		rendered = true
	}
	if body, ok := content["body"]; ok {
		if md := markdownField(body, richtext.LimitBody); md != "" {
			b.WriteString(md + "\n\n")
			rendered = true
		}
	}
	for _, chapter := range item.Chapters {
		if !chapter.Published {
			continue
		}
		b.WriteString(heading + "# " + chapter.Title + "\n\n")
		if md := chapterContentMarkdown(chapter.Content); md != "" {
			b.WriteString(md + "\n\n")
		}
		rendered = true
	}
	for _, field := range []struct{ key, label string }{
		{"question", "Question"},
		{"correction", "Correction"},
		{"instructions", "Instructions"},
	} {
		v, ok := content[field.key]
		if !ok {
			continue
		}
		if md := markdownField(v, richtext.LimitField); md != "" {
			b.WriteString("**" + field.label + "**\n\n" + md + "\n\n")
			rendered = true
		}
	}
	if checklist := checklistEntries(content["checklist"]); len(checklist) > 0 {
		for _, entry := range checklist {
			b.WriteString("- [ ] " + entry + "\n")
		}
		b.WriteString("\n")
		rendered = true
	}
	if _, hasBody := content["body"]; !hasBody {
		if v, ok := content["description"]; ok {
			if md := markdownField(v, richtext.LimitField); md != "" {
				b.WriteString(md + "\n\n")
				rendered = true
			}
		}
	}
	if v, ok := content["pedagogical_context"]; ok {
		md := pedagogicalContextMarkdown(v, richtext.LimitField)
		if md == "" {
			md = "_Aucun contexte pédagogique disponible._"
		}
		b.WriteString("**Contexte pédagogique**\n\n" + md + "\n\n")
		rendered = true
	}

	if !rendered {
		b.WriteString("_Aucun contenu de slide_\n\n")
	}
	return b.String()
}

func (a *Assembler) assetMarkdown(item *types.Item) string {
	if strings.HasSuffix(strings.ToLower(item.AssetPath), ".pdf") {
		return "**PDF:** " + item.Title + "\n\n_Le contenu PDF ne peut pas être affiché dans cette extraction._\n\n"
	}
	return fmt.Sprintf("![%s](%s)\n\n", item.Title, a.assets.PublicURL(item.AssetPath))
}

// markdownField renders one content field to Markdown. Legacy string fields
// holding raw HTML are converted instead of being passed through verbatim.
func markdownField(v any, limit int) string {
	if s, ok := v.(string); ok && richtext.LooksLikeHTML(s) {
		return richtext.MarkdownFromHTMLString(s, limit)
	}
	return strings.TrimSpace(richtext.MarkdownContent(v, limit))
}

// chapterContentHTML renders a chapter's content bag, or the bare tree when
// the chapter stores the document directly.
func chapterContentHTML(raw datatypes.JSON) string {
	content := decodeContent(raw)
	if body, ok := content["body"]; ok {
		return richtext.HTMLContent(body, richtext.LimitBody)
	}
	if len(content) > 0 {
		return richtext.HTMLContent(map[string]any(content), richtext.LimitBody)
	}
	return ""
}

func chapterContentMarkdown(raw datatypes.JSON) string {
	content := decodeContent(raw)
	if body, ok := content["body"]; ok {
		return markdownField(body, richtext.LimitBody)
	}
	if len(content) > 0 {
		return strings.TrimSpace(richtext.MarkdownContent(map[string]any(content), richtext.LimitBody))
	}
	return ""
}

// pedagogicalContextHTML accepts the three historical shapes of the field:
// a nested rich-text body, plain text with significant line breaks, or a
// bare description string.
func pedagogicalContextHTML(v any, limit int) string {
	m, ok := v.(map[string]any)
	if !ok {
		return richtext.HTMLContent(v, limit)
	}
	if body, ok := m["body"]; ok {
		return richtext.HTMLContent(body, limit)
	}
	if text, ok := m["text"].(string); ok && text != "" {
		bounded := richtext.Bound(text, limit, "\n... (contenu tronqué)")
		escaped := richtext.EscapeHTML(bounded)
		lines := strings.Split(escaped, "\n")
		var b strings.Builder
		for _, line := range lines {
			if line == "" {
				line = "&nbsp;"
			}
			b.WriteString("<p>" + line + "</p>")
		}
		return b.String()
	}
	if desc, ok := m["description"].(string); ok && desc != "" {
		return "<p>" + richtext.EscapeHTML(richtext.Bound(desc, limit, richtext.MarkerEllipsis)) + "</p>"
	}
	return ""
}

func pedagogicalContextMarkdown(v any, limit int) string {
	m, ok := v.(map[string]any)
	if !ok {
		return markdownField(v, limit)
	}
	if body, ok := m["body"]; ok {
		return markdownField(body, limit)
	}
	if text, ok := m["text"].(string); ok && text != "" {
		return richtext.Bound(text, limit, "\n\n... (contenu tronqué)")
	}
	if desc, ok := m["description"].(string); ok && desc != "" {
		return richtext.Bound(desc, limit, "\n\n... (contenu tronqué)")
	}
	return ""
}

func decodeContent(raw datatypes.JSON) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func checklistEntries(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
