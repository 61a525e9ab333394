package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/campusforge/portal-export/internal/platform/apierr"
	"github.com/campusforge/portal-export/internal/platform/logger"
	"github.com/campusforge/portal-export/internal/types"
)

type fakeResolver struct {
	signErr error
}

func (f *fakeResolver) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeResolver) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://signed.test/" + key, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return log
}

func testAssembler(t *testing.T) *Assembler {
	t.Helper()
	return NewAssembler(testLogger(t), &fakeResolver{}, time.Minute, 0)
}

func richDoc(text string) datatypes.JSON {
	return datatypes.JSON(`{"body": {"type": "doc", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "` + text + `"}]}]}}`)
}

func testCourse() *types.Course {
	return &types.Course{
		ID:                    uuid.New(),
		Title:                 "Introduction au réseau",
		Description:           "Les bases du réseau.",
		AllowPdfDownload:      true,
		AllowMarkdownDownload: true,
		Modules: []*types.CourseModule{
			{
				Title: "Module Un",
				Items: []*types.Item{
					{Title: "Slide publiée", Published: true, Content: richDoc("Contenu visible")},
					{Title: "Brouillon caché", Published: false, Content: richDoc("Contenu invisible")},
				},
			},
			{
				Title: "Module Deux",
				Items: []*types.Item{
					{Title: "Slide vide", Published: true},
				},
			},
		},
	}
}

func TestCourseHTMLFiltersUnpublishedItems(t *testing.T) {
	html, err := testAssembler(t).CourseHTML(testCourse())
	if err != nil {
		t.Fatalf("CourseHTML failed: %v", err)
	}
	if !strings.Contains(html, "Slide publiée") || !strings.Contains(html, "Contenu visible") {
		t.Fatal("published content missing from html")
	}
	if strings.Contains(html, "Brouillon caché") || strings.Contains(html, "Contenu invisible") {
		t.Fatal("unpublished content leaked into html")
	}
}

func TestCourseMarkdownFiltersUnpublishedItems(t *testing.T) {
	md, err := testAssembler(t).CourseMarkdown(testCourse())
	if err != nil {
		t.Fatalf("CourseMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "# Introduction au réseau") {
		t.Fatal("course title missing")
	}
	if strings.Contains(md, "Brouillon caché") {
		t.Fatal("unpublished item leaked into markdown")
	}
}

func TestCourseOutputPreservesOrder(t *testing.T) {
	html, err := testAssembler(t).CourseHTML(testCourse())
	if err != nil {
		t.Fatalf("CourseHTML failed: %v", err)
	}
	first := strings.Index(html, "Module Un")
	second := strings.Index(html, "Module Deux")
	item := strings.Index(html, "Slide publiée")
	if first < 0 || second < 0 || item < 0 {
		t.Fatal("expected markers missing")
	}
	if !(first < item && item < second) {
		t.Fatalf("unexpected order: module1=%d item=%d module2=%d", first, item, second)
	}
}

func TestEmptyItemGetsPlaceholder(t *testing.T) {
	a := testAssembler(t)
	html, err := a.CourseHTML(testCourse())
	if err != nil {
		t.Fatalf("CourseHTML failed: %v", err)
	}
	if !strings.Contains(html, "Aucun contenu de slide") {
		t.Fatal("placeholder missing for empty item in html")
	}
	md, err := a.CourseMarkdown(testCourse())
	if err != nil {
		t.Fatalf("CourseMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "_Aucun contenu de slide_") {
		t.Fatal("placeholder missing for empty item in markdown")
	}
}

func TestChecklistRendering(t *testing.T) {
	course := testCourse()
	course.Modules[0].Items[0].Content = datatypes.JSON(`{"checklist": ["Préparer l'environnement", "Lancer le serveur"]}`)

	a := testAssembler(t)
	md, err := a.CourseMarkdown(course)
	if err != nil {
		t.Fatalf("CourseMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "- [ ] Préparer l'environnement\n- [ ] Lancer le serveur\n") {
		t.Fatalf("checklist not rendered as task list: %q", md)
	}

	html, err := a.CourseHTML(course)
	if err != nil {
		t.Fatalf("CourseHTML failed: %v", err)
	}
	if !strings.Contains(html, "☐ Préparer l&#039;environnement") {
		t.Fatalf("checklist not rendered in html: %q", html)
	}
}

func TestDescriptionOnlyUsedWithoutBody(t *testing.T) {
	course := testCourse()
	course.Modules[0].Items[0].Content = datatypes.JSON(`{"body": {"type": "doc", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "Le corps"}]}]}, "description": "La description"}`)

	md, err := testAssembler(t).CourseMarkdown(course)
	if err != nil {
		t.Fatalf("CourseMarkdown failed: %v", err)
	}
	if strings.Contains(md, "La description") {
		t.Fatal("description rendered despite body being present")
	}

	course.Modules[0].Items[0].Content = datatypes.JSON(`{"description": "La description"}`)
	md, err = testAssembler(t).CourseMarkdown(course)
	if err != nil {
		t.Fatalf("CourseMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "La description") {
		t.Fatal("description not rendered when body absent")
	}
}

func TestPedagogicalContextShapes(t *testing.T) {
	course := testCourse()
	course.Modules[0].Items[0].Content = datatypes.JSON(`{"pedagogical_context": {"text": "Première ligne\n\nSeconde ligne"}}`)

	html, err := testAssembler(t).CourseHTML(course)
	if err != nil {
		t.Fatalf("CourseHTML failed: %v", err)
	}
	if !strings.Contains(html, "Contexte pédagogique") {
		t.Fatal("context section missing")
	}
	if !strings.Contains(html, "<p>Première ligne</p>") || !strings.Contains(html, "<p>&nbsp;</p>") {
		t.Fatalf("line breaks not preserved: %q", html)
	}
}

func TestEmptyPedagogicalContextGetsPlaceholder(t *testing.T) {
	course := testCourse()
	course.Modules[0].Items[0].Content = datatypes.JSON(`{"pedagogical_context": {}}`)

	html, err := testAssembler(t).CourseHTML(course)
	if err != nil {
		t.Fatalf("CourseHTML failed: %v", err)
	}
	if !strings.Contains(html, "Aucun contexte pédagogique disponible.") {
		t.Fatal("context placeholder missing")
	}
}

func TestPDFAssetRendersPlaceholderNotImage(t *testing.T) {
	course := testCourse()
	course.Modules[0].Items[0].AssetPath = "slides/deck.pdf"
	course.Modules[0].Items[0].Content = nil

	html, err := testAssembler(t).CourseHTML(course)
	if err != nil {
		t.Fatalf("CourseHTML failed: %v", err)
	}
	if !strings.Contains(html, "Le contenu PDF ne peut pas être affiché") {
		t.Fatal("pdf placeholder missing")
	}
	if strings.Contains(html, `src="https://cdn.test/slides/deck.pdf"`) {
		t.Fatal("pdf asset must not render as an image")
	}
}

func TestImageAssetUsesResolver(t *testing.T) {
	course := testCourse()
	course.Modules[0].Items[0].AssetPath = "slides/one.png"

	html, err := testAssembler(t).CourseHTML(course)
	if err != nil {
		t.Fatalf("CourseHTML failed: %v", err)
	}
	if !strings.Contains(html, `src="https://cdn.test/slides/one.png"`) {
		t.Fatalf("resolved asset url missing: %q", html)
	}
}

func TestDocumentCeilingTripsContentTooLarge(t *testing.T) {
	a := NewAssembler(testLogger(t), &fakeResolver{}, time.Minute, 100)
	_, err := a.CourseHTML(testCourse())
	var classified *apierr.Error
	if !errors.As(err, &classified) || classified.Kind != apierr.KindContentTooLarge {
		t.Fatalf("expected content_too_large, got %v", err)
	}
}

func TestCountFragments(t *testing.T) {
	counts := CountFragments(testCourse())
	if counts.Modules != 2 || counts.Items != 3 || counts.PublishedItems != 2 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}
