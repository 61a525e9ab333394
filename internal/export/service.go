package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusforge/portal-export/internal/platform/apierr"
	"github.com/campusforge/portal-export/internal/platform/logger"
	"github.com/campusforge/portal-export/internal/repos"
)

// RenderEngine turns an HTML file on disk into PDF bytes. Satisfied by the
// headless-Chrome engine; tests substitute a fake.
type RenderEngine interface {
	RenderPDF(ctx context.Context, htmlPath string) ([]byte, error)
}

// Artifact is a finished export ready to stream to the client.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Service interface {
	ExportCourse(ctx context.Context, courseID uuid.UUID, format Format) (*Artifact, error)
	ExportProgram(ctx context.Context, programID uuid.UUID, format Format) (*Artifact, error)
}

type service struct {
	log       *logger.Logger
	courses   repos.CourseRepo
	programs  repos.ProgramRepo
	assembler *Assembler
	engine    RenderEngine
	tmpDir    string
}

func NewService(log *logger.Logger, courses repos.CourseRepo, programs repos.ProgramRepo, assembler *Assembler, engine RenderEngine, tmpDir string) Service {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	return &service{
		log:       log.With("service", "ExportService"),
		courses:   courses,
		programs:  programs,
		assembler: assembler,
		engine:    engine,
		tmpDir:    tmpDir,
	}
}

func (s *service) ExportCourse(ctx context.Context, courseID uuid.UUID, format Format) (*Artifact, error) {
	start := time.Now()
	s.log.Info("Export requested", "target", "course", "course_id", courseID, "format", format)

	course, err := s.courses.GetTree(ctx, nil, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Newf(apierr.KindNotFound, "cours introuvable", "course %s not found", courseID)
		}
		return nil, apierr.New(apierr.KindUnknown, "échec du chargement du cours", err)
	}

	switch format {
	case FormatMarkdown:
		if !course.AllowMarkdownDownload {
			return nil, apierr.Newf(apierr.KindExportDisabled, "l'extraction de ce cours n'est pas autorisée",
				"course %s does not allow markdown export", courseID)
		}
	default:
		if !course.AllowPdfDownload {
			return nil, apierr.Newf(apierr.KindExportDisabled, "l'extraction de ce cours n'est pas autorisée",
				"course %s does not allow pdf export", courseID)
		}
	}

	counts := CountFragments(course)
	if counts.PublishedItems == 0 {
		err := apierr.Newf(apierr.KindNotFound, "aucun contenu publié dans ce cours",
			"course %s has no published items", courseID)
		err.Details = counts
		return nil, err
	}

	var artifact *Artifact
	if format == FormatMarkdown {
		markdown, err := s.assembler.CourseMarkdown(course)
		if err != nil {
			return nil, err
		}
		artifact = &Artifact{
			Filename:    sanitizeFilename(course.Title) + ".md",
			ContentType: "text/markdown; charset=utf-8",
			Data:        []byte(markdown),
		}
	} else {
		page, err := s.assembler.CourseHTML(course)
		if err != nil {
			return nil, err
		}
		data, err := s.renderPage(ctx, page)
		if err != nil {
			return nil, err
		}
		artifact = &Artifact{
			Filename:    sanitizeFilename(course.Title) + ".pdf",
			ContentType: "application/pdf",
			Data:        data,
		}
	}

	s.log.Info("Export delivered", "target", "course", "course_id", courseID, "format", format,
		"bytes", len(artifact.Data), "duration_ms", time.Since(start).Milliseconds())
	return artifact, nil
}

func (s *service) ExportProgram(ctx context.Context, programID uuid.UUID, format Format) (*Artifact, error) {
	start := time.Now()
	s.log.Info("Export requested", "target", "program", "program_id", programID, "format", format)

	program, err := s.programs.GetTree(ctx, nil, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Newf(apierr.KindNotFound, "parcours introuvable", "program %s not found", programID)
		}
		return nil, apierr.New(apierr.KindUnknown, "échec du chargement du parcours", err)
	}

	if courses := exportableCourses(program, format); len(courses) > 0 {
		counts := CountProgramFragments(courses)
		if counts.PublishedItems == 0 {
			err := apierr.Newf(apierr.KindNotFound, "aucun contenu publié dans ce parcours",
				"program %s has no published items across %d exportable courses", programID, counts.Courses)
			err.Details = counts
			return nil, err
		}
	}

	var artifact *Artifact
	if format == FormatMarkdown {
		markdown, err := s.assembler.ProgramMarkdown(ctx, program)
		if err != nil {
			return nil, err
		}
		artifact = &Artifact{
			Filename:    sanitizeFilename(program.Title) + ".md",
			ContentType: "text/markdown; charset=utf-8",
			Data:        []byte(markdown),
		}
	} else {
		page, err := s.assembler.ProgramHTML(ctx, program)
		if err != nil {
			return nil, err
		}
		data, err := s.renderPage(ctx, page)
		if err != nil {
			return nil, err
		}
		artifact = &Artifact{
			Filename:    sanitizeFilename(program.Title) + ".pdf",
			ContentType: "application/pdf",
			Data:        data,
		}
	}

	s.log.Info("Export delivered", "target", "program", "program_id", programID, "format", format,
		"bytes", len(artifact.Data), "duration_ms", time.Since(start).Milliseconds())
	return artifact, nil
}

// renderPage writes the page to a temp file, runs the renderer against it,
// and validates the result. The temp file is removed on every path; a
// failed render is never retried.
func (s *service) renderPage(ctx context.Context, page string) ([]byte, error) {
	rewritten, err := s.rewriteAssetURLs(page)
	if err != nil {
		s.log.Warn("Asset URL rewrite failed, rendering original page", "error", err)
		rewritten = page
	}

	htmlPath := filepath.Join(s.tmpDir, fmt.Sprintf("export-%s.html", uuid.NewString()))
	if err := os.WriteFile(htmlPath, []byte(rewritten), 0o600); err != nil {
		return nil, apierr.New(apierr.KindUnknown, "la génération du document a échoué",
			fmt.Errorf("failed to write intermediate file: %w", err))
	}
	defer func() {
		if err := os.Remove(htmlPath); err != nil && !os.IsNotExist(err) {
			s.log.Warn("Failed to remove intermediate file", "path", htmlPath, "error", err)
		}
	}()

	data, err := s.engine.RenderPDF(ctx, htmlPath)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apierr.New(apierr.KindRenderTimeout, "la génération du document a expiré", err)
		}
		return nil, apierr.New(apierr.KindRenderProcessFailure, "la génération du document a échoué", err)
	}
	if err := ValidateArtifact(data); err != nil {
		return nil, err
	}
	return data, nil
}

// rewriteAssetURLs makes every relative image source absolute so the
// renderer, which loads the page from a file:// URL, can fetch assets.
func (s *service) rewriteAssetURLs(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", err
	}
	changed := false
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" || strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "data:") {
			return
		}
		sel.SetAttr("src", s.assembler.assets.PublicURL(strings.TrimPrefix(src, "/")))
		changed = true
	})
	if !changed {
		return page, nil
	}
	return doc.Html()
}

var filenamePattern = regexp.MustCompile(`[^a-zA-Z0-9]`)

// sanitizeFilename reduces a title to a safe download filename stem.
func sanitizeFilename(title string) string {
	out := filenamePattern.ReplaceAllString(title, "_")
	if out == "" {
		return "export"
	}
	return out
}
