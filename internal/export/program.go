package export

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/campusforge/portal-export/internal/platform/apierr"
	"github.com/campusforge/portal-export/internal/richtext"
	"github.com/campusforge/portal-export/internal/types"
)

// Format selects the output flavour of an export.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatMarkdown Format = "markdown"
)

// exportableCourses filters a program's courses down to those whose flags
// allow the requested format, preserving position order.
func exportableCourses(program *types.Program, format Format) []*types.Course {
	var courses []*types.Course
	for _, pc := range program.Courses {
		if pc.Course == nil {
			continue
		}
		switch format {
		case FormatMarkdown:
			if !pc.Course.AllowMarkdownDownload {
				continue
			}
		default:
			if !pc.Course.AllowPdfDownload {
				continue
			}
		}
		courses = append(courses, pc.Course)
	}
	return courses
}

// resolveResourceURLs signs download URLs for every course resource
// concurrently. A resource whose signing fails degrades to a public URL
// rather than failing the export.
func (a *Assembler) resolveResourceURLs(ctx context.Context, courses []*types.Course) map[string]string {
	urls := make(map[string]string)
	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(8)

	for _, course := range courses {
		for _, resource := range course.Resources {
			group.Go(func() error {
				url, err := a.assets.SignedURL(groupCtx, resource.FilePath, a.signedURLTTL)
				if err != nil {
					a.log.Warn("Failed to sign resource URL, falling back to public URL",
						"file_path", resource.FilePath, "error", err)
					url = a.assets.PublicURL(resource.FilePath)
				}
				mu.Lock()
				urls[resource.FilePath] = url
				mu.Unlock()
				return nil
			})
		}
	}
	_ = group.Wait()
	return urls
}

// ProgramHTML assembles the complete printable page for a program: table of
// contents, each exportable course in order with its resources, then the
// program glossary.
func (a *Assembler) ProgramHTML(ctx context.Context, program *types.Program) (string, error) {
	courses := exportableCourses(program, FormatPDF)
	if len(courses) == 0 {
		return "", apierr.Newf(apierr.KindExportDisabled, "l'extraction de ce parcours n'est pas autorisée",
			"program %s has no course allowing pdf export", program.ID)
	}
	resourceURLs := a.resolveResourceURLs(ctx, courses)
	glossary := ParseGlossary(program.Glossary)

	var d docBuilder
	if err := d.add(programTOCHTML(courses, len(glossary) > 0)); err != nil {
		return "", err
	}
	for _, course := range courses {
		if err := d.add(`<div class="course-section-header">` + richtext.EscapeHTML(course.Title) + "</div>\n"); err != nil {
			return "", err
		}
		if err := a.courseBodyHTML(&d, course); err != nil {
			return "", err
		}
		if err := d.add(resourcesHTML(course, resourceURLs)); err != nil {
			return "", err
		}
	}
	if err := d.add(glossaryHTML(glossary)); err != nil {
		return "", err
	}
	body, err := d.finish(a.maxDocumentBytes)
	if err != nil {
		return "", err
	}
	return wrapHTMLPage(program.Title, "Extraction complète du parcours", body), nil
}

// ProgramMarkdown assembles the Markdown export of a program.
func (a *Assembler) ProgramMarkdown(ctx context.Context, program *types.Program) (string, error) {
	courses := exportableCourses(program, FormatMarkdown)
	if len(courses) == 0 {
		return "", apierr.Newf(apierr.KindExportDisabled, "l'extraction de ce parcours n'est pas autorisée",
			"program %s has no course allowing markdown export", program.ID)
	}
	resourceURLs := a.resolveResourceURLs(ctx, courses)
	glossary := ParseGlossary(program.Glossary)

	var d docBuilder
	if err := d.add("# " + program.Title + "\n\n"); err != nil {
		return "", err
	}
	if program.Description != "" {
		if err := d.add(program.Description + "\n\n"); err != nil {
			return "", err
		}
	}
	if err := d.add(programTOCMarkdown(courses, len(glossary) > 0)); err != nil {
		return "", err
	}
	for _, course := range courses {
		if err := d.add("## " + course.Title + "\n\n"); err != nil {
			return "", err
		}
		if err := a.courseBodyMarkdown(&d, course, 3); err != nil {
			return "", err
		}
		if err := d.add(resourcesMarkdown(course, resourceURLs)); err != nil {
			return "", err
		}
	}
	if err := d.add(glossaryMarkdown(glossary)); err != nil {
		return "", err
	}
	return d.finish(a.maxDocumentBytes)
}

func programTOCHTML(courses []*types.Course, hasGlossary bool) string {
	var b strings.Builder
	b.WriteString(`<div class="toc"><h2>Sommaire</h2><ul>`)
	for _, course := range courses {
		b.WriteString(`<li class="toc-course">` + richtext.EscapeHTML(course.Title) + "</li>")
		for _, module := range course.Modules {
			b.WriteString(`<li class="toc-module">` + richtext.EscapeHTML(module.Title) + "</li>")
			for _, item := range module.Items {
				if !item.Published {
					continue
				}
				b.WriteString(`<li class="toc-item">` + richtext.EscapeHTML(item.Title) + "</li>")
			}
		}
	}
	if hasGlossary {
		b.WriteString(`<li class="toc-course">Glossaire</li>`)
	}
	b.WriteString("</ul></div>\n")
	return b.String()
}

func programTOCMarkdown(courses []*types.Course, hasGlossary bool) string {
	var b strings.Builder
	b.WriteString("## Sommaire\n\n")
	for _, course := range courses {
		b.WriteString("- " + course.Title + "\n")
		for _, module := range course.Modules {
			b.WriteString("  - " + module.Title + "\n")
			for _, item := range module.Items {
				if !item.Published {
					continue
				}
				b.WriteString("    - " + item.Title + "\n")
			}
		}
	}
	if hasGlossary {
		b.WriteString("- Glossaire\n")
	}
	b.WriteString("\n")
	return b.String()
}

func resourcesHTML(course *types.Course, urls map[string]string) string {
	if len(course.Resources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="resources"><h4>Ressources</h4><ul>`)
	for _, resource := range course.Resources {
		url := urls[resource.FilePath]
		b.WriteString(`<li><a href="` + richtext.EscapeHTML(url) + `">` + richtext.EscapeHTML(resource.Label) + "</a></li>")
	}
	b.WriteString("</ul></div>\n")
	return b.String()
}

func resourcesMarkdown(course *types.Course, urls map[string]string) string {
	if len(course.Resources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("**Ressources**\n\n")
	for _, resource := range course.Resources {
		b.WriteString(fmt.Sprintf("- [%s](%s)\n", resource.Label, urls[resource.FilePath]))
	}
	b.WriteString("\n")
	return b.String()
}
