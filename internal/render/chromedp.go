// Package render drives a headless Chrome instance to print assembled HTML
// pages as PDF.
package render

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/campusforge/portal-export/internal/platform/logger"
)

// A4 landscape, inches. Margins match the 1cm print stylesheet.
const (
	paperWidthIn  = 11.69
	paperHeightIn = 8.27
	marginIn      = 0.39
)

// waitImagesJS resolves once every image on the page has finished loading
// (or failed), so the printed PDF never contains half-loaded slides.
const waitImagesJS = `
new Promise((resolve) => {
  const images = Array.from(document.images);
  if (images.length === 0) { resolve(true); return; }
  let pending = images.length;
  const done = () => { if (--pending === 0) resolve(true); };
  for (const img of images) {
    if (img.complete) { done(); continue; }
    img.addEventListener('load', done, { once: true });
    img.addEventListener('error', done, { once: true });
  }
  setTimeout(() => resolve(false), 15000);
})`

type ChromeEngine struct {
	log     *logger.Logger
	timeout time.Duration
}

func NewChromeEngine(log *logger.Logger, timeout time.Duration) *ChromeEngine {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChromeEngine{
		log:     log.With("service", "ChromeEngine"),
		timeout: timeout,
	}
}

// RenderPDF opens the HTML file in a dedicated browser context and prints it.
// Each call gets a fresh browser so a crashed render cannot poison the next.
func (e *ChromeEngine) RenderPDF(ctx context.Context, htmlPath string) ([]byte, error) {
	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve page path: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, e.timeout)
	defer cancelRun()

	start := time.Now()
	var pdf []byte
	var imagesSettled bool
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+absPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(waitImagesJS, &imagesSettled, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithLandscape(true).
				WithPrintBackground(true).
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	if !imagesSettled {
		e.log.Warn("Some images did not finish loading before print", "path", absPath)
	}
	e.log.Info("Rendered PDF", "bytes", len(pdf), "duration_ms", time.Since(start).Milliseconds())
	return pdf, nil
}
