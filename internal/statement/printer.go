package statement

import (
	"context"
	"fmt"
	"log"
	"time"

	"farmops/internal/browser"
	"farmops/internal/errors"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Printer renders statement documents to PDF in a headless Chrome tab.
//
// Flow per document:
//  1. Open a new tab from the shared browser
//  2. Write the document into the blank page
//  3. Wait the settle delay so fonts and the inlined logo lay out
//  4. Print to PDF (A4 landscape, backgrounds on)
//  5. Close the tab
//
// A nil *Printer means PDF rendering is disabled; PrintPDF then reports
// RendererUnavailableError and callers fall back to HTML.
type Printer struct {
	holder  *browser.ContextHolder
	settle  time.Duration
	timeout time.Duration
}

// NewPrinter creates a printer over holder.
func NewPrinter(holder *browser.ContextHolder, settle, timeout time.Duration) *Printer {
	return &Printer{holder: holder, settle: settle, timeout: timeout}
}

// PrintPDF renders doc and returns the PDF bytes.
//
// Error handling:
//   - No browser could be started or no tab opened: RendererUnavailableError,
//     and the browser is restarted for the next export
//   - Failure after the tab opened: plain error; the tab is still closed
//
// There is no retry; the operator re-runs the export.
func (p *Printer) PrintPDF(ctx context.Context, doc string) ([]byte, error) {
	if p == nil || p.holder == nil {
		return nil, errors.NewRendererUnavailableError(fmt.Errorf("PDF rendering is disabled"))
	}

	tabCtx, closeTab := chromedp.NewContext(p.holder.Get())
	defer closeTab()

	// Starting the tab is the allocation step; failing here means no
	// renderer at all.
	if err := chromedp.Run(tabCtx); err != nil {
		log.Printf("  ✗ Could not open a browser tab: %v", err)
		p.holder.Restart()
		return nil, errors.NewRendererUnavailableError(err)
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if p.timeout > 0 {
		runCtx, cancel = context.WithTimeout(tabCtx, p.timeout)
	} else {
		runCtx, cancel = context.WithCancel(tabCtx)
	}
	defer cancel()
	// Abort the render when the operator's request goes away.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.Sleep(p.settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithLandscape(true).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render statement: %w", err)
	}

	log.Printf("  ✓ Rendered statement PDF (%d bytes)", len(pdf))
	return pdf, nil
}
