package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFGenerator prints HTML reports to PDF through headless Chrome
type PDFGenerator struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewPDFGenerator creates a PDF generator with the given render timeout
func NewPDFGenerator(timeout time.Duration, logger *slog.Logger) *PDFGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &PDFGenerator{
		timeout: timeout,
		logger:  logger.With(slog.String("component", "pdf_generator")),
	}
}

// Generate renders an HTML document to PDF bytes. Each call launches a
// fresh headless browser so a wedged renderer cannot poison later runs.
func (g *PDFGenerator) Generate(ctx context.Context, html []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	taskCtx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		g.logger.Error("PDF rendering failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return nil, fmt.Errorf("failed to print report to pdf: %w", err)
	}

	g.logger.Info("PDF rendered",
		slog.Int("bytes", len(pdf)),
		slog.Duration("elapsed", time.Since(start)))
	return pdf, nil
}
