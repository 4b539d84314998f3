package export

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// Paper dimensions in inches.
var paperSizes = map[string][2]float64{
	"letter": {8.5, 11},
	"a4":     {8.27, 11.69},
}

// DefaultPrintTimeout bounds one print including browser startup.
const DefaultPrintTimeout = 30 * time.Second

// Printer converts a complete HTML document into PDF bytes.
type Printer interface {
	PrintPDF(ctx context.Context, markup string) ([]byte, error)
}

// ChromeOptions configures the headless browser.
type ChromeOptions struct {
	ExecPath string        // Chrome/Chromium binary; empty lets chromedp find one
	Timeout  time.Duration // Zero means DefaultPrintTimeout
	Paper    string        // "letter" (default) or "a4"
}

// ChromePrinter prints markup to PDF with a fresh headless Chrome per call.
// Requires Chrome/Chromium to be installed on the system.
type ChromePrinter struct {
	opts   ChromeOptions
	logger zerolog.Logger
}

// NewChromePrinter creates a ChromePrinter.
func NewChromePrinter(opts ChromeOptions, logger zerolog.Logger) *ChromePrinter {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultPrintTimeout
	}
	if _, ok := paperSizes[opts.Paper]; !ok {
		opts.Paper = "letter"
	}
	return &ChromePrinter{opts: opts, logger: logger}
}

// PrintPDF loads markup into a blank page and prints it with background graphics enabled.
func (p *ChromePrinter) PrintPDF(ctx context.Context, markup string) ([]byte, error) {
	p.logger.Debug().Str("paper", p.opts.Paper).Int("markup_bytes", len(markup)).Msg("starting headless browser")

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if p.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(p.opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, p.opts.Timeout)
	defer cancel()

	size := paperSizes[p.opts.Paper]
	var pdf []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, markup).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(size[0]).
				WithPaperHeight(size[1]).
				WithPreferCSSPageSize(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, &PrintError{Message: "headless browser failed", Cause: err}
	}
	if len(pdf) == 0 {
		return nil, &PrintError{Message: "browser returned an empty document"}
	}

	p.logger.Debug().Int("pdf_bytes", len(pdf)).Msg("pdf printed")
	return pdf, nil
}
