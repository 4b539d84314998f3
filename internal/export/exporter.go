package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/types"
)

// Result is an in-memory export: the markup that was printed and the PDF bytes.
type Result struct {
	Title    string
	Filename string
	Markup   string
	PDF      []byte
}

// Artifact is the file reference handed to a share collaborator.
type Artifact struct {
	Path     string `json:"path"`
	HTMLPath string `json:"html_path,omitempty"`
	Title    string `json:"title"`
	Size     int    `json:"size"`
}

// Exporter renders a document snapshot and prints it through a Printer.
type Exporter struct {
	renderer *rendering.Renderer
	printer  Printer
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewExporter creates an Exporter. m may be nil.
func NewExporter(renderer *rendering.Renderer, printer Printer, m *metrics.Metrics, logger zerolog.Logger) *Exporter {
	return &Exporter{
		renderer: renderer,
		printer:  printer,
		metrics:  m,
		logger:   logger,
	}
}

// Render returns the HTML markup and its title without printing.
func (e *Exporter) Render(doc types.CVDocument) (markup string, title string, err error) {
	start := time.Now()
	markup, err = e.renderer.Render(doc)
	e.metrics.ObserveRender(start, err)
	if err != nil {
		return "", "", err
	}

	title, err = DocumentTitle(markup)
	if err != nil {
		return "", "", err
	}
	return markup, title, nil
}

// PDF renders doc and prints it.
func (e *Exporter) PDF(ctx context.Context, doc types.CVDocument) (*Result, error) {
	markup, title, err := e.Render(doc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pdf, err := e.printer.PrintPDF(ctx, markup)
	e.metrics.ObserveExport(start, len(pdf), err)
	if err != nil {
		e.logger.Error().Err(err).Str("title", title).Msg("pdf export failed")
		return nil, err
	}

	e.logger.Info().Str("title", title).Int("bytes", len(pdf)).Dur("took", time.Since(start)).Msg("pdf exported")
	return &Result{
		Title:    title,
		Filename: Filename(title, ".pdf"),
		Markup:   markup,
		PDF:      pdf,
	}, nil
}

// ExportToDir writes the PDF (and optionally the HTML it was printed from) into dir.
// The HTML copy is written while the browser prints.
func (e *Exporter) ExportToDir(ctx context.Context, doc types.CVDocument, dir string, withHTML bool) (*Artifact, error) {
	markup, title, err := e.Render(doc)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WriteError{Path: dir, Cause: err}
	}

	artifact := &Artifact{
		Path:  filepath.Join(dir, Filename(title, ".pdf")),
		Title: title,
	}
	if withHTML {
		artifact.HTMLPath = filepath.Join(dir, Filename(title, ".html"))
	}

	g, gCtx := errgroup.WithContext(ctx)

	if withHTML {
		g.Go(func() error {
			return writeFile(artifact.HTMLPath, []byte(markup))
		})
	}

	g.Go(func() error {
		start := time.Now()
		pdf, err := e.printer.PrintPDF(gCtx, markup)
		e.metrics.ObserveExport(start, len(pdf), err)
		if err != nil {
			return err
		}
		artifact.Size = len(pdf)
		return writeFile(artifact.Path, pdf)
	})

	if err := g.Wait(); err != nil {
		e.logger.Error().Err(err).Str("dir", dir).Msg("export failed")
		return nil, err
	}

	e.logger.Info().Str("path", artifact.Path).Int("bytes", artifact.Size).Msg("pdf written")
	return artifact, nil
}

// DocumentTitle reads the <title> of rendered markup, falling back to the default title.
// The title comes from the markup rather than rendering.DocumentTitle so a custom
// template that sets its own <title> also names the exported file.
func DocumentTitle(markup string) (string, error) {
	page, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered markup: %w", err)
	}
	title := strings.TrimSpace(page.Find("title").First().Text())
	if title == "" {
		return rendering.DefaultTitle, nil
	}
	return title, nil
}

// Filename derives an ASCII file name from a display title, e.g. "Ana Pérez" -> "ana-perez.pdf".
func Filename(title, ext string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(sb.String(), "-")
	if slug == "" {
		slug = "cv"
	}
	return slug + ext
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Cause: err}
	}
	return nil
}
