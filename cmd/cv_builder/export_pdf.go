package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/observability"
)

var exportPDFCmd = &cobra.Command{
	Use:   "export-pdf",
	Short: "Export a CV document to PDF",
	Long:  "Renders a CV JSON document and prints it to PDF with headless Chrome. The file is named after the CV owner.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadSettings(configPath)
		if err != nil {
			return err
		}
		opts := exportOpts
		if opts.ChromePath != "" {
			cfg.ChromePath = opts.ChromePath
		}
		if opts.Paper != "" {
			cfg.Paper = opts.Paper
		}
		if opts.OutDir == "" {
			opts.OutDir = cfg.OutputDir
		}
		if opts.Template == "" {
			opts.Template = cfg.Template
		}
		return runExportPDF(cmd.Context(), opts, newPrinter(cfg, logger), logger, cmd.OutOrStdout())
	},
}

type exportOptions struct {
	In         string
	OutDir     string
	Template   string
	WithHTML   bool
	ChromePath string
	Paper      string
}

var exportOpts exportOptions

func init() {
	exportPDFCmd.Flags().StringVarP(&exportOpts.In, "in", "i", "", "Path to CV JSON file (required)")
	exportPDFCmd.Flags().StringVarP(&exportOpts.OutDir, "out-dir", "o", "", "Directory for exported files (default from config)")
	exportPDFCmd.Flags().StringVarP(&exportOpts.Template, "template", "t", "", "Custom html/template file (overrides config)")
	exportPDFCmd.Flags().BoolVar(&exportOpts.WithHTML, "html", false, "Also write the HTML the PDF was printed from")
	exportPDFCmd.Flags().StringVar(&exportOpts.ChromePath, "chrome", "", "Chrome/Chromium binary (overrides config)")
	exportPDFCmd.Flags().StringVar(&exportOpts.Paper, "paper", "", "Paper size: letter or a4 (overrides config)")

	_ = exportPDFCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(exportPDFCmd)
}

func runExportPDF(ctx context.Context, opts exportOptions, printer export.Printer, logger zerolog.Logger, out io.Writer) error {
	docStore, err := loadDocument(opts.In)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(opts.Template)
	if err != nil {
		return err
	}

	exporter := export.NewExporter(renderer, printer, nil, logger)
	artifact, err := exporter.ExportToDir(ctx, docStore.Snapshot(), opts.OutDir, opts.WithHTML)
	if err != nil {
		return err
	}

	observability.NewPrinter(out).PrintArtifact(artifact.Title, artifact.Path, artifact.Size)
	return nil
}
