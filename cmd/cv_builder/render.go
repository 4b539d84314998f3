package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV document to HTML",
	Long:  "Validates a CV JSON document against the schema and renders it to a self-contained, styled HTML file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runRender(renderOpts, cmd.OutOrStdout())
	},
}

type renderOptions struct {
	In       string
	Out      string
	Template string
}

var renderOpts renderOptions

func init() {
	renderCmd.Flags().StringVarP(&renderOpts.In, "in", "i", "", "Path to CV JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOpts.Out, "out", "o", "", "Path to output HTML file (required)")
	renderCmd.Flags().StringVarP(&renderOpts.Template, "template", "t", "", "Custom html/template file (overrides config)")

	_ = renderCmd.MarkFlagRequired("in")
	_ = renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(renderCmd)
}

func runRender(opts renderOptions, out io.Writer) error {
	cfg, logger, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	if opts.Template != "" {
		cfg.Template = opts.Template
	}

	docStore, err := loadDocument(opts.In)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cfg.Template)
	if err != nil {
		return err
	}

	markup, err := renderer.Render(docStore.Snapshot())
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.Out, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	logger.Debug().Str("out", opts.Out).Int("bytes", len(markup)).Msg("document rendered")
	_, _ = fmt.Fprintf(out, "Successfully rendered HTML to %s\n", opts.Out)
	return nil
}
