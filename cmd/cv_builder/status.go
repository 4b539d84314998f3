package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/observability"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize a CV document and its completion",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runStatus(statusIn, cmd.OutOrStdout())
	},
}

var statusIn string

func init() {
	statusCmd.Flags().StringVarP(&statusIn, "in", "i", "", "Path to CV JSON file (required)")
	_ = statusCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(path string, out io.Writer) error {
	docStore, err := loadDocument(path)
	if err != nil {
		return err
	}

	doc := docStore.Snapshot()
	printer := observability.NewPrinter(out)
	printer.PrintDocumentSummary(doc)
	printer.PrintCompletion(doc.Completion())
	return nil
}
