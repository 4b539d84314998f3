// Package main provides the cv_builder CLI: an HTTP API for editing a CV plus commands that
// render, export and check CV documents stored as JSON.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "cv_builder",
	Short: "CV Builder HTTP API server and document tools",
	Long:  "CV Builder keeps a structured CV document (personal info, experience, education, skills), renders it as styled HTML and exports it to PDF through headless Chrome.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file (optional; CV_* environment variables override it)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
