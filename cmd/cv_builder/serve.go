package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/server"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for editing, rendering and exporting one CV document. The document starts empty and lives in memory.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadSettings(configPath)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	renderer, err := newRenderer(cfg.Template)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Port,
		Renderer:  renderer,
		Printer:   newPrinter(cfg, logger),
		RateLimit: ratelimit.NewConfig(!cfg.DisableRateLimit, cfg.DefaultRateLimit, cfg.ExportRateLimit, cfg.RateLimitWhitelist),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(cmd.Context())
}
