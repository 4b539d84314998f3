package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
)

// loadSettings resolves the effective config and builds the logger from it.
func loadSettings(path string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, zerolog.Logger{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.New(cfg.LogLevel, cfg.LogPretty, os.Stderr), nil
}

// loadDocument schema-validates a CV JSON file and loads it into a fresh store.
func loadDocument(path string) (*store.DocumentStore, error) {
	if path == "" {
		return nil, fmt.Errorf("--in is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CV file: %w", err)
	}
	if err := schemas.ValidateDocument(data); err != nil {
		return nil, fmt.Errorf("CV file %s does not match schema: %w", path, err)
	}

	var doc types.CVDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse CV file: %w", err)
	}

	return store.New(store.WithDocument(doc)), nil
}

// newRenderer returns the renderer for templatePath, or the built-in one when it is empty.
func newRenderer(templatePath string) (*rendering.Renderer, error) {
	if templatePath != "" {
		return rendering.NewRendererFromFile(templatePath)
	}
	return rendering.NewRenderer()
}

// newPrinter builds the headless Chrome printer from config.
func newPrinter(cfg config.Config, logger zerolog.Logger) *export.ChromePrinter {
	return export.NewChromePrinter(export.ChromeOptions{
		ExecPath: cfg.ChromePath,
		Timeout:  cfg.PDFTimeout(),
		Paper:    cfg.Paper,
	}, logger)
}
