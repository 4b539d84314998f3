// Package config provides configuration loading and validation for the CLI and API server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Paper sizes accepted by the PDF exporter.
const (
	PaperLetter = "letter"
	PaperA4     = "a4"
)

// Config represents the configuration that can be loaded from a JSON file and the environment.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // zerolog level name (debug, info, warn, error)
	LogPretty bool   `json:"log_pretty,omitempty"` // Human readable console output instead of JSON

	// Rendering and export
	Template          string `json:"template,omitempty"`            // Optional custom html/template file
	ChromePath        string `json:"chrome_path,omitempty"`         // Chrome/Chromium binary, empty to auto-detect
	PDFTimeoutSeconds int    `json:"pdf_timeout_seconds,omitempty"` // Upper bound for one PDF print
	Paper             string `json:"paper,omitempty"`               // letter or a4
	OutputDir         string `json:"output_dir,omitempty"`          // Where exported files are written

	// Rate limiting (requests per minute per client)
	DisableRateLimit bool `json:"disable_rate_limit,omitempty"`
	DefaultRateLimit int  `json:"default_rate_limit,omitempty"`
	ExportRateLimit  int  `json:"export_rate_limit,omitempty"`

	RateLimitWhitelist []string `json:"rate_limit_whitelist,omitempty"` // Client IPs exempt from limits
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Port:              8080,
		LogLevel:          "info",
		PDFTimeoutSeconds: 30,
		Paper:             PaperLetter,
		OutputDir:         os.TempDir(),
		DefaultRateLimit:  600,
		ExportRateLimit:   10,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from CV_* environment variables.
// Unparseable numeric or boolean values are reported rather than ignored.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CV_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CV_PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("CV_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("CV_LOG_PRETTY"); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CV_LOG_PRETTY: %w", err)
		}
		c.LogPretty = pretty
	}
	if v := os.Getenv("CV_TEMPLATE"); v != "" {
		c.Template = v
	}
	if v := os.Getenv("CV_CHROME_PATH"); v != "" {
		c.ChromePath = v
	}
	if v := os.Getenv("CV_PDF_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CV_PDF_TIMEOUT_SECONDS: %w", err)
		}
		c.PDFTimeoutSeconds = secs
	}
	if v := os.Getenv("CV_PAPER"); v != "" {
		c.Paper = strings.ToLower(v)
	}
	if v := os.Getenv("CV_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("CV_DISABLE_RATE_LIMIT"); v != "" {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CV_DISABLE_RATE_LIMIT: %w", err)
		}
		c.DisableRateLimit = disabled
	}
	if v := os.Getenv("CV_DEFAULT_RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CV_DEFAULT_RATE_LIMIT: %w", err)
		}
		c.DefaultRateLimit = limit
	}
	if v := os.Getenv("CV_EXPORT_RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid CV_EXPORT_RATE_LIMIT: %w", err)
		}
		c.ExportRateLimit = limit
	}
	if v := os.Getenv("CV_RATE_LIMIT_WHITELIST"); v != "" {
		c.RateLimitWhitelist = nil
		for _, ip := range strings.Split(v, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				c.RateLimitWhitelist = append(c.RateLimitWhitelist, ip)
			}
		}
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.PDFTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'pdf_timeout_seconds' must be non-negative")
	}
	if c.DefaultRateLimit < 0 {
		return fmt.Errorf("config error: 'default_rate_limit' must be non-negative")
	}
	if c.ExportRateLimit < 0 {
		return fmt.Errorf("config error: 'export_rate_limit' must be non-negative")
	}

	switch c.Paper {
	case "", PaperLetter, PaperA4:
	default:
		return fmt.Errorf("config error: 'paper' must be %q or %q", PaperLetter, PaperA4)
	}

	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.PDFTimeoutSeconds == 0 {
		result.PDFTimeoutSeconds = defaults.PDFTimeoutSeconds
	}
	if result.Paper == "" {
		result.Paper = defaults.Paper
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DefaultRateLimit == 0 {
		result.DefaultRateLimit = defaults.DefaultRateLimit
	}
	if result.ExportRateLimit == 0 {
		result.ExportRateLimit = defaults.ExportRateLimit
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags and env always win for bools)

	return result
}

// PDFTimeout returns the print timeout as a duration.
func (c *Config) PDFTimeout() time.Duration {
	return time.Duration(c.PDFTimeoutSeconds) * time.Second
}

// Load resolves the effective configuration: optional file, then environment, then defaults.
func Load(path string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg.MergeWithDefaults(Defaults()), nil
}
