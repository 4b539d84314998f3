package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// key identifies the tier a request was matched to; clients get one bucket per tier.
func (e *EndpointConfig) key() string {
	return e.Method + " " + e.Path
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTimeout     time.Duration // Buckets unused for this long are dropped
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds the server configuration from per-minute limits.
// defaultPerMinute applies to every route without its own tier; exportPerMinute applies to PDF export.
func NewConfig(enabled bool, defaultPerMinute, exportPerMinute int, whitelist []string) *Config {
	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultPerMinute,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       ParseIPList(strings.Join(whitelist, ",")),
		EndpointConfigs: DefaultEndpointConfigs(exportPerMinute),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific tiers.
func DefaultEndpointConfigs(exportPerMinute int) []EndpointConfig {
	exportBurst := min(2, exportPerMinute)

	writes := []EndpointConfig{}
	for _, collection := range []string{"/cv/experiences", "/cv/education", "/cv/skills"} {
		writes = append(writes,
			EndpointConfig{Path: collection, Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
			EndpointConfig{Path: collection + "/", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},
			EndpointConfig{Path: collection + "/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		)
	}

	return append([]EndpointConfig{
		// Tier 1: headless browser print (strictest)
		{Path: "/cv/export", Method: "GET", Limit: exportPerMinute, Window: time.Minute, Burst: exportBurst},

		// Tier 2: document writes
		{Path: "/cv", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/cv/personal-info", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},

		// Tier 3: reads and rendering use the default limit
		// Tier 4: /health and /metrics are unlimited, see MatchEndpoint
	}, writes...)
}

// ParseIPList parses a comma-separated list of IP addresses into a set.
func ParseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
