// Package config provides configuration loading and management for the application.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Base URLs for the two upstream data sources
	PoolsURL string
	NewsURL  string

	// News API key; empty or the placeholder value enables offline mock mode
	NewsAPIKey string

	// Relay endpoints for the news fetch, tried in order. The first is a
	// JSON-envelope relay, the second a raw passthrough prefix.
	EnvelopeRelayURL    string
	PassthroughRelayURL string

	// Rate limit applied to relay requests (requests per second, burst)
	RelayRPS   float64
	RelayBurst int

	// Poll cycle and per-request settings
	PollInterval   time.Duration
	RequestTimeout time.Duration

	// Prometheus metrics listener
	EnableMetrics bool
	MetricsPort   string

	// OpenTelemetry endpoint for observability
	OtelEndpoint string

	// Snapshot guard (off by default: plain last-write-wins overwrites)
	EnableGuard    bool
	GuardMinRatio  float64
	GuardMaxAPY    float64
	GuardResetWait time.Duration

	// Initial view state for the rendered dashboard
	Search     string
	StableTag  string
	SortKey    string
	SortDesc   bool
	Page       int
	NewsFilter string
	Tab        string
}

// Load creates a new Config from environment variables
func Load() Config {
	return Config{
		PoolsURL:            GetEnvOrDefault("POOLS_URL", "https://yields.llama.fi/pools"),
		NewsURL:             GetEnvOrDefault("NEWS_URL", "https://cryptopanic.com/api/v1/posts/"),
		NewsAPIKey:          GetEnvOrDefault("NEWS_API_KEY", ""),
		EnvelopeRelayURL:    GetEnvOrDefault("ENVELOPE_RELAY_URL", "https://api.allorigins.win/get?url="),
		PassthroughRelayURL: GetEnvOrDefault("PASSTHROUGH_RELAY_URL", "https://corsproxy.io/?"),
		RelayRPS:            GetEnvAsFloat("RELAY_RPS", 1.0),
		RelayBurst:          GetEnvAsInt("RELAY_BURST", 2),
		PollInterval:        GetEnvAsDuration("POLL_INTERVAL", 5*time.Minute),
		RequestTimeout:      GetEnvAsDuration("REQUEST_TIMEOUT", 0),
		EnableMetrics:       GetEnvAsBool("ENABLE_METRICS", false),
		MetricsPort:         GetEnvOrDefault("METRICS_PORT", "9090"),
		OtelEndpoint:        GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		EnableGuard:         GetEnvAsBool("ENABLE_SNAPSHOT_GUARD", false),
		GuardMinRatio:       GetEnvAsFloat("GUARD_MIN_POOL_RATIO", 0.5),
		GuardMaxAPY:         GetEnvAsFloat("GUARD_MAX_APY", 10000),
		GuardResetWait:      GetEnvAsDuration("GUARD_RESET_DELAY", 5*time.Minute),
		Search:              GetEnvOrDefault("VIEW_SEARCH", ""),
		StableTag:           strings.ToUpper(GetEnvOrDefault("VIEW_STABLE", "")),
		SortKey:             strings.ToLower(GetEnvOrDefault("VIEW_SORT", "apy")),
		SortDesc:            GetEnvAsBool("VIEW_SORT_DESC", true),
		Page:                GetEnvAsInt("VIEW_PAGE", 1),
		NewsFilter:          strings.ToLower(GetEnvOrDefault("NEWS_FILTER", "all")),
		Tab:                 strings.ToLower(GetEnvOrDefault("VIEW_TAB", "yields")),
	}
}

// GetEnv retrieves an environment variable and whether it exists
func GetEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	return value, exists
}

// GetEnvOrDefault retrieves an environment variable or returns the default value if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value, exists := GetEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt retrieves an environment variable as an integer with a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := GetEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsFloat retrieves an environment variable as a float with a default value
func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := GetEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvAsBool retrieves an environment variable as a boolean with a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := GetEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration retrieves an environment variable as a duration with a default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := GetEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
