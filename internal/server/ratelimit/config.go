package ratelimit

import (
	"os"
	"strconv"
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

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom loads rate limiting configuration using getenv for lookups.
func LoadConfigFrom(getenv func(string) string) *Config {
	env := envReader(getenv)
	enabled := env.getBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	defaultLimit := env.getInt("RATE_LIMIT_DEFAULT_LIMIT", 1000)
	defaultWindow := env.getDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute)
	cleanupInterval := env.getDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute)

	whitelist := parseIPList(env.getString("RATE_LIMIT_WHITELIST", ""))
	blacklist := parseIPList(env.getString("RATE_LIMIT_BLACKLIST", ""))

	endpoints := DefaultEndpointConfigs()
	for i := range endpoints {
		switch endpoints[i].Path {
		case ExtractPath:
			endpoints[i].Limit = env.getInt("RATE_LIMIT_EXTRACT_LIMIT", endpoints[i].Limit)
		case OptimizePath:
			endpoints[i].Limit = env.getInt("RATE_LIMIT_OPTIMIZE_LIMIT", endpoints[i].Limit)
		}
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: cleanupInterval,
		Whitelist:       whitelist,
		Blacklist:       blacklist,
		EndpointConfigs: endpoints,
	}
}

// Rate-limited API paths
const (
	ExtractPath  = "/api/extract-text"
	AnalyzePath  = "/api/analyze-keywords"
	OptimizePath = "/api/optimize-resume"
	ScorePath    = "/api/score"
	HealthPath   = "/api/health"
)

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: LLM rewrites and document parsing/OCR (strictest limits)
		{Path: OptimizePath, Method: "POST", Limit: 20, Window: time.Hour, Burst: 3},
		{Path: ExtractPath, Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Tier 2: Analysis (moderate limits)
		{Path: AnalyzePath, Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: ScorePath, Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// Tier 3: Read operations (more lenient) - handled by default limit
		// Tier 4: Health check (unlimited) - handled by special case in matcher
	}
}

// envReader reads typed values with defaults; malformed values fall back to the default.
type envReader func(string) string

func (e envReader) getString(key string, defaultValue string) string {
	if value := e(key); value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) getInt(key string, defaultValue int) int {
	if value := e(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (e envReader) getBool(key string, defaultValue bool) bool {
	if value := e(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func (e envReader) getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := e(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	if list == "" {
		return result
	}

	ips := strings.Split(list, ",")
	for _, ip := range ips {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}

	return result
}

