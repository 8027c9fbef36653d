// Package config provides configuration loading and validation for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/ats-optimizer/internal/llm"
	"github.com/sirupsen/logrus"
)

// Defaults
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultCacheMaxEntries = 1024
	DefaultCacheTTL        = "24h"
	DefaultMaxUploadBytes  = 10 << 20
	DefaultOCRDPI          = 300
	DefaultOCRMaxPages     = 5
)

// DefaultAllowedFileTypes are the upload extensions accepted by the extract endpoint.
var DefaultAllowedFileTypes = []string{".pdf", ".doc", ".docx", ".txt"}

// Config represents the service configuration. It can be loaded from a JSON file and is
// overlaid by environment variables. Zero values are filled by MergeWithDefaults.
type Config struct {
	// Server
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// Logging
	LogLevel  string `json:"log_level,omitempty"`  // debug, info, warn, error
	LogFormat string `json:"log_format,omitempty"` // text or json

	// LLM
	LLMProvider string `json:"llm_provider,omitempty"` // gemini or anthropic
	APIKey      string `json:"api_key,omitempty"`
	Model       string `json:"model,omitempty"` // Overrides every tier when set

	// Storage
	DatabaseURL     string `json:"database_url,omitempty"` // PostgreSQL connection URL
	RedisURL        string `json:"redis_url,omitempty"`
	CacheMaxEntries int    `json:"cache_max_entries,omitempty"`
	CacheTTL        string `json:"cache_ttl,omitempty"` // Go duration, e.g. "24h"

	// Uploads
	MaxUploadBytes   int64    `json:"max_upload_bytes,omitempty"`
	AllowedFileTypes []string `json:"allowed_file_types,omitempty"`
	PatternsFile     string   `json:"patterns_file,omitempty"` // YAML pattern table override

	// OCR
	OCREnabled   *bool    `json:"ocr_enabled,omitempty"`
	OCRDPI       int      `json:"ocr_dpi,omitempty"`
	OCRMaxPages  int      `json:"ocr_max_pages,omitempty"`
	OCRLanguages []string `json:"ocr_languages,omitempty"`
}

// Defaults returns a Config holding every default value.
func Defaults() Config {
	enabled := true
	return Config{
		Host:             DefaultHost,
		Port:             DefaultPort,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
		LLMProvider:      string(llm.ProviderGemini),
		CacheMaxEntries:  DefaultCacheMaxEntries,
		CacheTTL:         DefaultCacheTTL,
		MaxUploadBytes:   DefaultMaxUploadBytes,
		AllowedFileTypes: append([]string(nil), DefaultAllowedFileTypes...),
		OCREnabled:       &enabled,
		OCRDPI:           DefaultOCRDPI,
		OCRMaxPages:      DefaultOCRMaxPages,
		OCRLanguages:     []string{"eng"},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// ApplyEnv overlays environment variables onto c. Unset variables leave fields untouched;
// malformed numeric or boolean values are reported.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&c.Host, "HOST")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.LLMProvider, "LLM_PROVIDER")
	setString(&c.Model, "LLM_MODEL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.RedisURL, "REDIS_URL")
	setString(&c.CacheTTL, "CACHE_TTL")
	setString(&c.PatternsFile, "PATTERNS_FILE")

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := getenv("CACHE_MAX_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: invalid CACHE_MAX_ENTRIES %q: %w", v, err)
		}
		c.CacheMaxEntries = n
	}
	if v := getenv("OCR_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: invalid OCR_ENABLED %q: %w", v, err)
		}
		c.OCREnabled = &enabled
	}

	// Provider-specific key first, then the generic one
	provider := c.LLMProvider
	if provider == "" {
		provider = string(llm.ProviderGemini)
	}
	switch llm.Provider(strings.ToLower(provider)) {
	case llm.ProviderAnthropic:
		setString(&c.APIKey, "ANTHROPIC_API_KEY")
	default:
		setString(&c.APIKey, "GEMINI_API_KEY")
	}
	if c.APIKey == "" {
		setString(&c.APIKey, "LLM_API_KEY")
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}

	// Validate numeric ranges
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("config error: 'cache_max_entries' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	if c.OCRDPI < 0 || c.OCRMaxPages < 0 {
		return fmt.Errorf("config error: OCR settings must be non-negative")
	}

	if c.CacheTTL != "" {
		if _, err := time.ParseDuration(c.CacheTTL); err != nil {
			return fmt.Errorf("config error: invalid 'cache_ttl' %q: %w", c.CacheTTL, err)
		}
	}
	if _, err := llm.ParseProvider(c.LLMProvider); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}
	if f := strings.ToLower(c.LogFormat); f != "" && f != "text" && f != "json" {
		return fmt.Errorf("config error: 'log_format' must be text or json, got %q", c.LogFormat)
	}

	// Validate file paths exist (if specified)
	if c.PatternsFile != "" {
		if _, err := os.Stat(c.PatternsFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: patterns file not found: %s", c.PatternsFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Host == "" {
		result.Host = defaults.Host
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.PatternsFile == "" {
		result.PatternsFile = defaults.PatternsFile
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.CacheMaxEntries == 0 {
		result.CacheMaxEntries = defaults.CacheMaxEntries
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.OCRDPI == 0 {
		result.OCRDPI = defaults.OCRDPI
	}
	if result.OCRMaxPages == 0 {
		result.OCRMaxPages = defaults.OCRMaxPages
	}

	// Slices
	if len(result.AllowedFileTypes) == 0 {
		result.AllowedFileTypes = defaults.AllowedFileTypes
	}
	if len(result.OCRLanguages) == 0 {
		result.OCRLanguages = defaults.OCRLanguages
	}

	// Pointer bools distinguish unset from false
	if result.OCREnabled == nil {
		result.OCREnabled = defaults.OCREnabled
	}

	return result
}

// Load reads the optional JSON file at path, applies the environment and defaults, and
// validates the result.
func Load(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TTL returns the parsed cache TTL, or the default when unset or malformed.
func (c *Config) TTL() time.Duration {
	if d, err := time.ParseDuration(c.CacheTTL); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultCacheTTL)
	return d
}

// OCRIsEnabled reports whether the OCR fallback is enabled. Unset means enabled.
func (c *Config) OCRIsEnabled() bool {
	return c.OCREnabled == nil || *c.OCREnabled
}

// LLMConfig returns the model table for the configured provider, honoring Model.
func (c *Config) LLMConfig() (*llm.Config, error) {
	provider, err := llm.ParseProvider(c.LLMProvider)
	if err != nil {
		return nil, err
	}
	cfg := llm.ConfigFor(provider)
	if c.Model != "" {
		cfg = cfg.WithAllModels(c.Model)
	}
	return cfg, nil
}

// IsAllowedFileType reports whether the filename's extension is accepted for upload.
func (c *Config) IsAllowedFileType(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	types := c.AllowedFileTypes
	if len(types) == 0 {
		types = DefaultAllowedFileTypes
	}
	for _, allowed := range types {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}
