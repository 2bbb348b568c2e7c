package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mlmodeld/internal/common/fsutil"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr      string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`
	// LogFile, when set, sends logs to a rotated file instead of stderr.
	LogFile string `json:"log_file" yaml:"log_file" toml:"log_file"`
	// HTTPLog is the default per-request log level: off|error|info|debug.
	HTTPLog string `json:"http_log" yaml:"http_log" toml:"http_log"`

	CatalogDir       string `json:"catalog_dir" yaml:"catalog_dir" toml:"catalog_dir"`
	DefaultFramework string `json:"default_framework" yaml:"default_framework" toml:"default_framework"`
	InfoCacheSize    int    `json:"info_cache_size" yaml:"info_cache_size" toml:"info_cache_size"`

	MaxBodyBytes          int64   `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RequestTimeoutSeconds int64   `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds"`
	RateLimitRPS          float64 `json:"rate_limit_rps" yaml:"rate_limit_rps" toml:"rate_limit_rps"`
	RateLimitBurst        int     `json:"rate_limit_burst" yaml:"rate_limit_burst" toml:"rate_limit_burst"`

	CORS CORS `json:"cors" yaml:"cors" toml:"cors"`
}

// CORS configures cross-origin access to the HTTP API.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return cfg, err
	}
	if err := Decode(filepath.Ext(p), b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals b into v using the format implied by ext
// (".yaml", ".yml", ".json" or ".toml", case-insensitive).
func Decode(ext string, b []byte, v any) error {
	switch ext = strings.ToLower(ext); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, v)
	case ".json":
		return json.Unmarshal(b, v)
	case ".toml":
		return toml.Unmarshal(b, v)
	default:
		return fmt.Errorf("unsupported config extension: %s", ext)
	}
}

// Supported reports whether Decode handles files with this extension.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml", ".json", ".toml":
		return true
	}
	return false
}

// Defaults returns the values used for unspecified fields.
func Defaults() Config {
	return Config{
		Addr:                  ":8080",
		LogLevel:              "info",
		LogFormat:             "console",
		HTTPLog:               "info",
		DefaultFramework:      "native",
		InfoCacheSize:         256,
		MaxBodyBytes:          1 << 20,
		RequestTimeoutSeconds: 60,
		CORS: CORS{
			Methods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			Headers: []string{"Content-Type", "X-Log-Level"},
		},
	}
}

// WithDefaults fills zero fields of c from Defaults.
func (c Config) WithDefaults() Config {
	d := Defaults()
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.HTTPLog == "" {
		c.HTTPLog = d.HTTPLog
	}
	if c.DefaultFramework == "" {
		c.DefaultFramework = d.DefaultFramework
	}
	if c.InfoCacheSize == 0 {
		c.InfoCacheSize = d.InfoCacheSize
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	if c.RequestTimeoutSeconds == 0 {
		c.RequestTimeoutSeconds = d.RequestTimeoutSeconds
	}
	if len(c.CORS.Methods) == 0 {
		c.CORS.Methods = d.CORS.Methods
	}
	if len(c.CORS.Headers) == 0 {
		c.CORS.Headers = d.CORS.Headers
	}
	return c
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	if c.InfoCacheSize < 0 {
		return fmt.Errorf("info_cache_size must not be negative")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	if c.CORS.Enabled && len(c.CORS.Origins) == 0 {
		return fmt.Errorf("cors.enabled requires at least one origin")
	}
	return nil
}
