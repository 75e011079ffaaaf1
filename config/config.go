// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	ythttp "ytpl/http"
	"ytpl/internal/dump"
	"ytpl/internal/logging"
	"ytpl/internal/retry"
	"ytpl/youtube/innertube"
	"ytpl/youtube/playlist"
)

// Config holds all settings of the ytpl command.
type Config struct {
	// Limit caps the items collected per playlist (0 = all)
	Limit int `json:"limit"`
	// GL is the region sent to YouTube
	GL string `json:"gl"`
	// HL is the interface language sent to YouTube
	HL string `json:"hl"`
	// UTCOffsetMinutes is sent in the browse request context
	UTCOffsetMinutes int `json:"utc_offset_minutes"`

	// Retries is the number of extra playlist page fetches when a page
	// cannot be parsed
	Retries int `json:"retries"`
	// MaxContinuationPages bounds one continuation walk
	MaxContinuationPages int `json:"max_continuation_pages"`
	// ResolverCacheSize is the number of channel references memoised
	ResolverCacheSize int `json:"resolver_cache_size"`

	// Timeout is the per request HTTP timeout
	Timeout time.Duration `json:"timeout"`
	// UserAgent is sent when no User-Agent header is given
	UserAgent string `json:"user_agent"`

	// HTTPMaxRetries is the maximum number of retries for transient HTTP failures
	HTTPMaxRetries int `json:"http_max_retries"`
	// InitialBackoff is the initial backoff duration for HTTP retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for HTTP retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`

	// DumpDir receives unparseable responses
	DumpDir string `json:"dump_dir"`

	// LogLevel is a zerolog level name
	LogLevel string `json:"log_level"`
	// LogFormat is "console" or "json"
	LogFormat string `json:"log_format"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	retryDefaults := retry.DefaultConfig()
	return &Config{
		Limit:                0,
		GL:                   innertube.DefaultGL,
		HL:                   innertube.DefaultHL,
		UTCOffsetMinutes:     innertube.DefaultUTCOffsetMinutes,
		Retries:              playlist.DefaultRetries,
		MaxContinuationPages: playlist.DefaultMaxContinuationPages,
		ResolverCacheSize:    playlist.DefaultResolverCacheSize,
		Timeout:              30 * time.Second,
		UserAgent:            ythttp.DefaultUserAgent,
		HTTPMaxRetries:       retryDefaults.MaxRetries,
		InitialBackoff:       retryDefaults.InitialBackoff,
		MaxBackoff:           retryDefaults.MaxBackoff,
		BackoffMultiplier:    retryDefaults.Multiplier,
		DumpDir:              dump.DefaultDir,
		LogLevel:             "info",
		LogFormat:            logging.FormatConsole,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(searchPaths()); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// searchPaths lists config file locations in lookup order.
func searchPaths() []string {
	paths := []string{"ytpl.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ytpl", "ytpl.json"))
	}
	return paths
}

// loadFromFile reads the first existing file of paths.
func (c *Config) loadFromFile(paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with YTPL_* environment variables. Unlike
// the file, a malformed number or duration is reported.
func (c *Config) loadFromEnv() error {
	strs := map[string]*string{
		"YTPL_GL":         &c.GL,
		"YTPL_HL":         &c.HL,
		"YTPL_USER_AGENT": &c.UserAgent,
		"YTPL_DUMP_DIR":   &c.DumpDir,
		"YTPL_LOG_LEVEL":  &c.LogLevel,
		"YTPL_LOG_FORMAT": &c.LogFormat,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"YTPL_LIMIT":                  &c.Limit,
		"YTPL_UTC_OFFSET_MINUTES":     &c.UTCOffsetMinutes,
		"YTPL_RETRIES":                &c.Retries,
		"YTPL_MAX_CONTINUATION_PAGES": &c.MaxContinuationPages,
		"YTPL_RESOLVER_CACHE_SIZE":    &c.ResolverCacheSize,
		"YTPL_HTTP_MAX_RETRIES":       &c.HTTPMaxRetries,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}

	durations := map[string]*time.Duration{
		"YTPL_TIMEOUT":         &c.Timeout,
		"YTPL_INITIAL_BACKOFF": &c.InitialBackoff,
		"YTPL_MAX_BACKOFF":     &c.MaxBackoff,
	}
	for key, dst := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	return nil
}

// Validate checks that configuration values are valid and consistent.
// It returns an error if any configuration value is invalid.
func (c *Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("limit must be non-negative")
	}
	if c.GL == "" || c.HL == "" {
		return fmt.Errorf("gl and hl must be set")
	}
	// UTC-12:00 to UTC+14:00
	if c.UTCOffsetMinutes < -720 || c.UTCOffsetMinutes > 840 {
		return fmt.Errorf("utc_offset_minutes must be within [-720, 840]")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be non-negative")
	}
	if c.MaxContinuationPages <= 0 {
		return fmt.Errorf("max_continuation_pages must be positive")
	}
	if c.ResolverCacheSize < 0 {
		return fmt.Errorf("resolver_cache_size must be non-negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.HTTPMaxRetries < 0 {
		return fmt.Errorf("http_max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("log_level %q is not a valid level", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("log_format must be %q or %q", logging.FormatConsole, logging.FormatJSON)
	}
	return nil
}

// HTTPConfig builds the transport configuration.
func (c *Config) HTTPConfig(logger zerolog.Logger) *ythttp.Config {
	cfg := ythttp.DefaultConfig()
	cfg.Timeout = c.Timeout
	cfg.UserAgent = c.UserAgent
	cfg.Logger = logger
	cfg.Retry.MaxRetries = c.HTTPMaxRetries
	cfg.Retry.InitialBackoff = c.InitialBackoff
	cfg.Retry.MaxBackoff = c.MaxBackoff
	cfg.Retry.Multiplier = c.BackoffMultiplier
	return cfg
}

// PlaylistOptions returns the per call options. headers may be nil.
func (c *Config) PlaylistOptions(headers *ythttp.Header) playlist.Options {
	return playlist.Options{
		Limit:            c.Limit,
		GL:               c.GL,
		HL:               c.HL,
		UTCOffsetMinutes: c.UTCOffsetMinutes,
		Headers:          headers,
	}
}

// ClientOptions returns the playlist client options derived from c. The
// dump sink writes to DumpDir and logs through logger.
func (c *Config) ClientOptions(logger zerolog.Logger) []playlist.ClientOption {
	return []playlist.ClientOption{
		playlist.WithLogger(logger),
		playlist.WithSink(dump.New(c.DumpDir, dump.WithLogger(logger))),
		playlist.WithMaxContinuationPages(c.MaxContinuationPages),
		playlist.WithResolverCacheSize(c.ResolverCacheSize),
	}
}
