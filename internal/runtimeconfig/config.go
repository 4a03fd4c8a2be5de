package runtimeconfig

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

var ErrSiteURLRequired = errors.New("tourcms config: site url is required")
var ErrSiteURLInvalid = errors.New("tourcms config: site url is invalid")
var ErrStorageDriverRequired = errors.New("tourcms config: storage driver is required")
var ErrProviderEndpointRequired = errors.New("tourcms config: translation provider endpoint is required")
var ErrTranslationAttemptsInvalid = errors.New("tourcms config: translation max attempts must be positive")
var ErrTranslationConcurrencyInvalid = errors.New("tourcms config: translation concurrency must be positive")
var ErrMarkdownContentDirRequired = errors.New("tourcms config: markdown content directory is required when import is enabled")
var ErrLoggingProviderRequired = errors.New("tourcms config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("tourcms config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("tourcms config: logging level is invalid")

// Config aggregates runtime settings for the translation module. Fields use
// simple types so host applications can bind them from their own config files.
type Config struct {
	Enabled     bool
	SiteURL     string
	Storage     StorageConfig
	Translation TranslationConfig
	Cache       CacheConfig
	Markdown    MarkdownConfig
	Logging     LoggingConfig
	Features    Features
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Driver string
	DSN    string
}

// TranslationConfig captures provider wiring and reliability behaviour for
// outbound translation calls.
type TranslationConfig struct {
	// Provider selects the backend: "static" or "libretranslate".
	Provider string
	Endpoint string
	APIKey   string

	CallTimeout      time.Duration
	MaxAttempts      int
	Backoff          time.Duration
	BreakerThreshold uint32
	BreakerTimeout   time.Duration

	// Concurrency bounds the number of target languages translated in parallel.
	Concurrency int
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// MarkdownConfig captures filesystem behaviour for content import.
type MarkdownConfig struct {
	Enabled    bool
	ContentDir string
	Pattern    string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	// Provider selects the backend: "gologger", or "console" as shorthand
	// for go-logger with console output.
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Markdown bool
	Logger   bool
}

// DefaultConfig returns opinionated defaults for a self-hosted deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		SiteURL: "http://localhost:3000",
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file:tourcms.db?_fk=1",
		},
		Translation: TranslationConfig{
			Provider:         "static",
			CallTimeout:      10 * time.Second,
			MaxAttempts:      3,
			Backoff:          250 * time.Millisecond,
			BreakerThreshold: 5,
			BreakerTimeout:   30 * time.Second,
			Concurrency:      2,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	site := strings.TrimSpace(cfg.SiteURL)
	if site == "" {
		return ErrSiteURLRequired
	}
	if parsed, err := url.Parse(site); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %s", ErrSiteURLInvalid, site)
	}
	if strings.TrimSpace(cfg.Storage.Driver) == "" {
		return ErrStorageDriverRequired
	}
	if normalizeProvider(cfg.Translation.Provider) == "libretranslate" {
		if strings.TrimSpace(cfg.Translation.Endpoint) == "" {
			return ErrProviderEndpointRequired
		}
	}
	if cfg.Translation.MaxAttempts <= 0 {
		return ErrTranslationAttemptsInvalid
	}
	if cfg.Translation.Concurrency <= 0 {
		return ErrTranslationConcurrencyInvalid
	}
	if cfg.Features.Markdown && cfg.Markdown.Enabled {
		if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
			return ErrMarkdownContentDirRequired
		}
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}
