// Package config provides configuration management for the farmops dashboard.
//
// This package handles loading configuration from environment variables,
// validating required settings, and providing sensible defaults for optional
// parameters. Configuration is loaded once at startup and remains immutable
// during runtime.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. External .env file in the working directory
//  3. Embedded .env file (fallback, included in binary)
//  4. Hard-coded defaults (lowest priority)
package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// embeddedEnv contains the .env file embedded at build time.
//
// The embedded file only carries template values; production deployments
// override them with real environment variables.
//
//go:embed .env
var embeddedEnv string

// Config holds all application configuration.
type Config struct {
	// Platform REST API
	APIBaseURL string // Base URL of the platform API, e.g. https://api.example.com/api/v1
	APIToken   string // Service token used by the CLI and the digest runner (optional)

	// Service account login, used when APIToken is empty
	APIEmail        string
	APIPassword     string
	MaxLoginRetries int           // Maximum service login attempts before giving up
	LoginRetryDelay time.Duration // Delay between service login attempts

	// Web server
	ListenPort string        // Port for the dashboard HTTP server
	SessionTTL time.Duration // Idle lifetime of an operator session

	// List behaviour
	PageSize          int // Fixed page size for complaint and payout tables
	ExportLimit       int // Row cap for statement exports
	AdminPageSize     int // Page size used when paging the admin roster
	RosterConcurrency int // Concurrent roster page fetches after the first page

	// HTTP client tuning
	HTTPMaxConns int           // Maximum idle HTTP connections in pool
	HTTPTimeout  time.Duration // HTTP client timeout

	// Statement rendering
	BrowserEnabled   bool          // Render PDFs with headless Chrome
	PrintSettleDelay time.Duration // Wait between writing the document and printing it
	PrintTimeout     time.Duration // Upper bound for a single PDF render
	LogoURL          string        // Brand logo inlined into statements (optional)
	ExportAuditFile  string        // CSV ledger of generated statements

	// USSD analytics endpoints
	USSDSessionsPath string
	USSDStatsPath    string

	// Role policy override; empty uses the embedded table
	AuthzPolicyFile string

	// Telegram digest (optional)
	DigestInterval    time.Duration // 0 disables the periodic digest
	DigestMaxFailures int           // Consecutive failures before a critical alert
	TelegramBotToken  string
	TelegramChatID    string

	// Google Cloud Translation (optional)
	TranslateAPIKey string

	// Debug mode - Telegram calls are logged instead of sent
	DebugMode bool
}

// LoadConfig loads configuration from environment variables with defaults.
//
// Loading process:
//  1. Parse embedded .env file and set as fallback environment variables
//  2. Try to load external .env file (never overrides the real environment)
//  3. Read environment variables, applying defaults for missing values
//  4. Validate
func LoadConfig() (*Config, error) {
	envMap, err := godotenv.Unmarshal(embeddedEnv)
	if err == nil {
		for k, v := range envMap {
			if os.Getenv(k) == "" {
				os.Setenv(k, v)
			}
		}
	}

	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL: strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),
		APIToken:   os.Getenv("API_TOKEN"),

		APIEmail:        os.Getenv("API_EMAIL"),
		APIPassword:     os.Getenv("API_PASSWORD"),
		MaxLoginRetries: getEnvInt("MAX_LOGIN_RETRIES", 3),
		LoginRetryDelay: getEnvDuration("LOGIN_RETRY_DELAY", 5*time.Second),

		ListenPort: getEnvOrDefault("PORT", "8080"),
		SessionTTL: getEnvDuration("SESSION_TTL", 8*time.Hour),

		PageSize:          getEnvInt("PAGE_SIZE", 20),
		ExportLimit:       getEnvInt("EXPORT_LIMIT", 1000),
		AdminPageSize:     getEnvInt("ADMIN_PAGE_SIZE", 100),
		RosterConcurrency: getEnvInt("ROSTER_CONCURRENCY", 4),

		HTTPMaxConns: getEnvInt("HTTP_MAX_CONNS", 100),
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		BrowserEnabled:   getEnvBool("BROWSER_ENABLED", true),
		PrintSettleDelay: getEnvDuration("PRINT_SETTLE_DELAY", 500*time.Millisecond),
		PrintTimeout:     getEnvDuration("PRINT_TIMEOUT", 60*time.Second),
		LogoURL:          os.Getenv("LOGO_URL"),
		ExportAuditFile:  getEnvOrDefault("EXPORT_AUDIT_FILE", "exports.csv"),

		USSDSessionsPath: getEnvOrDefault("USSD_SESSIONS_PATH", "/admins/ussd/sessions"),
		USSDStatsPath:    getEnvOrDefault("USSD_STATS_PATH", "/admins/ussd/stats"),

		AuthzPolicyFile: os.Getenv("AUTHZ_POLICY_FILE"),

		DigestInterval:    getEnvDuration("DIGEST_INTERVAL", 24*time.Hour),
		DigestMaxFailures: getEnvInt("DIGEST_MAX_FAILURES", 3),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    os.Getenv("TELEGRAM_CHAT_ID"),

		TranslateAPIKey: os.Getenv("GOOGLE_TRANSLATE_API_KEY"),

		DebugMode: getEnvBool("DEBUG_MODE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present and values are sensible.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL environment variable is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}

	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be at least 1, got %d", c.PageSize)
	}
	if c.ExportLimit < 1 {
		return fmt.Errorf("EXPORT_LIMIT must be at least 1, got %d", c.ExportLimit)
	}
	if c.AdminPageSize < 1 {
		return fmt.Errorf("ADMIN_PAGE_SIZE must be at least 1, got %d", c.AdminPageSize)
	}
	if c.RosterConcurrency < 1 {
		return fmt.Errorf("ROSTER_CONCURRENCY must be at least 1, got %d", c.RosterConcurrency)
	}
	if c.DigestInterval < 0 {
		return fmt.Errorf("DIGEST_INTERVAL cannot be negative, got %s", c.DigestInterval)
	}
	if !strings.HasPrefix(c.USSDSessionsPath, "/") || !strings.HasPrefix(c.USSDStatsPath, "/") {
		return fmt.Errorf("USSD_SESSIONS_PATH and USSD_STATS_PATH must start with /")
	}

	return nil
}

// TelegramEnabled reports whether both Telegram settings are present.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// Helper functions for environment variable parsing

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default if not set/invalid
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool accepts the usual strconv.ParseBool spellings.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default if not set/invalid.
//
// Accepts standard Go duration strings like "500ms", "10m", "1h30m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
