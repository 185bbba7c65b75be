// Package config loads runtime settings for the API server and the ledger
// worker from defaults, an optional config file and the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	applog "budgetpace/internal/log"
)

// EnvConfigFile names an optional YAML/TOML/JSON file read before the env.
const EnvConfigFile = "BUDGETPACE_CONFIG"

type Config struct {
	// HTTP Server
	Port           string
	TrustedProxies []string
	RateLimitRPM   int

	// Database
	SQLiteDBPath string

	// Identity
	JWTSecret         string
	AllowDeviceHeader bool

	// AMQP (optional; empty URL disables the ledger mirror events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Ledger mirror, used by the ledger worker. MirrorBackend is "google"
	// or "memory"; BackfillOwners are re-mirrored in full at startup.
	MirrorBackend  string
	BackfillOwners []string

	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Usage quotas per calendar month
	VoiceMonthlyLimit int
	ScanMonthlyLimit  int

	// Stats cache
	CacheTTL  time.Duration
	CacheSize int

	LogLevel  string
	LogFormat string
}

var defaults = map[string]any{
	"port":                        "8081",
	"trusted_proxies":             "",
	"rate_limit_rpm":              120,
	"sqlite_db_path":              "./data/budgetpace.db",
	"jwt_secret":                  "",
	"allow_device_header":         true,
	"amqp_url":                    "",
	"amqp_exchange":               "budgetpace",
	"amqp_queue":                  "ledger_mirror",
	"mirror_backend":              "google",
	"backfill_owners":             "",
	"google_spreadsheet_id":       "",
	"google_sheet_name":           "Ledger",
	"google_service_account_json": "",
	"google_service_account_file": "",
	"voice_monthly_limit":         10,
	"scan_monthly_limit":          5,
	"cache_ttl":                   "30s",
	"cache_size":                  1000,
	"log_level":                   "info",
	"log_format":                  "text",
}

// Load reads configuration. Keys map to upper-case environment variables,
// e.g. sqlite_db_path is SQLITE_DB_PATH.
func Load() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	return &Config{
		Port:           v.GetString("port"),
		TrustedProxies: splitList(v.GetString("trusted_proxies")),
		RateLimitRPM:   v.GetInt("rate_limit_rpm"),

		SQLiteDBPath: v.GetString("sqlite_db_path"),

		JWTSecret:         v.GetString("jwt_secret"),
		AllowDeviceHeader: v.GetBool("allow_device_header"),

		AMQPURL:      v.GetString("amqp_url"),
		AMQPExchange: v.GetString("amqp_exchange"),
		AMQPQueue:    v.GetString("amqp_queue"),

		MirrorBackend:  strings.ToLower(strings.TrimSpace(v.GetString("mirror_backend"))),
		BackfillOwners: splitList(v.GetString("backfill_owners")),

		GoogleSpreadsheetID:      v.GetString("google_spreadsheet_id"),
		GoogleSheetName:          v.GetString("google_sheet_name"),
		GoogleServiceAccountJSON: v.GetString("google_service_account_json"),
		GoogleServiceAccountFile: v.GetString("google_service_account_file"),

		VoiceMonthlyLimit: v.GetInt("voice_monthly_limit"),
		ScanMonthlyLimit:  v.GetInt("scan_monthly_limit"),

		CacheTTL:  v.GetDuration("cache_ttl"),
		CacheSize: v.GetInt("cache_size"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks the settings shared by both binaries and returns every
// problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.SQLiteDBPath) == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.JWTSecret == "" && !c.AllowDeviceHeader {
		errors = append(errors, "no identity source: set JWT_SECRET or enable ALLOW_DEVICE_HEADER")
	}
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT secret must be at least 32 bytes")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.VoiceMonthlyLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid voice monthly limit %d: must not be negative", c.VoiceMonthlyLimit))
	}
	if c.ScanMonthlyLimit < 0 {
		errors = append(errors, fmt.Sprintf("invalid scan monthly limit %d: must not be negative", c.ScanMonthlyLimit))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must not be negative", c.CacheTTL))
	}
	if c.RateLimitRPM < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitRPM))
	}

	if _, err := applog.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// ValidateMirror checks the extra settings the ledger worker needs.
func (c *Config) ValidateMirror() error {
	var errors []string

	if c.AMQPURL == "" {
		errors = append(errors, "AMQP URL is required for the ledger worker")
	}
	switch c.MirrorBackend {
	case "memory":
	case "google":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required for the google mirror")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required for the google mirror")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid mirror backend '%s': must be 'google' or 'memory'", c.MirrorBackend))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// LogConfig builds the logger settings for a component.
func (c *Config) LogConfig(component string) applog.Config {
	lc := applog.DefaultConfig()
	if lvl, err := applog.ParseLevel(c.LogLevel); err == nil {
		lc.Level = lvl
	}
	if c.LogFormat != "" {
		lc.Format = c.LogFormat
	}
	lc.Component = component
	return lc
}

// LogStartup records the effective settings. Secrets are reported only as
// present or absent.
func (c *Config) LogStartup(logger *applog.Logger) {
	logger.Info("Configuration loaded",
		"port", c.Port,
		"sqlite_db_path", c.SQLiteDBPath,
		"amqp_enabled", c.AMQPURL != "",
		"jwt_enabled", c.JWTSecret != "",
		"allow_device_header", c.AllowDeviceHeader,
		"mirror_backend", c.MirrorBackend,
		"cache_ttl", c.CacheTTL,
		"cache_size", c.CacheSize,
		"rate_limit_rpm", c.RateLimitRPM,
		"log_level", c.LogLevel)
}
