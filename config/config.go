// Package config provides configuration management for the settlement
// feasibility engine. It loads settings from environment variables and
// .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// validLogLevels is the set of accepted zerolog log levels.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
	"panic": true, "disabled": true,
}

// ValidationError holds multiple configuration validation errors.
// It aggregates all issues so operators can fix everything in one pass.
type ValidationError struct {
	// Errors is the list of individual validation error messages.
	Errors []string
}

// Error returns a formatted multi-line error message listing all issues.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%d configuration error(s):\n  - %s",
		len(ve.Errors), strings.Join(ve.Errors, "\n  - "))
}

// Config holds all configuration for the settlement feasibility engine.
type Config struct {
	// Server settings
	ServerHost string
	ServerPort int

	// MarketsConfigPath is the path to the market configuration blob (§6).
	MarketsConfigPath string
	// HolidaysConfigPath is the path to the non-session / public-holiday
	// calendar blob backing the exchange-session and public-holiday
	// adapters (§4.3).
	HolidaysConfigPath string
	// OverridesPath is the path to the manual-override blob (§6).
	OverridesPath string
	// AuditDBPath is the SQLite file backing the audit log.
	AuditDBPath string

	// LogLevel is validated against zerolog's accepted level set.
	LogLevel string

	// AllowedOrigins is the CORS allow-list for the HTTP API.
	AllowedOrigins []string

	// APIKey is the required bearer token for override-mutating endpoints.
	APIKey string

	// CutOffWarningMinutes is the §4.6.1 "AT_RISK if 0 < remaining < N"
	// threshold.
	CutOffWarningMinutes int
	// MaxSettlementExtensionDays is the §4.6.1 "AT_RISK if extended past N"
	// threshold.
	MaxSettlementExtensionDays int

	// EnvFile is the path to the .env file (default: .env).
	EnvFile string
}

// Load reads configuration from environment variables and .env files.
// It returns a Config struct populated with all settings.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerHost: getEnv("HOST", "0.0.0.0"),
		ServerPort: getEnvInt("PORT", 8099),

		MarketsConfigPath:  getEnv("MARKETS_CONFIG_PATH", "./data/markets.json"),
		HolidaysConfigPath: getEnv("HOLIDAYS_CONFIG_PATH", "./data/holidays.json"),
		OverridesPath:      getEnv("OVERRIDES_PATH", "./data/overrides.json"),
		AuditDBPath:        getEnv("AUDIT_DB_PATH", "./data/audit.db"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		AllowedOrigins: parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")),

		APIKey: os.Getenv("API_KEY"),

		CutOffWarningMinutes:       getEnvInt("SETTLEMENT_CUTOFF_WARNING_MINUTES", 60),
		MaxSettlementExtensionDays: getEnvInt("SETTLEMENT_MAX_EXTENSION_DAYS", 3),

		EnvFile: ".env",
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate performs comprehensive configuration validation with fail-fast
// behavior. All errors are aggregated and returned as a single
// ValidationError so operators can fix everything in one pass.
//
// Validation rules:
//   - Server port must be 1-65535
//   - Log level must be a valid zerolog level
//   - Markets config path, overrides path, and audit DB path must not be empty
//   - CutOffWarningMinutes and MaxSettlementExtensionDays must be positive
//   - APIKey must be set, since override-mutating endpoints require it
func (c *Config) Validate() error {
	var errs []string

	if c.ServerPort < 1 || c.ServerPort > 65535 {
		errs = append(errs,
			fmt.Sprintf("invalid PORT %d: must be between 1 and 65535", c.ServerPort))
	}

	if c.MarketsConfigPath == "" {
		errs = append(errs, "MARKETS_CONFIG_PATH is empty: set MARKETS_CONFIG_PATH in .env")
	}
	if c.HolidaysConfigPath == "" {
		errs = append(errs, "HOLIDAYS_CONFIG_PATH is empty: set HOLIDAYS_CONFIG_PATH in .env")
	}
	if c.OverridesPath == "" {
		errs = append(errs, "OVERRIDES_PATH is empty: set OVERRIDES_PATH in .env")
	}
	if c.AuditDBPath == "" {
		errs = append(errs, "AUDIT_DB_PATH is empty: set AUDIT_DB_PATH in .env")
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs,
			fmt.Sprintf("invalid LOG_LEVEL '%s': must be one of trace, debug, info, warn, error, fatal, panic, disabled", c.LogLevel))
	}

	if c.CutOffWarningMinutes <= 0 {
		errs = append(errs,
			fmt.Sprintf("invalid SETTLEMENT_CUTOFF_WARNING_MINUTES %d: must be positive", c.CutOffWarningMinutes))
	}
	if c.MaxSettlementExtensionDays <= 0 {
		errs = append(errs,
			fmt.Sprintf("invalid SETTLEMENT_MAX_EXTENSION_DAYS %d: must be positive", c.MaxSettlementExtensionDays))
	}

	if c.APIKey == "" {
		errs = append(errs,
			"API_KEY is empty: override-mutating endpoints require a configured API key, set API_KEY in .env")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer or returns a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// parseCSV parses a comma-separated list, trimming whitespace around each
// element and dropping empty entries.
func parseCSV(s string) []string {
	if s == "" {
		return []string{}
	}

	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
