// Package config provides client configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultEnvFile is the .env file read when no other path is given.
const DefaultEnvFile = ".env"

// Config holds the client configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	BabyBuddy BabyBuddyConfig
	HTTP      HTTPConfig
	List      ListConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// BabyBuddyConfig identifies the server and the account to act as.
type BabyBuddyConfig struct {
	URL   string // server root, without the /api suffix
	Token string // API key from the user's settings page
}

// HTTPConfig holds transport configuration.
type HTTPConfig struct {
	Timeout        time.Duration // per-request timeout (default: 30s)
	RateLimitRPS   float64       // requests per second per host, 0 disables (default: 5)
	RateLimitBurst int           // token bucket burst (default: 10)
}

// ListConfig holds listing defaults.
type ListConfig struct {
	PageSize int // default page size for list commands (default: 50)
}

// Overrides carries values given on the command line. Empty fields fall
// through to the environment.
type Overrides struct {
	Env       string
	LogLevel  string
	ServerURL string
	Token     string
	Timeout   string
	EnvFile   string
}

// Load builds configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(flags Overrides) (*Config, error) {
	envFile := flags.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	// A missing .env file is fine; a broken one is not.
	if err := loadEnvFile(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(flags.Env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(flags.LogLevel, "LOG_LEVEL", "info"),
		},
		BabyBuddy: BabyBuddyConfig{
			URL:   strings.TrimRight(getConfigValue(flags.ServerURL, "BABYBUDDY_URL", ""), "/"),
			Token: getConfigValue(flags.Token, "BABYBUDDY_TOKEN", ""),
		},
		HTTP: HTTPConfig{
			RateLimitRPS:   getFloatConfigValue("", "RATE_LIMIT_RPS", 5),
			RateLimitBurst: getIntConfigValue("", "RATE_LIMIT_BURST", 10),
		},
		List: ListConfig{
			PageSize: getIntConfigValue("", "PAGE_SIZE", 50),
		},
	}

	timeoutStr := getConfigValue(flags.Timeout, "HTTP_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP timeout %q: %w", timeoutStr, err)
	}
	cfg.HTTP.Timeout = timeout

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.BabyBuddy.URL == "" {
		return errors.New("BABYBUDDY_URL is required")
	}
	u, err := url.Parse(c.BabyBuddy.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid BABYBUDDY_URL: %s (must be an absolute http or https URL)", c.BabyBuddy.URL)
	}

	if c.BabyBuddy.Token == "" {
		return errors.New("BABYBUDDY_TOKEN is required")
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("invalid HTTP timeout: %s (must be positive)", c.HTTP.Timeout)
	}
	if c.HTTP.RateLimitRPS < 0 {
		return fmt.Errorf("invalid rate limit: %g (must not be negative)", c.HTTP.RateLimitRPS)
	}
	if c.HTTP.RateLimitRPS > 0 && c.HTTP.RateLimitBurst < 1 {
		return fmt.Errorf("invalid rate limit burst: %d (must be at least 1)", c.HTTP.RateLimitBurst)
	}

	// Mirrors the server-side maximum page size.
	if c.List.PageSize < 1 || c.List.PageSize > 1000 {
		return fmt.Errorf("invalid page size: %d (must be between 1 and 1000)", c.List.PageSize)
	}

	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(strValue))
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strings.TrimSpace(strValue), 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
