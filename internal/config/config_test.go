package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// configKeys are the variables Load reads. clearEnv blanks them for one test.
var configKeys = []string{
	"ENV", "LOG_LEVEL", "BABYBUDDY_URL", "BABYBUDDY_TOKEN",
	"HTTP_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "PAGE_SIZE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		BabyBuddy: BabyBuddyConfig{URL: "https://baby.example.com", Token: "abc"},
		HTTP:      HTTPConfig{Timeout: 30 * time.Second, RateLimitRPS: 5, RateLimitBurst: 10},
		List:      ListConfig{PageSize: 50},
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing url", func(c *Config) { c.BabyBuddy.URL = "" }, "BABYBUDDY_URL is required"},
		{"relative url", func(c *Config) { c.BabyBuddy.URL = "baby.example.com" }, "invalid BABYBUDDY_URL"},
		{"ftp url", func(c *Config) { c.BabyBuddy.URL = "ftp://baby.example.com" }, "invalid BABYBUDDY_URL"},
		{"missing token", func(c *Config) { c.BabyBuddy.Token = "" }, "BABYBUDDY_TOKEN is required"},
		{"zero timeout", func(c *Config) { c.HTTP.Timeout = 0 }, "invalid HTTP timeout"},
		{"negative rps", func(c *Config) { c.HTTP.RateLimitRPS = -1 }, "invalid rate limit"},
		{"zero burst", func(c *Config) { c.HTTP.RateLimitBurst = 0 }, "invalid rate limit burst"},
		{"page size too big", func(c *Config) { c.List.PageSize = 1001 }, "invalid page size"},
		{"page size zero", func(c *Config) { c.List.PageSize = 0 }, "invalid page size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_UnlimitedRateNeedsNoBurst(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.RateLimitRPS = 0
	cfg.HTTP.RateLimitBurst = 0

	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Overrides{
		ServerURL: "https://baby.example.com/",
		Token:     "abc",
		EnvFile:   filepath.Join(t.TempDir(), "missing.env"),
	})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "https://baby.example.com", cfg.BabyBuddy.URL)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.InDelta(t, 5.0, cfg.HTTP.RateLimitRPS, 0)
	assert.Equal(t, 10, cfg.HTTP.RateLimitBurst)
	assert.Equal(t, 50, cfg.List.PageSize)
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)

	envFile := writeEnvFile(t, `# Baby Buddy
BABYBUDDY_URL=http://file.example.com
BABYBUDDY_TOKEN="file-token"
LOG_LEVEL=warn
PAGE_SIZE=25
HTTP_TIMEOUT=5s
`)
	t.Setenv("BABYBUDDY_TOKEN", "env-token")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load(Overrides{LogLevel: "debug", EnvFile: envFile})
	require.NoError(t, err)

	// Flag beats env, env beats file, file beats default.
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "env-token", cfg.BabyBuddy.Token)
	assert.Equal(t, "http://file.example.com", cfg.BabyBuddy.URL)
	assert.Equal(t, 25, cfg.List.PageSize)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)

	_, err := Load(Overrides{
		ServerURL: "https://baby.example.com",
		Token:     "abc",
		Timeout:   "soon",
		EnvFile:   filepath.Join(t.TempDir(), "missing.env"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP timeout")
}

func TestLoad_BrokenEnvFile(t *testing.T) {
	clearEnv(t)

	envFile := writeEnvFile(t, "NOT A VALID LINE\n")

	_, err := Load(Overrides{ServerURL: "https://baby.example.com", Token: "abc", EnvFile: envFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)

	_, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BABYBUDDY_URL is required")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Test flag value takes priority.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Test env var when flag is empty.
	t.Setenv("TEST_ENV_KEY", "env-value")

	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Test default when both are empty.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestGetNumericConfigValues(t *testing.T) {
	t.Setenv("TEST_INT", "12")
	t.Setenv("TEST_BAD_INT", "twelve")
	t.Setenv("TEST_FLOAT", "0.5")

	assert.Equal(t, 12, getIntConfigValue("", "TEST_INT", 3))
	assert.Equal(t, 3, getIntConfigValue("", "TEST_BAD_INT", 3))
	assert.Equal(t, 7, getIntConfigValue("7", "TEST_INT", 3))
	assert.InDelta(t, 0.5, getFloatConfigValue("", "TEST_FLOAT", 1), 0)
	assert.InDelta(t, 1.0, getFloatConfigValue("", "TEST_MISSING_FLOAT", 1), 0)
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := writeEnvFile(t, `# Test env file
ENV=staging
LOG_LEVEL=debug
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
export EXPORTED=yes
`)

	for _, key := range []string{"ENV", "LOG_LEVEL", "QUOTED_VALUE", "SINGLE_QUOTED", "EXPORTED"} {
		t.Setenv(key, "")
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
	assert.Equal(t, "yes", os.Getenv("EXPORTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := writeEnvFile(t, `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
ANOTHER_VALID=value
`)
	t.Setenv("VALID_KEY", "")

	err := loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile("/nonexistent/file/.env")
	assert.Error(t, err)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_VAR", "original-value")

	envFile := writeEnvFile(t, `TEST_VAR=new-value`)
	require.NoError(t, loadEnvFile(envFile))

	// Original value should be preserved.
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}

func TestLoadEnvFile_Whitespace(t *testing.T) {
	envFile := writeEnvFile(t, `  KEY_WITH_SPACES  =  value with spaces  `)
	t.Setenv("KEY_WITH_SPACES", "")

	require.NoError(t, loadEnvFile(envFile))

	// Whitespace should be trimmed.
	assert.Equal(t, "value with spaces", os.Getenv("KEY_WITH_SPACES"))
}
