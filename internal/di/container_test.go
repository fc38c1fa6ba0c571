package di

import (
	"path/filepath"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babybuddywidgets/bbclient/internal/babybuddy"
	"github.com/babybuddywidgets/bbclient/internal/config"
	"github.com/babybuddywidgets/bbclient/internal/di/providers"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "BABYBUDDY_URL", "BABYBUDDY_TOKEN",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "PAGE_SIZE", "HTTP_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestNewContainer_BuildsClient(t *testing.T) {
	clearEnv(t)

	injector := NewContainer(config.Overrides{
		ServerURL: "https://baby.example.com/",
		Token:     "abc",
		EnvFile:   missingEnvFile(t),
	})
	t.Cleanup(func() { _ = injector.Shutdown() })

	client, err := do.Invoke[*babybuddy.Client](injector)
	require.NoError(t, err)
	assert.Equal(t, "https://baby.example.com/api", client.BaseURL())

	handle, err := do.Invoke[*providers.TransportHandle](injector)
	require.NoError(t, err)
	assert.NotNil(t, handle.HTTP)
}

func TestNewContainer_ConfigErrorIsReturned(t *testing.T) {
	clearEnv(t)

	injector := NewContainer(config.Overrides{EnvFile: missingEnvFile(t)})
	t.Cleanup(func() { _ = injector.Shutdown() })

	_, err := do.Invoke[*babybuddy.Client](injector)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BABYBUDDY_URL")
}
