package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears an env var for the test while restoring it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	unset(t, "NEXUS_BACKEND_URL")
	unset(t, "NEXUS_LOG_LEVEL")
	unset(t, "NEXUS_POLL_INTERVAL")
	unset(t, "NEXUS_REQUEST_TIMEOUT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NEXUS_BACKEND_URL", "https://nexus.internal:9000")
	t.Setenv("NEXUS_EMAIL", "dev@example.com")
	t.Setenv("NEXUS_POLL_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://nexus.internal:9000", cfg.BackendURL)
	assert.Equal(t, "dev@example.com", cfg.Email)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
}

func TestDefaultConfigMatchesEnvDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, "info", cfg.LogLevel)
}
