package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDRESS", "LOG_MODE", "CSRF_KEY", "CSRF_SECURE", "SEED_ENTRIES", "HTTP_READ_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, "dev", cfg.LogMode)
	require.Empty(t, cfg.CSRFKey)
	require.True(t, cfg.CSRFSecure)
	require.True(t, cfg.SeedEntries)
	require.Equal(t, 5*time.Second, cfg.ReadTimeout)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("SEED_ENTRIES", "false")
	t.Setenv("HTTP_READ_TIMEOUT", "2s")
	t.Setenv("CSRF_SECURE", "not-a-bool")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	require.Equal(t, ":9999", cfg.HTTPAddress)
	require.False(t, cfg.SeedEntries)
	require.Equal(t, 2*time.Second, cfg.ReadTimeout)
	require.True(t, cfg.CSRFSecure)
}

func TestLoadDotenvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_MODE=prod\nHTTP_ADDRESS=:7000\n"), 0o600))

	t.Setenv("HTTP_ADDRESS", ":8123")
	t.Setenv("LOG_MODE", "")
	require.NoError(t, os.Unsetenv("LOG_MODE"))

	cfg := Load(path)

	require.Equal(t, ":8123", cfg.HTTPAddress)
	require.Equal(t, "prod", cfg.LogMode)
}
