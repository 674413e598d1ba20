package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HWBOOK_SERVER", "")
	t.Setenv("HWBOOK_TOKEN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.Server)
	assert.Empty(t, cfg.Token)
	assert.True(t, cfg.Logging.Enabled)
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "hwbook"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hwbook", "config.yaml"),
		[]byte("server: https://hw.example.com\ntoken: file-token\n"), 0o600))

	t.Run("file values apply", func(t *testing.T) {
		t.Setenv("HWBOOK_SERVER", "")
		t.Setenv("HWBOOK_TOKEN", "")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://hw.example.com", cfg.Server)
		assert.Equal(t, "file-token", cfg.Token)
	})

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("HWBOOK_TOKEN", "env-token")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "env-token", cfg.Token)
		assert.Equal(t, "https://hw.example.com", cfg.Server)
	})
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "hwbook"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hwbook", "config.yaml"),
		[]byte("server: [unclosed"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}
