package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  max_upload_size: 10MB
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 60, cfg.Storage.DownloadURLExpiry)
	assert.Equal(t, 300, cfg.Storage.PreviewURLExpiry)

	size, err := cfg.MaxUploadBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(10_000_000), size)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("CUSTOMERLY_SERVER_PORT", "7070")
	t.Setenv("CUSTOMERLY_DATABASE_DRIVER", "postgres")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_RejectsBadUploadSize(t *testing.T) {
	path := writeConfig(t, "storage:\n  max_upload_size: lots\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
