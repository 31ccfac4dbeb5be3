package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Storage.SeedDemoData)
	assert.False(t, cfg.RemoteConfigured())

	_, err = os.Stat(path)
	require.NoError(t, err, "first load should leave a config file to edit")

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Storage.DatabasePath, again.Storage.DatabasePath)
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &AppConfig{
		Backend: BackendConfig{
			URL:     "https://hub.example.org",
			AnonKey: "anon-key",
		},
		Storage: StorageConfig{
			DatabasePath: filepath.Join(t.TempDir(), "hub.db"),
			SeedDemoData: false,
		},
		Display: DisplayConfig{Theme: "dark"},
	}
	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, got.RemoteConfigured())
	assert.Equal(t, "https://hub.example.org", got.Backend.URL)
	assert.Equal(t, "anon-key", got.Backend.AnonKey)
	assert.Equal(t, cfg.Storage.DatabasePath, got.Storage.DatabasePath)
	assert.False(t, got.Storage.SeedDemoData)
	assert.Equal(t, "dark", got.Display.Theme)
}
