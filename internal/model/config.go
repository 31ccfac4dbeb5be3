package model

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// BackendConfig holds the remote backend connection settings. An empty URL
// selects the local-fallback backend, with all state kept on this machine.
type BackendConfig struct {
	// URL is the root URL of the remote backend service.
	URL string `mapstructure:"url" yaml:"url"`

	// AnonKey is the public API key sent with every request.
	AnonKey string `mapstructure:"anon_key" yaml:"anon_key"`
}

// StorageConfig holds local persistence settings.
type StorageConfig struct {
	// DatabasePath is the SQLite file backing the durable store.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// SeedDemoData controls whether empty collections are seeded with
	// the demo dataset on first use (local-fallback mode only).
	SeedDemoData bool `mapstructure:"seed_demo_data" yaml:"seed_demo_data"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend BackendConfig `mapstructure:"backend" yaml:"backend"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// RemoteConfigured reports whether a remote backend is configured.
func (c *AppConfig) RemoteConfigured() bool {
	return c.Backend.URL != ""
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/volunteerhub/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "volunteerhub", "config.yaml")
}

// DefaultDatabasePath returns the default SQLite database location.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "volunteerhub.db")
	}
	return filepath.Join(home, ".config", "volunteerhub", "volunteerhub.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			DatabasePath: DefaultDatabasePath(),
			SeedDemoData: true,
		},
		Display: DisplayConfig{
			Theme: "default",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is treated as a first run: the defaults are written to
// path so the user has a file to edit, then returned.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.database_path", DefaultDatabasePath())
	v.SetDefault("storage.seed_demo_data", true)
	v.SetDefault("display.theme", "default")

	if err := v.ReadInConfig(); err != nil {
		if isMissingConfig(err) {
			cfg := defaultAppConfig()
			// The defaults still apply when the write fails.
			if err := SaveConfig(path, cfg); err != nil {
				slog.Warn("persisting default config", "path", path, "error", err)
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

func isMissingConfig(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("backend", cfg.Backend)
	v.Set("storage", cfg.Storage)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
