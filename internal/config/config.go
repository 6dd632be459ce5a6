// Package config loads and saves the tracker's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all spendguard configuration.
type Config struct {
	General       GeneralConfig      `toml:"general"`
	API           APIConfig          `toml:"api"`
	Cache         CacheConfig        `toml:"cache"`
	Notifications NotificationConfig `toml:"notifications"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataDir  string `toml:"data_dir,omitempty"`
	Currency string `toml:"currency"`
}

// APIConfig holds data-API connection settings.
type APIConfig struct {
	BaseURL    string `toml:"base_url,omitempty"`
	SessionKey string `toml:"session_key,omitempty"`
}

// CacheConfig holds cache freshness settings.
type CacheConfig struct {
	TTLSeconds            int `toml:"ttl_seconds"`
	StaleThresholdSeconds int `toml:"stale_threshold_seconds"`
}

// NotificationConfig holds budget-alert settings.
type NotificationConfig struct {
	Enabled bool `toml:"enabled"`
}

// TTL returns the cache TTL as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// StaleThreshold returns the stale-while-revalidate threshold.
func (c CacheConfig) StaleThreshold() time.Duration {
	return time.Duration(c.StaleThresholdSeconds) * time.Second
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "VND",
		},
		Cache: CacheConfig{
			TTLSeconds:            300,
			StaleThresholdSeconds: 60,
		},
		Notifications: NotificationConfig{
			Enabled: true,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendguard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendguard")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the configured data directory, defaulting next to the
// config dir.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendguard")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "spendguard")
}

// SessionKey returns the session key from env var or config, in that order.
func SessionKey(cfg Config) string {
	if key := os.Getenv("SPENDGUARD_SESSION_KEY"); key != "" {
		return key
	}
	return cfg.API.SessionKey
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
