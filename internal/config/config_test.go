package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.General.Currency != "VND" {
		t.Errorf("currency = %q, want VND", cfg.General.Currency)
	}
	if cfg.Cache.TTLSeconds != 300 || cfg.Cache.StaleThresholdSeconds != 60 {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if !cfg.Notifications.Enabled {
		t.Error("notifications default on")
	}
	if Exists() {
		t.Error("Exists() true without a config file")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DataDir = "/tmp/spendguard-test"
	cfg.API.BaseURL = "https://api.example.com"
	cfg.API.SessionKey = "sess-123"
	cfg.Cache.TTLSeconds = 120
	cfg.Notifications.Enabled = false

	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	if !Exists() {
		t.Fatal("Exists() false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.General.DataDir != cfg.General.DataDir {
		t.Errorf("data dir = %q", got.General.DataDir)
	}
	if got.API.BaseURL != cfg.API.BaseURL || got.API.SessionKey != cfg.API.SessionKey {
		t.Errorf("api = %+v", got.API)
	}
	if got.Cache.TTLSeconds != 120 {
		t.Errorf("ttl = %d", got.Cache.TTLSeconds)
	}
	if got.Notifications.Enabled {
		t.Error("notifications should stay off")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "spendguard")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	partial := "[api]\nbase_url = \"https://api.example.com\"\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(partial), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Cache.TTLSeconds != 300 {
		t.Errorf("ttl = %d, want default 300", cfg.Cache.TTLSeconds)
	}
	if cfg.General.Currency != "VND" {
		t.Errorf("currency = %q", cfg.General.Currency)
	}
}

func TestCacheDurations(t *testing.T) {
	c := CacheConfig{TTLSeconds: 300, StaleThresholdSeconds: 60}
	if c.TTL() != 5*time.Minute {
		t.Errorf("TTL = %v", c.TTL())
	}
	if c.StaleThreshold() != time.Minute {
		t.Errorf("StaleThreshold = %v", c.StaleThreshold())
	}
}

func TestSessionKeyPrefersEnv(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.SessionKey = "from-config"

	t.Setenv("SPENDGUARD_SESSION_KEY", "")
	if got := SessionKey(cfg); got != "from-config" {
		t.Errorf("SessionKey = %q, want config value", got)
	}

	t.Setenv("SPENDGUARD_SESSION_KEY", "from-env")
	if got := SessionKey(cfg); got != "from-env" {
		t.Errorf("SessionKey = %q, want env value", got)
	}
}

func TestDataDirPrecedence(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	cfg := DefaultConfig()
	if got := DataDir(cfg); got != filepath.Join("/xdg/data", "spendguard") {
		t.Errorf("DataDir = %q, want XDG fallback", got)
	}

	cfg.General.DataDir = "/explicit"
	if got := DataDir(cfg); got != "/explicit" {
		t.Errorf("DataDir = %q, want explicit config value", got)
	}
}
