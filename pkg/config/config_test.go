package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.DB.Driver != "postgres" {
		t.Errorf("DB.Driver = %q, want postgres", cfg.DB.Driver)
	}
	if cfg.DB.ConnMaxLifetime != time.Hour {
		t.Errorf("DB.ConnMaxLifetime = %v, want 1h", cfg.DB.ConnMaxLifetime)
	}
	if !cfg.Business.IsProtectedCategory("gold22") {
		t.Errorf("expected GOLD22 to be protected by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("PROTECTED_CATEGORY_CODES", " PLAT , ,DIA")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Errorf("DB.Driver = %q, want sqlite", cfg.DB.Driver)
	}
	if cfg.DB.LogLevel != logger.Silent {
		t.Errorf("DB.LogLevel = %v, want silent", cfg.DB.LogLevel)
	}
	if got := cfg.Business.ProtectedCategoryCodes; len(got) != 2 || got[0] != "PLAT" || got[1] != "DIA" {
		t.Errorf("ProtectedCategoryCodes = %v, want [PLAT DIA]", got)
	}
	if cfg.Business.IsProtectedCategory("GOLD22") {
		t.Errorf("GOLD22 should not be protected once the list is overridden")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "METRICS_PREFIX = \"shop\"\nJWT_EXPIRATION_HOURS = 8\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Metrics.Prefix != "shop" {
		t.Errorf("Metrics.Prefix = %q, want shop", cfg.Metrics.Prefix)
	}
	if cfg.JWT.ExpirationHours != 8 {
		t.Errorf("JWT.ExpirationHours = %d, want 8", cfg.JWT.ExpirationHours)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
