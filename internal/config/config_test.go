package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %q, expected 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default driver = %q, expected sqlite", cfg.Database.Driver)
	}
	if cfg.AI.Provider != "openai" {
		t.Errorf("default AI provider = %q, expected openai", cfg.AI.Provider)
	}
	if cfg.AI.DailyLimit != 20 {
		t.Errorf("default AI daily limit = %d, expected 20", cfg.AI.DailyLimit)
	}
	if cfg.Redis.Enabled {
		t.Error("redis should be disabled by default")
	}
}

func TestLoad_FromFile(t *testing.T) {
	content := `
server:
  host: 127.0.0.1
  port: "9090"
  mode: release
database:
  driver: postgres
  dsn: "host=db user=tp dbname=tp"
jwt:
  secret: file-secret
  expire_hour: 12
ai:
  provider: anthropic
  model: claude-sonnet-4-20250514
  daily_limit: 5
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q, expected 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q, expected postgres", cfg.Database.Driver)
	}
	if cfg.JWT.ExpireHour != 12 {
		t.Errorf("expire_hour = %d, expected 12", cfg.JWT.ExpireHour)
	}
	if cfg.AI.Provider != "anthropic" {
		t.Errorf("AI provider = %q, expected anthropic", cfg.AI.Provider)
	}
	if cfg.AI.DailyLimit != 5 {
		t.Errorf("daily limit = %d, expected 5", cfg.AI.DailyLimit)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("AI_DAILY_LIMIT", "50")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("port = %q, expected 3000", cfg.Server.Port)
	}
	if cfg.Database.Driver != "mysql" {
		t.Errorf("driver = %q, expected mysql", cfg.Database.Driver)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("secret = %q, expected env-secret", cfg.JWT.Secret)
	}
	if cfg.AI.DailyLimit != 50 {
		t.Errorf("daily limit = %d, expected 50", cfg.AI.DailyLimit)
	}
	if !cfg.Redis.Enabled {
		t.Error("setting REDIS_ADDR should enable redis")
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis addr = %q, expected redis:6379", cfg.Redis.Addr)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Port = "8181"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Server.Port != "8181" {
		t.Errorf("reloaded port = %q, expected 8181", loaded.Server.Port)
	}
}
