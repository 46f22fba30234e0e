package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Log.Level)
	}
	if cfg.Server.Transport != "stdio" {
		t.Errorf("expected default transport stdio, got %q", cfg.Server.Transport)
	}
	if cfg.Store.Path != "inkwell.db" {
		t.Errorf("expected default store path inkwell.db, got %q", cfg.Store.Path)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `log:
  level: debug
  format: json
server:
  transport: http
  addr: localhost:9090
caller:
  id: editor-bot
  grants:
    - create_posts
    - edit_posts
seed:
  path: seed.yaml
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Server.Transport != "http" || cfg.Server.Addr != "localhost:9090" {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Caller.ID != "editor-bot" || len(cfg.Caller.Grants) != 2 {
		t.Errorf("unexpected caller config: %+v", cfg.Caller)
	}
	if cfg.Seed.Path != "seed.yaml" {
		t.Errorf("unexpected seed config: %+v", cfg.Seed)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("INKWELL_LOG_LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Log.Level != "error" {
		t.Errorf("expected env to override file, got %q", cfg.Log.Level)
	}
}
