package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftmesh/roomsearch/pkg/engine"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Kind != "sqlite" {
		t.Errorf("expected sqlite default engine, got %q", cfg.Engine.Kind)
	}
	if cfg.Engine.Path == "" {
		t.Error("expected a default index path")
	}
	if len(cfg.SearchKeys) == 0 {
		t.Error("expected default search keys")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
search_keys = ["content.body"]

[engine]
kind = "postgres"
dsn = "postgres://localhost/driftmesh?sslmode=disable"
force_capability = "plain"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Engine.Kind != "postgres" {
		t.Errorf("expected postgres engine, got %q", cfg.Engine.Kind)
	}
	if cfg.Engine.DSN == "" {
		t.Error("expected DSN to be set")
	}

	forced, ok, err := cfg.Engine.ForcedCapability()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || forced != engine.PlainBestEffort {
		t.Errorf("expected forced plain capability, got %v (set=%v)", forced, ok)
	}
}

func TestLoadConfigRejectsBadCapability(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[engine]
kind = "sqlite"
path = "/tmp/index.db"
force_capability = "bogus"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for an unknown capability name")
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := GetDefaultConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := cfg.SaveTemplateConfig(path); err != nil {
		t.Fatalf("saving template: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("loading saved template: %v", err)
	}
	if loaded.Engine.Kind != "sqlite" {
		t.Errorf("expected sqlite engine in template, got %q", loaded.Engine.Kind)
	}
	if loaded.Engine.Path != cfg.Engine.Path {
		t.Errorf("expected index path %q, got %q", cfg.Engine.Path, loaded.Engine.Path)
	}
}

func TestForcedCapabilityUnset(t *testing.T) {
	var e EngineConfig
	if _, ok, err := e.ForcedCapability(); err != nil || ok {
		t.Errorf("expected no override and no error, got set=%v err=%v", ok, err)
	}
}
