package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefaultConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme.Active != "default" || !cfg.Cache.Enabled || !cfg.Library.Enabled {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Board.Width != 50 || cfg.Board.Height != 50 {
		t.Fatalf("unexpected board size: %+v", cfg.Board)
	}
	p := filepath.Join(home, ".config", "contentboard", "config.json")
	if _, err := os.Stat(p); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	cfg.Theme.Active = "catppuccin-mocha"
	cfg.Cache.Enabled = false
	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Theme.Active != "catppuccin-mocha" || loaded.Cache.Enabled {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "contentboard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"version":1,"log":{"level":"debug"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Log.Level != "debug" || !cfg.Cache.Enabled || cfg.Board.Width != 50 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CONTENTBOARD_THEME", "nord")
	t.Setenv("CONTENTBOARD_CACHE_ENABLED", "false")
	t.Setenv("CONTENTBOARD_LOG_FILE", "/tmp/cb.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Theme.Active != "nord" || cfg.Cache.Enabled || cfg.Log.File != "/tmp/cb.log" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if p, _ := cfg.LogPath(); p != "/tmp/cb.log" {
		t.Fatalf("unexpected log path %q", p)
	}

	onDisk, err := LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if onDisk.Theme.Active != "default" {
		t.Fatalf("env override leaked into file: %+v", onDisk)
	}

	t.Setenv("CONTENTBOARD_CACHE_ENABLED", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("expected parse error for invalid bool")
	}
}

func TestLibraryPathDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	p, err := Default().LibraryPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(home, ".config", "contentboard", "library.yaml") {
		t.Fatalf("unexpected library path %q", p)
	}
}
