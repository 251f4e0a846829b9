package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/buckleypaul/dude/internal/avrdude"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ToolPath != avrdude.DefaultTool {
		t.Errorf("expected ToolPath=%s, got=%s", avrdude.DefaultTool, cfg.ToolPath)
	}
	if cfg.DefaultBoard != "uno" {
		t.Errorf("expected DefaultBoard=uno, got=%s", cfg.DefaultBoard)
	}
	if _, ok := avrdude.Lookup(cfg.DefaultBoard); !ok {
		t.Errorf("default board %s is not in the board table", cfg.DefaultBoard)
	}
	if cfg.RefreshInterval() != 5*time.Second {
		t.Errorf("expected 5s refresh, got=%s", cfg.RefreshInterval())
	}
	if cfg.Timeout() != 0 {
		t.Errorf("expected no timeout, got=%s", cfg.Timeout())
	}
}

func TestLoadMerge(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmp := t.TempDir()
	dir := filepath.Join(tmp, ".dude")
	os.MkdirAll(dir, 0o755)
	os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{
		"default_board": "pro_mini",
		"refresh_seconds": 2,
		"timeout_seconds": 30
	}`), 0o644)

	cfg := Load(tmp)

	if cfg.DefaultBoard != "pro_mini" {
		t.Errorf("expected default_board from local config, got=%s", cfg.DefaultBoard)
	}
	if cfg.RefreshInterval() != 2*time.Second {
		t.Errorf("expected 2s refresh, got=%s", cfg.RefreshInterval())
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("expected 30s timeout, got=%s", cfg.Timeout())
	}
	// ToolPath should still be default since not overridden
	if cfg.ToolPath != "avrdude" {
		t.Errorf("expected default ToolPath=avrdude, got=%s", cfg.ToolPath)
	}
}

func TestLoadIgnoresMalformedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmp := t.TempDir()
	os.MkdirAll(filepath.Join(tmp, ".dude"), 0o755)
	os.WriteFile(LocalPath(tmp), []byte(`{not json`), 0o644)

	cfg := Load(tmp)
	if cfg != Defaults() {
		t.Errorf("expected defaults, got=%+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmp := t.TempDir()
	cfg := Config{
		ToolPath:       "/opt/arduino/bin/avrdude",
		DefaultBoard:   "nano",
		DefaultPort:    "/dev/ttyUSB0",
		RefreshSeconds: 10,
	}

	path, err := Save(cfg, tmp, false)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if path != LocalPath(tmp) {
		t.Fatalf("expected %s, got %s", LocalPath(tmp), path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded := Load(tmp)
	if loaded.ToolPath != "/opt/arduino/bin/avrdude" {
		t.Errorf("expected ToolPath from file, got=%s", loaded.ToolPath)
	}
	if loaded.DefaultPort != "/dev/ttyUSB0" {
		t.Errorf("expected DefaultPort=/dev/ttyUSB0, got=%s", loaded.DefaultPort)
	}
	if loaded.RefreshSeconds != 10 {
		t.Errorf("expected RefreshSeconds=10, got=%d", loaded.RefreshSeconds)
	}
}

func TestSaveGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := Save(Defaults(), t.TempDir(), true)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := filepath.Join(home, ".config", "dude", "config.json")
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
}
