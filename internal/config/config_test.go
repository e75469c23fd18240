package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amirbrooks/doit/internal/board"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
	if cfg.TimeLayout() != board.Clock12 {
		t.Fatalf("expected 12-hour layout by default")
	}
}

func TestSetPersistsAndLoads(t *testing.T) {
	root := t.TempDir()
	if _, err := Set(root, "time_format", "24h"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := Set(root, "LOG_LEVEL", "Debug"); err != nil {
		t.Fatalf("set: %v", err)
	}
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TimeFormat != "24h" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %#v", cfg)
	}
	if cfg.TimeLayout() != board.Clock24 {
		t.Fatalf("expected 24-hour layout")
	}
	if _, err := os.Stat(filepath.Join(root, FileName)); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
}

func TestSetRejectsBadInput(t *testing.T) {
	root := t.TempDir()
	if _, err := Set(root, "colour", "blue"); !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	cases := map[string]string{
		"log_level":   "loud",
		"log_format":  "xml",
		"time_format": "36h",
	}
	for key, value := range cases {
		if _, err := Set(root, key, value); !errors.Is(err, ErrInvalidValue) {
			t.Fatalf("%s=%s: expected ErrInvalidValue, got %v", key, value, err)
		}
	}
}

func TestEnvOverridesFile(t *testing.T) {
	root := t.TempDir()
	if _, err := Set(root, "log_format", "text"); err != nil {
		t.Fatalf("set: %v", err)
	}
	t.Setenv("DOIT_LOG_FORMAT", "json")
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected env override, got %q", cfg.LogFormat)
	}

	if _, err := Set(root, "time_format", "24h"); err != nil {
		t.Fatalf("set: %v", err)
	}
	fileOnly, err := load(root, false)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fileOnly.LogFormat != "text" {
		t.Fatalf("env values must not be written back, got %q", fileOnly.LogFormat)
	}
}

func TestExportPath(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	if got := cfg.ExportPath(root); got != filepath.Join(root, "exports") {
		t.Fatalf("unexpected default export path %s", got)
	}
	cfg.ExportDir = "/tmp/elsewhere"
	if got := cfg.ExportPath(root); got != "/tmp/elsewhere" {
		t.Fatalf("unexpected export path %s", got)
	}
}
