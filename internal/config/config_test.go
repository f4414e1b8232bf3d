package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelcat/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCatalog := filepath.Join(tempHome, ".local", "share", "reelcat", "videos.db")
	if cfg.Paths.CatalogPath != wantCatalog {
		t.Fatalf("unexpected catalog path: got %q want %q", cfg.Paths.CatalogPath, wantCatalog)
	}
	if !strings.HasPrefix(cfg.Paths.LogDir, tempHome) {
		t.Fatalf("expected log dir under temp HOME, got %q", cfg.Paths.LogDir)
	}
	if !cfg.Scan.IncludeSubdirs {
		t.Fatal("expected include_subdirs enabled by default")
	}
	if len(cfg.Scan.Extensions) == 0 {
		t.Fatal("expected default extensions")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.ExportDir, filepath.Dir(cfg.Paths.CatalogPath)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}

func TestLoadNormalizesExtensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[scan]
extensions = ["MKV", ".mp4", "mp4", " .Avi "]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}

	want := []string{".mkv", ".mp4", ".avi"}
	if len(cfg.Scan.Extensions) != len(want) {
		t.Fatalf("unexpected extensions: %v", cfg.Scan.Extensions)
	}
	for i, ext := range want {
		if cfg.Scan.Extensions[i] != ext {
			t.Fatalf("extension %d: got %q want %q", i, cfg.Scan.Extensions[i], ext)
		}
	}

	set := cfg.ExtensionSet()
	if _, ok := set[".mkv"]; !ok {
		t.Fatal("expected .mkv in extension set")
	}
}

func TestLoadRejectsBadLogging(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"format", "[logging]\nformat = \"xml\"\n"},
		{"level", "[logging]\nlevel = \"verbose\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingExplicitPathUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if len(cfg.Scan.Extensions) == 0 {
		t.Fatal("expected defaults when file is absent")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected sample format: %q", cfg.Logging.Format)
	}
}

func TestExpandPathTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/videos")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(tempHome, "videos") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
