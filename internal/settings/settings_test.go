package settings_test

import (
	"os"
	"path/filepath"
	"testing"

	"reelcat/internal/settings"
)

func TestLoadMissingFile(t *testing.T) {
	got := settings.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if got.LastCatalogPath != "" {
		t.Fatalf("expected empty settings, got %#v", got)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("last_catalog_path = [not toml"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	got := settings.Load(path)
	if got.LastCatalogPath != "" {
		t.Fatalf("malformed settings must read as empty, got %#v", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")
	want := settings.Settings{LastCatalogPath: "/data/catalog/videos.db"}
	if err := settings.Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got := settings.Load(path)
	if got != want {
		t.Fatalf("round trip mismatch: got %#v, want %#v", got, want)
	}
}

func TestRememberCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")

	settings.RememberCatalog(path, "/data/first.db")
	if got := settings.Load(path); got.LastCatalogPath != "/data/first.db" {
		t.Fatalf("expected remembered path, got %#v", got)
	}

	settings.RememberCatalog(path, "/data/second.db")
	if got := settings.Load(path); got.LastCatalogPath != "/data/second.db" {
		t.Fatalf("expected updated path, got %#v", got)
	}

	settings.RememberCatalog(path, "")
	if got := settings.Load(path); got.LastCatalogPath != "/data/second.db" {
		t.Fatalf("blank catalog path must not clobber settings, got %#v", got)
	}
}
