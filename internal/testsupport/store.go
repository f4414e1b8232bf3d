package testsupport

import (
	"context"
	"testing"

	"reelcat/internal/catalog"
	"reelcat/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(context.Background(), cfg.Paths.CatalogPath)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedEntry inserts a minimal catalog entry for tests and returns it.
func SeedEntry(t testing.TB, store *catalog.Store, fileName string, sizeBytes int64, storageID, fullPath string) *catalog.Entry {
	t.Helper()

	entry := &catalog.Entry{
		FileName:  fileName,
		Extension: ".mkv",
		SizeBytes: sizeBytes,
		StorageID: storageID,
		FullPath:  fullPath,
	}
	if err := store.InsertEntry(context.Background(), entry); err != nil {
		t.Fatalf("store.InsertEntry: %v", err)
	}
	return entry
}
