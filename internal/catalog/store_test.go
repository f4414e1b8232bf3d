package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"reelcat/internal/catalog"
	"reelcat/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	entry := &catalog.Entry{
		FileName:  "Metropolis",
		Extension: ".mkv",
		SizeBytes: 1024,
		StorageID: "HDD-01",
		FullPath:  "/mnt/hdd01/Metropolis.mkv",
	}
	if err := store.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("expected entry ID to be assigned")
	}
	if entry.AddedOn.IsZero() {
		t.Fatal("expected AddedOn to be set on insert")
	}

	fetched, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.FileName != "Metropolis" || fetched.SizeBytes != 1024 {
		t.Fatalf("unexpected fetched entry: %#v", fetched)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedEntry(t, store, "Nosferatu", 2048, "HDD-01", "/mnt/hdd01/Nosferatu.mkv")
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	count, err := reopened.CountEntries(context.Background())
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", count)
	}
}

func TestOpenUnusablePath(t *testing.T) {
	ctx := context.Background()

	missing := filepath.Join(t.TempDir(), "absent", "videos.db")
	if _, err := catalog.Open(ctx, missing); !errors.Is(err, catalog.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable for missing parent directory, got %v", err)
	}

	if _, err := catalog.Open(ctx, ""); !errors.Is(err, catalog.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable for empty path, got %v", err)
	}
}

func TestOpenInMemory(t *testing.T) {
	ctx := context.Background()
	store, err := catalog.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})

	// Inserts and reads must observe the same database even though the
	// pool would otherwise hand out fresh connections.
	testsupport.SeedEntry(t, store, "Nosferatu", 2048, "HDD-01", "/mnt/hdd01/Nosferatu.mkv")
	count, err := store.CountEntries(ctx)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 entry in memory store, got %d", count)
	}
}

func TestInsertEntryValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	cases := []struct {
		name  string
		entry catalog.Entry
	}{
		{"missing name", catalog.Entry{Extension: ".mkv", SizeBytes: 1, FullPath: "/a"}},
		{"missing extension", catalog.Entry{FileName: "a", SizeBytes: 1, FullPath: "/a"}},
		{"extension without dot", catalog.Entry{FileName: "a", Extension: "mkv", SizeBytes: 1, FullPath: "/a"}},
		{"negative size", catalog.Entry{FileName: "a", Extension: ".mkv", SizeBytes: -1, FullPath: "/a"}},
		{"missing path", catalog.Entry{FileName: "a", Extension: ".mkv", SizeBytes: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := tc.entry
			err := store.InsertEntry(ctx, &entry)
			if !errors.Is(err, catalog.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestInsertEntryDefaultsStorageID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	entry := &catalog.Entry{
		FileName:  "Sunrise",
		Extension: ".mp4",
		SizeBytes: 700,
		FullPath:  "/videos/Sunrise.mp4",
	}
	if err := store.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("InsertEntry failed: %v", err)
	}
	fetched, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.StorageID != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN storage id, got %q", fetched.StorageID)
	}
}

func TestInsertEntryDuplicateSameStorage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedEntry(t, store, "Vertigo", 4096, "HDD-01", "/mnt/hdd01/Vertigo.mkv")
	dup := &catalog.Entry{
		FileName:  "Vertigo",
		Extension: ".mkv",
		SizeBytes: 4096,
		StorageID: "HDD-01",
		FullPath:  "/mnt/hdd01/movies/Vertigo.mkv",
	}
	if err := store.InsertEntry(ctx, dup); !errors.Is(err, catalog.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}

	// Same identity on a different storage is allowed at the schema level.
	other := &catalog.Entry{
		FileName:  "Vertigo",
		Extension: ".mkv",
		SizeBytes: 4096,
		StorageID: "USB-02",
		FullPath:  "/mnt/usb02/Vertigo.mkv",
	}
	if err := store.InsertEntry(ctx, other); err != nil {
		t.Fatalf("insert on second storage failed: %v", err)
	}
}

func TestFindByIdentityIsCaseSensitive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedEntry(t, store, "The Third Man", 9000, "HDD-01", "/mnt/hdd01/The Third Man.mkv")

	matches, err := store.FindByIdentity(ctx, "The Third Man", 9000)
	if err != nil {
		t.Fatalf("FindByIdentity failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	lowered, err := store.FindByIdentity(ctx, "the third man", 9000)
	if err != nil {
		t.Fatalf("FindByIdentity failed: %v", err)
	}
	if len(lowered) != 0 {
		t.Fatalf("identity lookup must be case-sensitive, got %d matches", len(lowered))
	}

	none, err := store.FindByIdentity(ctx, "The Third Man", 9001)
	if err != nil {
		t.Fatalf("FindByIdentity failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no match for different size, got %d", len(none))
	}
}

func TestUpdateEntryPartial(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	entry := testsupport.SeedEntry(t, store, "Stalker", 5000, "HDD-01", "/mnt/hdd01/Stalker.mkv")

	year := 1979
	category := "Drama"
	newPath := "/mnt/hdd01/films/Stalker.mkv"
	created := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)
	update := catalog.EntryUpdate{
		FullPath:     &newPath,
		Year:         &year,
		Category:     &category,
		CreationDate: &created,
	}
	if err := store.UpdateEntry(ctx, entry.ID, update); err != nil {
		t.Fatalf("UpdateEntry failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.FullPath != newPath {
		t.Fatalf("expected path %q, got %q", newPath, fetched.FullPath)
	}
	if fetched.Year == nil || *fetched.Year != 1979 {
		t.Fatalf("expected year 1979, got %v", fetched.Year)
	}
	if fetched.Category == nil || *fetched.Category != "Drama" {
		t.Fatalf("expected category Drama, got %v", fetched.Category)
	}
	if fetched.CreationDate == nil || !fetched.CreationDate.Equal(created) {
		t.Fatalf("expected creation date %v, got %v", created, fetched.CreationDate)
	}
	if fetched.StorageID != "HDD-01" {
		t.Fatalf("storage id should be untouched, got %q", fetched.StorageID)
	}

	if err := store.UpdateEntry(ctx, entry.ID, catalog.EntryUpdate{ClearYear: true, ClearCategory: true}); err != nil {
		t.Fatalf("clear update failed: %v", err)
	}
	cleared, err := store.GetByID(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if cleared.Year != nil || cleared.Category != nil {
		t.Fatalf("expected cleared year and category, got %v / %v", cleared.Year, cleared.Category)
	}
}

func TestUpdateEntryErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.UpdateEntry(ctx, 1, catalog.EntryUpdate{}); !errors.Is(err, catalog.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty update, got %v", err)
	}

	badYear := 1500
	if err := store.UpdateEntry(ctx, 1, catalog.EntryUpdate{Year: &badYear}); !errors.Is(err, catalog.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for year 1500, got %v", err)
	}

	year := 1999
	if err := store.UpdateEntry(ctx, 42, catalog.EntryUpdate{Year: &year}); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestDeleteOperations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.SeedEntry(t, store, "Rashomon", 100, "HDD-01", "/mnt/hdd01/Rashomon.mkv")
	second := testsupport.SeedEntry(t, store, "Ikiru", 200, "HDD-01", "/mnt/hdd01/Ikiru.mkv")
	third := testsupport.SeedEntry(t, store, "Ran", 300, "HDD-01", "/mnt/hdd01/Ran.mkv")

	if err := store.DeleteEntry(ctx, first.ID); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if err := store.DeleteEntry(ctx, first.ID); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	deleted, err := store.DeleteEntries(ctx, []int64{second.ID, third.ID, 9999})
	if err != nil {
		t.Fatalf("DeleteEntries failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deletions, got %d", deleted)
	}

	testsupport.SeedEntry(t, store, "Yojimbo", 400, "HDD-01", "/mnt/hdd01/Yojimbo.mkv")
	cleared, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cleared != 1 {
		t.Fatalf("expected 1 cleared row, got %d", cleared)
	}
	count, err := store.CountEntries(ctx)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty catalog, got %d rows", count)
	}
}

func TestListAndSearch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedEntry(t, store, "Alien", 100, "HDD-01", "/mnt/hdd01/Alien.mkv")
	testsupport.SeedEntry(t, store, "Aliens", 200, "USB-02", "/mnt/usb02/Aliens.mkv")
	testsupport.SeedEntry(t, store, "Blade Runner", 300, "HDD-01", "/mnt/hdd01/Blade Runner.mkv")

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	if all[0].FileName != "Alien" || all[2].FileName != "Blade Runner" {
		t.Fatalf("unexpected ordering: %s, %s, %s", all[0].FileName, all[1].FileName, all[2].FileName)
	}

	onHDD, err := store.ListByStorage(ctx, "HDD-01")
	if err != nil {
		t.Fatalf("ListByStorage failed: %v", err)
	}
	if len(onHDD) != 2 {
		t.Fatalf("expected 2 entries on HDD-01, got %d", len(onHDD))
	}

	storages, err := store.ListStorageIDs(ctx)
	if err != nil {
		t.Fatalf("ListStorageIDs failed: %v", err)
	}
	if len(storages) != 2 || storages[0] != "HDD-01" || storages[1] != "USB-02" {
		t.Fatalf("unexpected storage ids: %v", storages)
	}

	matches, err := store.SearchByName(ctx, "alien")
	if err != nil {
		t.Fatalf("SearchByName failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 search matches, got %d", len(matches))
	}

	byName, err := store.FindByName(ctx, "Aliens")
	if err != nil {
		t.Fatalf("FindByName failed: %v", err)
	}
	if len(byName) != 1 || byName[0].SizeBytes != 200 {
		t.Fatalf("unexpected FindByName result: %#v", byName)
	}
}

func TestCategories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	added, err := store.AddCategory(ctx, "  science   fiction ")
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if added.Name != "Science Fiction" {
		t.Fatalf("expected canonical name, got %q", added.Name)
	}

	if _, err := store.AddCategory(ctx, "SCIENCE FICTION"); !errors.Is(err, catalog.ErrDuplicateCategory) {
		t.Fatalf("expected ErrDuplicateCategory, got %v", err)
	}
	if _, err := store.AddCategory(ctx, "   "); !errors.Is(err, catalog.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}

	if _, err := store.AddCategory(ctx, "documentary"); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 2 || categories[0].Name != "Documentary" {
		t.Fatalf("unexpected categories: %#v", categories)
	}

	has, err := store.HasCategory(ctx, "science fiction")
	if err != nil {
		t.Fatalf("HasCategory failed: %v", err)
	}
	if !has {
		t.Fatal("expected HasCategory to report true")
	}

	if err := store.RemoveCategory(ctx, "Documentary"); err != nil {
		t.Fatalf("RemoveCategory failed: %v", err)
	}
	if err := store.RemoveCategory(ctx, "Documentary"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second removal, got %v", err)
	}
}

func TestReset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedEntry(t, store, "Solaris", 100, "HDD-01", "/mnt/hdd01/Solaris.mkv")
	if _, err := store.AddCategory(ctx, "Drama"); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	count, err := store.CountEntries(ctx)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty catalog after reset, got %d", count)
	}
	categories, err := store.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 0 {
		t.Fatalf("expected empty vocabulary after reset, got %d", len(categories))
	}

	// The schema must be usable again immediately.
	testsupport.SeedEntry(t, store, "Mirror", 200, "HDD-01", "/mnt/hdd01/Mirror.mkv")
}
