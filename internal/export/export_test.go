package export_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelcat/internal/catalog"
	"reelcat/internal/export"
)

func sampleEntries() []*catalog.Entry {
	year := 1979
	category := "Horror"
	return []*catalog.Entry{
		{
			ID:        1,
			FileName:  "Alien",
			Extension: ".mkv",
			SizeBytes: 4096,
			StorageID: "HDD-01",
			FullPath:  "/mnt/HDD-01/Alien.mkv",
			Year:      &year,
			Category:  &category,
			AddedOn:   time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        2,
			FileName:  "Sunrise",
			Extension: ".mp4",
			SizeBytes: 2048,
			StorageID: "USB-02",
			FullPath:  "/mnt/USB-02/Sunrise.mp4",
			AddedOn:   time.Date(2026, 1, 16, 11, 0, 0, 0, time.UTC),
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	return records
}

func TestWriteCSVNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.csv")
	rows, err := export.WriteCSV(sampleEntries(), export.ProjectionNames, path)
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 rows, got %d", rows)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if strings.Join(records[0], ",") != "file_name,size_bytes,storage_id" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][0] != "Alien" || records[1][1] != "4096" || records[1][2] != "HDD-01" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
}

func TestWriteCSVFull(t *testing.T) {
	path := filepath.Join(t.TempDir(), "full.csv")
	if _, err := export.WriteCSV(sampleEntries(), export.ProjectionFull, path); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records := readCSV(t, path)
	if len(records[0]) != 10 {
		t.Fatalf("expected 10 columns, got %d", len(records[0]))
	}
	alien := records[1]
	if alien[7] != "1979" || alien[8] != "Horror" {
		t.Fatalf("unexpected year/category columns: %v", alien)
	}
	sunrise := records[2]
	if sunrise[7] != "" || sunrise[8] != "" {
		t.Fatalf("optional columns must be empty when unset: %v", sunrise)
	}
}

func TestWriteCSVExtensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ext.csv")
	rows, err := export.WriteCSV(sampleEntries(), export.ProjectionExtensions, path)
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected one row per extension, got %d", rows)
	}

	records := readCSV(t, path)
	if records[1][0] != ".mkv" && records[1][0] != ".mp4" {
		t.Fatalf("unexpected extension row: %v", records[1])
	}
}

func TestParseProjection(t *testing.T) {
	for _, valid := range []string{"names", "FULL", " extensions "} {
		if _, err := export.ParseProjection(valid); err != nil {
			t.Fatalf("expected %q to parse, got %v", valid, err)
		}
	}
	if _, err := export.ParseProjection("pdf"); err == nil {
		t.Fatal("expected error for unknown projection")
	}
}

func TestDefaultFileName(t *testing.T) {
	now := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	name := export.DefaultFileName(export.ProjectionNames, now)
	if name != "catalog-names-20260201-093000.csv" {
		t.Fatalf("unexpected file name %q", name)
	}
}
