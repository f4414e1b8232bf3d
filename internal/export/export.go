// Package export writes catalog snapshots to spreadsheet-compatible CSV
// files. Three projections are supported: identifiers only, the full
// record, and a per-extension aggregate.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"reelcat/internal/catalog"
	"reelcat/internal/report"
)

// Projection selects which columns an export carries.
type Projection string

const (
	// ProjectionNames exports file name, size, and storage only.
	ProjectionNames Projection = "names"
	// ProjectionFull exports every catalog column.
	ProjectionFull Projection = "full"
	// ProjectionExtensions exports the per-extension aggregate.
	ProjectionExtensions Projection = "extensions"
)

// ParseProjection validates a projection name from user input.
func ParseProjection(value string) (Projection, error) {
	switch Projection(strings.ToLower(strings.TrimSpace(value))) {
	case ProjectionNames:
		return ProjectionNames, nil
	case ProjectionFull:
		return ProjectionFull, nil
	case ProjectionExtensions:
		return ProjectionExtensions, nil
	}
	return "", fmt.Errorf("unknown projection %q (expected names, full, or extensions)", value)
}

// WriteCSV renders the projection over entries and writes it to path,
// creating parent directories as needed. It returns the number of data rows
// written.
func WriteCSV(entries []*catalog.Entry, projection Projection, path string) (int, error) {
	tw := table.NewWriter()
	// Keep header names exactly as written; the default style uppercases them.
	tw.Style().Format.Header = text.FormatDefault

	var rows int
	switch projection {
	case ProjectionNames:
		tw.AppendHeader(table.Row{"file_name", "size_bytes", "storage_id"})
		for _, entry := range entries {
			tw.AppendRow(table.Row{entry.FileName, entry.SizeBytes, entry.StorageID})
			rows++
		}
	case ProjectionFull:
		tw.AppendHeader(table.Row{
			"id", "file_name", "extension", "size_bytes", "storage_id",
			"full_path", "creation_date", "year", "category", "added_on",
		})
		for _, entry := range entries {
			tw.AppendRow(table.Row{
				entry.ID,
				entry.FileName,
				entry.Extension,
				entry.SizeBytes,
				entry.StorageID,
				entry.FullPath,
				formatTime(entry.CreationDate),
				formatYear(entry.Year),
				formatString(entry.Category),
				entry.AddedOn.Format(catalog.TimeLayout),
			})
			rows++
		}
	case ProjectionExtensions:
		tw.AppendHeader(table.Row{"extension", "count", "total_bytes", "total_human"})
		for _, group := range report.ByExtension(entries) {
			tw.AppendRow(table.Row{
				group.Key,
				group.Count,
				group.TotalBytes,
				report.FormatBytes(group.TotalBytes),
			})
			rows++
		}
	default:
		return 0, fmt.Errorf("unknown projection %q", projection)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("export: create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(tw.RenderCSV()+"\n"), 0o644); err != nil {
		return 0, fmt.Errorf("export: write %s: %w", path, err)
	}
	return rows, nil
}

// DefaultFileName builds a timestamped export file name for a projection.
func DefaultFileName(projection Projection, now time.Time) string {
	return fmt.Sprintf("catalog-%s-%s.csv", projection, now.Format("20060102-150405"))
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(catalog.TimeLayout)
}

func formatYear(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
