// Package report computes read-only statistics over catalog entries:
// counts and byte totals grouped by extension, category, and storage, plus
// duplicate-group listings. Everything operates on an in-memory snapshot
// and never touches the store.
package report

import (
	"fmt"
	"sort"
	"strings"

	"reelcat/internal/catalog"
)

// Group is one aggregate bucket.
type Group struct {
	Key        string `json:"key"`
	Count      int    `json:"count"`
	TotalBytes int64  `json:"total_bytes"`
}

// Summary is the top-level catalog overview.
type Summary struct {
	Entries     int     `json:"entries"`
	TotalBytes  int64   `json:"total_bytes"`
	Storages    int     `json:"storages"`
	ByExtension []Group `json:"by_extension"`
	ByCategory  []Group `json:"by_category"`
	ByStorage   []Group `json:"by_storage"`
}

// uncategorizedKey labels entries without a category in grouped output.
const uncategorizedKey = "(uncategorized)"

// Summarize builds the full overview from a catalog snapshot.
func Summarize(entries []*catalog.Entry) Summary {
	summary := Summary{
		Entries:     len(entries),
		ByExtension: ByExtension(entries),
		ByCategory:  ByCategory(entries),
		ByStorage:   ByStorage(entries),
	}
	for _, entry := range entries {
		summary.TotalBytes += entry.SizeBytes
	}
	summary.Storages = len(summary.ByStorage)
	return summary
}

// ByExtension groups entries by lowercase extension.
func ByExtension(entries []*catalog.Entry) []Group {
	return group(entries, func(e *catalog.Entry) string {
		return strings.ToLower(e.Extension)
	})
}

// ByCategory groups entries by category; uncategorized entries share one
// bucket.
func ByCategory(entries []*catalog.Entry) []Group {
	return group(entries, func(e *catalog.Entry) string {
		if e.Category == nil || *e.Category == "" {
			return uncategorizedKey
		}
		return *e.Category
	})
}

// ByStorage groups entries by storage label.
func ByStorage(entries []*catalog.Entry) []Group {
	return group(entries, func(e *catalog.Entry) string {
		return e.StorageID
	})
}

func group(entries []*catalog.Entry, keyFn func(*catalog.Entry) string) []Group {
	buckets := make(map[string]*Group)
	for _, entry := range entries {
		key := keyFn(entry)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &Group{Key: key}
			buckets[key] = bucket
		}
		bucket.Count++
		bucket.TotalBytes += entry.SizeBytes
	}

	groups := make([]Group, 0, len(buckets))
	for _, bucket := range buckets {
		groups = append(groups, *bucket)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// DuplicateGroup is one identity cataloged more than once, which can only
// happen across different storages after an override insert.
type DuplicateGroup struct {
	FileName    string           `json:"file_name"`
	SizeBytes   int64            `json:"size_bytes"`
	Entries     []*catalog.Entry `json:"entries"`
	WastedBytes int64            `json:"wasted_bytes"`
}

// Duplicates lists every (file name, size) identity appearing in more than
// one row, sorted by wasted bytes descending.
func Duplicates(entries []*catalog.Entry) []DuplicateGroup {
	byIdentity := make(map[string][]*catalog.Entry)
	order := make([]string, 0)
	for _, entry := range entries {
		key := fmt.Sprintf("%s|%d", entry.FileName, entry.SizeBytes)
		if _, seen := byIdentity[key]; !seen {
			order = append(order, key)
		}
		byIdentity[key] = append(byIdentity[key], entry)
	}

	var groups []DuplicateGroup
	for _, key := range order {
		members := byIdentity[key]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			FileName:    members[0].FileName,
			SizeBytes:   members[0].SizeBytes,
			Entries:     members,
			WastedBytes: members[0].SizeBytes * int64(len(members)-1),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].WastedBytes != groups[j].WastedBytes {
			return groups[i].WastedBytes > groups[j].WastedBytes
		}
		return groups[i].FileName < groups[j].FileName
	})
	return groups
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB"}
	value := float64(bytes) / unit
	idx := 0
	// Values that %.1f would render as "1024.0" roll up to the next unit.
	for idx < len(suffixes)-1 && value+0.05 >= unit {
		value /= unit
		idx++
	}
	return fmt.Sprintf("%.1f %s", value, suffixes[idx])
}
