package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"

	"reelcat/internal/catalog"
	"reelcat/internal/report"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorize(text, color string, enabled bool) string {
	if !enabled || color == "" {
		return text
	}
	return color + text + ansiReset
}

func optionalString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func optionalYear(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(catalog.TimeLayout)
}

func entryRow(entry *catalog.Entry) []string {
	return []string{
		strconv.FormatInt(entry.ID, 10),
		entry.FileName,
		entry.Extension,
		report.FormatBytes(entry.SizeBytes),
		entry.StorageID,
		optionalYear(entry.Year),
		optionalString(entry.Category),
		entry.FullPath,
	}
}

var entryHeaders = []string{"ID", "Name", "Ext", "Size", "Storage", "Year", "Category", "Path"}

var entryAligns = []columnAlignment{
	alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft,
}

func parseEntryID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", arg)
	}
	return id, nil
}
