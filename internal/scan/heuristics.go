package scan

import (
	"path/filepath"
	"strconv"
	"strings"

	"reelcat/internal/config"
)

// storagePrefixes are the label prefixes recognized as storage identifiers
// when inspecting a mount path.
var storagePrefixes = []string{"HDD", "SSD", "USB", "MEDIA", "DRIVE"}

// ExtractYear pulls the first plausible release year out of a file name.
// A token counts when it is a standalone four-digit number between 1900 and
// 2099, optionally wrapped in brackets or parentheses.
func ExtractYear(fileName string) *int {
	tokens := strings.FieldsFunc(fileName, func(r rune) bool {
		switch r {
		case ' ', '.', '_', '-', '(', ')', '[', ']':
			return true
		}
		return false
	})
	for _, token := range tokens {
		if len(token) != 4 {
			continue
		}
		year, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if year >= 1900 && year <= 2099 {
			return &year
		}
	}
	return nil
}

// DetectStorageID infers a storage label from a path by looking for a
// component that starts with a known storage prefix (case-insensitive).
// When nothing matches, fallback is returned; a blank fallback yields
// "UNKNOWN".
func DetectStorageID(path, fallback string) string {
	for _, component := range strings.Split(filepath.ToSlash(path), "/") {
		component = strings.TrimSpace(component)
		if component == "" {
			continue
		}
		// Standard mount roots are not labels.
		switch component {
		case "media", "mnt", "run", "Volumes":
			continue
		}
		upper := strings.ToUpper(component)
		for _, prefix := range storagePrefixes {
			if strings.HasPrefix(upper, prefix) {
				return component
			}
		}
	}
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return config.UnknownStorageID
	}
	return fallback
}
