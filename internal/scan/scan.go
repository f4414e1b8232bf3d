package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"reelcat/internal/logging"
)

// Descriptor captures one file observed on disk. FileName carries the base
// name without its extension; the (FileName, SizeBytes) pair is the identity
// used for catalog reconciliation.
type Descriptor struct {
	FileName     string
	Extension    string
	SizeBytes    int64
	FullPath     string
	CreationDate *time.Time
}

// Identity returns the (file name, size) pair as a display string.
func (d Descriptor) Identity() string {
	return fmt.Sprintf("%s (%d bytes)", d.FileName, d.SizeBytes)
}

// Options controls a scan run.
type Options struct {
	// Extensions is the lowercase, dot-prefixed allowlist. Empty means
	// nothing matches.
	Extensions map[string]struct{}
	// IncludeSubdirs walks the whole tree when true; otherwise only the
	// top-level directory is read.
	IncludeSubdirs bool
}

// Scanner walks directories and produces descriptors.
type Scanner struct {
	opts   Options
	logger *slog.Logger
}

// NewScanner builds a scanner with the given options.
func NewScanner(opts Options, logger *slog.Logger) *Scanner {
	return &Scanner{
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "scan"),
	}
}

// Scan discovers matching files under root, sorted by full path. Unreadable
// subdirectories are logged and skipped rather than failing the run.
func (s *Scanner) Scan(ctx context.Context, root string) ([]Descriptor, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("scan: root directory is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan: inspect root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan: %q is not a directory", root)
	}

	var descriptors []Descriptor
	collect := func(path string, entry fs.DirEntry) {
		descriptor, ok := s.describe(path, entry)
		if !ok {
			return
		}
		descriptors = append(descriptors, descriptor)
	}

	if s.opts.IncludeSubdirs {
		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				s.logger.WarnContext(ctx, "skipping unreadable path",
					logging.String("path", path),
					logging.Error(walkErr),
				)
				if entry != nil && entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			collect(path, entry)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan: walk %s: %w", root, err)
		}
	} else {
		entries, readErr := os.ReadDir(root)
		if readErr != nil {
			return nil, fmt.Errorf("scan: read %s: %w", root, readErr)
		}
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if entry.IsDir() {
				continue
			}
			collect(filepath.Join(root, entry.Name()), entry)
		}
	}

	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].FullPath < descriptors[j].FullPath
	})
	return descriptors, nil
}

func (s *Scanner) describe(path string, entry fs.DirEntry) (Descriptor, bool) {
	name := entry.Name()
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return Descriptor{}, false
	}
	if _, ok := s.opts.Extensions[ext]; !ok {
		return Descriptor{}, false
	}
	info, err := entry.Info()
	if err != nil {
		s.logger.Warn("skipping unstatable file",
			logging.String("path", path),
			logging.Error(err),
		)
		return Descriptor{}, false
	}
	if !info.Mode().IsRegular() {
		return Descriptor{}, false
	}

	descriptor := Descriptor{
		FileName:  strings.TrimSuffix(name, filepath.Ext(name)),
		Extension: ext,
		SizeBytes: info.Size(),
		FullPath:  path,
	}
	if created, ok := creationTime(path, info); ok {
		descriptor.CreationDate = &created
	}
	return descriptor, true
}
