package catalog

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the fixed format used for timestamps persisted in the catalog.
const TimeLayout = "2006-01-02 15:04:05"

// Entry represents one known file instance persisted in the catalog.
type Entry struct {
	ID           int64
	FileName     string // base name without extension
	Extension    string // lowercase, including the dot
	SizeBytes    int64
	StorageID    string // label of the physical medium holding the file
	FullPath     string // absolute path at last observation
	CreationDate *time.Time
	Year         *int
	Category     *string
	AddedOn      time.Time // set by the store on insert, immutable
	FileHash     *string   // reserved; never computed by the core
}

// Identity returns the (file name, size) pair as a display string.
func (e *Entry) Identity() string {
	return fmt.Sprintf("%s (%d bytes)", e.FileName, e.SizeBytes)
}

// EntryUpdate describes a partial update of a catalog entry. Nil fields are
// left unchanged; the Clear flags set the corresponding column to NULL.
type EntryUpdate struct {
	StorageID     *string
	FullPath      *string
	CreationDate  *time.Time
	Year          *int
	Category      *string
	ClearYear     bool
	ClearCategory bool
}

func (u EntryUpdate) isEmpty() bool {
	return u.StorageID == nil && u.FullPath == nil && u.CreationDate == nil &&
		u.Year == nil && u.Category == nil && !u.ClearYear && !u.ClearCategory
}

// Category is a named label from the controlled vocabulary offered for
// entry categorization.
type Category struct {
	ID   int64
	Name string
}

// ValidateYear checks that a year value is inside the range the filename
// heuristic can produce.
func ValidateYear(year int) error {
	if year < 1900 || year > 2099 {
		return fmt.Errorf("%w: year %d out of range 1900-2099", ErrInvalidInput, year)
	}
	return nil
}

func (e *Entry) validate() error {
	if strings.TrimSpace(e.FileName) == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(e.Extension) == "" || !strings.HasPrefix(e.Extension, ".") {
		return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidInput, e.Extension)
	}
	if e.SizeBytes < 0 {
		return fmt.Errorf("%w: negative size %d", ErrInvalidInput, e.SizeBytes)
	}
	if strings.TrimSpace(e.FullPath) == "" {
		return fmt.Errorf("%w: full path is required", ErrInvalidInput)
	}
	if e.Year != nil {
		if err := ValidateYear(*e.Year); err != nil {
			return err
		}
	}
	return nil
}
