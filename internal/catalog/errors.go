package catalog

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrDuplicateEntry indicates an insert collided with the per-storage
	// uniqueness constraint on (file_name, size_bytes, storage_id).
	ErrDuplicateEntry = errors.New("catalog: duplicate entry")

	// ErrDuplicateCategory indicates the canonical category name already exists.
	ErrDuplicateCategory = errors.New("catalog: duplicate category")

	// ErrNotFound indicates an update or delete referenced an id that is
	// not present in the catalog.
	ErrNotFound = errors.New("catalog: entry not found")

	// ErrInvalidInput indicates a malformed field was rejected before
	// reaching the store.
	ErrInvalidInput = errors.New("catalog: invalid input")

	// ErrStoreUnavailable indicates the underlying database file is
	// missing, corrupt, or locked. Operations fail without partial commits.
	ErrStoreUnavailable = errors.New("catalog: store unavailable")
)

// isConstraintViolation reports whether err is a SQLite uniqueness or check
// constraint failure.
func isConstraintViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
