package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"reelcat/internal/config"
)

const entryColumns = `id, file_name, extension, size_bytes, storage_id, full_path,
	creation_date, year, category, added_on, file_hash`

// dbtx is satisfied by both *sql.DB and *sql.Tx so the reconcile applier can
// reuse entry mutations inside its own transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InsertEntry adds a new entry to the catalog. The entry's ID and AddedOn
// fields are populated on success. Colliding with an existing
// (file_name, size_bytes, storage_id) row returns ErrDuplicateEntry.
func (s *Store) InsertEntry(ctx context.Context, entry *Entry) error {
	return insertEntry(ctx, s.db, entry)
}

// InsertEntryTx behaves like InsertEntry inside an existing transaction.
func (s *Store) InsertEntryTx(ctx context.Context, tx *sql.Tx, entry *Entry) error {
	return insertEntry(ctx, tx, entry)
}

func insertEntry(ctx context.Context, q dbtx, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidInput)
	}
	if err := entry.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(entry.StorageID) == "" {
		entry.StorageID = config.UnknownStorageID
	}
	addedOn := time.Now().UTC().Truncate(time.Second)

	result, err := q.ExecContext(ctx, `
		INSERT INTO files (file_name, extension, size_bytes, storage_id, full_path,
			creation_date, year, category, added_on, file_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.FileName,
		strings.ToLower(entry.Extension),
		entry.SizeBytes,
		entry.StorageID,
		entry.FullPath,
		nullableTime(entry.CreationDate),
		nullableInt(entry.Year),
		nullableString(entry.Category),
		addedOn.Format(TimeLayout),
		nullableString(entry.FileHash),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: %s on %s", ErrDuplicateEntry, entry.Identity(), entry.StorageID)
		}
		return fmt.Errorf("insert entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert entry id: %w", err)
	}
	entry.ID = id
	entry.AddedOn = addedOn
	return nil
}

// UpdateEntry applies a partial update to the entry with the given id.
// Unset fields are left untouched.
func (s *Store) UpdateEntry(ctx context.Context, id int64, update EntryUpdate) error {
	return updateEntry(ctx, s.db, id, update)
}

// UpdateEntryTx behaves like UpdateEntry inside an existing transaction.
func (s *Store) UpdateEntryTx(ctx context.Context, tx *sql.Tx, id int64, update EntryUpdate) error {
	return updateEntry(ctx, tx, id, update)
}

func updateEntry(ctx context.Context, q dbtx, id int64, update EntryUpdate) error {
	if update.isEmpty() {
		return fmt.Errorf("%w: empty update", ErrInvalidInput)
	}
	if update.Year != nil {
		if err := ValidateYear(*update.Year); err != nil {
			return err
		}
	}

	assignments := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if update.StorageID != nil {
		value := strings.TrimSpace(*update.StorageID)
		if value == "" {
			return fmt.Errorf("%w: storage id cannot be blank", ErrInvalidInput)
		}
		assignments = append(assignments, "storage_id = ?")
		args = append(args, value)
	}
	if update.FullPath != nil {
		if strings.TrimSpace(*update.FullPath) == "" {
			return fmt.Errorf("%w: full path cannot be blank", ErrInvalidInput)
		}
		assignments = append(assignments, "full_path = ?")
		args = append(args, *update.FullPath)
	}
	if update.CreationDate != nil {
		assignments = append(assignments, "creation_date = ?")
		args = append(args, update.CreationDate.Format(TimeLayout))
	}
	switch {
	case update.ClearYear:
		assignments = append(assignments, "year = NULL")
	case update.Year != nil:
		assignments = append(assignments, "year = ?")
		args = append(args, *update.Year)
	}
	switch {
	case update.ClearCategory:
		assignments = append(assignments, "category = NULL")
	case update.Category != nil:
		assignments = append(assignments, "category = ?")
		args = append(args, *update.Category)
	}

	args = append(args, id)
	query := "UPDATE files SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: update collides with existing entry", ErrDuplicateEntry)
		}
		return fmt.Errorf("update entry %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// DeleteEntry removes a single entry by id.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

// DeleteEntries removes a batch of entries and reports how many rows were
// actually deleted. Missing ids are not an error.
func (s *Store) DeleteEntries(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := "DELETE FROM files WHERE id IN (" + makePlaceholders(len(ids)) + ")"
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}
	return affected, nil
}

// Clear removes every entry from the catalog while keeping the schema and
// the category vocabulary intact.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM files")
	if err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}
	return affected, nil
}

// GetByID fetches a single entry.
func (s *Store) GetByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM files WHERE id = ?", id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return entry, nil
}

// FindByIdentity returns every entry matching the (file name, size) identity,
// across all storages. Name matching is case-sensitive.
func (s *Store) FindByIdentity(ctx context.Context, fileName string, sizeBytes int64) ([]*Entry, error) {
	return s.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM files WHERE file_name = ? AND size_bytes = ? ORDER BY id",
		fileName, sizeBytes)
}

// FindByIdentityTx is FindByIdentity inside an existing transaction.
func (s *Store) FindByIdentityTx(ctx context.Context, tx *sql.Tx, fileName string, sizeBytes int64) ([]*Entry, error) {
	return queryEntries(ctx, tx,
		"SELECT "+entryColumns+" FROM files WHERE file_name = ? AND size_bytes = ? ORDER BY id",
		fileName, sizeBytes)
}

// FindByName returns every entry sharing an exact file name regardless of size.
func (s *Store) FindByName(ctx context.Context, fileName string) ([]*Entry, error) {
	return s.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM files WHERE file_name = ? ORDER BY id",
		fileName)
}

// SearchByName returns entries whose file name contains the given fragment.
// LIKE matching is case-insensitive.
func (s *Store) SearchByName(ctx context.Context, fragment string) ([]*Entry, error) {
	pattern := "%" + escapeLike(fragment) + "%"
	return s.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM files WHERE file_name LIKE ? ESCAPE '\\' ORDER BY file_name, id",
		pattern)
}

// List returns the full catalog ordered by file name.
func (s *Store) List(ctx context.Context) ([]*Entry, error) {
	return s.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM files ORDER BY file_name COLLATE NOCASE, id")
}

// ListByStorage returns every entry recorded on one storage medium.
func (s *Store) ListByStorage(ctx context.Context, storageID string) ([]*Entry, error) {
	return s.queryEntries(ctx,
		"SELECT "+entryColumns+" FROM files WHERE storage_id = ? ORDER BY file_name COLLATE NOCASE, id",
		storageID)
}

// ListStorageIDs returns the distinct storage labels present in the catalog.
func (s *Store) ListStorageIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT storage_id FROM files ORDER BY storage_id")
	if err != nil {
		return nil, fmt.Errorf("list storage ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan storage id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list storage ids: %w", err)
	}
	return ids, nil
}

// CountEntries returns the number of entries in the catalog.
func (s *Store) CountEntries(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM files").Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]*Entry, error) {
	return queryEntries(ctx, s.db, query, args...)
}

func queryEntries(ctx context.Context, q dbtx, query string, args ...any) ([]*Entry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry        Entry
		creationDate sql.NullString
		year         sql.NullInt64
		category     sql.NullString
		addedOn      string
		fileHash     sql.NullString
	)
	err := row.Scan(
		&entry.ID,
		&entry.FileName,
		&entry.Extension,
		&entry.SizeBytes,
		&entry.StorageID,
		&entry.FullPath,
		&creationDate,
		&year,
		&category,
		&addedOn,
		&fileHash,
	)
	if err != nil {
		return nil, err
	}

	if creationDate.Valid {
		if t, parseErr := parseTimeString(creationDate.String); parseErr == nil {
			entry.CreationDate = &t
		}
	}
	if year.Valid {
		y := int(year.Int64)
		entry.Year = &y
	}
	if category.Valid {
		entry.Category = &category.String
	}
	if fileHash.Valid {
		entry.FileHash = &fileHash.String
	}
	if t, parseErr := parseTimeString(addedOn); parseErr == nil {
		entry.AddedOn = t
	}
	return &entry, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
