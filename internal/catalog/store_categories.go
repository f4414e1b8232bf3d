package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var categoryCaser = cases.Title(language.Und)

// CanonicalCategory normalizes a category name to its stored form:
// trimmed, single-spaced, title-cased.
func CanonicalCategory(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return categoryCaser.String(strings.Join(fields, " "))
}

// AddCategory inserts a category into the vocabulary. Names are canonicalized
// before storing; adding an existing name returns ErrDuplicateCategory.
func (s *Store) AddCategory(ctx context.Context, name string) (*Category, error) {
	canonical := CanonicalCategory(name)
	if canonical == "" {
		return nil, fmt.Errorf("%w: category name is empty", ErrInvalidInput)
	}

	result, err := s.db.ExecContext(ctx, "INSERT INTO categories (name) VALUES (?)", canonical)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, canonical)
		}
		return nil, fmt.Errorf("add category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add category id: %w", err)
	}
	return &Category{ID: id, Name: canonical}, nil
}

// ListCategories returns the vocabulary sorted by name.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// HasCategory reports whether the canonical form of name is in the vocabulary.
func (s *Store) HasCategory(ctx context.Context, name string) (bool, error) {
	canonical := CanonicalCategory(name)
	if canonical == "" {
		return false, nil
	}
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM categories WHERE name = ?", canonical).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return count > 0, nil
}

// RemoveCategory deletes a category from the vocabulary. Entries already
// labeled with it keep their label.
func (s *Store) RemoveCategory(ctx context.Context, name string) error {
	canonical := CanonicalCategory(name)
	if canonical == "" {
		return fmt.Errorf("%w: category name is empty", ErrInvalidInput)
	}
	result, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE name = ?", canonical)
	if err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", ErrNotFound, canonical)
	}
	return nil
}
