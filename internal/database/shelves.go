package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/behemotion/bablib/internal/model"
)

// CreateShelf inserts a new shelf with the given name.
func (s *Store) CreateShelf(ctx context.Context, name string) (*model.Shelf, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("shelf name must not be empty")
	}

	now := time.Now()
	shelf := &model.Shelf{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO shelves (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, shelf.ID, shelf.Name, formatTime(now), formatTime(now)); err != nil {
		return nil, fmt.Errorf("failed to create shelf %q: %w", name, err)
	}
	return shelf, nil
}

// GetShelfByName looks up a shelf by its unique name, returning
// model.ErrShelfNotFound when it does not exist.
func (s *Store) GetShelfByName(ctx context.Context, name string) (*model.Shelf, error) {
	query := `SELECT id, name, created_at, updated_at FROM shelves WHERE name = ?`

	var shelf model.Shelf
	var createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&shelf.ID, &shelf.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrShelfNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shelf %q: %w", name, err)
	}

	shelf.CreatedAt = parseTimestamp(createdAt)
	shelf.UpdatedAt = parseTimestamp(updatedAt)
	return &shelf, nil
}

// ListShelves returns all shelves ordered by name.
func (s *Store) ListShelves(ctx context.Context) ([]*model.Shelf, error) {
	query := `SELECT id, name, created_at, updated_at FROM shelves ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shelves: %w", err)
	}
	defer rows.Close()

	var shelves []*model.Shelf
	for rows.Next() {
		var shelf model.Shelf
		var createdAt, updatedAt string
		if err := rows.Scan(&shelf.ID, &shelf.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shelf: %w", err)
		}
		shelf.CreatedAt = parseTimestamp(createdAt)
		shelf.UpdatedAt = parseTimestamp(updatedAt)
		shelves = append(shelves, &shelf)
	}
	return shelves, rows.Err()
}

// DeleteShelf removes a shelf by name. Its boxes are removed with it
// via the foreign key cascade.
func (s *Store) DeleteShelf(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM shelves WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete shelf %q: %w", name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete shelf %q: %w", name, err)
	}
	if affected == 0 {
		return model.ErrShelfNotFound
	}
	return nil
}
