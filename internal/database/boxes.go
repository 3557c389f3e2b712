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

// boxColumns is the select list shared by box queries.
const boxColumns = `id, shelf_id, name, type, url, max_pages, rate_limit, crawl_depth, created_at, updated_at`

// CreateBox inserts a new box on the given shelf. The box's ID and
// timestamps are assigned here.
func (s *Store) CreateBox(ctx context.Context, box *model.Box) (*model.Box, error) {
	if strings.TrimSpace(box.Name) == "" {
		return nil, errors.New("box name must not be empty")
	}
	if !box.Type.Valid() {
		return nil, fmt.Errorf("invalid box type %q", box.Type)
	}
	if box.ShelfID == "" {
		return nil, errors.New("box must belong to a shelf")
	}

	now := time.Now()
	created := *box
	created.ID = uuid.NewString()
	created.CreatedAt = now
	created.UpdatedAt = now

	query := `
	INSERT INTO boxes (id, shelf_id, name, type, url, max_pages, rate_limit, crawl_depth, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		created.ID,
		created.ShelfID,
		created.Name,
		string(created.Type),
		created.URL,
		created.MaxPages,
		created.RateLimit,
		created.CrawlDepth,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create box %q: %w", box.Name, err)
	}
	return &created, nil
}

// GetBoxByName looks up a box by its unique name, returning
// model.ErrBoxNotFound when it does not exist.
func (s *Store) GetBoxByName(ctx context.Context, name string) (*model.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE name = ?`
	return s.scanBox(s.db.QueryRowContext(ctx, query, name), name)
}

// GetBox looks up a box by ID.
func (s *Store) GetBox(ctx context.Context, id string) (*model.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE id = ?`
	return s.scanBox(s.db.QueryRowContext(ctx, query, id), id)
}

func (s *Store) scanBox(row *sql.Row, key string) (*model.Box, error) {
	var box model.Box
	var boxType, createdAt, updatedAt string
	err := row.Scan(
		&box.ID,
		&box.ShelfID,
		&box.Name,
		&boxType,
		&box.URL,
		&box.MaxPages,
		&box.RateLimit,
		&box.CrawlDepth,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrBoxNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get box %q: %w", key, err)
	}

	box.Type = model.BoxType(boxType)
	box.CreatedAt = parseTimestamp(createdAt)
	box.UpdatedAt = parseTimestamp(updatedAt)
	return &box, nil
}

// ListBoxes returns the boxes on a shelf ordered by name.
func (s *Store) ListBoxes(ctx context.Context, shelfID string) ([]*model.Box, error) {
	query := `SELECT ` + boxColumns + ` FROM boxes WHERE shelf_id = ? ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, shelfID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boxes: %w", err)
	}
	defer rows.Close()

	var boxes []*model.Box
	for rows.Next() {
		var box model.Box
		var boxType, createdAt, updatedAt string
		if err := rows.Scan(
			&box.ID,
			&box.ShelfID,
			&box.Name,
			&boxType,
			&box.URL,
			&box.MaxPages,
			&box.RateLimit,
			&box.CrawlDepth,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan box: %w", err)
		}
		box.Type = model.BoxType(boxType)
		box.CreatedAt = parseTimestamp(createdAt)
		box.UpdatedAt = parseTimestamp(updatedAt)
		boxes = append(boxes, &box)
	}
	return boxes, rows.Err()
}

// UpdateBox persists the box's crawl settings and URL.
func (s *Store) UpdateBox(ctx context.Context, box *model.Box) error {
	query := `
	UPDATE boxes
	SET url = ?, max_pages = ?, rate_limit = ?, crawl_depth = ?, updated_at = ?
	WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		box.URL,
		box.MaxPages,
		box.RateLimit,
		box.CrawlDepth,
		formatTime(time.Now()),
		box.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update box %q: %w", box.Name, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update box %q: %w", box.Name, err)
	}
	if affected == 0 {
		return model.ErrBoxNotFound
	}
	return nil
}

// DeleteBox removes a box by name along with its stored pages.
func (s *Store) DeleteBox(ctx context.Context, name string) error {
	box, err := s.GetBoxByName(ctx, name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to delete box %q: %w", name, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE box_id = ?`, box.ID); err != nil {
		return fmt.Errorf("failed to delete pages of box %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM boxes WHERE id = ?`, box.ID); err != nil {
		return fmt.Errorf("failed to delete box %q: %w", name, err)
	}
	return tx.Commit()
}

// BoxStats summarizes the stored content of a box.
type BoxStats struct {
	// PageCount is the number of stored pages.
	PageCount int

	// TotalSize is the sum of stored page sizes in bytes.
	TotalSize int64
}

// GetBoxStats returns page count and total size for a box, both zero
// for boxes that store no pages.
func (s *Store) GetBoxStats(ctx context.Context, boxID string) (*BoxStats, error) {
	query := `
	SELECT COUNT(*), COALESCE(SUM(size_bytes), 0)
	FROM pages WHERE box_id = ?
	`

	var stats BoxStats
	if err := s.db.QueryRowContext(ctx, query, boxID).Scan(&stats.PageCount, &stats.TotalSize); err != nil {
		return nil, fmt.Errorf("failed to get box stats: %w", err)
	}
	return &stats, nil
}
