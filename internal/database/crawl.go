package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/behemotion/bablib/internal/model"
)

// GetCrawlTarget derives a crawl target from a drag box's stored
// settings. The target ID is the box ID, so sessions and pages link
// back to the box.
func (s *Store) GetCrawlTarget(ctx context.Context, id string) (*model.CrawlTarget, error) {
	box, err := s.GetBox(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBoxNotFound) {
			return nil, model.ErrTargetNotFound
		}
		return nil, err
	}
	if box.Type != model.BoxTypeDrag {
		return nil, fmt.Errorf("box %q is a %s box, only drag boxes are crawlable: %w",
			box.Name, box.Type, model.ErrTargetNotFound)
	}
	if box.URL == "" {
		return nil, fmt.Errorf("drag box %q has no URL configured: %w", box.Name, model.ErrTargetNotFound)
	}

	target := &model.CrawlTarget{
		ID:        box.ID,
		SeedURL:   box.URL,
		MaxDepth:  box.CrawlDepth,
		MaxPages:  box.MaxPages,
		RateLimit: box.RateLimit,
		UserAgent: s.userAgent,
	}
	if target.RateLimit <= 0 {
		target.RateLimit = 1.0
	}
	return target, nil
}

// CreateSession persists a new pending session for the target.
func (s *Store) CreateSession(ctx context.Context, target *model.CrawlTarget) (*model.CrawlSession, error) {
	session := &model.CrawlSession{
		ID:        uuid.NewString(),
		TargetID:  target.ID,
		Status:    model.StatusPending,
		StartedAt: time.Now(),
	}

	query := `
	INSERT INTO crawl_sessions (id, target_id, status, pages_crawled, pages_failed, started_at, completed_at)
	VALUES (?, ?, ?, 0, 0, ?, NULL)
	`
	if _, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.TargetID,
		string(session.Status),
		formatTime(session.StartedAt),
	); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// UpdateSession persists the session's status and counters. It is
// called at every counter change, so it stays a single UPDATE.
func (s *Store) UpdateSession(ctx context.Context, session *model.CrawlSession) error {
	var completedAt any
	if !session.CompletedAt.IsZero() {
		completedAt = formatTime(session.CompletedAt)
	}

	query := `
	UPDATE crawl_sessions
	SET status = ?, pages_crawled = ?, pages_failed = ?, completed_at = ?
	WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		string(session.Status),
		session.PagesCrawled,
		session.PagesFailed,
		completedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s does not exist", session.ID)
	}
	return nil
}

// GetSession looks up a session by ID, returning nil when absent.
func (s *Store) GetSession(ctx context.Context, id string) (*model.CrawlSession, error) {
	query := `
	SELECT id, target_id, status, pages_crawled, pages_failed, started_at, completed_at
	FROM crawl_sessions WHERE id = ?
	`
	row := s.db.QueryRowContext(ctx, query, id)
	session, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return session, nil
}

// ListSessions returns all sessions for a target, most recent first.
func (s *Store) ListSessions(ctx context.Context, targetID string) ([]*model.CrawlSession, error) {
	query := `
	SELECT id, target_id, status, pages_crawled, pages_failed, started_at, completed_at
	FROM crawl_sessions WHERE target_id = ?
	ORDER BY started_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.CrawlSession
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// scanSession reads one session row through the given Scan function.
func scanSession(scan func(dest ...any) error) (*model.CrawlSession, error) {
	var session model.CrawlSession
	var status, startedAt string
	var completedAt sql.NullString

	if err := scan(
		&session.ID,
		&session.TargetID,
		&status,
		&session.PagesCrawled,
		&session.PagesFailed,
		&startedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}

	session.Status = model.SessionStatus(status)
	session.StartedAt = parseTimestamp(startedAt)
	if completedAt.Valid {
		session.CompletedAt = parseTimestamp(completedAt.String)
	}
	return &session, nil
}

// SavePage inserts a fetched page. Re-crawling a URL for the same box
// refreshes the stored row rather than duplicating it.
func (s *Store) SavePage(ctx context.Context, page *model.Page) error {
	query := `
	INSERT INTO pages (session_id, box_id, url, title, status_code, size_bytes, fingerprint, depth, referrer, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(box_id, url) DO UPDATE SET
		session_id = excluded.session_id,
		title = excluded.title,
		status_code = excluded.status_code,
		size_bytes = excluded.size_bytes,
		fingerprint = excluded.fingerprint,
		depth = excluded.depth,
		referrer = excluded.referrer,
		fetched_at = excluded.fetched_at
	`
	if _, err := s.db.ExecContext(ctx, query,
		page.SessionID,
		page.BoxID,
		page.URL,
		page.Title,
		page.StatusCode,
		page.SizeBytes,
		page.Fingerprint,
		page.Depth,
		page.Referrer,
		formatTime(page.FetchedAt),
	); err != nil {
		return fmt.Errorf("failed to save page %s: %w", page.URL, err)
	}
	return nil
}

// ListPages returns the stored pages of a box ordered by URL.
func (s *Store) ListPages(ctx context.Context, boxID string) ([]*model.Page, error) {
	query := `
	SELECT session_id, box_id, url, title, status_code, size_bytes, fingerprint, depth, referrer, fetched_at
	FROM pages WHERE box_id = ?
	ORDER BY url
	`
	rows, err := s.db.QueryContext(ctx, query, boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	var pages []*model.Page
	for rows.Next() {
		var page model.Page
		var fetchedAt string
		if err := rows.Scan(
			&page.SessionID,
			&page.BoxID,
			&page.URL,
			&page.Title,
			&page.StatusCode,
			&page.SizeBytes,
			&page.Fingerprint,
			&page.Depth,
			&page.Referrer,
			&fetchedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		page.FetchedAt = parseTimestamp(fetchedAt)
		pages = append(pages, &page)
	}
	return pages, rows.Err()
}
