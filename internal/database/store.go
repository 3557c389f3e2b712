package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Store provides SQLite-backed persistence for shelves, boxes, crawl
// sessions, and pages. It manages the connection pool and implements
// the crawler's persistence interface.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string

	// userAgent is the User-Agent handed to crawl targets derived
	// from drag boxes.
	userAgent string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. This is recommended for most use cases.
	EnableWAL bool

	// UserAgent is attached to crawl targets built from drag boxes.
	// Empty falls back to a bablib default.
	UserAgent string
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store at the specified directory.
// If CreateIfNotExists is true, the directory and database file are
// created; if false and the database doesn't exist, an error is
// returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "bablib.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; a second connection would just
	// queue behind the lock.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "bablib/1.0"
	}

	s := &Store{
		db:        db,
		dbPath:    dbPath,
		userAgent: userAgent,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the path of the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Shelves group typed content boxes
	CREATE TABLE IF NOT EXISTS shelves (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Boxes hold content; drag boxes carry crawl settings
	CREATE TABLE IF NOT EXISTS boxes (
		id TEXT PRIMARY KEY,
		shelf_id TEXT NOT NULL REFERENCES shelves(id) ON DELETE CASCADE,
		name TEXT NOT NULL UNIQUE,
		type TEXT NOT NULL,
		url TEXT NOT NULL DEFAULT '',
		max_pages INTEGER NOT NULL DEFAULT 0,
		rate_limit REAL NOT NULL DEFAULT 1.0,
		crawl_depth INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_boxes_shelf ON boxes(shelf_id);
	CREATE INDEX IF NOT EXISTS idx_boxes_type ON boxes(type);

	-- One crawl session per run of the crawler against a drag box
	CREATE TABLE IF NOT EXISTS crawl_sessions (
		id TEXT PRIMARY KEY,
		target_id TEXT NOT NULL,
		status TEXT NOT NULL,
		pages_crawled INTEGER NOT NULL DEFAULT 0,
		pages_failed INTEGER NOT NULL DEFAULT 0,
		started_at TEXT NOT NULL,
		completed_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_target ON crawl_sessions(target_id);

	-- Fetched pages, one row per stored page per box
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		box_id TEXT NOT NULL,
		url TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		status_code INTEGER NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		fingerprint TEXT NOT NULL DEFAULT '',
		depth INTEGER NOT NULL DEFAULT 0,
		referrer TEXT NOT NULL DEFAULT '',
		fetched_at TEXT NOT NULL,
		UNIQUE(box_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_session ON pages(session_id);
	CREATE INDEX IF NOT EXISTS idx_pages_box ON pages(box_id);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// formatTime stores timestamps as UTC RFC3339 strings so values are
// unambiguous regardless of driver configuration.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
