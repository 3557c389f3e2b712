// Package database provides SQLite-based storage for bablib.
//
// This package implements the Store, which persists:
//   - Shelves and their typed content boxes
//   - Crawl sessions with status and progress counters
//   - Fetched pages for drag boxes
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of
// other databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for a single-process, local-first tool
//  4. WAL mode provides good concurrent read performance
//
// The Store also satisfies the crawler's persistence interface, so the
// crawl engine never touches SQL directly.
package database
