// Package library implements the shelf and box management layer of
// bablib.
//
// A shelf is a named collection of boxes; a box is a typed content
// container (drag, rag, or bag). The Service in this package wraps the
// SQLite store with the rules the raw persistence layer does not
// enforce: shelf resolution by name, crawl defaults for new drag
// boxes, and cleanup of box content directories on removal.
//
// The CLI commands operate on this package rather than on the database
// directly so the behavioral rules live in one place.
package library
