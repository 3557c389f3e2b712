// Package model defines the core data types shared across bablib:
// shelves, boxes, crawl targets, crawl sessions, and crawled pages.
//
// # Design
//
// Types here are plain data with small behavior helpers (status
// transitions, fingerprint computation). Persistence lives in the
// database package and orchestration in the crawler and fill packages;
// keeping model free of those dependencies avoids import cycles and
// lets every layer share the same vocabulary.
//
// # Relationships
//
//   - A Shelf contains Boxes.
//   - A Box has a BoxType that decides how it is filled (drag boxes are
//     crawled, rag and bag boxes are imported from files).
//   - A CrawlTarget describes one crawl of a drag box.
//   - A CrawlSession records the lifecycle and counters of one crawl run.
//   - A Page is one fetched document stored for a box.
package model
