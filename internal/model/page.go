package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"
)

// MaxPageSize is the maximum size of a fetched response body the
// crawler will read. Larger bodies are truncated at fetch time to
// prevent memory exhaustion from unexpectedly large responses.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// Page is one fetched document stored for a drag box.
//
// Design decision: The crawler persists pages through the database
// layer and keeps nothing beyond the fingerprint and extracted links,
// so this struct carries metadata only; the body is hashed and
// discarded rather than retained in memory for the whole session.
type Page struct {
	// SessionID is the crawl session that fetched this page.
	SessionID string `json:"session_id"`

	// BoxID is the drag box the page belongs to.
	BoxID string `json:"box_id"`

	// URL is the normalized URL the page was fetched from.
	URL string `json:"url"`

	// Title is the page title from the <title> tag, empty for
	// non-HTML content or when extraction failed.
	Title string `json:"title,omitempty"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// SizeBytes is the size of the fetched body in bytes.
	SizeBytes int64 `json:"size_bytes"`

	// Fingerprint is the content fingerprint used for deduplication.
	Fingerprint string `json:"fingerprint"`

	// Depth is the link depth at which the page was discovered.
	// The seed is depth 0.
	Depth int `json:"depth"`

	// Referrer is the URL of the page that linked here, empty for the seed.
	Referrer string `json:"referrer,omitempty"`

	// FetchedAt is when the page was fetched.
	FetchedAt time.Time `json:"fetched_at"`
}

// Fingerprint computes the content fingerprint for a page body.
// It hashes the whitespace-collapsed extracted text so that pages
// differing only in insignificant whitespace deduplicate; when text
// extraction produced nothing, it falls back to hashing the raw bytes.
func Fingerprint(text string, raw []byte) string {
	normalized := collapseWhitespace(text)
	if normalized == "" {
		if len(raw) == 0 {
			return ""
		}
		sum := sha256.Sum256(raw)
		return hex.EncodeToString(sum[:])
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// collapseWhitespace trims the string and replaces every run of
// whitespace with a single space.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
