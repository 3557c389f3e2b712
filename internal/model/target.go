package model

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// ErrTargetNotFound is returned when a crawl target lookup finds nothing.
var ErrTargetNotFound = errors.New("crawl target not found")

// CrawlTarget describes one crawl of a drag box. It is immutable for
// the duration of the session created from it.
type CrawlTarget struct {
	// ID is the unique identifier of the target. For box-driven crawls
	// this is the box ID.
	ID string `json:"id"`

	// SeedURL is the URL the crawl starts from (depth 0).
	SeedURL string `json:"seed_url"`

	// MaxDepth is the maximum link depth to follow from the seed.
	// The seed itself is depth 0.
	MaxDepth int `json:"max_depth"`

	// MaxPages is the total page budget for the session, counting both
	// successful and failed fetch attempts. Zero means unbounded.
	MaxPages int `json:"max_pages"`

	// RateLimit is the per-domain request rate in requests per second.
	RateLimit float64 `json:"rate_limit"`

	// UserAgent is the User-Agent header sent with every request,
	// including the robots.txt fetch.
	UserAgent string `json:"user_agent"`
}

// Validate checks the target for values the crawler cannot work with.
func (t *CrawlTarget) Validate() error {
	if t.ID == "" {
		return errors.New("crawl target: missing id")
	}
	u, err := url.Parse(t.SeedURL)
	if err != nil {
		return fmt.Errorf("crawl target: invalid seed URL %q: %w", t.SeedURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("crawl target: seed URL %q must be http or https", t.SeedURL)
	}
	if u.Host == "" {
		return fmt.Errorf("crawl target: seed URL %q missing host", t.SeedURL)
	}
	if t.MaxDepth < 0 {
		return fmt.Errorf("crawl target: negative max depth %d", t.MaxDepth)
	}
	if t.MaxPages < 0 {
		return fmt.Errorf("crawl target: negative max pages %d", t.MaxPages)
	}
	if t.RateLimit <= 0 {
		return fmt.Errorf("crawl target: rate limit must be positive, got %g", t.RateLimit)
	}
	return nil
}

// MinInterval returns the minimum spacing between requests to one
// domain implied by the target's rate limit.
func (t *CrawlTarget) MinInterval() time.Duration {
	return time.Duration(float64(time.Second) / t.RateLimit)
}
