package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// robotsRecord is the cached outcome of one robots.txt fetch. A nil
// group means allow-all: either the site has no rules for us or the
// fetch failed and we fail open. Records never expire within a
// session; a session is short-lived enough that staleness is not a
// correctness concern.
type robotsRecord struct {
	group      *robotstxt.Group
	crawlDelay time.Duration
	fetchedAt  time.Time
}

// RobotsCache fetches, parses, and caches per-host robots.txt rules.
// Robots unavailability never halts a crawl: after one retry, a failed
// fetch is cached as allow-all so workers stop stalling on it.
type RobotsCache struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	logger    *slog.Logger

	// flight collapses concurrent first-fetches for the same host
	// into a single request.
	flight singleflight.Group

	mu    sync.RWMutex
	cache map[string]*robotsRecord
}

// NewRobotsCache creates a cache that fetches robots.txt with the
// given client, user agent, and per-fetch timeout.
func NewRobotsCache(client *http.Client, userAgent string, timeout time.Duration, logger *slog.Logger) *RobotsCache {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsCache{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger,
		cache:     make(map[string]*robotsRecord),
	}
}

// Allowed reports whether the target URL may be fetched under the
// host's robots rules. The first query for a host fetches and caches
// its robots.txt; concurrent first queries share one fetch.
func (r *RobotsCache) Allowed(ctx context.Context, target *url.URL) bool {
	if target == nil || !target.IsAbs() {
		return false
	}

	record := r.lookup(ctx, target)
	if record.group == nil {
		return true
	}

	path := target.Path
	if path == "" {
		path = "/"
	}
	if target.RawQuery != "" {
		path += "?" + target.RawQuery
	}
	return record.group.Test(path)
}

// CrawlDelay returns the crawl-delay the host's robots.txt requested,
// or zero when none was specified or the host has not been queried.
func (r *RobotsCache) CrawlDelay(host string) time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.cache[strings.ToLower(host)]
	if !ok {
		return 0
	}
	return record.crawlDelay
}

// lookup returns the host's cached record, fetching it on first query.
func (r *RobotsCache) lookup(ctx context.Context, target *url.URL) *robotsRecord {
	host := strings.ToLower(target.Host)

	r.mu.RLock()
	record, ok := r.cache[host]
	r.mu.RUnlock()
	if ok {
		return record
	}

	v, _, _ := r.flight.Do(host, func() (any, error) {
		// Re-check: a previous flight may have filled the cache
		// between our miss and this call.
		r.mu.RLock()
		cached, ok := r.cache[host]
		r.mu.RUnlock()
		if ok {
			return cached, nil
		}

		fetched := r.fetch(ctx, target.Scheme, target.Host)

		r.mu.Lock()
		r.cache[host] = fetched
		r.mu.Unlock()
		return fetched, nil
	})
	return v.(*robotsRecord)
}

// fetch retrieves and parses robots.txt for the host, retrying once.
// Any failure yields an allow-all record so the crawl can proceed.
func (r *RobotsCache) fetch(ctx context.Context, scheme, host string) *robotsRecord {
	robotsURL := scheme + "://" + host + "/robots.txt"

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		data, err := r.fetchOnce(ctx, robotsURL)
		if err != nil {
			lastErr = err
			continue
		}

		group := data.FindGroup(r.userAgent)
		if group == nil {
			group = data.FindGroup("*")
		}

		record := &robotsRecord{fetchedAt: time.Now()}
		if group != nil {
			record.group = group
			record.crawlDelay = group.CrawlDelay
		}
		return record
	}

	r.logger.Debug("robots.txt unavailable, allowing all",
		"host", host, "error", fmt.Sprint(lastErr))
	return &robotsRecord{fetchedAt: time.Now()}
}

func (r *RobotsCache) fetchOnce(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build robots request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("robots.txt returned status %d", resp.StatusCode)
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}
