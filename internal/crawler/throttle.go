package crawler

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DomainThrottle enforces minimum spacing between requests to the same
// host. Each host gets its own token bucket with burst 1, so two
// requests to one host are never issued closer together than the
// effective interval, while requests to different hosts proceed in
// parallel.
//
// Design decision: We use rate.Limiter per host rather than sleeping
// against a timestamp because:
//  1. Limiter.Wait serializes concurrent waiters on the same host, so
//     two workers can never observe the same stale timestamp and
//     double-under-throttle
//  2. SetLimit lets a robots crawl-delay tighten the interval mid-run
//  3. Waiting is context-aware, so stop requests interrupt cooldowns
type DomainThrottle struct {
	base rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	last     map[string]time.Time
}

// NewDomainThrottle creates a throttle allowing at most requestsPerSec
// requests per host. A non-positive rate disables waiting.
func NewDomainThrottle(requestsPerSec float64) *DomainThrottle {
	limit := rate.Limit(requestsPerSec)
	if requestsPerSec <= 0 {
		limit = rate.Inf
	}
	return &DomainThrottle{
		base:     limit,
		limiters: make(map[string]*rate.Limiter),
		last:     make(map[string]time.Time),
	}
}

// Wait suspends the calling worker until the host's cooldown elapses,
// then records the access time. Only the caller suspends; workers
// targeting other hosts are unaffected. The access time is recorded at
// request start, not completion, so the measured gap is between issue
// times.
func (t *DomainThrottle) Wait(ctx context.Context, host string) error {
	host = strings.ToLower(host)

	t.mu.Lock()
	limiter := t.limiterLocked(host)
	t.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	t.last[host] = time.Now()
	t.mu.Unlock()
	return nil
}

// SetMinInterval tightens the host's spacing to at least d, used when
// a robots crawl-delay is stricter than the configured rate. A looser
// delay never overrides the configured rate.
func (t *DomainThrottle) SetMinInterval(host string, d time.Duration) {
	if d <= 0 {
		return
	}
	host = strings.ToLower(host)

	t.mu.Lock()
	defer t.mu.Unlock()

	limiter := t.limiterLocked(host)
	stricter := rate.Every(d)
	if stricter < limiter.Limit() {
		limiter.SetLimit(stricter)
	}
}

// LastAccess returns the time of the most recent request to the host,
// reporting false if the host has never been accessed.
func (t *DomainThrottle) LastAccess(host string) (time.Time, bool) {
	host = strings.ToLower(host)

	t.mu.Lock()
	defer t.mu.Unlock()

	at, ok := t.last[host]
	return at, ok
}

// limiterLocked returns the host's limiter, creating it on first use.
// Callers must hold t.mu.
func (t *DomainThrottle) limiterLocked(host string) *rate.Limiter {
	limiter, ok := t.limiters[host]
	if !ok {
		// Burst 1: tokens never accumulate, so a quiet host still
		// allows only one immediate request.
		limiter = rate.NewLimiter(t.base, 1)
		t.limiters[host] = limiter
	}
	return limiter
}
