package crawler

import (
	"net/url"
	"strings"
	"sync"
)

// Entry is one unit of crawl work: a URL, the depth at which it was
// discovered, and the URL of the page that linked to it. Entries live
// only in memory for the session's lifetime.
type Entry struct {
	URL      string
	Depth    int
	Referrer string
}

// Frontier is the shared FIFO work queue of a crawl session combined
// with the visited set. Strict FIFO order gives breadth-first
// traversal, which bounds depth overshoot and makes traversal order
// reproducible for a fixed link-extraction order.
//
// A worker blocks on Dequeue only while the queue is empty and other
// workers still hold entries in flight (their fetches may discover new
// links). When the queue is empty and nothing is in flight, the
// frontier is drained and Dequeue reports that instead of blocking.
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue    []Entry
	visited  map[string]struct{}
	maxDepth int
	inflight int
	closed   bool
}

// NewFrontier creates an empty frontier. Entries deeper than maxDepth
// are rejected at enqueue time.
func NewFrontier(maxDepth int) *Frontier {
	f := &Frontier{
		visited:  make(map[string]struct{}),
		maxDepth: maxDepth,
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue adds a URL to the queue. It returns false without queueing
// when the depth exceeds the limit, the URL does not parse, or the
// URL's normalized form has already been seen this session. The
// visited set is keyed on normalized URLs so the same logical page is
// never fetched twice even when reachable via differently-formatted
// links.
func (f *Frontier) Enqueue(rawURL string, depth int, referrer string) bool {
	if depth > f.maxDepth {
		return false
	}

	key, ok := normalizeURL(rawURL)
	if !ok {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if _, seen := f.visited[key]; seen {
		return false
	}
	f.visited[key] = struct{}{}
	f.queue = append(f.queue, Entry{URL: key, Depth: depth, Referrer: referrer})
	f.cond.Signal()
	return true
}

// Dequeue removes and returns the oldest entry. It blocks while the
// queue is empty but other workers are mid-entry; it returns ok=false
// once the frontier is drained or closed. Every successful Dequeue
// must be paired with a Done call.
func (f *Frontier) Dequeue() (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) == 0 && f.inflight > 0 && !f.closed {
		f.cond.Wait()
	}

	if f.closed || len(f.queue) == 0 {
		// Drained: wake any other waiters so they observe it too.
		f.cond.Broadcast()
		return Entry{}, false
	}

	entry := f.queue[0]
	f.queue = f.queue[1:]
	f.inflight++
	return entry, true
}

// Done marks a previously dequeued entry as fully processed, including
// any enqueueing of its discovered links.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inflight--
	if f.inflight <= 0 {
		// Last in-flight entry finished; blocked workers must
		// re-evaluate the drain condition.
		f.cond.Broadcast()
	}
}

// Close discards all pending entries and wakes blocked workers.
// Subsequent Enqueue calls are no-ops and Dequeue reports drained.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.queue = nil
	f.cond.Broadcast()
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// VisitedCount returns the number of unique URLs seen this session.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}

// normalizeURL canonicalizes a URL for visited-set membership.
//
// Design decision: We normalize URLs because:
//  1. The same page can have different URL representations
//  2. Fragments (#anchor) do not change content
//  3. Default ports and an empty path are formatting noise
func normalizeURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	// Elide default ports so example.com:443 and example.com match.
	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	// Empty path and "/" are the same page.
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String(), true
}
