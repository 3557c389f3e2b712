package crawler

import "sync"

// ContentDeduplicator rejects pages whose content has already been
// stored this session. Mirrored and paginated documentation often
// serves byte-identical bodies under many URLs; only the first URL to
// produce a fingerprint is stored, but every fetch still costs a crawl
// slot because it was a real request.
type ContentDeduplicator struct {
	mu   sync.Mutex
	seen map[string]string
}

// NewContentDeduplicator creates an empty deduplicator.
func NewContentDeduplicator() *ContentDeduplicator {
	return &ContentDeduplicator{seen: make(map[string]string)}
}

// Register records a fingerprint. The first registration returns
// isNew=true and makes url the fingerprint's canonical URL; later
// registrations return isNew=false with the canonical URL of the first
// sighting. An empty fingerprint (nothing to hash) is always new and
// is not recorded.
func (d *ContentDeduplicator) Register(fingerprint, url string) (canonical string, isNew bool) {
	if fingerprint == "" {
		return url, true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if first, ok := d.seen[fingerprint]; ok {
		return first, false
	}
	d.seen[fingerprint] = url
	return url, true
}

// Count returns the number of distinct fingerprints seen.
func (d *ContentDeduplicator) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
