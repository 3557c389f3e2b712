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

	"github.com/behemotion/bablib/internal/model"
)

// Crawler is the facade owning one crawl session at a time. It wires
// the frontier, throttle, robots cache, and deduplicator together and
// runs a fixed pool of workers over them. Starting a second session
// while one is active is rejected, not queued.
type Crawler struct {
	store         Store
	fetcher       Fetcher
	client        *http.Client
	logger        *slog.Logger
	workers       int
	fetchTimeout  time.Duration
	robotsTimeout time.Duration
	maxBodySize   int64

	mu      sync.Mutex
	current *run
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithWorkers sets the number of concurrent crawl workers.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets the HTTP client used for page and robots.txt
// fetches. The default is a client with no global timeout; per-request
// timeouts are applied by the fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		if client != nil {
			c.client = client
		}
	}
}

// WithFetcher replaces the page fetcher, mainly for tests.
func WithFetcher(f Fetcher) Option {
	return func(c *Crawler) {
		if f != nil {
			c.fetcher = f
		}
	}
}

// WithFetchTimeout sets the per-request timeout for page fetches.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithRobotsTimeout sets the timeout for robots.txt fetches.
func WithRobotsTimeout(d time.Duration) Option {
	return func(c *Crawler) {
		if d > 0 {
			c.robotsTimeout = d
		}
	}
}

// WithMaxBodySize sets the response body size limit.
func WithMaxBodySize(size int64) Option {
	return func(c *Crawler) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// New creates a Crawler persisting through the given store.
func New(store Store, opts ...Option) *Crawler {
	c := &Crawler{
		store:         store,
		client:        &http.Client{},
		logger:        slog.Default(),
		workers:       4,
		fetchTimeout:  30 * time.Second,
		robotsTimeout: 10 * time.Second,
		maxBodySize:   model.MaxPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = NewHTTPFetcher(c.client, c.fetchTimeout, c.maxBodySize)
	}
	return c
}

// run is the per-session state: the shared components, the live
// session record, and the cooperative stop machinery. A run is created
// by StartCrawl and never reused.
type run struct {
	target   *model.CrawlTarget
	seedHost string

	frontier *Frontier
	throttle *DomainThrottle
	robots   *RobotsCache
	dedup    *ContentDeduplicator
	fetcher  Fetcher
	store    Store
	logger   *slog.Logger

	// baseCtx outlives stop requests so in-flight fetches finish
	// naturally; it is canceled only by Cleanup. stopCtx is canceled
	// by RequestStop to interrupt pre-fetch waits.
	baseCtx    context.Context
	baseCancel context.CancelFunc
	stopCtx    context.Context
	stopCancel context.CancelFunc

	mu       sync.Mutex
	session  *model.CrawlSession
	attempts int
	stopped  bool
	storeErr error

	done chan struct{}
}

// StartCrawlByID resolves a target through the store and starts a
// crawl for it.
func (c *Crawler) StartCrawlByID(ctx context.Context, targetID string) (*model.CrawlSession, error) {
	target, err := c.store.GetCrawlTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return c.StartCrawl(ctx, target)
}

// StartCrawl creates a session for the target, seeds the frontier, and
// starts the worker pool. It returns ErrAlreadyRunning while a session
// is active. The returned session is a snapshot; observe progress via
// Status or WaitForCompletion.
func (c *Crawler) StartCrawl(ctx context.Context, target *model.CrawlTarget) (*model.CrawlSession, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && !c.current.terminal() {
		return nil, ErrAlreadyRunning
	}

	session, err := c.store.CreateSession(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	seed, err := url.Parse(target.SeedURL)
	if err != nil {
		return nil, fmt.Errorf("parse seed URL: %w", err)
	}

	// The run must not die with the caller's context; only stop
	// requests and Cleanup end it.
	baseCtx, baseCancel := context.WithCancel(context.WithoutCancel(ctx))
	stopCtx, stopCancel := context.WithCancel(baseCtx)

	r := &run{
		target:     target,
		seedHost:   strings.ToLower(seed.Host),
		frontier:   NewFrontier(target.MaxDepth),
		throttle:   NewDomainThrottle(target.RateLimit),
		robots:     NewRobotsCache(c.client, target.UserAgent, c.robotsTimeout, c.logger),
		dedup:      NewContentDeduplicator(),
		fetcher:    c.fetcher,
		store:      c.store,
		logger:     c.logger.With("session", session.ID),
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
		stopCtx:    stopCtx,
		stopCancel: stopCancel,
		session:    session,
		done:       make(chan struct{}),
	}

	r.frontier.Enqueue(target.SeedURL, 0, "")

	session.Status = model.StatusRunning
	if err := c.store.UpdateSession(ctx, session); err != nil {
		session.Status = model.StatusFailed
		session.CompletedAt = time.Now()
		baseCancel()
		return nil, fmt.Errorf("mark session running: %w", err)
	}

	c.current = r
	r.logger.Info("crawl started",
		"target", target.ID,
		"seed", target.SeedURL,
		"max_depth", target.MaxDepth,
		"max_pages", target.MaxPages,
	)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker()
		}()
	}
	go func() {
		wg.Wait()
		r.finalize()
	}()

	return session.Clone(), nil
}

// WaitForCompletion suspends the caller until the active session
// reaches a terminal state, then returns its final snapshot.
func (c *Crawler) WaitForCompletion(ctx context.Context) (*model.CrawlSession, error) {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()

	if r == nil {
		return nil, ErrNoSession
	}

	select {
	case <-r.done:
		return r.snapshot(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RequestStop asks the active session to stop. Workers observe the
// flag at the top of their loop; in-flight fetches finish naturally
// rather than being aborted, so no partially-written page records are
// left behind. It is a no-op when nothing is running.
func (c *Crawler) RequestStop() {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()

	if r == nil {
		return
	}

	r.mu.Lock()
	already := r.stopped || r.session.Status.Terminal()
	r.stopped = true
	r.mu.Unlock()

	if already {
		return
	}

	r.logger.Info("stop requested")
	r.stopCancel()
	r.frontier.Close()
}

// Status returns a snapshot of the most recent session.
func (c *Crawler) Status() (*model.CrawlSession, error) {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()

	if r == nil {
		return nil, ErrNoSession
	}
	return r.snapshot(), nil
}

// Cleanup stops any active session, waits for workers to exit, and
// releases connections. The crawler may be reused afterwards.
func (c *Crawler) Cleanup() {
	c.mu.Lock()
	r := c.current
	c.mu.Unlock()

	if r != nil {
		c.RequestStop()
		<-r.done
		r.baseCancel()
	}
	c.client.CloseIdleConnections()
}

// worker is the crawl loop run by each pool goroutine.
func (r *run) worker() {
	for {
		entry, ok := r.frontier.Dequeue()
		if !ok {
			return
		}
		if r.exhausted() {
			// Budget spent, stop requested, or the store failed:
			// discard the remaining frontier and drain out.
			r.frontier.Done()
			r.frontier.Close()
			return
		}
		proceed := r.process(entry)
		r.frontier.Done()
		if !proceed {
			return
		}
	}
}

// process handles one frontier entry through the full fetch pipeline.
// It returns false when the worker should exit instead of looping.
func (r *run) process(entry Entry) bool {
	target, err := url.Parse(entry.URL)
	if err != nil {
		return true
	}
	host := strings.ToLower(target.Host)

	if !r.robots.Allowed(r.stopCtx, target) {
		// Never fetched, so not counted as an attempt either.
		r.logger.Debug("robots disallowed", "url", entry.URL)
		return true
	}

	// A robots crawl-delay stricter than the configured rate wins;
	// never crawl faster than the site requests.
	if delay := r.robots.CrawlDelay(host); delay > 0 {
		r.throttle.SetMinInterval(host, delay)
	}

	if !r.reserveSlot() {
		r.frontier.Close()
		return false
	}

	if err := r.throttle.Wait(r.stopCtx, host); err != nil {
		// Stop requested during cooldown; nothing was fetched.
		return false
	}

	result, err := r.fetcher.Fetch(r.baseCtx, entry.URL, r.target.UserAgent)
	fetchedAt := time.Now()
	if err != nil {
		r.logger.Warn("fetch failed", "url", entry.URL, "error", err)
		return r.recordFailure()
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		r.logger.Warn("fetch failed", "url", entry.URL, "status", result.StatusCode)
		return r.recordFailure()
	}

	title, text, links := r.extract(entry.URL, result)

	fingerprint := model.Fingerprint(text, result.Body)
	canonical, isNew := r.dedup.Register(fingerprint, entry.URL)
	if !isNew {
		// Duplicate content still cost a real request, so it counts
		// toward pages_crawled, but nothing new is stored and its
		// links are not re-extracted: the canonical URL's links were
		// already enqueued.
		r.logger.Debug("duplicate content", "url", entry.URL, "canonical", canonical)
		return r.recordCrawled()
	}

	page := &model.Page{
		SessionID:   r.sessionID(),
		BoxID:       r.target.ID,
		URL:         entry.URL,
		Title:       title,
		StatusCode:  result.StatusCode,
		SizeBytes:   int64(len(result.Body)),
		Fingerprint: fingerprint,
		Depth:       entry.Depth,
		Referrer:    entry.Referrer,
		FetchedAt:   fetchedAt,
	}
	if err := r.store.SavePage(r.baseCtx, page); err != nil {
		r.failStore(fmt.Errorf("save page %s: %w", entry.URL, err))
		r.frontier.Close()
		return false
	}

	for _, link := range links {
		linkURL, err := url.Parse(link)
		if err != nil || !strings.EqualFold(linkURL.Host, r.seedHost) {
			// The crawl stays on the seed's host.
			continue
		}
		r.frontier.Enqueue(link, entry.Depth+1, entry.URL)
	}

	return r.recordCrawled()
}

// extract parses an HTML body for title, fingerprint text, and
// outbound links. Non-HTML content is fingerprinted on raw bytes.
func (r *run) extract(pageURL string, result *FetchResult) (title, text string, links []string) {
	if !strings.Contains(result.ContentType, "text/html") {
		return "", "", nil
	}
	parser, err := NewParser(pageURL)
	if err != nil {
		return "", "", nil
	}
	parsed, err := parser.Parse(result.Body)
	if err != nil {
		r.logger.Debug("parse failed", "url", pageURL, "error", err)
		return "", "", nil
	}
	return parsed.Title, parsed.Text, parsed.Links
}

// exhausted reports whether the run should take no more work.
func (r *run) exhausted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.exhaustedLocked()
}

func (r *run) exhaustedLocked() bool {
	if r.stopped || r.storeErr != nil {
		return true
	}
	return r.target.MaxPages > 0 && r.attempts >= r.target.MaxPages
}

// reserveSlot claims one unit of the page budget ahead of the fetch,
// so concurrent workers can never overrun max_pages between checking
// and counting.
func (r *run) reserveSlot() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.exhaustedLocked() {
		return false
	}
	r.attempts++
	return true
}

// recordCrawled counts a completed fetch and persists the counters.
// It returns false when the worker should exit.
func (r *run) recordCrawled() bool {
	return r.record(func(s *model.CrawlSession) { s.PagesCrawled++ })
}

// recordFailure counts a failed fetch attempt and persists the
// counters. A single page failure never aborts the session.
func (r *run) recordFailure() bool {
	return r.record(func(s *model.CrawlSession) { s.PagesFailed++ })
}

// record applies a counter mutation and persists the session while
// holding the run lock, so counter updates reach the store in order.
func (r *run) record(mutate func(*model.CrawlSession)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	mutate(r.session)
	if err := r.store.UpdateSession(r.baseCtx, r.session.Clone()); err != nil {
		r.storeErr = fmt.Errorf("update session: %w", err)
		r.logger.Error("session update failed", "error", err)
		r.frontier.Close()
		return false
	}
	return true
}

// failStore records an unrecoverable persistence error, which
// escalates the session to failed at finalization.
func (r *run) failStore(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storeErr == nil {
		r.storeErr = err
		r.logger.Error("persistence failed", "error", err)
	}
}

// finalize moves the session to its terminal state after all workers
// have exited. completed_at is set exactly once, here.
func (r *run) finalize() {
	r.mu.Lock()
	next := model.StatusCompleted
	switch {
	case r.storeErr != nil:
		next = model.StatusFailed
	case r.stopped:
		next = model.StatusStopped
	}
	if r.session.Status.CanTransition(next) {
		r.session.Status = next
		r.session.CompletedAt = time.Now()
	}
	final := r.session.Clone()
	r.mu.Unlock()

	if err := r.store.UpdateSession(r.baseCtx, final); err != nil {
		r.logger.Error("final session update failed", "error", err)
	}

	r.logger.Info("crawl finished",
		"status", string(final.Status),
		"pages_crawled", final.PagesCrawled,
		"pages_failed", final.PagesFailed,
	)
	close(r.done)
}

// terminal reports whether the run's session has ended.
func (r *run) terminal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Status.Terminal()
}

// snapshot returns a copy of the live session.
func (r *run) snapshot() *model.CrawlSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Clone()
}

func (r *run) sessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.ID
}
