package crawler

import "errors"

var (
	// ErrAlreadyRunning is returned by StartCrawl when a session is
	// already active on this crawler instance. Sessions are never
	// queued; the caller must wait for the active one to finish.
	ErrAlreadyRunning = errors.New("a crawl session is already running")

	// ErrNoSession is returned by Status and WaitForCompletion when
	// no crawl has been started on this crawler instance.
	ErrNoSession = errors.New("no crawl session has been started")
)
