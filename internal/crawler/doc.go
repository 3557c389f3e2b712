// Package crawler implements the documentation crawl engine.
//
// # Architecture
//
// The engine is built from small shared components wired together by
// the Crawler facade for the duration of one crawl session:
//
//   - Frontier: the FIFO work queue of (url, depth, referrer) entries
//     plus the visited set that prevents requeueing
//   - DomainThrottle: per-host minimum-interval rate limiting
//   - RobotsCache: per-host robots.txt rules with fail-open caching
//   - ContentDeduplicator: fingerprint map rejecting mirrored content
//   - Fetcher/Parser: bounded HTTP fetching and link/text extraction
//   - Crawler: the facade owning the single active session and the
//     fixed worker pool
//
// All crawl state is per-session and owned by the facade; nothing is
// process-global, so multiple Crawler instances never interfere.
//
// Design decision: We run our own worker loop rather than using a
// third-party crawling framework because:
//  1. Politeness rules (robots crawl-delay vs configured rate) need
//     tight control over request timing
//  2. The session state machine and page budget must be enforced
//     exactly, including under concurrent workers
//  3. Reduces external dependencies for the core of the system
//
// # Politeness
//
// The crawler is designed to be polite:
//   - Respects robots.txt, failing open only when robots.txt itself
//     is unreachable
//   - Honors robots crawl-delay when it is stricter than the
//     configured per-domain rate
//   - Never issues two requests to the same host closer together than
//     the effective interval
//   - Bounds response body size and request duration
//
// # Usage
//
//	c := crawler.New(store, crawler.WithWorkers(4))
//	session, err := c.StartCrawl(ctx, target)
//	if err != nil {
//	    return err
//	}
//	session, err = c.WaitForCompletion(ctx)
package crawler
