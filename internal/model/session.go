package model

import "time"

// SessionStatus is the lifecycle phase of a crawl session.
type SessionStatus string

// Session lifecycle states.
//
// The machine is pending → running → {completed | failed | stopped}.
// Terminal states are never left; the only non-monotonic edges are the
// three out of running.
const (
	// StatusPending means the session exists but workers have not started.
	StatusPending SessionStatus = "pending"

	// StatusRunning means workers are actively crawling.
	StatusRunning SessionStatus = "running"

	// StatusCompleted means the frontier drained or the page budget was
	// exhausted without an unrecoverable error.
	StatusCompleted SessionStatus = "completed"

	// StatusFailed means an unrecoverable condition ended the session,
	// such as the persistence layer becoming unusable. Individual page
	// fetch failures never cause this.
	StatusFailed SessionStatus = "failed"

	// StatusStopped means the caller requested cancellation while the
	// session was running.
	StatusStopped SessionStatus = "stopped"
)

// Terminal reports whether the status is an end state.
func (s SessionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusStopped:
		return true
	}
	return false
}

// CanTransition reports whether the state machine permits moving from
// s to next. Self-transitions are not permitted; terminal states have
// no outgoing edges.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusRunning
	case StatusRunning:
		return next == StatusCompleted || next == StatusFailed || next == StatusStopped
	default:
		return false
	}
}

// CrawlSession records one run of the crawler against one target.
// It is owned exclusively by the crawler facade while active and
// persisted by the database layer at every status or counter change.
type CrawlSession struct {
	// ID is the unique identifier (UUID) of the session.
	ID string `json:"id"`

	// TargetID identifies the crawl target (box) this session ran for.
	TargetID string `json:"target_id"`

	// Status is the current lifecycle phase.
	Status SessionStatus `json:"status"`

	// PagesCrawled counts completed fetches, including fetches of
	// duplicate content that stored nothing new.
	PagesCrawled int `json:"pages_crawled"`

	// PagesFailed counts fetch attempts that ended in an error or a
	// non-2xx status. Robots-disallowed URLs are not counted here
	// because no fetch was attempted.
	PagesFailed int `json:"pages_failed"`

	// StartedAt is when the session was created.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is when the session entered a terminal state.
	// Zero until then; set exactly once.
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// Attempts returns the total fetch attempts counted against the page
// budget.
func (s *CrawlSession) Attempts() int {
	return s.PagesCrawled + s.PagesFailed
}

// Clone returns a copy of the session. The crawler facade hands clones
// to callers so status snapshots never alias the live session workers
// are mutating.
func (s *CrawlSession) Clone() *CrawlSession {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
