package crawler

import (
	"context"

	"github.com/behemotion/bablib/internal/model"
)

// Store is the persistence surface the crawler depends on. It is
// implemented by the database layer; the crawler only reads a target
// descriptor and writes pages and session state back.
//
// UpdateSession is called at every status or counter change and must
// be safe to call repeatedly with monotonically advancing counters.
type Store interface {
	// GetCrawlTarget resolves a target descriptor by ID, returning
	// model.ErrTargetNotFound when no such target exists.
	GetCrawlTarget(ctx context.Context, id string) (*model.CrawlTarget, error)

	// CreateSession persists a new pending session for the target.
	CreateSession(ctx context.Context, target *model.CrawlTarget) (*model.CrawlSession, error)

	// UpdateSession persists the session's current status and counters.
	UpdateSession(ctx context.Context, session *model.CrawlSession) error

	// SavePage persists one fetched page.
	SavePage(ctx context.Context, page *model.Page) error

	// GetSession looks up a session by ID.
	GetSession(ctx context.Context, id string) (*model.CrawlSession, error)
}
