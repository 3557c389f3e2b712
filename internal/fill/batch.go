package fill

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/behemotion/bablib/internal/model"
)

// BoxResult pairs a box with its fill outcome for batch runs.
type BoxResult struct {
	// Box is the drag box that was filled.
	Box *model.Box

	// Session is the finished crawl session, nil when Err is set.
	Session *model.CrawlSession

	// Err is the fill error for this box, nil on success.
	Err error
}

// FillShelf crawls every drag box on the named shelf.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency
// correctly. Each box gets its own goroutine and crawler instance;
// only 'concurrency' crawls run simultaneously.
//
// Per-box failures are recorded in the results, not returned: one
// unreachable site must not abandon the rest of the shelf. The error
// return indicates the shelf could not be read or the batch was
// cancelled.
func (s *Service) FillShelf(ctx context.Context, shelfName string, concurrency int) ([]*BoxResult, error) {
	if concurrency <= 0 {
		concurrency = 2
	}

	shelf, err := s.store.GetShelfByName(ctx, shelfName)
	if err != nil {
		return nil, err
	}
	boxes, err := s.store.ListBoxes(ctx, shelf.ID)
	if err != nil {
		return nil, err
	}

	var dragBoxes []*model.Box
	for _, box := range boxes {
		if box.Type == model.BoxTypeDrag {
			dragBoxes = append(dragBoxes, box)
		}
	}

	s.logger.Info("starting shelf fill",
		"shelf", shelfName,
		"boxes", len(dragBoxes),
		"concurrency", concurrency,
	)
	startTime := time.Now()

	// Pre-allocated so results keep the listing order.
	results := make([]*BoxResult, len(dragBoxes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, box := range dragBoxes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			session, err := s.crawl(ctx, box)
			results[i] = &BoxResult{Box: box, Session: session, Err: err}
			if err != nil {
				s.logger.Warn("box fill failed", "box", box.Name, "error", err)
			}
			return nil
		})
	}
	err = g.Wait()

	s.logger.Info("shelf fill complete",
		"shelf", shelfName,
		"boxes", len(dragBoxes),
		"elapsed", time.Since(startTime),
	)
	return results, err
}
