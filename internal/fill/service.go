package fill

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/behemotion/bablib/internal/config"
	"github.com/behemotion/bablib/internal/crawler"
	"github.com/behemotion/bablib/internal/database"
	"github.com/behemotion/bablib/internal/model"
	"github.com/behemotion/bablib/internal/upload"
)

// Options controls a fill run.
type Options struct {
	// Source is the file or directory to import. Required for rag and
	// bag boxes, ignored for drag boxes.
	Source string

	// Recursive descends into subdirectories of a directory source.
	Recursive bool

	// Pattern filters imported files by base name (filepath.Match
	// syntax).
	Pattern string
}

// Result summarizes a fill run. Exactly one of Session and Upload is
// set, matching the box type.
type Result struct {
	// Box is the box that was filled.
	Box *model.Box

	// Session is the finished crawl session for drag boxes.
	Session *model.CrawlSession

	// Upload is the import summary for rag and bag boxes.
	Upload *upload.Result
}

// Service fills boxes by type.
type Service struct {
	store  *database.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewService creates a fill service. A nil logger falls back to
// slog.Default.
func NewService(store *database.Store, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, cfg: cfg, logger: logger}
}

// Fill resolves the named box and fills it.
//
// Unknown boxes fail with model.ErrBoxNotFound before any session or
// directory is created. Drag boxes run a crawl to completion; the
// returned session carries the final status and counters even when
// the crawl ends as failed. Rag and bag boxes import Options.Source
// into the box's content directory.
func (s *Service) Fill(ctx context.Context, boxName string, opts Options) (*Result, error) {
	box, err := s.store.GetBoxByName(ctx, boxName)
	if err != nil {
		return nil, err
	}

	switch box.Type {
	case model.BoxTypeDrag:
		session, err := s.crawl(ctx, box)
		if err != nil {
			return nil, err
		}
		return &Result{Box: box, Session: session}, nil
	case model.BoxTypeRag, model.BoxTypeBag:
		if opts.Source == "" {
			return nil, fmt.Errorf("%s box %s requires a source path", box.Type, box.Name)
		}
		result, err := s.importFiles(ctx, box, opts)
		if err != nil {
			return nil, err
		}
		return &Result{Box: box, Upload: result}, nil
	default:
		return nil, fmt.Errorf("box %s has unknown type %q", box.Name, box.Type)
	}
}

// crawl runs one crawl session for a drag box, start to cleanup.
func (s *Service) crawl(ctx context.Context, box *model.Box) (*model.CrawlSession, error) {
	c := crawler.New(s.store,
		crawler.WithWorkers(s.cfg.Workers),
		crawler.WithLogger(s.logger),
		crawler.WithFetchTimeout(s.cfg.FetchTimeout),
		crawler.WithRobotsTimeout(s.cfg.RobotsTimeout),
		crawler.WithMaxBodySize(s.cfg.MaxBodySize),
	)
	defer c.Cleanup()

	s.logger.Info("starting crawl", "box", box.Name, "url", box.URL)
	if _, err := c.StartCrawlByID(ctx, box.ID); err != nil {
		return nil, fmt.Errorf("failed to start crawl for box %s: %w", box.Name, err)
	}

	session, err := c.WaitForCompletion(ctx)
	if err != nil {
		// The caller's context ended; stop politely and report the
		// session as far as it got.
		c.RequestStop()
		if stopped, stopErr := c.WaitForCompletion(context.WithoutCancel(ctx)); stopErr == nil {
			return stopped, nil
		}
		return nil, err
	}

	s.logger.Info("crawl finished",
		"box", box.Name,
		"status", string(session.Status),
		"crawled", session.PagesCrawled,
		"failed", session.PagesFailed)
	return session, nil
}

// importFiles copies the source into the box's content directory.
func (s *Service) importFiles(ctx context.Context, box *model.Box, opts Options) (*upload.Result, error) {
	destDir := config.BoxDataDir(s.cfg.DataDir, box.Name)
	importer := upload.NewImporter(s.logger)

	result, err := importer.Import(ctx, opts.Source, destDir, upload.Options{
		Recursive: opts.Recursive,
		Pattern:   opts.Pattern,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fill box %s: %w", box.Name, err)
	}

	s.logger.Info("import finished",
		"box", box.Name,
		"imported", result.FilesImported,
		"failed", result.FilesFailed,
		"bytes", result.BytesCopied)
	return result, nil
}
