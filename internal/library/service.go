package library

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/behemotion/bablib/internal/config"
	"github.com/behemotion/bablib/internal/database"
	"github.com/behemotion/bablib/internal/model"
)

// Service manages shelves and boxes on top of the SQLite store.
//
// Design decision: We keep this layer separate from internal/database
// because the store is deliberately dumb (one SQL statement per
// method) while the operations users invoke compose several of them:
// removing a shelf removes its boxes and their stored pages, creating
// a drag box fills in crawl defaults, and removing a box deletes its
// content directory from disk.
type Service struct {
	// store is the SQLite persistence layer.
	store *database.Store

	// cfg supplies crawl defaults and the data directory for box
	// content.
	cfg *config.Config

	// logger is used for service-level logging.
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a shelf/box management service.
func NewService(store *database.Store, cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		store: store,
		cfg:   cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// CreateShelf creates a new named shelf.
func (s *Service) CreateShelf(ctx context.Context, name string) (*model.Shelf, error) {
	shelf, err := s.store.CreateShelf(ctx, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info("shelf created", "shelf", shelf.Name, "id", shelf.ID)
	return shelf, nil
}

// ListShelves returns all shelves ordered by name.
func (s *Service) ListShelves(ctx context.Context) ([]*model.Shelf, error) {
	return s.store.ListShelves(ctx)
}

// RemoveShelf deletes a shelf together with its boxes, their stored
// pages, and their content directories.
func (s *Service) RemoveShelf(ctx context.Context, name string) error {
	shelf, err := s.store.GetShelfByName(ctx, name)
	if err != nil {
		return err
	}

	boxes, err := s.store.ListBoxes(ctx, shelf.ID)
	if err != nil {
		return fmt.Errorf("failed to list boxes of shelf %s: %w", name, err)
	}
	for _, box := range boxes {
		if err := s.RemoveBox(ctx, box.Name); err != nil {
			return fmt.Errorf("failed to remove box %s: %w", box.Name, err)
		}
	}

	if err := s.store.DeleteShelf(ctx, name); err != nil {
		return err
	}
	s.logger.Info("shelf removed", "shelf", name, "boxes", len(boxes))
	return nil
}

// CreateBox creates a box on the named shelf. The box type must be
// valid, and drag boxes must carry a seed URL. Zero-valued crawl
// settings on a drag box are filled from the configured defaults so
// the stored row is self-contained.
func (s *Service) CreateBox(ctx context.Context, shelfName string, box *model.Box) (*model.Box, error) {
	shelf, err := s.store.GetShelfByName(ctx, shelfName)
	if err != nil {
		return nil, err
	}
	box.ShelfID = shelf.ID

	if box.Type == model.BoxTypeDrag {
		if box.URL == "" {
			return nil, fmt.Errorf("drag box %s requires a seed URL", box.Name)
		}
		if box.MaxPages == 0 {
			box.MaxPages = s.cfg.MaxPages
		}
		if box.RateLimit == 0 {
			box.RateLimit = s.cfg.RateLimit
		}
		if box.CrawlDepth == 0 {
			box.CrawlDepth = s.cfg.CrawlDepth
		}
	}

	created, err := s.store.CreateBox(ctx, box)
	if err != nil {
		return nil, err
	}
	s.logger.Info("box created",
		"box", created.Name,
		"shelf", shelfName,
		"type", string(created.Type))
	return created, nil
}

// GetBox returns the box with the given name.
func (s *Service) GetBox(ctx context.Context, name string) (*model.Box, error) {
	return s.store.GetBoxByName(ctx, name)
}

// ListBoxes returns the boxes of the named shelf ordered by name.
func (s *Service) ListBoxes(ctx context.Context, shelfName string) ([]*model.Box, error) {
	shelf, err := s.store.GetShelfByName(ctx, shelfName)
	if err != nil {
		return nil, err
	}
	return s.store.ListBoxes(ctx, shelf.ID)
}

// RemoveBox deletes a box, its stored pages, and its content
// directory under the data dir.
func (s *Service) RemoveBox(ctx context.Context, name string) error {
	if err := s.store.DeleteBox(ctx, name); err != nil {
		return err
	}
	dir := config.BoxDataDir(s.cfg.DataDir, name)
	if err := os.RemoveAll(dir); err != nil {
		// The database row is already gone; report the leftover
		// directory instead of pretending the removal failed.
		s.logger.Warn("failed to remove box content directory", "box", name, "dir", dir, "error", err)
	}
	s.logger.Info("box removed", "box", name)
	return nil
}

// BoxInventory describes a box together with its stored content
// totals.
type BoxInventory struct {
	// Box is the box record.
	Box *model.Box

	// PageCount is the number of stored pages.
	PageCount int

	// TotalSize is the total stored page size in bytes.
	TotalSize int64
}

// Inventory returns the named box with its page count and total
// stored size.
func (s *Service) Inventory(ctx context.Context, boxName string) (*BoxInventory, error) {
	box, err := s.store.GetBoxByName(ctx, boxName)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.GetBoxStats(ctx, box.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats of box %s: %w", boxName, err)
	}
	return &BoxInventory{
		Box:       box,
		PageCount: stats.PageCount,
		TotalSize: stats.TotalSize,
	}, nil
}

// ShelfInventory describes a shelf and the inventories of all its
// boxes.
type ShelfInventory struct {
	// Shelf is the shelf record.
	Shelf *model.Shelf

	// Boxes are the per-box inventories, ordered by box name.
	Boxes []*BoxInventory
}

// ShelfInventoryByName returns the named shelf with per-box content
// totals.
func (s *Service) ShelfInventoryByName(ctx context.Context, shelfName string) (*ShelfInventory, error) {
	shelf, err := s.store.GetShelfByName(ctx, shelfName)
	if err != nil {
		return nil, err
	}
	boxes, err := s.store.ListBoxes(ctx, shelf.ID)
	if err != nil {
		return nil, err
	}

	inv := &ShelfInventory{Shelf: shelf, Boxes: make([]*BoxInventory, 0, len(boxes))}
	for _, box := range boxes {
		stats, err := s.store.GetBoxStats(ctx, box.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to read stats of box %s: %w", box.Name, err)
		}
		inv.Boxes = append(inv.Boxes, &BoxInventory{
			Box:       box,
			PageCount: stats.PageCount,
			TotalSize: stats.TotalSize,
		})
	}
	return inv, nil
}
