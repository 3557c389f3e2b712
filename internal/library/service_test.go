package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/behemotion/bablib/internal/config"
	"github.com/behemotion/bablib/internal/database"
	"github.com/behemotion/bablib/internal/model"
)

func newTestService(t *testing.T) (*Service, *database.Store) {
	t.Helper()

	store, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.NewConfig()
	cfg.DataDir = t.TempDir()
	return NewService(store, cfg), store
}

// TestShelfLifecycle verifies shelf creation, listing, and cascading
// removal.
func TestShelfLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := t.Context()

	if _, err := svc.CreateShelf(ctx, "reference"); err != nil {
		t.Fatalf("create shelf: %v", err)
	}
	if _, err := svc.CreateShelf(ctx, "archive"); err != nil {
		t.Fatal(err)
	}

	shelves, err := svc.ListShelves(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(shelves) != 2 {
		t.Fatalf("expected 2 shelves, got %d", len(shelves))
	}

	box := &model.Box{Name: "go-docs", Type: model.BoxTypeDrag, URL: "https://go.dev/doc/"}
	if _, err := svc.CreateBox(ctx, "reference", box); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveShelf(ctx, "reference"); err != nil {
		t.Fatalf("remove shelf: %v", err)
	}
	if _, err := svc.GetBox(ctx, "go-docs"); !errors.Is(err, model.ErrBoxNotFound) {
		t.Errorf("expected box removed with shelf, got %v", err)
	}
	if err := svc.RemoveShelf(ctx, "reference"); !errors.Is(err, model.ErrShelfNotFound) {
		t.Errorf("expected ErrShelfNotFound, got %v", err)
	}
}

// TestCreateBox verifies type rules and crawl defaults.
func TestCreateBox(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := t.Context()

	if _, err := svc.CreateShelf(ctx, "docs"); err != nil {
		t.Fatal(err)
	}

	t.Run("drag box gets crawl defaults", func(t *testing.T) {
		box, err := svc.CreateBox(ctx, "docs", &model.Box{
			Name: "python-docs",
			Type: model.BoxTypeDrag,
			URL:  "https://docs.python.org/3/",
		})
		if err != nil {
			t.Fatalf("create box: %v", err)
		}
		if box.MaxPages != config.DefaultMaxPages {
			t.Errorf("expected default max pages %d, got %d", config.DefaultMaxPages, box.MaxPages)
		}
		if box.RateLimit != config.DefaultRateLimit {
			t.Errorf("expected default rate limit %v, got %v", config.DefaultRateLimit, box.RateLimit)
		}
		if box.CrawlDepth != config.DefaultCrawlDepth {
			t.Errorf("expected default crawl depth %d, got %d", config.DefaultCrawlDepth, box.CrawlDepth)
		}
	})

	t.Run("explicit settings survive", func(t *testing.T) {
		box, err := svc.CreateBox(ctx, "docs", &model.Box{
			Name:       "rust-docs",
			Type:       model.BoxTypeDrag,
			URL:        "https://doc.rust-lang.org/",
			MaxPages:   10,
			RateLimit:  0.5,
			CrawlDepth: 1,
		})
		if err != nil {
			t.Fatal(err)
		}
		if box.MaxPages != 10 || box.RateLimit != 0.5 || box.CrawlDepth != 1 {
			t.Errorf("explicit settings overwritten: %+v", box)
		}
	})

	t.Run("drag box without URL fails", func(t *testing.T) {
		if _, err := svc.CreateBox(ctx, "docs", &model.Box{Name: "bare", Type: model.BoxTypeDrag}); err == nil {
			t.Error("expected error for drag box without URL")
		}
	})

	t.Run("bag box needs no URL", func(t *testing.T) {
		box, err := svc.CreateBox(ctx, "docs", &model.Box{Name: "files", Type: model.BoxTypeBag})
		if err != nil {
			t.Fatalf("create bag box: %v", err)
		}
		if box.MaxPages != 0 {
			t.Errorf("bag box should not get crawl defaults: %+v", box)
		}
	})

	t.Run("unknown shelf", func(t *testing.T) {
		_, err := svc.CreateBox(ctx, "nowhere", &model.Box{Name: "x", Type: model.BoxTypeBag})
		if !errors.Is(err, model.ErrShelfNotFound) {
			t.Errorf("expected ErrShelfNotFound, got %v", err)
		}
	})
}

// TestRemoveBox verifies that box removal deletes the content
// directory.
func TestRemoveBox(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := t.Context()

	if _, err := svc.CreateShelf(ctx, "docs"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateBox(ctx, "docs", &model.Box{Name: "files", Type: model.BoxTypeBag}); err != nil {
		t.Fatal(err)
	}

	dir := config.BoxDataDir(svc.cfg.DataDir, "files")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveBox(ctx, "files"); err != nil {
		t.Fatalf("remove box: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected content directory removed, stat err = %v", err)
	}
	if err := svc.RemoveBox(ctx, "files"); !errors.Is(err, model.ErrBoxNotFound) {
		t.Errorf("expected ErrBoxNotFound, got %v", err)
	}
}

// TestInventory verifies page count and size aggregation.
func TestInventory(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := t.Context()

	if _, err := svc.CreateShelf(ctx, "docs"); err != nil {
		t.Fatal(err)
	}
	box, err := svc.CreateBox(ctx, "docs", &model.Box{
		Name: "go-docs",
		Type: model.BoxTypeDrag,
		URL:  "https://go.dev/doc/",
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateBox(ctx, "docs", &model.Box{Name: "files", Type: model.BoxTypeBag}); err != nil {
		t.Fatal(err)
	}

	for i, u := range []string{"https://go.dev/doc/", "https://go.dev/doc/tutorial/"} {
		err := store.SavePage(ctx, &model.Page{
			SessionID:  "sess-1",
			BoxID:      box.ID,
			URL:        u,
			StatusCode: 200,
			SizeBytes:  int64(1000 * (i + 1)),
			FetchedAt:  time.Now(),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	inv, err := svc.Inventory(ctx, "go-docs")
	if err != nil {
		t.Fatalf("inventory: %v", err)
	}
	if inv.PageCount != 2 || inv.TotalSize != 3000 {
		t.Errorf("expected 2 pages / 3000 bytes, got %d / %d", inv.PageCount, inv.TotalSize)
	}

	shelfInv, err := svc.ShelfInventoryByName(ctx, "docs")
	if err != nil {
		t.Fatalf("shelf inventory: %v", err)
	}
	if len(shelfInv.Boxes) != 2 {
		t.Fatalf("expected 2 box inventories, got %d", len(shelfInv.Boxes))
	}
	// ListBoxes orders by name: files before go-docs.
	if shelfInv.Boxes[0].Box.Name != "files" || shelfInv.Boxes[0].PageCount != 0 {
		t.Errorf("unexpected first inventory: %+v", shelfInv.Boxes[0])
	}
	if shelfInv.Boxes[1].PageCount != 2 {
		t.Errorf("unexpected second inventory: %+v", shelfInv.Boxes[1])
	}

	if _, err := svc.Inventory(ctx, "missing"); !errors.Is(err, model.ErrBoxNotFound) {
		t.Errorf("expected ErrBoxNotFound, got %v", err)
	}
}
