package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/behemotion/bablib/internal/library"
	"github.com/behemotion/bablib/internal/model"
)

func sampleSessionReport() *SessionReport {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &SessionReport{
		Box: &model.Box{
			Name:       "go-docs",
			Type:       model.BoxTypeDrag,
			URL:        "https://go.dev/doc/",
			MaxPages:   100,
			CrawlDepth: 3,
		},
		Sessions: []*model.CrawlSession{
			{
				ID:           "s2",
				Status:       model.StatusCompleted,
				PagesCrawled: 42,
				PagesFailed:  1,
				StartedAt:    started.Add(time.Hour),
				CompletedAt:  started.Add(time.Hour + 90*time.Second),
			},
			{
				ID:           "s1",
				Status:       model.StatusStopped,
				PagesCrawled: 7,
				StartedAt:    started,
				CompletedAt:  started.Add(10 * time.Second),
			},
		},
	}
}

func sampleInventory() *library.ShelfInventory {
	return &library.ShelfInventory{
		Shelf: &model.Shelf{Name: "reference"},
		Boxes: []*library.BoxInventory{
			{
				Box:       &model.Box{Name: "files", Type: model.BoxTypeBag},
				PageCount: 0,
			},
			{
				Box:       &model.Box{Name: "go-docs", Type: model.BoxTypeDrag, URL: "https://go.dev/doc/"},
				PageCount: 42,
				TotalSize: 3 * 1024 * 1024,
			},
		},
	}
}

// TestSimpleWriter verifies the terminal table output.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("sessions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewSimpleWriter(&buf).WriteSessions(sampleSessionReport()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"go-docs", "STARTED", "completed", "stopped", "42", "1m30s"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("empty sessions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := &SessionReport{Box: &model.Box{Name: "go-docs"}}
		if err := NewSimpleWriter(&buf).WriteSessions(report); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "no sessions yet") {
			t.Errorf("expected empty-state line:\n%s", buf.String())
		}
	})

	t.Run("inventory", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewSimpleWriter(&buf).WriteInventory(sampleInventory()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"Shelf reference", "files", "bag", "3.0 MB"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})
}

// TestMarkdownWriter verifies markdown structure.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("sessions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewMarkdownWriter(&buf).WriteSessions(sampleSessionReport()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"# Crawl Sessions: go-docs", "## History", "| Started", "`https://go.dev/doc/`"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("inventory with totals", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewMarkdownWriter(&buf).WriteInventory(sampleInventory()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"# Shelf: reference", "**Total**", "**42**"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("empty inventory", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inv := &library.ShelfInventory{Shelf: &model.Shelf{Name: "empty"}}
		if err := NewMarkdownWriter(&buf).WriteInventory(inv); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "No boxes yet.") {
			t.Errorf("expected empty-state line:\n%s", buf.String())
		}
	})
}

// TestJSONWriter verifies machine-readable output round trips.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("sessions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewJSONWriter(&buf).WriteSessions(sampleSessionReport()); err != nil {
			t.Fatal(err)
		}

		var decoded SessionReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Box.Name != "go-docs" || len(decoded.Sessions) != 2 {
			t.Errorf("round trip mismatch: %+v", decoded)
		}
	})

	t.Run("inventory pretty printed", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := NewJSONWriter(&buf, WithPrettyPrint()).WriteInventory(sampleInventory()); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		if !strings.Contains(out, "\n  ") {
			t.Errorf("expected indented output:\n%s", out)
		}
		if !strings.Contains(out, `"shelf": "reference"`) {
			t.Errorf("output missing shelf field:\n%s", out)
		}
	})
}

// TestFormatSize verifies unit selection.
func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.n); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
