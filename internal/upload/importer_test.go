package upload

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// TestImportFile verifies single-file import.
func TestImportFile(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "notes.md")
	writeFile(t, src, "# notes")
	dest := filepath.Join(t.TempDir(), "box")

	result, err := NewImporter(nil).Import(t.Context(), src, dest, Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.FilesImported != 1 || result.FilesFailed != 0 {
		t.Errorf("expected 1 imported / 0 failed, got %+v", result)
	}
	if result.BytesCopied != int64(len("# notes")) {
		t.Errorf("expected %d bytes, got %d", len("# notes"), result.BytesCopied)
	}

	got, err := os.ReadFile(filepath.Join(dest, "notes.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "# notes" {
		t.Errorf("copied content mismatch: %q", got)
	}
}

// TestImportDirectory verifies directory imports with recursion and
// pattern filtering.
func TestImportDirectory(t *testing.T) {
	t.Parallel()

	newSource := func(t *testing.T) string {
		src := t.TempDir()
		writeFile(t, filepath.Join(src, "a.md"), "a")
		writeFile(t, filepath.Join(src, "b.txt"), "bb")
		writeFile(t, filepath.Join(src, "sub", "c.md"), "ccc")
		return src
	}

	t.Run("top level only by default", func(t *testing.T) {
		t.Parallel()

		result, err := NewImporter(nil).Import(t.Context(), newSource(t), t.TempDir(), Options{})
		if err != nil {
			t.Fatal(err)
		}
		if result.FilesImported != 2 {
			t.Errorf("expected 2 imported, got %+v", result)
		}
	})

	t.Run("recursive descends", func(t *testing.T) {
		t.Parallel()

		dest := t.TempDir()
		result, err := NewImporter(nil).Import(t.Context(), newSource(t), dest, Options{Recursive: true})
		if err != nil {
			t.Fatal(err)
		}
		if result.FilesImported != 3 {
			t.Errorf("expected 3 imported, got %+v", result)
		}
		// Recursive imports flatten into the box directory.
		if _, err := os.Stat(filepath.Join(dest, "c.md")); err != nil {
			t.Errorf("expected flattened c.md: %v", err)
		}
	})

	t.Run("pattern filters by base name", func(t *testing.T) {
		t.Parallel()

		result, err := NewImporter(nil).Import(t.Context(), newSource(t), t.TempDir(), Options{Recursive: true, Pattern: "*.md"})
		if err != nil {
			t.Fatal(err)
		}
		if result.FilesImported != 2 {
			t.Errorf("expected 2 markdown files, got %+v", result)
		}
	})

	t.Run("invalid pattern rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := NewImporter(nil).Import(t.Context(), newSource(t), t.TempDir(), Options{Pattern: "["}); err == nil {
			t.Error("expected error for invalid pattern")
		}
	})
}

// TestImportMissingSource verifies that a missing path counts as a
// failure instead of aborting.
func TestImportMissingSource(t *testing.T) {
	t.Parallel()

	result, err := NewImporter(nil).Import(t.Context(), filepath.Join(t.TempDir(), "absent"), t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("missing source should not be a hard error: %v", err)
	}
	if result.FilesImported != 0 || result.FilesFailed != 1 {
		t.Errorf("expected 0 imported / 1 failed, got %+v", result)
	}
}

// TestImportUnreadableFile verifies per-file failure counting.
func TestImportUnreadableFile(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "ok.md"), "ok")
	locked := filepath.Join(src, "locked.md")
	writeFile(t, locked, "secret")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}

	result, err := NewImporter(nil).Import(t.Context(), src, t.TempDir(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if result.FilesImported != 1 || result.FilesFailed != 1 {
		t.Errorf("expected 1 imported / 1 failed, got %+v", result)
	}
}
