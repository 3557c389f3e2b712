package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the CLI with the given arguments against an isolated
// data directory and returns combined output.
func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

// TestShelfAndBoxCommands exercises the CRUD surface end to end.
func TestShelfAndBoxCommands(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()

	out, err := execute(t, dataDir, "shelf", "create", "reference")
	if err != nil {
		t.Fatalf("shelf create: %v\n%s", err, out)
	}
	if !strings.Contains(out, "shelf reference created") {
		t.Errorf("unexpected output: %s", out)
	}

	out, err = execute(t, dataDir, "box", "create", "reference", "go-docs",
		"--type", "drag", "--url", "https://go.dev/doc/")
	if err != nil {
		t.Fatalf("box create: %v\n%s", err, out)
	}

	out, err = execute(t, dataDir, "box", "show", "go-docs")
	if err != nil {
		t.Fatalf("box show: %v\n%s", err, out)
	}
	for _, want := range []string{"type:  drag", "https://go.dev/doc/", "pages: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("box show missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, dataDir, "shelf", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "reference") {
		t.Errorf("shelf list missing shelf:\n%s", out)
	}

	out, err = execute(t, dataDir, "shelf", "list", "reference", "--markdown")
	if err != nil {
		t.Fatalf("shelf inventory: %v\n%s", err, out)
	}
	if !strings.Contains(out, "# Shelf: reference") || !strings.Contains(out, "go-docs") {
		t.Errorf("unexpected inventory:\n%s", out)
	}

	if out, err = execute(t, dataDir, "box", "remove", "go-docs"); err != nil {
		t.Fatalf("box remove: %v\n%s", err, out)
	}
	if out, err = execute(t, dataDir, "shelf", "remove", "reference"); err != nil {
		t.Fatalf("shelf remove: %v\n%s", err, out)
	}
	if _, err = execute(t, dataDir, "box", "show", "go-docs"); err == nil {
		t.Error("expected error showing a removed box")
	}
}

// TestInvalidInputs verifies early validation failures.
func TestInvalidInputs(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()

	if _, err := execute(t, dataDir, "box", "create", "nowhere", "x", "--type", "urn"); err == nil {
		t.Error("expected error for unknown box type")
	}
	if _, err := execute(t, dataDir, "fill", "missing"); err == nil {
		t.Error("expected error for unknown box")
	}
	if _, err := execute(t, dataDir, "sessions", "missing"); err == nil {
		t.Error("expected error for unknown box")
	}
	if _, err := execute(t, dataDir, "--config", filepath.Join(dataDir, "absent.yaml"), "shelf", "list"); err == nil {
		t.Error("expected error for missing explicit settings file")
	}
	if _, err := execute(t, dataDir, "sessions", "x", "--markdown", "--json"); err == nil {
		t.Error("expected error for conflicting format flags")
	}
}

// TestFillBagCommand imports files through the CLI.
func TestFillBagCommand(t *testing.T) {
	t.Parallel()

	dataDir := t.TempDir()
	if _, err := execute(t, dataDir, "shelf", "create", "docs"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, dataDir, "box", "create", "docs", "files", "--type", "bag"); err != nil {
		t.Fatal(err)
	}

	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "a.md"), []byte("a"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, dataDir, "fill", "files", src)
	if err != nil {
		t.Fatalf("fill: %v\n%s", err, out)
	}
	if !strings.Contains(out, "import finished: 1 files") {
		t.Errorf("unexpected fill output:\n%s", out)
	}
}

// TestFillDragCommand crawls a local server through the CLI and reads
// back the session history.
func TestFillDragCommand(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>Docs</title></head><body><a href="/api">api</a></body></html>`))
	})
	mux.HandleFunc("/api", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><title>API</title></head><body>api reference</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dataDir := t.TempDir()
	if _, err := execute(t, dataDir, "shelf", "create", "docs"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, dataDir, "box", "create", "docs", "local-docs",
		"--type", "drag", "--url", srv.URL+"/", "--rate-limit", "1000", "--depth", "2")
	if err != nil {
		t.Fatalf("box create: %v\n%s", err, out)
	}

	out, err = execute(t, dataDir, "fill", "local-docs")
	if err != nil {
		t.Fatalf("fill: %v\n%s", err, out)
	}
	if !strings.Contains(out, "crawl completed: 2 crawled, 0 failed") {
		t.Errorf("unexpected fill output:\n%s", out)
	}

	out, err = execute(t, dataDir, "sessions", "local-docs")
	if err != nil {
		t.Fatalf("sessions: %v\n%s", err, out)
	}
	if !strings.Contains(out, "completed") {
		t.Errorf("sessions output missing completed session:\n%s", out)
	}

	out, err = execute(t, dataDir, "box", "show", "local-docs")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pages: 2") {
		t.Errorf("expected 2 stored pages:\n%s", out)
	}
}
