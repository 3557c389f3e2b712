package upload

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Options controls how a source path is imported.
type Options struct {
	// Recursive descends into subdirectories when the source is a
	// directory. Without it only the directory's immediate files are
	// imported.
	Recursive bool

	// Pattern filters files by base name using filepath.Match syntax
	// (for example "*.md"). Empty imports everything.
	Pattern string
}

// Result summarizes an import run.
type Result struct {
	// FilesImported is the number of files copied successfully.
	FilesImported int

	// FilesFailed is the number of files that could not be copied.
	FilesFailed int

	// BytesCopied is the total size of imported files in bytes.
	BytesCopied int64
}

// Importer copies files from the local filesystem into a box content
// directory.
type Importer struct {
	logger *slog.Logger
}

// NewImporter creates an Importer. A nil logger falls back to
// slog.Default.
func NewImporter(logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{logger: logger}
}

// Import copies the source file or directory into destDir, creating
// destDir as needed.
//
// Per-file problems are counted in the result and logged instead of
// returned: the import keeps going past an unreadable file. Only
// conditions that make the whole run impossible (an unusable destDir,
// a canceled context) surface as errors.
func (im *Importer) Import(ctx context.Context, source, destDir string, opts Options) (*Result, error) {
	if opts.Pattern != "" {
		// Reject bad patterns up front instead of failing every file.
		if _, err := filepath.Match(opts.Pattern, "probe"); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", opts.Pattern, err)
		}
	}
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create box directory: %w", err)
	}

	result := &Result{}

	info, err := os.Stat(source)
	if err != nil {
		im.logger.Warn("source not readable", "source", source, "error", err)
		result.FilesFailed++
		return result, nil
	}

	if !info.IsDir() {
		im.copyFile(source, filepath.Join(destDir, filepath.Base(source)), result)
		return result, nil
	}

	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			im.logger.Warn("walk error", "path", path, "error", err)
			result.FilesFailed++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != source && !opts.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if opts.Pattern != "" {
			if ok, _ := filepath.Match(opts.Pattern, d.Name()); !ok {
				return nil
			}
		}

		// Flatten the tree: box content is a single directory, so a
		// recursive import stores files by base name.
		im.copyFile(path, filepath.Join(destDir, d.Name()), result)
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("import interrupted: %w", err)
	}
	return result, nil
}

// copyFile copies one file and records the outcome in result.
func (im *Importer) copyFile(src, dst string, result *Result) {
	n, err := copyContents(src, dst)
	if err != nil {
		im.logger.Warn("failed to import file", "source", src, "error", err)
		result.FilesFailed++
		return
	}
	im.logger.Debug("file imported", "source", src, "dest", dst, "bytes", n)
	result.FilesImported++
	result.BytesCopied += n
}

func copyContents(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	return n, nil
}
