// Package docsource provides document sources for bulk indexing.
package docsource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// Ensure Filesystem implements the interface.
var _ driven.DocumentSource = (*Filesystem)(nil)

// Filesystem walks a directory and yields every regular file as a document.
// The document ID is the path relative to the root; the content type is the
// file extension without the dot.
type Filesystem struct {
	root string
}

// NewFilesystem creates a document source rooted at dir.
func NewFilesystem(dir string) *Filesystem {
	return &Filesystem{root: dir}
}

// Fetch reads every regular file under the root. Unreadable files are
// skipped with a warning so one bad file doesn't abort a bulk index.
func (f *Filesystem) Fetch(ctx context.Context) ([]domain.SourceDocument, error) {
	var docs []domain.SourceDocument

	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			// Skip hidden directories like .git
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable file %s: %v", path, err)
			return nil
		}

		rel, err := filepath.Rel(f.root, path)
		if err != nil {
			rel = path
		}

		docs = append(docs, domain.SourceDocument{
			DocumentID:  filepath.ToSlash(rel),
			ContentType: ContentType(path),
			Text:        string(data),
			Platform:    "filesystem",
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", f.root, err)
	}

	return docs, nil
}

// ContentType derives a content tag from a file path's extension.
// Files without an extension are tagged "txt".
func ContentType(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "txt"
	}
	return strings.ToLower(ext)
}
