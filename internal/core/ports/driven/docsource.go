package driven

import (
	"context"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

// DocumentSource supplies documents for indexing. Implementations may wrap a
// local upload, a directory walk, or a remote-platform fetch; the engine only
// sees (documentId, contentType, text, metadata) tuples.
type DocumentSource interface {
	// Fetch returns the source's documents.
	Fetch(ctx context.Context) ([]domain.SourceDocument, error)
}
