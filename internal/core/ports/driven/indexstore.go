package driven

import (
	"context"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

// IndexStore holds per-user collections of (chunk text, embedding, metadata)
// entries. Indices are created lazily on first write and live for the
// process lifetime; callers control teardown.
type IndexStore interface {
	// Append adds entries to the user's index. All entries of one call are
	// appended atomically: a failed call leaves the index unmodified.
	Append(ctx context.Context, userID string, entries []domain.IndexEntry) error

	// RemoveDocument deletes every entry whose metadata DocumentID matches
	// and returns the count removed. Zero matches is not an error.
	RemoveDocument(ctx context.Context, userID, documentID string) (int, error)

	// Entries returns the user's entries as of the start of the call.
	// An unknown user yields an empty slice, not an error.
	Entries(ctx context.Context, userID string) ([]domain.IndexEntry, error)

	// Documents returns the deduplicated document IDs present in the
	// user's index, in first-indexed order.
	Documents(ctx context.Context, userID string) ([]string, error)

	// Stats reports entry and user counts across the store.
	Stats(ctx context.Context) (domain.EngineStats, error)
}
