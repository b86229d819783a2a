// Package memory provides in-memory storage adapters. The index store here
// is the engine's primary store: per-user indices are process-lifetime and
// rebuilt on restart.
package memory

import (
	"context"
	"sync"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore holds per-user (chunk text, embedding, metadata) entries.
// User indices are created lazily on first write and never expire; the
// caller controls teardown.
type IndexStore struct {
	mu      sync.RWMutex
	indices map[string][]domain.IndexEntry
}

// NewIndexStore creates an empty index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		indices: make(map[string][]domain.IndexEntry),
	}
}

// Append adds entries to the user's index. The whole call is applied under
// one lock, so readers never observe a partial append.
func (s *IndexStore) Append(_ context.Context, userID string, entries []domain.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices[userID] = append(s.indices[userID], entries...)
	return nil
}

// RemoveDocument deletes every entry whose DocumentID matches and returns
// the count removed. Zero matches is not an error.
func (s *IndexStore) RemoveDocument(_ context.Context, userID, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.indices[userID]
	kept := entries[:0]
	removed := 0
	for _, entry := range entries {
		if entry.Meta.DocumentID == documentID {
			removed++
			continue
		}
		kept = append(kept, entry)
	}

	if removed > 0 {
		s.indices[userID] = kept
	}
	return removed, nil
}

// Entries returns a snapshot copy of the user's entries. An unknown user
// yields an empty slice.
func (s *IndexStore) Entries(_ context.Context, userID string) ([]domain.IndexEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.indices[userID]
	out := make([]domain.IndexEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// Documents returns the deduplicated document IDs in first-indexed order.
func (s *IndexStore) Documents(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var docs []string
	for _, entry := range s.indices[userID] {
		if seen[entry.Meta.DocumentID] {
			continue
		}
		seen[entry.Meta.DocumentID] = true
		docs = append(docs, entry.Meta.DocumentID)
	}
	return docs, nil
}

// Stats reports user and entry counts across the store.
func (s *IndexStore) Stats(_ context.Context) (domain.EngineStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.EngineStats{Users: len(s.indices)}
	for _, entries := range s.indices {
		stats.TotalChunks += len(entries)
	}
	return stats, nil
}
