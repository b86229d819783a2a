package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fetchit-ai/fetchit/internal/chunker"
	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// embedBatchSize bounds how many chunks are embedded per provider call.
// A resource-safety measure, not a throughput optimisation.
const embedBatchSize = 5

// Indexer chunks and embeds documents into per-user indices.
type Indexer struct {
	store    driven.IndexStore
	embedder driven.EmbeddingService
	chunker  *chunker.Chunker
}

// NewIndexer creates an indexer. The embedder is optional (can be nil);
// without it, documents are indexed for keyword search only.
func NewIndexer(store driven.IndexStore, embedder driven.EmbeddingService, c *chunker.Chunker) *Indexer {
	if c == nil {
		c = chunker.New()
	}
	return &Indexer{
		store:    store,
		embedder: embedder,
		chunker:  c,
	}
}

// IndexDocument splits the document into chunks, embeds them when an
// embedding provider is available, and appends the entries to the user's
// index in one atomic call. Returns the number of chunks indexed.
//
// Indexing is not idempotent: indexing the same document twice duplicates
// entries. Remove the document first to replace it.
func (ix *Indexer) IndexDocument(ctx context.Context, userID string, doc domain.SourceDocument) (int, error) {
	if userID == "" || doc.DocumentID == "" {
		return 0, fmt.Errorf("indexer: userID and documentID are required: %w", domain.ErrInvalidInput)
	}

	logger.Debug("Indexing %q for user %s", doc.DocumentID, userID)

	chunks := ix.chunker.Chunk(doc.Text)

	// Drop whitespace-only chunks so the index never holds empty text.
	kept := chunks[:0]
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			kept = append(kept, chunk)
		}
	}
	chunks = kept

	if len(chunks) == 0 {
		logger.Debug("Document %q has no indexable content", doc.DocumentID)
		return 0, nil
	}

	// All embedding happens before the store is touched, so a mid-flight
	// failure leaves the index unmodified.
	embeddings, err := ix.embedChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	entries := make([]domain.IndexEntry, len(chunks))
	for i, chunk := range chunks {
		var embedding []float32
		if embeddings != nil {
			embedding = embeddings[i]
		}
		entries[i] = domain.IndexEntry{
			ChunkText: chunk,
			Embedding: embedding,
			Meta: domain.ChunkMeta{
				DocumentID:  doc.DocumentID,
				ContentType: doc.ContentType,
				Platform:    doc.Platform,
				ChunkIndex:  i,
				IndexedAt:   now,
				Extra:       doc.Extra,
			},
		}
	}

	if err := ix.store.Append(ctx, userID, entries); err != nil {
		return 0, fmt.Errorf("append entries: %w", err)
	}

	logger.Info("Indexed %d chunks from %q for user %s", len(entries), doc.DocumentID, userID)
	return len(entries), nil
}

// embedChunks embeds chunks in bounded sub-batches. Returns nil (and no
// error) when no embedding provider is available; retrieval will use the
// keyword fallback for these entries.
func (ix *Indexer) embedChunks(ctx context.Context, chunks []string) ([][]float32, error) {
	if ix.embedder == nil || !ix.embedder.Available(ctx) {
		logger.Warn("Embedding service unavailable, indexing for keyword search only")
		return nil, nil
	}

	want := ix.embedder.Dimensions()
	embeddings := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		batch, err := ix.embedder.EmbedBatch(ctx, chunks[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}

		for i, embedding := range batch {
			if want > 0 && len(embedding) != want {
				return nil, fmt.Errorf("chunk %d: got %d dimensions, want %d: %w",
					start+i, len(embedding), want, domain.ErrDimensionMismatch)
			}
		}

		embeddings = append(embeddings, batch...)
	}

	return embeddings, nil
}

// RemoveDocument deletes every chunk of the document from the user's index.
// Removing an absent document returns 0, not an error.
func (ix *Indexer) RemoveDocument(ctx context.Context, userID, documentID string) (int, error) {
	if userID == "" || documentID == "" {
		return 0, fmt.Errorf("indexer: userID and documentID are required: %w", domain.ErrInvalidInput)
	}

	removed, err := ix.store.RemoveDocument(ctx, userID, documentID)
	if err != nil {
		return 0, fmt.Errorf("remove document: %w", err)
	}

	logger.Info("Removed %d chunks of %q for user %s", removed, documentID, userID)
	return removed, nil
}

// ListDocuments returns the deduplicated document IDs in the user's index.
func (ix *Indexer) ListDocuments(ctx context.Context, userID string) ([]string, error) {
	docs, err := ix.store.Documents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}
