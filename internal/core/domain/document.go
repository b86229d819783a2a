package domain

import "time"

// SourceDocument is the ingestion unit handed to the engine by a document
// source (upload, platform fetch). The engine never fetches bytes itself.
type SourceDocument struct {
	// DocumentID is the caller-supplied identifier (file path or name).
	DocumentID string

	// ContentType is a free-form tag ("txt", "pdf", "gdoc", ...).
	ContentType string

	// Text is the full plain-text content to index.
	Text string

	// Platform identifies where the document came from, if anywhere.
	Platform string

	// Extra carries unrecognised metadata key-value pairs.
	Extra map[string]string
}

// ChunkMeta annotates one indexed chunk with its provenance.
type ChunkMeta struct {
	// DocumentID links the chunk back to its document.
	DocumentID string

	// ContentType is the document's free-form content tag.
	ContentType string

	// Platform is the originating platform, if any.
	Platform string

	// ChunkIndex is the 0-based position of the chunk within its document.
	ChunkIndex int

	// IndexedAt is when the chunk was added to the index.
	IndexedAt time.Time

	// Extra carries unrecognised metadata key-value pairs.
	Extra map[string]string
}

// IndexEntry is one (chunk text, embedding, metadata) triple in a user index.
// Embedding is nil when the entry was indexed without an embedding provider;
// such entries are only reachable through the keyword fallback.
type IndexEntry struct {
	ChunkText string
	Embedding []float32
	Meta      ChunkMeta
}

// RetrievalResult is a single ranked hit for a query. It is ephemeral and
// never persisted.
type RetrievalResult struct {
	// ChunkText is the matched chunk content.
	ChunkText string

	// Similarity is the relevance score in [0,1].
	Similarity float64

	// Meta is the matched chunk's provenance.
	Meta ChunkMeta
}

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// TopK is the maximum number of results (default 5).
	TopK int

	// MinSimilarity filters out results scoring below it (default 0.3).
	MinSimilarity float64
}

// UserStats summarises one user's engine state.
type UserStats struct {
	ChunksIndexed    int
	DocumentsIndexed int
	HistoryLength    int
}

// EngineStats summarises the whole engine.
type EngineStats struct {
	Users       int
	TotalChunks int
}
