// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when unavailable, retrieval falls back to
// keyword search instead of raising to the user.
//
// Implementations may include:
//   - Ollama / local inference servers (all-minilm, nomic-embed-text)
//   - OpenAI (text-embedding-3-small) or other hosted APIs that embed
//     server-side
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// Vectors are L2-normalised by the implementation so cosine
	// similarity is meaningful; callers must not re-scale.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, order-preserving.
	// Implementations process inputs in bounded sub-batches to cap peak
	// memory and concurrency.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// All entries in one user index must share this dimensionality.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Available reports whether the underlying model or service is
	// reachable. When false, callers must take the keyword fallback path.
	Available(ctx context.Context) bool

	// Close releases resources.
	Close() error
}
