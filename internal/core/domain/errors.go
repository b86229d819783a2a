package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable indicates a generative or embedding backend is
	// not configured. Never surfaced to the end user; triggers fallback.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderFailed indicates a configured backend failed at call time
	// (timeout, quota, auth, malformed response). The fallback chain logs
	// it and advances to the next entry.
	ErrProviderFailed = errors.New("provider call failed")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured or unreachable. Retrieval degrades to keyword search.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates an embedding with the wrong
	// dimensionality for the user's index. The offending indexing call
	// fails atomically and leaves prior entries untouched.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrBatchInFlight indicates a feedback batch is already being
	// processed. The caller should retry on the next tick.
	ErrBatchInFlight = errors.New("feedback batch already in flight")
)
