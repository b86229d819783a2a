package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driving"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// Default retrieval parameters.
const (
	DefaultTopK          = 5
	DefaultMinSimilarity = 0.3
)

// Bias re-rank multipliers. These adjust ordering only; the similarity
// filter always runs on the unbiased score, so a penalty can demote a
// candidate but never eliminate it.
const (
	preferredBoost  = 1.15
	avoidedPenalty  = 0.85
	minKeywordChars = 3
)

// Retriever ranks a user's indexed chunks against a query. Embedding-based
// cosine similarity when available, lexical overlap otherwise.
type Retriever struct {
	store    driven.IndexStore
	embedder driven.EmbeddingService
	feedback driving.FeedbackService
}

// NewRetriever creates a retriever. Both embedder and feedback are optional
// (can be nil); each absence degrades gracefully.
func NewRetriever(store driven.IndexStore, embedder driven.EmbeddingService, feedback driving.FeedbackService) *Retriever {
	return &Retriever{
		store:    store,
		embedder: embedder,
		feedback: feedback,
	}
}

// Search returns up to opts.TopK results with similarity >= opts.MinSimilarity,
// ordered descending. An empty index yields an empty result set, not an error.
func (r *Retriever) Search(ctx context.Context, userID, query string, opts domain.SearchOptions) ([]domain.RetrievalResult, error) {
	if opts.TopK < 0 {
		return nil, fmt.Errorf("retriever: negative topK %d: %w", opts.TopK, domain.ErrInvalidInput)
	}
	if opts.TopK == 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MinSimilarity == 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q, user: %s, topK: %d, minSimilarity: %.2f",
		query, userID, opts.TopK, opts.MinSimilarity)

	entries, err := r.store.Entries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	if len(entries) == 0 {
		logger.Debug("No documents indexed for user %s", userID)
		return []domain.RetrievalResult{}, nil
	}

	var results []domain.RetrievalResult
	if r.semanticAvailable(ctx, entries) {
		logger.Debug("Using semantic search over %d entries", len(entries))
		results, err = r.semanticSearch(ctx, query, entries)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Debug("Using keyword fallback over %d entries", len(entries))
		results = keywordSearch(query, entries)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	filtered := results[:0]
	for _, res := range results {
		if res.Similarity >= opts.MinSimilarity {
			filtered = append(filtered, res)
		}
	}
	results = filtered

	results = r.applyBias(ctx, results)

	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}

	logger.Info("Retrieved %d results", len(results))
	return results, nil
}

// semanticAvailable reports whether embedding search can run: the provider
// is reachable and the index actually holds embeddings.
func (r *Retriever) semanticAvailable(ctx context.Context, entries []domain.IndexEntry) bool {
	if r.embedder == nil || !r.embedder.Available(ctx) {
		return false
	}
	for _, entry := range entries {
		if len(entry.Embedding) > 0 {
			return true
		}
	}
	return false
}

// semanticSearch scores every embedded entry by cosine similarity against
// the query embedding. Brute-force linear scan; no approximate index is
// needed at this scale.
func (r *Retriever) semanticSearch(ctx context.Context, query string, entries []domain.IndexEntry) ([]domain.RetrievalResult, error) {
	queryEmbedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed, falling back to keyword search: %v", err)
		return keywordSearch(query, entries), nil
	}

	results := make([]domain.RetrievalResult, 0, len(entries))
	for _, entry := range entries {
		if len(entry.Embedding) == 0 {
			continue
		}
		results = append(results, domain.RetrievalResult{
			ChunkText:  entry.ChunkText,
			Similarity: CosineSimilarity(queryEmbedding, entry.Embedding),
			Meta:       entry.Meta,
		})
	}
	return results, nil
}

// keywordSearch scores chunks by the fraction of query words (longer than
// two characters) found as substrings. Zero-score chunks are discarded.
func keywordSearch(query string, entries []domain.IndexEntry) []domain.RetrievalResult {
	words := keywordTerms(query)
	if len(words) == 0 {
		return nil
	}

	var results []domain.RetrievalResult
	for _, entry := range entries {
		chunkLower := strings.ToLower(entry.ChunkText)

		matches := 0
		for _, word := range words {
			if strings.Contains(chunkLower, word) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		results = append(results, domain.RetrievalResult{
			ChunkText:  entry.ChunkText,
			Similarity: float64(matches) / float64(len(words)),
			Meta:       entry.Meta,
		})
	}
	return results
}

// keywordTerms tokenises a query into lowercase words longer than two
// characters.
func keywordTerms(query string) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) >= minKeywordChars {
			terms = append(terms, word)
		}
	}
	return terms
}

// applyBias re-orders candidates by feedback-derived content-type preference.
// Advisory only: a sole candidate is never touched, and scores used for the
// similarity filter are left unchanged.
func (r *Retriever) applyBias(ctx context.Context, results []domain.RetrievalResult) []domain.RetrievalResult {
	if r.feedback == nil || len(results) < 2 {
		return results
	}

	bias := r.feedback.CurrentBias(ctx)
	if bias.Empty() {
		return results
	}

	logger.Debug("Applying feedback bias: %d preferred, %d avoided types",
		len(bias.PreferredContentTypes), len(bias.AvoidedContentTypes))

	adjusted := func(res domain.RetrievalResult) float64 {
		score := res.Similarity
		if bias.Prefers(res.Meta.ContentType) {
			score *= preferredBoost
		} else if bias.Avoids(res.Meta.ContentType) {
			score *= avoidedPenalty
		}
		return score
	}

	sort.SliceStable(results, func(i, j int) bool {
		return adjusted(results[i]) > adjusted(results[j])
	})
	return results
}

// CosineSimilarity computes dot(a,b) / (||a|| * ||b||), clamped to [0,1].
// Mismatched or empty vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, similarity))
}
