// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving

import (
	"context"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
)

// AgentService is the question-answering engine exposed to callers
// (CLI, chat layer). Each operation is scoped to one user.
type AgentService interface {
	// IndexDocument chunks, embeds and appends a document to the user's
	// index. Returns the number of chunks indexed. Indexing the same
	// document twice duplicates entries; remove first to replace.
	IndexDocument(ctx context.Context, userID string, doc domain.SourceDocument) (int, error)

	// IndexAll ingests every document a source supplies. Documents that
	// fail to index are skipped; the first error is returned alongside
	// the count of documents indexed successfully.
	IndexAll(ctx context.Context, userID string, source driven.DocumentSource) (int, error)

	// RemoveDocument deletes all chunks of a document from the user's
	// index and returns the count removed (0 if none matched).
	RemoveDocument(ctx context.Context, userID, documentID string) (int, error)

	// ListDocuments returns the user's indexed document IDs.
	ListDocuments(ctx context.Context, userID string) ([]string, error)

	// Search ranks the user's chunks against the query.
	Search(ctx context.Context, userID, query string, opts domain.SearchOptions) ([]domain.RetrievalResult, error)

	// AnswerQuestion retrieves relevant chunks, synthesises an answer and
	// appends the exchange to the user's conversation history.
	AnswerQuestion(ctx context.Context, userID, query string) (domain.Answer, error)

	// Summarize produces an extractive summary of arbitrary text.
	Summarize(text string, sentences int) string

	// ConversationHistory returns the user's bounded Q&A history,
	// oldest first.
	ConversationHistory(userID string) []domain.AnswerRecord

	// ClearConversationHistory drops the user's history.
	ClearConversationHistory(userID string)

	// Stats reports the user's index and history sizes.
	Stats(ctx context.Context, userID string) (domain.UserStats, error)
}

// FeedbackService records relevance judgments and derives retrieval bias
// from them.
type FeedbackService interface {
	// Record appends a feedback event to the durable log and the
	// processing queue, returning the event ID.
	Record(ctx context.Context, event domain.FeedbackEvent) (string, error)

	// CurrentBias derives the advisory re-ranking signal from recent
	// insights. No insights yields an empty bias, not an error.
	CurrentBias(ctx context.Context) domain.SearchBias

	// Start runs the periodic batch processor until ctx is cancelled.
	Start(ctx context.Context)
}
