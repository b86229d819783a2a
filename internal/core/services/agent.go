package services

import (
	"context"
	"fmt"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driving"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// Ensure Agent implements the interface.
var _ driving.AgentService = (*Agent)(nil)

// Agent is the question-answering engine facade. It wires indexing,
// retrieval, synthesis and conversation history together per user.
type Agent struct {
	indexer      *Indexer
	retriever    *Retriever
	synthesizer  *Synthesizer
	conversation *ConversationLog
	store        driven.IndexStore
}

// NewAgent creates the engine facade.
func NewAgent(
	indexer *Indexer,
	retriever *Retriever,
	synthesizer *Synthesizer,
	conversation *ConversationLog,
	store driven.IndexStore,
) *Agent {
	return &Agent{
		indexer:      indexer,
		retriever:    retriever,
		synthesizer:  synthesizer,
		conversation: conversation,
		store:        store,
	}
}

// IndexDocument chunks, embeds and appends a document to the user's index.
func (a *Agent) IndexDocument(ctx context.Context, userID string, doc domain.SourceDocument) (int, error) {
	return a.indexer.IndexDocument(ctx, userID, doc)
}

// IndexAll ingests every document the source supplies. Failed documents are
// skipped; the first failure is reported after the rest have been tried.
func (a *Agent) IndexAll(ctx context.Context, userID string, source driven.DocumentSource) (int, error) {
	docs, err := source.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch documents: %w", err)
	}

	indexed := 0
	var firstErr error
	for _, doc := range docs {
		if _, err := a.indexer.IndexDocument(ctx, userID, doc); err != nil {
			logger.Warn("Skipping %q: %v", doc.DocumentID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		indexed++
	}
	return indexed, firstErr
}

// RemoveDocument deletes all chunks of a document from the user's index.
func (a *Agent) RemoveDocument(ctx context.Context, userID, documentID string) (int, error) {
	return a.indexer.RemoveDocument(ctx, userID, documentID)
}

// ListDocuments returns the user's indexed document IDs.
func (a *Agent) ListDocuments(ctx context.Context, userID string) ([]string, error) {
	return a.indexer.ListDocuments(ctx, userID)
}

// Search ranks the user's chunks against the query.
func (a *Agent) Search(ctx context.Context, userID, query string, opts domain.SearchOptions) ([]domain.RetrievalResult, error) {
	return a.retriever.Search(ctx, userID, query, opts)
}

// AnswerQuestion retrieves relevant chunks, synthesises an answer and
// records the exchange. The answer is always non-empty and the call only
// fails on invalid arguments or a broken index store, never on provider
// trouble.
func (a *Agent) AnswerQuestion(ctx context.Context, userID, query string) (domain.Answer, error) {
	results, err := a.retriever.Search(ctx, userID, query, domain.SearchOptions{})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("answer question: %w", err)
	}

	answer := a.synthesizer.Synthesize(ctx, query, results)
	a.conversation.Append(userID, query, answer)
	return answer, nil
}

// Summarize produces an extractive summary of arbitrary text.
func (a *Agent) Summarize(text string, sentences int) string {
	return Summarize(text, sentences)
}

// ConversationHistory returns the user's bounded Q&A history, oldest first.
func (a *Agent) ConversationHistory(userID string) []domain.AnswerRecord {
	return a.conversation.History(userID)
}

// ClearConversationHistory drops the user's history.
func (a *Agent) ClearConversationHistory(userID string) {
	a.conversation.Clear(userID)
}

// Stats reports the user's index and history sizes.
func (a *Agent) Stats(ctx context.Context, userID string) (domain.UserStats, error) {
	entries, err := a.store.Entries(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("stats: %w", err)
	}
	docs, err := a.store.Documents(ctx, userID)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("stats: %w", err)
	}

	return domain.UserStats{
		ChunksIndexed:    len(entries),
		DocumentsIndexed: len(docs),
		HistoryLength:    a.conversation.Len(userID),
	}, nil
}
