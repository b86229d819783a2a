package services

import (
	"sync"
	"time"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

// ConversationLog keeps a bounded per-user history of question/answer
// exchanges. Capacity is domain.ConversationCapacity with FIFO eviction.
type ConversationLog struct {
	mu        sync.RWMutex
	histories map[string][]domain.AnswerRecord
	capacity  int
}

// NewConversationLog creates an empty conversation log.
func NewConversationLog() *ConversationLog {
	return &ConversationLog{
		histories: make(map[string][]domain.AnswerRecord),
		capacity:  domain.ConversationCapacity,
	}
}

// Append records one exchange for the user, evicting the oldest entry when
// the capacity is reached.
func (l *ConversationLog) Append(userID, question string, answer domain.Answer) {
	record := domain.AnswerRecord{
		Question:          question,
		Answer:            answer.Answer,
		SourceDocumentIDs: answer.SourceDocumentIDs,
		Confidence:        answer.Confidence,
		Timestamp:         time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	history := append(l.histories[userID], record)
	if len(history) > l.capacity {
		history = history[len(history)-l.capacity:]
	}
	l.histories[userID] = history
}

// History returns a copy of the user's records, oldest first. An unknown
// user yields an empty slice.
func (l *ConversationLog) History(userID string) []domain.AnswerRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	history := l.histories[userID]
	out := make([]domain.AnswerRecord, len(history))
	copy(out, history)
	return out
}

// Len returns the number of records held for the user.
func (l *ConversationLog) Len(userID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.histories[userID])
}

// Clear drops the user's history.
func (l *ConversationLog) Clear(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.histories, userID)
}
