package memory

import (
	"context"
	"sync"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
)

// Ensure FeedbackLog implements the interface.
var _ driven.FeedbackLog = (*FeedbackLog)(nil)

// FeedbackLog is an in-memory feedback log. It satisfies the durable-log
// port for tests and for running without a data directory; nothing survives
// a restart.
type FeedbackLog struct {
	mu        sync.RWMutex
	events    []domain.FeedbackEvent
	processed map[string]bool
	insights  []domain.LearningInsight
}

// NewFeedbackLog creates an empty feedback log.
func NewFeedbackLog() *FeedbackLog {
	return &FeedbackLog{
		processed: make(map[string]bool),
	}
}

// AppendEvent records a feedback event.
func (l *FeedbackLog) AppendEvent(_ context.Context, event domain.FeedbackEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

// AppendInsight records an insight, evicting the oldest past capacity.
func (l *FeedbackLog) AppendInsight(_ context.Context, insight domain.LearningInsight) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.insights = append(l.insights, insight)
	if len(l.insights) > domain.InsightCapacity {
		l.insights = l.insights[len(l.insights)-domain.InsightCapacity:]
	}
	return nil
}

// RecentInsights returns up to limit insights, newest first.
func (l *FeedbackLog) RecentInsights(_ context.Context, limit int) ([]domain.LearningInsight, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := len(l.insights)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]domain.LearningInsight, 0, n)
	for i := len(l.insights) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.insights[i])
	}
	return out, nil
}

// PendingEvents returns unprocessed events, oldest first.
func (l *FeedbackLog) PendingEvents(_ context.Context) ([]domain.FeedbackEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var pending []domain.FeedbackEvent
	for _, event := range l.events {
		if !l.processed[event.ID] {
			pending = append(pending, event)
		}
	}
	return pending, nil
}

// MarkProcessed flags events as folded into an insight.
func (l *FeedbackLog) MarkProcessed(_ context.Context, eventIDs []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range eventIDs {
		l.processed[id] = true
	}
	return nil
}

// Close releases resources.
func (l *FeedbackLog) Close() error {
	return nil
}
