package driven

import (
	"context"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

// FeedbackLog is the durable, append-only store for feedback events and
// learning insights. It is readable across process restarts; the learning
// loop's in-memory queue is a write-through cache in front of it.
type FeedbackLog interface {
	// AppendEvent durably records a feedback event.
	AppendEvent(ctx context.Context, event domain.FeedbackEvent) error

	// AppendInsight durably records a learning insight. Implementations
	// retain at most domain.InsightCapacity insights, evicting oldest.
	AppendInsight(ctx context.Context, insight domain.LearningInsight) error

	// RecentInsights returns up to limit insights, newest first.
	RecentInsights(ctx context.Context, limit int) ([]domain.LearningInsight, error)

	// PendingEvents returns events not yet folded into an insight,
	// oldest first. Used to rebuild the queue after a restart.
	PendingEvents(ctx context.Context) ([]domain.FeedbackEvent, error)

	// MarkProcessed flags events as folded into an insight.
	MarkProcessed(ctx context.Context, eventIDs []string) error

	// Close releases resources.
	Close() error
}
