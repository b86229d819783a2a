package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// Feedback batching defaults.
const (
	DefaultBatchSize       = 5
	DefaultProcessInterval = 30 * time.Second
)

// LearningService batches user relevance judgments, derives content-type
// bias from them and persists the result as learning insights for the
// retriever to consult.
type LearningService struct {
	log   driven.FeedbackLog
	chain *GeneratorChain

	batchSize int
	interval  time.Duration

	mu         sync.Mutex
	queue      []domain.FeedbackEvent
	processing bool
}

// LearningOption configures the learning service.
type LearningOption func(*LearningService)

// WithBatchSize sets how many events trigger immediate processing.
func WithBatchSize(n int) LearningOption {
	return func(s *LearningService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithProcessInterval sets the periodic processing interval.
func WithProcessInterval(d time.Duration) LearningOption {
	return func(s *LearningService) {
		if d > 0 {
			s.interval = d
		}
	}
}

// NewLearningService creates the feedback learning loop. The chain is
// optional (can be nil); without it insights carry no free-text
// recommendation.
func NewLearningService(log driven.FeedbackLog, chain *GeneratorChain, opts ...LearningOption) *LearningService {
	s := &LearningService{
		log:       log,
		chain:     chain,
		batchSize: DefaultBatchSize,
		interval:  DefaultProcessInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore reloads unprocessed events from the durable log into the queue.
// Called once at startup.
func (s *LearningService) Restore(ctx context.Context) error {
	events, err := s.log.PendingEvents(ctx)
	if err != nil {
		return fmt.Errorf("restore feedback queue: %w", err)
	}

	s.mu.Lock()
	s.queue = append(events, s.queue...)
	s.mu.Unlock()

	if len(events) > 0 {
		logger.Info("Restored %d pending feedback events", len(events))
	}
	return nil
}

// Record appends the event to the durable log and the in-memory queue.
// Once the queue reaches the batch size the batch is processed immediately.
// Returns the event ID.
func (s *LearningService) Record(ctx context.Context, event domain.FeedbackEvent) (string, error) {
	if !event.Judgment.Valid() {
		return "", fmt.Errorf("learning: unknown judgment %q: %w", event.Judgment, domain.ErrInvalidInput)
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Durable log first: the queue is a write-through cache.
	if err := s.log.AppendEvent(ctx, event); err != nil {
		return "", fmt.Errorf("append feedback event: %w", err)
	}

	s.mu.Lock()
	s.queue = append(s.queue, event)
	full := len(s.queue) >= s.batchSize
	s.mu.Unlock()

	logger.Debug("Feedback %s recorded (%s on %q)", event.ID, event.Judgment, event.DocumentID)

	if full {
		s.ProcessBatch(ctx)
	}
	return event.ID, nil
}

// Start runs the periodic batch processor until ctx is cancelled.
func (s *LearningService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch folds up to one batch of queued events into a learning
// insight. At most one batch is in flight at a time; a concurrent call is
// a no-op. On failure the batch is pushed back to the front of the queue
// for retry on the next tick - it is never dropped.
func (s *LearningService) ProcessBatch(ctx context.Context) {
	s.mu.Lock()
	if s.processing || len(s.queue) == 0 {
		s.mu.Unlock()
		return
	}
	s.processing = true

	n := s.batchSize
	if n > len(s.queue) {
		n = len(s.queue)
	}
	batch := make([]domain.FeedbackEvent, n)
	copy(batch, s.queue[:n])
	s.queue = s.queue[n:]
	s.mu.Unlock()

	logger.Section("Feedback Processing")
	logger.Debug("Processing batch of %d feedback events", len(batch))

	if err := s.processBatch(ctx, batch); err != nil {
		logger.Warn("Feedback batch failed, re-queueing: %v", err)
		s.mu.Lock()
		s.queue = append(batch, s.queue...)
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}

func (s *LearningService) processBatch(ctx context.Context, batch []domain.FeedbackEvent) error {
	patterns := analyzePatterns(batch)
	insight := deriveInsight(patterns)

	// The recommendation is best-effort: a failed or absent provider
	// never fails the batch.
	if s.chain != nil && s.chain.Available() {
		recommendation, err := s.chain.Generate(ctx, learningSystemPrompt, buildLearningPrompt(patterns))
		if err != nil {
			logger.Warn("Learning recommendation unavailable: %v", err)
		} else {
			insight.Recommendation = recommendation
		}
	}

	if err := s.log.AppendInsight(ctx, insight); err != nil {
		return fmt.Errorf("append insight: %w", err)
	}

	ids := make([]string, len(batch))
	for i, event := range batch {
		ids[i] = event.ID
	}
	if err := s.log.MarkProcessed(ctx, ids); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	logger.Info("Derived insight %s: %d preferred, %d avoided content types",
		insight.ID, len(insight.PreferredContentTypes), len(insight.AvoidedContentTypes))
	return nil
}

// CurrentBias merges the most recent insights into an advisory re-ranking
// signal. Any failure degrades to an empty bias, never an error.
func (s *LearningService) CurrentBias(ctx context.Context) domain.SearchBias {
	insights, err := s.log.RecentInsights(ctx, domain.InsightCapacity)
	if err != nil {
		logger.Warn("Could not load learning insights: %v", err)
		return domain.SearchBias{}
	}
	if len(insights) == 0 {
		return domain.SearchBias{}
	}

	bias := domain.SearchBias{
		PreferredContentTypes: make(map[string]bool),
		AvoidedContentTypes:   make(map[string]bool),
	}
	for _, insight := range insights {
		for _, ct := range insight.PreferredContentTypes {
			bias.PreferredContentTypes[ct] = true
		}
		for _, ct := range insight.AvoidedContentTypes {
			bias.AvoidedContentTypes[ct] = true
		}
	}

	// A type judged both ways keeps the preference: explicit positive
	// signal wins over the penalty.
	for ct := range bias.PreferredContentTypes {
		delete(bias.AvoidedContentTypes, ct)
	}
	return bias
}

// analyzePatterns partitions a batch by document, query and content type.
func analyzePatterns(batch []domain.FeedbackEvent) domain.FeedbackPatterns {
	patterns := domain.FeedbackPatterns{
		ByQuery:       make(map[string]domain.RelevanceCount),
		ByContentType: make(map[string]domain.RelevanceCount),
	}

	for _, event := range batch {
		doc := domain.JudgedDocument{
			DocumentID:  event.DocumentID,
			ContentType: event.ContentType,
			Query:       event.Query,
		}

		byQuery := patterns.ByQuery[event.Query]
		byType := patterns.ByContentType[event.ContentType]

		switch event.Judgment {
		case domain.JudgmentRelevant:
			patterns.RelevantDocs = append(patterns.RelevantDocs, doc)
			byQuery.Relevant++
			byType.Relevant++
		case domain.JudgmentNotRelevant:
			patterns.IrrelevantDocs = append(patterns.IrrelevantDocs, doc)
			byQuery.Irrelevant++
			byType.Irrelevant++
		}

		patterns.ByQuery[event.Query] = byQuery
		if event.ContentType != "" {
			patterns.ByContentType[event.ContentType] = byType
		}
	}

	return patterns
}

// deriveInsight converts batch patterns into a learning insight using the
// 0.7 / 0.3 relevance-ratio thresholds.
func deriveInsight(patterns domain.FeedbackPatterns) domain.LearningInsight {
	insight := domain.LearningInsight{
		ID:            uuid.New().String(),
		Timestamp:     time.Now(),
		TotalFeedback: patterns.TotalJudged(),
	}

	types := make([]string, 0, len(patterns.ByContentType))
	for ct := range patterns.ByContentType {
		types = append(types, ct)
	}
	sort.Strings(types)

	for _, ct := range types {
		ratio := patterns.ByContentType[ct].Ratio()
		switch {
		case ratio > domain.PreferredRatioThreshold:
			insight.PreferredContentTypes = append(insight.PreferredContentTypes, ct)
		case ratio < domain.AvoidedRatioThreshold:
			insight.AvoidedContentTypes = append(insight.AvoidedContentTypes, ct)
		}
	}

	return insight
}

// learningSystemPrompt frames the recommendation request.
const learningSystemPrompt = `You are FetchIt's learning system. Analyze user feedback on search results and provide specific recommendations to improve search accuracy for similar queries in the future.`

// buildLearningPrompt renders batch patterns for the recommendation request.
func buildLearningPrompt(patterns domain.FeedbackPatterns) string {
	var b strings.Builder

	fmt.Fprintf(&b, "FEEDBACK ANALYSIS:\n- Relevant documents marked by users: %d\n- Irrelevant documents marked by users: %d\n\n",
		len(patterns.RelevantDocs), len(patterns.IrrelevantDocs))

	b.WriteString("RELEVANT DOCUMENTS:\n")
	for _, doc := range patterns.RelevantDocs {
		fmt.Fprintf(&b, "- %q (%s) for query: %q\n", doc.DocumentID, doc.ContentType, doc.Query)
	}

	b.WriteString("\nIRRELEVANT DOCUMENTS:\n")
	for _, doc := range patterns.IrrelevantDocs {
		fmt.Fprintf(&b, "- %q (%s) for query: %q\n", doc.DocumentID, doc.ContentType, doc.Query)
	}

	b.WriteString("\nQUERY PATTERNS:\n")
	queries := make([]string, 0, len(patterns.ByQuery))
	for query := range patterns.ByQuery {
		queries = append(queries, query)
	}
	sort.Strings(queries)
	for _, query := range queries {
		count := patterns.ByQuery[query]
		fmt.Fprintf(&b, "- %q: %d relevant, %d irrelevant\n", query, count.Relevant, count.Irrelevant)
	}

	b.WriteString("\nProvide specific recommendations to improve search accuracy for similar queries in the future.")
	return b.String()
}
