package services

import (
	"context"
	"sync"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
)

// --- Mock implementations shared across the service tests ---

// mockEmbedder implements driven.EmbeddingService with canned vectors.
type mockEmbedder struct {
	vectors     map[string][]float32
	fallback    []float32
	embedErr    error
	unavailable bool
	dims        int
}

func (m *mockEmbedder) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{1, 0, 0}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = m.vector(text)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbedder) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbedder) Available(_ context.Context) bool {
	return !m.unavailable
}

func (m *mockEmbedder) Close() error {
	return nil
}

// mockGenerator implements driven.Generator with a fixed outcome.
type mockGenerator struct {
	name        string
	response    string
	err         error
	unavailable bool

	mu    sync.Mutex
	calls int
}

func (m *mockGenerator) Generate(_ context.Context, _, _ string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockGenerator) Name() string {
	return m.name
}

func (m *mockGenerator) Available() bool {
	return !m.unavailable
}

func (m *mockGenerator) Close() error {
	return nil
}

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockFeedbackLog implements driven.FeedbackLog with error injection.
type mockFeedbackLog struct {
	mu        sync.Mutex
	events    []domain.FeedbackEvent
	insights  []domain.LearningInsight
	processed map[string]bool

	appendEventErr   error
	appendInsightErr error
	insightsErr      error
}

func newMockFeedbackLog() *mockFeedbackLog {
	return &mockFeedbackLog{processed: make(map[string]bool)}
}

func (l *mockFeedbackLog) AppendEvent(_ context.Context, event domain.FeedbackEvent) error {
	if l.appendEventErr != nil {
		return l.appendEventErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
	return nil
}

func (l *mockFeedbackLog) AppendInsight(_ context.Context, insight domain.LearningInsight) error {
	if l.appendInsightErr != nil {
		return l.appendInsightErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.insights = append(l.insights, insight)
	return nil
}

func (l *mockFeedbackLog) RecentInsights(_ context.Context, limit int) ([]domain.LearningInsight, error) {
	if l.insightsErr != nil {
		return nil, l.insightsErr
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.LearningInsight, 0, len(l.insights))
	for i := len(l.insights) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, l.insights[i])
	}
	return out, nil
}

func (l *mockFeedbackLog) PendingEvents(_ context.Context) ([]domain.FeedbackEvent, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var pending []domain.FeedbackEvent
	for _, event := range l.events {
		if !l.processed[event.ID] {
			pending = append(pending, event)
		}
	}
	return pending, nil
}

func (l *mockFeedbackLog) MarkProcessed(_ context.Context, eventIDs []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range eventIDs {
		l.processed[id] = true
	}
	return nil
}

func (l *mockFeedbackLog) Close() error {
	return nil
}

func (l *mockFeedbackLog) insightCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.insights)
}

// stubFeedback implements driving.FeedbackService with a fixed bias.
type stubFeedback struct {
	bias domain.SearchBias
}

func (s *stubFeedback) Record(_ context.Context, event domain.FeedbackEvent) (string, error) {
	return event.ID, nil
}

func (s *stubFeedback) CurrentBias(_ context.Context) domain.SearchBias {
	return s.bias
}

func (s *stubFeedback) Start(_ context.Context) {}
