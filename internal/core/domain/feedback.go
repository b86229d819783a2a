package domain

import "time"

// Judgment is a user's relevance verdict on a retrieved document.
type Judgment string

const (
	// JudgmentRelevant marks a result the user found useful.
	JudgmentRelevant Judgment = "relevant"

	// JudgmentNotRelevant marks a result the user found useless.
	JudgmentNotRelevant Judgment = "notRelevant"
)

// Valid reports whether the judgment is one of the known values.
func (j Judgment) Valid() bool {
	return j == JudgmentRelevant || j == JudgmentNotRelevant
}

// FeedbackEvent records one relevance judgment. Immutable once recorded.
type FeedbackEvent struct {
	ID          string
	Query       string
	DocumentID  string
	ContentType string
	Judgment    Judgment
	Timestamp   time.Time
}

// RelevanceCount tallies judgments for one aggregation key.
type RelevanceCount struct {
	Relevant   int
	Irrelevant int
}

// Ratio returns relevant / (relevant + irrelevant), or 0 when empty.
func (c RelevanceCount) Ratio() float64 {
	total := c.Relevant + c.Irrelevant
	if total == 0 {
		return 0
	}
	return float64(c.Relevant) / float64(total)
}

// FeedbackPatterns is the aggregation of one feedback batch.
type FeedbackPatterns struct {
	// RelevantDocs and IrrelevantDocs partition judged documents.
	RelevantDocs   []JudgedDocument
	IrrelevantDocs []JudgedDocument

	// ByQuery tallies judgments per query string.
	ByQuery map[string]RelevanceCount

	// ByContentType tallies judgments per content type.
	ByContentType map[string]RelevanceCount
}

// JudgedDocument pairs a judged document with the query that surfaced it.
type JudgedDocument struct {
	DocumentID  string
	ContentType string
	Query       string
}

// TotalJudged returns the number of partitioned documents.
func (p FeedbackPatterns) TotalJudged() int {
	return len(p.RelevantDocs) + len(p.IrrelevantDocs)
}

// Bias thresholds for deriving content-type preferences from feedback.
const (
	// PreferredRatioThreshold marks a content type preferred above it.
	PreferredRatioThreshold = 0.7

	// AvoidedRatioThreshold marks a content type avoided below it.
	AvoidedRatioThreshold = 0.3
)

// LearningInsight is a derived, append-only record of one processed feedback
// batch. It is consumed read-only by retrieval to bias ranking.
type LearningInsight struct {
	ID        string
	Timestamp time.Time

	// PreferredContentTypes had a relevance ratio above 0.7 in the batch.
	PreferredContentTypes []string

	// AvoidedContentTypes had a relevance ratio below 0.3 in the batch.
	AvoidedContentTypes []string

	// Recommendation is optional free-text advice from a generative
	// provider. Best-effort only; empty when no provider responded.
	Recommendation string

	// TotalFeedback is how many judgments the batch contained.
	TotalFeedback int
}

// InsightCapacity is the maximum number of retained insights.
// Oldest insights are evicted first.
const InsightCapacity = 50

// SearchBias is the advisory re-ranking signal derived from recent insights.
// The zero value means no bias.
type SearchBias struct {
	PreferredContentTypes map[string]bool
	AvoidedContentTypes   map[string]bool
}

// Empty reports whether the bias carries no signal.
func (b SearchBias) Empty() bool {
	return len(b.PreferredContentTypes) == 0 && len(b.AvoidedContentTypes) == 0
}

// Prefers reports whether the content type is marked preferred.
func (b SearchBias) Prefers(contentType string) bool {
	return b.PreferredContentTypes[contentType]
}

// Avoids reports whether the content type is marked avoided.
func (b SearchBias) Avoids(contentType string) bool {
	return b.AvoidedContentTypes[contentType]
}
