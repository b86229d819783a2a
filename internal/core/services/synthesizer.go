package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/logger"
)

// NoInformationAnswer is returned when retrieval finds nothing relevant.
// Not an error condition.
const NoInformationAnswer = "I couldn't find relevant information in your indexed documents to answer that question."

// systemPrompt is the fixed instruction sent with every generative request.
const systemPrompt = `You are FetchIt, an AI assistant that helps users find and analyze information from their documents.

Your role:
- Analyze user queries and provide accurate, helpful responses based on document contents
- Extract specific data points when requested (numbers, dates, names, etc.)
- Summarize information across multiple documents
- Provide clear, well-formatted responses with proper citations

Guidelines:
- Always base your responses on the provided document contents
- If information is not available in the documents, clearly state this
- Use markdown formatting for better readability
- Be concise but comprehensive
- When extracting specific data, highlight it clearly with **bold** formatting
- If documents contain contradictory information, mention this`

// Prompt and acceptance sizing.
const (
	// contextCharLimit truncates each retrieved chunk in the user prompt.
	contextCharLimit = 2000

	// minAcceptableChars is the floor below which a generative response
	// is rejected outright.
	minAcceptableChars = 10

	// qualityChars is the preferred threshold; shorter responses lose to
	// a non-empty extractive summary.
	qualityChars = 50

	// extractiveSentences is how many sentences the fallback summary keeps.
	extractiveSentences = 2
)

// Synthesizer turns retrieved chunks into a final answer, preferring the
// generative provider chain and falling back to extractive summarisation.
type Synthesizer struct {
	chain *GeneratorChain
}

// NewSynthesizer creates a synthesizer. The chain is optional (can be nil);
// without it every answer is extractive.
func NewSynthesizer(chain *GeneratorChain) *Synthesizer {
	return &Synthesizer{chain: chain}
}

// Synthesize combines retrieval results into an answer with confidence and
// source attribution. Zero results produce the fixed "not found" answer.
// The returned answer is always non-empty; provider failures degrade to the
// extractive path and are never surfaced.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []domain.RetrievalResult) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{
			Answer:            NoInformationAnswer,
			SourceDocumentIDs: []string{},
			Confidence:        0,
		}
	}

	answer := s.generativeAnswer(ctx, query, results)
	if answer == "" {
		answer = s.extractiveAnswer(results)
	}

	return domain.Answer{
		Answer:            answer,
		SourceDocumentIDs: sourceDocuments(results),
		Confidence:        confidence(results),
		RelevantChunks:    len(results),
	}
}

// generativeAnswer submits the retrieved context to the provider chain.
// Returns "" when no provider yields an acceptable response, or when a
// response is too short to beat the extractive fallback.
func (s *Synthesizer) generativeAnswer(ctx context.Context, query string, results []domain.RetrievalResult) string {
	if s.chain == nil || !s.chain.Available() {
		logger.Debug("No generative provider available, using extractive synthesis")
		return ""
	}

	response, err := s.chain.Generate(ctx, systemPrompt, buildUserPrompt(query, results))
	if err != nil {
		logger.Warn("Generative synthesis failed, using extractive fallback: %v", err)
		return ""
	}

	if len(response) <= minAcceptableChars {
		logger.Warn("Generative response too short (%d chars), using extractive fallback", len(response))
		return ""
	}

	if len(response) <= qualityChars {
		// Short but acceptable. Prefer the extractive summary when it
		// produces anything; keep the response otherwise.
		if extracted := s.extractiveAnswer(results); extracted != "" {
			logger.Debug("Preferring extractive summary over short generative response")
			return extracted
		}
	}

	return response
}

// extractiveAnswer summarises the combined retrieved text.
func (s *Synthesizer) extractiveAnswer(results []domain.RetrievalResult) string {
	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.ChunkText
	}
	return Summarize(strings.Join(texts, "\n\n"), extractiveSentences)
}

// buildUserPrompt labels each retrieved chunk by source document, truncated
// to the context limit, and closes with the literal query.
func buildUserPrompt(query string, results []domain.RetrievalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Query: %q\n\n", query)
	b.WriteString("Available document contents:\n\n")

	for _, res := range results {
		content := res.ChunkText
		truncated := ""
		if len(content) > contextCharLimit {
			content = content[:contextCharLimit]
			truncated = "..."
		}
		fmt.Fprintf(&b, "**%s:**\n%s%s\n\n", res.Meta.DocumentID, content, truncated)
	}

	b.WriteString("Please provide a helpful response based on the query and available information.")
	return b.String()
}

// sourceDocuments deduplicates contributing document IDs, preserving rank
// order.
func sourceDocuments(results []domain.RetrievalResult) []string {
	seen := make(map[string]bool, len(results))
	sources := make([]string, 0, len(results))
	for _, res := range results {
		if seen[res.Meta.DocumentID] {
			continue
		}
		seen[res.Meta.DocumentID] = true
		sources = append(sources, res.Meta.DocumentID)
	}
	return sources
}

// confidence is round(average similarity * 100), 0 when nothing contributed.
func confidence(results []domain.RetrievalResult) int {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, res := range results {
		sum += res.Similarity
	}
	return int(math.Round(sum / float64(len(results)) * 100))
}
