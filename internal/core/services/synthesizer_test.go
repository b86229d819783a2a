package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

func result(docID string, similarity float64, text string) domain.RetrievalResult {
	return domain.RetrievalResult{
		ChunkText:  text,
		Similarity: similarity,
		Meta:       domain.ChunkMeta{DocumentID: docID},
	}
}

const longChunk = "The marketing budget for the current year was set at fifty thousand dollars. " +
	"Most of the spend is allocated to digital channels and trade events. " +
	"The remainder covers sponsorships and printed collateral for the sales team."

func TestSynthesize_NoResults(t *testing.T) {
	s := NewSynthesizer(nil)

	answer := s.Synthesize(context.Background(), "anything", nil)
	assert.Equal(t, NoInformationAnswer, answer.Answer)
	assert.Empty(t, answer.SourceDocumentIDs)
	assert.Equal(t, 0, answer.Confidence)
	assert.Equal(t, 0, answer.RelevantChunks)
}

func TestSynthesize_GenerativeAnswer(t *testing.T) {
	gen := &mockGenerator{name: "gen", response: "The budget is fifty thousand dollars according to your documents."}
	s := NewSynthesizer(NewGeneratorChain(gen))

	results := []domain.RetrievalResult{
		result("budget.txt", 0.9, longChunk),
		result("notes.txt", 0.5, "Additional notes on spending priorities for the year."),
		result("budget.txt", 0.4, "A second chunk from the same budget document."),
	}

	answer := s.Synthesize(context.Background(), "what is the budget", results)
	assert.Equal(t, gen.response, answer.Answer)
	assert.Equal(t, []string{"budget.txt", "notes.txt"}, answer.SourceDocumentIDs)
	assert.Equal(t, 3, answer.RelevantChunks)

	// round((0.9+0.5+0.4)/3 * 100) = 60
	assert.Equal(t, 60, answer.Confidence)
}

func TestSynthesize_ExtractiveWithoutChain(t *testing.T) {
	s := NewSynthesizer(nil)

	answer := s.Synthesize(context.Background(), "budget", []domain.RetrievalResult{
		result("budget.txt", 0.8, longChunk),
	})
	assert.NotEmpty(t, answer.Answer)
	assert.NotEqual(t, NoInformationAnswer, answer.Answer)
	assert.Equal(t, []string{"budget.txt"}, answer.SourceDocumentIDs)
	assert.Equal(t, 80, answer.Confidence)
}

func TestSynthesize_ExtractiveWhenAllProvidersFail(t *testing.T) {
	gen := &mockGenerator{name: "gen", err: domain.ErrProviderFailed}
	s := NewSynthesizer(NewGeneratorChain(gen))

	answer := s.Synthesize(context.Background(), "budget", []domain.RetrievalResult{
		result("budget.txt", 0.7, longChunk),
	})
	assert.NotEmpty(t, answer.Answer)
	assert.NotEqual(t, NoInformationAnswer, answer.Answer)
}

func TestSynthesize_RejectsTooShortResponse(t *testing.T) {
	gen := &mockGenerator{name: "gen", response: "ok"}
	s := NewSynthesizer(NewGeneratorChain(gen))

	answer := s.Synthesize(context.Background(), "budget", []domain.RetrievalResult{
		result("budget.txt", 0.7, longChunk),
	})
	require.NotEmpty(t, answer.Answer)
	assert.NotEqual(t, "ok", answer.Answer)
}

func TestSynthesize_PrefersExtractiveOverShortResponse(t *testing.T) {
	// Longer than the rejection floor but under the quality bar.
	gen := &mockGenerator{name: "gen", response: "A short twenty char reply."}
	s := NewSynthesizer(NewGeneratorChain(gen))

	answer := s.Synthesize(context.Background(), "budget", []domain.RetrievalResult{
		result("budget.txt", 0.7, longChunk),
	})
	assert.NotEqual(t, gen.response, answer.Answer)
	assert.NotEmpty(t, answer.Answer)
}

func TestSynthesize_KeepsShortResponseWhenExtractionEmpty(t *testing.T) {
	gen := &mockGenerator{name: "gen", response: "Short but usable reply."}
	s := NewSynthesizer(NewGeneratorChain(gen))

	// Nothing for the extractive summariser to work with.
	answer := s.Synthesize(context.Background(), "budget", []domain.RetrievalResult{
		result("scrap.txt", 0.6, "   "),
	})
	assert.Equal(t, gen.response, answer.Answer)
}
