package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_EmptyText(t *testing.T) {
	assert.Equal(t, "", Summarize("", 3))
}

func TestSummarize_ShortTextReturnedVerbatim(t *testing.T) {
	text := "Just two sentences live here in this text. They both fit inside the budget."
	assert.Equal(t, text, Summarize(text, 3))
}

func TestSummarize_SelectsRequestedSentenceCount(t *testing.T) {
	text := "The quarterly revenue exceeded all projections this year. " +
		"Marketing spend was reduced across every single channel. " +
		"The engineering team shipped the new platform on schedule. " +
		"Customer satisfaction scores improved for the third quarter running. " +
		"The board approved additional budget for the following year."

	summary := Summarize(text, 2)
	assert.NotEmpty(t, summary)

	// Two sentences joined with ". " and a trailing period.
	parts := strings.Split(strings.TrimSuffix(summary, "."), ". ")
	assert.Len(t, parts, 2)
}

func TestSummarize_PreservesOriginalOrder(t *testing.T) {
	text := "Alpha systems handle ingestion of incoming data records. " +
		"Beta systems handle transformation of incoming data records. " +
		"Gamma systems handle storage of incoming data records. " +
		"Delta systems handle reporting of incoming data records. " +
		"Epsilon systems handle archival of incoming data records."

	summary := Summarize(text, 3)

	// Whatever was selected must appear in source order.
	var positions []int
	for _, sentence := range strings.Split(strings.TrimSuffix(summary, "."), ". ") {
		positions = append(positions, strings.Index(text, sentence))
	}
	for i := 1; i < len(positions); i++ {
		assert.Greater(t, positions[i], positions[i-1])
	}
}

func TestSummarize_DiscardsShortFragments(t *testing.T) {
	text := "Ok. Yes. No. Fine. Sure. Go. " +
		"This sentence is long enough to survive the fragment filter easily. " +
		"Another sentence that comfortably clears the length threshold too. " +
		"A third full sentence rounds out the remaining summary material here. " +
		"And a fourth one guarantees there are more sentences than requested."

	summary := Summarize(text, 2)
	assert.NotContains(t, summary, "Ok")
	assert.NotContains(t, summary, "Sure")
}

func TestSummarize_NonPositiveCountDefaults(t *testing.T) {
	text := strings.Repeat("A sentence with plenty of recurring shared words here. ", 6)
	summary := Summarize(text, 0)
	assert.NotEmpty(t, summary)
}
