package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/services"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
}

func TestSearchCmd_DefaultsMatchRetriever(t *testing.T) {
	assert.Equal(t, services.DefaultTopK, searchLimit)
	assert.InDelta(t, services.DefaultMinSimilarity, searchMinSim, 0.0001)
}

func TestSearchCmd_PrintsRankedResults(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	agent.results = []domain.RetrievalResult{
		{
			ChunkText:  "The marketing budget is fifty thousand dollars.",
			Similarity: 0.92,
			Meta:       domain.ChunkMeta{DocumentID: "budget.txt"},
		},
		{
			ChunkText:  "Spending is reviewed quarterly.",
			Similarity: 0.55,
			Meta:       domain.ChunkMeta{DocumentID: "process.md"},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "budget"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "[1] budget.txt (0.92)")
	assert.Contains(t, buf.String(), "[2] process.md (0.55)")
	assert.Contains(t, buf.String(), "The marketing budget")
	assert.Equal(t, "budget", agent.lastQuery)
}

func TestSearchCmd_TruncatesLongPreviews(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	agent.results = []domain.RetrievalResult{
		{
			ChunkText:  strings.Repeat("x", 300),
			Similarity: 0.8,
			Meta:       domain.ChunkMeta{DocumentID: "long.txt"},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), strings.Repeat("x", 120)+"...")
	assert.NotContains(t, buf.String(), strings.Repeat("x", 121))
}

func TestSearchCmd_NoResults(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "nothing matches"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found.")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	agent.searchErr = errors.New("boom")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "query"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}
