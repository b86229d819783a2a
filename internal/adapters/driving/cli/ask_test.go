package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAskCmd_PrintsAnswerWithFooters(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	agent.answer = domain.Answer{
		Answer:            "The budget is fifty thousand dollars.",
		SourceDocumentIDs: []string{"budget.txt", "notes.txt"},
		Confidence:        85,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "what is the budget"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "The budget is fifty thousand dollars.")
	assert.Contains(t, buf.String(), "Sources: budget.txt, notes.txt")
	assert.Contains(t, buf.String(), "Confidence: 85%")
	assert.Equal(t, "what is the budget", agent.lastQuery)
}

func TestAskCmd_HidesLowConfidenceFooter(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	agent.answer = domain.Answer{
		Answer:     "Possibly relevant text.",
		Confidence: 40,
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "vague question"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.NotContains(t, buf.String(), "Confidence:")
	assert.NotContains(t, buf.String(), "Sources:")
}

func TestAskCmd_RespectsUserFlag(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "--user", "alice", "question"})
	defer func() {
		rootCmd.SetArgs(nil)
		flagUser = "default"
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Equal(t, "alice", agent.lastUserID)
}

func TestAskCmd_ServiceError(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	agent.answerErr = errors.New("index unavailable")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "question"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "answer question")
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	oldService := agentService
	agentService = nil
	defer func() {
		agentService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "question"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "agent service not configured")
}
