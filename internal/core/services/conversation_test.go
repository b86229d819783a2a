package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
)

func TestConversationLog_AppendAndHistory(t *testing.T) {
	log := NewConversationLog()

	log.Append("u1", "what is the budget", domain.Answer{
		Answer:            "Fifty thousand dollars.",
		SourceDocumentIDs: []string{"budget.txt"},
		Confidence:        85,
	})

	history := log.History("u1")
	require.Len(t, history, 1)
	assert.Equal(t, "what is the budget", history[0].Question)
	assert.Equal(t, "Fifty thousand dollars.", history[0].Answer)
	assert.Equal(t, []string{"budget.txt"}, history[0].SourceDocumentIDs)
	assert.Equal(t, 85, history[0].Confidence)
	assert.False(t, history[0].Timestamp.IsZero())
}

func TestConversationLog_EvictsOldestAtCapacity(t *testing.T) {
	log := NewConversationLog()

	for i := 0; i < domain.ConversationCapacity+10; i++ {
		log.Append("u1", fmt.Sprintf("question %d", i), domain.Answer{Answer: "a"})
	}

	history := log.History("u1")
	require.Len(t, history, domain.ConversationCapacity)
	assert.Equal(t, "question 10", history[0].Question)
	assert.Equal(t, fmt.Sprintf("question %d", domain.ConversationCapacity+9),
		history[len(history)-1].Question)
}

func TestConversationLog_UsersAreIsolated(t *testing.T) {
	log := NewConversationLog()

	log.Append("u1", "q1", domain.Answer{Answer: "a1"})
	log.Append("u2", "q2", domain.Answer{Answer: "a2"})

	assert.Equal(t, 1, log.Len("u1"))
	assert.Equal(t, 1, log.Len("u2"))
	assert.Equal(t, "q1", log.History("u1")[0].Question)
	assert.Equal(t, "q2", log.History("u2")[0].Question)
}

func TestConversationLog_Clear(t *testing.T) {
	log := NewConversationLog()

	log.Append("u1", "q", domain.Answer{Answer: "a"})
	log.Clear("u1")

	assert.Equal(t, 0, log.Len("u1"))
	assert.Empty(t, log.History("u1"))
}

func TestConversationLog_HistoryIsACopy(t *testing.T) {
	log := NewConversationLog()
	log.Append("u1", "q", domain.Answer{Answer: "original"})

	history := log.History("u1")
	history[0].Answer = "mutated"

	assert.Equal(t, "original", log.History("u1")[0].Answer)
}
