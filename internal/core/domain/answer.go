package domain

import "time"

// Answer is the synthesised response to a question.
type Answer struct {
	// Answer is the user-readable response text. Never empty: when nothing
	// relevant was found the engine returns a fixed "not found" message.
	Answer string

	// SourceDocumentIDs lists the deduplicated documents that contributed.
	SourceDocumentIDs []string

	// Confidence is round(average similarity * 100), in [0,100].
	Confidence int

	// RelevantChunks is how many retrieval results contributed.
	RelevantChunks int
}

// AnswerRecord is one entry in a user's conversation history.
type AnswerRecord struct {
	Question          string
	Answer            string
	SourceDocumentIDs []string
	Confidence        int
	Timestamp         time.Time
}

// ConversationCapacity is the maximum history length per user.
// Oldest records are evicted first.
const ConversationCapacity = 50
