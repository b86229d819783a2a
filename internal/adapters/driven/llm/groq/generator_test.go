package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchit-ai/fetchit/internal/core/domain"
	"github.com/fetchit-ai/fetchit/internal/core/ports/driven"
)

func TestGenerate_Success(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "The budget is 50k."}, "finish_reason": "stop"}]}`))
	}))
	defer server.Close()

	g := NewGenerator(Config{APIKey: "gsk-test", BaseURL: server.URL})

	text, err := g.Generate(context.Background(), "You answer from context.", "What is the budget?",
		driven.GenerateOptions{MaxTokens: 500, Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "The budget is 50k.", text)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 0.0001)
}

func TestGenerate_OmitsEmptySystemPrompt(t *testing.T) {
	var got chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer server.Close()

	g := NewGenerator(Config{APIKey: "gsk-test", BaseURL: server.URL})

	_, err := g.Generate(context.Background(), "", "question", driven.GenerateOptions{})
	require.NoError(t, err)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestGenerate_APIErrorWrapsProviderFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "rate_limit"}}`))
	}))
	defer server.Close()

	g := NewGenerator(Config{APIKey: "gsk-test", BaseURL: server.URL})

	_, err := g.Generate(context.Background(), "", "question", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderFailed)
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestGenerate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	g := NewGenerator(Config{APIKey: "gsk-test", BaseURL: server.URL})

	_, err := g.Generate(context.Background(), "", "question", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrProviderFailed)
}

func TestAvailable(t *testing.T) {
	assert.True(t, NewGenerator(Config{APIKey: "gsk-test"}).Available())
	assert.False(t, NewGenerator(Config{}).Available())
}

func TestName(t *testing.T) {
	assert.Equal(t, "groq", NewGenerator(Config{}).Name())
}
