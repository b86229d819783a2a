package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchit-ai/fetchit/internal/adapters/driven/auth"
)

type embeddingsHandler struct {
	t            *testing.T
	requests     []embeddingsRequest
	reverseOrder bool
}

func (h *embeddingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/models" {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
		return
	}

	require.Equal(h.t, "/embeddings", r.URL.Path)
	assert.Equal(h.t, "Bearer sk-test", r.Header.Get("Authorization"))

	var req embeddingsRequest
	require.NoError(h.t, json.NewDecoder(r.Body).Decode(&req))
	h.requests = append(h.requests, req)

	var resp embeddingsResponse
	for i := range req.Input {
		idx := i
		if h.reverseOrder {
			idx = len(req.Input) - 1 - i
		}
		vec := make([]float64, 3)
		vec[0] = float64(idx + 1)
		resp.Data = append(resp.Data, struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}{Index: idx, Embedding: vec})
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestService(t *testing.T, baseURL string) *EmbeddingService {
	t.Helper()
	s, err := NewEmbeddingService(Config{
		Tokens:     auth.NewStaticProvider("sk-test"),
		BaseURL:    baseURL,
		Dimensions: 3,
	})
	require.NoError(t, err)
	return s
}

func TestNewEmbeddingService_RequiresTokenProvider(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestEmbed_SingleText(t *testing.T) {
	handler := &embeddingsHandler{t: t}
	server := httptest.NewServer(handler)
	defer server.Close()

	s := newTestService(t, server.URL)

	vec, err := s.Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, vec, 3)
	assert.InDelta(t, 1.0, vec[0], 0.0001)

	require.Len(t, handler.requests, 1)
	assert.Equal(t, []string{"hello"}, handler.requests[0].Input)
	assert.Equal(t, DefaultModel, handler.requests[0].Model)
}

func TestEmbedBatch_SplitsIntoSubBatches(t *testing.T) {
	handler := &embeddingsHandler{t: t}
	server := httptest.NewServer(handler)
	defer server.Close()

	s := newTestService(t, server.URL)

	texts := make([]string, subBatchSize+2)
	for i := range texts {
		texts[i] = "text"
	}

	vecs, err := s.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vecs, subBatchSize+2)

	require.Len(t, handler.requests, 2)
	assert.Len(t, handler.requests[0].Input, subBatchSize)
	assert.Len(t, handler.requests[1].Input, 2)
}

func TestEmbedBatch_RestoresResponseOrder(t *testing.T) {
	handler := &embeddingsHandler{t: t, reverseOrder: true}
	server := httptest.NewServer(handler)
	defer server.Close()

	s := newTestService(t, server.URL)

	vecs, err := s.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)

	// Each input i gets a vector whose only non-zero component is i+1,
	// normalised to unit length, so every restored slot reads 1.0.
	for i, vec := range vecs {
		assert.InDelta(t, 1.0, vec[0], 0.0001, "input %d", i)
	}
}

func TestEmbed_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "auth"}}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL)

	_, err := s.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestEmbed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL)

	_, err := s.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 0 embeddings")
}

func TestEmbed_NoToken(t *testing.T) {
	s, err := NewEmbeddingService(Config{Tokens: auth.NewStaticProvider("")})
	require.NoError(t, err)

	_, err = s.Embed(context.Background(), "hello")
	assert.Error(t, err)
	assert.False(t, s.Available(context.Background()))
}

func TestAvailable(t *testing.T) {
	handler := &embeddingsHandler{t: t}
	server := httptest.NewServer(handler)
	defer server.Close()

	s := newTestService(t, server.URL)
	assert.True(t, s.Available(context.Background()))

	wrongKey, err := NewEmbeddingService(Config{
		Tokens:  auth.NewStaticProvider("sk-wrong"),
		BaseURL: server.URL,
	})
	require.NoError(t, err)
	assert.False(t, wrongKey.Available(context.Background()))
}
