package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legal-lens/api/internal/utils"
)

func testLogger() *utils.Logger {
	return utils.NewLoggerWithWriter("error", io.Discard)
}

func TestChatCompletion(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "the answer"}},
			},
		})
	}))
	defer srv.Close()

	c := NewGroqClient("test-key", "llama-3.3-70b-versatile", srv.URL, testLogger())

	answer, err := c.ChatCompletion(context.Background(), []Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "question"},
	}, 0.5)
	require.NoError(t, err)

	assert.Equal(t, "the answer", answer)
	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	assert.Equal(t, 0.5, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "question", got.Messages[1].Content)
}

func TestChatCompletionMissingAPIKey(t *testing.T) {
	c := NewGroqClient("", "model", "http://unused", testLogger())

	_, err := c.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "q"}}, 0.3)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestChatCompletionProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := NewGroqClient("key", "model", srv.URL, testLogger())

	_, err := c.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "q"}}, 0.3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestChatCompletionEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewGroqClient("key", "model", srv.URL, testLogger())

	_, err := c.ChatCompletion(context.Background(), []Message{{Role: "user", Content: "q"}}, 0.3)
	assert.Error(t, err)
}
