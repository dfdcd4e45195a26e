package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legal-lens/api/internal/llm"
	"github.com/legal-lens/api/internal/models"
	"github.com/legal-lens/api/internal/utils"
)

type fakeLLM struct {
	reply       string
	err         error
	gotMessages []llm.Message
	gotTemp     float64
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, messages []llm.Message, temperature float64) (string, error) {
	f.gotMessages = messages
	f.gotTemp = temperature
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testLogger() *utils.Logger {
	return utils.NewLoggerWithWriter("error", io.Discard)
}

func TestAnswerMessageOrder(t *testing.T) {
	fake := &fakeLLM{reply: "twelve months"}
	s := New(fake, testLogger())

	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "a"},
		{Role: models.RoleAssistant, Content: "b"},
	}

	answer, err := s.Answer(context.Background(), "c", "the document text", history)
	require.NoError(t, err)
	assert.Equal(t, "twelve months", answer)
	assert.Equal(t, 0.5, fake.gotTemp)

	require.Len(t, fake.gotMessages, 4)
	assert.Equal(t, "system", fake.gotMessages[0].Role)
	assert.Contains(t, fake.gotMessages[0].Content, "the document text")
	assert.Equal(t, llm.Message{Role: "user", Content: "a"}, fake.gotMessages[1])
	assert.Equal(t, llm.Message{Role: "assistant", Content: "b"}, fake.gotMessages[2])
	assert.Equal(t, llm.Message{Role: "user", Content: "c"}, fake.gotMessages[3])
}

func TestAnswerTruncatesDocument(t *testing.T) {
	fake := &fakeLLM{reply: "ok"}
	s := New(fake, testLogger())

	doc := strings.Repeat("x", 30000)
	_, err := s.Answer(context.Background(), "q", doc, nil)
	require.NoError(t, err)

	assert.Less(t, len(fake.gotMessages[0].Content), 13000)
}

func TestAnswerTruncationKeepsRuneBoundary(t *testing.T) {
	fake := &fakeLLM{reply: "ok"}
	s := New(fake, testLogger())

	// byte 12000 lands inside a multi-byte rune
	doc := "a" + strings.Repeat("法", 10000)

	_, err := s.Answer(context.Background(), "q", doc, nil)
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(fake.gotMessages[0].Content))
}

func TestAnswerWindowsHistory(t *testing.T) {
	fake := &fakeLLM{reply: "ok"}
	s := New(fake, testLogger())

	var history []models.ChatMessage
	for i := 0; i < 30; i++ {
		history = append(history, models.ChatMessage{
			Role:    models.RoleUser,
			Content: fmt.Sprintf("turn %d", i),
		})
	}

	_, err := s.Answer(context.Background(), "q", "doc", history)
	require.NoError(t, err)

	// system + 20 newest turns + question
	require.Len(t, fake.gotMessages, 22)
	assert.Equal(t, "turn 10", fake.gotMessages[1].Content)
	assert.Equal(t, "turn 29", fake.gotMessages[20].Content)
	assert.Equal(t, "q", fake.gotMessages[21].Content)
}

func TestAnswerMissingAPIKey(t *testing.T) {
	s := New(&fakeLLM{err: llm.ErrMissingAPIKey}, testLogger())

	_, err := s.Answer(context.Background(), "q", "doc", nil)
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "GROQ_API_KEY")
}

func TestAnswerUpstreamError(t *testing.T) {
	s := New(&fakeLLM{err: errors.New("connection refused")}, testLogger())

	_, err := s.Answer(context.Background(), "q", "doc", nil)
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.StatusCode)
	assert.Contains(t, appErr.Message, "Chat failed")
}
