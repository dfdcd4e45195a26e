// Package chat answers follow-up questions about a document. Each call is a
// single model invocation built from the document, the prior turns, and the
// new question.
package chat

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/legal-lens/api/internal/llm"
	"github.com/legal-lens/api/internal/models"
	"github.com/legal-lens/api/internal/utils"
)

const (
	// maxDocumentChars is smaller than the analysis cap: the system prompt
	// shares budget with conversation history.
	maxDocumentChars = 12000

	// maxHistoryTurns bounds prompt growth for long conversations. Older
	// turns are dropped, newest kept.
	maxHistoryTurns = 20

	// Higher temperature than analysis for more natural phrasing.
	temperature = 0.5
)

const systemPromptFormat = "You are a friendly legal assistant. Answer questions about this document in plain English.\n\nDOCUMENT:\n%s"

type Service struct {
	llm    llm.Client
	logger *utils.Logger
}

func New(client llm.Client, logger *utils.Logger) *Service {
	return &Service{
		llm:    client,
		logger: logger,
	}
}

// Answer runs one chat turn and returns the assistant's reply.
func (s *Service) Answer(ctx context.Context, question, documentText string, history []models.ChatMessage) (string, error) {
	messages := buildMessages(question, documentText, history)

	answer, err := s.llm.ChatCompletion(ctx, messages, temperature)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return "", utils.NewServiceUnavailableError("GROQ_API_KEY is not configured on the server.")
		}
		s.logger.Error("Chat model call failed", "error", err)
		return "", utils.NewInternalError(fmt.Sprintf("Chat failed: %v", err))
	}

	return answer, nil
}

// buildMessages assembles the model input: system message embedding the
// (truncated) document, prior history verbatim in original order, then the
// new question last. Order is never altered or deduplicated.
func buildMessages(question, documentText string, history []models.ChatMessage) []llm.Message {
	documentText = truncate(documentText, maxDocumentChars)

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{
		Role:    string(models.RoleSystem),
		Content: fmt.Sprintf(systemPromptFormat, documentText),
	})

	for _, m := range history {
		messages = append(messages, llm.Message{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	messages = append(messages, llm.Message{
		Role:    string(models.RoleUser),
		Content: question,
	})

	return messages
}

// truncate cuts s to at most max bytes, backing off to a rune boundary so
// the system prompt never embeds a split rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
