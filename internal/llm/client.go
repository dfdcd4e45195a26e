package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/legal-lens/api/internal/utils"
)

// ErrMissingAPIKey is returned before any network call when no provider
// credential is configured.
var ErrMissingAPIKey = errors.New("GROQ_API_KEY is not configured on the server")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is a single-shot chat-completions call: a message sequence in, the
// assistant's text out. No streaming, no retries.
type Client interface {
	ChatCompletion(ctx context.Context, messages []Message, temperature float64) (string, error)
}

type groqClient struct {
	apiKey  string
	model   string
	baseURL string
	logger  *utils.Logger
	client  *http.Client
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type choice struct {
	Message Message `json:"message"`
}

func NewGroqClient(apiKey, model, baseURL string, logger *utils.Logger) Client {
	return &groqClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		logger:  logger,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *groqClient) ChatCompletion(ctx context.Context, messages []Message, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Groq API error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("Groq API returned status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if completion.Error != nil {
		return "", fmt.Errorf("Groq API error: %s", completion.Error.Message)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return completion.Choices[0].Message.Content, nil
}
