// Package client is a Go client for the legal-lens API, used by the terminal
// front end.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/legal-lens/api/internal/extractor"
	"github.com/legal-lens/api/internal/models"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// ExtractTextFromFile produces the document text for a local file. Plain-text
// files are decoded directly; PDFs are bounced through the server's extract
// endpoint. Anything else is rejected.
func (c *Client) ExtractTextFromFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return extractor.ExtractTXT(data)
	case ".pdf":
		return c.Extract(ctx, filepath.Base(path), extractor.MIMETypePDF, data)
	default:
		return "", fmt.Errorf("%w: please upload a PDF or TXT file", extractor.ErrUnsupportedType)
	}
}

// Extract uploads a file to POST /api/extract and returns the extracted text.
func (c *Client) Extract(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", mimeType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/extract", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp models.ExtractResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}

	return resp.Text, nil
}

// Analyze posts document text to POST /api/analyze.
func (c *Client) Analyze(ctx context.Context, text string) (*models.Analysis, error) {
	req, err := c.newJSONRequest(ctx, "/api/analyze", models.AnalyzeRequest{Text: text})
	if err != nil {
		return nil, err
	}

	var analysis models.Analysis
	if err := c.do(req, &analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}

// Chat posts one question to POST /api/chat. History is the transcript as it
// stood before the question was asked.
func (c *Client) Chat(ctx context.Context, question, documentText string, history []models.ChatMessage) (string, error) {
	req, err := c.newJSONRequest(ctx, "/api/chat", models.ChatRequest{
		Question:     question,
		DocumentText: documentText,
		History:      history,
	})
	if err != nil {
		return "", err
	}

	var resp models.ChatResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}

	return resp.Answer, nil
}

func (c *Client) newJSONRequest(ctx context.Context, path string, body any) (*http.Request, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%s", errResp.Error)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
