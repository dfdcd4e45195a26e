package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/legal-lens/api/internal/llm"
	"github.com/legal-lens/api/internal/models"
	"github.com/legal-lens/api/internal/utils"
)

const (
	// maxDocumentChars bounds prompt size and provider cost. Longer documents
	// are analyzed only up to this point.
	maxDocumentChars = 15000

	// Low temperature favors format compliance over creativity.
	temperature = 0.3
)

const promptTemplate = `You are a legal expert. Analyze this legal document and respond ONLY with valid JSON in this structure:
{
  "title": "document title",
  "documentType": "type of document",
  "summary": "3-5 sentence plain English summary",
  "keyPoints": ["point 1", "point 2", "point 3", "point 4", "point 5"],
  "risks": [
    {"level": "high", "title": "risk title", "description": "plain English description"},
    {"level": "medium", "title": "risk title", "description": "plain English description"},
    {"level": "low", "title": "risk title", "description": "plain English description"}
  ],
  "importantDates": ["date 1"],
  "partiesInvolved": ["party 1", "party 2"],
  "recommendation": "practical recommendation"
}
Respond with ONLY the JSON, no markdown, no explanation.

DOCUMENT:
%s`

const analysisSchemaJSON = `{
  "type": "object",
  "required": ["title", "documentType", "summary", "keyPoints", "risks", "importantDates", "partiesInvolved", "recommendation"],
  "properties": {
    "title": {"type": "string"},
    "documentType": {"type": "string"},
    "summary": {"type": "string"},
    "keyPoints": {"type": "array", "items": {"type": "string"}},
    "risks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["level", "title", "description"],
        "properties": {
          "level": {"enum": ["high", "medium", "low"]},
          "title": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    },
    "importantDates": {"type": "array", "items": {"type": "string"}},
    "partiesInvolved": {"type": "array", "items": {"type": "string"}},
    "recommendation": {"type": "string"}
  }
}`

var analysisSchema = jsonschema.MustCompileString("analysis.json", analysisSchemaJSON)

// Analyzer produces a structured Analysis from raw document text with a
// single model call.
type Analyzer struct {
	llm    llm.Client
	logger *utils.Logger
}

func New(client llm.Client, logger *utils.Logger) *Analyzer {
	return &Analyzer{
		llm:    client,
		logger: logger,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, text string) (*models.Analysis, error) {
	if len(text) > maxDocumentChars {
		truncated := truncate(text, maxDocumentChars)
		a.logger.Warn("Truncating document for analysis",
			"original_length", len(text),
			"truncated_length", len(truncated))
		text = truncated
	}

	prompt := fmt.Sprintf(promptTemplate, text)

	reply, err := a.llm.ChatCompletion(ctx, []llm.Message{
		{Role: string(models.RoleUser), Content: prompt},
	}, temperature)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return nil, utils.NewServiceUnavailableError("GROQ_API_KEY is not configured on the server.")
		}
		a.logger.Error("Analysis model call failed", "error", err)
		return nil, utils.NewInternalError(fmt.Sprintf("Analysis failed: %v", err))
	}

	clean := stripCodeFences(reply)

	var raw any
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		a.logger.Error("Failed to parse model reply as JSON", "error", err, "reply", clean)
		return nil, utils.NewInternalError(fmt.Sprintf("Failed to parse analysis response: %v", err))
	}

	if err := analysisSchema.Validate(raw); err != nil {
		a.logger.Error("Model reply does not match analysis schema", "error", err)
		return nil, utils.NewInternalError(fmt.Sprintf("Analysis response did not match the expected format: %v", err))
	}

	var analysis models.Analysis
	if err := json.Unmarshal([]byte(clean), &analysis); err != nil {
		return nil, utils.NewInternalError(fmt.Sprintf("Failed to decode analysis response: %v", err))
	}

	models.SortRisks(analysis.Risks)

	return &analysis, nil
}

// truncate cuts s to at most max bytes, backing off to a rune boundary so
// the prompt never ends mid-rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// stripCodeFences removes a leading/trailing markdown code fence. Models wrap
// JSON in fences despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")

	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}

	return strings.TrimSpace(s)
}
