package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/legal-lens/api/internal/extractor"
	"github.com/legal-lens/api/internal/models"
	"github.com/legal-lens/api/internal/utils"
)

// DocumentAnalyzer produces a structured analysis from document text.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, text string) (*models.Analysis, error)
}

// ChatService answers one follow-up question about a document.
type ChatService interface {
	Answer(ctx context.Context, question, documentText string, history []models.ChatMessage) (string, error)
}

// MinDocumentChars is the smallest trimmed document the analyzer accepts,
// counted in characters, not bytes.
const MinDocumentChars = 50

type Handler struct {
	analyzer    DocumentAnalyzer
	chat        ChatService
	maxFileSize int64
	logger      *utils.Logger
}

func New(analyzer DocumentAnalyzer, chat ChatService, maxFileSize int64, logger *utils.Logger) *Handler {
	return &Handler{
		analyzer:    analyzer,
		chat:        chat,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// ExtractDocument handles POST /api/extract: multipart upload in, extracted
// text out.
func (h *Handler) ExtractDocument(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxFileSize {
		h.respondError(w, utils.NewBadRequestError("File too large"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize)

	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			h.respondError(w, utils.NewBadRequestError("File too large"))
			return
		}
		h.respondError(w, utils.NewBadRequestError("Invalid form data"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, utils.NewBadRequestError("No file provided"))
		return
	}
	defer file.Close()

	mimeType := declaredMIMEType(header.Filename, header.Header.Get("Content-Type"))

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, utils.NewInternalError("Failed to read file"))
		return
	}

	if len(data) == 0 {
		h.respondError(w, utils.NewBadRequestError("Uploaded file is empty"))
		return
	}

	text, err := extractor.Extract(data, mimeType)
	if err != nil {
		if errors.Is(err, extractor.ErrUnsupportedType) {
			h.logger.Warn("Unsupported file type", "mime_type", mimeType, "filename", header.Filename)
			h.respondError(w, utils.NewBadRequestError("Unsupported file type"))
			return
		}
		// The underlying cause stays in the log; callers get a generic message.
		h.logger.Error("Extraction failed", "error", err, "mime_type", mimeType, "filename", header.Filename)
		h.respondError(w, utils.NewInternalError("Failed to extract text from file"))
		return
	}

	h.logger.Info("Document extracted",
		"filename", header.Filename,
		"mime_type", mimeType,
		"text_length", len(text))

	h.respondJSON(w, http.StatusOK, models.ExtractResponse{Text: text})
}

// AnalyzeDocument handles POST /api/analyze.
func (h *Handler) AnalyzeDocument(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid request body"))
		return
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Text)) < MinDocumentChars {
		h.respondError(w, utils.NewBadRequestError("Document too short."))
		return
	}

	analysis, err := h.analyzer.Analyze(r.Context(), req.Text)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, analysis)
}

// AnswerQuestion handles POST /api/chat.
func (h *Handler) AnswerQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, utils.NewBadRequestError("Invalid request body"))
		return
	}

	if req.Question == "" || req.DocumentText == "" {
		h.respondError(w, utils.NewBadRequestError("Question and document required."))
		return
	}

	answer, err := h.chat.Answer(r.Context(), req.Question, req.DocumentText, req.History)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, models.ChatResponse{Answer: answer})
}

// declaredMIMEType returns the part's declared content type with parameters
// stripped, falling back to the filename extension when no type was sent.
func declaredMIMEType(filename, contentType string) string {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			return mediaType
		}
		return contentType
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return extractor.MIMETypeText
	case ".pdf":
		return extractor.MIMETypePDF
	}

	return ""
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
		message = appErr.Message
	} else {
		status = http.StatusInternalServerError
		message = "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("Request error", "status", status, "error", message)
	} else {
		h.logger.Warn("Request error", "status", status, "error", message)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message})
}
