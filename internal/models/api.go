package models

// Wire types for the three JSON endpoints.

type ExtractResponse struct {
	Text string `json:"text"`
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

type ChatRequest struct {
	Question     string        `json:"question"`
	DocumentText string        `json:"documentText"`
	History      []ChatMessage `json:"history"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
