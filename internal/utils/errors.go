package utils

import "net/http"

// AppError is an error that carries the HTTP status it should be reported with.
// Handlers convert any other error into a generic 500.
type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

// NewServiceUnavailableError reports a missing or broken operator-side
// configuration. It still maps to 500 on the wire: the caller cannot fix it.
func NewServiceUnavailableError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}
