// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "time"

// StandardError is the canonical error envelope for all 4xx/5xx HTTP responses.
type StandardError struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func New(status int, title, msg, path string) *StandardError {
	return &StandardError{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     title,
		Message:   msg,
		Path:      path,
	}
}

// FieldMessage is one rejected field of a request body.
type FieldMessage struct {
	FieldName string `json:"fieldName"`
	Message   string `json:"message"`
}

// ValidationError extends StandardError with the list of rejected fields.
type ValidationError struct {
	StandardError
	Errors []FieldMessage `json:"errors"`
}

func NewValidation(status int, title, msg, path string, fields []FieldMessage) *ValidationError {
	if fields == nil {
		fields = []FieldMessage{}
	}
	return &ValidationError{StandardError: *New(status, title, msg, path), Errors: fields}
}
