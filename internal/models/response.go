// Package models - API response types and error handling.
//
// The status route itself answers with a plain string; everything the service
// generates on its own behalf (panics, rate limiting) uses ErrorResponse so
// clients see one consistent JSON shape.
package models

import (
	"time"
)

// ErrorResponse provides structured error information.
type ErrorResponse struct {
	Error     string    `json:"error"`                // Error type (always "error")
	Message   string    `json:"message"`              // Human-readable error description
	Code      string    `json:"code,omitempty"`       // Machine-readable error code
	Timestamp time.Time `json:"timestamp"`            // Error occurrence time
	RequestID string    `json:"request_id,omitempty"` // Unique request identifier
}

// Standard HTTP Error Codes
const (
	ErrorCodeInternalError     = "INTERNAL_ERROR"      // 500: Server-side error
	ErrorCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED" // 429: Too many requests
)

func NewErrorResponse(message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:     "error",
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}
