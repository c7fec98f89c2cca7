package api

import (
	"io"
	"log/slog"
	"net/http"
)

// StatusMessage is the body served on GET /.
const StatusMessage = "App is running on AWS Fargate!"

// Handlers contains HTTP handlers for the status API
type Handlers struct {
	message string
}

// HandlerOption configures optional Handlers dependencies.
type HandlerOption func(*Handlers)

// WithMessage overrides the status body.
func WithMessage(message string) HandlerOption {
	return func(h *Handlers) {
		h.message = message
	}
}

// NewHandlers creates a new handlers instance
func NewHandlers(opts ...HandlerOption) *Handlers {
	h := &Handlers{
		message: StatusMessage,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Status reports that the service is up.
// GET /
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, h.message); err != nil {
		slog.Debug("Failed to write status response", "error", err)
	}
}
