// Package response centralizes HTTP response shapes and helpers.
// Handlers rely on it to keep controllers thin and uniform.
package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/member-search-service/internal/repository"
	"github.com/maxviazov/member-search-service/internal/service"
)

// RequestIDKey is the gin context key the request id middleware writes to.
const RequestIDKey = "request_id"

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string               `json:"error"`
	Message     string               `json:"message,omitempty"`
	FieldErrors []service.FieldError `json:"field_errors,omitempty"`
	RequestID   string               `json:"request_id,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok"}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found"}
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, ErrorPayload{Error: "already_exists"}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, ErrorPayload{Error: "conflict"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, ErrorPayload{Error: "timeout"}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error"}
	}
}

// WriteError writes an error response tagged with the request id and aborts the context.
// The raw error is attached to the gin context so the access log can report it.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	payload.RequestID = c.GetString(RequestIDKey)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
