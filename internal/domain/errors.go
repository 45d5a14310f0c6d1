package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// AppError represents a domain-specific error with structured information and enhanced context
type AppError struct {
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Details    any       `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
	Operation  string    `json:"operation,omitempty"`
	Cause      error     `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error wrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// requestIDKey is the context key the HTTP layer stores request IDs under
type requestIDKey struct{}

// ContextWithRequestID returns a context carrying the given request ID
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// WithContext adds context information to the error
func (e *AppError) WithContext(ctx context.Context, operation string) *AppError {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		e.RequestID = id
	}
	e.Operation = operation
	return e
}

// Error codes for different error categories
const (
	ErrConfiguration    = "CONFIGURATION_ERROR" // 422 malformed rule or profile
	ErrInvalidDetail    = "INVALID_DETAIL"      // 400 unknown report detail level
	ErrInvalidInput     = "INVALID_INPUT"       // 400 Bad Request
	ErrValidationFailed = "VALIDATION_FAILED"   // 422 Unprocessable Entity
	ErrNotFound         = "NOT_FOUND"           // 404 Not Found
	ErrConflict         = "CONFLICT"            // 409 Conflict
	ErrInternal         = "INTERNAL_ERROR"      // 500 Internal Server Error
	ErrTimeout          = "TIMEOUT"             // 408 Request Timeout
	ErrTooLarge         = "PAYLOAD_TOO_LARGE"   // 413 Payload Too Large
	ErrRateLimit        = "RATE_LIMIT"          // 429 Too Many Requests
)

// NewAppError creates a new AppError with the specified parameters
func NewAppError(code, message string, statusCode int, details any) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
		Timestamp:  time.Now(),
	}
}

// NewAppErrorWithCause creates a new AppError with underlying cause
func NewAppErrorWithCause(code, message string, statusCode int, cause error, details any) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
		Timestamp:  time.Now(),
		Cause:      cause,
	}
}

// NewConfigurationError reports a malformed rule or profile
func NewConfigurationError(message string, details any) *AppError {
	return NewAppError(ErrConfiguration, message, 422, details)
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsConfigurationError checks if the error reports an invalid rule or profile
func IsConfigurationError(err error) bool {
	return hasCode(err, ErrConfiguration)
}

// IsInvalidDetail checks if the error reports an unknown detail level
func IsInvalidDetail(err error) bool {
	return hasCode(err, ErrInvalidDetail)
}

// IsTimeout checks if the error is a timeout error
func IsTimeout(err error) bool {
	return hasCode(err, ErrTimeout)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return hasCode(err, ErrValidationFailed)
}
