package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeBadRequest          ErrorType = "BAD_REQUEST"
	ErrorTypeUnauthorized        ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden           ErrorType = "FORBIDDEN"
	ErrorTypeNotFound            ErrorType = "NOT_FOUND"
	ErrorTypeServiceUnavailable  ErrorType = "SERVICE_UNAVAILABLE"
	ErrorTypeNotConfigured       ErrorType = "NOT_CONFIGURED"
	ErrorTypeInternalServerError ErrorType = "INTERNAL_SERVER_ERROR"
)

// CustomError represents a custom error with associated HTTP status code and type
type CustomError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
	Internal   error
}

// Error implements the error interface
func (e *CustomError) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped internal error to errors.Is/As.
func (e *CustomError) Unwrap() error {
	return e.Internal
}

// newError creates a new CustomError
func newError(errType ErrorType, message string, statusCode int, internal error) *CustomError {
	return &CustomError{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// NewValidationError creates a new bad request error with field-level detail
func NewValidationError(message string) *CustomError {
	return newError(ErrorTypeBadRequest, message, http.StatusBadRequest, nil)
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError() *CustomError {
	return newError(ErrorTypeUnauthorized, "Unauthorized access", http.StatusUnauthorized, nil)
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError() *CustomError {
	return newError(ErrorTypeForbidden, "Access forbidden", http.StatusForbidden, nil)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *CustomError {
	return newError(ErrorTypeNotFound, message, http.StatusNotFound, nil)
}

// NewServiceUnavailableError signals that the generation service could not be
// reached, timed out, or answered non-2xx. Marked retryable: the caller may
// repeat the request, the server itself never does.
func NewServiceUnavailableError(message string, internal error) *CustomError {
	err := newError(ErrorTypeServiceUnavailable, message, http.StatusServiceUnavailable, internal)
	err.Retryable = true
	return err
}

// NewNotConfiguredError signals missing environment wiring. Operator-facing,
// never retryable from the client side.
func NewNotConfiguredError(message string) *CustomError {
	return newError(ErrorTypeNotConfigured, message, http.StatusInternalServerError, nil)
}

// NewInternalError creates a new internal server error
func NewInternalError(internal error) *CustomError {
	return newError(ErrorTypeInternalServerError, "An unexpected error occurred", http.StatusInternalServerError, internal)
}

// HandleError handles the custom error and sends an appropriate JSON response
func HandleError(c *gin.Context, err error) {
	var customErr *CustomError
	var ok bool

	if customErr, ok = err.(*CustomError); !ok {
		customErr = NewInternalError(err)
	}

	switch customErr.Type {
	case ErrorTypeInternalServerError, ErrorTypeNotConfigured:
		log.Error().
			Err(customErr.Internal).
			Str("type", string(customErr.Type)).
			Str("url", c.Request.URL.String()).
			Msg("request failed")
	case ErrorTypeServiceUnavailable:
		log.Warn().
			Err(customErr.Internal).
			Str("url", c.Request.URL.String()).
			Msg("generation service unavailable")
	}

	body := gin.H{
		"type":    customErr.Type,
		"message": customErr.Message,
	}
	if customErr.Retryable {
		body["retryable"] = true
	}
	c.JSON(customErr.StatusCode, gin.H{"error": body})
}
