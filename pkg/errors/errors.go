package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation         ErrorType = "validation"
	ErrorTypeFileTooLarge       ErrorType = "file_too_large"
	ErrorTypeNotFound           ErrorType = "not_found"
	ErrorTypeUnauthorized       ErrorType = "unauthorized"
	ErrorTypeForbidden          ErrorType = "forbidden"
	ErrorTypeInternal           ErrorType = "internal"
	ErrorTypeUnsupportedFormat  ErrorType = "unsupported_format"
	ErrorTypeCorruptOrEncrypted ErrorType = "corrupt_or_encrypted"
	ErrorTypeParse              ErrorType = "parse_error"
	ErrorTypeOCR                ErrorType = "ocr_failure"
	ErrorTypeTimeout            ErrorType = "timeout"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewFileTooLargeError reports an upload over the configured size limit.
func NewFileTooLargeError(limit int64, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeFileTooLarge,
		Message:    "upload rejected",
		Details:    fmt.Sprintf("limit=%d bytes", limit),
		StatusCode: http.StatusRequestEntityTooLarge,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
		Cause:      cause,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Message:    message,
		StatusCode: http.StatusForbidden,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewUnsupportedFormatError reports that no extractor accepted the file.
// mimeType and ext are kept for diagnostics.
func NewUnsupportedFormatError(mimeType, ext string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeUnsupportedFormat,
		Message:    "unsupported file format",
		Details:    fmt.Sprintf("mime=%q ext=%q", mimeType, ext),
		StatusCode: http.StatusUnsupportedMediaType,
		Cause:      cause,
	}
}

// NewCorruptOrEncryptedError reports a document that could not be opened.
func NewCorruptOrEncryptedError(format string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeCorruptOrEncrypted,
		Message:    "document could not be opened",
		Details:    "format=" + format,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewParseError reports malformed input for the given format.
func NewParseError(format string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeParse,
		Message:    "document could not be parsed",
		Details:    "format=" + format,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewOCRError reports a failure of the OCR engine.
func NewOCRError(cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeOCR,
		Message:    "text recognition failed",
		Details:    "format=image",
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewTimeoutError reports an extraction that ran past its deadline.
func NewTimeoutError(format string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    "extraction timed out",
		Details:    "format=" + format,
		StatusCode: http.StatusGatewayTimeout,
		Cause:      cause,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
