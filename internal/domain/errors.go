package domain

import "errors"

// Domain errors
var (
	ErrDocumentNotFound   = errors.New("document not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrInvalidToken       = errors.New("invalid token")
	ErrEmptyFile          = errors.New("file is empty")
	ErrFileTooLarge       = errors.New("file exceeds maximum size")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrCorruptOrEncrypted = errors.New("document is corrupt or encrypted")
	ErrParse              = errors.New("document could not be parsed")
	ErrOCRFailure         = errors.New("ocr failed")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
