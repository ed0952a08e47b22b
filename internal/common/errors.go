package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")

	// ErrDocumentNotFound is returned when an operation names a document
	// that is not present in the session.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrNoActiveDocument is returned when an exchange is attempted with
	// no document selected.
	ErrNoActiveDocument = errors.New("no document selected")
	// ErrUnreadableDocument is returned when text extraction cannot read
	// the uploaded file.
	ErrUnreadableDocument = errors.New("unreadable document")
	// ErrUnsupportedFormat is returned for uploads whose extension is not
	// a supported PDF or image type.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrResponderUnavailable is returned when the remote chat service
	// cannot be reached or errors.
	ErrResponderUnavailable = errors.New("chat service unavailable")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
