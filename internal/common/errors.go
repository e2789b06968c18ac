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

// Error taxonomy for extraction and translation operations.
var (
	// ErrMissingCredential: an AI operation was attempted without a configured
	// API key. The caller must collect one; never silently retried.
	ErrMissingCredential = errors.New("missing AI credential")

	// ErrUnsupportedDocument: the classifier returned UNSUPPORTED; no
	// extraction path is permitted.
	ErrUnsupportedDocument = errors.New("unsupported document type")

	// ErrInvalidResponse: an AI response failed schema validation (missing or
	// malformed data field). The operation aborts with no partial result.
	ErrInvalidResponse = errors.New("invalid AI response")

	// ErrExtractionFailed: transport- or model-level failure of a
	// single-document extraction.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrTranslationFailed: transport- or model-level failure of one unit's
	// translation. Batch-scoped; siblings are unaffected.
	ErrTranslationFailed = errors.New("translation failed")

	// ErrNoResult: an export was requested before any extraction produced a
	// result.
	ErrNoResult = errors.New("no result to export")

	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
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
