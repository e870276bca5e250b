// Package domain contains the core domain models and types.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrEmptyText indicates the text content is empty or whitespace only.
	ErrEmptyText = errors.New("text content is empty")

	// ErrTextTooLarge indicates the text exceeds the maximum allowed size.
	ErrTextTooLarge = errors.New("text content exceeds maximum size")

	// ErrInvalidLanguage indicates an unsupported language setting.
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidCategory indicates an unsupported category setting.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidStyle indicates an unsupported style setting.
	ErrInvalidStyle = errors.New("invalid style")

	// ErrNoActiveTemplate indicates no active prompt template is
	// configured. This is a setup defect, never retried.
	ErrNoActiveTemplate = errors.New("no active prompt template configured")

	// ErrAITimeout indicates the generative service did not respond in time.
	ErrAITimeout = errors.New("generative service timeout")

	// ErrAIUnavailable indicates the generative service is not available.
	ErrAIUnavailable = errors.New("generative service unavailable")

	// ErrInvalidAIResponse indicates the service response carried no
	// parseable JSON payload.
	ErrInvalidAIResponse = errors.New("invalid generative service response")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// AnalysisError wraps an error with additional context.
type AnalysisError struct {
	// Op is the operation that failed.
	Op string

	// Err is the underlying error.
	Err error

	// Retryable indicates if the operation can be retried.
	Retryable bool
}

// Error implements the error interface.
func (e *AnalysisError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// WrapError creates a new AnalysisError with context.
func WrapError(op string, err error, retryable bool) *AnalysisError {
	return &AnalysisError{
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Retryable
	}
	return false
}

// IsInvalidRequest reports whether the error is an input validation
// failure that must be surfaced to the caller and never retried.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrEmptyText) ||
		errors.Is(err, ErrTextTooLarge) ||
		errors.Is(err, ErrInvalidLanguage) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidStyle)
}
