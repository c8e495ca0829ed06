// ABOUTME: Error taxonomy for the question answering pipeline
// ABOUTME: Distinguishes fatal config errors, transient index state, and generation outages
package models

import (
	"errors"
	"fmt"
)

// ErrIndexNotReady is returned when a query arrives while the index is
// building or rebuilding. Callers should back off and retry; the error
// carries no partial results.
var ErrIndexNotReady = errors.New("index is not ready")

// ConfigError reports an invalid configuration value. Configuration
// errors are fatal at startup and must never be retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// NewConfigError creates a ConfigError for the given field
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// GenerationUnavailableError is returned when the language model could
// not produce an answer after the retry budget was spent. It is distinct
// from a refusal: the caller learns the system failed, not the document.
type GenerationUnavailableError struct {
	Attempts int
	Err      error
}

func (e *GenerationUnavailableError) Error() string {
	return fmt.Sprintf("generation unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GenerationUnavailableError) Unwrap() error {
	return e.Err
}

// IsGenerationUnavailable reports whether err is (or wraps) a
// GenerationUnavailableError.
func IsGenerationUnavailable(err error) bool {
	var ge *GenerationUnavailableError
	return errors.As(err, &ge)
}
