// Package errors provides the error taxonomy for the fightdex pipeline.
// The types map one-to-one onto the failure classes the orchestrator and
// ledger care about: fetch failures and match failures are recoverable and
// queue for retry, parse failures skip a record without aborting its batch,
// conflicts are surfaced for review and never auto-resolved, and load
// failures roll back only their in-flight batch.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is reports whether any error in err's chain matches target.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
var As = errors.As

// Join wraps multiple errors into one, discarding nils.
var Join = errors.Join

// Common sentinel errors.
var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoMatch indicates the matcher found no acceptable identity.
	ErrNoMatch = errors.New("no acceptable match")

	// ErrConflict indicates two sources disagree on an externally-assigned
	// identifier for one normalized name.
	ErrConflict = errors.New("identifier conflict")

	// ErrRateLimited indicates the shared request gate refused further load.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = errors.New("operation canceled")

	// ErrSourceUnavailable indicates a source is temporarily unavailable.
	ErrSourceUnavailable = errors.New("source unavailable")
)

// FetchError represents a failed fetch against an upstream source:
// network error, timeout, or non-success status.
type FetchError struct {
	Source     string
	URL        string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch from %s failed (status %d): %s", e.Source, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch from %s failed: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *FetchError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited
	}
	if e.StatusCode >= 500 {
		return target == ErrSourceUnavailable
	}
	return false
}

// NewFetchError creates a new FetchError.
func NewFetchError(source, url string, statusCode int, message string) *FetchError {
	return &FetchError{
		Source:     source,
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ParseError represents an extractor finding no usable structure for one
// record. One parse failure skips its record, never its batch.
type ParseError struct {
	Source  string
	Subject string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("parse failure in %s for %q: %s", e.Source, e.Subject, e.Message)
	}
	return fmt.Sprintf("parse failure in %s: %s", e.Source, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// MatchError represents the matcher finding no acceptable identity for a
// display name. Score carries the best rejected fuzzy score, if any.
type MatchError struct {
	Subject string
	Score   float64
	Reason  string
}

// Error implements the error interface.
func (e *MatchError) Error() string {
	if e.Score > 0 {
		return fmt.Sprintf("no match for %q (best score %.2f): %s", e.Subject, e.Score, e.Reason)
	}
	return fmt.Sprintf("no match for %q: %s", e.Subject, e.Reason)
}

// Is implements errors.Is support.
func (e *MatchError) Is(target error) bool {
	return target == ErrNoMatch
}

// ConflictError represents two sources supplying distinct externally-assigned
// identifiers for the same normalized name. Never auto-resolved.
type ConflictError struct {
	Subject  string
	Kept     string
	Rejected string
	Source   string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("identifier conflict for %q: kept %s, %s supplied %s",
		e.Subject, e.Kept, e.Source, e.Rejected)
}

// Is implements errors.Is support.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// LoadError represents a persistence failure for one table's batch.
// Prior tables' committed loads are unaffected.
type LoadError struct {
	Table string
	Batch int
	Err   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Batch > 0 {
		return fmt.Sprintf("load failure for table %s (batch %d): %v", e.Table, e.Batch, e.Err)
	}
	return fmt.Sprintf("load failure for table %s: %v", e.Table, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// IOError represents an error during file I/O.
type IOError struct {
	Operation string // "read", "write", "rename", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// TimeoutError represents an operation exceeding its deadline. The partial
// result of a timed-out fetch is never merged.
type TimeoutError struct {
	Operation string
	Duration  string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Duration != "" {
		return fmt.Sprintf("operation %s timed out after %s", e.Operation, e.Duration)
	}
	return fmt.Sprintf("operation %s timed out", e.Operation)
}

// Is implements errors.Is support.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Helper functions for error checking.

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNoMatch checks if an error is a match failure.
func IsNoMatch(err error) bool {
	return errors.Is(err, ErrNoMatch)
}

// IsConflict checks if an error is an identifier conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsRecoverable reports whether the error class queues for ledger retry.
// Fetch and match failures are recoverable; everything else is not.
func IsRecoverable(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return true
	}
	return errors.Is(err, ErrNoMatch) || errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns.

// WrapIO wraps an error as an IOError.
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapFetch wraps an error as a FetchError.
func WrapFetch(source, url string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Source: source, URL: url, Message: err.Error(), Err: err}
}

// WrapLoad wraps an error as a LoadError.
func WrapLoad(table string, batch int, err error) error {
	if err == nil {
		return nil
	}
	return &LoadError{Table: table, Batch: batch, Err: err}
}
