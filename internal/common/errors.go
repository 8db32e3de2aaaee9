// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Statement errors.
	ErrNoTransactions    = errors.New("no transactions found")
	ErrUnsupportedFormat = errors.New("unsupported statement format")
	ErrInvalidPDF        = errors.New("invalid PDF document")

	// Enrichment errors.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")

	// Plaid errors.
	ErrPlaidRateLimit = errors.New("plaid rate limit exceeded")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// InputFormatError is returned when no extraction strategy produced a single
// transaction from a statement.
type InputFormatError struct {
	Source string
	Format string
}

func (e *InputFormatError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("could not read any transactions from %s input", e.Format)
	}
	return fmt.Sprintf("could not read any transactions from %s (%s)", e.Source, e.Format)
}

func (e *InputFormatError) Unwrap() error {
	return ErrNoTransactions
}

// UserMessage is the text shown in place of a stack trace.
func (e *InputFormatError) UserMessage() string {
	return "No transactions found. Export your statement as CSV, or try a different PDF from your bank."
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrPlaidRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
