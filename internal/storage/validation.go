// Package storage keeps analysis report history in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidReport     = errors.New("invalid report")
	ErrInvalidRedactedTx = errors.New("invalid redacted transaction")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateReport(report *model.Report) error {
	if report == nil {
		return fmt.Errorf("%w: report", ErrNilParameter)
	}
	if strings.TrimSpace(report.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidReport)
	}
	if report.GeneratedAt.IsZero() {
		return fmt.Errorf("%w: missing generation time", ErrInvalidReport)
	}
	if !finite(report.MonthlyLeak) || !finite(report.AnnualSavings) {
		return fmt.Errorf("%w: totals must be finite", ErrInvalidReport)
	}
	return nil
}

func validateRedactedTransactions(transactions []model.RedactedTransaction) error {
	for i, txn := range transactions {
		if strings.TrimSpace(txn.Date) == "" {
			return fmt.Errorf("transaction at index %d: %w: missing date", i, ErrInvalidRedactedTx)
		}
		if !finite(txn.Amount) {
			return fmt.Errorf("transaction at index %d: %w: amount must be finite", i, ErrInvalidRedactedTx)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
