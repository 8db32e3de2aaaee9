// Package service defines the interfaces that connect the analysis pipeline to
// its collaborators.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// Enricher refines a heuristic report. Implementations must only send
// anonymized aggregates off the machine.
type Enricher interface {
	Enrich(ctx context.Context, transactions []model.Transaction, report *model.Report) (*model.Enrichment, error)
}

// TransactionSource fetches transactions from a remote provider.
type TransactionSource interface {
	GetTransactions(ctx context.Context, startDate, endDate time.Time) ([]model.Transaction, error)
}

// ReportStore persists finished reports for later comparison.
type ReportStore interface {
	SaveReport(ctx context.Context, report *model.Report, transactions []model.RedactedTransaction) error
	GetReport(ctx context.Context, id string) (*model.Report, error)
	ListReports(ctx context.Context, limit int) ([]model.ReportSummary, error)
	GetReportTransactions(ctx context.Context, id string) ([]model.RedactedTransaction, error)
	Close() error
}

// ReportWriter exports a report to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, report *model.Report) error
}

// RetryOptions configures retry behavior.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
