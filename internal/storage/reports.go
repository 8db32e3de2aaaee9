package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// DefaultListLimit caps ListReports when no limit is given.
const DefaultListLimit = 20

// SaveReport stores a report and the redacted transactions it was built
// from. Saving an existing ID replaces it.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report *model.Report, transactions []model.RedactedTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateReport(report); err != nil {
		return err
	}
	if err := validateRedactedTransactions(transactions); err != nil {
		return err
	}

	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, query := range []string{
		`DELETE FROM report_transactions WHERE report_id = ?`,
		`DELETE FROM reports WHERE id = ?`,
	} {
		if _, err = tx.ExecContext(ctx, query, report.ID); err != nil {
			return fmt.Errorf("failed to replace report: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (id, generated_at, monthly_leak, annual_savings, transaction_count, enriched, subscription_count, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.GeneratedAt.UTC(),
		report.MonthlyLeak,
		report.AnnualSavings,
		report.TransactionCount,
		report.Enriched,
		len(report.Subscriptions),
		string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	if len(transactions) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx, `
			INSERT INTO report_transactions (report_id, position, date, description, amount, category)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, txn := range transactions {
			if _, err = stmt.ExecContext(ctx, report.ID, i, txn.Date, txn.Description, txn.Amount, string(txn.Category)); err != nil {
				return fmt.Errorf("failed to insert transaction %d: %w", i, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

// GetReport loads a stored report by ID.
func (s *SQLiteStorage) GetReport(ctx context.Context, id string) (*model.Report, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM reports WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("report %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// ListReports returns the newest reports first.
func (s *SQLiteStorage) ListReports(ctx context.Context, limit int) ([]model.ReportSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at, monthly_leak, annual_savings, transaction_count
		FROM reports
		ORDER BY generated_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	summaries := []model.ReportSummary{}
	for rows.Next() {
		var (
			summary     model.ReportSummary
			generatedAt time.Time
		)
		if err := rows.Scan(&summary.ID, &generatedAt, &summary.MonthlyLeak, &summary.AnnualSavings, &summary.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		summary.GeneratedAt = generatedAt.UTC()
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return summaries, nil
}

// GetReportTransactions returns the redacted transactions saved with a
// report, in their original order.
func (s *SQLiteStorage) GetReportTransactions(ctx context.Context, id string) ([]model.RedactedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE id = ?`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("report %s: %w", id, common.ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, description, amount, COALESCE(category, '')
		FROM report_transactions
		WHERE report_id = ?
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	txns := []model.RedactedTransaction{}
	for rows.Next() {
		var (
			txn      model.RedactedTransaction
			category string
		)
		if err := rows.Scan(&txn.Date, &txn.Description, &txn.Amount, &category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Category = model.Category(category)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// DeleteReport removes a report and its transactions.
func (s *SQLiteStorage) DeleteReport(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM report_transactions WHERE report_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete report transactions: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("report %s: %w", id, common.ErrNotFound)
	}
	return nil
}
