package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the version Migrate must reach. Anything else is
// fatal.
const ExpectedSchemaVersion = 2

// Migration is one schema step, applied atomically together with the
// user_version bump.
type Migration struct {
	Description string
	Statements  []string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial report history schema",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS reports (
				id TEXT PRIMARY KEY,
				generated_at DATETIME NOT NULL,
				monthly_leak REAL NOT NULL DEFAULT 0,
				annual_savings REAL NOT NULL DEFAULT 0,
				transaction_count INTEGER NOT NULL DEFAULT 0,
				body TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX idx_reports_generated_at ON reports(generated_at)`,
			`CREATE TABLE IF NOT EXISTS report_transactions (
				report_id TEXT NOT NULL,
				position INTEGER NOT NULL,
				date TEXT NOT NULL,
				description TEXT NOT NULL,
				amount REAL NOT NULL,
				category TEXT,
				PRIMARY KEY (report_id, position),
				FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
			)`,
		},
	},
	{
		Version:     2,
		Description: "Track enrichment and subscription counts per report",
		Statements: []string{
			`ALTER TABLE reports ADD COLUMN enriched INTEGER NOT NULL DEFAULT 0`,
			`ALTER TABLE reports ADD COLUMN subscription_count INTEGER NOT NULL DEFAULT 0`,
			`CREATE INDEX IF NOT EXISTS idx_report_transactions_category ON report_transactions(category)`,
		},
	},
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

func (s *SQLiteStorage) apply(ctx context.Context, m Migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// Migrate brings the database up to ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return err
		}
		slog.Debug("Applied migration", "version", m.Version, "description", m.Description)
	}

	final, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if final != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, final)
	}
	return nil
}
