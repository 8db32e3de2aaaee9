package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testReport(id string, generated time.Time, monthly float64) *model.Report {
	return &model.Report{
		ID:               id,
		GeneratedAt:      generated,
		MonthlyLeak:      monthly,
		AnnualSavings:    monthly * 12,
		TransactionCount: 3,
		Disclaimer:       "not advice",
		TopLeaks: []model.Leak{
			{Category: model.LeakSubscription, Merchant: "NETFLIX", MonthlyCost: monthly, YearlyCost: monthly * 12},
		},
		Subscriptions: []model.Subscription{{Merchant: "NETFLIX", MonthlyCost: monthly, Confidence: 0.95}},
		RecoveryPlan:  []string{"Week 1: Audit all 1 subscriptions - cancel or pause unused ones"},
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))

	var version int
	require.NoError(t, store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version))
	assert.Equal(t, ExpectedSchemaVersion, version)

	var columns int
	require.NoError(t, store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info('reports') WHERE name IN ('enriched', 'subscription_count')`).Scan(&columns))
	assert.Equal(t, 2, columns)
}

func TestNewSQLiteStorageCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "leaks.db")

	store, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Migrate(context.Background()))
	assert.FileExists(t, path)
}

func TestNewSQLiteStorageRejectsEmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("  ")
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestSaveAndGetReport(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	report := testReport("r1", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), 15.99)
	txns := []model.RedactedTransaction{
		{Date: "2024-01-15", Description: "NETFLIX.COM", Amount: 15.99, Category: model.CategorySubscriptions},
		{Date: "2024-01-16", Description: "Transfer to [REDACTED]", Amount: 50, Category: model.CategoryTransfers},
	}

	require.NoError(t, store.SaveReport(ctx, report, txns))

	got, err := store.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
	assert.True(t, report.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, report.TopLeaks, got.TopLeaks)
	assert.Equal(t, report.RecoveryPlan, got.RecoveryPlan)
	assert.InDelta(t, 15.99, got.MonthlyLeak, 0.001)

	gotTxns, err := store.GetReportTransactions(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, txns, gotTxns)
}

func TestSaveReportReplacesExisting(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	when := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveReport(ctx, testReport("r1", when, 10), []model.RedactedTransaction{
		{Date: "2024-01-01", Description: "A", Amount: 1},
		{Date: "2024-01-02", Description: "B", Amount: 2},
	}))
	require.NoError(t, store.SaveReport(ctx, testReport("r1", when, 20), []model.RedactedTransaction{
		{Date: "2024-02-01", Description: "C", Amount: 3},
	}))

	got, err := store.GetReport(ctx, "r1")
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got.MonthlyLeak, 0.001)

	txns, err := store.GetReportTransactions(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "C", txns[0].Description)

	list, err := store.ListReports(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveReportValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	when := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		report  *model.Report
		wantErr error
		name    string
		txns    []model.RedactedTransaction
	}{
		{name: "nil report", report: nil, wantErr: ErrNilParameter},
		{name: "missing id", report: testReport("", when, 1), wantErr: ErrInvalidReport},
		{name: "missing time", report: testReport("r", time.Time{}, 1), wantErr: ErrInvalidReport},
		{
			name:    "transaction without date",
			report:  testReport("r", when, 1),
			txns:    []model.RedactedTransaction{{Description: "x", Amount: 1}},
			wantErr: ErrInvalidRedactedTx,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveReport(ctx, tt.report, tt.txns)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := store.ListReports(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list, "failed saves must not leave rows behind")
}

func TestListReportsNewestFirst(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"jan", "feb", "mar"} {
		require.NoError(t, store.SaveReport(ctx, testReport(id, base.AddDate(0, i, 0), float64(i+1)), nil))
	}

	list, err := store.ListReports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "mar", list[0].ID)
	assert.Equal(t, "feb", list[1].ID)
	assert.Equal(t, "jan", list[2].ID)
	assert.True(t, base.AddDate(0, 2, 0).Equal(list[0].GeneratedAt))
	assert.Equal(t, 3, list[0].TransactionCount)
	assert.InDelta(t, 36.0, list[0].AnnualSavings, 0.001)

	limited, err := store.ListReports(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMissingReports(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	_, err := store.GetReport(ctx, "nope")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetReportTransactions(ctx, "nope")
	require.ErrorIs(t, err, common.ErrNotFound)

	err = store.DeleteReport(ctx, "nope")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetReport(ctx, "")
	require.ErrorIs(t, err, ErrEmptyString)
}

func TestDeleteReportRemovesTransactions(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveReport(ctx, testReport("r1", time.Now(), 5), []model.RedactedTransaction{
		{Date: "2024-01-01", Description: "A", Amount: 1},
	}))
	require.NoError(t, store.DeleteReport(ctx, "r1"))

	var remaining int
	require.NoError(t, store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM report_transactions`).Scan(&remaining))
	assert.Zero(t, remaining)
}
