package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/testutil"
)

func TestDetectMonthComparisonSpan(t *testing.T) {
	tests := []struct {
		name    string
		last    string
		wantNil bool
	}{
		{name: "59 days is too short", last: "2025-03-01", wantNil: true},
		{name: "60 days is too short", last: "2025-03-02", wantNil: true},
		{name: "61 days with two months", last: "2025-03-03", wantNil: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := []model.Transaction{
				testutil.CategorizedTxn("2025-01-01", "COLES", 50, model.CategoryGroceries),
				testutil.CategorizedTxn(tt.last, "COLES", 80, model.CategoryGroceries),
			}
			got := newTestDetector().DetectMonthComparison(txns)
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, "2025-01", got.PreviousMonth)
				assert.Equal(t, "2025-03", got.CurrentMonth)
				assert.Equal(t, 2, got.MonthsAnalyzed)
			}
		})
	}
}

func TestDetectMonthComparisonTotals(t *testing.T) {
	txns := []model.Transaction{
		testutil.CategorizedTxn("2025-01-05", "COLES", 100, model.CategoryGroceries),
		testutil.CategorizedTxn("2025-02-05", "COLES", 100, model.CategoryGroceries),
		testutil.CategorizedTxn("2025-02-10", "NETFLIX", 15, model.CategorySubscriptions),
		testutil.CategorizedTxn("2025-02-11", "PUB", 50, model.CategoryDining),
		testutil.CategorizedTxn("2025-02-15", "SALARY", 4000, model.CategoryIncome),
		testutil.CategorizedTxn("2025-03-05", "COLES", 90, model.CategoryGroceries),
		testutil.CategorizedTxn("2025-03-10", "NETFLIX", 15, model.CategorySubscriptions),
		testutil.CategorizedTxn("2025-03-11", "PUB", 120, model.CategoryDining),
		testutil.CategorizedTxn("2025-03-12", "TAXI", 30, model.CategoryTransport),
		testutil.CategorizedTxn("2025-03-15", "SALARY", 4000, model.CategoryIncome),
		testutil.CategorizedTxn("bad", "PUB", 999, model.CategoryDining),
	}

	got := newTestDetector().DetectMonthComparison(txns)
	require.NotNil(t, got)

	assert.Equal(t, "2025-02", got.PreviousMonth)
	assert.Equal(t, "2025-03", got.CurrentMonth)
	assert.Equal(t, 3, got.MonthsAnalyzed)
	assert.InDelta(t, 165.0, got.PreviousTotal, 1e-9)
	assert.InDelta(t, 255.0, got.CurrentTotal, 1e-9)
	assert.InDelta(t, 90.0, got.TotalChange, 1e-9)
	assert.InDelta(t, 54.5, got.TotalChangePercent, 1e-9)

	require.Len(t, got.TopChanges, 4)
	assert.Equal(t, model.CategoryDining, got.TopChanges[0].Category)
	assert.InDelta(t, 70.0, got.TopChanges[0].Change, 1e-9)
	assert.InDelta(t, 140.0, got.TopChanges[0].ChangePercent, 1e-9)
	assert.Equal(t, model.CategoryTransport, got.TopChanges[1].Category)
	assert.InDelta(t, 100.0, got.TopChanges[1].ChangePercent, 1e-9)
	assert.Equal(t, model.CategoryGroceries, got.TopChanges[2].Category)
	assert.InDelta(t, -10.0, got.TopChanges[2].Change, 1e-9)

	require.Len(t, got.Spikes, 2)
	assert.Equal(t, model.CategoryDining, got.Spikes[0].Category)
	assert.Equal(t, model.CategoryTransport, got.Spikes[1].Category)
}

func TestDetectMonthComparisonSingleMonth(t *testing.T) {
	txns := []model.Transaction{
		testutil.CategorizedTxn("2025-01-01", "COLES", 50, model.CategoryGroceries),
		testutil.CategorizedTxn("2025-03-15", "SALARY", 50, model.CategoryIncome),
	}
	assert.Nil(t, newTestDetector().DetectMonthComparison(txns))
}

func TestDateRange(t *testing.T) {
	d := newTestDetector()

	_, _, _, ok := d.DateRange([]model.Transaction{{Date: "nope"}})
	assert.False(t, ok)

	start, end, days, ok := d.DateRange([]model.Transaction{
		{Date: "15/02/2025"},
		{Date: "2025-01-01"},
		{Date: "Mar 3, 2025"},
	})
	require.True(t, ok)
	assert.Equal(t, "2025-01-01", start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-03", end.Format("2006-01-02"))
	assert.Equal(t, 61, days)
}
