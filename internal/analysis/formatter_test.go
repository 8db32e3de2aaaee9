package analysis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

func sampleReport() *model.Report {
	return &model.Report{
		ID:               "report-1",
		GeneratedAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		TransactionCount: 42,
		MonthlyLeak:      61.5,
		AnnualSavings:    738,
		Disclaimer:       Disclaimer,
		TopLeaks: []model.Leak{
			{Category: model.LeakSubscription, Merchant: "NETFLIX", MonthlyCost: 15.99, YearlyCost: 191.88, Explanation: "Recurring charge"},
			{Category: model.LeakFoodDelivery, Merchant: "UBER EATS", MonthlyCost: 45.51, YearlyCost: 546.12},
		},
		Subscriptions: []model.Subscription{
			{Merchant: "NETFLIX", MonthlyCost: 15.99, LastDate: "2024-02-15", Confidence: 0.9},
		},
		CategorySummary: []model.CategorySummary{
			{Category: model.CategoryGroceries, Total: 300, Percent: 75},
			{Category: model.CategorySubscriptions, Total: 100, Percent: 25},
		},
		Comparison: &model.MonthComparison{
			PreviousMonth: "2024-01", CurrentMonth: "2024-02",
			PreviousTotal: 200, CurrentTotal: 250, TotalChange: 50, TotalChangePercent: 25,
			MonthsAnalyzed: 2,
			TopChanges:     []model.CategoryChange{{Category: model.CategoryDining, Change: 50}},
		},
		PriceChanges: []model.PriceChange{
			{Merchant: "SPOTIFY", OldPrice: 9.99, NewPrice: 11.99, ChangeDate: "2024-02-01", YearlyImpact: 24},
		},
		DuplicateSubscriptions: []model.DuplicateGroup{
			{ServiceType: "streaming", Merchants: []string{"NETFLIX", "HULU"}, Count: 2, MonthlyCost: 23.98, Suggestion: "Keep one"},
		},
		TopSpending: []model.TopSpending{
			{Date: "2024-02-10", Merchant: "BEST BUY", Amount: 499.99, Category: model.CategoryShopping},
		},
		EasyWins:     []model.EasyWin{{Title: "Reduce delivery orders", Action: "Meal prep", EstimatedYearlySavings: 273.06}},
		RecoveryPlan: []string{"Week 1: Cancel NETFLIX"},
		ShareSummary: &model.ShareSummary{Tagline: "I found $738/year in hidden spending leaks!"},
	}
}

func TestCLIFormatterFormat(t *testing.T) {
	out, err := NewCLIFormatter().Format(sampleReport())
	require.NoError(t, err)

	for _, want := range []string{
		"Spending Leak Report",
		"42 transactions analyzed",
		"$61.50",
		"$738.00",
		"Netflix",
		"Uber Eats",
		"Recurring charge",
		"Groceries",
		"75.0%",
		"2024-02 vs 2024-01:",
		"+$50.00",
		"Spotify: $9.99 → $11.99 since 2024-02-01",
		"2 streaming services: Netflix, Hulu",
		"Best Buy",
		"Reduce delivery orders",
		"Week 1: Cancel NETFLIX",
		"I found $738/year in hidden spending leaks!",
		Disclaimer,
	} {
		assert.Contains(t, out, want)
	}
}

func TestCLIFormatterEmptyReport(t *testing.T) {
	report := &model.Report{
		Disclaimer:   Disclaimer,
		RecoveryPlan: onboardingPlan,
	}

	out, err := NewCLIFormatter().Format(report)
	require.NoError(t, err)

	assert.Contains(t, out, "Getting started")
	assert.Contains(t, out, onboardingPlan[0])
	assert.Contains(t, out, "$0.00")
	assert.NotContains(t, out, "Top Leaks")
}

func TestCLIFormatterSkipsSingleMonthComparison(t *testing.T) {
	report := sampleReport()
	report.Comparison.MonthsAnalyzed = 1

	out, err := NewCLIFormatter().Format(report)
	require.NoError(t, err)
	assert.NotContains(t, out, "2024-02 vs 2024-01")
}

func TestCLIFormatterNilReport(t *testing.T) {
	out, err := NewCLIFormatter().Format(nil)
	require.NoError(t, err)
	assert.Contains(t, out, "No report available")
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{Indent: true}.Format(sampleReport())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.InDelta(t, 61.5, decoded["monthlyLeak"], 0.001)
	assert.Equal(t, "report-1", decoded["id"])

	_, err = JSONFormatter{}.Format(nil)
	require.Error(t, err)
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{format: ""},
		{format: "cli"},
		{format: "json"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			f, err := NewFormatter(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestMoneyHelpers(t *testing.T) {
	assert.Equal(t, "$12.50", money(12.5))
	assert.Equal(t, "+$3.00", signedMoney(3))
	assert.Equal(t, "-$3.00", signedMoney(-3))
	assert.Equal(t, "Netfl...", truncate("Netflix Premium", 8))
	assert.Equal(t, "Hulu", truncate("Hulu", 8))
}
