package sheets

import (
	"github.com/shopspring/decimal"
)

// LeakRow represents a single row in the leaks section.
type LeakRow struct {
	Merchant    string
	Category    string
	Explanation string
	Monthly     decimal.Decimal
	Yearly      decimal.Decimal
}

// SubscriptionRow represents a single row in the subscriptions section.
type SubscriptionRow struct {
	Merchant    string
	LastDate    string
	Monthly     decimal.Decimal
	Annual      decimal.Decimal
	Confidence  int // percent
	Occurrences int
}

// CategoryRow represents a single row in the category breakdown.
type CategoryRow struct {
	Category         string
	TopMerchants     string
	Total            decimal.Decimal
	Percent          decimal.Decimal
	TransactionCount int
}

// WinRow is one easy win.
type WinRow struct {
	Title   string
	Action  string
	Savings decimal.Decimal
}

// ReportData holds everything written for one report.
type ReportData struct {
	ReportID      string
	GeneratedAt   string
	Disclaimer    string
	MonthlyLeak   decimal.Decimal
	AnnualSavings decimal.Decimal
	Transactions  int
	Leaks         []LeakRow
	Subscriptions []SubscriptionRow
	Categories    []CategoryRow
	EasyWins      []WinRow
	RecoveryPlan  []string
}
