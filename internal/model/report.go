package model

import "time"

// Subscription is a merchant group that scored on the confidence ladder.
type Subscription struct {
	Merchant    string  `json:"merchant"`
	LastDate    string  `json:"lastDate"`
	Reason      string  `json:"reason"`
	MonthlyCost float64 `json:"monthlyCost"`
	AnnualCost  float64 `json:"annualCost"`
	Confidence  float64 `json:"confidence"`
	Occurrences int     `json:"occurrences"`
}

// Leak is one savings opportunity in the unified leak list.
type Leak struct {
	Category    string  `json:"category"`
	Merchant    string  `json:"merchant"`
	Explanation string  `json:"explanation"`
	MonthlyCost float64 `json:"monthlyCost"`
	YearlyCost  float64 `json:"yearlyCost"`
}

// CategoryChange is the delta of one category between two months.
type CategoryChange struct {
	Category      Category `json:"category"`
	Previous      float64  `json:"previous"`
	Current       float64  `json:"current"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"changePercent"`
}

// MonthComparison compares the two most recent calendar months.
type MonthComparison struct {
	PreviousMonth      string           `json:"previousMonth"`
	CurrentMonth       string           `json:"currentMonth"`
	TopChanges         []CategoryChange `json:"topChanges"`
	Spikes             []CategoryChange `json:"spikes"`
	PreviousTotal      float64          `json:"previousTotal"`
	CurrentTotal       float64          `json:"currentTotal"`
	TotalChange        float64          `json:"totalChange"`
	TotalChangePercent float64          `json:"totalChangePercent"`
	MonthsAnalyzed     int              `json:"monthsAnalyzed"`
}

// PriceChange records a merchant whose price went up over the period.
type PriceChange struct {
	Merchant        string  `json:"merchant"`
	FirstDate       string  `json:"firstDate"`
	ChangeDate      string  `json:"changeDate"`
	OldPrice        float64 `json:"oldPrice"`
	NewPrice        float64 `json:"newPrice"`
	Increase        float64 `json:"increase"`
	IncreasePercent float64 `json:"increasePercent"`
	YearlyImpact    float64 `json:"yearlyImpact"`
}

// DuplicateGroup is a set of subscriptions that serve the same purpose.
type DuplicateGroup struct {
	ServiceType string   `json:"serviceType"`
	Suggestion  string   `json:"suggestion"`
	Merchants   []string `json:"merchants"`
	MonthlyCost float64  `json:"monthlyCost"`
	YearlyCost  float64  `json:"yearlyCost"`
	Count       int      `json:"count"`
}

// MerchantTotal is a merchant's share of a category.
type MerchantTotal struct {
	Merchant string  `json:"merchant"`
	Total    float64 `json:"total"`
}

// CategorySummary aggregates spend per category.
type CategorySummary struct {
	Category         Category        `json:"category"`
	TopMerchants     []MerchantTotal `json:"topMerchants"`
	Total            float64         `json:"total"`
	Percent          float64         `json:"percent"`
	TransactionCount int             `json:"transactionCount"`
}

// EasyWin is a single actionable suggestion.
type EasyWin struct {
	Title                  string  `json:"title"`
	Action                 string  `json:"action"`
	EstimatedYearlySavings float64 `json:"estimatedYearlySavings"`
}

// TopSpending is one of the largest individual purchases.
type TopSpending struct {
	Date     string   `json:"date"`
	Merchant string   `json:"merchant"`
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
}

// ShareCategory is a merchant-free category total.
type ShareCategory struct {
	Category string  `json:"category"`
	Monthly  float64 `json:"monthly"`
}

// ShareSummary is the privacy-reduced view of a report.
type ShareSummary struct {
	Tagline           string          `json:"tagline"`
	TopCategories     []ShareCategory `json:"topCategories"`
	MonthlyLeak       float64         `json:"monthlyLeak"`
	AnnualSavings     float64         `json:"annualSavings"`
	SubscriptionCount int             `json:"subscriptionCount"`
}

// Report is the result of one analysis run.
type Report struct {
	GeneratedAt            time.Time         `json:"generatedAt"`
	Comparison             *MonthComparison  `json:"comparison"`
	ShareSummary           *ShareSummary     `json:"shareSummary"`
	ID                     string            `json:"id"`
	Disclaimer             string            `json:"disclaimer"`
	TopLeaks               []Leak            `json:"topLeaks"`
	TopSpending            []TopSpending     `json:"topSpending"`
	EasyWins               []EasyWin         `json:"easyWins"`
	RecoveryPlan           []string          `json:"recoveryPlan"`
	CategorySummary        []CategorySummary `json:"categorySummary"`
	Subscriptions          []Subscription    `json:"subscriptions"`
	PriceChanges           []PriceChange     `json:"priceChanges"`
	DuplicateSubscriptions []DuplicateGroup  `json:"duplicateSubscriptions"`
	MonthlyLeak            float64           `json:"monthlyLeak"`
	AnnualSavings          float64           `json:"annualSavings"`
	TransactionCount       int               `json:"transactionCount"`
	Enriched               bool              `json:"enriched"`
}

// ReportSummary is the listing view of a stored report.
type ReportSummary struct {
	GeneratedAt      time.Time `json:"generatedAt"`
	ID               string    `json:"id"`
	MonthlyLeak      float64   `json:"monthlyLeak"`
	AnnualSavings    float64   `json:"annualSavings"`
	TransactionCount int       `json:"transactionCount"`
}

// Enrichment is the optional overlay returned by the LLM collaborator.
// CategoryImprovements maps a category to a suggested regrouping and is
// informational only.
type Enrichment struct {
	CategoryImprovements map[string]string `json:"categoryImprovements,omitempty"`
	EnhancedLeaks        []Leak            `json:"enhancedLeaks,omitempty"`
	EasyWins             []EasyWin         `json:"easyWins,omitempty"`
	RecoveryPlan         []string          `json:"recoveryPlan,omitempty"`
}
