package llm

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/Veraticus/the-leaks-must-stop/internal/classification"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// Upper edges of the spend ranges sent instead of exact amounts.
var spendBands = []float64{25, 50, 100, 250, 500, 1000, 2500, 5000}

// Aggregate is everything the model gets to see about a statement.
type Aggregate struct {
	MonthlyLeakRange  string           `json:"monthlyLeakRange"`
	Categories        []CategoryBucket `json:"categories"`
	Leaks             []LeakBucket     `json:"leakCategories"`
	TransactionCount  int              `json:"transactionCount"`
	SubscriptionCount int              `json:"subscriptionCount"`
}

// CategoryBucket is one spending category with its total reduced to a range.
type CategoryBucket struct {
	Category     string `json:"category"`
	SpendRange   string `json:"spendRange"`
	Transactions int    `json:"transactions"`
	SharePercent int    `json:"sharePercent"`
}

// LeakBucket counts detected leaks of one kind and their combined monthly
// range.
type LeakBucket struct {
	Category     string `json:"category"`
	MonthlyRange string `json:"monthlyRange"`
	Count        int    `json:"count"`
}

// BuildAggregate reduces categorized transactions and a heuristic report to
// an anonymized summary. No merchant names or exact amounts survive.
func BuildAggregate(transactions []model.Transaction, report *model.Report) Aggregate {
	agg := Aggregate{TransactionCount: len(transactions)}

	var summary []model.CategorySummary
	if report != nil {
		summary = report.CategorySummary
		agg.SubscriptionCount = len(report.Subscriptions)
		agg.MonthlyLeakRange = spendRange(report.MonthlyLeak)
	}
	if len(summary) == 0 {
		summary = classification.Summarize(transactions)
	}

	for _, s := range summary {
		agg.Categories = append(agg.Categories, CategoryBucket{
			Category:     string(s.Category),
			SpendRange:   spendRange(s.Total),
			Transactions: s.TransactionCount,
			SharePercent: roundToFive(s.Percent),
		})
	}

	if report != nil {
		agg.Leaks = leakBuckets(report.TopLeaks)
	}
	if agg.MonthlyLeakRange == "" {
		agg.MonthlyLeakRange = spendRange(0)
	}
	return agg
}

func leakBuckets(leaks []model.Leak) []LeakBucket {
	type tally struct {
		monthly float64
		count   int
	}
	byCategory := make(map[string]*tally)
	for _, l := range leaks {
		t, ok := byCategory[l.Category]
		if !ok {
			t = &tally{}
			byCategory[l.Category] = t
		}
		t.count++
		t.monthly += l.MonthlyCost
	}

	buckets := make([]LeakBucket, 0, len(byCategory))
	for category, t := range byCategory {
		buckets = append(buckets, LeakBucket{
			Category:     category,
			MonthlyRange: spendRange(t.monthly),
			Count:        t.count,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Category < buckets[j].Category
	})
	return buckets
}

// Fingerprint identifies an aggregate for caching.
func (a Aggregate) Fingerprint() string {
	data, err := json.Marshal(a)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

func spendRange(v float64) string {
	if v <= 0 || math.IsNaN(v) {
		return "$0"
	}
	lower := 0.0
	for _, upper := range spendBands {
		if v < upper {
			return fmt.Sprintf("$%.0f-%.0f", lower, upper)
		}
		lower = upper
	}
	return fmt.Sprintf("$%.0f+", lower)
}

func roundToFive(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v/5) * 5)
}
