// Package analysis turns categorized transactions into a spending-leak
// report: subscriptions, fees, food delivery and small frequent purchases,
// plus easy wins, a recovery plan and a share-safe summary.
package analysis

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Veraticus/the-leaks-must-stop/internal/classification"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
	"github.com/Veraticus/the-leaks-must-stop/internal/recurrence"
	"github.com/Veraticus/the-leaks-must-stop/internal/service"
)

// DefaultEnrichTimeout bounds the optional enrichment call.
const DefaultEnrichTimeout = 30 * time.Second

const (
	maxTopLeaks    = 10
	maxTopSpending = 5
	maxEasyWins    = 5
	minMerchantLen = 2
)

// Analyzer orchestrates categorization, recurrence detection and the leak
// heuristics. It holds no per-run state and is safe for concurrent use.
type Analyzer struct {
	categorizer *classification.Categorizer
	detector    *recurrence.Detector
	enricher    service.Enricher
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
	keywords    Keywords
	timeout     time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithKeywords replaces the fee, food-delivery and exclude tables.
func WithKeywords(k Keywords) Option {
	return func(a *Analyzer) { a.keywords = k }
}

// WithCategorizer replaces the default categorizer.
func WithCategorizer(c *classification.Categorizer) Option {
	return func(a *Analyzer) { a.categorizer = c }
}

// WithDetector replaces the default recurrence detector.
func WithDetector(d *recurrence.Detector) Option {
	return func(a *Analyzer) { a.detector = d }
}

// WithEnricher enables the enrichment overlay. A zero timeout uses
// DefaultEnrichTimeout.
func WithEnricher(e service.Enricher, timeout time.Duration) Option {
	return func(a *Analyzer) {
		a.enricher = e
		if timeout > 0 {
			a.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithIDGenerator sets the report ID source.
func WithIDGenerator(newID func() string) Option {
	return func(a *Analyzer) { a.newID = newID }
}

// NewAnalyzer creates an Analyzer with the built-in tables.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		categorizer: classification.NewDefaultCategorizer(),
		detector:    recurrence.NewDetector(recurrence.DefaultConfig(), nil),
		logger:      slog.Default().With("component", "analysis"),
		now:         time.Now,
		newID:       uuid.NewString,
		keywords:    DefaultKeywords(),
		timeout:     DefaultEnrichTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.keywords = a.keywords.upper()
	return a
}

// Analyze builds a report. It only fails when ctx is already done; an
// enrichment failure leaves the heuristic report in place.
func (a *Analyzer) Analyze(ctx context.Context, transactions []model.Transaction) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := a.filter(transactions)
	if len(filtered) == 0 {
		a.logger.Debug("No usable transactions, returning empty report", "input", len(transactions))
		return a.emptyReport(), nil
	}

	categorized := a.categorizer.CategorizeAll(filtered)

	report := a.newReport()
	report.TransactionCount = len(categorized)
	report.CategorySummary = classification.Summarize(categorized)

	subscriptions := a.detector.DetectSubscriptions(categorized)
	report.Subscriptions = subscriptions
	report.Comparison = a.detector.DetectMonthComparison(categorized)
	report.PriceChanges = a.detector.DetectPriceChanges(categorized)
	report.DuplicateSubscriptions = a.detector.DetectDuplicateSubscriptions(subscriptions)

	a.detectLeaks(report, categorized, subscriptions)

	if a.enricher != nil {
		a.enrich(ctx, report, categorized)
	}

	report.ShareSummary = shareSummary(report, subscriptions)
	fillEmpty(report)

	a.logger.Info("Analysis complete",
		"transactions", report.TransactionCount,
		"subscriptions", len(report.Subscriptions),
		"leaks", len(report.TopLeaks),
		"monthly_leak", report.MonthlyLeak,
		"enriched", report.Enriched)

	return report, nil
}

// filter drops non-positive amounts, balance and summary lines, and
// merchants that are too short or purely numeric.
func (a *Analyzer) filter(transactions []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if txn.Amount <= 0 || math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
			continue
		}

		merchant := txn.NormalizedMerchant
		if merchant == "" {
			merchant = txn.RawMerchant
		}
		merchant = strings.ToUpper(merchant)

		if containsAny(merchant, a.keywords.Exclude) {
			continue
		}
		if utf8.RuneCountInString(merchant) < minMerchantLen || isDigits(strings.ReplaceAll(merchant, " ", "")) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (a *Analyzer) enrich(ctx context.Context, report *model.Report, transactions []model.Transaction) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	enrichment, err := a.enricher.Enrich(ctx, transactions, report)
	if err != nil {
		a.logger.Warn("Enrichment unavailable, keeping heuristic report", "error", err)
		return
	}
	if enrichment == nil {
		return
	}
	mergeEnrichment(report, enrichment)
}

// mergeEnrichment overlays model suggestions: new leaks are appended when
// their merchant is not already listed, easy wins and the recovery plan
// are replaced wholesale when provided.
func mergeEnrichment(report *model.Report, enrichment *model.Enrichment) {
	existing := make(map[string]bool, len(report.TopLeaks))
	for _, l := range report.TopLeaks {
		existing[l.Merchant] = true
	}

	monthly := report.MonthlyLeak
	for _, l := range enrichment.EnhancedLeaks {
		if existing[l.Merchant] {
			continue
		}
		existing[l.Merchant] = true

		l.MonthlyCost = normalize.Round2(l.MonthlyCost)
		if l.YearlyCost == 0 {
			l.YearlyCost = l.MonthlyCost * 12
		}
		l.YearlyCost = normalize.Round2(l.YearlyCost)

		report.TopLeaks = append(report.TopLeaks, l)
		monthly += l.MonthlyCost
	}

	if len(enrichment.EasyWins) > 0 {
		report.EasyWins = append([]model.EasyWin(nil), limit(enrichment.EasyWins, maxEasyWins)...)
	}
	if len(enrichment.RecoveryPlan) > 0 {
		report.RecoveryPlan = append([]string(nil), enrichment.RecoveryPlan...)
	}

	report.MonthlyLeak = normalize.Round2(monthly)
	report.AnnualSavings = normalize.Round2(report.MonthlyLeak * 12)
	report.Enriched = true
}

func (a *Analyzer) newReport() *model.Report {
	return &model.Report{
		ID:          a.newID(),
		GeneratedAt: a.now().UTC(),
		Disclaimer:  Disclaimer,
	}
}

func (a *Analyzer) emptyReport() *model.Report {
	report := a.newReport()
	report.RecoveryPlan = append([]string(nil), onboardingPlan...)
	fillEmpty(report)
	return report
}

// fillEmpty replaces nil slices so the JSON shape always carries arrays.
func fillEmpty(r *model.Report) {
	if r.TopLeaks == nil {
		r.TopLeaks = []model.Leak{}
	}
	if r.TopSpending == nil {
		r.TopSpending = []model.TopSpending{}
	}
	if r.EasyWins == nil {
		r.EasyWins = []model.EasyWin{}
	}
	if r.RecoveryPlan == nil {
		r.RecoveryPlan = []string{}
	}
	if r.CategorySummary == nil {
		r.CategorySummary = []model.CategorySummary{}
	}
	if r.Subscriptions == nil {
		r.Subscriptions = []model.Subscription{}
	}
	if r.PriceChanges == nil {
		r.PriceChanges = []model.PriceChange{}
	}
	if r.DuplicateSubscriptions == nil {
		r.DuplicateSubscriptions = []model.DuplicateGroup{}
	}
}

func topSpending(transactions []model.Transaction) []model.TopSpending {
	sorted := append([]model.Transaction(nil), transactions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})

	out := make([]model.TopSpending, 0, maxTopSpending)
	for _, txn := range limit(sorted, maxTopSpending) {
		merchant := txn.RawMerchant
		if merchant == "" {
			merchant = txn.NormalizedMerchant
		}
		if merchant == "" {
			merchant = "Unknown"
		}
		category := txn.Category
		if category == "" {
			category = model.CategoryOther
		}
		out = append(out, model.TopSpending{
			Date:     txn.Date,
			Merchant: merchant,
			Amount:   normalize.Round2(txn.Amount),
			Category: category,
		})
	}
	return out
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
