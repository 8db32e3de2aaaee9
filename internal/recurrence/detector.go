// Package recurrence finds subscriptions and spending trends in categorized
// transactions.
package recurrence

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

// Ladder confidences.
const (
	ConfidenceKnown       = 0.95
	ConfidenceRecurring   = 0.9
	ConfidencePeriodic    = 0.85
	ConfidenceDirectDebit = 0.75
	ConfidenceConsistent  = 0.7
	ConfidenceKnownSingle = 0.6
)

// Detector scores merchant groups for subscription likelihood. All methods
// are total: malformed rows are skipped, never fatal.
type Detector struct {
	dates *normalize.DateParser
	cfg   Config
}

// NewDetector creates a detector. A nil date parser uses the wall clock.
func NewDetector(cfg Config, dates *normalize.DateParser) *Detector {
	if dates == nil {
		dates = normalize.NewDateParser(nil)
	}
	cfg.KnownSubscriptions = upperAll(cfg.KnownSubscriptions)
	cfg.RecurringMarkers = upperAll(cfg.RecurringMarkers)
	buckets := make([]ServiceBucket, len(cfg.ServiceBuckets))
	for i, b := range cfg.ServiceBuckets {
		buckets[i] = ServiceBucket{Name: b.Name, Suggestion: b.Suggestion, Keywords: upperAll(b.Keywords)}
	}
	cfg.ServiceBuckets = buckets
	return &Detector{cfg: cfg, dates: dates}
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// DetectSubscriptions scores every merchant group and returns those that
// reach the reporting threshold, most expensive first.
func (d *Detector) DetectSubscriptions(transactions []model.Transaction) []model.Subscription {
	var subs []model.Subscription

	for _, g := range d.GroupByMerchant(transactions) {
		if len(g.Amounts) == 0 {
			continue
		}

		confidence, reason := d.score(g)
		avg := g.Average()
		if confidence < d.cfg.MinReportedScore || avg <= 0 || math.IsNaN(avg) || math.IsInf(avg, 0) {
			continue
		}

		var lastDate string
		if last, ok := g.LastDate(); ok {
			lastDate = last.Format("2006-01-02")
		}

		subs = append(subs, model.Subscription{
			Merchant:    g.Merchant,
			MonthlyCost: normalize.Round2(avg),
			AnnualCost:  normalize.Round2(avg * 12),
			Confidence:  confidence,
			LastDate:    lastDate,
			Occurrences: g.Count(),
			Reason:      reason,
		})
	}

	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].MonthlyCost > subs[j].MonthlyCost
	})

	return subs
}

// score walks the confidence ladder. The first matching rung wins.
func (d *Detector) score(g *MerchantGroup) (float64, string) {
	avg := g.Average()
	spread := g.Spread()
	count := g.Count()

	consistent := spread <= d.cfg.ConsistentAbs || (avg > 0 && spread/avg <= d.cfg.ConsistentRel)
	loose := spread <= d.cfg.LooselyAbs || (avg > 0 && spread/avg <= d.cfg.LooselyRel)
	known := containsAny(g.Merchant, d.cfg.KnownSubscriptions)
	recurring := containsAny(g.Merchant, d.cfg.RecurringMarkers)

	interval, hasInterval := g.MeanInterval()
	periodic := hasInterval && interval >= d.cfg.MinPeriodDays && interval <= d.cfg.MaxPeriodDays

	switch {
	case known:
		return ConfidenceKnown, "Known subscription service"
	case recurring && count >= 3 && periodic:
		return ConfidenceRecurring, fmt.Sprintf("Recurring payment: %d charges, ~%.0f days apart", count, interval)
	case count >= 3 && consistent && periodic:
		return ConfidencePeriodic, fmt.Sprintf("Recurring pattern: %d charges, ~%.0f days apart", count, interval)
	case recurring && count >= 3 && loose:
		return ConfidenceDirectDebit, fmt.Sprintf("Direct debit: %d charges of ~$%.2f", count, avg)
	case count >= 2 && consistent:
		return ConfidenceConsistent, fmt.Sprintf("Consistent amounts: %d charges of ~$%.2f", count, avg)
	case known && count == 1:
		// Shadowed by the first rung.
		return ConfidenceKnownSingle, "Known subscription (single charge)"
	default:
		return 0, ""
	}
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
