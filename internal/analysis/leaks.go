package analysis

import (
	"fmt"
	"sort"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
	"github.com/Veraticus/the-leaks-must-stop/internal/recurrence"
)

const (
	subscriptionLeakConfidence = 0.5
	shareSubscriptionMin       = 0.6

	microMaxAverage = 10.0
	microMinCount   = 10

	defaultMonths = 3
	daysPerMonth  = 30
)

// detectLeaks fills the leak list, totals, top spending, easy wins and
// recovery plan. A merchant lands in at most one leak category:
// subscriptions first, then fees, food delivery and small purchases.
func (a *Analyzer) detectLeaks(report *model.Report, transactions []model.Transaction, subscriptions []model.Subscription) {
	groups := a.detector.GroupByMerchant(transactions)
	months := float64(a.estimateMonths(transactions))
	counted := make(map[string]bool)

	var leaks []model.Leak
	var total float64

	for _, sub := range subscriptions {
		if sub.Confidence < subscriptionLeakConfidence {
			continue
		}
		leaks = append(leaks, model.Leak{
			Category:    model.LeakSubscription,
			Merchant:    sub.Merchant,
			MonthlyCost: sub.MonthlyCost,
			YearlyCost:  sub.AnnualCost,
			Explanation: sub.Reason,
		})
		total += sub.MonthlyCost
		counted[sub.Merchant] = true
	}

	scans := []struct {
		category string
		match    func(g *recurrence.MerchantGroup) bool
		explain  func(g *recurrence.MerchantGroup) string
	}{
		{
			category: model.LeakFees,
			match:    func(g *recurrence.MerchantGroup) bool { return containsAny(g.Merchant, a.keywords.Fees) },
			explain: func(g *recurrence.MerchantGroup) string {
				return fmt.Sprintf("Bank/service fees: %d charges totaling $%.2f", g.Count(), g.Total)
			},
		},
		{
			category: model.LeakFoodDelivery,
			match:    func(g *recurrence.MerchantGroup) bool { return containsAny(g.Merchant, a.keywords.FoodDelivery) },
			explain: func(g *recurrence.MerchantGroup) string {
				return fmt.Sprintf("Food delivery: %d orders totaling $%.2f", g.Count(), g.Total)
			},
		},
		{
			category: model.LeakMicroPurchase,
			match: func(g *recurrence.MerchantGroup) bool {
				return g.Count() >= microMinCount && g.Average() < microMaxAverage
			},
			explain: func(*recurrence.MerchantGroup) string {
				return "Convenience store purchases: Small amounts can add up over time"
			},
		},
	}

	for _, scan := range scans {
		for _, g := range groups {
			if counted[g.Merchant] || !scan.match(g) {
				continue
			}
			monthly := normalize.Round2(g.Total / months)
			leaks = append(leaks, model.Leak{
				Category:    scan.category,
				Merchant:    g.Merchant,
				MonthlyCost: monthly,
				YearlyCost:  normalize.Round2(monthly * 12),
				Explanation: scan.explain(g),
			})
			total += monthly
			counted[g.Merchant] = true
		}
	}

	sort.SliceStable(leaks, func(i, j int) bool {
		return leaks[i].MonthlyCost > leaks[j].MonthlyCost
	})

	report.MonthlyLeak = normalize.Round2(total)
	report.AnnualSavings = normalize.Round2(total * 12)
	report.TopLeaks = append([]model.Leak(nil), limit(leaks, maxTopLeaks)...)
	report.TopSpending = topSpending(transactions)
	report.EasyWins = limit(easyWins(leaks), maxEasyWins)
	report.RecoveryPlan = recoveryPlan(leaks, total)
}

// estimateMonths is the global month span used to normalize fee, delivery
// and small-purchase totals: whole 30-day periods, at least one, or three
// when no dates parse.
func (a *Analyzer) estimateMonths(transactions []model.Transaction) int {
	_, _, days, ok := a.detector.DateRange(transactions)
	if !ok || days <= 0 {
		return defaultMonths
	}
	return max(1, days/daysPerMonth)
}
