package analysis

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

// Disclaimer is attached to every report.
const Disclaimer = "This analysis is for informational purposes only. Not financial advice."

var onboardingPlan = []string{
	"Upload your bank statement to get started",
	"We'll analyze your spending patterns",
	"Get personalized recommendations to save money",
}

const (
	deliveryRecoverable = 0.5
	microRecoverable    = 0.3
	goalThreshold       = 100.0
	maxShareCategories  = 3
	shareLeakWindow     = 5
)

// easyWins suggests one action per leak category, in leak order.
func easyWins(leaks []model.Leak) []model.EasyWin {
	var wins []model.EasyWin
	seen := make(map[string]bool)

	for _, leak := range leaks {
		if seen[leak.Category] {
			continue
		}

		switch leak.Category {
		case model.LeakSubscription:
			if strings.Contains(leak.Merchant, "GYM") || strings.Contains(leak.Merchant, "FITNESS") {
				wins = append(wins, model.EasyWin{
					Title:                  fmt.Sprintf("Audit %s usage", leak.Merchant),
					EstimatedYearlySavings: leak.YearlyCost,
					Action:                 "Track gym visits for 2 weeks - if less than 8 visits per month, cancel and use free alternatives",
				})
			} else {
				wins = append(wins, model.EasyWin{
					Title:                  "Consolidate streaming services",
					EstimatedYearlySavings: leak.YearlyCost,
					Action:                 "Keep only 1-2 streaming services you actually watch. Rotate subscriptions monthly instead of paying for all.",
				})
			}
		case model.LeakFoodDelivery:
			wins = append(wins, model.EasyWin{
				Title:                  "Reduce delivery orders",
				EstimatedYearlySavings: normalize.Round2(leak.YearlyCost * deliveryRecoverable),
				Action:                 "Set a weekly delivery budget. Try meal prepping on Sundays to reduce takeout frequency.",
			})
		case model.LeakFees:
			wins = append(wins, model.EasyWin{
				Title:                  "Switch to fee-free banking",
				EstimatedYearlySavings: leak.YearlyCost,
				Action:                 "Open account with online bank like Ally or local credit union to eliminate ATM and account fees.",
			})
		case model.LeakMicroPurchase:
			wins = append(wins, model.EasyWin{
				Title:                  "Cut convenience store runs",
				EstimatedYearlySavings: normalize.Round2(leak.YearlyCost * microRecoverable),
				Action:                 "Buy snacks and drinks in bulk at grocery store. Small daily purchases add up significantly.",
			})
		default:
			continue
		}
		seen[leak.Category] = true
	}
	return wins
}

// recoveryPlan builds week-by-week steps for the leak categories present,
// then general advice, then a goal line when the leak is large enough.
func recoveryPlan(leaks []model.Leak, monthlyLeak float64) []string {
	var plan []string

	var subs, fees int
	var deliveryYearly float64
	var hasDelivery bool
	for _, l := range leaks {
		switch l.Category {
		case model.LeakSubscription:
			subs++
		case model.LeakFoodDelivery:
			hasDelivery = true
			deliveryYearly += l.YearlyCost
		case model.LeakFees:
			fees++
		}
	}

	if subs > 0 {
		plan = append(plan, fmt.Sprintf("Week 1: Audit all %d subscriptions - cancel or pause unused ones", subs))
	}
	if hasDelivery {
		weekly := normalize.Round0(deliveryYearly / 52 * deliveryRecoverable)
		plan = append(plan, fmt.Sprintf("Week 2: Set weekly food delivery budget of $%.0f", weekly))
	}
	if fees > 0 {
		plan = append(plan, "Week 3: Research and open a fee-free bank account")
	}

	plan = append(plan,
		"Month 2: Track all discretionary spending for 30 days",
		"Set up automatic transfers of saved money to separate savings account",
		"Schedule monthly 15-minute spending reviews to maintain awareness",
	)

	if monthlyLeak > goalThreshold {
		target := normalize.Round0(monthlyLeak * 0.5)
		plan = append(plan, fmt.Sprintf("Goal: Reduce monthly leaks from $%.0f to $%.0f", normalize.Round0(monthlyLeak), target))
	}
	return plan
}

// shareSummary is the merchant-free view: up to three leak categories
// from the first five leaks, with rounded monthly amounts.
func shareSummary(report *model.Report, subscriptions []model.Subscription) *model.ShareSummary {
	var top []model.ShareCategory
	seen := make(map[string]bool)
	for _, l := range limit(report.TopLeaks, shareLeakWindow) {
		category := l.Category
		if category == "" {
			category = string(model.CategoryOther)
		}
		if !seen[category] {
			seen[category] = true
			top = append(top, model.ShareCategory{Category: category, Monthly: normalize.Round2(l.MonthlyCost)})
		}
		if len(top) >= maxShareCategories {
			break
		}
	}
	if top == nil {
		top = []model.ShareCategory{}
	}

	var count int
	for _, s := range subscriptions {
		if s.Confidence >= shareSubscriptionMin {
			count++
		}
	}

	return &model.ShareSummary{
		MonthlyLeak:       normalize.Round2(report.MonthlyLeak),
		AnnualSavings:     normalize.Round2(report.AnnualSavings),
		TopCategories:     top,
		SubscriptionCount: count,
		Tagline:           fmt.Sprintf("I found $%.0f/year in hidden spending leaks!", normalize.Round0(report.AnnualSavings)),
	}
}
