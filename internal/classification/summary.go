package classification

import (
	"sort"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

const topMerchantsPerCategory = 3

type categoryTotals struct {
	merchants map[string]float64
	order     []string
	total     float64
	count     int
}

// Summarize aggregates categorized spending per category, skipping income,
// and sorts the result by total spend.
func Summarize(transactions []model.Transaction) []model.CategorySummary {
	byCategory := make(map[model.Category]*categoryTotals)
	var order []model.Category
	var spend float64

	for _, txn := range transactions {
		category := txn.Category
		if category == "" {
			category = model.CategoryOther
		}
		if category == model.CategoryIncome {
			continue
		}

		ct, ok := byCategory[category]
		if !ok {
			ct = &categoryTotals{merchants: make(map[string]float64)}
			byCategory[category] = ct
			order = append(order, category)
		}

		merchant := txn.NormalizedMerchant
		if merchant == "" {
			merchant = "Unknown"
		}
		if _, seen := ct.merchants[merchant]; !seen {
			ct.order = append(ct.order, merchant)
		}
		ct.merchants[merchant] += txn.Amount
		ct.total += txn.Amount
		ct.count++
		spend += txn.Amount
	}

	summary := make([]model.CategorySummary, 0, len(order))
	for _, category := range order {
		ct := byCategory[category]

		merchants := append([]string(nil), ct.order...)
		sort.SliceStable(merchants, func(i, j int) bool {
			return ct.merchants[merchants[i]] > ct.merchants[merchants[j]]
		})
		if len(merchants) > topMerchantsPerCategory {
			merchants = merchants[:topMerchantsPerCategory]
		}

		top := make([]model.MerchantTotal, 0, len(merchants))
		for _, m := range merchants {
			top = append(top, model.MerchantTotal{Merchant: m, Total: normalize.Round2(ct.merchants[m])})
		}

		var percent float64
		if spend > 0 {
			percent = normalize.Round1(ct.total / spend * 100)
		}

		summary = append(summary, model.CategorySummary{
			Category:         category,
			Total:            normalize.Round2(ct.total),
			Percent:          percent,
			TransactionCount: ct.count,
			TopMerchants:     top,
		})
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].Total > summary[j].Total
	})

	return summary
}
