package recurrence

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// MerchantGroup holds every transaction sharing one normalized merchant.
// Amounts and dates only contain values that parsed.
type MerchantGroup struct {
	Merchant     string
	Transactions []model.Transaction
	Amounts      []float64
	Dates        []time.Time
	Total        float64
}

// Count is the number of transactions in the group.
func (g *MerchantGroup) Count() int {
	return len(g.Transactions)
}

// Average is the mean of the valid amounts.
func (g *MerchantGroup) Average() float64 {
	if len(g.Amounts) == 0 {
		return 0
	}
	return g.Total / float64(len(g.Amounts))
}

// Spread is max minus min of the valid amounts.
func (g *MerchantGroup) Spread() float64 {
	if len(g.Amounts) == 0 {
		return 0
	}
	lo, hi := g.Amounts[0], g.Amounts[0]
	for _, a := range g.Amounts[1:] {
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	return hi - lo
}

// MeanInterval returns the average number of days between sorted dates.
func (g *MerchantGroup) MeanInterval() (float64, bool) {
	if len(g.Dates) < 2 {
		return 0, false
	}
	dates := append([]time.Time(nil), g.Dates...)
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var sum int
	for i := 1; i < len(dates); i++ {
		sum += int(dates[i].Sub(dates[i-1]).Hours() / 24)
	}
	return float64(sum) / float64(len(dates)-1), true
}

// LastDate returns the most recent parsed date.
func (g *MerchantGroup) LastDate() (time.Time, bool) {
	if len(g.Dates) == 0 {
		return time.Time{}, false
	}
	last := g.Dates[0]
	for _, d := range g.Dates[1:] {
		if d.After(last) {
			last = d
		}
	}
	return last, true
}

// GroupByMerchant buckets transactions by uppercased normalized merchant,
// preserving first-seen order.
func (d *Detector) GroupByMerchant(transactions []model.Transaction) []*MerchantGroup {
	index := make(map[string]*MerchantGroup)
	var groups []*MerchantGroup

	for _, txn := range transactions {
		merchant := txn.NormalizedMerchant
		if merchant == "" {
			merchant = txn.RawMerchant
		}
		key := strings.ToUpper(strings.TrimSpace(merchant))
		if key == "" {
			continue
		}

		g, ok := index[key]
		if !ok {
			g = &MerchantGroup{Merchant: key}
			index[key] = g
			groups = append(groups, g)
		}

		g.Transactions = append(g.Transactions, txn)
		if !math.IsNaN(txn.Amount) && !math.IsInf(txn.Amount, 0) {
			g.Amounts = append(g.Amounts, txn.Amount)
			g.Total += txn.Amount
		}
		if t, ok := d.dates.Parse(txn.Date); ok {
			g.Dates = append(g.Dates, t)
		}
	}

	return groups
}
