package recurrence

import (
	"math"
	"sort"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

type pricePeriod struct {
	start time.Time
	price float64
}

type datedAmount struct {
	date   time.Time
	amount float64
}

// DetectPriceChanges finds merchants whose charge went up between the first
// and the latest distinct price. Consecutive charges within the configured
// tolerance count as the same price.
func (d *Detector) DetectPriceChanges(transactions []model.Transaction) []model.PriceChange {
	var changes []model.PriceChange

	for _, g := range d.GroupByMerchant(transactions) {
		var points []datedAmount
		for _, txn := range g.Transactions {
			t, ok := d.dates.Parse(txn.Date)
			if !ok || txn.Amount <= 0 || math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
				continue
			}
			points = append(points, datedAmount{date: t, amount: txn.Amount})
		}
		if len(points) < 2 {
			continue
		}
		sort.SliceStable(points, func(i, j int) bool { return points[i].date.Before(points[j].date) })

		periods := []pricePeriod{{start: points[0].date, price: points[0].amount}}
		for _, p := range points[1:] {
			current := periods[len(periods)-1]
			if math.Abs(p.amount-current.price) <= d.cfg.PriceTolerance {
				continue
			}
			periods = append(periods, pricePeriod{start: p.date, price: p.amount})
		}
		if len(periods) < 2 {
			continue
		}

		first, last := periods[0], periods[len(periods)-1]
		increase := last.price - first.price
		if increase <= 0 {
			continue
		}
		pct := increase / first.price * 100
		if increase < d.cfg.PriceMinIncrease && pct < d.cfg.PriceMinPercent {
			continue
		}

		changes = append(changes, model.PriceChange{
			Merchant:        g.Merchant,
			OldPrice:        normalize.Round2(first.price),
			NewPrice:        normalize.Round2(last.price),
			Increase:        normalize.Round2(increase),
			IncreasePercent: normalize.Round1(pct),
			YearlyImpact:    normalize.Round2(increase * 12),
			FirstDate:       first.start.Format("2006-01-02"),
			ChangeDate:      last.start.Format("2006-01-02"),
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].YearlyImpact > changes[j].YearlyImpact
	})
	return limit(changes, d.cfg.MaxPriceChanges)
}
