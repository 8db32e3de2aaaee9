package recurrence

import (
	"math"
	"sort"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

// DateRange returns the earliest and latest parseable dates and the whole
// days between them. ok is false when no date parsed.
func (d *Detector) DateRange(transactions []model.Transaction) (start, end time.Time, days int, ok bool) {
	for _, txn := range transactions {
		t, parsed := d.dates.Parse(txn.Date)
		if !parsed {
			continue
		}
		if !ok || t.Before(start) {
			start = t
		}
		if !ok || t.After(end) {
			end = t
		}
		ok = true
	}
	if !ok {
		return time.Time{}, time.Time{}, 0, false
	}
	return start, end, normalize.DaysBetween(start, end), true
}

type monthBucket struct {
	categories map[model.Category]float64
	total      float64
}

// DetectMonthComparison compares the two most recent calendar months. It
// returns nil unless the data spans more than the configured minimum number
// of days and covers at least two months.
func (d *Detector) DetectMonthComparison(transactions []model.Transaction) *model.MonthComparison {
	_, _, days, ok := d.DateRange(transactions)
	if !ok || days <= d.cfg.MinComparisonDays {
		return nil
	}

	months := make(map[string]*monthBucket)
	for _, txn := range transactions {
		t, parsed := d.dates.Parse(txn.Date)
		if !parsed || math.IsNaN(txn.Amount) || math.IsInf(txn.Amount, 0) {
			continue
		}
		category := txn.Category
		if category == "" {
			category = model.CategoryOther
		}
		if category == model.CategoryIncome {
			continue
		}

		key := normalize.MonthKey(t)
		b, exists := months[key]
		if !exists {
			b = &monthBucket{categories: make(map[model.Category]float64)}
			months[key] = b
		}
		b.total += txn.Amount
		b.categories[category] += txn.Amount
	}

	if len(months) < 2 {
		return nil
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	prevKey, currKey := keys[len(keys)-2], keys[len(keys)-1]
	prev, curr := months[prevKey], months[currKey]

	totalChange := curr.total - prev.total
	var totalPct float64
	if prev.total > 0 {
		totalPct = totalChange / prev.total * 100
	}

	changes := categoryChanges(prev, curr)

	var spikes []model.CategoryChange
	for _, c := range changes {
		if c.ChangePercent > d.cfg.SpikePercent && c.Change > d.cfg.SpikeAmount {
			spikes = append(spikes, c)
		}
	}

	return &model.MonthComparison{
		PreviousMonth:      prevKey,
		CurrentMonth:       currKey,
		PreviousTotal:      normalize.Round2(prev.total),
		CurrentTotal:       normalize.Round2(curr.total),
		TotalChange:        normalize.Round2(totalChange),
		TotalChangePercent: normalize.Round1(totalPct),
		TopChanges:         limit(changes, d.cfg.TopChanges),
		Spikes:             limit(spikes, d.cfg.TopSpikes),
		MonthsAnalyzed:     len(keys),
	}
}

func categoryChanges(prev, curr *monthBucket) []model.CategoryChange {
	seen := make(map[model.Category]bool)
	var categories []model.Category
	for _, c := range model.AllCategories() {
		_, inPrev := prev.categories[c]
		_, inCurr := curr.categories[c]
		if inPrev || inCurr {
			categories = append(categories, c)
			seen[c] = true
		}
	}
	// Categories outside the taxonomy, in a stable order.
	var extra []model.Category
	for _, m := range []map[model.Category]float64{prev.categories, curr.categories} {
		for c := range m {
			if !seen[c] {
				seen[c] = true
				extra = append(extra, c)
			}
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	categories = append(categories, extra...)

	changes := make([]model.CategoryChange, 0, len(categories))
	for _, c := range categories {
		p, n := prev.categories[c], curr.categories[c]
		change := n - p

		var pct float64
		switch {
		case p > 0:
			pct = change / p * 100
		case n > 0:
			pct = 100
		}

		changes = append(changes, model.CategoryChange{
			Category:      c,
			Previous:      normalize.Round2(p),
			Current:       normalize.Round2(n),
			Change:        normalize.Round2(change),
			ChangePercent: normalize.Round1(pct),
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return math.Abs(changes[i].Change) > math.Abs(changes[j].Change)
	})
	return changes
}

func limit[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	if items == nil {
		return []T{}
	}
	return items
}
