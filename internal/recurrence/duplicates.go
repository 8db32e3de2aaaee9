package recurrence

import (
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

// DetectDuplicateSubscriptions puts each subscription into at most one
// service bucket and reports buckets holding two or more.
func (d *Detector) DetectDuplicateSubscriptions(subscriptions []model.Subscription) []model.DuplicateGroup {
	members := make([][]model.Subscription, len(d.cfg.ServiceBuckets))

	for _, sub := range subscriptions {
		for i, bucket := range d.cfg.ServiceBuckets {
			if containsAny(sub.Merchant, bucket.Keywords) {
				members[i] = append(members[i], sub)
				break
			}
		}
	}

	groups := []model.DuplicateGroup{}
	for i, bucket := range d.cfg.ServiceBuckets {
		subs := members[i]
		if len(subs) < 2 {
			continue
		}

		var monthly float64
		merchants := make([]string, 0, len(subs))
		for _, s := range subs {
			monthly += s.MonthlyCost
			merchants = append(merchants, s.Merchant)
		}

		groups = append(groups, model.DuplicateGroup{
			ServiceType: bucket.Name,
			Merchants:   merchants,
			Count:       len(subs),
			MonthlyCost: normalize.Round2(monthly),
			YearlyCost:  normalize.Round2(monthly * 12),
			Suggestion:  bucket.Suggestion,
		})
	}
	return groups
}
