package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

func TestDetectDuplicateSubscriptions(t *testing.T) {
	subs := []model.Subscription{
		{Merchant: "NETFLIX", MonthlyCost: 22.99},
		{Merchant: "DISNEY PLUS", MonthlyCost: 13.99},
		{Merchant: "YOUTUBE MUSIC", MonthlyCost: 11.99},
		{Merchant: "SPOTIFY", MonthlyCost: 11.99},
		{Merchant: "DROPBOX", MonthlyCost: 15},
		{Merchant: "NORDVPN", MonthlyCost: 5},
	}

	groups := newTestDetector().DetectDuplicateSubscriptions(subs)
	require.Len(t, groups, 2)

	assert.Equal(t, "Music", groups[0].ServiceType)
	assert.Equal(t, []string{"YOUTUBE MUSIC", "SPOTIFY"}, groups[0].Merchants)
	assert.InDelta(t, 23.98, groups[0].MonthlyCost, 1e-9)
	assert.InDelta(t, 287.76, groups[0].YearlyCost, 1e-9)

	assert.Equal(t, "Streaming", groups[1].ServiceType)
	assert.Equal(t, 2, groups[1].Count)
	assert.NotEmpty(t, groups[1].Suggestion)
}

func TestDetectDuplicateSubscriptionsNone(t *testing.T) {
	groups := newTestDetector().DetectDuplicateSubscriptions([]model.Subscription{{Merchant: "NETFLIX", MonthlyCost: 10}})
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}
