package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "plain", content: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", content: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", content: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", content: "Here you go:\n{\"a\":1}\nHope that helps", want: `{"a":1}`},
		{name: "no json", content: "sorry", want: "sorry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.content))
		})
	}
}

func TestParseEnrichment(t *testing.T) {
	content := "```json\n" + `{
  "enhanced_leaks": [
    {"category": "Convenience", "merchant": "Late-night snacks", "monthly_cost": "45.50", "explanation": "Frequent small top-ups"},
    {"category": "Subscription", "merchant": "Unused app", "monthlyCost": 9.99, "yearlyCost": 119.88},
    {"category": "Subscription", "merchant": "", "monthly_cost": 5}
  ],
  "category_improvements": {"Other": "Split into Pets and Gifts", "Shopping": 2},
  "easy_wins": [
    {"title": "Cancel the gym", "estimated_yearly_savings": "$1,200", "action": "Email them"},
    {"title": "Cook twice a week", "estimated_yearly_savings": "about a lot", "action": "Plan meals"},
    {"title": "", "estimated_yearly_savings": 10}
  ],
  "recovery_plan": ["Week 1: cancel", {"step": "ignored"}, "  "]
}` + "\n```"

	got, err := parseEnrichment(content)
	require.NoError(t, err)

	require.Len(t, got.EnhancedLeaks, 2)
	assert.Equal(t, "Late-night snacks", got.EnhancedLeaks[0].Merchant)
	assert.InDelta(t, 45.50, got.EnhancedLeaks[0].MonthlyCost, 0.001)
	assert.InDelta(t, 546.0, got.EnhancedLeaks[0].YearlyCost, 0.001)
	assert.InDelta(t, 9.99, got.EnhancedLeaks[1].MonthlyCost, 0.001)
	assert.InDelta(t, 119.88, got.EnhancedLeaks[1].YearlyCost, 0.001)

	require.Len(t, got.EasyWins, 2)
	assert.InDelta(t, 1200.0, got.EasyWins[0].EstimatedYearlySavings, 0.001)
	assert.Zero(t, got.EasyWins[1].EstimatedYearlySavings)

	assert.Equal(t, []string{"Week 1: cancel"}, got.RecoveryPlan)
	assert.Equal(t, "Split into Pets and Gifts", got.CategoryImprovements["Other"])
	assert.Equal(t, "2", got.CategoryImprovements["Shopping"])
}

func TestParseEnrichmentErrors(t *testing.T) {
	_, err := parseEnrichment("I cannot help with that")
	require.Error(t, err)

	_, err = parseEnrichment(`{"easy_wins": [], "recovery_plan": []}`)
	require.ErrorIs(t, err, errEmptyEnrichment)
}
