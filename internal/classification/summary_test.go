package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

func TestSummarize(t *testing.T) {
	txns := []model.Transaction{
		{NormalizedMerchant: "SALARY ACME", Amount: 5000, Category: model.CategoryIncome},
		{NormalizedMerchant: "COLES", Amount: 60, Category: model.CategoryGroceries},
		{NormalizedMerchant: "ALDI", Amount: 40, Category: model.CategoryGroceries},
		{NormalizedMerchant: "IGA", Amount: 10, Category: model.CategoryGroceries},
		{NormalizedMerchant: "WOOLWORTHS", Amount: 90, Category: model.CategoryGroceries},
		{NormalizedMerchant: "NETFLIX", Amount: 15.99, Category: model.CategorySubscriptions},
		{NormalizedMerchant: "NETFLIX", Amount: 15.99, Category: model.CategorySubscriptions},
		{NormalizedMerchant: "MYSTERY", Amount: 68.02},
	}

	summary := Summarize(txns)
	require.Len(t, summary, 3)

	groceries := summary[0]
	assert.Equal(t, model.CategoryGroceries, groceries.Category)
	assert.InDelta(t, 200.0, groceries.Total, 1e-9)
	assert.InDelta(t, 66.7, groceries.Percent, 1e-9)
	assert.Equal(t, 4, groceries.TransactionCount)
	require.Len(t, groceries.TopMerchants, 3)
	assert.Equal(t, "WOOLWORTHS", groceries.TopMerchants[0].Merchant)
	assert.Equal(t, "COLES", groceries.TopMerchants[1].Merchant)
	assert.Equal(t, "ALDI", groceries.TopMerchants[2].Merchant)

	assert.Equal(t, model.CategoryOther, summary[1].Category)
	assert.Equal(t, model.CategorySubscriptions, summary[2].Category)
	assert.InDelta(t, 31.98, summary[2].Total, 1e-9)

	for _, s := range summary {
		assert.NotEqual(t, model.CategoryIncome, s.Category)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}
