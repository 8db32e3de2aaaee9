package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/testutil"
)

func TestDetectPriceChanges(t *testing.T) {
	jan := testutil.Date("2025-01-01")

	txns := testutil.NewBuilder().
		Prices("NETFLIX", jan, 30, 15.99, 15.99, 18.99, 18.99).
		Prices("SPOTIFY", jan, 30, 11.99, 12.19, 12.39).
		Prices("GYM", jan, 30, 60, 55).
		Prices("TINY", jan, 30, 2.00, 2.60).
		Prices("DROPBOX", jan, 30, 10, 12, 16).
		Build()

	changes := newTestDetector().DetectPriceChanges(txns)
	require.Len(t, changes, 3)

	assert.Equal(t, "DROPBOX", changes[0].Merchant)
	assert.InDelta(t, 10.0, changes[0].OldPrice, 1e-9)
	assert.InDelta(t, 16.0, changes[0].NewPrice, 1e-9)
	assert.InDelta(t, 72.0, changes[0].YearlyImpact, 1e-9)
	assert.InDelta(t, 60.0, changes[0].IncreasePercent, 1e-9)

	netflix := changes[1]
	assert.Equal(t, "NETFLIX", netflix.Merchant)
	assert.InDelta(t, 3.0, netflix.Increase, 1e-9)
	assert.InDelta(t, 36.0, netflix.YearlyImpact, 1e-9)
	assert.Equal(t, "2025-01-01", netflix.FirstDate)
	assert.Equal(t, "2025-03-02", netflix.ChangeDate)

	assert.Equal(t, "TINY", changes[2].Merchant)
	assert.InDelta(t, 30.0, changes[2].IncreasePercent, 1e-9)
}

func TestDetectPriceChangesCapsAtTen(t *testing.T) {
	jan := testutil.Date("2025-01-01")
	b := testutil.NewBuilder()
	for i := 0; i < 12; i++ {
		b.Prices(string(rune('A'+i))+" SERVICE", jan, 30, 10, 20+float64(i))
	}

	changes := newTestDetector().DetectPriceChanges(b.Build())
	require.Len(t, changes, 10)
	assert.Equal(t, "L SERVICE", changes[0].Merchant)
}

func TestDetectPriceChangesIgnoresUndated(t *testing.T) {
	txns := []model.Transaction{
		testutil.Txn("???", "NETFLIX", 10),
		testutil.Txn("2025-01-01", "NETFLIX", 20),
	}
	assert.Empty(t, newTestDetector().DetectPriceChanges(txns))
}
