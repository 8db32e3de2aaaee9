// Package testutil provides builders for transaction fixtures used across
// package tests.
package testutil

import (
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// DateLayout is the canonical date format used by fixtures.
const DateLayout = "2006-01-02"

// Txn builds an uncategorized transaction whose raw and normalized merchant
// are the same.
func Txn(date, merchant string, amount float64) model.Transaction {
	return model.Transaction{
		Date:               date,
		RawMerchant:        merchant,
		NormalizedMerchant: merchant,
		Amount:             amount,
	}
}

// CategorizedTxn builds a transaction already assigned to a category.
func CategorizedTxn(date, merchant string, amount float64, category model.Category) model.Transaction {
	t := Txn(date, merchant, amount)
	t.Category = category
	return t
}

// Builder accumulates fixture transactions.
type Builder struct {
	txns []model.Transaction
}

// NewBuilder starts an empty fixture set.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a single transaction.
func (b *Builder) Add(date, merchant string, amount float64) *Builder {
	b.txns = append(b.txns, Txn(date, merchant, amount))
	return b
}

// Series appends count charges for merchant, every stepDays days from start.
func (b *Builder) Series(merchant string, start time.Time, count, stepDays int, amount float64) *Builder {
	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, i*stepDays).Format(DateLayout)
		b.txns = append(b.txns, Txn(date, merchant, amount))
	}
	return b
}

// Prices appends one charge per amount, every stepDays days from start.
func (b *Builder) Prices(merchant string, start time.Time, stepDays int, amounts ...float64) *Builder {
	for i, amount := range amounts {
		date := start.AddDate(0, 0, i*stepDays).Format(DateLayout)
		b.txns = append(b.txns, Txn(date, merchant, amount))
	}
	return b
}

// Categorized sets category on every transaction built so far whose
// merchant matches.
func (b *Builder) Categorized(merchant string, category model.Category) *Builder {
	for i := range b.txns {
		if b.txns[i].NormalizedMerchant == merchant {
			b.txns[i].Category = category
		}
	}
	return b
}

// Build returns a copy of the accumulated transactions.
func (b *Builder) Build() []model.Transaction {
	return append([]model.Transaction(nil), b.txns...)
}

// Date parses a fixture date or panics.
func Date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
