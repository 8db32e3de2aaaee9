// Package model defines the value types shared by the parsing, detection and
// reporting stages.
package model

import (
	"crypto/sha256"
	"fmt"
)

// Transaction is a single spending line from a statement. Amount follows the
// spending-positive convention: parsers only ever emit values > 0.
type Transaction struct {
	Date               string   `json:"date" csv:"date"`
	RawMerchant        string   `json:"originalMerchant" csv:"original_merchant"`
	NormalizedMerchant string   `json:"merchant" csv:"merchant"`
	Description        string   `json:"description,omitempty" csv:"description"`
	Source             string   `json:"source,omitempty" csv:"source"`
	Category           Category `json:"category,omitempty" csv:"category"`
	CategoryReason     string   `json:"categoryReason,omitempty" csv:"-"`
	Amount             float64  `json:"amount" csv:"amount"`
	CategoryConfidence float64  `json:"categoryConfidence,omitempty" csv:"-"`
}

// DedupeKey identifies transactions that appear in more than one overlapping
// statement export.
type DedupeKey struct {
	Date     string
	Merchant string
	Amount   string
}

// Key returns the merge key for multi-file deduplication.
func (t Transaction) Key() DedupeKey {
	return DedupeKey{
		Date:     t.Date,
		Merchant: t.NormalizedMerchant,
		Amount:   fmt.Sprintf("%.2f", t.Amount),
	}
}

// GenerateHash creates a stable identifier from the merge key.
func (t Transaction) GenerateHash() string {
	k := t.Key()
	hash := sha256.Sum256([]byte(k.Date + ":" + k.Merchant + ":" + k.Amount))
	return fmt.Sprintf("%x", hash)
}

// WithCategory returns a copy of t carrying the classification result.
func (t Transaction) WithCategory(category Category, confidence float64, reason, normalized string) Transaction {
	t.Category = category
	t.CategoryConfidence = confidence
	t.CategoryReason = reason
	if normalized != "" {
		t.NormalizedMerchant = normalized
	}
	return t
}

// RedactedTransaction is the only transaction shape allowed to leave the
// process.
type RedactedTransaction struct {
	Date        string   `json:"date" csv:"date"`
	Description string   `json:"description" csv:"description"`
	Category    Category `json:"category" csv:"category"`
	Amount      float64  `json:"amount" csv:"amount"`
}
