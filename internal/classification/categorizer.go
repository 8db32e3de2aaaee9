// Package classification assigns transactions to the spending taxonomy.
package classification

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

// Confidence values.
const (
	KeywordConfidence     = 0.9
	NegativeConfidence    = 0.5
	SmallAmountConfidence = 0.3
	NoMatchConfidence     = 0.2

	smallAmountThreshold = 15.0
)

// Result is the outcome of categorizing one transaction.
type Result struct {
	Category           model.Category
	Reason             string
	NormalizedMerchant string
	Confidence         float64
}

// Categorizer matches raw merchant text against an ordered taxonomy and
// falls back to amount heuristics.
type Categorizer struct {
	normalizer *normalize.MerchantNormalizer
	taxonomy   Taxonomy
}

// NewCategorizer creates a categorizer. Keywords are matched uppercase.
func NewCategorizer(taxonomy Taxonomy, normalizer *normalize.MerchantNormalizer) *Categorizer {
	rules := make(Taxonomy, len(taxonomy))
	for i, rule := range taxonomy {
		keywords := make([]string, 0, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			keywords = append(keywords, strings.ToUpper(kw))
		}
		rules[i] = Rule{Category: rule.Category, Keywords: keywords}
	}
	if normalizer == nil {
		normalizer = normalize.DefaultMerchantNormalizer()
	}
	return &Categorizer{taxonomy: rules, normalizer: normalizer}
}

// NewDefaultCategorizer uses the built-in taxonomy and normalizer.
func NewDefaultCategorizer() *Categorizer {
	return NewCategorizer(DefaultTaxonomy(), nil)
}

// Categorize classifies a single merchant. The first keyword hit wins.
func (c *Categorizer) Categorize(merchant string, amount float64, description string) Result {
	normalized := c.normalizer.Normalize(merchant)
	search := strings.ToUpper(merchant + " " + description)

	for _, rule := range c.taxonomy {
		for _, kw := range rule.Keywords {
			if strings.Contains(search, kw) {
				return Result{
					Category:           rule.Category,
					Confidence:         KeywordConfidence,
					Reason:             fmt.Sprintf("keyword_match: %s -> %s", kw, rule.Category),
					NormalizedMerchant: normalized,
				}
			}
		}
	}

	switch {
	case amount < 0:
		return Result{
			Category:           model.CategoryIncome,
			Confidence:         NegativeConfidence,
			Reason:             "amount_negative: likely income/credit",
			NormalizedMerchant: normalized,
		}
	case amount < smallAmountThreshold:
		return Result{
			Category:           model.CategoryOther,
			Confidence:         SmallAmountConfidence,
			Reason:             "small_amount: unclassified small purchase",
			NormalizedMerchant: normalized,
		}
	default:
		return Result{
			Category:           model.CategoryOther,
			Confidence:         NoMatchConfidence,
			Reason:             "no_match: unclassified transaction",
			NormalizedMerchant: normalized,
		}
	}
}

// CategorizeAll returns categorized copies of transactions. The input slice
// is not modified.
func (c *Categorizer) CategorizeAll(transactions []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		merchant := txn.RawMerchant
		if merchant == "" {
			merchant = txn.NormalizedMerchant
		}
		r := c.Categorize(merchant, txn.Amount, txn.Description)
		out = append(out, txn.WithCategory(r.Category, r.Confidence, r.Reason, r.NormalizedMerchant))
	}
	return out
}
