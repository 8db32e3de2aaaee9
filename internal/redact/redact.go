// Package redact strips personal details from transaction descriptions
// before anything leaves the process.
package redact

import (
	"regexp"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// Placeholder replaces every redacted span.
const Placeholder = "[REDACTED]"

// Person names: two or three capitalized words.
const namePattern = `([A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`

// rule is one high-confidence pattern. keepGroup, when set, is a leading
// capture group that is written back in front of the placeholder.
type rule struct {
	name      string
	re        *regexp.Regexp
	keepGroup bool
}

// Ordered most specific first so broader patterns do not consume half of a
// more specific match.
var rules = []rule{
	{name: "email", re: regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)},
	{name: "iban", re: regexp.MustCompile(`\b[A-Z]{2}\d{2}[\s\-]?[\dA-Z]{4}[\s\-]?[\dA-Z]{4}[\s\-]?[\dA-Z]{4}(?:[\s\-]?[\dA-Z]{4}){0,5}(?:[\s\-]?[\dA-Z]{1,4})?\b`)},
	{name: "account_dashed", re: regexp.MustCompile(`\b\d{2}-\d{4}-\d{7,8}(?:-\d{2,3})?\b`)},
	{name: "bsb_keyword", re: regexp.MustCompile(`(?i)\bBSB[\s:]*\d{3}[\-\s]?\d{3}\b`)},
	{name: "bsb", re: regexp.MustCompile(`\b\d{3}-\d{3}\b`)},
	{name: "card_masked", re: regexp.MustCompile(`(?i)(?:\*{2,}|\bX{2,})[\s\-]?\d{4}\b`)},
	{name: "reference", re: regexp.MustCompile(`(?i)\b(?:REF(?:ERENCE)?(?:\s*(?:No|Number|ID|#))?|Ref(?:\s*(?:No|Number|ID|#))?)\s*[:#.\-\s]\s*[A-Za-z0-9\-]{3,20}\b`)},
	{name: "name_after_keyword", re: regexp.MustCompile(`(?i)\b(?:PAYEE|PAYER|BENEFICIARY|RECIPIENT|SENDER|A/C NAME|ACCOUNT NAME|NAME|PAID TO|PAID BY|PAYMENT TO|PAYMENT FROM|TRANSFER TO|TRANSFER FROM|TFR TO|TFR FROM)[\s:]*` + namePattern)},
	// TO and FROM must stand alone so "Town" is not a trigger.
	{name: "name_after_to_from", re: regexp.MustCompile(`(?i)(^|\s)(?:TO|FROM)[\s:]+` + namePattern), keepGroup: true},
	{name: "po_box", re: regexp.MustCompile(`(?i)\bP\.?O\.?\s*Box\s+\d+\b`)},
	{name: "street_address", re: regexp.MustCompile(`(?i)\b\d{1,5}\s+(?:[A-Z][a-z]+\s+){0,4}(?:St(?:reet)?|Rd|Road|Ave(?:nue)?|Blvd|Boulevard|Dr(?:ive)?|Ct|Court|Ln|Lane|Way|Pl(?:ace)?|Cres(?:cent)?|Tce|Terrace|Pde|Parade|Hwy|Highway|Cir(?:cle)?|Loop|Run|Trail|Pass|Pike|Row)\b(?:\s*,?\s*(?:Suite|Ste|Apt|Unit|#)\s*\w+)?`)},
	{name: "uk_postcode", re: regexp.MustCompile(`(?i)\b[A-Z]{1,2}\d[A-Z\d]?\s*\d[A-Z]{2}\b`)},
	{name: "phone", re: regexp.MustCompile(`\+\d{1,4}[\s\-]?\d{1,5}[\s\-]?\d{2,4}[\s\-]?\d{3,4}(?:[\s\-]?\d{1,4})?|\(\d{2,5}\)[\s\-]?\d{3,4}[\s\-]?\d{3,4}|\b04\d{2}[\s\-]?\d{3}[\s\-]?\d{3}\b`)},
}

// Digit runs that are only personal data when they are not part of an
// amount or a date.
var contextual = []*regexp.Regexp{
	regexp.MustCompile(`\b\d(?:[\s\-]?\d){7,16}\b`),
	regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`),
	regexp.MustCompile(`\b\d{4}\b`),
}

var (
	dateLike = regexp.MustCompile(`\b\d{4}[\-/]\d{1,2}[\-/]\d{1,2}\b|\b\d{1,2}[\-/]\d{1,2}[\-/]\d{2,4}\b`)
	repeated = regexp.MustCompile(`(?:\[REDACTED\]\s*){2,}`)
)

const (
	currencies     = "$£€₹"
	contextWindow  = 5
	minDigitsToHit = 6
)

// Redactor removes emails, account and card numbers, references, names,
// addresses and phone numbers from free text.
type Redactor struct{}

// New returns a Redactor.
func New() *Redactor {
	return &Redactor{}
}

// Redact returns text with personal details replaced by Placeholder.
func (r *Redactor) Redact(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rl := range rules {
		if rl.keepGroup {
			result = rl.re.ReplaceAllString(result, "${1}"+Placeholder)
			continue
		}
		result = rl.re.ReplaceAllLiteralString(result, Placeholder)
	}

	for _, re := range contextual {
		result = redactContextual(result, re)
	}

	result = repeated.ReplaceAllLiteralString(result, Placeholder+" ")
	return strings.TrimSpace(result)
}

// redactContextual replaces matches of re unless they sit next to a
// currency symbol, look like or touch a date, are too short to identify
// anyone, or are followed by decimals of a currency amount.
func redactContextual(s string, re *regexp.Regexp) string {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		b.WriteString(s[last:start])
		last = end

		if keepDigits(s, start, end) {
			b.WriteString(s[start:end])
			continue
		}
		b.WriteString(Placeholder)
	}
	b.WriteString(s[last:])
	return b.String()
}

func keepDigits(s string, start, end int) bool {
	match := s[start:end]

	if start > 0 && precededByCurrency(s[:start]) {
		return true
	}
	if loc := dateLike.FindStringIndex(match); loc != nil && loc[0] == 0 {
		return true
	}
	if dateLike.MatchString(s[max(0, start-contextWindow):min(len(s), end+contextWindow)]) {
		return true
	}

	clean := strings.NewReplacer(" ", "", "-", "").Replace(match)
	if len(clean) < minDigitsToHit {
		return true
	}

	tail := s[start:min(len(s), end+3)]
	if strings.Contains(tail, ".") {
		around := s[max(0, start-1):min(len(s), end+3)]
		if strings.ContainsAny(around, currencies) {
			return true
		}
	}
	return false
}

func precededByCurrency(prefix string) bool {
	for _, c := range currencies {
		if strings.HasSuffix(prefix, string(c)) {
			return true
		}
	}
	return false
}

// RedactTransactions keeps only date, redacted description, amount and
// category. The description falls back to the raw then normalized merchant.
func (r *Redactor) RedactTransactions(transactions []model.Transaction) []model.RedactedTransaction {
	out := make([]model.RedactedTransaction, 0, len(transactions))
	for _, t := range transactions {
		desc := t.Description
		if desc == "" {
			desc = t.RawMerchant
		}
		if desc == "" {
			desc = t.NormalizedMerchant
		}

		out = append(out, model.RedactedTransaction{
			Date:        t.Date,
			Description: r.Redact(desc),
			Amount:      t.Amount,
			Category:    t.Category,
		})
	}
	return out
}
