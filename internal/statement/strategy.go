package statement

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Row is one transaction line as a strategy found it. Amount is a positive
// spending value; the date is kept in whatever form the statement printed.
type Row struct {
	Date        string
	Description string
	Amount      float64
}

// Strategy extracts rows from a document. A strategy that does not recognize
// the layout returns nil.
type Strategy interface {
	Name() string
	Extract(doc *Document) []Row
}

// maxPlausibleAmount bounds what a single statement line may be worth.
// Larger values are almost always a balance column.
const maxPlausibleAmount = 100000

// hasPlausibleData is the gate every PDF strategy result must pass.
func hasPlausibleData(rows []Row) bool {
	for _, r := range rows {
		if r.Amount > 0 && r.Amount <= maxPlausibleAmount {
			return true
		}
	}
	return false
}

const monthNames = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

// datePatterns are tried in order; the first hit is the line's date. ISO
// dates go first so "2024-03-05" is not read as "24-03-05".
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
	regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(?:` + monthNames + `)[a-z]*(?:\s+\d{2,4})?`),
	regexp.MustCompile(`(?i)(?:` + monthNames + `)[a-z]*\s+\d{1,2}(?:,?\s+\d{2,4})?`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}`),
}

var (
	moneyToken    = regexp.MustCompile(`[\d,]+\.\d{2}`)
	currencyToken = regexp.MustCompile(`[$£€₹]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// excludeKeywords mark summary and account-detail lines that are never
// transactions.
var excludeKeywords = []string{
	"balance", "total", "opening", "closing", "statement", "page",
	"account number", "account no", "sort code", "iban", "bic", "bsb",
	"brought forward", "carried forward", "summary", "previous",
	"available", "pending", "credit limit", "minimum payment",
	"interest rate", "apr", "customer service", "thank you",
	"routing number", "swift",
	"ifsc", "micr", "cif no", "customer id", "nomination", "branch code",
	"pan no", "aadhaar", "mobile no", "email", "address",
}

// Whole-word matching keeps "apr" from hitting "20 Apr" style dates and
// "bic" from hitting merchant names.
var excludePattern = wordPattern(excludeKeywords)

func wordPattern(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func isExcluded(s string) bool {
	return excludePattern.MatchString(s)
}

// findDate returns the first date-like substring of s.
func findDate(s string) string {
	for _, p := range datePatterns {
		if m := p.FindString(s); m != "" {
			return m
		}
	}
	return ""
}

func looksLikeDate(s string) bool {
	return findDate(s) != ""
}

// parseMoney reads a "1,234.56" token.
func parseMoney(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// moneyValues parses every money token in s, dropping ones that fail.
func moneyValues(s string) []float64 {
	var out []float64
	for _, tok := range moneyToken.FindAllString(s, -1) {
		if v, ok := parseMoney(tok); ok {
			out = append(out, v)
		}
	}
	return out
}

func collapse(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func maxOf(values []float64) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}

// block is a transaction that starts on a dated line and runs until the
// next dated line.
type block struct {
	date  string
	lines []string
}

func (b block) text() string {
	return strings.Join(b.lines, " ")
}

// buildBlocks groups lines into blocks anchored on anchor, whose first
// submatch is the date. skip drops header lines before grouping; lines
// before the first anchor are ignored.
func buildBlocks(lines []string, anchor *regexp.Regexp, skip func(lower string) bool) []block {
	var blocks []block
	var current *block

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if skip != nil && skip(strings.ToLower(line)) {
			continue
		}

		if m := anchor.FindStringSubmatchIndex(line); m != nil {
			if current != nil {
				blocks = append(blocks, *current)
			}
			current = &block{
				date:  line[m[2]:m[3]],
				lines: []string{strings.TrimSpace(line[m[1]:])},
			}
			continue
		}

		if current != nil {
			current.lines = append(current.lines, line)
		}
	}

	if current != nil {
		blocks = append(blocks, *current)
	}
	return blocks
}

var tokenCleaner = strings.NewReplacer(",", "", "$", "")

// scanTrailingAmounts splits a line into leading description tokens and the
// run of numeric tokens at its right edge that are at least minAmount.
func scanTrailingAmounts(line string, minAmount float64) (desc []string, amounts []float64) {
	parts := strings.Fields(line)
	i := len(parts)
	for ; i > 0; i-- {
		v, err := strconv.ParseFloat(tokenCleaner.Replace(parts[i-1]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < minAmount {
			break
		}
		amounts = append([]float64{v}, amounts...)
	}
	return parts[:i], amounts
}
