package statement

import (
	"regexp"
	"strings"
)

// multilineStrategy reads space-separated statement dumps where a
// transaction starts with a date and may continue over indented lines until
// its amounts appear.
type multilineStrategy struct{}

var (
	multilineDate = regexp.MustCompile(`(?i)^(\d{1,2}/\d{1,2}/\d{2,4}|\d{4}-\d{1,2}-\d{1,2}|\d{1,2}\s+(?:` + monthNames + `)[a-z]*(?:\s+\d{4})?)\s+`)

	multilineSkip = []string{
		"OPENING BALANCE", "CLOSING BALANCE", "BALANCE", "DEPOSIT",
		"DIRECT CREDIT", "SALARY", "REFUND", "PAYMENT RECEIVED", "TRANSFER IN",
	}
)

const minColumnAmount = 1.0

func (multilineStrategy) Name() string { return "multiline" }

func (multilineStrategy) Extract(doc *Document) []Row {
	lines := doc.Lines()
	if looksDelimited(lines) {
		return nil
	}

	var out []Row
	for _, b := range buildBlocks(lines, multilineDate, nil) {
		if containsAny(strings.ToUpper(b.text()), multilineSkip) {
			continue
		}

		var parts []string
		var amounts []float64
		for _, line := range b.lines {
			desc, lineAmounts := scanTrailingAmounts(line, minColumnAmount)
			parts = append(parts, desc...)
			amounts = append(amounts, lineAmounts...)
		}
		if len(amounts) == 0 {
			continue
		}

		desc := collapse(strings.Join(parts, " "))
		if len(desc) < minTableDescLen {
			continue
		}

		// The last column is the running balance.
		amount := amounts[0]
		out = append(out, Row{Date: b.date, Description: desc, Amount: amount})
	}
	return out
}

// looksDelimited reports whether the first non-empty line already splits
// into three or more fields on a delimiter, in which case the delimited
// strategy owns the input.
func looksDelimited(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, d := range delimiters {
			if len(strings.Split(line, string(d))) >= 3 {
				return true
			}
		}
		return false
	}
	return false
}
