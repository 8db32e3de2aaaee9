package statement

import (
	"regexp"
	"strings"
)

// westpacStrategy handles statements where the date and the start of the
// description share a line and amounts land on a continuation line.
type westpacStrategy struct{}

var (
	westpacDate = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\s+`)

	westpacSkipBlocks = []string{
		"OPENING BALANCE", "CLOSING BALANCE", "STATEMENT PERIOD",
		"CUSTOMER ID", "BSB", "ACCOUNT NAME", "PLEASE CHECK",
		"DEPOSIT-OSKO", "DEPOSIT OSKO", "DIRECT CREDIT", "TRANSFER IN",
		"PAYMENT RECEIVED", "REFUND",
	}
)

func (westpacStrategy) Name() string { return "westpac_multiline" }

func (westpacStrategy) Extract(doc *Document) []Row {
	blocks := buildBlocks(doc.Lines(), westpacDate, func(l string) bool {
		return strings.Contains(l, "transaction description") ||
			strings.Contains(l, "effective date") ||
			(strings.HasPrefix(l, "date ") && strings.Contains(l, "debit"))
	})

	var out []Row
	for _, b := range blocks {
		if containsAny(strings.ToUpper(b.text()), westpacSkipBlocks) {
			continue
		}

		var amounts []float64
		var parts []string
		for _, line := range b.lines {
			desc, lineAmounts := scanTrailingAmounts(line, 0.01)
			if len(lineAmounts) > 0 && len(amounts) == 0 {
				amounts = lineAmounts
				parts = append(parts, desc...)
				continue
			}
			parts = append(parts, strings.Fields(line)...)
		}
		if len(amounts) == 0 {
			continue
		}

		desc := collapse(strings.Join(parts, " "))
		if len(desc) < 3 {
			continue
		}

		// Debit, credit, balance: the last figure is the balance.
		var amount float64
		if len(amounts) >= 2 {
			for _, a := range amounts[:len(amounts)-1] {
				if a > 0 {
					amount = a
					break
				}
			}
		} else {
			amount = amounts[0]
		}
		if amount <= 0 {
			continue
		}
		out = append(out, Row{Date: b.date, Description: desc, Amount: amount})
	}
	return out
}

// westernStrategy scans lines for one of four debit shapes, most specific
// first. Dates carry forward to undated lines.
type westernStrategy struct{}

var (
	westernTrailingMarker = regexp.MustCompile(`([\d,]+\.\d{2})\s*[$(]`)
	westernNegative       = regexp.MustCompile(`-\s*[$£€₹]?\s*([\d,]+\.?\d*)`)
	westernDR             = regexp.MustCompile(`(?i)([\d,]+\.\d{2})\s*(?:DR|D)\b`)
	westernCurrencyEnd    = regexp.MustCompile(`[$£€₹]\s*([\d,]+\.\d{2})\s*$`)
	edgePunctuation       = regexp.MustCompile(`^[\s,\-]+|[\s,\-]+$`)

	westernCredits = []string{"interest earned", "deposit from"}
)

func (westernStrategy) Name() string { return "western_format" }

func (westernStrategy) Extract(doc *Document) []Row {
	var out []Row
	currentDate := ""

	for _, line := range doc.Lines() {
		line = strings.TrimSpace(line)
		if line == "" || isExcluded(line) {
			continue
		}

		lineDate := findDate(line)
		if lineDate != "" {
			currentDate = lineDate
		}

		amount, desc := westernDebit(line)
		if amount == 0 {
			continue
		}

		if lineDate != "" {
			desc = strings.ReplaceAll(desc, lineDate, "")
		}
		desc = edgePunctuation.ReplaceAllString(collapse(desc), "")
		if len(desc) < 2 {
			continue
		}
		if containsAny(strings.ToLower(desc), westernCredits) {
			continue
		}

		out = append(out, Row{Date: currentDate, Description: desc, Amount: amount})
	}
	return out
}

func westernDebit(line string) (float64, string) {
	if m := westernTrailingMarker.FindStringSubmatchIndex(line); m != nil {
		if v := looseAmount(line[m[2]:m[3]]); v != 0 {
			return v, strings.TrimSpace(line[:m[0]])
		}
	}

	if m := westernNegative.FindStringSubmatch(line); m != nil {
		if v := looseAmount(m[1]); v != 0 {
			return v, strings.TrimSpace(westernNegative.ReplaceAllString(line, ""))
		}
	}

	if m := westernDR.FindStringSubmatchIndex(line); m != nil {
		if v := looseAmount(line[m[2]:m[3]]); v != 0 {
			return v, strings.TrimSpace(line[:m[0]])
		}
	}

	if m := westernCurrencyEnd.FindStringSubmatchIndex(line); m != nil && !strings.Contains(strings.ToLower(line), "cr") {
		if v := looseAmount(line[m[2]:m[3]]); v != 0 {
			return v, strings.TrimSpace(line[:m[0]])
		}
	}

	return 0, ""
}

// rawLineStrategy is the last resort: any line carrying both a date and a
// money token.
type rawLineStrategy struct{}

var rawLineNoise = regexp.MustCompile(`[()\-]`)

const minRawLineLen = 10

func (rawLineStrategy) Name() string { return "from_text" }

func (rawLineStrategy) Extract(doc *Document) []Row {
	var out []Row
	for _, line := range doc.Lines() {
		line = strings.TrimSpace(line)
		if len(line) < minRawLineLen || isExcluded(line) {
			continue
		}

		date := findDate(line)
		tokens := moneyToken.FindAllString(line, -1)
		if date == "" || len(tokens) == 0 {
			continue
		}

		var amount float64
		for _, tok := range tokens {
			if v := looseAmount(tok); v > 0 && v < maxTableAmount {
				amount = v
				break
			}
		}
		if amount == 0 {
			continue
		}

		desc := strings.ReplaceAll(line, date, "")
		for _, tok := range tokens {
			desc = strings.ReplaceAll(desc, tok, "")
		}
		desc = currencyToken.ReplaceAllString(desc, "")
		desc = collapse(rawLineNoise.ReplaceAllString(desc, ""))
		if len(desc) < 2 {
			continue
		}

		out = append(out, Row{Date: date, Description: desc, Amount: amount})
	}
	return out
}
