package statement

import (
	"regexp"
	"strings"
)

// Australian and US bank layouts. Each strategy checks for its bank's
// markers first and returns nil on documents it does not recognize.

// commBankStrategy handles CommBank statements: "03 Jul" dates without a
// year, multi-line entries, and debits marked by a trailing "(" or "$".
type commBankStrategy struct{}

var (
	commBankDate  = regexp.MustCompile(`(?i)^(\d{1,2}\s+(?:` + monthNames + `))\s+`)
	commBankDebit = regexp.MustCompile(`([\d,]+\.\d{2})\s*[($]`)
	dollarAmount  = regexp.MustCompile(`\$?[\d,]+\.\d{2}`)

	commBankSkipLines = []string{
		"opening balance", "closing balance", "account number", "statement",
		"page ", "enquiries", "note:", "interest rates", "effective date",
		"bsb", "account name", "available balance", "current balance",
	}
	commBankCredits = []string{
		"DIRECT CREDIT", "TRANSFER FROM", "SALARY", "FAST TRANSFER FROM",
		"CREDIT TO ACCOUNT", "PAYMENT RECEIVED", "REFUND", "DEPOSIT",
		"OSKO FROM", "BPAY CREDIT", "INTEREST CREDIT", "TRANSFER TO",
	}
)

func (commBankStrategy) Name() string { return "commbank" }

func (commBankStrategy) Extract(doc *Document) []Row {
	lower := strings.ToLower(doc.Text())
	if !strings.Contains(lower, "commbank") && !strings.Contains(lower, "commonwealth") {
		return nil
	}

	blocks := buildBlocks(doc.Lines(), commBankDate, func(l string) bool {
		return containsAny(l, commBankSkipLines)
	})

	var out []Row
	for _, b := range blocks {
		text := b.text()
		if containsAny(strings.ToUpper(text), commBankCredits) {
			continue
		}

		tokens := moneyToken.FindAllString(text, -1)
		var amounts []float64
		for _, tok := range tokens {
			if v, ok := parseMoney(tok); ok && v > 0 {
				amounts = append(amounts, v)
			}
		}
		if len(amounts) == 0 {
			continue
		}

		var amount float64
		if m := commBankDebit.FindStringSubmatchIndex(text); m != nil {
			// "$12.00 (" is a balance, not a debit marker.
			if !strings.HasSuffix(strings.TrimRight(text[:m[0]], " \t"), "$") {
				amount, _ = parseMoney(text[m[2]:m[3]])
			}
		} else {
			switch {
			case len(amounts) >= 2:
				highest := maxOf(amounts)
				for _, a := range amounts {
					if a != highest && a < 10000 {
						amount = a
						break
					}
				}
			case amounts[0] < 5000:
				amount = amounts[0]
			}
		}
		if amount <= 0 || amount > maxTableAmount {
			continue
		}

		desc := text
		if idx := strings.Index(text, tokens[0]); idx > 0 {
			desc = text[:idx]
		}
		desc = collapse(dollarAmount.ReplaceAllString(desc, ""))
		if len(desc) < 3 {
			continue
		}

		out = append(out, Row{Date: b.date, Description: desc, Amount: amount})
	}
	return out
}

// nabStrategy handles NAB statements: single-line entries dated
// "2 Jan 2025" with debit, credit and balance columns.
type nabStrategy struct{}

var (
	nabMarker   = regexp.MustCompile(`(?i)\bnab\b|national australia bank`)
	nabDate     = regexp.MustCompile(`(?i)^(\d{1,2}\s+(?:` + monthNames + `)\s+\d{4})\s+`)
	trailingDot = regexp.MustCompile(`\.+$`)

	nabSkipLines = []string{
		"brought forward", "closing balance", "opening balance", "total credits",
		"total debits", "account summary", "page ", "statement period", "bsb:",
		"account number", "important", "government charges", "please check",
	}
	nabCredits = []string{"DIRECT CREDIT", "SALARY", "OSKO PAYMENT FROM", "CREDIT -"}
)

const maxNABAmount = 10000

func (nabStrategy) Name() string { return "nab" }

func (nabStrategy) Extract(doc *Document) []Row {
	if !nabMarker.MatchString(doc.Text()) {
		return nil
	}

	var out []Row
	for _, line := range doc.Lines() {
		line = strings.TrimSpace(line)
		if line == "" || containsAny(strings.ToLower(line), nabSkipLines) {
			continue
		}

		m := nabDate.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		date := line[m[2]:m[3]]
		rest := strings.TrimSpace(line[m[1]:])
		if containsAny(strings.ToUpper(rest), nabCredits) {
			continue
		}

		tokens := moneyToken.FindAllString(rest, -1)
		amounts := moneyValues(rest)
		if len(tokens) == 0 || len(amounts) == 0 {
			continue
		}

		desc := rest
		if idx := strings.Index(rest, tokens[0]); idx > 0 {
			desc = strings.TrimSpace(rest[:idx])
		}
		desc = strings.TrimSpace(trailingDot.ReplaceAllString(desc, ""))
		if len(desc) < 3 {
			continue
		}

		// Debit or credit comes first, balance last.
		amount := amounts[0]
		if amount <= 0 || amount > maxNABAmount {
			continue
		}
		out = append(out, Row{Date: date, Description: desc, Amount: amount})
	}
	return out
}

// usBankStrategy handles US statements (PNC, Chase, Wells Fargo and
// similar): MM/DD dates and separate withdrawal, deposit and balance
// columns without currency symbols.
type usBankStrategy struct{}

var (
	australianMarker = regexp.MustCompile(`(?i)westpac|commbank|commonwealth|\bnab\b|national australia|\banz\b|\bbsb\b`)
	usShortDate      = regexp.MustCompile(`\b\d{2}/\d{2}\b`)
	usDate           = regexp.MustCompile(`^(\d{2}/\d{2})\s+`)

	usKeywords = []string{
		"ach debit", "ach deposit", "zelle", "virtual wallet", "pnc", "chase",
		"wells fargo", "bank of america", "citibank", "td bank", "us bank",
		"truist", "capital one",
	}
	usSkipLines = []string{
		"beginning balance", "ending balance", "account summary", "transaction detail",
		"statement period", "account number", "page ", "withdrawals deposits balance",
		"date description",
	}
	usDeposits = []string{"DEPOSIT", "PAYROLL", "DIRECT DEP", "PAYMENT RECEIVED", "REFUND", "CREDIT"}
)

func (usBankStrategy) Name() string { return "us_bank" }

func (usBankStrategy) Extract(doc *Document) []Row {
	text := doc.Text()
	if australianMarker.MatchString(text) {
		return nil
	}
	if !usShortDate.MatchString(text) || !containsAny(strings.ToLower(text), usKeywords) {
		return nil
	}

	var out []Row
	for _, line := range doc.Lines() {
		line = strings.TrimSpace(line)
		if line == "" || containsAny(strings.ToLower(line), usSkipLines) {
			continue
		}

		m := usDate.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		date := line[m[2]:m[3]]
		rest := strings.TrimSpace(line[m[1]:])

		tokens := moneyToken.FindAllString(rest, -1)
		amounts := moneyValues(rest)
		if len(tokens) == 0 || len(amounts) == 0 {
			continue
		}

		desc := rest
		if idx := strings.Index(rest, tokens[0]); idx > 0 {
			desc = rest[:idx]
		}
		desc = collapse(desc)
		if len(desc) < 3 {
			continue
		}

		upper := strings.ToUpper(desc)
		if containsAny(upper, usDeposits) || (strings.Contains(upper, "ZELLE") && strings.Contains(upper, "FROM")) {
			continue
		}

		amount := pickUSAmount(amounts)
		if amount <= 0 {
			continue
		}
		out = append(out, Row{Date: date, Description: desc, Amount: amount})
	}
	return out
}

// pickUSAmount skips the balance, which is usually the largest figure on
// the line.
func pickUSAmount(amounts []float64) float64 {
	highest := maxOf(amounts)
	for _, a := range amounts {
		if a != highest && a > 0 && a < 10000 {
			return a
		}
	}
	if len(amounts) == 1 && amounts[0] < 5000 {
		return amounts[0]
	}
	if len(amounts) >= 2 {
		first, last := amounts[0], amounts[len(amounts)-1]
		if first < last*0.5 && first < 5000 {
			return first
		}
	}
	return 0
}

// anzStrategy handles ANZ statements: "17 JUN" dates, "blank" placeholders
// in empty columns, and EFFECTIVE DATE continuation lines.
type anzStrategy struct{}

var (
	anzDateAnywhere = regexp.MustCompile(`(?i)\d{1,2}\s+(?:` + monthNames + `)\b`)
	anzDate         = regexp.MustCompile(`(?i)^(\d{1,2}\s+(?:` + monthNames + `))\b`)
	blankWord       = regexp.MustCompile(`(?i)\bblank\b`)
)

const maxANZAmount = 5000

func (anzStrategy) Name() string { return "anz" }

func (anzStrategy) Extract(doc *Document) []Row {
	text := doc.Text()
	lower := strings.ToLower(text)
	hasHeaders := strings.Contains(lower, "withdrawals") && strings.Contains(lower, "deposits")
	if !strings.Contains(lower, "blank") && (!anzDateAnywhere.MatchString(text) || !hasHeaders) {
		return nil
	}

	blocks := buildBlocks(doc.Lines(), anzDate, func(l string) bool {
		return strings.Contains(l, "transaction details") ||
			(strings.Contains(l, "withdrawals") && strings.Contains(l, "deposits"))
	})

	var out []Row
	for _, b := range blocks {
		upper := strings.ToUpper(b.text())
		if strings.Contains(upper, "OPENING BALANCE") || strings.Contains(upper, "CLOSING BALANCE") {
			continue
		}
		credit := strings.Contains(upper, "DEPOSIT") || strings.Contains(upper, "CREDIT")
		if credit && !strings.Contains(upper, "VISA DEBIT") {
			continue
		}

		var amounts []float64
		var parts []string
		for _, line := range b.lines {
			if strings.Contains(strings.ToUpper(line), "EFFECTIVE DATE") {
				continue
			}

			lineAmounts := moneyValues(line)
			cleaned := line
			if len(lineAmounts) > 0 {
				amounts = append(amounts, lineAmounts...)
				cleaned = moneyToken.ReplaceAllString(cleaned, "")
			}
			cleaned = strings.TrimSpace(blankWord.ReplaceAllString(cleaned, ""))
			if cleaned == "" || (len(lineAmounts) > 0 && len(cleaned) <= 2) {
				continue
			}
			parts = append(parts, cleaned)
		}
		if len(amounts) == 0 {
			continue
		}

		var amount float64
		highest := maxOf(amounts)
		for _, a := range amounts {
			if a != highest && a < maxANZAmount {
				amount = a
				break
			}
		}
		if amount <= 0 {
			continue
		}

		desc := collapse(strings.Join(parts, " "))
		if len(desc) < 3 {
			continue
		}
		out = append(out, Row{Date: b.date, Description: desc, Amount: amount})
	}
	return out
}
