package statement

import (
	"math"
	"regexp"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

type columnRole int

const (
	roleDate columnRole = iota
	roleDescription
	roleDebit
	roleCredit
	roleAmount
	roleBalance
)

// headerKeywords covers Western and Indian bank column vocabularies. Roles
// are checked in declaration order for every cell.
var headerKeywords = []struct {
	role     columnRole
	keywords []string
}{
	{roleDate, []string{"date", "trans date", "transaction date", "posting date", "value date",
		"txn date", "txn. date", "val date", "val. date"}},
	{roleDescription, []string{"description", "transaction", "details", "particulars",
		"narration", "memo", "payee", "merchant", "remarks",
		"transaction details", "transaction particulars"}},
	{roleDebit, []string{"debit", "withdrawal", "withdrawals", "out", "dr", "money out", "paid out",
		"debit amount", "dr.", "debit(dr)", "withdrawal amt"}},
	{roleCredit, []string{"credit", "deposit", "deposits", "in", "cr", "money in", "paid in",
		"credit amount", "cr.", "credit(cr)", "deposit amt"}},
	{roleAmount, []string{"amount", "value", "sum", "txn amount", "transaction amount"}},
	{roleBalance, []string{"balance", "running balance", "available", "closing balance", "bal"}},
}

const (
	maxTableAmount   = 50000
	minTableDescLen  = 2
	minHeaderMatches = 2
)

var tableDescNoise = regexp.MustCompile(`[\d$£€,.\-()]`)

// tableStrategy reads rows from the gap-split tables of a PDF, locating
// columns from the first header row it sees.
type tableStrategy struct{}

func (tableStrategy) Name() string { return "table" }

func (tableStrategy) Extract(doc *Document) []Row {
	var rows [][]string
	var header map[columnRole]int

	for _, table := range doc.Tables() {
		for _, raw := range table {
			cells := make([]string, len(raw))
			empty := true
			for i, c := range raw {
				cells[i] = strings.TrimSpace(c)
				if cells[i] != "" {
					empty = false
				}
			}
			if empty {
				continue
			}

			if header == nil {
				if h := detectHeader(cells); h != nil {
					header = h
					continue
				}
			}

			if isExcluded(strings.Join(cells, " ")) {
				continue
			}
			rows = append(rows, cells)
		}
	}

	if len(rows) == 0 {
		return nil
	}
	if header != nil {
		return tableRowsWithHeader(rows, header)
	}
	return tableRowsWithoutHeader(rows)
}

func detectHeader(cells []string) map[columnRole]int {
	lower := make([]string, len(cells))
	for i, c := range cells {
		lower[i] = strings.ToLower(c)
	}
	text := strings.Join(lower, " ")

	matches := 0
	for _, hk := range headerKeywords {
		for _, kw := range hk.keywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
	}
	if matches < minHeaderMatches {
		return nil
	}

	indices := make(map[columnRole]int)
	for i, cell := range lower {
		for _, hk := range headerKeywords {
			if !containsAny(cell, hk.keywords) {
				continue
			}
			if _, seen := indices[hk.role]; !seen {
				indices[hk.role] = i
			}
			break
		}
	}
	if len(indices) == 0 {
		return nil
	}
	return indices
}

func cellAt(row []string, idx int) (string, bool) {
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}

func looseAmount(s string) float64 {
	v, ok := normalize.ParseLooseAmount(s)
	if !ok {
		return 0
	}
	return v
}

func tableRowsWithHeader(rows [][]string, header map[columnRole]int) []Row {
	dateIdx, ok := header[roleDate]
	if !ok {
		dateIdx = 0
	}
	descIdx, ok := header[roleDescription]
	if !ok {
		descIdx = 1
	}
	balanceIdx, hasBalance := header[roleBalance]
	isBalance := func(idx int) bool { return hasBalance && idx == balanceIdx }

	var out []Row
	for _, row := range rows {
		date, _ := cellAt(row, dateIdx)
		desc, _ := cellAt(row, descIdx)
		desc = collapse(desc)
		if len(desc) < minTableDescLen {
			continue
		}

		var amount float64
		if idx, ok := header[roleDebit]; ok && !isBalance(idx) {
			if cell, ok := cellAt(row, idx); ok {
				amount = looseAmount(cell)
			}
		}

		if amount == 0 {
			if idx, ok := header[roleAmount]; ok && !isBalance(idx) {
				if cell, ok := cellAt(row, idx); ok && cell != "" {
					lower := strings.ToLower(cell)
					debit := strings.Contains(cell, "-") || strings.Contains(lower, "dr") ||
						strings.HasSuffix(cell, "$") || strings.HasSuffix(cell, "(")
					if debit || !strings.Contains(lower, "cr") {
						amount = looseAmount(cell)
					}
				}
			}
		}

		amount = math.Abs(amount)
		if amount == 0 || amount > maxTableAmount {
			continue
		}
		out = append(out, Row{Date: date, Description: desc, Amount: amount})
	}
	return out
}

// tableRowsWithoutHeader assumes nothing about column order: the first
// date-like cell is the date, the first other positive number is the
// amount and the most text-heavy cell is the description.
func tableRowsWithoutHeader(rows [][]string) []Row {
	var out []Row
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		dateIdx := -1
		for i, cell := range row {
			if looksLikeDate(cell) {
				dateIdx = i
				break
			}
		}

		var amount float64
		for i, cell := range row {
			if i == dateIdx {
				continue
			}
			if v := looseAmount(cell); v > 0 {
				amount = v
				break
			}
		}
		if amount == 0 {
			continue
		}

		var desc string
		best := 0
		for _, cell := range row {
			if n := len(strings.TrimSpace(tableDescNoise.ReplaceAllString(cell, ""))); n > best {
				best = n
				desc = strings.TrimSpace(cell)
			}
		}
		if desc == "" {
			continue
		}

		var date string
		if dateIdx >= 0 {
			date = row[dateIdx]
		}
		out = append(out, Row{Date: date, Description: desc, Amount: amount})
	}
	return out
}
