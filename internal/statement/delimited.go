package statement

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/the-leaks-must-stop/internal/normalize"
)

// delimiters are tried in order; the first that splits the header into at
// least two fields wins.
var delimiters = []rune{',', ';', '\t', '|'}

// Column role vocabularies, most specific first within each role.
var (
	dateColumns        = []string{"date", "posted", "transaction date", "trans date", "posting date"}
	descriptionColumns = []string{"description", "merchant", "payee", "memo", "narrative", "details", "particulars"}
	amountColumns      = []string{"amount", "value", "sum", "total"}
	debitColumns       = []string{"debit", "withdrawal", "out", "dr"}
	creditColumns      = []string{"credit", "deposit", "in", "cr"}
)

// delimitedStrategy reads CSV-like exports with a header row, working out
// which column holds what from the header text.
type delimitedStrategy struct{}

func (delimitedStrategy) Name() string { return "delimited" }

func (delimitedStrategy) Extract(doc *Document) []Row {
	records := readRecords(doc.Text())
	if len(records) < 2 {
		return nil
	}

	cols := detectColumns(records[0], records[1:])
	if cols.desc < 0 {
		return nil
	}

	var out []Row
	for _, rec := range records[1:] {
		merchant := strings.TrimSpace(field(rec, cols.desc))
		if merchant == "" || strings.EqualFold(merchant, "nan") {
			continue
		}

		amount, ok := cols.amount(rec)
		if !ok || amount == 0 {
			continue
		}

		out = append(out, Row{
			Date:        strings.TrimSpace(field(rec, cols.date)),
			Description: merchant,
			Amount:      amount,
		})
	}
	return out
}

func readRecords(text string) [][]string {
	for _, d := range delimiters {
		r := csv.NewReader(strings.NewReader(text))
		r.Comma = d
		r.LazyQuotes = true
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true

		var records [][]string
		for {
			rec, err := r.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				records = nil
				break
			}
			if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
				continue
			}
			records = append(records, rec)
		}

		if len(records) > 0 && len(records[0]) >= 2 {
			return records
		}
	}
	return nil
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

type columnLayout struct {
	header []string
	date   int
	desc   int
	amt    int
	debit  int
	credit int
}

// findColumn loops patterns first so an earlier pattern beats an earlier
// column. Columns in skip are never returned.
func findColumn(header []string, patterns []string, skip ...int) int {
	for _, p := range patterns {
		for i, col := range header {
			if containsInt(skip, i) {
				continue
			}
			if strings.Contains(strings.ToLower(strings.TrimSpace(col)), p) {
				return i
			}
		}
	}
	return -1
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func detectColumns(header []string, rows [][]string) columnLayout {
	cols := columnLayout{header: header}

	cols.date = findColumn(header, dateColumns)
	if cols.date < 0 {
		cols.date = 0
	}

	cols.desc = findColumn(header, descriptionColumns, cols.date)
	if cols.desc < 0 {
		cols.desc = firstTextColumn(header, rows, cols.date)
	}

	// Balance columns are never an amount source, and "in"/"cr" must not
	// match "Description" or "Running Balance".
	skip := []int{cols.date, cols.desc}
	for i, col := range header {
		if strings.Contains(strings.ToLower(col), "balance") {
			skip = append(skip, i)
		}
	}

	cols.amt = findColumn(header, amountColumns, skip...)
	cols.debit = findColumn(header, debitColumns, skip...)
	cols.credit = findColumn(header, creditColumns, append(skip, cols.debit)...)
	return cols
}

// firstTextColumn picks the first non-date column holding a value that is
// not a plain number.
func firstTextColumn(header []string, rows [][]string, dateCol int) int {
	for i := range header {
		if i == dateCol {
			continue
		}
		for _, rec := range rows {
			v := strings.TrimSpace(field(rec, i))
			if v == "" {
				continue
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return i
			}
		}
	}
	return -1
}

func cellAmount(rec []string, idx int) (float64, bool) {
	if idx < 0 {
		return 0, false
	}
	return normalize.ParseAmount(field(rec, idx))
}

// amount applies the column policy: separate debit and credit columns,
// then a debit-only column, then a single signed column, then any other
// numeric cell.
func (c columnLayout) amount(rec []string) (float64, bool) {
	switch {
	case c.debit >= 0 && c.credit >= 0:
		debit, _ := cellAmount(rec, c.debit)
		if debit != 0 {
			return math.Abs(debit), true
		}
		return 0, false

	case c.debit >= 0:
		debit, ok := cellAmount(rec, c.debit)
		return math.Abs(debit), ok

	case c.amt >= 0:
		v, ok := cellAmount(rec, c.amt)
		return math.Abs(v), ok
	}

	for i := range c.header {
		if i == c.date || i == c.desc {
			continue
		}
		if v, ok := cellAmount(rec, i); ok && v != 0 {
			return math.Abs(v), true
		}
	}
	return 0, false
}
