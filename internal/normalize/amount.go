// Package normalize turns the loosely formatted strings found on bank
// statements into amounts, dates and stable merchant keys.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	amountStripper = strings.NewReplacer("$", "", "£", "", "€", "", "₹", "", ",", "")
	plainNumber    = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)

	looseStripper = regexp.MustCompile(`[£$€₹(),\s]|[A-Za-z]`)
	looseNumber   = regexp.MustCompile(`[\d,]+\.?\d*`)
)

// ParseAmount parses a currency string such as "$1,234.56", "(50.00)" or
// "₹1,23,456.78". Commas are treated as grouping separators regardless of
// group size. It reports false for anything that is not a finite number.
func ParseAmount(raw string) (float64, bool) {
	s := strings.Join(strings.Fields(amountStripper.Replace(raw)), "")
	if s == "" {
		return 0, false
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	if !plainNumber.MatchString(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// AmountFromNumber passes numeric cells through unchanged.
func AmountFromNumber(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseLooseAmount is the forgiving variant used for PDF cells, where amounts
// arrive glued to letters ("45.00DR") or wrapped in parentheses. A minus sign
// anywhere or a matching pair of parentheses makes the value negative.
func ParseLooseAmount(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	negative := strings.Contains(raw, "-") ||
		(strings.Contains(raw, "(") && strings.Contains(raw, ")"))

	cleaned := looseStripper.ReplaceAllString(raw, "")
	match := looseNumber.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
