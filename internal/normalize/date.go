package normalize

import (
	"strings"
	"time"
)

type dateLayout struct {
	layout string
	noYear bool
}

// Layouts are tried in order, so ambiguous numeric dates resolve day-first.
var dateLayouts = []dateLayout{
	{layout: "2006-1-2"},
	{layout: "2/1/2006"},
	{layout: "1/2/2006"},
	{layout: "2/1/06"},
	{layout: "1/2/06"},
	{layout: "2-1-2006"},
	{layout: "2 Jan 2006"},
	{layout: "2 January 2006"},
	{layout: "Jan 2, 2006"},
	{layout: "2 Jan", noYear: true},
	{layout: "2/1", noYear: true},
	{layout: "1/2", noYear: true},
}

// DateParser parses the date shapes that appear on statements. Dates without
// a year are placed in the current year of the parser's clock.
type DateParser struct {
	now func() time.Time
}

// NewDateParser creates a parser. A nil clock means time.Now.
func NewDateParser(now func() time.Time) *DateParser {
	if now == nil {
		now = time.Now
	}
	return &DateParser{now: now}
}

var defaultDateParser = NewDateParser(nil)

// ParseDate parses s with the default parser.
func ParseDate(s string) (time.Time, bool) {
	return defaultDateParser.Parse(s)
}

// Parse returns the calendar date for s, or false when no layout matches.
func (p *DateParser) Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, l := range dateLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		if !l.noYear {
			return t, true
		}

		withYear := time.Date(p.now().Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// 29 Feb outside a leap year rolls into March.
		if withYear.Month() != t.Month() {
			continue
		}
		return withYear, true
	}

	return time.Time{}, false
}

// MonthKey formats t as a YYYY-MM bucket.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// DaysBetween counts whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
