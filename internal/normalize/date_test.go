package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateParser(t *testing.T) {
	clock := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	parser := NewDateParser(clock)

	tests := []struct {
		input string
		want  string
	}{
		{input: "2025-01-15", want: "2025-01-15"},
		{input: "15/01/2025", want: "2025-01-15"},
		{input: "01/15/2025", want: "2025-01-15"},
		{input: "1/2/2025", want: "2025-02-01"},
		{input: "15/01/25", want: "2025-01-15"},
		{input: "15-01-2025", want: "2025-01-15"},
		{input: "15 Jan 2025", want: "2025-01-15"},
		{input: "15 JAN 2025", want: "2025-01-15"},
		{input: "15 January 2025", want: "2025-01-15"},
		{input: "Jan 15, 2025", want: "2025-01-15"},
		{input: "15 Mar", want: "2025-03-15"},
		{input: "15/03", want: "2025-03-15"},
		{input: "03/15", want: "2025-03-15"},
		{input: "  2024-12-31  ", want: "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parser.Parse(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestDateParserRejects(t *testing.T) {
	parser := NewDateParser(func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) })

	for _, input := range []string{"", "yesterday", "32/13/2025", "29/02"} {
		t.Run(input, func(t *testing.T) {
			_, ok := parser.Parse(input)
			assert.False(t, ok)
		})
	}
}

func TestMonthKeyAndDays(t *testing.T) {
	a := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01", MonthKey(a))
	assert.Equal(t, 60, DaysBetween(a, b))
}
