package normalize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "dollar with grouping", input: "$1,234.56", want: 1234.56, wantOK: true},
		{name: "grouping only", input: "1,234.56", want: 1234.56, wantOK: true},
		{name: "parenthesized negative", input: "(50.00)", want: -50.0, wantOK: true},
		{name: "leading minus", input: "-50.00", want: -50.0, wantOK: true},
		{name: "indian lakhs", input: "₹1,23,456.78", want: 123456.78, wantOK: true},
		{name: "pound with spaces", input: " £ 12.00 ", want: 12.0, wantOK: true},
		{name: "euro", input: "€7", want: 7, wantOK: true},
		{name: "currency inside parens", input: "($19.99)", want: -19.99, wantOK: true},
		{name: "empty", input: "", wantOK: false},
		{name: "words", input: "N/A", wantOK: false},
		{name: "trailing letters", input: "45.00DR", wantOK: false},
		{name: "nan literal", input: "NaN", wantOK: false},
		{name: "infinity literal", input: "Inf", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestAmountFromNumber(t *testing.T) {
	v, ok := AmountFromNumber(12.5)
	assert.True(t, ok)
	assert.InDelta(t, 12.5, v, 0.0001)

	_, ok = AmountFromNumber(math.NaN())
	assert.False(t, ok)

	_, ok = AmountFromNumber(math.Inf(1))
	assert.False(t, ok)
}

func TestParseLooseAmount(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{input: "45.00DR", want: 45, wantOK: true},
		{input: "$1,200.50", want: 1200.5, wantOK: true},
		{input: "(12.00)", want: -12, wantOK: true},
		{input: "-9.99", want: -9.99, wantOK: true},
		{input: "12.00 CR", want: 12, wantOK: true},
		{input: "", wantOK: false},
		{input: "blank", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLooseAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 0.0001)
			}
		})
	}
}

func TestRound(t *testing.T) {
	assert.InDelta(t, 15.99, Round2(15.989999), 1e-9)
	assert.InDelta(t, 33.3, Round1(33.333), 1e-9)
	assert.InDelta(t, 2.0, Round0(1.5), 1e-9)
	assert.InDelta(t, -2.0, Round0(-1.5), 1e-9)
}
