package normalize

import "github.com/shopspring/decimal"

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Round2 rounds a money value to cents.
func Round2(v float64) float64 {
	return Round(v, 2)
}

// Round1 rounds a percentage to one decimal place.
func Round1(v float64) float64 {
	return Round(v, 1)
}

// Round0 rounds to a whole number.
func Round0(v float64) float64 {
	return Round(v, 0)
}
