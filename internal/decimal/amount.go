package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// MinPositive is the smallest amount the SAT schemas accept for
// "positive" fields (one millionth).
var MinPositive = decimal.New(1, -6)

// FromString parses a decimal from its wire representation
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// HasMaxSixDecimals reports whether d carries at most six decimal places.
// The SAT amount and rate types (t_Importe, c_TasaOCuota) allow no more.
func HasMaxSixDecimals(d decimal.Decimal) bool {
	return d.Exponent() >= -6 || d.Equal(d.Round(6))
}

// IsNonNegative returns true if d >= 0
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// IsPositiveAmount returns true if d >= 0.000001
func IsPositiveAmount(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(MinPositive)
}

// Sum adds amounts, zero when called with none
func Sum(values ...decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
