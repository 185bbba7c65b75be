// Package core holds the domain model of the tracker: transactions,
// categories, budget settings and the pure arithmetic over them.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// maxCents is the largest amount whose cent value fits an int64.
var maxCents = decimal.New(math.MaxInt64, 0)

// ParseDecimalToCents converts a decimal string such as "12.34" or "12,34"
// to cents, rounding half away from zero at the third decimal place.
// Only ASCII digits and a single separator are accepted; signs, exponents
// and amounts that round to zero are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if !isPlainDecimal(s) {
		return 0, ErrInvalidAmount
	}
	// ".5" and "5." are accepted; padding with zeros keeps the value.
	if strings.Contains(s, ".") {
		s = "0" + s + "0"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := d.Round(2).Shift(2)
	if !cents.IsPositive() || cents.GreaterThan(maxCents) {
		return 0, ErrInvalidAmount
	}
	return cents.IntPart(), nil
}

// isPlainDecimal reports whether s is digits with at most one dot and at
// least one digit.
func isPlainDecimal(s string) bool {
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// String renders the amount in major units with two decimals, e.g. "12.34".
func (m Money) String() string {
	return decimal.New(m.Cents, -2).StringFixed(2)
}
