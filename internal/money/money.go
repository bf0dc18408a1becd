// Package money represents currency amounts as signed integers in minor units
// (cents). Conversion to and from display strings happens at the edges only.
package money

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Exponent is the number of minor-unit digits in a display amount.
const Exponent = 2

var (
	ErrPrecision  = errors.New("amount has more precision than the minor unit")
	ErrOutOfRange = errors.New("amount out of range")
)

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Money is an amount in minor units. Negative values model discounts and refunds.
type Money int64

// Parse converts a display string such as "12.34" or "-0.5" into minor units.
// It never rounds: sub-cent precision is an error.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	minor := d.Shift(Exponent)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("invalid amount %q: %w", s, ErrPrecision)
	}
	if minor.Cmp(maxMinor) > 0 || minor.Cmp(minMinor) < 0 {
		return 0, fmt.Errorf("invalid amount %q: %w", s, ErrOutOfRange)
	}

	return Money(minor.IntPart()), nil
}

// MustParse is Parse for constants in tests and fixtures.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the amount in display units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -Exponent)
}

// String formats the amount with exactly two decimals.
func (m Money) String() string {
	return m.Decimal().StringFixed(Exponent)
}

func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// Sign returns -1, 0 or 1.
func (m Money) Sign() int {
	switch {
	case m < 0:
		return -1
	case m > 0:
		return 1
	default:
		return 0
	}
}

// Add returns a+b, or ErrOutOfRange when the result does not fit in int64.
func Add(a, b Money) (Money, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrOutOfRange
	}
	return sum, nil
}

// CheckedSum adds amounts, or returns ErrOutOfRange when the total does not fit
// in int64. Positive and negative amounts are accumulated separately, so the
// outcome does not depend on the order of amounts.
func CheckedSum(amounts ...Money) (Money, error) {
	var (
		pos, neg Money
		err      error
	)
	for _, a := range amounts {
		if a > 0 {
			pos, err = Add(pos, a)
		} else {
			neg, err = Add(neg, a)
		}
		if err != nil {
			return 0, err
		}
	}
	return pos + neg, nil
}

// Sum adds amounts exactly.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// MarshalJSON encodes the amount as an integer number of minor units.
func (m Money) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(m), 10), nil
}

// UnmarshalJSON accepts either an integer number of minor units (1234) or a
// display string ("12.34").
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("invalid amount %s: %w", data, err)
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}

	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("amount must be an integer number of minor units or a decimal string: %w", err)
	}
	*m = Money(v)
	return nil
}
