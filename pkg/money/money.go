package money

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in paise (1/100 of a rupee).
type Money int64

// Zero is the zero amount
const Zero Money = 0

var (
	hundred  = decimal.NewFromInt(100)
	maxPaise = decimal.NewFromInt(math.MaxInt64)
	minPaise = decimal.NewFromInt(math.MinInt64)
)

// FromPaise wraps a raw paise count
func FromPaise(p int64) Money {
	return Money(p)
}

// FromRupees converts a rupee amount to Money, rounding half-up to the paisa.
func FromRupees(r float64) Money {
	return FromDecimal(decimal.NewFromFloat(r))
}

// FromDecimal converts a rupee decimal to Money, rounding half-up to the paisa.
func FromDecimal(d decimal.Decimal) Money {
	return Money(d.Mul(hundred).Round(0).IntPart())
}

// ParseDecimal converts a rupee decimal to Money, failing when the paise
// amount does not fit in an int64.
func ParseDecimal(d decimal.Decimal) (Money, error) {
	p := d.Mul(hundred).Round(0)
	if p.GreaterThan(maxPaise) || p.LessThan(minPaise) {
		return 0, fmt.Errorf("money: amount %s is out of range", d.String())
	}
	return Money(p.IntPart()), nil
}

// RoundPaise rounds a fractional paise amount half-up to a whole paisa.
func RoundPaise(p decimal.Decimal) Money {
	return Money(p.Round(0).IntPart())
}

// Paise returns the raw paise count
func (m Money) Paise() int64 {
	return int64(m)
}

// PaiseDecimal returns the amount in paise as a decimal, for rate arithmetic.
func (m Money) PaiseDecimal() decimal.Decimal {
	return decimal.NewFromInt(int64(m))
}

// Decimal returns the amount in rupees
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Rupees returns the amount in rupees as a float, for display only.
func (m Money) Rupees() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

func (m Money) Add(o Money) Money { return m + o }

func (m Money) Sub(o Money) Money { return m - o }

// Mul multiplies by a whole quantity
func (m Money) Mul(qty int) Money { return m * Money(qty) }

func (m Money) IsNegative() bool { return m < 0 }

func (m Money) IsPositive() bool { return m > 0 }

// Abs returns the absolute amount
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// String formats the amount with two decimals, e.g. "236.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a rupee number
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts a rupee number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("money: invalid amount %q: %w", s, err)
		}
		return m.set(d)
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("money: invalid amount %s: %w", string(data), err)
	}
	return m.set(d)
}

func (m *Money) set(d decimal.Decimal) error {
	v, err := ParseDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Sum adds up a list of amounts
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
