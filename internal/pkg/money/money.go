// Package money keeps prices in integer cents so totals never drift.
package money

import (
	"errors"
	"fmt"
	"math"
)

// Cents is an amount in the smallest currency unit.
type Cents int64

// MaxCents is the largest amount a decimal(10,2) column holds (99,999,999.99).
const MaxCents Cents = 9_999_999_999

var ErrOutOfRange = errors.New("amount out of range")

// FromFloat rounds a decimal amount to whole cents, half away from zero.
// NaN, infinities and amounts beyond ±MaxCents are rejected.
func FromFloat(amount float64) (Cents, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrOutOfRange
	}
	r := math.Round(amount * 100)
	if math.Abs(r) > float64(MaxCents) {
		return 0, ErrOutOfRange
	}
	return Cents(r), nil
}

// Round converts a stored amount for display. Values outside the column
// range are clamped rather than converted.
func Round(amount float64) Cents {
	switch {
	case math.IsNaN(amount):
		return 0
	case amount*100 >= float64(MaxCents):
		return MaxCents
	case amount*100 <= -float64(MaxCents):
		return -MaxCents
	}
	return Cents(math.Round(amount * 100))
}

func (c Cents) Float() float64 {
	return float64(c) / 100
}

// Mul multiplies by an integer factor (nights, guests). The result must stay
// within ±MaxCents.
func (c Cents) Mul(n int) (Cents, error) {
	if c == 0 || n == 0 {
		return 0, nil
	}
	a, f := int64(c), int64(n)
	if a > int64(MaxCents) || a < -int64(MaxCents) || f > int64(MaxCents) || f < -int64(MaxCents) {
		return 0, ErrOutOfRange
	}
	if a < 0 {
		a = -a
	}
	if f < 0 {
		f = -f
	}
	if f > int64(MaxCents)/a {
		return 0, ErrOutOfRange
	}
	return c * Cents(n), nil
}

// Display renders the amount the way booking responses show it, e.g. "$600.00".
func (c Cents) Display() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s$%d.%02d", sign, v/100, v%100)
}
