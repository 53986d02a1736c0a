package values

import (
	"errors"
	"fmt"
)

// ErrCurrencyMismatch is returned when combining amounts in different currencies.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// moneyScale is the number of fractional digits money amounts are rounded to.
const moneyScale = 2

// Money is a nullable decimal amount in a currency.
type Money struct {
	amount   Decimal
	currency string
}

// NullMoney is the null Money value.
var NullMoney = Money{}

// ParseMoney parses a money literal such as "10.12EUR".
func ParseMoney(s string) (Money, error) {
	if len(s) < 4 {
		return NullMoney, fmt.Errorf("invalid money %q", s)
	}
	amount, err := ParseDecimal(s[:len(s)-3])
	if err != nil {
		return NullMoney, fmt.Errorf("invalid money %q: %w", s, err)
	}
	return Money{amount: amount, currency: s[len(s)-3:]}, nil
}

// MoneyOf parses s and panics if s is not a valid money literal.
func MoneyOf(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMoney creates a Money value from an amount and a currency code.
func NewMoney(amount Decimal, currency string) Money {
	if amount.IsNull() {
		return NullMoney
	}
	return Money{amount: amount, currency: currency}
}

// IsNull reports whether m is null.
func (m Money) IsNull() bool {
	return m.amount.IsNull()
}

// Amount returns the amount as Decimal.
func (m Money) Amount() Decimal {
	return m.amount
}

// Currency returns the currency code.
func (m Money) Currency() string {
	return m.currency
}

func (m Money) check(o Money) error {
	if m.IsNull() || o.IsNull() || m.currency == o.currency {
		return nil
	}
	return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, o.currency)
}

// Add returns m + o.
func (m Money) Add(o Money) (Money, error) {
	if err := m.check(o); err != nil {
		return NullMoney, err
	}
	return NewMoney(m.amount.Add(o.amount), m.currency), nil
}

// Subtract returns m - o.
func (m Money) Subtract(o Money) (Money, error) {
	if err := m.check(o); err != nil {
		return NullMoney, err
	}
	return NewMoney(m.amount.Subtract(o.amount), m.currency), nil
}

// Multiply returns m * d rounded half-up to the money scale.
func (m Money) Multiply(d Decimal) (Money, error) {
	p, err := m.amount.Multiply(d).Round(moneyScale, RoundHalfUp)
	if err != nil {
		return NullMoney, err
	}
	return NewMoney(p, m.currency), nil
}

// Divide returns m / d rounded half-up to the money scale.
func (m Money) Divide(d Decimal) (Money, error) {
	q, err := m.amount.Divide(d)
	if err != nil {
		return NullMoney, err
	}
	r, err := q.Round(moneyScale, RoundHalfUp)
	if err != nil {
		return NullMoney, err
	}
	return NewMoney(r, m.currency), nil
}

// Negate returns -m.
func (m Money) Negate() Money {
	return NewMoney(m.amount.Negate(), m.currency)
}

// Abs returns |m|.
func (m Money) Abs() Money {
	return NewMoney(m.amount.Abs(), m.currency)
}

// Round returns m rounded to scale fractional digits.
func (m Money) Round(scale int, mode RoundingMode) (Money, error) {
	r, err := m.amount.Round(scale, mode)
	if err != nil {
		return NullMoney, err
	}
	return NewMoney(r, m.currency), nil
}

// Cmp compares the amounts of m and o, which must share a currency.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.check(o); err != nil {
		return 0, err
	}
	return m.amount.Cmp(o.amount), nil
}

// Equal reports whether m and o have the same currency and amount.
func (m Money) Equal(o Money) bool {
	if m.IsNull() || o.IsNull() {
		return m.IsNull() == o.IsNull()
	}
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

// GreaterThan reports m > o; false if either is null.
func (m Money) GreaterThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return err == nil && !m.IsNull() && !o.IsNull() && c > 0, err
}

// GreaterThanOrEqual reports m >= o; false if either is null.
func (m Money) GreaterThanOrEqual(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return err == nil && !m.IsNull() && !o.IsNull() && c >= 0, err
}

// LessThan reports m < o; false if either is null.
func (m Money) LessThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return err == nil && !m.IsNull() && !o.IsNull() && c < 0, err
}

// LessThanOrEqual reports m <= o; false if either is null.
func (m Money) LessThanOrEqual(o Money) (bool, error) {
	c, err := m.Cmp(o)
	return err == nil && !m.IsNull() && !o.IsNull() && c <= 0, err
}

// String formats m as amount followed by currency, e.g. "5.90EUR".
func (m Money) String() string {
	if m.IsNull() {
		return "MoneyNull"
	}
	return m.amount.String() + m.currency
}
