// Package values provides the runtime value types used by code generated
// from formula expressions.
//
// Decimal and Money are arbitrary precision decimals backed by
// github.com/cockroachdb/apd/v3. Integer and Boolean are the nullable
// counterparts of int and bool. All values are immutable; operations
// return new values. Null operands propagate: an arithmetic operation
// with a null operand yields null.
package values

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"
)

// ImportPath is the import path generated code uses to reference this package.
const ImportPath = "github.com/faktorips/fl/pkg/values"

// DecimalPrecision is the number of significant digits kept by division
// and other inexact operations.
const DecimalPrecision uint32 = 34

var decimalContext = apd.BaseContext.WithPrecision(DecimalPrecision)

// ErrDivisionByZero is returned when dividing by a zero Decimal.
var ErrDivisionByZero = errors.New("division by zero")

// RoundingMode selects how Round discards digits.
type RoundingMode int

const (
	RoundHalfUp RoundingMode = iota
	RoundUp
	RoundDown
)

func (m RoundingMode) rounder() apd.Rounder {
	switch m {
	case RoundUp:
		return apd.RoundUp
	case RoundDown:
		return apd.RoundDown
	default:
		return apd.RoundHalfUp
	}
}

// Decimal is a nullable arbitrary precision decimal.
type Decimal struct {
	v *apd.Decimal
}

// NullDecimal is the null Decimal.
var NullDecimal = Decimal{}

// ParseDecimal parses a decimal literal such as "123.45".
func ParseDecimal(s string) (Decimal, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return NullDecimal, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return Decimal{v: d}, nil
}

// DecimalOf parses s and panics if s is not a valid decimal. Generated code
// only calls it with literals validated at compile time.
func DecimalOf(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DecimalFromInt converts an int.
func DecimalFromInt(i int) Decimal {
	return Decimal{v: apd.New(int64(i), 0)}
}

// IsNull reports whether d is null.
func (d Decimal) IsNull() bool {
	return d.v == nil
}

func (d Decimal) arith(o Decimal, op func(res, x, y *apd.Decimal) (apd.Condition, error)) (Decimal, error) {
	if d.IsNull() || o.IsNull() {
		return NullDecimal, nil
	}
	var res apd.Decimal
	if _, err := op(&res, d.v, o.v); err != nil {
		return NullDecimal, err
	}
	return Decimal{v: &res}, nil
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) Decimal {
	r, _ := d.arith(o, decimalContext.Add)
	return r
}

// Subtract returns d - o.
func (d Decimal) Subtract(o Decimal) Decimal {
	r, _ := d.arith(o, decimalContext.Sub)
	return r
}

// Multiply returns d * o.
func (d Decimal) Multiply(o Decimal) Decimal {
	r, _ := d.arith(o, decimalContext.Mul)
	return r
}

// Divide returns d / o with DecimalPrecision significant digits and
// trailing zeros removed.
func (d Decimal) Divide(o Decimal) (Decimal, error) {
	if !o.IsNull() && o.v.IsZero() {
		return NullDecimal, ErrDivisionByZero
	}
	r, err := d.arith(o, decimalContext.Quo)
	if err != nil || r.IsNull() {
		return r, err
	}
	r.v.Reduce(r.v)
	return r, nil
}

// Negate returns -d.
func (d Decimal) Negate() Decimal {
	if d.IsNull() {
		return d
	}
	var res apd.Decimal
	res.Neg(d.v)
	return Decimal{v: &res}
}

// Abs returns |d|.
func (d Decimal) Abs() Decimal {
	if d.IsNull() {
		return d
	}
	var res apd.Decimal
	res.Abs(d.v)
	return Decimal{v: &res}
}

// Round returns d rounded to scale fractional digits. It fails when the
// result would need more digits than the decimal precision allows.
func (d Decimal) Round(scale int, mode RoundingMode) (Decimal, error) {
	if d.IsNull() {
		return d, nil
	}
	ctx := *decimalContext
	ctx.Rounding = mode.rounder()
	var res apd.Decimal
	if _, err := ctx.Quantize(&res, d.v, int32(-scale)); err != nil {
		return NullDecimal, fmt.Errorf("round %s to scale %d: %w", d, scale, err)
	}
	return Decimal{v: &res}, nil
}

// Sqrt returns the square root of d.
func (d Decimal) Sqrt() (Decimal, error) {
	if d.IsNull() {
		return d, nil
	}
	var res apd.Decimal
	if _, err := decimalContext.Sqrt(&res, d.v); err != nil {
		return NullDecimal, err
	}
	res.Reduce(&res)
	return Decimal{v: &res}, nil
}

// Power returns d raised to the integer exponent e.
func (d Decimal) Power(e int) (Decimal, error) {
	if d.IsNull() {
		return d, nil
	}
	var res apd.Decimal
	if _, err := decimalContext.Pow(&res, d.v, apd.New(int64(e), 0)); err != nil {
		return NullDecimal, err
	}
	return Decimal{v: &res}, nil
}

// Integer truncates d to an Integer.
func (d Decimal) Integer() Integer {
	if d.IsNull() {
		return NullInteger
	}
	var res apd.Decimal
	ctx := *decimalContext
	ctx.Rounding = apd.RoundDown
	if _, err := ctx.RoundToIntegralValue(&res, d.v); err != nil {
		return NullInteger
	}
	i, err := res.Int64()
	if err != nil {
		return NullInteger
	}
	return IntegerOf(int(i))
}

// Cmp compares d and o. Null sorts before every other value.
func (d Decimal) Cmp(o Decimal) int {
	switch {
	case d.IsNull() && o.IsNull():
		return 0
	case d.IsNull():
		return -1
	case o.IsNull():
		return 1
	}
	return d.v.Cmp(o.v)
}

// Equal reports whether d and o denote the same number (2.0 equals 2.00).
func (d Decimal) Equal(o Decimal) bool {
	return d.Cmp(o) == 0
}

// GreaterThan reports d > o; false if either is null.
func (d Decimal) GreaterThan(o Decimal) bool {
	return !d.IsNull() && !o.IsNull() && d.Cmp(o) > 0
}

// GreaterThanOrEqual reports d >= o; false if either is null.
func (d Decimal) GreaterThanOrEqual(o Decimal) bool {
	return !d.IsNull() && !o.IsNull() && d.Cmp(o) >= 0
}

// LessThan reports d < o; false if either is null.
func (d Decimal) LessThan(o Decimal) bool {
	return !d.IsNull() && !o.IsNull() && d.Cmp(o) < 0
}

// LessThanOrEqual reports d <= o; false if either is null.
func (d Decimal) LessThanOrEqual(o Decimal) bool {
	return !d.IsNull() && !o.IsNull() && d.Cmp(o) <= 0
}

// String formats d without exponent; null formats as "DecimalNull".
func (d Decimal) String() string {
	if d.IsNull() {
		return "DecimalNull"
	}
	return d.v.Text('f')
}
