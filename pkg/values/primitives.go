package values

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNullValue is returned when a null value is unboxed into a primitive.
var ErrNullValue = errors.New("null value cannot be converted to a primitive")

// ErrIntegerOverflow is returned when integer arithmetic leaves the range
// of int.
var ErrIntegerOverflow = errors.New("integer overflow")

// AddInt returns a + b, failing instead of wrapping around.
func AddInt(a, b int) (int, error) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, fmt.Errorf("%w: %d + %d", ErrIntegerOverflow, a, b)
	}
	return c, nil
}

// SubtractInt returns a - b, failing instead of wrapping around.
func SubtractInt(a, b int) (int, error) {
	c := a - b
	if (b > 0 && c > a) || (b < 0 && c < a) {
		return 0, fmt.Errorf("%w: %d - %d", ErrIntegerOverflow, a, b)
	}
	return c, nil
}

// MultiplyInt returns a * b, failing instead of wrapping around.
func MultiplyInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, fmt.Errorf("%w: %d * %d", ErrIntegerOverflow, a, b)
	}
	return c, nil
}

// Integer is a nullable int.
type Integer struct {
	v     int
	valid bool
}

// NullInteger is the null Integer.
var NullInteger = Integer{}

// IntegerOf boxes i.
func IntegerOf(i int) Integer {
	return Integer{v: i, valid: true}
}

// IsNull reports whether i is null.
func (i Integer) IsNull() bool {
	return !i.valid
}

// Int unboxes i.
func (i Integer) Int() (int, error) {
	if !i.valid {
		return 0, ErrNullValue
	}
	return i.v, nil
}

// Decimal converts i to a Decimal.
func (i Integer) Decimal() Decimal {
	if !i.valid {
		return NullDecimal
	}
	return DecimalFromInt(i.v)
}

// Add returns i + o.
func (i Integer) Add(o Integer) (Integer, error) {
	if !i.valid || !o.valid {
		return NullInteger, nil
	}
	v, err := AddInt(i.v, o.v)
	if err != nil {
		return NullInteger, err
	}
	return IntegerOf(v), nil
}

// Subtract returns i - o.
func (i Integer) Subtract(o Integer) (Integer, error) {
	if !i.valid || !o.valid {
		return NullInteger, nil
	}
	v, err := SubtractInt(i.v, o.v)
	if err != nil {
		return NullInteger, err
	}
	return IntegerOf(v), nil
}

// Multiply returns i * o.
func (i Integer) Multiply(o Integer) (Integer, error) {
	if !i.valid || !o.valid {
		return NullInteger, nil
	}
	v, err := MultiplyInt(i.v, o.v)
	if err != nil {
		return NullInteger, err
	}
	return IntegerOf(v), nil
}

// Negate returns -i.
func (i Integer) Negate() Integer {
	if !i.valid {
		return i
	}
	return IntegerOf(-i.v)
}

func (i Integer) String() string {
	if !i.valid {
		return "IntegerNull"
	}
	return strconv.Itoa(i.v)
}

// Boolean is a nullable bool.
type Boolean struct {
	v     bool
	valid bool
}

// NullBoolean is the null Boolean.
var NullBoolean = Boolean{}

// BooleanOf boxes b.
func BooleanOf(b bool) Boolean {
	return Boolean{v: b, valid: true}
}

// IsNull reports whether b is null.
func (b Boolean) IsNull() bool {
	return !b.valid
}

// Bool unboxes b.
func (b Boolean) Bool() (bool, error) {
	if !b.valid {
		return false, ErrNullValue
	}
	return b.v, nil
}

// Equal reports whether b and o are both null or hold the same value.
func (b Boolean) Equal(o Boolean) bool {
	return b == o
}

func (b Boolean) String() string {
	if !b.valid {
		return "BooleanNull"
	}
	return strconv.FormatBool(b.v)
}

// Enum is a value of an enumeration datatype, identified by its ID.
// The zero value is null.
type Enum struct {
	ID string
}

// IsNull reports whether e is null.
func (e Enum) IsNull() bool {
	return e.ID == ""
}

// Equal reports whether e and o are the same enum value.
func (e Enum) Equal(o Enum) bool {
	return e.ID == o.ID
}

func (e Enum) String() string {
	return e.ID
}

// Must returns v and panics if err is non-nil. Generated code wraps
// operations that can fail at runtime with Must so they nest as expressions.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// ErrUnboundVariable is returned when a variable is missing from the
// environment.
var ErrUnboundVariable = errors.New("unbound variable")

// Environment provides variable values to generated code.
type Environment interface {
	Lookup(name string) (any, bool)
}

// Lookup returns the variable name from env as T. A nil value yields the
// null value of T.
func Lookup[T any](env Environment, name string) (T, error) {
	var zero T
	if env == nil {
		return zero, fmt.Errorf("%w: %s", ErrUnboundVariable, name)
	}
	v, ok := env.Lookup(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnboundVariable, name)
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("variable %s: expected %T, got %T", name, zero, v)
	}
	return t, nil
}
