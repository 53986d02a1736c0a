// Package extexcel provides the spreadsheet style functions of the formula
// language: ABS, IF, ISEMPTY, MIN, MAX, ROUND, ROUNDUP, ROUNDDOWN, NOT,
// AND, OR, SQRT, POWER and WHOLENUMBER.
//
// Numeric arguments declared as Decimal also accept int and Integer
// values, which are converted before the call.
package extexcel

import (
	"fmt"
	"strings"

	"github.com/faktorips/fl/pkg/codegen"
	"github.com/faktorips/fl/pkg/functions"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

// All returns all function definitions.
func All() []functions.FlFunction {
	return []functions.FlFunction{
		AbsDecimal(),
		AbsMoney(),
		If(),
		IsEmpty(),
		MinDecimal(),
		MinMoney(),
		MaxDecimal(),
		MaxMoney(),
		Round(values.RoundHalfUp, types.Decimal),
		Round(values.RoundHalfUp, types.Money),
		Round(values.RoundUp, types.Decimal),
		Round(values.RoundUp, types.Money),
		Round(values.RoundDown, types.Decimal),
		Round(values.RoundDown, types.Money),
		Not(),
		And(),
		Or(),
		Sqrt(),
		Power(),
		WholeNumber(),
	}
}

// Namespace returns a resolver holding All.
func Namespace() *functions.Namespace {
	return functions.NewNamespace("excel", All()...)
}

func decimal(name string, result *types.Datatype, gen functions.Generator, argTypes ...*types.Datatype) *functions.Function {
	return functions.New(name, result, gen, argTypes...).
		WidenAll(types.Decimal, types.PrimitiveInt, types.Integer)
}

func boolean(name string, gen functions.Generator, argTypes ...*types.Datatype) *functions.Function {
	return functions.New(name, types.PrimitiveBoolean, gen, argTypes...).
		WidenAll(types.PrimitiveBoolean, types.Boolean)
}

// AbsDecimal returns ABS(Decimal).
func AbsDecimal() *functions.Function {
	return decimal("ABS", types.Decimal, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(args[0], "%s.Abs()", func(d values.Decimal) (any, error) {
			return d.Abs(), nil
		})
	}, types.Decimal).Describe("Returns the absolute value of a number.")
}

// AbsMoney returns ABS(Money).
func AbsMoney() *functions.Function {
	return functions.New("ABS", types.Money, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(args[0], "%s.Abs()", func(m values.Money) (any, error) {
			return m.Abs(), nil
		})
	}, types.Money).Describe("Returns the absolute amount of money.")
}

// IsEmpty returns ISEMPTY(Any), true for null values.
func IsEmpty() *functions.Function {
	return functions.New("ISEMPTY", types.PrimitiveBoolean, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Call("values.IsNull", args, func(vals []any) (any, error) {
			return values.IsNull(vals[0]), nil
		})
	}, types.Any).Describe("Returns true if the value is null.")
}

// MinDecimal returns MIN(Decimal; Decimal).
func MinDecimal() *functions.Function {
	return decimal("MIN", types.Decimal, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Binary(args[0], args[1], "values.MinDecimal(%s, %s)", func(a, b values.Decimal) (any, error) {
			return values.MinDecimal(a, b), nil
		})
	}, types.Decimal, types.Decimal).Describe("Returns the lesser of two numbers.")
}

// MinMoney returns MIN(Money; Money).
func MinMoney() *functions.Function {
	return functions.New("MIN", types.Money, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Binary(args[0], args[1], "values.Must(values.MinMoney(%s, %s))", func(a, b values.Money) (any, error) {
			return values.MinMoney(a, b)
		})
	}, types.Money, types.Money).Describe("Returns the lesser of two amounts of money.")
}

// MaxDecimal returns MAX(Decimal; Decimal).
func MaxDecimal() *functions.Function {
	return decimal("MAX", types.Decimal, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Binary(args[0], args[1], "values.MaxDecimal(%s, %s)", func(a, b values.Decimal) (any, error) {
			return values.MaxDecimal(a, b), nil
		})
	}, types.Decimal, types.Decimal).Describe("Returns the greater of two numbers.")
}

// MaxMoney returns MAX(Money; Money).
func MaxMoney() *functions.Function {
	return functions.New("MAX", types.Money, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Binary(args[0], args[1], "values.Must(values.MaxMoney(%s, %s))", func(a, b values.Money) (any, error) {
			return values.MaxMoney(a, b)
		})
	}, types.Money, types.Money).Describe("Returns the greater of two amounts of money.")
}

var roundNames = map[values.RoundingMode]string{
	values.RoundHalfUp: "ROUND",
	values.RoundUp:     "ROUNDUP",
	values.RoundDown:   "ROUNDDOWN",
}

var roundModes = map[values.RoundingMode]string{
	values.RoundHalfUp: "values.RoundHalfUp",
	values.RoundUp:     "values.RoundUp",
	values.RoundDown:   "values.RoundDown",
}

// Round returns ROUND, ROUNDUP or ROUNDDOWN (depending on mode) for
// Decimal or Money values: NAME(value; scale).
func Round(mode values.RoundingMode, dt *types.Datatype) *functions.Function {
	name := roundNames[mode]
	format := "values.Must(%s.Round(%s, " + roundModes[mode] + "))"
	gen := func(args []*types.CodeFragment) *types.CodeFragment {
		if dt == types.Money {
			return codegen.Binary(args[0], args[1], format, func(m values.Money, scale int) (any, error) {
				return m.Round(scale, mode)
			})
		}
		return codegen.Binary(args[0], args[1], format, func(d values.Decimal, scale int) (any, error) {
			return d.Round(scale, mode)
		})
	}
	fn := functions.New(name, dt, gen, dt, types.PrimitiveInt).Widen(1, types.Integer)
	if dt == types.Decimal {
		fn.Widen(0, types.PrimitiveInt, types.Integer)
	}
	return fn.Describe(fmt.Sprintf("Rounds a value to the given number of fractional digits (%s).", strings.ToLower(name)))
}

// Not returns NOT(boolean).
func Not() *functions.Function {
	return boolean("NOT", func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(args[0], "!%s", func(b bool) (any, error) {
			return !b, nil
		})
	}, types.PrimitiveBoolean).Describe("Negates a boolean value.")
}

// And returns AND(boolean...).
func And() *functions.Function {
	return boolean("AND", junction(" && ", true), types.PrimitiveBoolean).
		Variadic().Describe("Returns true if all arguments are true.")
}

// Or returns OR(boolean...).
func Or() *functions.Function {
	return boolean("OR", junction(" || ", false), types.PrimitiveBoolean).
		Variadic().Describe("Returns true if at least one argument is true.")
}

// junction combines the arguments with op. The executable form stops at
// the first argument that differs from identity, as Go's && and || do.
func junction(op string, identity bool) functions.Generator {
	return func(args []*types.CodeFragment) *types.CodeFragment {
		if len(args) == 1 {
			return args[0]
		}
		srcs := make([]string, len(args))
		for i, a := range args {
			srcs[i] = a.Source()
		}
		return types.NewCodeFragment("("+strings.Join(srcs, op)+")", shortCircuit(args, identity), types.MergeImports(args...)...)
	}
}

// Sqrt returns SQRT(Decimal).
func Sqrt() *functions.Function {
	return decimal("SQRT", types.Decimal, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(args[0], "values.Must(%s.Sqrt())", func(d values.Decimal) (any, error) {
			return d.Sqrt()
		})
	}, types.Decimal).Describe("Returns the square root of a number.")
}

// Power returns POWER(Decimal; int).
func Power() *functions.Function {
	return decimal("POWER", types.Decimal, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Binary(args[0], args[1], "values.Must(%s.Power(%s))", func(d values.Decimal, e int) (any, error) {
			return d.Power(e)
		})
	}, types.Decimal, types.PrimitiveInt).Widen(1, types.Integer).Describe("Raises a number to an integer power.")
}

// WholeNumber returns WHOLENUMBER(Decimal), the integer part of a number.
func WholeNumber() *functions.Function {
	return decimal("WHOLENUMBER", types.Integer, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(args[0], "%s.Integer()", func(d values.Decimal) (any, error) {
			return d.Integer(), nil
		})
	}, types.Decimal).Describe("Returns the integer part of a number.")
}
