package builtin

import (
	"github.com/faktorips/fl/pkg/codegen"
	"github.com/faktorips/fl/pkg/operations"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

func bin[A, B any](op string, lhs, rhs, result *types.Datatype, format string, fn func(A, B) (any, error)) operations.BinaryOperation {
	return operations.NewBinary(op, lhs, rhs, result, func(l, r *types.CodeFragment) *types.CodeFragment {
		return codegen.Binary(l, r, format, fn)
	})
}

func un[A any](op string, operand, result *types.Datatype, format string, fn func(A) (any, error)) operations.UnaryOperation {
	return operations.NewUnary(op, operand, result, func(f *types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(f, format, fn)
	})
}

// Operations returns a table with the default operations. Boxed
// operations are registered before their primitive counterparts, so a
// mixed boxed/primitive operand pair resolves to the null-aware operation.
func Operations() *operations.Table {
	t := operations.NewTable()
	t.AddBinary(decimalBinary()...)
	t.AddBinary(moneyBinary()...)
	t.AddBinary(integerBinary()...)
	t.AddBinary(intBinary()...)
	t.AddBinary(stringBinary()...)
	t.AddBinary(booleanBinary()...)

	t.AddUnary(
		un("+", types.Decimal, types.Decimal, "%s", func(d values.Decimal) (any, error) { return d, nil }),
		un("-", types.Decimal, types.Decimal, "%s.Negate()", func(d values.Decimal) (any, error) { return d.Negate(), nil }),
		un("+", types.Money, types.Money, "%s", func(m values.Money) (any, error) { return m, nil }),
		un("-", types.Money, types.Money, "%s.Negate()", func(m values.Money) (any, error) { return m.Negate(), nil }),
		un("+", types.Integer, types.Integer, "%s", func(i values.Integer) (any, error) { return i, nil }),
		un("-", types.Integer, types.Integer, "%s.Negate()", func(i values.Integer) (any, error) { return i.Negate(), nil }),
		un("+", types.PrimitiveInt, types.PrimitiveInt, "%s", func(i int) (any, error) { return i, nil }),
		un("-", types.PrimitiveInt, types.PrimitiveInt, "(-%s)", func(i int) (any, error) { return -i, nil }),
	)
	return t
}

// EnumOperations returns the equality operations of the enum datatype dt.
func EnumOperations(dt *types.Datatype) []operations.BinaryOperation {
	return []operations.BinaryOperation{
		bin("=", dt, dt, types.PrimitiveBoolean, "%s.Equal(%s)", func(a, b values.Enum) (any, error) {
			return a.Equal(b), nil
		}),
		bin("<>", dt, dt, types.PrimitiveBoolean, "!%s.Equal(%s)", func(a, b values.Enum) (any, error) {
			return !a.Equal(b), nil
		}),
	}
}

func decimalBinary() []operations.BinaryOperation {
	d, b := types.Decimal, types.PrimitiveBoolean
	return []operations.BinaryOperation{
		bin("+", d, d, d, "%s.Add(%s)", func(x, y values.Decimal) (any, error) { return x.Add(y), nil }),
		bin("-", d, d, d, "%s.Subtract(%s)", func(x, y values.Decimal) (any, error) { return x.Subtract(y), nil }),
		bin("*", d, d, d, "%s.Multiply(%s)", func(x, y values.Decimal) (any, error) { return x.Multiply(y), nil }),
		bin("/", d, d, d, "values.Must(%s.Divide(%s))", func(x, y values.Decimal) (any, error) { return x.Divide(y) }),
		bin("=", d, d, b, "%s.Equal(%s)", func(x, y values.Decimal) (any, error) { return x.Equal(y), nil }),
		bin("<>", d, d, b, "!%s.Equal(%s)", func(x, y values.Decimal) (any, error) { return !x.Equal(y), nil }),
		bin("<", d, d, b, "%s.LessThan(%s)", func(x, y values.Decimal) (any, error) { return x.LessThan(y), nil }),
		bin("<=", d, d, b, "%s.LessThanOrEqual(%s)", func(x, y values.Decimal) (any, error) { return x.LessThanOrEqual(y), nil }),
		bin(">", d, d, b, "%s.GreaterThan(%s)", func(x, y values.Decimal) (any, error) { return x.GreaterThan(y), nil }),
		bin(">=", d, d, b, "%s.GreaterThanOrEqual(%s)", func(x, y values.Decimal) (any, error) { return x.GreaterThanOrEqual(y), nil }),
	}
}

func moneyBinary() []operations.BinaryOperation {
	m, d, b := types.Money, types.Decimal, types.PrimitiveBoolean
	return []operations.BinaryOperation{
		bin("+", m, m, m, "values.Must(%s.Add(%s))", func(x, y values.Money) (any, error) { return x.Add(y) }),
		bin("-", m, m, m, "values.Must(%s.Subtract(%s))", func(x, y values.Money) (any, error) { return x.Subtract(y) }),
		bin("*", m, d, m, "values.Must(%s.Multiply(%s))", func(x values.Money, y values.Decimal) (any, error) { return x.Multiply(y) }),
		bin("*", d, m, m, "values.Must(%[2]s.Multiply(%[1]s))", func(x values.Decimal, y values.Money) (any, error) { return y.Multiply(x) }),
		bin("/", m, d, m, "values.Must(%s.Divide(%s))", func(x values.Money, y values.Decimal) (any, error) { return x.Divide(y) }),
		bin("=", m, m, b, "%s.Equal(%s)", func(x, y values.Money) (any, error) { return x.Equal(y), nil }),
		bin("<>", m, m, b, "!%s.Equal(%s)", func(x, y values.Money) (any, error) { return !x.Equal(y), nil }),
		bin("<", m, m, b, "values.Must(%s.LessThan(%s))", func(x, y values.Money) (any, error) { return x.LessThan(y) }),
		bin("<=", m, m, b, "values.Must(%s.LessThanOrEqual(%s))", func(x, y values.Money) (any, error) { return x.LessThanOrEqual(y) }),
		bin(">", m, m, b, "values.Must(%s.GreaterThan(%s))", func(x, y values.Money) (any, error) { return x.GreaterThan(y) }),
		bin(">=", m, m, b, "values.Must(%s.GreaterThanOrEqual(%s))", func(x, y values.Money) (any, error) { return x.GreaterThanOrEqual(y) }),
	}
}

func integerBinary() []operations.BinaryOperation {
	i := types.Integer
	return []operations.BinaryOperation{
		bin("+", i, i, i, "values.Must(%s.Add(%s))", func(x, y values.Integer) (any, error) { return x.Add(y) }),
		bin("-", i, i, i, "values.Must(%s.Subtract(%s))", func(x, y values.Integer) (any, error) { return x.Subtract(y) }),
		bin("*", i, i, i, "values.Must(%s.Multiply(%s))", func(x, y values.Integer) (any, error) { return x.Multiply(y) }),
	}
}

func intBinary() []operations.BinaryOperation {
	i, b := types.PrimitiveInt, types.PrimitiveBoolean
	return []operations.BinaryOperation{
		bin("+", i, i, i, "values.Must(values.AddInt(%s, %s))", func(x, y int) (any, error) { return values.AddInt(x, y) }),
		bin("-", i, i, i, "values.Must(values.SubtractInt(%s, %s))", func(x, y int) (any, error) { return values.SubtractInt(x, y) }),
		bin("*", i, i, i, "values.Must(values.MultiplyInt(%s, %s))", func(x, y int) (any, error) { return values.MultiplyInt(x, y) }),
		bin("/", i, i, types.Decimal, "values.Must(values.DecimalFromInt(%s).Divide(values.DecimalFromInt(%s)))",
			func(x, y int) (any, error) { return values.DecimalFromInt(x).Divide(values.DecimalFromInt(y)) }),
		bin("=", i, i, b, "(%s == %s)", func(x, y int) (any, error) { return x == y, nil }),
		bin("<>", i, i, b, "(%s != %s)", func(x, y int) (any, error) { return x != y, nil }),
		bin("<", i, i, b, "(%s < %s)", func(x, y int) (any, error) { return x < y, nil }),
		bin("<=", i, i, b, "(%s <= %s)", func(x, y int) (any, error) { return x <= y, nil }),
		bin(">", i, i, b, "(%s > %s)", func(x, y int) (any, error) { return x > y, nil }),
		bin(">=", i, i, b, "(%s >= %s)", func(x, y int) (any, error) { return x >= y, nil }),
	}
}

func stringBinary() []operations.BinaryOperation {
	s, b := types.String, types.PrimitiveBoolean
	return []operations.BinaryOperation{
		bin("+", s, s, s, "(%s + %s)", func(x, y string) (any, error) { return x + y, nil }),
		bin("=", s, s, b, "(%s == %s)", func(x, y string) (any, error) { return x == y, nil }),
		bin("<>", s, s, b, "(%s != %s)", func(x, y string) (any, error) { return x != y, nil }),
	}
}

func booleanBinary() []operations.BinaryOperation {
	bb, b := types.Boolean, types.PrimitiveBoolean
	return []operations.BinaryOperation{
		bin("=", bb, bb, b, "%s.Equal(%s)", func(x, y values.Boolean) (any, error) { return x.Equal(y), nil }),
		bin("<>", bb, bb, b, "!%s.Equal(%s)", func(x, y values.Boolean) (any, error) { return !x.Equal(y), nil }),
		bin("=", b, b, b, "(%s == %s)", func(x, y bool) (any, error) { return x == y, nil }),
		bin("<>", b, b, b, "(%s != %s)", func(x, y bool) (any, error) { return x != y, nil }),
	}
}
