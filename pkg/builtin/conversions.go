package builtin

import (
	"github.com/faktorips/fl/pkg/codegen"
	"github.com/faktorips/fl/pkg/operations"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

// Conversions returns a table with the default implicit conversions:
// int and Integer box into each other, both widen to Decimal, and boolean
// and Boolean box into each other.
func Conversions() *operations.ConversionTable {
	conv := operations.NewConversionTable()

	conv.Register(types.PrimitiveInt, types.Integer, func(f *types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(f, "values.IntegerOf(%s)", func(i int) (any, error) {
			return values.IntegerOf(i), nil
		})
	})
	conv.Register(types.Integer, types.PrimitiveInt, func(f *types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(f, "values.Must(%s.Int())", func(i values.Integer) (any, error) {
			return i.Int()
		})
	})
	conv.Register(types.PrimitiveInt, types.Decimal, func(f *types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(f, "values.DecimalFromInt(%s)", func(i int) (any, error) {
			return values.DecimalFromInt(i), nil
		})
	})
	conv.Register(types.Integer, types.Decimal, func(f *types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(f, "%s.Decimal()", func(i values.Integer) (any, error) {
			return i.Decimal(), nil
		})
	})
	conv.Register(types.PrimitiveBoolean, types.Boolean, func(f *types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(f, "values.BooleanOf(%s)", func(b bool) (any, error) {
			return values.BooleanOf(b), nil
		})
	})
	conv.Register(types.Boolean, types.PrimitiveBoolean, func(f *types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(f, "values.Must(%s.Bool())", func(b values.Boolean) (any, error) {
			return b.Bool()
		})
	})

	return conv
}
