// Package builtin provides the default operations, conversions and literal
// code generation of the formula language.
//
// Runtime representations used by the executable form:
//
//	Decimal          values.Decimal
//	Money            values.Money
//	Integer          values.Integer
//	int              int
//	Boolean          values.Boolean
//	boolean          bool
//	String           string
//	enum datatypes   values.Enum
//
// Addition, subtraction and multiplication of int and Integer values fail
// with values.ErrIntegerOverflow instead of wrapping around.
package builtin

import (
	"strconv"

	"github.com/faktorips/fl/pkg/codegen"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

// DecimalLiteral returns the fragment of a decimal literal such as "3.5".
func DecimalLiteral(text string) (*types.CodeFragment, error) {
	d, err := values.ParseDecimal(text)
	if err != nil {
		return nil, err
	}
	return codegen.Constant("values.DecimalOf("+strconv.Quote(text)+")", d, values.ImportPath), nil
}

// MoneyLiteral returns the fragment of a money literal such as "2.40EUR".
func MoneyLiteral(text string) (*types.CodeFragment, error) {
	m, err := values.ParseMoney(text)
	if err != nil {
		return nil, err
	}
	return codegen.Constant("values.MoneyOf("+strconv.Quote(text)+")", m, values.ImportPath), nil
}

// IntegerLiteral returns the fragment of an int literal.
func IntegerLiteral(i int) *types.CodeFragment {
	return codegen.Constant(strconv.Itoa(i), i)
}

// BooleanLiteral returns the fragment of a boolean literal.
func BooleanLiteral(b bool) *types.CodeFragment {
	return codegen.Constant(strconv.FormatBool(b), b)
}

// StringLiteral returns the fragment of a string literal.
func StringLiteral(s string) *types.CodeFragment {
	return codegen.Constant(strconv.Quote(s), s)
}

// EnumLiteral returns the fragment of the enum value id.
func EnumLiteral(id string) *types.CodeFragment {
	return codegen.Constant("values.Enum{ID: "+strconv.Quote(id)+"}", values.Enum{ID: id}, values.ImportPath)
}
