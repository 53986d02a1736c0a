// Package exttext provides the text functions of the formula language:
// LEFT, RIGHT, TEXTLENGTH and CONCAT. Lengths count characters, not bytes.
package exttext

import (
	"strings"

	"github.com/faktorips/fl/pkg/codegen"
	"github.com/faktorips/fl/pkg/functions"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

// All returns all text function definitions.
func All() []functions.FlFunction {
	return []functions.FlFunction{
		Left(),
		Right(),
		TextLength(),
		Concat(),
	}
}

// Namespace returns a resolver holding All.
func Namespace() *functions.Namespace {
	return functions.NewNamespace("text", All()...)
}

// Left returns LEFT(String; int), the first n characters.
func Left() *functions.Function {
	return functions.New("LEFT", types.String, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Binary(args[0], args[1], "values.Left(%s, %s)", func(s string, n int) (any, error) {
			return values.Left(s, n), nil
		})
	}, types.String, types.PrimitiveInt).
		Widen(1, types.Integer).
		Describe("Returns the first characters of a text.")
}

// Right returns RIGHT(String; int), the last n characters.
func Right() *functions.Function {
	return functions.New("RIGHT", types.String, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Binary(args[0], args[1], "values.Right(%s, %s)", func(s string, n int) (any, error) {
			return values.Right(s, n), nil
		})
	}, types.String, types.PrimitiveInt).
		Widen(1, types.Integer).
		Describe("Returns the last characters of a text.")
}

// TextLength returns TEXTLENGTH(String).
func TextLength() *functions.Function {
	return functions.New("TEXTLENGTH", types.PrimitiveInt, func(args []*types.CodeFragment) *types.CodeFragment {
		return codegen.Unary(args[0], "values.TextLength(%s)", func(s string) (any, error) {
			return values.TextLength(s), nil
		})
	}, types.String).Describe("Returns the number of characters of a text.")
}

// Concat returns CONCAT(String...).
func Concat() *functions.Function {
	return functions.New("CONCAT", types.String, func(args []*types.CodeFragment) *types.CodeFragment {
		if len(args) == 1 {
			return args[0]
		}
		return codegen.Call("values.Concat", args, func(vals []any) (any, error) {
			var b strings.Builder
			for i := range vals {
				s, err := codegen.Arg[string](vals, i)
				if err != nil {
					return nil, err
				}
				b.WriteString(s)
			}
			return b.String(), nil
		})
	}, types.String).
		Variadic().
		Describe("Joins texts.")
}
