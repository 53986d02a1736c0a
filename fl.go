// Package fl compiles and evaluates faktorips formula language expressions.
//
// The formula language is a small, statically typed expression language
// for insurance product configuration: decimal and money arithmetic,
// comparisons, parentheses and calls of spreadsheet style functions such
// as IF, ROUND or MAX. Compiling an expression infers its datatype and
// generates Go source together with an executable form.
//
// # Quick Start
//
//	// Compile with all function packs
//	res, err := fl.Compile("ROUND(3.5 * 1.19; 2)")
//	fmt.Println(res.Datatype(), res.Code().Source())
//
//	// Compile once, evaluate many times
//	c := fl.New(compiler.WithIdentifierResolver(
//	    compiler.NewTableResolver().Variable("premium", types.Money),
//	))
//	res = c.Compile("premium * 1.19")
//	v, _ := evaluator.New().Eval(ctx, res, evaluator.MapEnv{"premium": values.MoneyOf("10.00EUR")})
//
//	// Evaluate with variables typed by their values
//	v, err = fl.Eval(ctx, "premium * 2", evaluator.MapEnv{"premium": values.MoneyOf("10.00EUR")})
//
// # More Information
//
// For detailed documentation, see:
//   - Compiler: github.com/faktorips/fl/pkg/compiler
//   - Parser: github.com/faktorips/fl/pkg/parser
//   - Evaluator: github.com/faktorips/fl/pkg/evaluator
//   - Functions: github.com/faktorips/fl/pkg/functions
//   - Types: github.com/faktorips/fl/pkg/types
package fl

import (
	"context"
	"fmt"
	"slices"

	"github.com/faktorips/fl/pkg/compiler"
	"github.com/faktorips/fl/pkg/evaluator"
	"github.com/faktorips/fl/pkg/ext"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

// Version returns the current version of fl.
func Version() string {
	return "v0.1.0-dev"
}

// New creates a compiler with every function pack registered. opts are
// applied after the defaults.
func New(opts ...compiler.Option) *compiler.Compiler {
	return compiler.New(append([]compiler.Option{ext.WithAll()}, opts...)...)
}

// Compile compiles expr with a compiler created by New.
//
// A failed compilation returns the result together with its first error
// message, so callers may inspect all diagnostics.
//
// Example:
//
//	res, err := fl.Compile("3.5 + 7")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Datatype()) // Decimal
func Compile(expr string, opts ...compiler.Option) (*types.CompilationResult, error) {
	res := New(opts...).Compile(expr)
	if res.Failed() {
		return res, res.Messages().Err()
	}
	return res, nil
}

// MustCompile is like Compile but panics if the expression cannot be compiled.
// It simplifies safe initialization of global variables.
func MustCompile(expr string, opts ...compiler.Option) *types.CompilationResult {
	res, err := Compile(expr, opts...)
	if err != nil {
		panic(fmt.Sprintf("fl: Compile(%q): %v", expr, err))
	}
	return res
}

// Eval compiles expr and evaluates it against env in a single call. The
// datatype of every variable is taken from its value in env; null values
// and enum values cannot be typed this way and need a compiler with an
// explicit identifier resolver.
//
// For repeated evaluations of the same expression, use New and the
// evaluator package instead.
func Eval(ctx context.Context, expr string, env evaluator.MapEnv, opts ...compiler.Option) (any, error) {
	schema, err := SchemaOf(env)
	if err != nil {
		return nil, err
	}
	res, err := Compile(expr, append([]compiler.Option{compiler.WithIdentifierResolver(schema)}, opts...)...)
	if err != nil {
		return nil, err
	}
	return evaluator.New().Eval(ctx, res, env)
}

// SchemaOf declares a variable for every entry of env, typed by the
// runtime value.
func SchemaOf(env evaluator.MapEnv) (*compiler.TableResolver, error) {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	slices.Sort(names)

	schema := compiler.NewTableResolver()
	for _, name := range names {
		dt := DatatypeOf(env[name])
		if dt == nil {
			return nil, fmt.Errorf("variable %q: cannot infer datatype of %T", name, env[name])
		}
		schema.Variable(name, dt)
	}
	return schema, nil
}

// DatatypeOf returns the predefined datatype represented by v, or nil.
func DatatypeOf(v any) *types.Datatype {
	switch v.(type) {
	case values.Decimal:
		return types.Decimal
	case values.Money:
		return types.Money
	case values.Integer:
		return types.Integer
	case values.Boolean:
		return types.Boolean
	case int:
		return types.PrimitiveInt
	case bool:
		return types.PrimitiveBoolean
	case string:
		return types.String
	}
	return nil
}
