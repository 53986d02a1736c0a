// Package functions provides the function model of the formula language.
//
// A function is identified by its name and its ordered formal argument
// datatypes. Functions are grouped into resolvers (namespaces); a compiler
// may register several resolvers and the same name may appear in more than
// one of them.
//
// # Example
//
//	abs := functions.New("ABS", types.Decimal, func(args []*types.CodeFragment) *types.CodeFragment {
//	    return codegen.Unary(args[0], "%s.Abs()", func(d values.Decimal) (any, error) {
//	        return d.Abs(), nil
//	    })
//	}, types.Decimal).Widen(0, types.PrimitiveInt, types.Integer)
//
//	c := compiler.New(compiler.WithFunctionResolver(functions.NewNamespace("math", abs)))
package functions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/faktorips/fl/pkg/types"
)

// FlFunction is a named, typed function callable from expressions.
type FlFunction interface {
	Name() string
	// ArgTypes returns the formal argument datatypes in order.
	ArgTypes() []*types.Datatype
	// Type returns the declared result datatype.
	Type() *types.Datatype
	Description() string
	// IsSame reports whether other has the same name and formal argument types.
	IsSame(other FlFunction) bool
	// Match reports whether a call of name with actual arguments of the
	// given datatypes can be served by this function.
	Match(name string, argTypes []*types.Datatype) bool
	// Compile generates the call. args are successfully compiled and
	// accepted by Match. conv converts widened arguments. The caller
	// merges the arguments' messages and identifiers into the result.
	Compile(args []*types.CompilationResult, conv Converter) *types.CompilationResult
}

// Converter converts a compiled argument to another datatype.
type Converter interface {
	Convert(r *types.CompilationResult, to *types.Datatype) (*types.CompilationResult, bool)
}

// Generator produces the call fragment from the argument fragments.
type Generator func(args []*types.CodeFragment) *types.CodeFragment

// Function is the default FlFunction. It accepts actual arguments that
// are identical to the formal types, or that are listed as widenable for
// that position. Widened arguments are converted before code generation.
type Function struct {
	name        string
	description string
	argTypes    []*types.Datatype
	result      *types.Datatype
	widen       map[int][]*types.Datatype
	variadic    bool
	gen         Generator
}

// New creates a function with exact argument matching.
func New(name string, result *types.Datatype, gen Generator, argTypes ...*types.Datatype) *Function {
	return &Function{
		name:     name,
		argTypes: argTypes,
		result:   result,
		gen:      gen,
	}
}

// Widen lets the argument at pos also accept the datatypes from.
func (f *Function) Widen(pos int, from ...*types.Datatype) *Function {
	if f.widen == nil {
		f.widen = make(map[int][]*types.Datatype)
	}
	f.widen[pos] = append(f.widen[pos], from...)
	return f
}

// WidenAll applies Widen to every argument position whose formal type is to.
func (f *Function) WidenAll(to *types.Datatype, from ...*types.Datatype) *Function {
	for i, t := range f.argTypes {
		if t == to {
			f.Widen(i, from...)
		}
	}
	return f
}

// Variadic makes the last formal argument repeatable. A variadic function
// needs at least as many actual arguments as formal ones.
func (f *Function) Variadic() *Function {
	f.variadic = len(f.argTypes) > 0
	return f
}

// Describe sets the description shown by tooling.
func (f *Function) Describe(text string) *Function {
	f.description = text
	return f
}

func (f *Function) Name() string { return f.name }
func (f *Function) ArgTypes() []*types.Datatype { return slices.Clone(f.argTypes) }
func (f *Function) Type() *types.Datatype { return f.result }
func (f *Function) Description() string { return f.description }
func (f *Function) IsVariadic() bool { return f.variadic }

// IsSame implements FlFunction.
func (f *Function) IsSame(other FlFunction) bool {
	if f.name != other.Name() {
		return false
	}
	if v, ok := other.(interface{ IsVariadic() bool }); ok && v.IsVariadic() != f.variadic {
		return false
	}
	return slices.Equal(f.argTypes, other.ArgTypes())
}

// Match implements FlFunction.
func (f *Function) Match(name string, argTypes []*types.Datatype) bool {
	if name != f.name || !f.arity(len(argTypes)) {
		return false
	}
	for i, actual := range argTypes {
		if !f.accepts(i, actual) {
			return false
		}
	}
	return true
}

// FormalType returns the formal datatype of the argument at pos,
// honouring variadic repetition.
func (f *Function) FormalType(pos int) *types.Datatype {
	if pos >= len(f.argTypes) {
		if !f.variadic {
			return nil
		}
		pos = len(f.argTypes) - 1
	}
	return f.argTypes[pos]
}

func (f *Function) arity(n int) bool {
	if f.variadic {
		return n >= len(f.argTypes)
	}
	return n == len(f.argTypes)
}

func (f *Function) accepts(pos int, actual *types.Datatype) bool {
	formal := f.FormalType(pos)
	if formal == nil {
		return false
	}
	if formal == actual || formal == types.Any {
		return true
	}
	wpos := min(pos, len(f.argTypes)-1)
	return slices.Contains(f.widen[wpos], actual)
}

// Compile implements FlFunction.
func (f *Function) Compile(args []*types.CompilationResult, conv Converter) *types.CompilationResult {
	converted, failure := ConvertArgs(f, args, conv)
	if failure != nil {
		return failure
	}
	frags := make([]*types.CodeFragment, len(converted))
	for i, a := range converted {
		frags[i] = a.Code()
	}
	return types.NewResult(f.gen(frags), f.result)
}

// ConvertArgs converts every argument whose datatype differs from its
// formal type. A failed result is returned if a conversion is missing.
func ConvertArgs(f *Function, args []*types.CompilationResult, conv Converter) ([]*types.CompilationResult, *types.CompilationResult) {
	out := make([]*types.CompilationResult, len(args))
	for i, a := range args {
		formal := f.FormalType(i)
		if formal == nil || formal == types.Any || a.Datatype() == formal {
			out[i] = a
			continue
		}
		if conv == nil {
			return nil, convertFailure(f, i, a.Datatype(), formal)
		}
		c, ok := conv.Convert(a, formal)
		if !ok {
			return nil, convertFailure(f, i, a.Datatype(), formal)
		}
		out[i] = c
	}
	return out, nil
}

func convertFailure(f *Function, pos int, from, to *types.Datatype) *types.CompilationResult {
	return types.NewFailure(types.NewError(types.CodeWrongArgumentTypes,
		fmt.Sprintf("%s: argument %d cannot be converted from %s to %s", f.name, pos+1, from.Name(), to.Name()), -1))
}

// Signature formats a call shape such as "MAX(Decimal, Decimal)".
func Signature(name string, argTypes []*types.Datatype) string {
	names := make([]string, len(argTypes))
	for i, t := range argTypes {
		names[i] = t.Name()
	}
	return name + "(" + strings.Join(names, ", ") + ")"
}

func (f *Function) String() string {
	s := Signature(f.name, f.argTypes)
	if f.variadic {
		s = strings.TrimSuffix(s, ")") + "...)"
	}
	return s + " : " + f.result.Name()
}
