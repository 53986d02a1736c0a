package extexcel

import (
	"context"
	"fmt"

	"github.com/faktorips/fl/pkg/functions"
	"github.com/faktorips/fl/pkg/types"
)

// numericRank orders the datatypes IF may unify; the higher rank wins.
var numericRank = map[*types.Datatype]int{
	types.PrimitiveInt: 1,
	types.Integer:      2,
	types.Decimal:      3,
}

var booleanRank = map[*types.Datatype]int{
	types.PrimitiveBoolean: 1,
	types.Boolean:          2,
}

// ifFunction is IF(boolean; T; T). The result datatype is the common
// datatype of both branches, which is only known at the call site.
type ifFunction struct {
	*functions.Function
}

// If returns IF(condition; then; else). Both branches must have the same
// datatype, or both be numeric or both be boolean; the narrower one is
// converted.
func If() functions.FlFunction {
	fn := functions.New("IF", types.Any, nil, types.PrimitiveBoolean, types.Any, types.Any).
		Widen(0, types.Boolean).
		Describe("Returns the second argument if the condition is true, otherwise the third.")
	return &ifFunction{Function: fn}
}

// Match implements functions.FlFunction.
func (f *ifFunction) Match(name string, argTypes []*types.Datatype) bool {
	if !f.Function.Match(name, argTypes) {
		return false
	}
	_, ok := common(argTypes[1], argTypes[2])
	return ok
}

func common(a, b *types.Datatype) (*types.Datatype, bool) {
	if a == b {
		return a, true
	}
	for _, rank := range []map[*types.Datatype]int{numericRank, booleanRank} {
		ra, okA := rank[a]
		rb, okB := rank[b]
		if okA && okB {
			if ra > rb {
				return a, true
			}
			return b, true
		}
	}
	return nil, false
}

// Compile implements functions.FlFunction.
func (f *ifFunction) Compile(args []*types.CompilationResult, conv functions.Converter) *types.CompilationResult {
	dt, ok := common(args[1].Datatype(), args[2].Datatype())
	if !ok {
		return nil
	}
	converted, failure := functions.ConvertArgs(f.Function, args, conv)
	if failure != nil {
		return failure
	}
	frags := make([]*types.CodeFragment, 3)
	frags[0] = converted[0].Code()
	for i := 1; i < 3; i++ {
		a := converted[i]
		if a.Datatype() != dt {
			c, ok := conv.Convert(a, dt)
			if !ok {
				return types.NewFailure(types.NewError(types.CodeWrongArgumentTypes,
					fmt.Sprintf("IF: argument %d cannot be converted from %s to %s", i+1, a.Datatype().Name(), dt.Name()), -1))
			}
			a = c
		}
		frags[i] = a.Code()
	}
	return types.NewResult(conditional(frags[0], frags[1], frags[2], dt), dt)
}

// conditional evaluates only the selected branch.
func conditional(cond, then, els *types.CodeFragment, dt *types.Datatype) *types.CodeFragment {
	source := fmt.Sprintf("func() %s { if %s { return %s }; return %s }()",
		dt.GoType(), cond.Source(), then.Source(), els.Source())
	cexec, texec, eexec := cond.Exec(), then.Exec(), els.Exec()
	exec := func(ctx context.Context, env types.Env) (any, error) {
		v, err := cexec(ctx, env)
		if err != nil {
			return nil, err
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("IF: expected bool condition, got %T", v)
		}
		if b {
			return texec(ctx, env)
		}
		return eexec(ctx, env)
	}
	return types.NewCodeFragment(source, exec, types.MergeImports(cond, then, els)...)
}

// shortCircuit evaluates boolean fragments in order and returns the first
// value that differs from identity.
func shortCircuit(args []*types.CodeFragment, identity bool) types.Exec {
	execs := make([]types.Exec, len(args))
	for i, a := range args {
		execs[i] = a.Exec()
	}
	return func(ctx context.Context, env types.Env) (any, error) {
		for i, e := range execs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v, err := e(ctx, env)
			if err != nil {
				return nil, err
			}
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("argument %d: expected bool, got %T", i+1, v)
			}
			if b != identity {
				return b, nil
			}
		}
		return identity, nil
	}
}
