// Package codegen builds code fragments for the Go backend.
//
// Every fragment carries Go source text that references the runtime
// package github.com/faktorips/fl/pkg/values and an executable closure
// computing the same value. Operations, conversions and functions use
// these helpers so that both forms always stay in sync.
package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

// Constant returns a fragment for a value known at compile time.
func Constant(source string, v any, imports ...string) *types.CodeFragment {
	return types.NewCodeFragment(source, func(context.Context, types.Env) (any, error) {
		return v, nil
	}, imports...)
}

// Unary wraps operand. format must contain one %s verb for the operand source.
func Unary[A any](operand *types.CodeFragment, format string, fn func(A) (any, error)) *types.CodeFragment {
	exec := operand.Exec()
	return types.NewCodeFragment(
		fmt.Sprintf(format, operand.Source()),
		func(ctx context.Context, env types.Env) (any, error) {
			a, err := run[A](ctx, env, exec, 0)
			if err != nil {
				return nil, err
			}
			return fn(a)
		},
		types.MergeImports(operand, importsOf(format))...,
	)
}

// Binary combines two operands. format must contain two %s verbs for the
// operand sources, in order.
func Binary[A, B any](lhs, rhs *types.CodeFragment, format string, fn func(A, B) (any, error)) *types.CodeFragment {
	lexec, rexec := lhs.Exec(), rhs.Exec()
	return types.NewCodeFragment(
		fmt.Sprintf(format, lhs.Source(), rhs.Source()),
		func(ctx context.Context, env types.Env) (any, error) {
			a, err := run[A](ctx, env, lexec, 0)
			if err != nil {
				return nil, err
			}
			b, err := run[B](ctx, env, rexec, 1)
			if err != nil {
				return nil, err
			}
			return fn(a, b)
		},
		types.MergeImports(lhs, rhs, importsOf(format))...,
	)
}

// Call generates a call of the Go function or method expression callee
// with args joined by commas, e.g. Call("values.Max", ...) yields
// "values.Max(a, b)". The arguments are evaluated in order and passed to
// fn as untyped values.
func Call(callee string, args []*types.CodeFragment, fn func([]any) (any, error)) *types.CodeFragment {
	srcs := make([]string, len(args))
	execs := make([]types.Exec, len(args))
	for i, a := range args {
		srcs[i] = a.Source()
		execs[i] = a.Exec()
	}
	imports := types.MergeImports(append(args[:len(args):len(args)], importsOf(callee))...)
	return types.NewCodeFragment(
		callee+"("+strings.Join(srcs, ", ")+")",
		func(ctx context.Context, env types.Env) (any, error) {
			vals := make([]any, len(execs))
			for i, e := range execs {
				v, err := run[any](ctx, env, e, i)
				if err != nil {
					return nil, err
				}
				vals[i] = v
			}
			return fn(vals)
		},
		imports...,
	)
}

// Arg asserts the i-th argument of a Call to type T.
func Arg[T any](args []any, i int) (T, error) {
	var zero T
	if args[i] == nil {
		return zero, nil
	}
	v, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("argument %d: expected %T, got %T", i, zero, args[i])
	}
	return v, nil
}

// Parenthesize wraps operand in parentheses, keeping its value.
func Parenthesize(operand *types.CodeFragment) *types.CodeFragment {
	return types.NewCodeFragment("("+operand.Source()+")", operand.Exec(), operand.Imports()...)
}

func run[T any](ctx context.Context, env types.Env, exec types.Exec, pos int) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if exec == nil {
		return zero, fmt.Errorf("operand %d is not executable", pos)
	}
	v, err := exec(ctx, env)
	if err != nil || v == nil {
		// nil is the null value of every runtime type
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("operand %d: expected %T, got %T", pos, zero, v)
	}
	return t, nil
}

// importsOf returns a fragment carrying the values import when source
// references the values package.
func importsOf(source string) *types.CodeFragment {
	if strings.Contains(source, "values.") {
		return types.NewCodeFragment("", nil, values.ImportPath)
	}
	return nil
}
