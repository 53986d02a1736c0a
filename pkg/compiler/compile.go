package compiler

import (
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/text/message"

	"github.com/faktorips/fl/pkg/builtin"
	"github.com/faktorips/fl/pkg/codegen"
	"github.com/faktorips/fl/pkg/functions"
	"github.com/faktorips/fl/pkg/parser"
	"github.com/faktorips/fl/pkg/types"
)

// State is a stage of a compilation.
type State int

// Compilation states. Succeeded and Failed are terminal.
const (
	StateParsing State = iota
	StateTypeResolving
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateParsing:
		return "parsing"
	case StateTypeResolving:
		return "type resolving"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Compile compiles expr. The returned result must not be modified; with
// caching enabled it is shared between calls.
func (c *Compiler) Compile(expr string) *types.CompilationResult {
	s := c.current()
	if c.cache != nil {
		return c.cache.GetOrCompile(cacheKey(s, expr), func() *types.CompilationResult {
			return c.compile(s, expr)
		})
	}
	return c.compile(s, expr)
}

// compilation holds the per-call state of Compile.
type compilation struct {
	*Compiler
	printer   *message.Printer
	log       *slog.Logger
	functions []functions.FlFunction
	ambiguous []functions.FlFunction
}

func (c *Compiler) compile(s *snapshot, expr string) *types.CompilationResult {
	run := &compilation{
		Compiler:  c,
		printer:   newPrinter(c.opts.Locale),
		log:       c.logger.With("expression", expr),
		functions: s.functions,
		ambiguous: s.ambiguous,
	}

	run.log.Debug("compiling", "state", StateParsing)
	parsed, err := parser.Parse(expr, parser.WithMaxDepth(c.opts.MaxDepth))
	if err != nil {
		res := types.NewFailure(run.parseMessage(err))
		run.log.Debug("compiled", "state", StateFailed, "code", res.Messages().At(0).Code)
		return res
	}

	run.log.Debug("compiling", "state", StateTypeResolving)
	res := run.node(parsed.AST())

	if res.Successful() && c.opts.EnsureResultIsObject {
		res = run.box(res)
	}

	if res.Failed() {
		run.log.Debug("compiled", "state", StateFailed, "codes", res.Messages().Codes())
	} else {
		run.log.Debug("compiled", "state", StateSucceeded, "datatype", res.Datatype().Name())
	}
	return res
}

func (run *compilation) parseMessage(err error) *types.Message {
	msg, ok := parser.AsMessage(err)
	if !ok {
		return newMessage(run.printer, types.CodeSyntaxError, -1, err.Error())
	}
	return newMessage(run.printer, msg.Code, msg.Position, msg.Text).WithToken(msg.Token)
}

func (run *compilation) fail(code types.Code, node *types.ASTNode, args ...any) *types.CompilationResult {
	return types.NewFailure(newMessage(run.printer, code, node.Position, args...))
}

// box converts a primitive result to its boxed datatype.
func (run *compilation) box(res *types.CompilationResult) *types.CompilationResult {
	dt := res.Datatype()
	if dt == nil || !dt.IsPrimitive() || dt.Boxed() == nil {
		return res
	}
	boxed, ok := run.opts.Conversions.Convert(res, dt.Boxed())
	if !ok {
		run.log.Warn("no conversion to boxed datatype", "from", dt.Name(), "to", dt.Boxed().Name())
		return res
	}
	return boxed
}

func (run *compilation) node(n *types.ASTNode) *types.CompilationResult {
	switch n.Type {
	case types.NodeDecimal:
		return run.literal(n, types.Decimal, builtin.DecimalLiteral)
	case types.NodeMoney:
		return run.literal(n, types.Money, builtin.MoneyLiteral)
	case types.NodeInteger:
		i, err := strconv.Atoi(n.Value)
		if err != nil {
			return run.fail(types.CodeLexicalError, n, n.Value)
		}
		return types.NewResult(builtin.IntegerLiteral(i), types.PrimitiveInt)
	case types.NodeBoolean:
		return types.NewResult(builtin.BooleanLiteral(n.Value == "true"), types.PrimitiveBoolean)
	case types.NodeString:
		return types.NewResult(builtin.StringLiteral(n.Value), types.String)
	case types.NodeIdentifier:
		return run.identifier(n)
	case types.NodeParenthesis:
		return run.parenthesis(n)
	case types.NodeUnary:
		return run.unary(n)
	case types.NodeBinary:
		return run.binary(n)
	case types.NodeFunction:
		return run.function(n)
	}
	return run.fail(types.CodeSyntaxError, n, fmt.Sprintf("unsupported node %q", n.Type))
}

func (run *compilation) literal(n *types.ASTNode, dt *types.Datatype, gen func(string) (*types.CodeFragment, error)) *types.CompilationResult {
	frag, err := gen(n.Value)
	if err != nil {
		return run.fail(types.CodeLexicalError, n, n.Value)
	}
	return types.NewResult(frag, dt)
}

func (run *compilation) identifier(n *types.ASTNode) *types.CompilationResult {
	if run.opts.Identifiers == nil {
		return run.fail(types.CodeUndefinedIdentifier, n, n.Value)
	}
	res := run.opts.Identifiers.Compile(n.Value, run.Compiler, run.opts.Locale)
	if res == nil {
		return run.fail(types.CodeUndefinedIdentifier, n, n.Value)
	}
	// Resolvers may hand out shared results; copy before annotating.
	if res.Failed() {
		out := &types.CompilationResult{}
		for _, m := range res.Messages().All() {
			msg := *m
			if msg.Position < 0 {
				msg.Position = n.Position
			}
			out.AddMessage(&msg)
		}
		return out
	}
	out := types.NewResult(res.Code(), res.Datatype())
	out.Inherit(res)
	out.AddIdentifiers(n.Value)
	return out
}

func (run *compilation) parenthesis(n *types.ASTNode) *types.CompilationResult {
	inner := run.node(n.LHS)
	if inner.Failed() {
		return inner
	}
	res := types.NewResult(codegen.Parenthesize(inner.Code()), inner.Datatype())
	res.Inherit(inner)
	return res
}

func (run *compilation) unary(n *types.ASTNode) *types.CompilationResult {
	operand := run.node(n.LHS)
	if operand.Failed() {
		return operand
	}

	m, ok := run.opts.Operations.ResolveUnary(n.Value, operand.Datatype(), run.opts.Conversions)
	if !ok {
		res := run.fail(types.CodeUndefinedOperator, n, n.Value, typeNames(operand.Datatype()))
		res.Inherit(operand)
		return res
	}

	arg := operand
	if m.Convert {
		arg = run.convert(operand, m.Operation.Operand())
	}
	res := m.Operation.Generate(arg)
	res.Inherit(operand)
	return res
}

func (run *compilation) binary(n *types.ASTNode) *types.CompilationResult {
	lhs := run.node(n.LHS)
	rhs := run.node(n.RHS)
	if lhs.Failed() || rhs.Failed() {
		res := &types.CompilationResult{}
		res.Inherit(lhs, rhs)
		return res
	}

	m, ok := run.opts.Operations.ResolveBinary(n.Value, lhs.Datatype(), rhs.Datatype(), run.opts.Conversions)
	if !ok {
		res := run.fail(types.CodeUndefinedOperator, n, n.Value, typeNames(lhs.Datatype(), rhs.Datatype()))
		res.Inherit(lhs, rhs)
		return res
	}

	l, r := lhs, rhs
	if m.ConvertLHS {
		l = run.convert(lhs, m.Operation.LHS())
	}
	if m.ConvertRHS {
		r = run.convert(rhs, m.Operation.RHS())
	}
	res := m.Operation.Generate(l, r)
	res.Inherit(lhs, rhs)
	return res
}

// convert applies a conversion the resolver has already verified.
func (run *compilation) convert(res *types.CompilationResult, to *types.Datatype) *types.CompilationResult {
	out, _ := run.opts.Conversions.Convert(res, to)
	run.log.Debug("implicit conversion", "from", res.Datatype().Name(), "to", to.Name())
	return out
}

func (run *compilation) function(n *types.ASTNode) *types.CompilationResult {
	args := make([]*types.CompilationResult, len(n.Arguments))
	failed := false
	for i, a := range n.Arguments {
		args[i] = run.node(a)
		failed = failed || args[i].Failed()
	}
	if failed {
		res := &types.CompilationResult{}
		res.Inherit(args...)
		return res
	}

	argTypes := make([]*types.Datatype, len(args))
	for i, a := range args {
		argTypes[i] = a.Datatype()
	}
	call := functions.Signature(n.Value, argTypes)

	candidates, found := functions.Candidates(run.functions, n.Value, argTypes)
	var res *types.CompilationResult
	switch {
	case len(candidates) == 0 && found:
		res = run.fail(types.CodeWrongArgumentTypes, n, n.Value, typeNames(argTypes...))
	case len(candidates) == 0:
		res = run.fail(types.CodeUndefinedFunction, n, n.Value)
	case len(candidates) > 1 || functions.Contains(run.ambiguous, candidates[0]):
		res = run.fail(types.CodeAmbiguousFunctionCall, n, call, run.candidateList(n.Value, argTypes, candidates))
	default:
		fn := candidates[0]
		run.log.Debug("function resolved", "call", call, "function", fmt.Sprint(fn))
		res = fn.Compile(args, run.opts.Conversions)
		if res == nil {
			res = run.fail(types.CodeWrongArgumentTypes, n, n.Value, typeNames(argTypes...))
		}
	}
	res.Inherit(args...)
	return res
}

// candidateList names every registered function that could serve the call,
// including those conflicting with a single remaining candidate.
func (run *compilation) candidateList(name string, argTypes []*types.Datatype, candidates []functions.FlFunction) string {
	list := make([]functions.FlFunction, 0, len(candidates))
	list = append(list, candidates...)
	for _, f := range run.ambiguous {
		if f.Name() != name || functions.Contains(list, f) {
			continue
		}
		for _, cand := range candidates {
			if f.Match(cand.Name(), cand.ArgTypes()) || cand.Match(f.Name(), f.ArgTypes()) {
				list = append(list, f)
				break
			}
		}
	}
	out := ""
	for i, f := range list {
		if i > 0 {
			out += "; "
		}
		out += functions.Signature(f.Name(), f.ArgTypes())
	}
	return out
}
