// Package operations provides the operator tables of the formula language
// compiler: binary and unary operations keyed by operator symbol and
// operand datatypes, and the table of implicit conversions used to bridge
// an operand to the nearest applicable operation.
//
// Tables are append-only. They are filled at configuration time and only
// read while expressions are compiled, so concurrent compilations may
// share them without locking.
package operations

import (
	"github.com/faktorips/fl/pkg/types"
)

// BinaryOperation generates code for an operator applied to two operands.
type BinaryOperation interface {
	Operator() string
	LHS() *types.Datatype
	RHS() *types.Datatype
	// Type is the datatype of the operation's result.
	Type() *types.Datatype
	// Generate combines two successfully compiled operands whose datatypes
	// are LHS and RHS.
	Generate(lhs, rhs *types.CompilationResult) *types.CompilationResult
}

// UnaryOperation generates code for a prefix operator.
type UnaryOperation interface {
	Operator() string
	Operand() *types.Datatype
	Type() *types.Datatype
	Generate(operand *types.CompilationResult) *types.CompilationResult
}

// BinaryGenerator produces the combined fragment of a binary operation.
type BinaryGenerator func(lhs, rhs *types.CodeFragment) *types.CodeFragment

// UnaryGenerator produces the fragment of a unary operation.
type UnaryGenerator func(operand *types.CodeFragment) *types.CodeFragment

// Binary is a BinaryOperation backed by a generator function.
type Binary struct {
	op                  string
	left, right, result *types.Datatype
	gen                 BinaryGenerator
}

// NewBinary creates a binary operation.
func NewBinary(op string, lhs, rhs, result *types.Datatype, gen BinaryGenerator) *Binary {
	return &Binary{op: op, left: lhs, right: rhs, result: result, gen: gen}
}

func (b *Binary) Operator() string { return b.op }
func (b *Binary) LHS() *types.Datatype { return b.left }
func (b *Binary) RHS() *types.Datatype { return b.right }
func (b *Binary) Type() *types.Datatype { return b.result }

// Generate implements BinaryOperation.
func (b *Binary) Generate(lhs, rhs *types.CompilationResult) *types.CompilationResult {
	return types.NewResult(b.gen(lhs.Code(), rhs.Code()), b.result)
}

// Unary is a UnaryOperation backed by a generator function.
type Unary struct {
	op              string
	operand, result *types.Datatype
	gen             UnaryGenerator
}

// NewUnary creates a unary operation.
func NewUnary(op string, operand, result *types.Datatype, gen UnaryGenerator) *Unary {
	return &Unary{op: op, operand: operand, result: result, gen: gen}
}

func (u *Unary) Operator() string { return u.op }
func (u *Unary) Operand() *types.Datatype { return u.operand }
func (u *Unary) Type() *types.Datatype { return u.result }

// Generate implements UnaryOperation.
func (u *Unary) Generate(operand *types.CompilationResult) *types.CompilationResult {
	return types.NewResult(u.gen(operand.Code()), u.result)
}

// Table holds the registered operations in registration order.
type Table struct {
	binary []BinaryOperation
	unary  []UnaryOperation
}

// NewTable creates an empty operation table.
func NewTable() *Table {
	return &Table{}
}

// AddBinary registers binary operations.
func (t *Table) AddBinary(ops ...BinaryOperation) {
	t.binary = append(t.binary, ops...)
}

// AddUnary registers unary operations.
func (t *Table) AddUnary(ops ...UnaryOperation) {
	t.unary = append(t.unary, ops...)
}

// BinaryOperations returns the registered binary operations.
func (t *Table) BinaryOperations() []BinaryOperation {
	return t.binary
}

// UnaryOperations returns the registered unary operations.
func (t *Table) UnaryOperations() []UnaryOperation {
	return t.unary
}

// BinaryMatch is the outcome of binary operation resolution. ConvertLHS
// and ConvertRHS report whether the operand must first be converted to
// the operation's operand type.
type BinaryMatch struct {
	Operation  BinaryOperation
	ConvertLHS bool
	ConvertRHS bool
}

// ResolveBinary selects the operation for op applied to operands of
// datatypes lhs and rhs. An exact match wins. Otherwise every operation
// with the same operator whose operand types are reachable by at most one
// conversion per operand is viable, and the viable operation needing the
// fewest conversions is chosen; ties keep registration order.
// conv may be nil, in which case only exact matches are found.
func (t *Table) ResolveBinary(op string, lhs, rhs *types.Datatype, conv *ConversionTable) (BinaryMatch, bool) {
	var best BinaryMatch
	bestCost := 3
	for _, o := range t.binary {
		if o.Operator() != op {
			continue
		}
		cl, okl := cost(lhs, o.LHS(), conv)
		cr, okr := cost(rhs, o.RHS(), conv)
		if !okl || !okr {
			continue
		}
		if c := cl + cr; c < bestCost {
			best = BinaryMatch{Operation: o, ConvertLHS: cl > 0, ConvertRHS: cr > 0}
			bestCost = c
			if c == 0 {
				break
			}
		}
	}
	return best, best.Operation != nil
}

// UnaryMatch is the outcome of unary operation resolution.
type UnaryMatch struct {
	Operation UnaryOperation
	Convert   bool
}

// ResolveUnary selects the operation for op applied to an operand of
// datatype operand, following the same rules as ResolveBinary.
func (t *Table) ResolveUnary(op string, operand *types.Datatype, conv *ConversionTable) (UnaryMatch, bool) {
	var best UnaryMatch
	bestCost := 2
	for _, o := range t.unary {
		if o.Operator() != op {
			continue
		}
		c, ok := cost(operand, o.Operand(), conv)
		if ok && c < bestCost {
			best = UnaryMatch{Operation: o, Convert: c > 0}
			bestCost = c
			if c == 0 {
				break
			}
		}
	}
	return best, best.Operation != nil
}

func cost(from, to *types.Datatype, conv *ConversionTable) (int, bool) {
	if from == to {
		return 0, true
	}
	if conv != nil && conv.CanConvert(from, to) {
		return 1, true
	}
	return 0, false
}
