// Package types defines the core type system of the formula language compiler.
//
// This package contains type definitions for:
//   - Datatype: semantic value types (Decimal, Money, Integer, ...)
//   - Expression: parsed formula expressions
//   - ASTNode: Abstract Syntax Tree nodes
//   - Message, MessageList: diagnostics with stable codes
//   - CodeFragment, CompilationResult: the output of a compilation
package types

// Expression represents a parsed formula expression.
//
// An Expression is the parser's output and the compiler's input. It is
// immutable and safe for concurrent use by multiple goroutines.
type Expression struct {
	ast    *ASTNode
	source string
}

// NewExpression creates a new Expression from an AST.
func NewExpression(ast *ASTNode, source string) *Expression {
	return &Expression{
		ast:    ast,
		source: source,
	}
}

// AST returns the Abstract Syntax Tree of the expression.
func (e *Expression) AST() *ASTNode {
	return e.ast
}

// Source returns the original source code of the expression.
func (e *Expression) Source() string {
	return e.source
}

// String returns a string representation of the expression.
func (e *Expression) String() string {
	return e.source
}
