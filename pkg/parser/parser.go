// Package parser implements the formula language parser.
//
// The parser uses a hand-written recursive descent approach with Pratt's
// operator precedence algorithm. It turns expression text into a typed
// Abstract Syntax Tree or fails with exactly one positioned diagnostic.
//
// # Architecture
//
// The parser consists of two components:
//   - Lexer: Tokenizes the input expression into a stream of tokens
//   - Parser: Builds an Abstract Syntax Tree (AST) from tokens
//
// Tokenizer failures (illegal characters, unterminated strings, malformed
// numbers) are reported as LEXICAL_ERROR, grammar violations as
// SYNTAX_ERROR. Both abort parsing immediately.
//
// # Example
//
//	expr, err := parser.Parse("3.5 + ROUND(premium; 2)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast := expr.AST()
package parser

import (
	"errors"

	"github.com/faktorips/fl/pkg/types"
)

// Parse parses a formula expression and returns the parsed Expression.
//
// If parsing fails, the returned error is a *types.Message carrying the
// LEXICAL_ERROR or SYNTAX_ERROR code and the source position.
func Parse(expr string, opts ...CompileOption) (*types.Expression, error) {
	p := NewParser(expr, opts...)
	return p.Parse()
}

// AsMessage extracts the diagnostic from an error returned by Parse.
func AsMessage(err error) (*types.Message, bool) {
	var msg *types.Message
	if errors.As(err, &msg) {
		return msg, true
	}
	return nil, false
}

// CompileOption configures parsing behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits the nesting depth of sub-expressions.
	MaxDepth int
}

// WithMaxDepth sets the maximum parsing depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}
