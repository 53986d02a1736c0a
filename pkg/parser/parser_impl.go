package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/faktorips/fl/pkg/types"
)

// Parser implements a recursive descent parser for formula expressions.
// It uses Pratt's "Top Down Operator Precedence" algorithm to handle
// operator precedence and left associativity.
type Parser struct {
	lexer   *Lexer
	current Token
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth: 100,
	}
	for _, opt := range opts {
		opt(&options)
	}

	p := &Parser{
		lexer: NewLexer(input),
		opts:  options,
	}

	// Read the first token
	p.advance()

	return p
}

// Parse parses the entire expression and returns the root AST node.
func (p *Parser) Parse() (*types.Expression, error) {
	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	if p.current.Type == TokenEOF {
		return nil, p.error("Empty expression")
	}

	node, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.unexpected()
	}

	return types.NewExpression(node, p.lexer.input), nil
}

// Operator precedence table (binding power).
// Higher values bind more tightly.
var precedence = map[TokenType]int{
	TokenEqual:        40, // =
	TokenNotEqual:     40, // <>
	TokenLess:         40, // <
	TokenLessEqual:    40, // <=
	TokenGreater:      40, // >
	TokenGreaterEqual: 40, // >=
	TokenPlus:         50, // +
	TokenMinus:        50, // -
	TokenMult:         60, // *
	TokenDiv:          60, // /
}

// unaryPrecedence binds prefix + and - tighter than any infix operator.
const unaryPrecedence = 70

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// expect checks if the current token matches the expected type and advances.
func (p *Parser) expect(tt TokenType) error {
	if p.current.Type != tt {
		if p.current.Type == TokenError {
			return p.lexer.Error()
		}
		return p.error(fmt.Sprintf("Expected %s but got %s", tt.String(), p.describe(p.current)))
	}
	p.advance()
	return nil
}

// error creates a syntax error at the current token.
func (p *Parser) error(message string) error {
	return types.NewError(types.CodeSyntaxError, message, p.current.Position).WithToken(p.current.Value)
}

// unexpected reports the current token, deferring to the lexer when the
// token is a lexical error.
func (p *Parser) unexpected() error {
	if p.current.Type == TokenError {
		return p.lexer.Error()
	}
	return p.error(fmt.Sprintf("Unexpected token %s", p.describe(p.current)))
}

func (p *Parser) describe(t Token) string {
	if t.Type == TokenEOF {
		return "end of expression"
	}
	return strconv.Quote(t.Value)
}

// parseExpression parses an expression with operator precedence.
// rbp is the right binding power (minimum precedence).
func (p *Parser) parseExpression(rbp int) (*types.ASTNode, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.opts.MaxDepth {
		return nil, p.error("Expression is nested too deeply")
	}

	// Parse prefix expression (nud - null denotation)
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	// Parse infix expressions while precedence allows (led - left denotation)
	for rbp < precedence[p.current.Type] {
		left, err = p.parseBinaryOp(left)
		if err != nil {
			return nil, err
		}
	}

	if p.current.Type == TokenError {
		return nil, p.lexer.Error()
	}

	return left, nil
}

// parsePrefix parses a prefix expression (nud - null denotation).
func (p *Parser) parsePrefix() (*types.ASTNode, error) {
	switch p.current.Type {
	case TokenString:
		return p.parseString()
	case TokenInteger:
		return p.parseInteger()
	case TokenDecimal:
		return p.parseLiteral(types.NodeDecimal)
	case TokenMoney:
		return p.parseLiteral(types.NodeMoney)
	case TokenBoolean:
		return p.parseLiteral(types.NodeBoolean)
	case TokenName:
		return p.parseName()
	case TokenPlus, TokenMinus:
		return p.parseUnary()
	case TokenParenOpen:
		return p.parseGrouping()
	default:
		return nil, p.unexpected()
	}
}

// parseBinaryOp parses a left-associative binary operation.
func (p *Parser) parseBinaryOp(left *types.ASTNode) (*types.ASTNode, error) {
	op := p.current
	p.advance()

	right, err := p.parseExpression(precedence[op.Type])
	if err != nil {
		return nil, err
	}

	node := types.NewASTNode(types.NodeBinary, op.Position)
	node.Value = op.Value
	node.LHS = left
	node.RHS = right
	return node, nil
}

// parseUnary parses a prefix + or - operator.
func (p *Parser) parseUnary() (*types.ASTNode, error) {
	pos := p.current.Position
	op := p.current.Value
	p.advance()

	expr, err := p.parseExpression(unaryPrecedence)
	if err != nil {
		return nil, err
	}

	node := types.NewASTNode(types.NodeUnary, pos)
	node.Value = op
	node.LHS = expr
	return node, nil
}

// parseGrouping parses a parenthesized expression.
func (p *Parser) parseGrouping() (*types.ASTNode, error) {
	pos := p.current.Position
	p.advance() // Skip '('

	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}

	node := types.NewASTNode(types.NodeParenthesis, pos)
	node.LHS = expr
	return node, nil
}

// parseLiteral parses a literal whose token text is the node value.
func (p *Parser) parseLiteral(nodeType types.NodeType) (*types.ASTNode, error) {
	node := types.NewASTNode(nodeType, p.current.Position)
	node.Value = p.current.Value
	p.advance()
	return node, nil
}

// parseInteger parses an integer literal that must fit into an int.
func (p *Parser) parseInteger() (*types.ASTNode, error) {
	if _, err := strconv.Atoi(p.current.Value); err != nil {
		return nil, types.NewError(types.CodeLexicalError,
			fmt.Sprintf("Integer out of range: %s", p.current.Value), p.current.Position).WithToken(p.current.Value)
	}
	return p.parseLiteral(types.NodeInteger)
}

// parseString parses a string literal.
func (p *Parser) parseString() (*types.ASTNode, error) {
	unescaped, err := unescapeString(p.current.Value)
	if err != nil {
		return nil, types.NewError(types.CodeLexicalError,
			fmt.Sprintf("Invalid string literal: %v", err), p.current.Position).WithToken(p.current.Value)
	}

	node := types.NewASTNode(types.NodeString, p.current.Position)
	node.Value = unescaped
	p.advance()
	return node, nil
}

// parseName parses an identifier, or a function call when the name is
// followed by an opening parenthesis.
func (p *Parser) parseName() (*types.ASTNode, error) {
	if !validDateSuffix(p.current.Value) {
		return nil, p.error(fmt.Sprintf("Invalid date segment in identifier %s", p.current.Value))
	}

	name := p.current
	p.advance()

	if p.current.Type == TokenParenOpen {
		return p.parseFunctionCall(name)
	}

	node := types.NewASTNode(types.NodeIdentifier, name.Position)
	node.Value = name.Value
	return node, nil
}

// parseFunctionCall parses NAME(arg1; arg2; ...). The name has been
// consumed, the current token is '('.
func (p *Parser) parseFunctionCall(name Token) (*types.ASTNode, error) {
	p.advance() // Skip '('

	node := types.NewASTNode(types.NodeFunction, name.Position)
	node.Value = name.Value

	if p.current.Type == TokenParenClose {
		p.advance()
		return node, nil
	}

	for {
		arg, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		node.Arguments = append(node.Arguments, arg)

		if p.current.Type == TokenParenClose {
			p.advance()
			return node, nil
		}
		if err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
	}
}

// validDateSuffix checks the hyphen segments of an identifier. An
// identifier without hyphen is always valid; otherwise the hyphen part
// must continue a four digit year as -MM-DD.
func validDateSuffix(name string) bool {
	i := strings.IndexByte(name, '-')
	if i < 0 {
		return true
	}
	suffix := name[i:]
	if len(suffix) != 6 || suffix[0] != '-' || suffix[3] != '-' {
		return false
	}
	for _, j := range []int{1, 2, 4, 5} {
		if !isDigit(rune(suffix[j])) {
			return false
		}
	}
	return true
}

// unescapeString processes escape sequences in a string literal.
// Handles \n, \t, \r, \\, \" and Unicode escapes (\uXXXX).
func unescapeString(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil // Fast path: no escapes
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			result.WriteByte(s[i])
			continue
		}

		i++ // Skip backslash
		if i >= len(s) {
			return "", fmt.Errorf("invalid escape sequence at end of string")
		}

		switch s[i] {
		case 'n':
			result.WriteByte('\n')
		case 't':
			result.WriteByte('\t')
		case 'r':
			result.WriteByte('\r')
		case '\\':
			result.WriteByte('\\')
		case '"':
			result.WriteByte('"')
		case 'u':
			if i+4 >= len(s) {
				return "", fmt.Errorf("invalid \\u escape: not enough characters")
			}
			hex := s[i+1 : i+5]
			codePoint, err := strconv.ParseUint(hex, 16, 16)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape: %s", hex)
			}
			i += 4
			result.WriteRune(rune(codePoint))
		default:
			return "", fmt.Errorf("invalid escape sequence: \\%c", s[i])
		}
	}

	return result.String(), nil
}
