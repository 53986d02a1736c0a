package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Literals
	TokenString  // "hello"
	TokenInteger // 42
	TokenDecimal // 3.14
	TokenMoney   // 10.12EUR
	TokenBoolean // true, false
	TokenName    // identifier or function name

	// Grouping symbols
	TokenParenOpen  // (
	TokenParenClose // )
	TokenSemicolon  // ;

	// Arithmetic operators
	TokenPlus  // +
	TokenMinus // -
	TokenMult  // *
	TokenDiv   // /

	// Comparison operators
	TokenEqual        // =
	TokenNotEqual     // <>
	TokenLess         // <
	TokenLessEqual    // <=
	TokenGreater      // >
	TokenGreaterEqual // >=
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenString:
		return "(string)"
	case TokenInteger:
		return "(integer)"
	case TokenDecimal:
		return "(decimal)"
	case TokenMoney:
		return "(money)"
	case TokenBoolean:
		return "(boolean)"
	case TokenName:
		return "(name)"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenSemicolon:
		return ";"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenMult:
		return "*"
	case TokenDiv:
		return "/"
	case TokenEqual:
		return "="
	case TokenNotEqual:
		return "<>"
	case TokenLess:
		return "<"
	case TokenLessEqual:
		return "<="
	case TokenGreater:
		return ">"
	case TokenGreaterEqual:
		return ">="
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token in a formula expression.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Position int       // Starting position in the input string
}

// symbols1 maps single-character symbols to token types.
var symbols1 = [...]TokenType{
	'(': TokenParenOpen,
	')': TokenParenClose,
	';': TokenSemicolon,
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenMult,
	'/': TokenDiv,
	'=': TokenEqual,
	'<': TokenLess,
	'>': TokenGreater,
}

// runeTokenType pairs a rune with its corresponding token type.
type runeTokenType struct {
	r  rune
	tt TokenType
}

// symbols2 maps two-character symbol sequences to token types.
// The key is the first character of the sequence.
var symbols2 = [...][]runeTokenType{
	'<': {{'=', TokenLessEqual}, {'>', TokenNotEqual}},
	'>': {{'=', TokenGreaterEqual}},
}

const (
	symbol1Count = rune(len(symbols1))
	symbol2Count = rune(len(symbols2))
)

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupSymbol2 returns possible two-character symbol completions.
// Returns nil if the rune cannot start a two-character symbol.
func lookupSymbol2(r rune) []runeTokenType {
	if r < 0 || r >= symbol2Count {
		return nil
	}
	return symbols2[r]
}

// lookupKeyword returns the token type for a keyword.
// Returns 0 if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	switch s {
	case "true", "false":
		return TokenBoolean
	default:
		return 0
	}
}
