package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/faktorips/fl/pkg/types"
)

const eof = -1

// Lexer converts a formula expression into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     *types.Message
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls. After a TokenError, Error reports the cause.
func (l *Lexer) Next() Token {
	l.acceptAll(isWhitespace)
	l.ignore()

	ch := l.nextRune()
	if ch == eof {
		return l.eof()
	}

	// Check for two-character symbols first (e.g., <=, <>)
	if rts := lookupSymbol2(ch); rts != nil {
		for _, rt := range rts {
			if l.acceptRune(rt.r) {
				return l.newToken(rt.tt)
			}
		}
	}

	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt)
	}

	if ch == '"' {
		l.ignore()
		return l.scanString(ch)
	}

	if isDigit(ch) {
		l.backup()
		return l.scanNumber()
	}

	if isNameStart(ch) {
		l.backup()
		return l.scanName()
	}

	return l.error(fmt.Sprintf("Illegal character %q", ch))
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() *types.Message {
	return l.err
}

// scanString reads a string literal from the current position.
// The opening quote has already been consumed.
func (l *Lexer) scanString(quote rune) Token {
Loop:
	for {
		switch l.nextRune() {
		case quote:
			break Loop
		case '\\':
			// Consume escaped character
			if r := l.nextRune(); r != eof {
				break
			}
			fallthrough
		case eof:
			return l.error("Unterminated string literal")
		}
	}

	l.backup()
	t := l.newToken(TokenString)
	l.acceptRune(quote)
	l.ignore()
	return t
}

// scanNumber reads an integer, decimal or money literal.
// Format: [0-9]+(\.[0-9]+)?([A-Z]{3})?
func (l *Lexer) scanNumber() Token {
	tt := TokenInteger
	l.acceptAll(isDigit)

	if l.acceptRune('.') {
		if !l.acceptAll(isDigit) {
			return l.error("Missing digits after decimal point")
		}
		tt = TokenDecimal
	}

	mark := l.current
	if l.acceptAll(isLetter) {
		currency := l.input[mark:l.current]
		if !isCurrencyCode(currency) {
			return l.error(fmt.Sprintf("Illegal currency %q", currency))
		}
		tt = TokenMoney
	}

	return l.newToken(tt)
}

// scanName reads an identifier, function name or keyword.
// Names consist of letters, digits and underscores, may be qualified with
// dots (policy.premium) and may end in a date segment after a four digit
// run (Altersgruppe_1980-01-01). The shape of the date segment is validated
// by the parser.
func (l *Lexer) scanName() Token {
	digits := 0
	for {
		ch := l.nextRune()
		switch {
		case isDigit(ch):
			digits++
			continue
		case isNameStart(ch):
			digits = 0
			continue
		case ch == '.' && isNameStart(l.peek()):
			digits = 0
			continue
		case ch == '-' && digits == 4 && isDigit(l.peek()):
			l.acceptDateSegments()
		default:
			l.backup()
		}
		break
	}

	t := l.newToken(TokenName)
	if tt := lookupKeyword(t.Value); tt > 0 {
		t.Type = tt
	}
	return t
}

// acceptDateSegments consumes hyphen separated digit runs. The leading
// hyphen has already been consumed.
func (l *Lexer) acceptDateSegments() {
	for {
		l.acceptAll(isDigit)
		if l.peek() != '-' {
			return
		}
		l.nextRune()
		if !isDigit(l.peek()) {
			l.backup()
			return
		}
	}
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(message string) Token {
	t := l.newToken(TokenError)
	if l.err == nil {
		l.err = types.NewError(types.CodeLexicalError, message, t.Position).WithToken(t.Value)
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) peek() rune {
	if l.current >= l.length {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.current:])
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
	l.width = 0
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) acceptRune(r rune) bool {
	return l.accept(func(c rune) bool {
		return c == r
	})
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return r != eof && unicode.IsLetter(r)
}

func isNameStart(r rune) bool {
	return r == '_' || isLetter(r)
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
