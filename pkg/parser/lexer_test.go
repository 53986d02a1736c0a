package parser_test

import (
	"testing"

	"github.com/faktorips/fl/pkg/parser"
	"github.com/faktorips/fl/pkg/types"
)

type lexerTestCase struct {
	name      string
	input     string
	expected  []parser.Token
	expectErr bool
}

func TestLexerWhitespace(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "no whitespace",
			input: "abc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 0},
			},
		},
		{
			name:  "leading whitespace",
			input: "   abc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 3},
			},
		},
		{
			name:  "mixed whitespace",
			input: " \t\n\r\vabc",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "abc", Position: 5},
			},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerLiterals(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:     "integer",
			input:    "42",
			expected: []parser.Token{{Type: parser.TokenInteger, Value: "42", Position: 0}},
		},
		{
			name:     "decimal",
			input:    "123.45",
			expected: []parser.Token{{Type: parser.TokenDecimal, Value: "123.45", Position: 0}},
		},
		{
			name:     "money",
			input:    "10.12EUR",
			expected: []parser.Token{{Type: parser.TokenMoney, Value: "10.12EUR", Position: 0}},
		},
		{
			name:     "money without fraction",
			input:    "2EUR",
			expected: []parser.Token{{Type: parser.TokenMoney, Value: "2EUR", Position: 0}},
		},
		{
			name:     "boolean",
			input:    "true false",
			expected: []parser.Token{{Type: parser.TokenBoolean, Value: "true", Position: 0}, {Type: parser.TokenBoolean, Value: "false", Position: 5}},
		},
		{
			name:     "string",
			input:    `"hello world"`,
			expected: []parser.Token{{Type: parser.TokenString, Value: "hello world", Position: 1}},
		},
		{
			name:     "string with escaped quote",
			input:    `"say \"hi\""`,
			expected: []parser.Token{{Type: parser.TokenString, Value: `say \"hi\"`, Position: 1}},
		},
		{name: "unterminated string", input: `"abc`, expectErr: true},
		{name: "missing fraction digits", input: "3.", expectErr: true},
		{name: "lower case currency", input: "3eur", expectErr: true},
		{name: "long currency", input: "3EURO", expectErr: true},
	}

	runLexerTests(t, tests)
}

func TestLexerOperators(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:  "comparisons",
			input: "<= >= <> < > =",
			expected: []parser.Token{
				{Type: parser.TokenLessEqual, Value: "<=", Position: 0},
				{Type: parser.TokenGreaterEqual, Value: ">=", Position: 3},
				{Type: parser.TokenNotEqual, Value: "<>", Position: 6},
				{Type: parser.TokenLess, Value: "<", Position: 9},
				{Type: parser.TokenGreater, Value: ">", Position: 11},
				{Type: parser.TokenEqual, Value: "=", Position: 13},
			},
		},
		{
			name:  "function call",
			input: "MAX(a;b)",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "MAX", Position: 0},
				{Type: parser.TokenParenOpen, Value: "(", Position: 3},
				{Type: parser.TokenName, Value: "a", Position: 4},
				{Type: parser.TokenSemicolon, Value: ";", Position: 5},
				{Type: parser.TokenName, Value: "b", Position: 6},
				{Type: parser.TokenParenClose, Value: ")", Position: 7},
			},
		},
		{name: "comma", input: "a, b", expectErr: true},
		{name: "illegal character", input: "a # b", expectErr: true},
	}

	runLexerTests(t, tests)
}

func TestLexerNames(t *testing.T) {
	tests := []lexerTestCase{
		{
			name:     "qualified",
			input:    "policy.premium",
			expected: []parser.Token{{Type: parser.TokenName, Value: "policy.premium", Position: 0}},
		},
		{
			name:     "date segment",
			input:    "Altersgruppe_1980-01-01",
			expected: []parser.Token{{Type: parser.TokenName, Value: "Altersgruppe_1980-01-01", Position: 0}},
		},
		{
			name:  "short digit run is subtraction",
			input: "a1-2",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "a1", Position: 0},
				{Type: parser.TokenMinus, Value: "-", Position: 2},
				{Type: parser.TokenInteger, Value: "2", Position: 3},
			},
		},
		{
			name:  "year followed by minus name",
			input: "a2000-b",
			expected: []parser.Token{
				{Type: parser.TokenName, Value: "a2000", Position: 0},
				{Type: parser.TokenMinus, Value: "-", Position: 5},
				{Type: parser.TokenName, Value: "b", Position: 6},
			},
		},
		{
			name:     "umlauts",
			input:    "Prämie",
			expected: []parser.Token{{Type: parser.TokenName, Value: "Prämie", Position: 0}},
		},
	}

	runLexerTests(t, tests)
}

func TestLexerErrorCode(t *testing.T) {
	lexer := parser.NewLexer(`1 , 2`)
	for tok := lexer.Next(); tok.Type != parser.TokenEOF; tok = lexer.Next() {
		if tok.Type == parser.TokenError {
			break
		}
	}
	err := lexer.Error()
	if err == nil {
		t.Fatal("expected lexical error")
	}
	if err.Code != types.CodeLexicalError || err.Position != 2 {
		t.Errorf("got %v", err)
	}
}

func runLexerTests(t *testing.T, tests []lexerTestCase) {
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			lexer := parser.NewLexer(test.input)
			tokens := []parser.Token{}

			for {
				tok := lexer.Next()
				if tok.Type == parser.TokenEOF {
					break
				}
				if tok.Type == parser.TokenError {
					if !test.expectErr {
						t.Errorf("unexpected error: %v", lexer.Error())
					}
					return
				}
				tokens = append(tokens, tok)
			}

			if test.expectErr {
				t.Error("expected error but got none")
				return
			}

			if len(tokens) != len(test.expected) {
				t.Errorf("got %d tokens, want %d\nGot: %v\nWant: %v",
					len(tokens), len(test.expected), tokens, test.expected)
				return
			}

			for i, tok := range tokens {
				exp := test.expected[i]
				if tok.Type != exp.Type {
					t.Errorf("token %d: type = %v, want %v", i, tok.Type, exp.Type)
				}
				if tok.Value != exp.Value {
					t.Errorf("token %d: value = %q, want %q", i, tok.Value, exp.Value)
				}
				if tok.Position != exp.Position {
					t.Errorf("token %d: position = %d, want %d", i, tok.Position, exp.Position)
				}
			}
		})
	}
}
