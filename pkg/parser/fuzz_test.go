package parser_test

import (
	"testing"

	"github.com/faktorips/fl/pkg/parser"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		`3.5 + 7.45`,
		`3.50EUR + 2.40EUR`,
		`IF(a > 1; MAX(a; 2); 0)`,
		`-(1 + 2) * 3`,
		`Altersgruppe_1980-01-01 <> "x"`,
		`1 * * 2`,
		``,
		`(`,
		`MAX(`,
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		expr, err := parser.Parse(input)
		if err != nil {
			if _, ok := parser.AsMessage(err); !ok {
				t.Fatalf("Parse(%q) returned %T, want *types.Message", input, err)
			}
			return
		}
		if expr.AST() == nil {
			t.Fatalf("Parse(%q) returned nil AST without error", input)
		}
	})
}
