package exttext_test

import (
	"context"
	"testing"

	"github.com/faktorips/fl/pkg/compiler"
	"github.com/faktorips/fl/pkg/ext/exttext"
	"github.com/faktorips/fl/pkg/types"
)

func TestFunctions(t *testing.T) {
	c := compiler.New(compiler.WithFunctionResolver(exttext.Namespace()))

	tests := []struct {
		expr     string
		datatype *types.Datatype
		want     any
	}{
		{`LEFT("Hello"; 2)`, types.String, "He"},
		{`LEFT("Hello"; 10)`, types.String, "Hello"},
		{`LEFT("Hello"; 0)`, types.String, ""},
		{`RIGHT("Hello"; 3)`, types.String, "llo"},
		{`RIGHT("Grüße"; 3)`, types.String, "üße"},
		{`TEXTLENGTH("Grüße")`, types.PrimitiveInt, 5},
		{`TEXTLENGTH("")`, types.PrimitiveInt, 0},
		{`CONCAT("a"; "b"; "c")`, types.String, "abc"},
		{`CONCAT("a")`, types.String, "a"},
		{`TEXTLENGTH(CONCAT("ab"; LEFT("cde"; 1)))`, types.PrimitiveInt, 3},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res := c.Compile(tt.expr)
			if res.Failed() {
				t.Fatalf("unexpected failure: %s", res.Messages())
			}
			if res.Datatype() != tt.datatype {
				t.Errorf("datatype = %s, want %s", res.Datatype(), tt.datatype)
			}
			got, err := res.Code().Exec()(context.Background(), nil)
			if err != nil {
				t.Fatalf("exec %s: %v", res.Code().Source(), err)
			}
			if got != tt.want {
				t.Errorf("value = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSource(t *testing.T) {
	c := compiler.New(compiler.WithFunctionResolver(exttext.Namespace()))
	res := c.Compile(`CONCAT("a"; LEFT("bc"; 1))`)
	if res.Failed() {
		t.Fatal(res.Messages())
	}
	want := `values.Concat("a", values.Left("bc", 1))`
	if got := res.Code().Source(); got != want {
		t.Errorf("source = %s, want %s", got, want)
	}
}

func TestWrongArguments(t *testing.T) {
	c := compiler.New(compiler.WithFunctionResolver(exttext.Namespace()))
	for _, expr := range []string{`LEFT(1; 2)`, `TEXTLENGTH("a"; "b")`, `CONCAT()`, `RIGHT("a"; 1.5)`} {
		t.Run(expr, func(t *testing.T) {
			res := c.Compile(expr)
			if got := res.Messages().Codes(); len(got) != 1 || got[0] != types.CodeWrongArgumentTypes {
				t.Errorf("codes = %v, want [%s]", got, types.CodeWrongArgumentTypes)
			}
		})
	}
}
