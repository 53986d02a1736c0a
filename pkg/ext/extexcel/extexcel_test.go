package extexcel_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/faktorips/fl/pkg/compiler"
	"github.com/faktorips/fl/pkg/ext/extexcel"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

type env map[string]any

func (e env) Lookup(name string) (any, bool) {
	v, ok := e[name]
	return v, ok
}

func newCompiler() *compiler.Compiler {
	return compiler.New(
		compiler.WithFunctionResolver(extexcel.Namespace()),
		compiler.WithIdentifierResolver(compiler.NewTableResolver().
			Variable("rate", types.Decimal).
			Variable("flag", types.Boolean)),
	)
}

func run(t *testing.T, res *types.CompilationResult, e env) (any, error) {
	t.Helper()
	if res.Failed() {
		t.Fatalf("unexpected failure: %s", res.Messages())
	}
	return res.Code().Exec()(context.Background(), e)
}

func TestFunctions(t *testing.T) {
	c := newCompiler()
	e := env{"rate": values.DecimalOf("0.25"), "flag": values.BooleanOf(true)}

	tests := []struct {
		expr     string
		datatype *types.Datatype
		want     string
	}{
		{"ABS(-3.5)", types.Decimal, "3.5"},
		{"ABS(-2)", types.Decimal, "2"},
		{"ABS(-1.50EUR)", types.Money, "1.50EUR"},
		{"IF(1 < 2; 1; 2.5)", types.Decimal, "1"},
		{"IF(1 > 2; 1; 2.5)", types.Decimal, "2.5"},
		{`IF(flag; "yes"; "no")`, types.String, "yes"},
		{"IF(true; 1; 2)", types.PrimitiveInt, "1"},
		{"ISEMPTY(rate)", types.PrimitiveBoolean, "false"},
		{"MAX(1; 2.5)", types.Decimal, "2.5"},
		{"MIN(3; 2)", types.Decimal, "2"},
		{"MAX(rate; 0.5)", types.Decimal, "0.5"},
		{"MAX(1.00EUR; 2.00EUR)", types.Money, "2.00EUR"},
		{"MIN(1.00EUR; 2.00EUR)", types.Money, "1.00EUR"},
		{"ROUND(2.345; 2)", types.Decimal, "2.35"},
		{"ROUNDUP(2.341; 2)", types.Decimal, "2.35"},
		{"ROUNDDOWN(2.349; 2)", types.Decimal, "2.34"},
		{"ROUND(3.33EUR; 0)", types.Money, "3EUR"},
		{"NOT(true)", types.PrimitiveBoolean, "false"},
		{"NOT(flag)", types.PrimitiveBoolean, "false"},
		{"AND(true; 1 < 2; flag)", types.PrimitiveBoolean, "true"},
		{"AND(true; false)", types.PrimitiveBoolean, "false"},
		{"OR(false; false)", types.PrimitiveBoolean, "false"},
		{"OR(false; true; false)", types.PrimitiveBoolean, "true"},
		{"OR(true)", types.PrimitiveBoolean, "true"},
		{"SQRT(16)", types.Decimal, "4"},
		{"POWER(1.5; 2)", types.Decimal, "2.25"},
		{"WHOLENUMBER(7.9)", types.Integer, "7"},
		{"WHOLENUMBER(-7.9)", types.Integer, "-7"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res := c.Compile(tt.expr)
			v, err := run(t, res, e)
			if err != nil {
				t.Fatalf("exec %s: %v", res.Code().Source(), err)
			}
			if res.Datatype() != tt.datatype {
				t.Errorf("datatype = %s, want %s", res.Datatype(), tt.datatype)
			}
			if got := fmt.Sprint(v); got != tt.want {
				t.Errorf("value = %s, want %s (source %s)", got, tt.want, res.Code().Source())
			}
		})
	}
}

func TestGeneratedSource(t *testing.T) {
	c := newCompiler()
	tests := []struct {
		expr    string
		want    string
		imports bool
	}{
		{"MAX(1; 2.5)", `values.MaxDecimal(values.DecimalFromInt(1), values.DecimalOf("2.5"))`, true},
		{"ROUND(2.345; 2)", `values.Must(values.DecimalOf("2.345").Round(2, values.RoundHalfUp))`, true},
		{"AND(true; false)", "(true && false)", false},
		{"IF(true; 1; 2)", "func() int { if true { return 1 }; return 2 }()", false},
		{"ISEMPTY(rate)", `values.IsNull(values.Must(values.Lookup[values.Decimal](env, "rate")))`, true},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res := c.Compile(tt.expr)
			if res.Failed() {
				t.Fatalf("unexpected failure: %s", res.Messages())
			}
			if got := res.Code().Source(); got != tt.want {
				t.Errorf("source = %s, want %s", got, tt.want)
			}
			if got := slices.Contains(res.Code().Imports(), values.ImportPath); got != tt.imports {
				t.Errorf("imports = %v, values import expected: %v", res.Code().Imports(), tt.imports)
			}
		})
	}
}

func TestNullArguments(t *testing.T) {
	c := newCompiler()
	e := env{"rate": nil, "flag": nil}

	res := c.Compile("ISEMPTY(rate)")
	v, err := run(t, res, e)
	if err != nil || v != true {
		t.Errorf("ISEMPTY(null) = %v, %v; want true", v, err)
	}

	res = c.Compile("MAX(rate; 1.0)")
	v, err = run(t, res, e)
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := v.(values.Decimal); !ok || !d.IsNull() {
		t.Errorf("MAX(null; 1.0) = %v, want null", v)
	}

	res = c.Compile("NOT(flag)")
	if _, err := run(t, res, e); !errors.Is(err, values.ErrNullValue) {
		t.Errorf("NOT(null) error = %v, want %v", err, values.ErrNullValue)
	}
}

func TestRuntimeErrors(t *testing.T) {
	c := newCompiler()
	res := c.Compile("MAX(1.00EUR; 2.00USD)")
	if _, err := run(t, res, nil); !errors.Is(err, values.ErrCurrencyMismatch) {
		t.Errorf("error = %v, want %v", err, values.ErrCurrencyMismatch)
	}

	for _, expr := range []string{"ROUND(1.5; 40)", "ROUNDDOWN(1.50EUR; 40)"} {
		res := c.Compile(expr)
		if v, err := run(t, res, nil); err == nil {
			t.Errorf("%s = %v, want an error", expr, v)
		}
	}
}

func TestWrongArguments(t *testing.T) {
	c := newCompiler()
	tests := []struct {
		expr string
		code types.Code
	}{
		{`IF(true; 1; "a")`, types.CodeWrongArgumentTypes},
		{`IF("a"; 1; 2)`, types.CodeWrongArgumentTypes},
		{"ABS(true)", types.CodeWrongArgumentTypes},
		{"ROUND(1.5)", types.CodeWrongArgumentTypes},
		{"AND()", types.CodeWrongArgumentTypes},
		{"MAX(1.00EUR; 2)", types.CodeWrongArgumentTypes},
		{"AVERAGE(1; 2)", types.CodeUndefinedFunction},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res := c.Compile(tt.expr)
			if !res.Failed() {
				t.Fatalf("expected failure, got %s", res.Code().Source())
			}
			if got := res.Messages().At(0).Code; got != tt.code {
				t.Errorf("code = %s, want %s", got, tt.code)
			}
		})
	}
}

func TestNoAmbiguities(t *testing.T) {
	c := newCompiler()
	if amb := c.AmbiguousFunctions(); len(amb) != 0 {
		t.Errorf("ambiguous functions: %v", amb)
	}
	if got, want := len(c.Functions()), len(extexcel.All()); got != want {
		t.Errorf("functions = %d, want %d", got, want)
	}
}
