package evaluator_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/faktorips/fl/pkg/compiler"
	"github.com/faktorips/fl/pkg/evaluator"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

func schema() *compiler.TableResolver {
	return compiler.NewTableResolver().
		Variable("premium", types.Money).
		Variable("rate", types.Decimal).
		Variable("count", types.Integer).
		Variable("age", types.PrimitiveInt).
		Variable("name", types.String).
		Variable("active", types.Boolean)
}

func compile(t *testing.T, expr string) *types.CompilationResult {
	t.Helper()
	c := compiler.New(compiler.WithIdentifierResolver(schema()))
	res := c.Compile(expr)
	if res.Failed() {
		t.Fatalf("Compile(%q): %s", expr, res.Messages())
	}
	return res
}

func TestEval(t *testing.T) {
	ev := evaluator.New()
	env := evaluator.MapEnv{
		"premium": values.MoneyOf("10.00EUR"),
		"rate":    values.DecimalOf("0.5"),
		"count":   values.IntegerOf(3),
		"age":     42,
	}

	tests := []struct {
		expr string
		want string
	}{
		{"premium * rate", "5.00EUR"},
		{"count + 1", "4"},
		{"age / 4", "10.5"},
		{"3.5 + 7.45", "10.95"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v, err := ev.Eval(context.Background(), compile(t, tt.expr), env)
			if err != nil {
				t.Fatal(err)
			}
			if got := fmt.Sprint(v); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	ev := evaluator.New()
	c := compiler.New()

	t.Run("failed result", func(t *testing.T) {
		_, err := ev.Eval(context.Background(), c.Compile("1 +"), nil)
		if !errors.Is(err, evaluator.ErrNotExecutable) {
			t.Errorf("error = %v, want %v", err, evaluator.ErrNotExecutable)
		}
		var msg *types.Message
		if !errors.As(err, &msg) || msg.Code != types.CodeSyntaxError {
			t.Errorf("error %v does not carry the syntax error", err)
		}
	})

	t.Run("nil result", func(t *testing.T) {
		if _, err := ev.Eval(context.Background(), nil, nil); !errors.Is(err, evaluator.ErrNotExecutable) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := ev.Eval(context.Background(), c.Compile("1.5 / 0"), nil)
		if !errors.Is(err, values.ErrDivisionByZero) {
			t.Errorf("error = %v, want %v", err, values.ErrDivisionByZero)
		}
	})

	t.Run("unbound variable", func(t *testing.T) {
		_, err := ev.Eval(context.Background(), compile(t, "rate * 2"), evaluator.MapEnv{})
		if !errors.Is(err, values.ErrUnboundVariable) {
			t.Errorf("error = %v, want %v", err, values.ErrUnboundVariable)
		}
	})

	t.Run("panic", func(t *testing.T) {
		res := types.NewResult(types.NewCodeFragment("panic()", func(context.Context, types.Env) (any, error) {
			panic("boom")
		}), types.String)
		if _, err := ev.Eval(context.Background(), res, nil); err == nil || !strings.Contains(err.Error(), "boom") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestTimeout(t *testing.T) {
	slow := types.NewCodeFragment("slow()", func(ctx context.Context, _ types.Env) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	res := types.NewResult(slow, types.String)

	ev := evaluator.New(evaluator.WithTimeout(10 * time.Millisecond))
	if _, err := ev.Eval(context.Background(), res, nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want %v", err, context.DeadlineExceeded)
	}
}

func TestEvalMany(t *testing.T) {
	ev := evaluator.New(evaluator.WithConcurrency(4))
	res := compile(t, "rate * 2")

	envs := make([]types.Env, 20)
	for i := range envs {
		envs[i] = evaluator.MapEnv{"rate": values.DecimalFromInt(i)}
	}
	out, err := ev.EvalMany(context.Background(), res, envs)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range out {
		if got, want := fmt.Sprint(v), fmt.Sprint(i*2); got != want {
			t.Errorf("result %d = %s, want %s", i, got, want)
		}
	}

	envs[7] = evaluator.MapEnv{}
	if _, err := ev.EvalMany(context.Background(), res, envs); !errors.Is(err, values.ErrUnboundVariable) {
		t.Errorf("error = %v, want %v", err, values.ErrUnboundVariable)
	}
}

func TestBind(t *testing.T) {
	env, err := evaluator.Bind(map[string]any{
		"premium": "10.00EUR",
		"rate":    0.5,
		"count":   3,
		"age":     42,
		"name":    "Jane",
		"active":  true,
	}, schema())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want any
	}{
		{"premium", values.MoneyOf("10.00EUR")},
		{"count", values.IntegerOf(3)},
		{"age", 42},
		{"name", "Jane"},
		{"active", values.BooleanOf(true)},
	}
	for _, tt := range tests {
		if got := env[tt.name]; fmt.Sprint(got) != fmt.Sprint(tt.want) || fmt.Sprintf("%T", got) != fmt.Sprintf("%T", tt.want) {
			t.Errorf("%s = %#v, want %#v", tt.name, got, tt.want)
		}
	}
	if got := fmt.Sprint(env["rate"]); got != "0.5" {
		t.Errorf("rate = %s", got)
	}
}

func TestBindErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"unknown", map[string]any{"other": 1}},
		{"bad money", map[string]any{"premium": "ten"}},
		{"fraction as int", map[string]any{"age": 1.5}},
		{"null primitive", map[string]any{"age": nil}},
		{"string as boolean", map[string]any{"active": "yes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := evaluator.Bind(tt.raw, schema()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEvalStream(t *testing.T) {
	input := `premium: "10.00EUR"
rate: 0.5
---
premium: "4.00EUR"
rate: 0.25
---
unknown: 1
---
premium: "1.00EUR"
rate: 2
`
	ev := evaluator.New()
	ch, err := ev.EvalStream(context.Background(), compile(t, "premium * rate"), schema(), strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	var errs int
	for r := range ch {
		if r.Err != nil {
			errs++
			continue
		}
		got = append(got, fmt.Sprint(r.Value))
	}
	if want := []string{"5.00EUR", "1.00EUR", "2.00EUR"}; strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("got %v, want %v", got, want)
	}
	if errs != 1 {
		t.Errorf("errors = %d, want 1", errs)
	}
}
