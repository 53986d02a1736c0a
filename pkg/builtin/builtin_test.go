package builtin_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/faktorips/fl/pkg/builtin"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

func literal(t *testing.T, dt *types.Datatype, text string) *types.CompilationResult {
	t.Helper()
	var (
		frag *types.CodeFragment
		err  error
	)
	switch dt {
	case types.Decimal:
		frag, err = builtin.DecimalLiteral(text)
	case types.Money:
		frag, err = builtin.MoneyLiteral(text)
	case types.PrimitiveInt:
		var i int
		_, err = fmt.Sscan(text, &i)
		frag = builtin.IntegerLiteral(i)
	case types.String:
		frag = builtin.StringLiteral(text)
	case types.PrimitiveBoolean:
		frag = builtin.BooleanLiteral(text == "true")
	default:
		t.Fatalf("no literal for %s", dt)
	}
	if err != nil {
		t.Fatal(err)
	}
	return types.NewResult(frag, dt)
}

func exec(t *testing.T, r *types.CompilationResult) any {
	t.Helper()
	v, err := r.Code().Exec()(context.Background(), nil)
	if err != nil {
		t.Fatalf("exec %s: %v", r.Code().Source(), err)
	}
	return v
}

func TestBinaryOperations(t *testing.T) {
	ops := builtin.Operations()
	conv := builtin.Conversions()

	tests := []struct {
		op       string
		lhsType  *types.Datatype
		lhs      string
		rhsType  *types.Datatype
		rhs      string
		wantType *types.Datatype
		wantSrc  string
		want     string
	}{
		{"+", types.Decimal, "3.5", types.Decimal, "7.45", types.Decimal,
			`values.DecimalOf("3.5").Add(values.DecimalOf("7.45"))`, "10.95"},
		{"+", types.Decimal, "3.5", types.PrimitiveInt, "7", types.Decimal,
			`values.DecimalOf("3.5").Add(values.DecimalFromInt(7))`, "10.5"},
		{"+", types.Money, "3.50EUR", types.Money, "2.40EUR", types.Money,
			`values.Must(values.MoneyOf("3.50EUR").Add(values.MoneyOf("2.40EUR")))`, "5.90EUR"},
		{"*", types.PrimitiveInt, "2", types.Money, "1.25EUR", types.Money,
			`values.Must(values.MoneyOf("1.25EUR").Multiply(values.DecimalFromInt(2)))`, "2.50EUR"},
		{"/", types.PrimitiveInt, "7", types.PrimitiveInt, "2", types.Decimal,
			`values.Must(values.DecimalFromInt(7).Divide(values.DecimalFromInt(2)))`, "3.5"},
		{"-", types.PrimitiveInt, "7", types.PrimitiveInt, "2", types.PrimitiveInt, "values.Must(values.SubtractInt(7, 2))", "5"},
		{"<", types.PrimitiveInt, "1", types.Decimal, "1.5", types.PrimitiveBoolean,
			`values.DecimalFromInt(1).LessThan(values.DecimalOf("1.5"))`, "true"},
		{"+", types.String, "a", types.String, "b", types.String, `("a" + "b")`, "ab"},
		{"<>", types.PrimitiveBoolean, "true", types.PrimitiveBoolean, "false", types.PrimitiveBoolean,
			"(true != false)", "true"},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("%s %s %s", tt.lhs, tt.op, tt.rhs)
		t.Run(name, func(t *testing.T) {
			lhs := literal(t, tt.lhsType, tt.lhs)
			rhs := literal(t, tt.rhsType, tt.rhs)

			m, ok := ops.ResolveBinary(tt.op, lhs.Datatype(), rhs.Datatype(), conv)
			if !ok {
				t.Fatalf("no operation for %s %s %s", lhs.Datatype(), tt.op, rhs.Datatype())
			}
			if m.ConvertLHS {
				lhs, _ = conv.Convert(lhs, m.Operation.LHS())
			}
			if m.ConvertRHS {
				rhs, _ = conv.Convert(rhs, m.Operation.RHS())
			}
			res := m.Operation.Generate(lhs, rhs)

			if res.Datatype() != tt.wantType {
				t.Errorf("datatype = %s, want %s", res.Datatype(), tt.wantType)
			}
			if got := res.Code().Source(); got != tt.wantSrc {
				t.Errorf("source = %s, want %s", got, tt.wantSrc)
			}
			if got := fmt.Sprint(exec(t, res)); got != tt.want {
				t.Errorf("value = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIntegerOverflow(t *testing.T) {
	ops := builtin.Operations()
	conv := builtin.Conversions()
	huge := types.NewResult(builtin.IntegerLiteral(math.MaxInt), types.PrimitiveInt)
	two := types.NewResult(builtin.IntegerLiteral(2), types.PrimitiveInt)

	for _, op := range []string{"+", "*"} {
		m, ok := ops.ResolveBinary(op, types.PrimitiveInt, types.PrimitiveInt, conv)
		if !ok {
			t.Fatalf("no int %s int operation", op)
		}
		res := m.Operation.Generate(huge, two)
		if _, err := res.Code().Exec()(context.Background(), nil); !errors.Is(err, values.ErrIntegerOverflow) {
			t.Errorf("MaxInt %s 2: expected ErrIntegerOverflow, got %v", op, err)
		}
	}

	m, ok := ops.ResolveBinary("+", types.Integer, types.PrimitiveInt, conv)
	if !ok {
		t.Fatal("no Integer + int operation")
	}
	boxed, _ := conv.Convert(huge, types.Integer)
	rhs, _ := conv.Convert(two, types.Integer)
	res := m.Operation.Generate(boxed, rhs)
	if _, err := res.Code().Exec()(context.Background(), nil); !errors.Is(err, values.ErrIntegerOverflow) {
		t.Errorf("Integer MaxInt + 2: expected ErrIntegerOverflow, got %v", err)
	}
}

func TestUndefinedOperation(t *testing.T) {
	ops := builtin.Operations()
	if _, ok := ops.ResolveBinary("+", types.Decimal, types.Money, builtin.Conversions()); ok {
		t.Error("Decimal + Money should not resolve")
	}
	if _, ok := ops.ResolveBinary("<", types.String, types.String, builtin.Conversions()); ok {
		t.Error("String < String should not resolve")
	}
}

func TestMixedBoxingPrefersBoxedOperation(t *testing.T) {
	ops := builtin.Operations()
	m, ok := ops.ResolveBinary("+", types.Integer, types.PrimitiveInt, builtin.Conversions())
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Operation.Type() != types.Integer || !m.ConvertRHS {
		t.Errorf("got %s result, convert rhs %v", m.Operation.Type(), m.ConvertRHS)
	}
}

func TestUnaryOperations(t *testing.T) {
	ops := builtin.Operations()
	operand := literal(t, types.Decimal, "2.5")

	m, ok := ops.ResolveUnary("-", types.Decimal, builtin.Conversions())
	if !ok {
		t.Fatal("expected unary minus on Decimal")
	}
	res := m.Operation.Generate(operand)
	if got := fmt.Sprint(exec(t, res)); got != "-2.5" {
		t.Errorf("value = %s", got)
	}
}

func TestEnumOperations(t *testing.T) {
	gender := types.NewEnumDatatype("Gender")
	ops := builtin.EnumOperations(gender)
	lhs := types.NewResult(builtin.EnumLiteral("male"), gender)
	rhs := types.NewResult(builtin.EnumLiteral("female"), gender)

	for _, op := range ops {
		res := op.Generate(lhs, rhs)
		want := op.Operator() == "<>"
		if got := exec(t, res); got != want {
			t.Errorf("male %s female = %v, want %v", op.Operator(), got, want)
		}
	}
}

func TestConversions(t *testing.T) {
	conv := builtin.Conversions()
	in := literal(t, types.PrimitiveInt, "4")

	boxed, ok := conv.Convert(in, types.Integer)
	if !ok {
		t.Fatal("int should box to Integer")
	}
	if got := boxed.Code().Source(); got != "values.IntegerOf(4)" {
		t.Errorf("source = %s", got)
	}
	if got := fmt.Sprint(exec(t, boxed)); got != "4" {
		t.Errorf("value = %s", got)
	}
	if conv.CanConvert(types.Decimal, types.PrimitiveInt) {
		t.Error("Decimal must not narrow to int")
	}
}
