package evaluator

import (
	"fmt"
	"strconv"

	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

// MapEnv is an environment backed by a map of runtime values.
type MapEnv map[string]any

// Lookup implements types.Env.
func (m MapEnv) Lookup(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Schema reports the datatype of a variable.
// compiler.TableResolver implements it.
type Schema interface {
	Lookup(name string) (*types.Datatype, bool)
}

// Bind converts plain values, as decoded from YAML or JSON, into runtime
// values according to schema. Names unknown to schema are rejected.
func Bind(raw map[string]any, schema Schema) (MapEnv, error) {
	env := make(MapEnv, len(raw))
	for name, v := range raw {
		dt, ok := schema.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown variable %q", name)
		}
		val, err := Value(dt, v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		env[name] = val
	}
	return env, nil
}

// Value converts a plain value to the runtime representation of dt.
// nil converts to null.
func Value(dt *types.Datatype, v any) (any, error) {
	if v == nil {
		if dt.IsPrimitive() {
			return nil, values.ErrNullValue
		}
		return nil, nil
	}
	switch dt {
	case types.Decimal:
		return values.ParseDecimal(text(v))
	case types.Money:
		return values.ParseMoney(text(v))
	case types.Integer, types.PrimitiveInt:
		i, err := integer(v)
		if err != nil {
			return nil, err
		}
		if dt == types.Integer {
			return values.IntegerOf(i), nil
		}
		return i, nil
	case types.Boolean, types.PrimitiveBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", v)
		}
		if dt == types.Boolean {
			return values.BooleanOf(b), nil
		}
		return b, nil
	case types.String:
		return text(v), nil
	}
	if dt.IsEnum() {
		return values.Enum{ID: text(v)}, nil
	}
	return v, nil
}

func text(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func integer(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		if x != float64(int(x)) {
			return 0, fmt.Errorf("expected integer, got %v", x)
		}
		return int(x), nil
	case string:
		return strconv.Atoi(x)
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}
