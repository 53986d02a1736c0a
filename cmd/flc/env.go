package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/faktorips/fl/pkg/builtin"
	"github.com/faktorips/fl/pkg/compiler"
	"github.com/faktorips/fl/pkg/evaluator"
	"github.com/faktorips/fl/pkg/types"
)

// envFile is the YAML environment given with -env:
//
//	variables:
//	  premium: Money
//	  rate: Decimal
//	  gender: Gender
//	enums:
//	  Gender: [male, female]
//	values:
//	  premium: 10.00EUR
//	  rate: 0.5
//	  gender: male
type envFile struct {
	Variables map[string]string   `yaml:"variables"`
	Enums     map[string][]string `yaml:"enums"`
	Values    map[string]any      `yaml:"values"`
}

var datatypes = map[string]*types.Datatype{
	"Decimal": types.Decimal,
	"Money":   types.Money,
	"Integer": types.Integer,
	"int":     types.PrimitiveInt,
	"Boolean": types.Boolean,
	"boolean": types.PrimitiveBoolean,
	"String":  types.String,
}

// environment is a loaded envFile.
type environment struct {
	identifiers *compiler.TableResolver
	enums       []*types.Datatype
	values      evaluator.MapEnv
}

func loadEnv(path string) (*environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseEnv(data)
}

func parseEnv(data []byte) (*environment, error) {
	var f envFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	known := make(map[string]*types.Datatype, len(datatypes)+len(f.Enums))
	for name, dt := range datatypes {
		known[name] = dt
	}

	env := &environment{identifiers: compiler.NewTableResolver()}
	for name, ids := range f.Enums {
		if _, ok := known[name]; ok {
			return nil, fmt.Errorf("enum %s redefines a datatype", name)
		}
		dt := types.NewEnumDatatype(name)
		known[name] = dt
		env.enums = append(env.enums, dt)
		env.identifiers.Enum(dt, ids...)
	}
	for name, typeName := range f.Variables {
		dt, ok := known[typeName]
		if !ok {
			return nil, fmt.Errorf("variable %s: unknown datatype %s", name, typeName)
		}
		env.identifiers.Variable(name, dt)
	}

	values, err := evaluator.Bind(f.Values, env.identifiers)
	if err != nil {
		return nil, fmt.Errorf("environment values: %w", err)
	}
	env.values = values
	return env, nil
}

// options returns the compiler options declaring the environment.
func (e *environment) options() []compiler.Option {
	if e == nil {
		return nil
	}
	opts := []compiler.Option{compiler.WithIdentifierResolver(e.identifiers)}
	ops := builtin.Operations()
	for _, dt := range e.enums {
		ops.AddBinary(builtin.EnumOperations(dt)...)
	}
	return append(opts, compiler.WithOperations(ops))
}
