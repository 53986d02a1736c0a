package compiler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/text/language"

	"github.com/faktorips/fl/pkg/builtin"
	"github.com/faktorips/fl/pkg/types"
	"github.com/faktorips/fl/pkg/values"
)

// IdentifierResolver maps identifiers to typed code fragments. It returns
// a failed result carrying UNDEFINED_IDENTIFIER for unknown identifiers.
type IdentifierResolver interface {
	Compile(identifier string, c *Compiler, locale language.Tag) *types.CompilationResult
}

// IdentifierResolverFunc adapts a function to IdentifierResolver.
type IdentifierResolverFunc func(identifier string, c *Compiler, locale language.Tag) *types.CompilationResult

// Compile implements IdentifierResolver.
func (f IdentifierResolverFunc) Compile(identifier string, c *Compiler, locale language.Tag) *types.CompilationResult {
	return f(identifier, c, locale)
}

type tableEntry struct {
	datatype *types.Datatype
	code     func() *types.CodeFragment
}

// TableResolver resolves identifiers from a table of variables and
// constants. It is safe for concurrent use and implements Versioned, so
// compilers see registrations made after construction.
type TableResolver struct {
	mu      sync.RWMutex
	entries map[string]tableEntry
	order   []string
	version atomic.Uint64
}

// NewTableResolver creates an empty table.
func NewTableResolver() *TableResolver {
	return &TableResolver{entries: make(map[string]tableEntry)}
}

// Variable registers a variable of datatype dt. The generated code reads
// the variable from a values.Environment named env.
func (r *TableResolver) Variable(name string, dt *types.Datatype) *TableResolver {
	return r.set(name, dt, func() *types.CodeFragment {
		return variableFragment(name, dt)
	})
}

// Constant registers an identifier that always yields code.
func (r *TableResolver) Constant(name string, dt *types.Datatype, code *types.CodeFragment) *TableResolver {
	return r.set(name, dt, func() *types.CodeFragment { return code })
}

// Enum registers the values of the enum datatype dt as constants named
// "<datatype>.<id>", e.g. Gender.male.
func (r *TableResolver) Enum(dt *types.Datatype, ids ...string) *TableResolver {
	for _, id := range ids {
		r.Constant(dt.Name()+"."+id, dt, builtin.EnumLiteral(id))
	}
	return r
}

func (r *TableResolver) set(name string, dt *types.Datatype, code func() *types.CodeFragment) *TableResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[name]; !ok {
		r.order = append(r.order, name)
	}
	r.entries[name] = tableEntry{datatype: dt, code: code}
	r.version.Add(1)
	return r
}

// Version implements Versioned.
func (r *TableResolver) Version() uint64 {
	return r.version.Load()
}

// Lookup returns the datatype registered for name.
func (r *TableResolver) Lookup(name string) (*types.Datatype, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.datatype, ok
}

// Names returns the registered identifiers in registration order.
func (r *TableResolver) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Compile implements IdentifierResolver.
func (r *TableResolver) Compile(identifier string, c *Compiler, _ language.Tag) *types.CompilationResult {
	r.mu.RLock()
	e, ok := r.entries[identifier]
	r.mu.RUnlock()
	if !ok {
		return types.NewFailure(c.Message(types.CodeUndefinedIdentifier, -1, identifier))
	}
	return types.NewResult(e.code(), e.datatype)
}

func variableFragment(name string, dt *types.Datatype) *types.CodeFragment {
	return types.NewCodeFragment(
		fmt.Sprintf("values.Must(values.Lookup[%s](env, %s))", dt.GoType(), strconv.Quote(name)),
		func(_ context.Context, env types.Env) (any, error) {
			if env == nil {
				return nil, fmt.Errorf("%w: %s", values.ErrUnboundVariable, name)
			}
			v, ok := env.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("%w: %s", values.ErrUnboundVariable, name)
			}
			return v, nil
		},
		values.ImportPath,
	)
}
