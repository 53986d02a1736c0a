package functions

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/faktorips/fl/pkg/types"
)

// Resolver is an ordered collection of functions.
type Resolver interface {
	Functions() []FlFunction
}

// Namespace is a named Resolver. It is safe for concurrent use; Version
// changes with every Add.
type Namespace struct {
	name    string
	mu      sync.RWMutex
	fns     []FlFunction
	version atomic.Uint64
}

// NewNamespace creates a namespace holding fns in the given order.
func NewNamespace(name string, fns ...FlFunction) *Namespace {
	return &Namespace{name: name, fns: fns}
}

// Name returns the namespace name.
func (n *Namespace) Name() string {
	return n.name
}

// Add appends functions to the namespace.
func (n *Namespace) Add(fns ...FlFunction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fns = append(n.fns, fns...)
	n.version.Add(1)
}

// Functions implements Resolver.
func (n *Namespace) Functions() []FlFunction {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.fns)
}

// Version counts the calls to Add.
func (n *Namespace) Version() uint64 {
	return n.version.Load()
}

// Collect returns the functions of all resolvers in resolver order.
func Collect(resolvers ...Resolver) []FlFunction {
	var all []FlFunction
	for _, r := range resolvers {
		all = append(all, r.Functions()...)
	}
	return all
}

// Ambiguous returns the functions of fns that take part in a conflict,
// in their original order. Two functions A and B conflict when they are
// not the same function but A matches a call shaped like B.
func Ambiguous(fns []FlFunction) []FlFunction {
	groups := make(map[string][]int)
	for i, f := range fns {
		groups[f.Name()] = append(groups[f.Name()], i)
	}

	flagged := make([]bool, len(fns))
	for _, idx := range groups {
		for _, i := range idx {
			a := fns[i]
			for _, j := range idx {
				if i == j {
					continue
				}
				b := fns[j]
				if !a.IsSame(b) && a.Match(b.Name(), b.ArgTypes()) {
					flagged[i] = true
					flagged[j] = true
				}
			}
		}
	}

	var out []FlFunction
	for i, f := range fns {
		if flagged[i] {
			out = append(out, f)
		}
	}
	return out
}

// Candidates returns the functions of fns named name whose Match accepts
// argTypes. Functions that are the same as an earlier candidate are
// skipped, so the first registration wins. found reports whether any
// function of that name exists at all.
func Candidates(fns []FlFunction, name string, argTypes []*types.Datatype) (candidates []FlFunction, found bool) {
	for _, f := range fns {
		if f.Name() != name {
			continue
		}
		found = true
		if !f.Match(name, argTypes) {
			continue
		}
		if slices.ContainsFunc(candidates, f.IsSame) {
			continue
		}
		candidates = append(candidates, f)
	}
	return candidates, found
}

// Contains reports whether fns holds f itself.
func Contains(fns []FlFunction, f FlFunction) bool {
	for _, g := range fns {
		if g == f {
			return true
		}
	}
	return false
}
