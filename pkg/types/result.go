package types

import (
	"context"
	"slices"
)

// Env supplies the runtime values of identifiers to executable code.
type Env interface {
	Lookup(name string) (any, bool)
}

// Exec is the executable form of a code fragment. It computes the value
// the fragment's source text would compute.
type Exec func(ctx context.Context, env Env) (any, error)

// CodeFragment is a piece of generated Go source together with the import
// paths it needs and its executable counterpart. Fragments are immutable.
type CodeFragment struct {
	source  string
	imports []string
	exec    Exec
}

// NewCodeFragment creates a fragment. Duplicate imports are dropped.
func NewCodeFragment(source string, exec Exec, imports ...string) *CodeFragment {
	f := &CodeFragment{source: source, exec: exec}
	f.imports = appendUnique(f.imports, imports...)
	return f
}

// Source returns the generated source text.
func (f *CodeFragment) Source() string {
	return f.source
}

// Imports returns the import paths required by Source, in first-use order.
func (f *CodeFragment) Imports() []string {
	return slices.Clone(f.imports)
}

// Exec returns the executable form of the fragment, or nil.
func (f *CodeFragment) Exec() Exec {
	return f.exec
}

// Concat returns a fragment whose source is f followed by other. Imports
// are merged; the executable form is the one of other.
func (f *CodeFragment) Concat(other *CodeFragment) *CodeFragment {
	if f == nil {
		return other
	}
	if other == nil {
		return f
	}
	out := &CodeFragment{source: f.source + other.source, exec: other.exec}
	out.imports = appendUnique(slices.Clone(f.imports), other.imports...)
	return out
}

// MergeImports collects the imports of all fragments, in first-use order.
func MergeImports(fragments ...*CodeFragment) []string {
	var out []string
	for _, f := range fragments {
		if f != nil {
			out = appendUnique(out, f.imports...)
		}
	}
	return out
}

// String implements fmt.Stringer.
func (f *CodeFragment) String() string {
	return f.source
}

// CompilationResult is the outcome of compiling one expression or
// sub-expression.
//
// A result is failed iff its message list contains an ERROR-severity
// message. Results are built up during compilation and must be treated as
// immutable once returned from Compiler.Compile.
type CompilationResult struct {
	datatype    *Datatype
	code        *CodeFragment
	messages    MessageList
	identifiers []string
}

// NewResult creates a successful result.
func NewResult(code *CodeFragment, datatype *Datatype) *CompilationResult {
	return &CompilationResult{code: code, datatype: datatype}
}

// NewFailure creates a failed result carrying msg.
func NewFailure(msg *Message) *CompilationResult {
	r := &CompilationResult{}
	r.messages.Add(msg)
	return r
}

// Datatype returns the inferred datatype, nil on failure.
func (r *CompilationResult) Datatype() *Datatype {
	return r.datatype
}

// SetDatatype sets the inferred datatype.
func (r *CompilationResult) SetDatatype(dt *Datatype) {
	r.datatype = dt
}

// Code returns the generated code fragment, nil on failure.
func (r *CompilationResult) Code() *CodeFragment {
	return r.code
}

// SetCode replaces the generated code fragment.
func (r *CompilationResult) SetCode(code *CodeFragment) {
	r.code = code
}

// Messages returns the diagnostics.
func (r *CompilationResult) Messages() MessageList {
	return r.messages
}

// AddMessage appends a diagnostic.
func (r *CompilationResult) AddMessage(msg *Message) {
	r.messages.Add(msg)
}

// AddMessages appends diagnostics, keeping their order.
func (r *CompilationResult) AddMessages(ml MessageList) {
	r.messages.AddAll(ml)
}

// Identifiers returns the referenced identifier names in first-use order.
func (r *CompilationResult) Identifiers() []string {
	return slices.Clone(r.identifiers)
}

// AddIdentifiers records identifier names; names already present are skipped.
func (r *CompilationResult) AddIdentifiers(names ...string) {
	r.identifiers = appendUnique(r.identifiers, names...)
}

// Add merges other into r: code is concatenated, messages and identifiers
// are appended after r's own. The combined severity is the worse of both.
func (r *CompilationResult) Add(other *CompilationResult) {
	if other == nil {
		return
	}
	r.code = r.code.Concat(other.code)
	r.messages.AddAll(other.messages)
	r.identifiers = appendUnique(r.identifiers, other.identifiers...)
}

// Inherit copies messages and identifiers of the given results into r,
// in argument order. Code and datatype are left untouched.
func (r *CompilationResult) Inherit(results ...*CompilationResult) {
	for _, o := range results {
		r.messages.AddAll(o.messages)
		r.identifiers = appendUnique(r.identifiers, o.identifiers...)
	}
}

// Successful reports whether no ERROR-severity message was recorded.
func (r *CompilationResult) Successful() bool {
	return !r.messages.ContainsErrorMsg()
}

// Failed reports whether an ERROR-severity message was recorded.
func (r *CompilationResult) Failed() bool {
	return r.messages.ContainsErrorMsg()
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		if !slices.Contains(dst, it) {
			dst = append(dst, it)
		}
	}
	return dst
}
