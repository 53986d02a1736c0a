// Package ext provides the optional function packs of the formula language.
//
// The functions live in sub-packages grouped by category:
//   - extexcel – ABS, IF, ISEMPTY, MIN, MAX, ROUND, ROUNDUP, ROUNDDOWN, NOT, AND, OR, SQRT, POWER, WHOLENUMBER
//   - exttext  – LEFT, RIGHT, TEXTLENGTH, CONCAT
//
// # Integration – all packs at once
//
//	import "github.com/faktorips/fl/pkg/ext"
//
//	c := compiler.New(ext.WithAll())
//
// # Integration – by category
//
//	c := compiler.New(ext.WithExcel())
//
// # Integration – single function from a sub-package
//
//	import "github.com/faktorips/fl/pkg/ext/extexcel"
//
//	c := compiler.New(compiler.WithFunctionResolver(
//	    functions.NewNamespace("mine", extexcel.MaxDecimal()),
//	))
package ext

import (
	"github.com/faktorips/fl/pkg/compiler"
	"github.com/faktorips/fl/pkg/ext/extexcel"
	"github.com/faktorips/fl/pkg/ext/exttext"
	"github.com/faktorips/fl/pkg/functions"
)

// All returns every function of every pack.
func All() []functions.FlFunction {
	var all []functions.FlFunction
	all = append(all, extexcel.All()...)
	all = append(all, exttext.All()...)
	return all
}

// Namespaces returns one resolver per pack.
func Namespaces() []functions.Resolver {
	return []functions.Resolver{extexcel.Namespace(), exttext.Namespace()}
}

// WithAll returns an Option that registers all packs.
func WithAll() compiler.Option {
	return compiler.WithFunctionResolver(Namespaces()...)
}

// WithExcel returns an Option for the spreadsheet functions.
func WithExcel() compiler.Option {
	return compiler.WithFunctionResolver(extexcel.Namespace())
}

// WithText returns an Option for the text functions.
func WithText() compiler.Option {
	return compiler.WithFunctionResolver(exttext.Namespace())
}
