package operations

import (
	"github.com/faktorips/fl/pkg/types"
)

// ConversionGenerator converts a fragment of the source datatype into a
// fragment of the target datatype.
type ConversionGenerator func(from *types.CodeFragment) *types.CodeFragment

type conversionKey struct {
	from, to *types.Datatype
}

// ConversionTable maps (source, target) datatype pairs to conversion
// generators. Conversions are never chained.
type ConversionTable struct {
	rules map[conversionKey]ConversionGenerator
}

// NewConversionTable creates an empty conversion table.
func NewConversionTable() *ConversionTable {
	return &ConversionTable{rules: make(map[conversionKey]ConversionGenerator)}
}

// Register adds or replaces the conversion from -> to.
func (c *ConversionTable) Register(from, to *types.Datatype, gen ConversionGenerator) {
	c.rules[conversionKey{from, to}] = gen
}

// Merge copies all rules of other into c.
func (c *ConversionTable) Merge(other *ConversionTable) {
	for k, g := range other.rules {
		c.rules[k] = g
	}
}

// CanConvert reports whether a one-step conversion from -> to exists.
func (c *ConversionTable) CanConvert(from, to *types.Datatype) bool {
	_, ok := c.rules[conversionKey{from, to}]
	return ok
}

// Len returns the number of registered conversions.
func (c *ConversionTable) Len() int {
	return len(c.rules)
}

// Convert returns r converted to datatype to. r is returned unchanged if
// it already has that datatype. The converted result inherits r's
// messages and identifiers. ok is false if no conversion is registered.
func (c *ConversionTable) Convert(r *types.CompilationResult, to *types.Datatype) (*types.CompilationResult, bool) {
	if r.Datatype() == to {
		return r, true
	}
	gen, ok := c.rules[conversionKey{r.Datatype(), to}]
	if !ok {
		return r, false
	}
	out := types.NewResult(gen(r.Code()), to)
	out.Inherit(r)
	return out, true
}
