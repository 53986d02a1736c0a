package types

// Datatype is a semantic value type of the formula language.
//
// Datatypes are compared by identity: two *Datatype values denote the same
// type only if they are the same pointer. Datatypes are defined once at
// configuration time and never change afterwards.
type Datatype struct {
	name      string
	goType    string
	primitive bool
	enum      bool
	boxed     *Datatype
}

// Predefined datatypes.
var (
	Decimal          = &Datatype{name: "Decimal", goType: "values.Decimal"}
	Money            = &Datatype{name: "Money", goType: "values.Money"}
	Integer          = &Datatype{name: "Integer", goType: "values.Integer"}
	Boolean          = &Datatype{name: "Boolean", goType: "values.Boolean"}
	String           = &Datatype{name: "String", goType: "string"}
	PrimitiveInt     = &Datatype{name: "int", goType: "int", primitive: true, boxed: Integer}
	PrimitiveBoolean = &Datatype{name: "boolean", goType: "bool", primitive: true, boxed: Boolean}

	// Any only appears in function signatures that accept every datatype.
	Any = &Datatype{name: "Any", goType: "any"}
)

// NewDatatype defines a new non-primitive datatype whose values are
// represented by goType in generated code.
func NewDatatype(name, goType string) *Datatype {
	return &Datatype{name: name, goType: goType}
}

// NewEnumDatatype defines an enumeration datatype. Its values are
// represented as values.Enum in generated code.
func NewEnumDatatype(name string) *Datatype {
	return &Datatype{name: name, goType: "values.Enum", enum: true}
}

// Name returns the name used in diagnostics.
func (d *Datatype) Name() string {
	if d == nil {
		return "<none>"
	}
	return d.name
}

// GoType returns the Go type that represents values of d in generated code.
func (d *Datatype) GoType() string {
	return d.goType
}

// IsPrimitive reports whether values of d can never be null.
func (d *Datatype) IsPrimitive() bool {
	return d.primitive
}

// IsNullable reports whether values of d may be null.
func (d *Datatype) IsNullable() bool {
	return !d.primitive
}

// IsEnum reports whether d was created by NewEnumDatatype.
func (d *Datatype) IsEnum() bool {
	return d.enum
}

// Boxed returns the nullable counterpart of a primitive datatype, or nil.
func (d *Datatype) Boxed() *Datatype {
	return d.boxed
}

// String implements fmt.Stringer.
func (d *Datatype) String() string {
	return d.Name()
}
