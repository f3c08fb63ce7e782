package schema

/*
schema models the message formats embedded in a ULog stream. A schema is an
association of a name and an ordered list of fields. Fields have primitive
types, fixed-size arrays of primitives, or reference another schema (possibly
as a fixed-size array). Field order defines the byte layout of the packed
payload, so it is load-bearing.

References to other schemas are resolved eagerly when a definition is
registered, producing a flat list of primitive fields with precomputed byte
offsets. Decoding never needs to chase references at runtime.
*/

////////////////////////////////////////////////////////////////////////////////

// PrimitiveType is an enumeration of the primitive types.
type PrimitiveType int

const (
	INT8 PrimitiveType = iota + 1
	INT16
	INT32
	INT64
	UINT8
	UINT16
	UINT32
	UINT64
	FLOAT32
	FLOAT64
	BOOL
	CHAR
)

func (p PrimitiveType) String() string {
	switch p {
	case INT8:
		return "int8"
	case INT16:
		return "int16"
	case INT32:
		return "int32"
	case INT64:
		return "int64"
	case UINT8:
		return "uint8"
	case UINT16:
		return "uint16"
	case UINT32:
		return "uint32"
	case UINT64:
		return "uint64"
	case FLOAT32:
		return "float32"
	case FLOAT64:
		return "float64"
	case BOOL:
		return "bool"
	case CHAR:
		return "char"
	default:
		return "unknown"
	}
}

// Size returns the encoded width of the primitive in bytes.
func (p PrimitiveType) Size() int {
	switch p {
	case INT8, UINT8, BOOL, CHAR:
		return 1
	case INT16, UINT16:
		return 2
	case INT32, UINT32, FLOAT32:
		return 4
	case INT64, UINT64, FLOAT64:
		return 8
	default:
		return 0
	}
}

// Type is a representation of a field type. Exactly one of Primitive, Array,
// or Record is set.
type Type struct {
	Primitive PrimitiveType

	// If it's an array...
	Array     bool
	FixedSize int
	Items     *Type

	// If it's a reference to another schema...
	Record     bool
	RecordName string
	Fields     []Field
}

// IsPrimitive returns true if the type is a primitive type.
func (t Type) IsPrimitive() bool {
	return t.Primitive > 0
}

// Field is a single named field within a schema.
type Field struct {
	Name string
	Type Type
}

// FlatField is a primitive-typed field in the resolved, offset-aware layout
// of a schema. Names of nested fields use dot notation, and elements of
// record arrays use square bracket notation: "pos.x", "cells[1].voltage".
// ArrayLen is zero for scalars and the declared length for primitive arrays.
type FlatField struct {
	Name     string
	Type     PrimitiveType
	ArrayLen int
	Offset   int

	// Padding fields occupy bytes but are omitted from decoded records.
	Padding bool
}

// Size returns the total encoded width of the field in bytes.
func (f FlatField) Size() int {
	if f.ArrayLen > 0 {
		return f.Type.Size() * f.ArrayLen
	}
	return f.Type.Size()
}

// Schema is a named message format with a resolved byte layout.
type Schema struct {
	Name   string
	Fields []Field

	flat           []FlatField
	size           int
	timestampIndex int
}

// Flat returns the resolved flat field layout in declaration order.
func (s *Schema) Flat() []FlatField {
	return s.flat
}

// Size returns the total encoded size of the schema in bytes.
func (s *Schema) Size() int {
	return s.size
}

// DataSize returns the minimum acceptable payload size. Writers may truncate
// a trailing padding field, so this is Size minus that field's width.
func (s *Schema) DataSize() int {
	if n := len(s.flat); n > 0 && s.flat[n-1].Padding {
		return s.size - s.flat[n-1].Size()
	}
	return s.size
}

// TimestampIndex returns the index of the schema's uint64 "timestamp" field
// within the values returned by Decode, or -1 if it has none.
func (s *Schema) TimestampIndex() int {
	return s.timestampIndex
}
