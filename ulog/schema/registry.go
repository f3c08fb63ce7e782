package schema

import (
	"fmt"
	"strings"
)

/*
The registry holds every schema defined so far in a decode session. A
definition may reference only primitives and schemas registered before it; the
source stream is append-only, so definitions arrive strictly before their
uses and no two-pass resolution is ever attempted.

Registration resolves the definition into a flat field layout with byte
offsets and a cached total size. Nothing is recomputed afterwards.
*/

////////////////////////////////////////////////////////////////////////////////

// nolint:gochecknoglobals
var primitiveTypes = map[string]PrimitiveType{
	"int8":    INT8,
	"int16":   INT16,
	"int32":   INT32,
	"int64":   INT64,
	"uint8":   UINT8,
	"uint16":  UINT16,
	"uint32":  UINT32,
	"uint64":  UINT64,
	"float32": FLOAT32,
	"float64": FLOAT64,
	"bool":    BOOL,
	"char":    CHAR,

	// C-style aliases used by older writers.
	"int8_t":   INT8,
	"int16_t":  INT16,
	"int32_t":  INT32,
	"int64_t":  INT64,
	"uint8_t":  UINT8,
	"uint16_t": UINT16,
	"uint32_t": UINT32,
	"uint64_t": UINT64,
	"float":    FLOAT32,
	"double":   FLOAT64,
}

// Registry maps schema names to resolved schemas.
type Registry struct {
	schemas map[string]*Schema
	order   []string
}

// NewRegistry returns an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]*Schema),
	}
}

// Define parses a format definition and registers the resulting schema.
// Referenced schema names must already be registered.
func (r *Registry) Define(definition string) (*Schema, error) {
	ast, err := formatDefinitionParser.ParseString("", definition)
	if err != nil {
		return nil, MalformedDefinitionError{definition, err.Error()}
	}
	if _, ok := r.schemas[ast.Name]; ok {
		return nil, MalformedDefinitionError{definition, "schema " + ast.Name + " already defined"}
	}
	fields := make([]Field, 0, len(ast.Fields))
	for _, spec := range ast.Fields {
		field, err := r.resolveField(spec)
		if err != nil {
			return nil, MalformedDefinitionError{definition, err.Error()}
		}
		fields = append(fields, field)
	}
	schema := &Schema{
		Name:           ast.Name,
		Fields:         fields,
		timestampIndex: -1,
	}
	schema.size = flatten(fields, "", 0, false, &schema.flat)
	vi := 0
	for _, f := range schema.flat {
		if f.Padding {
			continue
		}
		if f.Name == "timestamp" && f.Type == UINT64 && f.ArrayLen == 0 {
			schema.timestampIndex = vi
			break
		}
		vi++
	}
	r.schemas[ast.Name] = schema
	r.order = append(r.order, ast.Name)
	return schema, nil
}

// Resolve returns the schema registered under name.
func (r *Registry) Resolve(name string) (*Schema, error) {
	schema, ok := r.schemas[name]
	if !ok {
		return nil, UnknownSchemaError{name}
	}
	return schema, nil
}

// Schemas returns all registered schemas in definition order.
func (r *Registry) Schemas() []*Schema {
	schemas := make([]*Schema, 0, len(r.order))
	for _, name := range r.order {
		schemas = append(schemas, r.schemas[name])
	}
	return schemas
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.order)
}

func (r *Registry) resolveField(spec fieldSpec) (Field, error) {
	length := spec.arrayLength()
	if length < 0 {
		return Field{}, fmt.Errorf("invalid array length on field %s", spec.Name)
	}
	typ, err := r.resolveType(spec.Type.Name, length)
	if err != nil {
		return Field{}, fmt.Errorf("field %s: %w", spec.Name, err)
	}
	return Field{Name: spec.Name, Type: typ}, nil
}

func (r *Registry) resolveType(name string, length int) (Type, error) {
	var base Type
	if primitive, ok := primitiveTypes[name]; ok {
		base = Type{Primitive: primitive}
	} else if referenced, ok := r.schemas[name]; ok {
		base = Type{Record: true, RecordName: referenced.Name, Fields: referenced.Fields}
	} else {
		return Type{}, fmt.Errorf("type %s is neither a primitive nor a registered schema", name)
	}
	if length == 0 {
		return base, nil
	}
	items := base
	return Type{Array: true, FixedSize: length, Items: &items}, nil
}

// flatten resolves fields into the flat offset-aware layout, appending to
// out and returning the offset after the last field.
func flatten(fields []Field, prefix string, offset int, padding bool, out *[]FlatField) int {
	for _, field := range fields {
		name := prefix + field.Name
		pad := padding || strings.HasPrefix(field.Name, "_padding")
		t := field.Type
		switch {
		case t.IsPrimitive():
			*out = append(*out, FlatField{Name: name, Type: t.Primitive, Offset: offset, Padding: pad})
			offset += t.Primitive.Size()
		case t.Array && t.Items.IsPrimitive():
			*out = append(*out, FlatField{
				Name:     name,
				Type:     t.Items.Primitive,
				ArrayLen: t.FixedSize,
				Offset:   offset,
				Padding:  pad,
			})
			offset += t.Items.Primitive.Size() * t.FixedSize
		case t.Array:
			for i := 0; i < t.FixedSize; i++ {
				elementPrefix := fmt.Sprintf("%s[%d].", name, i)
				offset = flatten(t.Items.Fields, elementPrefix, offset, pad, out)
			}
		case t.Record:
			offset = flatten(t.Fields, name+".", offset, pad, out)
		}
	}
	return offset
}

// ParseTypedKey parses the "type name" key of an info or parameter frame and
// returns the field name and its resolved layout. Typed keys may only use
// primitive types.
func ParseTypedKey(key string) (FlatField, error) {
	spec, err := fieldSpecParser.ParseString("", key)
	if err != nil {
		return FlatField{}, MalformedDefinitionError{key, err.Error()}
	}
	length := spec.arrayLength()
	if length < 0 {
		return FlatField{}, MalformedDefinitionError{key, "invalid array length"}
	}
	primitive, ok := primitiveTypes[spec.Type.Name]
	if !ok {
		return FlatField{}, MalformedDefinitionError{key, "type " + spec.Type.Name + " is not a primitive"}
	}
	return FlatField{Name: spec.Name, Type: primitive, ArrayLen: length}, nil
}
