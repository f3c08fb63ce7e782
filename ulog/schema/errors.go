package schema

import "fmt"

// MalformedDefinitionError indicates a format definition that cannot be
// parsed, redefines an existing schema, or references an unknown type.
type MalformedDefinitionError struct {
	Definition string
	Reason     string
}

func (e MalformedDefinitionError) Error() string {
	return fmt.Sprintf("malformed definition %q: %s", e.Definition, e.Reason)
}

func (e MalformedDefinitionError) Is(err error) bool {
	_, ok := err.(MalformedDefinitionError)
	return ok
}

// UnknownSchemaError indicates a reference to a schema name that has not been
// registered.
type UnknownSchemaError struct {
	Name string
}

func (e UnknownSchemaError) Error() string {
	return "unknown schema: " + e.Name
}

func (e UnknownSchemaError) Is(err error) bool {
	_, ok := err.(UnknownSchemaError)
	return ok
}

// ShortReadError indicates a payload with fewer bytes than the schema layout
// requires.
type ShortReadError struct {
	typeName string
}

func (e ShortReadError) Error() string {
	return "short read on " + e.typeName
}

func (e ShortReadError) Is(err error) bool {
	_, ok := err.(ShortReadError)
	return ok
}
