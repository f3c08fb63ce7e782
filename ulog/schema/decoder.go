package schema

import (
	"encoding/binary"
	"math"

	"github.com/flightlog/ulog/util"
)

/*
Payload decoding against a resolved schema layout. All multi-byte primitives
are little-endian. Bool is any nonzero byte. Char arrays decode as text up to
the declared length; trailing zero bytes are data, not terminators.
*/

////////////////////////////////////////////////////////////////////////////////

// decodePrimitive decodes a single primitive value from data, which must hold
// at least p.Size() bytes.
func decodePrimitive(p PrimitiveType, data []byte) any {
	switch p {
	case INT8:
		return int8(data[0])
	case INT16:
		return int16(binary.LittleEndian.Uint16(data))
	case INT32:
		return int32(binary.LittleEndian.Uint32(data))
	case INT64:
		return int64(binary.LittleEndian.Uint64(data))
	case UINT8:
		return data[0]
	case UINT16:
		return binary.LittleEndian.Uint16(data)
	case UINT32:
		return binary.LittleEndian.Uint32(data)
	case UINT64:
		return binary.LittleEndian.Uint64(data)
	case FLOAT32:
		return math.Float32frombits(binary.LittleEndian.Uint32(data))
	case FLOAT64:
		return math.Float64frombits(binary.LittleEndian.Uint64(data))
	case BOOL:
		return data[0] != 0
	case CHAR:
		return string(data[:1])
	default:
		return nil
	}
}

// decode decodes the field's value from its field-local bytes.
func (f FlatField) decode(data []byte) any {
	if f.ArrayLen == 0 {
		return decodePrimitive(f.Type, data)
	}
	width := f.Type.Size()
	switch f.Type {
	case CHAR:
		return string(data[:f.ArrayLen])
	case UINT8:
		value := make([]byte, f.ArrayLen)
		copy(value, data)
		return value
	case BOOL:
		value := make([]bool, f.ArrayLen)
		for i := range value {
			value[i] = data[i] != 0
		}
		return value
	default:
		value := make([]any, f.ArrayLen)
		for i := range value {
			value[i] = decodePrimitive(f.Type, data[i*width:])
		}
		return value
	}
}

// DecodeValue decodes a standalone value for the field, as used by the typed
// keys of info and parameter frames.
func (f FlatField) DecodeValue(data []byte) (any, error) {
	if len(data) < f.Size() {
		return nil, ShortReadError{f.Type.String()}
	}
	return f.decode(data), nil
}

// Decode decodes a packed payload into an ordered list of named values.
// Padding fields are skipped. The payload may omit a trailing padding field
// but is otherwise required to cover the full layout.
func (s *Schema) Decode(data []byte) ([]util.Named[any], error) {
	if len(data) < s.DataSize() {
		return nil, ShortReadError{s.Name}
	}
	values := make([]util.Named[any], 0, len(s.flat))
	for _, f := range s.flat {
		if f.Padding {
			continue
		}
		end := f.Offset + f.Size()
		if end > len(data) {
			return nil, ShortReadError{f.Name}
		}
		values = append(values, util.NewNamed(f.Name, f.decode(data[f.Offset:end])))
	}
	return values, nil
}
