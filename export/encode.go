package export

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/flightlog/ulog/util"
)

/*
Append-style JSON encoding for decoded field values. Data records dominate
export volume, so their payloads are formatted into a reused buffer instead of
going through reflection-based marshaling. Everything else (envelopes,
metadata) goes through go-json.
*/

////////////////////////////////////////////////////////////////////////////////

// appendValue appends the JSON encoding of a decoded field value to buf.
func appendValue(buf []byte, value any) []byte {
	switch v := value.(type) {
	case bool:
		return strconv.AppendBool(buf, v)
	case int8:
		return strconv.AppendInt(buf, int64(v), 10)
	case int16:
		return strconv.AppendInt(buf, int64(v), 10)
	case int32:
		return strconv.AppendInt(buf, int64(v), 10)
	case int64:
		return strconv.AppendInt(buf, v, 10)
	case uint8:
		return strconv.AppendUint(buf, uint64(v), 10)
	case uint16:
		return strconv.AppendUint(buf, uint64(v), 10)
	case uint32:
		return strconv.AppendUint(buf, uint64(v), 10)
	case uint64:
		return strconv.AppendUint(buf, v, 10)
	case float32:
		return appendFloat(buf, float64(v), 32)
	case float64:
		return appendFloat(buf, v, 64)
	case string:
		return appendString(buf, v)
	case []byte:
		buf = append(buf, '[')
		for i, b := range v {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendUint(buf, uint64(b), 10)
		}
		return append(buf, ']')
	case []bool:
		buf = append(buf, '[')
		for i, b := range v {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendBool(buf, b)
		}
		return append(buf, ']')
	case []any:
		buf = append(buf, '[')
		for i, item := range v {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = appendValue(buf, item)
		}
		return append(buf, ']')
	default:
		return appendString(buf, fmt.Sprintf("%v", v))
	}
}

// appendFloat appends a float as JSON. NaN and infinities have no JSON
// encoding and become null.
func appendFloat(buf []byte, v float64, bits int) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(buf, "null"...)
	}
	return strconv.AppendFloat(buf, v, 'f', -1, bits)
}

// appendString appends a JSON string. Char array values can contain embedded
// zero bytes and arbitrary garbage past the terminator, so this must escape.
func appendString(buf []byte, s string) []byte {
	data, _ := json.Marshal(s)
	return append(buf, data...)
}

// appendFields appends the fields of a data record as a JSON object, in
// declaration order.
func appendFields(buf []byte, fields []util.Named[any]) []byte {
	buf = append(buf, '{')
	for i, field := range fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendString(buf, field.Name)
		buf = append(buf, ':')
		buf = appendValue(buf, field.Value)
	}
	return append(buf, '}')
}
