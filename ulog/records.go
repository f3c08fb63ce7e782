package ulog

import (
	"time"

	"github.com/flightlog/ulog/util"
)

/*
Decoded records. Record is a closed union: the reader yields exactly these
types. Data records carry their decoded fields as an ordered list, preserving
the declaration order of the schema.
*/

////////////////////////////////////////////////////////////////////////////////

// Record is a decoded frame yielded by the reader.
type Record interface{ record() }

// Data is a decoded data frame.
type Data struct {
	MsgID     uint16
	MultiID   uint8
	Schema    string
	Timestamp uint64 // microseconds
	Fields    []util.Named[any]
}

// Value returns the decoded value of the named field.
func (d Data) Value(name string) (any, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Time returns the record timestamp.
func (d Data) Time() time.Time {
	return util.ParseMicros(d.Timestamp)
}

// Log is a logged text message.
type Log struct {
	Level     LogLevel
	Timestamp uint64 // microseconds
	Message   string
}

// TaggedLog is a logged text message with a numeric source tag.
type TaggedLog struct {
	Level     LogLevel
	Tag       uint16
	Timestamp uint64 // microseconds
	Message   string
}

// Dropout marks a span during which the writer lost messages.
type Dropout struct {
	Duration time.Duration
}

// Info is a key-value information message.
type Info struct {
	Key   string
	Value any
}

// MultiInfo is an info message whose key may carry multiple values, possibly
// continuing the previous list for the same key.
type MultiInfo struct {
	Key       string
	Value     any
	Continued bool
}

// Parameter is a named parameter value (float32 or int32).
type Parameter struct {
	Key   string
	Value any
}

// ParameterDefault is a default value for a parameter, with the default
// classes it belongs to.
type ParameterDefault struct {
	Key           string
	Value         any
	SystemWide    bool
	Configuration bool
}

// Diagnostic reports a frame that was skipped rather than decoded. It is
// yielded in-stream so callers see exactly where decoding self-healed.
type Diagnostic struct {
	Tag    byte
	Offset int64
	Err    error
}

func (Data) record()             {}
func (Log) record()              {}
func (TaggedLog) record()        {}
func (Dropout) record()          {}
func (Info) record()             {}
func (MultiInfo) record()        {}
func (Parameter) record()        {}
func (ParameterDefault) record() {}
func (Diagnostic) record()       {}
