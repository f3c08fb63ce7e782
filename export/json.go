package export

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/flightlog/ulog/ulog"
)

/*
Newline-delimited JSON export. Each record becomes one line with a "type"
discriminator. Data payloads are formatted with the append-style encoder to
preserve field declaration order; the other envelopes marshal through go-json.
*/

////////////////////////////////////////////////////////////////////////////////

// JSONWriter writes decoded records as newline-delimited JSON.
type JSONWriter struct {
	w   io.Writer
	buf []byte
}

// NewJSONWriter returns a JSON writer targeting w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

type logEnvelope struct {
	Type      string `json:"type"`
	Level     string `json:"level"`
	Tag       uint16 `json:"tag,omitempty"`
	Timestamp uint64 `json:"timestamp"`
	Message   string `json:"message"`
}

type dropoutEnvelope struct {
	Type       string `json:"type"`
	DurationMS int64  `json:"duration_ms"`
}

type keyValueEnvelope struct {
	Type      string `json:"type"`
	Key       string `json:"key"`
	Value     any    `json:"value"`
	Continued bool   `json:"continued,omitempty"`
}

type paramDefaultEnvelope struct {
	Type          string `json:"type"`
	Key           string `json:"key"`
	Value         any    `json:"value"`
	SystemWide    bool   `json:"system_wide"`
	Configuration bool   `json:"configuration"`
}

type diagnosticEnvelope struct {
	Type   string `json:"type"`
	Tag    string `json:"tag"`
	Offset int64  `json:"offset"`
	Error  string `json:"error"`
}

// WriteRecord writes one record as a single JSON line.
func (e *JSONWriter) WriteRecord(rec ulog.Record) error {
	switch r := rec.(type) {
	case ulog.Data:
		return e.writeData(r)
	case ulog.Log:
		return e.encode(logEnvelope{
			Type:      "log",
			Level:     r.Level.String(),
			Timestamp: r.Timestamp,
			Message:   r.Message,
		})
	case ulog.TaggedLog:
		return e.encode(logEnvelope{
			Type:      "tagged_log",
			Level:     r.Level.String(),
			Tag:       r.Tag,
			Timestamp: r.Timestamp,
			Message:   r.Message,
		})
	case ulog.Dropout:
		return e.encode(dropoutEnvelope{Type: "dropout", DurationMS: r.Duration.Milliseconds()})
	case ulog.Info:
		return e.encode(keyValueEnvelope{Type: "info", Key: r.Key, Value: r.Value})
	case ulog.MultiInfo:
		return e.encode(keyValueEnvelope{
			Type:      "multi_info",
			Key:       r.Key,
			Value:     r.Value,
			Continued: r.Continued,
		})
	case ulog.Parameter:
		return e.encode(keyValueEnvelope{Type: "parameter", Key: r.Key, Value: r.Value})
	case ulog.ParameterDefault:
		return e.encode(paramDefaultEnvelope{
			Type:          "parameter_default",
			Key:           r.Key,
			Value:         r.Value,
			SystemWide:    r.SystemWide,
			Configuration: r.Configuration,
		})
	case ulog.Diagnostic:
		return e.encode(diagnosticEnvelope{
			Type:   "diagnostic",
			Tag:    string(r.Tag),
			Offset: r.Offset,
			Error:  r.Err.Error(),
		})
	default:
		return fmt.Errorf("unhandled record type %T", rec)
	}
}

func (e *JSONWriter) writeData(r ulog.Data) error {
	e.buf = e.buf[:0]
	e.buf = append(e.buf, `{"type":"data","schema":`...)
	e.buf = appendString(e.buf, r.Schema)
	e.buf = append(e.buf, `,"multi_id":`...)
	e.buf = appendValue(e.buf, r.MultiID)
	e.buf = append(e.buf, `,"timestamp":`...)
	e.buf = appendValue(e.buf, r.Timestamp)
	e.buf = append(e.buf, `,"fields":`...)
	e.buf = appendFields(e.buf, r.Fields)
	e.buf = append(e.buf, '}', '\n')
	if _, err := e.w.Write(e.buf); err != nil {
		return fmt.Errorf("failed to write data record: %w", err)
	}
	return nil
}

func (e *JSONWriter) encode(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := e.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}
