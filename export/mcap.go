package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	fmcap "github.com/foxglove/mcap/go/mcap"

	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/ulog/schema"
)

/*
MCAP conversion. Each subscription becomes a channel with a jsonschema-encoded
schema and JSON-encoded messages, so converted logs open directly in standard
MCAP tooling. Session info and parameters land in metadata records after the
message data.
*/

////////////////////////////////////////////////////////////////////////////////

const megabyte = 1 << 20

func newMCAPWriter(w io.Writer) (*fmcap.Writer, error) {
	writer, err := fmcap.NewWriter(w, &fmcap.WriterOptions{
		IncludeCRC:  true,
		Chunked:     true,
		ChunkSize:   4 * megabyte,
		Compression: "zstd",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build writer: %w", err)
	}
	return writer, nil
}

type mcapConverter struct {
	writer    *fmcap.Writer
	schemas   map[string]uint16
	channels  map[string]uint16
	sequences map[uint16]uint32
	buf       []byte

	nextSchemaID  uint16
	nextChannelID uint16
}

// ConvertMCAP decodes the stream r and writes it to w as an MCAP file.
// Frame-local diagnostics are dropped; truncation terminates normally.
func ConvertMCAP(w io.Writer, r *ulog.Reader) error {
	writer, err := newMCAPWriter(w)
	if err != nil {
		return err
	}
	if err := writer.WriteHeader(&fmcap.Header{Library: "ulog"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	c := &mcapConverter{
		writer:       writer,
		schemas:      make(map[string]uint16),
		channels:     make(map[string]uint16),
		sequences:    make(map[uint16]uint32),
		nextSchemaID: 1,
	}
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		switch rec := rec.(type) {
		case ulog.Data:
			if err := c.writeData(rec, r.Session()); err != nil {
				return err
			}
		case ulog.Log:
			if err := c.writeLog(rec.Level, 0, rec.Timestamp, rec.Message); err != nil {
				return err
			}
		case ulog.TaggedLog:
			if err := c.writeLog(rec.Level, rec.Tag, rec.Timestamp, rec.Message); err != nil {
				return err
			}
		}
	}
	if err := writeMetadata(writer, "info", r.Session().Infos()); err != nil {
		return err
	}
	if err := writeMetadata(writer, "parameters", r.Session().Parameters()); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

func (c *mcapConverter) writeData(rec ulog.Data, session *ulog.Session) error {
	topic := "/" + rec.Schema + "/" + strconv.Itoa(int(rec.MultiID))
	channelID, ok := c.channels[topic]
	if !ok {
		schemaID, ok := c.schemas[rec.Schema]
		if !ok {
			resolved, err := session.Formats().Resolve(rec.Schema)
			if err != nil {
				return fmt.Errorf("failed to resolve schema: %w", err)
			}
			schemaID = c.nextSchemaID
			c.nextSchemaID++
			if err := c.writer.WriteSchema(&fmcap.Schema{
				ID:       schemaID,
				Name:     rec.Schema,
				Encoding: "jsonschema",
				Data:     jsonSchema(resolved),
			}); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
			c.schemas[rec.Schema] = schemaID
		}
		channelID = c.nextChannelID
		c.nextChannelID++
		if err := c.writer.WriteChannel(&fmcap.Channel{
			ID:              channelID,
			SchemaID:        schemaID,
			Topic:           topic,
			MessageEncoding: "json",
		}); err != nil {
			return fmt.Errorf("failed to write channel: %w", err)
		}
		c.channels[topic] = channelID
	}
	sequence := c.sequences[channelID]
	c.sequences[channelID] = sequence + 1
	c.buf = appendFields(c.buf[:0], rec.Fields)
	logTime := rec.Timestamp * 1000 // microseconds to nanoseconds
	if err := c.writer.WriteMessage(&fmcap.Message{
		ChannelID:   channelID,
		Sequence:    sequence,
		LogTime:     logTime,
		PublishTime: logTime,
		Data:        c.buf,
	}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (c *mcapConverter) writeLog(level ulog.LogLevel, tag uint16, timestamp uint64, message string) error {
	channelID, ok := c.channels["/log"]
	if !ok {
		schemaID := c.nextSchemaID
		c.nextSchemaID++
		if err := c.writer.WriteSchema(&fmcap.Schema{
			ID:       schemaID,
			Name:     "log",
			Encoding: "jsonschema",
			Data: []byte(`{"type":"object","properties":{` +
				`"level":{"type":"string"},` +
				`"tag":{"type":"integer"},` +
				`"message":{"type":"string"}}}`),
		}); err != nil {
			return fmt.Errorf("failed to write log schema: %w", err)
		}
		channelID = c.nextChannelID
		c.nextChannelID++
		if err := c.writer.WriteChannel(&fmcap.Channel{
			ID:              channelID,
			SchemaID:        schemaID,
			Topic:           "/log",
			MessageEncoding: "json",
		}); err != nil {
			return fmt.Errorf("failed to write log channel: %w", err)
		}
		c.channels["/log"] = channelID
	}
	c.buf = append(c.buf[:0], `{"level":`...)
	c.buf = appendString(c.buf, level.String())
	c.buf = append(c.buf, `,"tag":`...)
	c.buf = strconv.AppendUint(c.buf, uint64(tag), 10)
	c.buf = append(c.buf, `,"message":`...)
	c.buf = appendString(c.buf, message)
	c.buf = append(c.buf, '}')
	sequence := c.sequences[channelID]
	c.sequences[channelID] = sequence + 1
	logTime := timestamp * 1000
	if err := c.writer.WriteMessage(&fmcap.Message{
		ChannelID:   channelID,
		Sequence:    sequence,
		LogTime:     logTime,
		PublishTime: logTime,
		Data:        c.buf,
	}); err != nil {
		return fmt.Errorf("failed to write log message: %w", err)
	}
	return nil
}

func writeMetadata(writer *fmcap.Writer, name string, values map[string]any) error {
	if len(values) == 0 {
		return nil
	}
	metadata := make(map[string]string, len(values))
	for key, value := range values {
		metadata[key] = formatCell(value)
	}
	if err := writer.WriteMetadata(&fmcap.Metadata{Name: name, Metadata: metadata}); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

// jsonSchema renders a schema as a jsonschema document matching the JSON
// encoding of its decoded records.
func jsonSchema(s *schema.Schema) []byte {
	buf := append([]byte{}, `{"type":"object","properties":{`...)
	first := true
	for _, f := range s.Flat() {
		if f.Padding {
			continue
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		buf = appendString(buf, f.Name)
		buf = append(buf, ':')
		buf = append(buf, jsonType(f)...)
	}
	return append(buf, '}', '}')
}

func jsonType(f schema.FlatField) string {
	scalar := func(t schema.PrimitiveType) string {
		switch t {
		case schema.BOOL:
			return `{"type":"boolean"}`
		case schema.FLOAT32, schema.FLOAT64:
			return `{"type":"number"}`
		case schema.CHAR:
			return `{"type":"string"}`
		default:
			return `{"type":"integer"}`
		}
	}
	if f.ArrayLen > 0 && f.Type != schema.CHAR {
		return `{"type":"array","items":` + scalar(f.Type) + `}`
	}
	return scalar(f.Type)
}
