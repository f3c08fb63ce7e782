package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/ulog/schema"
)

/*
CSV export for a single subscription's data records. Columns are the schema's
flat fields in declaration order. Array-valued fields are rendered as JSON
arrays within the cell.
*/

////////////////////////////////////////////////////////////////////////////////

// CSVWriter writes the data records of one schema as CSV, header row first.
type CSVWriter struct {
	w           *csv.Writer
	columns     []string
	wroteHeader bool
}

// NewCSVWriter returns a CSV writer for records of the given schema.
func NewCSVWriter(w io.Writer, s *schema.Schema) *CSVWriter {
	columns := []string{}
	for _, f := range s.Flat() {
		if f.Padding {
			continue
		}
		columns = append(columns, f.Name)
	}
	return &CSVWriter{w: csv.NewWriter(w), columns: columns}
}

// WriteData writes one data record as a CSV row.
func (c *CSVWriter) WriteData(d ulog.Data) error {
	if !c.wroteHeader {
		if err := c.w.Write(c.columns); err != nil {
			return fmt.Errorf("failed to write header row: %w", err)
		}
		c.wroteHeader = true
	}
	row := make([]string, len(d.Fields))
	for i, field := range d.Fields {
		row[i] = formatCell(field.Value)
	}
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Close flushes buffered rows.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func formatCell(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return string(appendValue(nil, v))
	}
}
