package export_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/flightlog/ulog/export"
	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/util/testutils"
	"github.com/stretchr/testify/require"
)

func header(version uint8, timestamp uint64) []byte {
	return testutils.Flatten(
		[]byte{0x55, 0x4c, 0x6f, 0x67, 0x01, 0x12, 0x35},
		testutils.U8b(version),
		testutils.U64b(timestamp),
	)
}

func frame(tag byte, parts ...[]byte) []byte {
	payload := testutils.Flatten(parts...)
	return testutils.Flatten(
		testutils.U16b(uint16(len(payload))),
		testutils.U8b(tag),
		payload,
	)
}

func format(definition string) []byte {
	return frame(ulog.TagFormat, []byte(definition))
}

func subscribe(multiID uint8, msgID uint16, name string) []byte {
	return frame(ulog.TagAddSubscription, testutils.U8b(multiID), testutils.U16b(msgID), []byte(name))
}

func data(msgID uint16, payload ...[]byte) []byte {
	return frame(ulog.TagData, testutils.Flatten(testutils.U16b(msgID), testutils.Flatten(payload...)))
}

func reader(t *testing.T, stream []byte) *ulog.Reader {
	t.Helper()
	r, err := ulog.NewReader(bytes.NewReader(stream))
	require.NoError(t, err)
	return r
}

func drainInto(t *testing.T, r *ulog.Reader, write func(ulog.Record) error) {
	t.Helper()
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
		require.NoError(t, write(record))
	}
}

func TestJSONExport(t *testing.T) {
	stream := testutils.Flatten(
		header(1, 0),
		format("light:bool on;float32 brightness"),
		subscribe(0, 3, "light"),
		frame(ulog.TagLog, testutils.U8b('6'), testutils.U64b(12), []byte("hello")),
		data(3, testutils.Boolb(true), testutils.F32b(1.0)),
		frame(ulog.TagDropout, testutils.U16b(250)),
	)
	r := reader(t, stream)
	buf := &bytes.Buffer{}
	writer := export.NewJSONWriter(buf)
	drainInto(t, r, writer.WriteRecord)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		`{"type":"log","level":"INFO","timestamp":12,"message":"hello"}`,
		`{"type":"data","schema":"light","multi_id":0,"timestamp":0,"fields":{"on":true,"brightness":1}}`,
		`{"type":"dropout","duration_ms":250}`,
	}, lines)
}

func TestJSONExportArraysAndStrings(t *testing.T) {
	stream := testutils.Flatten(
		header(1, 0),
		format("status:char[3] name;uint8[2] counts"),
		subscribe(0, 1, "status"),
		data(1, []byte("pxl"), testutils.U8b(7), testutils.U8b(9)),
	)
	r := reader(t, stream)
	buf := &bytes.Buffer{}
	writer := export.NewJSONWriter(buf)
	drainInto(t, r, writer.WriteRecord)

	require.Equal(t,
		`{"type":"data","schema":"status","multi_id":0,"timestamp":0,`+
			`"fields":{"name":"pxl","counts":[7,9]}}`+"\n",
		buf.String())
}

func TestJSONExportDiagnostics(t *testing.T) {
	stream := testutils.Flatten(
		header(1, 0),
		format("oops"),
	)
	r := reader(t, stream)
	buf := &bytes.Buffer{}
	writer := export.NewJSONWriter(buf)
	drainInto(t, r, writer.WriteRecord)

	require.Contains(t, buf.String(), `"type":"diagnostic"`)
	require.Contains(t, buf.String(), `"tag":"F"`)
}

func TestJSONExportTimestampedData(t *testing.T) {
	stream := testutils.Flatten(
		header(1, 0),
		format("attitude:uint64 timestamp;float32 roll"),
		subscribe(0, 0, "attitude"),
		data(0, testutils.U64b(42), testutils.F32b(0.5)),
	)
	r := reader(t, stream)
	buf := &bytes.Buffer{}
	writer := export.NewJSONWriter(buf)
	drainInto(t, r, writer.WriteRecord)

	require.Equal(t,
		`{"type":"data","schema":"attitude","multi_id":0,"timestamp":42,`+
			`"fields":{"timestamp":42,"roll":0.5}}`+"\n",
		buf.String())
}
