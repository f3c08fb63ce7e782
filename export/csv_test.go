package export_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/flightlog/ulog/export"
	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/util/testutils"
	"github.com/stretchr/testify/require"
)

// collectData drains the stream and returns its data records. Formats are only
// registered as frames are consumed, so resolution must happen after this.
func collectData(t *testing.T, r *ulog.Reader) []ulog.Data {
	t.Helper()
	records := []ulog.Data{}
	for {
		record, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records
		}
		require.NoError(t, err)
		if d, ok := record.(ulog.Data); ok {
			records = append(records, d)
		}
	}
}

func TestCSVExport(t *testing.T) {
	stream := testutils.Flatten(
		header(1, 0),
		format("attitude:uint64 timestamp;float32 roll;bool valid"),
		subscribe(0, 0, "attitude"),
		data(0, testutils.U64b(100), testutils.F32b(0.25), testutils.Boolb(true)),
		data(0, testutils.U64b(200), testutils.F32b(-1.5), testutils.Boolb(false)),
	)
	r := reader(t, stream)
	records := collectData(t, r)
	s, err := r.Session().Formats().Resolve("attitude")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	writer := export.NewCSVWriter(buf, s)
	for _, d := range records {
		require.NoError(t, writer.WriteData(d))
	}
	require.NoError(t, writer.Close())

	require.Equal(t,
		"timestamp,roll,valid\n"+
			"100,0.25,true\n"+
			"200,-1.5,false\n",
		buf.String())
}

func TestCSVExportArrays(t *testing.T) {
	stream := testutils.Flatten(
		header(1, 0),
		format("gyro:uint64 timestamp;float32[2] rates"),
		subscribe(0, 0, "gyro"),
		data(0, testutils.U64b(5), testutils.F32b(1.5), testutils.F32b(2.5)),
	)
	r := reader(t, stream)
	records := collectData(t, r)
	s, err := r.Session().Formats().Resolve("gyro")
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	writer := export.NewCSVWriter(buf, s)
	for _, d := range records {
		require.NoError(t, writer.WriteData(d))
	}
	require.NoError(t, writer.Close())

	require.Equal(t,
		"timestamp,rates\n"+
			"5,\"[1.5,2.5]\"\n",
		buf.String())
}
