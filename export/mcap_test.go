package export_test

import (
	"bytes"
	"testing"

	fmcap "github.com/foxglove/mcap/go/mcap"
	"github.com/stretchr/testify/require"

	"github.com/flightlog/ulog/export"
	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/util/testutils"
)

func TestConvertMCAP(t *testing.T) {
	stream := testutils.Flatten(
		header(1, 0),
		frame(ulog.TagInfo, testutils.U8b(14), []byte("char[3] ver_sw"), []byte("1.0")),
		format("attitude:uint64 timestamp;float32 roll"),
		subscribe(0, 0, "attitude"),
		subscribe(1, 1, "attitude"),
		data(0, testutils.U64b(100), testutils.F32b(0.25)),
		data(1, testutils.U64b(100), testutils.F32b(0.5)),
		data(0, testutils.U64b(200), testutils.F32b(0.75)),
		frame(ulog.TagLog, testutils.U8b('3'), testutils.U64b(150), []byte("bad state")),
	)
	r, err := ulog.NewReader(bytes.NewReader(stream))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, export.ConvertMCAP(buf, r))

	reader, err := fmcap.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	info, err := reader.Info()
	require.NoError(t, err)
	require.Equal(t, uint64(4), info.Statistics.MessageCount)

	topics := map[string]bool{}
	for _, channel := range info.Channels {
		topics[channel.Topic] = true
	}
	require.True(t, topics["/attitude/0"])
	require.True(t, topics["/attitude/1"])
	require.True(t, topics["/log"])
}

func TestConvertMCAPEmptyStream(t *testing.T) {
	r, err := ulog.NewReader(bytes.NewReader(header(1, 0)))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, export.ConvertMCAP(buf, r))

	reader, err := fmcap.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	info, err := reader.Info()
	require.NoError(t, err)
	require.Equal(t, uint64(0), info.Statistics.MessageCount)
}
