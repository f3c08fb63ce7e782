package ulog_test

import (
	"testing"

	"github.com/flightlog/ulog/ulog"
	"github.com/stretchr/testify/require"
)

func TestSessionSubscriptions(t *testing.T) {
	session := ulog.NewSession(ulog.Header{Version: 1, Timestamp: 100})
	session.Subscribe(30, "vehicle_status", 0)
	session.Subscribe(10, "sensor_gyro", 1)
	session.Subscribe(20, "sensor_accel", 0)

	subs := session.Subscriptions()
	require.Equal(t, []ulog.Subscription{
		{MsgID: 10, MultiID: 1, Schema: "sensor_gyro"},
		{MsgID: 20, MultiID: 0, Schema: "sensor_accel"},
		{MsgID: 30, MultiID: 0, Schema: "vehicle_status"},
	}, subs)
}

func TestSessionResubscribeOverwrites(t *testing.T) {
	session := ulog.NewSession(ulog.Header{})
	session.Subscribe(5, "sensor_gyro", 0)
	session.Subscribe(5, "sensor_accel", 2)

	sub, ok := session.Lookup(5)
	require.True(t, ok)
	require.Equal(t, "sensor_accel", sub.Schema)
	require.Equal(t, uint8(2), sub.MultiID)
	require.Len(t, session.Subscriptions(), 1)
}

func TestSessionUnsubscribe(t *testing.T) {
	session := ulog.NewSession(ulog.Header{})
	session.Subscribe(5, "sensor_gyro", 0)

	require.True(t, session.Unsubscribe(5))
	_, ok := session.Lookup(5)
	require.False(t, ok)
	require.False(t, session.Unsubscribe(5))
}

func TestSessionFlagBits(t *testing.T) {
	session := ulog.NewSession(ulog.Header{})
	_, ok := session.FlagBits()
	require.False(t, ok)

	session.SetFlagBits(ulog.FlagBits{
		Incompat:        [8]uint8{0x01},
		AppendedOffsets: [3]uint64{1024},
	})
	flags, ok := session.FlagBits()
	require.True(t, ok)
	require.True(t, flags.DataAppended())
	require.Equal(t, uint64(1024), flags.AppendedOffsets[0])
}

func TestSessionHeader(t *testing.T) {
	session := ulog.NewSession(ulog.Header{Version: 1, Timestamp: 1700000000000000})
	require.Equal(t, uint8(1), session.Header().Version)
	require.Equal(t, int64(1700000000), session.Header().Time().Unix())
}
