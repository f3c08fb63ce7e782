package ulog_test

import (
	"testing"

	"github.com/flightlog/ulog/ulog"
	"github.com/stretchr/testify/require"
)

func TestLogLevelStrings(t *testing.T) {
	cases := []struct {
		level ulog.LogLevel
		text  string
	}{
		{ulog.LevelEmergency, "EMERGENCY"},
		{ulog.LevelAlert, "ALERT"},
		{ulog.LevelCritical, "CRITICAL"},
		{ulog.LevelError, "ERROR"},
		{ulog.LevelWarning, "WARNING"},
		{ulog.LevelNotice, "NOTICE"},
		{ulog.LevelInfo, "INFO"},
		{ulog.LevelDebug, "DEBUG"},
		{ulog.LogLevel(42), "UNKNOWN"},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			require.Equal(t, c.text, c.level.String())
		})
	}
}
