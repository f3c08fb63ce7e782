package log_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/flightlog/ulog/util/log"
	"github.com/stretchr/testify/require"
)

func TestContextTags(t *testing.T) {
	buf := &bytes.Buffer{}
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, nil)))
	defer slog.SetDefault(old)

	ctx := log.AddTags(context.Background(), "session", "abc123")
	log.Infow(ctx, "decoded frame", "tag", "D")

	out := buf.String()
	require.Contains(t, out, "decoded frame")
	require.Contains(t, out, "session=abc123")
	require.Contains(t, out, "tag=D")
}

func TestAddTagsRequiresEvenArguments(t *testing.T) {
	require.Panics(t, func() {
		log.AddTags(context.Background(), "odd")
	})
}
