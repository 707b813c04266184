package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger_WritesKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := context.Background()

	log.Info(ctx, "session check finished", "state", "authenticated")
	require.Contains(t, buf.String(), "session check finished")
	require.Contains(t, buf.String(), "state=authenticated")

	buf.Reset()
	log.Debug(ctx, "outgoing request", "method", "GET")
	require.Contains(t, buf.String(), "method=GET")
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	child := log.With("component", "session")
	child.Warn(context.Background(), "token missing")
	require.Contains(t, buf.String(), "component=session")
	require.Contains(t, buf.String(), "token missing")
}
