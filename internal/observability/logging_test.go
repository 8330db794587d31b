package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestContextValues(t *testing.T) {
	ctx := WithStage(WithRunID(context.Background(), "run-1"), "ingestion")
	require.Equal(t, LogContext{RunID: "run-1", Stage: "ingestion"}, FromContext(ctx))

	ctx = WithStage(ctx, "query")
	require.Equal(t, "run-1", FromContext(ctx).RunID)
	require.Equal(t, "query", FromContext(ctx).Stage)

	require.Equal(t, LogContext{}, FromContext(context.Background()))
}

func TestInfoContext_AddsAttributes(t *testing.T) {
	buf := captureLogs(t)
	ctx := WithStage(WithRunID(context.Background(), "run-1"), "registration")

	InfoContext(ctx, "Pages registered", slog.Int("count", 3))

	out := buf.String()
	require.Contains(t, out, "run_id=run-1")
	require.Contains(t, out, "stage=registration")
	require.Contains(t, out, "count=3")
}

func TestDebugContext_WithoutValues(t *testing.T) {
	buf := captureLogs(t)
	DebugContext(context.Background(), "plain")
	require.Contains(t, buf.String(), "msg=plain")
	require.NotContains(t, buf.String(), "run_id")
}
