package mixedsom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		out = append(out, line)
	}
	return out
}

func TestLogger_LogEpoch(t *testing.T) {
	ctx := context.Background()
	logger, buf := captureLogger(slog.LevelDebug)

	logger.WithRun("r1").LogEpoch(ctx, 3, 0.25, time.Millisecond, nil)
	logger.LogEpoch(ctx, 4, 0, 0, errors.New("boom"))

	lines := logLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "epoch completed", lines[0]["msg"])
	assert.Equal(t, "r1", lines[0]["run"])
	assert.EqualValues(t, 3, lines[0]["epoch"])
	assert.EqualValues(t, 0.25, lines[0]["mean_error"])
	assert.Equal(t, "ERROR", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestLogger_LogReallocation(t *testing.T) {
	ctx := context.Background()
	logger, buf := captureLogger(slog.LevelDebug)

	logger.LogReallocation(ctx, 1, Reallocation{Weak: 3})
	assert.Empty(t, logLines(t, buf), "nothing logged without pairs")

	logger.LogReallocation(ctx, 2, Reallocation{Weak: 2, Patrons: 1, Pairs: 1, Swaps: 4, Reseeded: 1, Fallbacks: 1})
	lines := logLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.EqualValues(t, 1, lines[0]["fallbacks"])
	assert.Equal(t, "weak neurons reallocated", lines[1]["msg"])
	assert.EqualValues(t, 4, lines[1]["swaps"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	ctx := context.Background()
	logger, buf := captureLogger(slog.LevelInfo)

	logger.LogEpoch(ctx, 1, 0.5, time.Second, nil)
	logger.LogTrainingStopped(ctx, 1, 0.5, StopEpochLimit.String(), nil)

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "training finished", lines[0]["msg"])
	assert.Equal(t, "epoch limit", lines[0]["reason"])
}

func TestWithLogLevel(t *testing.T) {
	opts := applyOptions([]Option{WithLogLevel(slog.LevelWarn)})
	require.NotNil(t, opts.logger)
	assert.False(t, opts.logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, opts.logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestNoopLogger(t *testing.T) {
	logger := NoopLogger()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	logger.LogClusterResult(context.Background(), 1, 1, 1, nil)
}
