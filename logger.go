package mixedsom

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with map-training context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithEpoch adds an epoch field to the logger.
func (l *Logger) WithEpoch(epoch int) *Logger {
	return &Logger{
		Logger: l.Logger.With("epoch", epoch),
	}
}

// WithGrid adds the grid size to the logger.
func (l *Logger) WithGrid(width, height int) *Logger {
	return &Logger{
		Logger: l.Logger.With("width", width, "height", height),
	}
}

// WithRun adds a run identifier to the logger.
func (l *Logger) WithRun(run string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", run),
	}
}

// LogEpoch logs a finished (or failed) epoch.
func (l *Logger) LogEpoch(ctx context.Context, epoch int, meanError float64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "epoch failed",
			"epoch", epoch,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "epoch completed",
			"epoch", epoch,
			"mean_error", meanError,
			"duration", duration,
		)
	}
}

// LogReallocation logs the outcome of one devouring pass.
func (l *Logger) LogReallocation(ctx context.Context, epoch int, r Reallocation) {
	if r.Pairs == 0 {
		return
	}
	if r.Fallbacks > 0 {
		l.WarnContext(ctx, "reseeded weak neurons from random records",
			"epoch", epoch,
			"fallbacks", r.Fallbacks,
		)
	}
	l.DebugContext(ctx, "weak neurons reallocated",
		"epoch", epoch,
		"weak", r.Weak,
		"patrons", r.Patrons,
		"pairs", r.Pairs,
		"swaps", r.Swaps,
		"reseeded", r.Reseeded,
	)
}

// LogClusterResult logs a cluster snapshot.
func (l *Logger) LogClusterResult(ctx context.Context, records int64, clusters, nonEmpty int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cluster snapshot failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "cluster snapshot produced",
			"records", records,
			"clusters", clusters,
			"non_empty", nonEmpty,
		)
	}
}

// LogTrainingStopped logs the end of a training loop.
func (l *Logger) LogTrainingStopped(ctx context.Context, epochs int, meanError float64, reason string, err error) {
	if err != nil {
		l.WarnContext(ctx, "training stopped",
			"epochs", epochs,
			"mean_error", meanError,
			"reason", reason,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "training finished",
			"epochs", epochs,
			"mean_error", meanError,
			"reason", reason,
		)
	}
}
