package log

import (
	"context"
	"log/slog"
	"os"
)

var (
	defaultLevel  slog.LevelVar
	defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     &defaultLevel,
	}))
)

func init() {
	defaultLevel.Set(slog.LevelInfo)
}

type contextKey struct{}

var loggerKey = contextKey{}

// Ctx returns the logger stored in the context, or the default logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a new context carrying the given logger.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// SetDefaultLevel adjusts the level of the default logger.
func SetDefaultLevel(level slog.Level) {
	defaultLevel.Set(level)
}
