package logger

import (
	"log/slog"
	"os"
)

// New returns the JSON slog logger services and handlers are constructed with.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
