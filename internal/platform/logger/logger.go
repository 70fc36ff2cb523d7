package logger

import (
	"log/slog"
	"os"
)

// New returns the application logger. Development gets human-readable text
// output; everything else gets JSON for log shippers.
func New(environment string) *slog.Logger {
	var handler slog.Handler
	if environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, nil)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler).With("service", "vise-api", "environment", environment)
}
