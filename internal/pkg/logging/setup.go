package logging

import (
	"log/slog"
	"os"
)

// SetupLogger configures the global logger for a service. All output goes to
// stdout as text; the service name rides along on every record.
func SetupLogger(serviceName string, level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler).With("service", serviceName)
	slog.SetDefault(logger)

	return logger
}
