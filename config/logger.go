package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process-wide JSON logger. Every record carries the
// service name and hostname.
func NewLogger(service string, production bool) *slog.Logger {
	return newLogger(os.Stdout, service, production)
}

func newLogger(w io.Writer, service string, production bool) *slog.Logger {
	level := slog.LevelDebug
	if production {
		level = slog.LevelInfo
	}
	hostname, _ := os.Hostname()
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", service, "hostname", hostname)
}
